package dto

import "time"

type ItemStatusResponse struct {
	ItemID    int        `json:"item_id"`
	VehicleID int        `json:"vehicle_id"`
	Status    string     `json:"status"`
	Time      *time.Time `json:"time,omitempty"`
	Predicted bool       `json:"predicted"`
	Address   string     `json:"address"`
	Deadline  time.Time  `json:"deadline"`
	Late      bool       `json:"late"`
}

type ListItemsResponse struct {
	At    time.Time            `json:"at"`
	Items []ItemStatusResponse `json:"items"`
}
