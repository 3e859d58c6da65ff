package dto

import "time"

type PlanLegResponse struct {
	From               int       `json:"from"`
	To                 int       `json:"to"`
	Destination        string    `json:"destination,omitempty"`
	Distance           float64   `json:"distance"`
	DepartAt           time.Time `json:"depart_at"`
	ArriveAt           time.Time `json:"arrive_at"`
	CumulativeDistance float64   `json:"cumulative_distance"`
	ItemIDs            []int     `json:"item_ids"`
}

type PlanResponse struct {
	VehicleID     int               `json:"vehicle_id"`
	DepartAt      time.Time         `json:"depart_at"`
	FinishAt      time.Time         `json:"finish_at"`
	TotalDistance float64           `json:"total_distance"`
	Route         []int             `json:"route"`
	Legs          []PlanLegResponse `json:"legs"`
}

type ListPlanResponse struct {
	TotalDistance float64        `json:"total_distance"`
	Plans         []PlanResponse `json:"plans"`
}
