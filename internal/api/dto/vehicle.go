package dto

import "time"

type VehiclePositionResponse struct {
	VehicleID int       `json:"vehicle_id"`
	DepartAt  time.Time `json:"depart_at"`
	Location  int       `json:"location"`
	Address   string    `json:"address,omitempty"`
	Mileage   float64   `json:"mileage"`
	ItemIDs   []int     `json:"item_ids"`
}

type ListVehiclesResponse struct {
	At           time.Time                 `json:"at"`
	FleetMileage float64                   `json:"fleet_mileage"`
	TotalMileage float64                   `json:"total_mileage"`
	Vehicles     []VehiclePositionResponse `json:"vehicles"`
}
