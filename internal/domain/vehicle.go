package domain

import (
	"fmt"
	"slices"
	"time"
)

const (
	FleetSize       = 3
	VehicleCapacity = 16
)

// Delivery vehicle holding item ids and the route that serves them.
// Items are referenced by id; the Registry owns the item values.
type Vehicle struct {
	ID       int
	Capacity int
	Speed    float64 // distance units per hour
	Hub      int

	// ScheduledDepartAt is the configured departure. DepartAt may be pushed
	// later when the vehicle waits for another vehicle's driver.
	ScheduledDepartAt time.Time
	DepartAt          time.Time
	ReturnToHub       bool
	WaitsFor          int

	Items    []int
	Route    []int
	Distance float64
}

func NewVehicle(id int, capacity int, speed float64, hub int, departAt time.Time) *Vehicle {
	return &Vehicle{
		ID:                id,
		Capacity:          capacity,
		Speed:             speed,
		Hub:               hub,
		ScheduledDepartAt: departAt,
		DepartAt:          departAt,
	}
}

// Load a single item onto the vehicle, respecting capacity.
func (v *Vehicle) Load(item *Item) error {
	if len(v.Items) >= v.Capacity {
		return fmt.Errorf("load vehicle: vehicle %d is at full capacity (capacity=%d): %w", v.ID, v.Capacity, ErrCapacityExceeded)
	}
	return v.ForceLoad(item)
}

// ForceLoad places an item without the capacity check. Used for hard
// constraints and for count-neutral swaps.
func (v *Vehicle) ForceLoad(item *Item) error {
	if item.VehicleID != 0 && item.VehicleID != v.ID {
		return fmt.Errorf("load vehicle %d: item %d held by vehicle %d: %w", v.ID, item.ID, item.VehicleID, ErrAlreadyAssigned)
	}
	if v.Has(item.ID) {
		return nil
	}
	v.Items = append(v.Items, item.ID)
	item.VehicleID = v.ID
	return nil
}

// Unload releases an item so another vehicle may take it.
func (v *Vehicle) Unload(item *Item) error {
	i := slices.Index(v.Items, item.ID)
	if i < 0 {
		return fmt.Errorf("unload vehicle %d: item %d: %w", v.ID, item.ID, ErrNotFound)
	}
	v.Items = slices.Delete(v.Items, i, i+1)
	item.VehicleID = 0
	item.DispatchedAt = nil
	item.DeliveredAt = nil
	item.Status = StatusAtHub
	return nil
}

func (v *Vehicle) Has(id int) bool { return slices.Contains(v.Items, id) }

func (v *Vehicle) Full() bool { return len(v.Items) >= v.Capacity }

// VehicleState is a copy of a vehicle's mutable state.
type VehicleState struct {
	Items    []int
	Route    []int
	Distance float64
	DepartAt time.Time
}

func (v *Vehicle) State() VehicleState {
	return VehicleState{
		Items:    slices.Clone(v.Items),
		Route:    slices.Clone(v.Route),
		Distance: v.Distance,
		DepartAt: v.DepartAt,
	}
}

func (v *Vehicle) Restore(s VehicleState) {
	v.Items = slices.Clone(s.Items)
	v.Route = slices.Clone(s.Route)
	v.Distance = s.Distance
	v.DepartAt = s.DepartAt
}
