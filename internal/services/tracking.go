package services

import (
	"fmt"
	"parcel-routing-service/internal/domain"
	"slices"
	"time"
)

// StatusReport is an item's state at a query time. Time is the delivery time
// when delivered, otherwise the planned delivery time with Predicted set.
type StatusReport struct {
	ItemID    int
	VehicleID int
	Status    domain.ItemStatus
	Time      time.Time
	Predicted bool
	Address   string
	Deadline  time.Time
}

// VehiclePosition pairs a vehicle with its interpolated position.
type VehiclePosition struct {
	VehicleID int
	domain.Position
}

// Dispatch is a finished plan. Its queries are read-only and safe for
// concurrent use once planning has returned.
type Dispatch struct {
	registry  *domain.Registry
	vehicles  []*domain.Vehicle
	schedules map[int]*domain.Schedule
}

func NewDispatch(reg *domain.Registry, vehicles []*domain.Vehicle, schedules map[int]*domain.Schedule) *Dispatch {
	return &Dispatch{registry: reg, vehicles: byID(vehicles), schedules: schedules}
}

// StatusAt reports an item's status at t.
func (d *Dispatch) StatusAt(itemID int, t time.Time) (StatusReport, error) {
	item, err := d.registry.Get(itemID)
	if err != nil {
		return StatusReport{}, fmt.Errorf("status at: %w", err)
	}
	return d.report(item, t), nil
}

func (d *Dispatch) report(item *domain.Item, t time.Time) StatusReport {
	r := StatusReport{
		ItemID:    item.ID,
		VehicleID: item.VehicleID,
		Status:    domain.StatusAtHub,
		Address:   item.AddressAt(t),
		Deadline:  item.Deadline,
	}
	if item.DeliveredAt != nil {
		r.Time = *item.DeliveredAt
	}

	switch {
	case item.DispatchedAt == nil || t.Before(*item.DispatchedAt):
		r.Predicted = item.DeliveredAt != nil
	case item.DeliveredAt == nil || t.Before(*item.DeliveredAt):
		r.Status = domain.StatusEnRoute
		r.Predicted = item.DeliveredAt != nil
	default:
		r.Status = domain.StatusDelivered
	}
	return r
}

// Statuses reports every item at t in registry order.
func (d *Dispatch) Statuses(t time.Time) []StatusReport {
	out := make([]StatusReport, 0, d.registry.Len())
	for item := range d.registry.All() {
		out = append(out, d.report(item, t))
	}
	return out
}

// VehiclePositionAt returns where a vehicle is at t and how far it has driven.
func (d *Dispatch) VehiclePositionAt(vehicleID int, t time.Time) (domain.Position, error) {
	sched, ok := d.schedules[vehicleID]
	if !ok {
		return domain.Position{}, fmt.Errorf("vehicle position at: vehicle %d: %w", vehicleID, domain.ErrNotFound)
	}
	return sched.PositionAt(t), nil
}

func (d *Dispatch) Positions(t time.Time) []VehiclePosition {
	out := make([]VehiclePosition, 0, len(d.vehicles))
	for _, v := range d.vehicles {
		if sched, ok := d.schedules[v.ID]; ok {
			out = append(out, VehiclePosition{VehicleID: v.ID, Position: sched.PositionAt(t)})
		}
	}
	return out
}

// FleetMileageAt sums the interpolated mileage of every vehicle at t.
func (d *Dispatch) FleetMileageAt(t time.Time) float64 {
	total := 0.0
	for _, v := range d.vehicles {
		if sched, ok := d.schedules[v.ID]; ok {
			total += sched.PositionAt(t).Mileage
		}
	}
	return total
}

func (d *Dispatch) TotalMileage() float64 {
	total := 0.0
	for _, v := range d.vehicles {
		total += v.Distance
	}
	return total
}

// Schedules returns the simulated timetables ordered by vehicle id.
func (d *Dispatch) Schedules() []*domain.Schedule {
	out := make([]*domain.Schedule, 0, len(d.schedules))
	for _, v := range d.vehicles {
		if sched, ok := d.schedules[v.ID]; ok {
			out = append(out, sched)
		}
	}
	return out
}

func (d *Dispatch) Vehicles() []*domain.Vehicle { return slices.Clone(d.vehicles) }

func (d *Dispatch) Vehicle(id int) (*domain.Vehicle, error) {
	for _, v := range d.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("vehicle %d: %w", id, domain.ErrNotFound)
}
