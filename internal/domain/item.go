package domain

import "time"

// NoLocation marks an item whose address did not resolve to a matrix index.
const NoLocation = -1

type ItemStatus int

const (
	StatusAtHub ItemStatus = iota
	StatusEnRoute
	StatusDelivered
)

func (s ItemStatus) String() string {
	switch s {
	case StatusEnRoute:
		return "en route"
	case StatusDelivered:
		return "delivered"
	default:
		return "at hub"
	}
}

// ItemRecord is a raw row from an item source, before parsing and resolution.
type ItemRecord struct {
	ID       int    `json:"id" validate:"gt=0"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Deadline string `json:"deadline"` // empty or "EOD" means end of day
	Weight   int    `json:"weight" validate:"gte=0"`
	Note     string `json:"note"`
}

// Represents a single delivery item handled by the system.
// Address fields, deadline and constraint are fixed at import. VehicleID,
// Status and the dispatch/delivery timestamps are written only by the vehicle
// that currently owns the item and by the simulator running that vehicle.
type Item struct {
	ID         int
	Address    string
	City       string
	State      string
	Zip        string
	Location   int
	Deadline   time.Time
	Weight     int
	Note       string
	Constraint Constraint

	Status       ItemStatus
	VehicleID    int
	DispatchedAt *time.Time
	DeliveredAt  *time.Time
}

// AddressAt returns the address on file at t. Before a wrong-address
// correction takes effect the originally listed address is reported.
func (it *Item) AddressAt(t time.Time) string {
	c := it.Constraint
	if c.Kind == ConstraintWrongAddressUntil && !t.Before(c.Until) {
		return c.CorrectedAddress
	}
	return it.Address
}

// Destination is the address the item is routed to: the corrected address
// for a wrong-address item, otherwise the listed one.
func (it *Item) Destination() string {
	if it.Constraint.Kind == ConstraintWrongAddressUntil {
		return it.Constraint.CorrectedAddress
	}
	return it.Address
}

// Late reports whether the item was delivered after its deadline.
func (it *Item) Late() bool {
	return it.DeliveredAt != nil && it.DeliveredAt.After(it.Deadline)
}

// ItemState is the mutable part of an Item, used to snapshot and restore.
type ItemState struct {
	Status       ItemStatus
	VehicleID    int
	DispatchedAt *time.Time
	DeliveredAt  *time.Time
}

// Snapshot captures the item's mutable state. Restore puts it back.
func (it *Item) Snapshot() ItemState {
	return ItemState{
		Status:       it.Status,
		VehicleID:    it.VehicleID,
		DispatchedAt: it.DispatchedAt,
		DeliveredAt:  it.DeliveredAt,
	}
}

func (it *Item) Restore(s ItemState) {
	it.Status = s.Status
	it.VehicleID = s.VehicleID
	it.DispatchedAt = s.DispatchedAt
	it.DeliveredAt = s.DeliveredAt
}
