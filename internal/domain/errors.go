package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error kinds surfaced by the planning pipeline. Callers classify with errors.Is.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrUnresolvableLocation = errors.New("unresolvable location")
	ErrInfeasibleSchedule   = errors.New("infeasible schedule")
	ErrNotFound             = errors.New("not found")
	ErrAlreadyAssigned      = errors.New("item already assigned to another vehicle")
)

// Violation records an item delivered after its deadline.
type Violation struct {
	ItemID      int
	VehicleID   int
	Deadline    time.Time
	DeliveredAt time.Time
}

func (v Violation) String() string {
	return fmt.Sprintf(
		"item=%d vehicle=%d deadline=%s delivered=%s",
		v.ItemID, v.VehicleID, v.Deadline.Format("15:04"), v.DeliveredAt.Format("15:04:05"),
	)
}

// InfeasibleScheduleError reports the deadlines the rebalancer could not restore.
type InfeasibleScheduleError struct {
	Violations []Violation
}

func (e *InfeasibleScheduleError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("%s: %d late item(s): %s", ErrInfeasibleSchedule, len(e.Violations), strings.Join(parts, "; "))
}

func (e *InfeasibleScheduleError) Unwrap() error { return ErrInfeasibleSchedule }
