package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintFixedVehicle
	ConstraintGroupedWith
	ConstraintDelayed
	ConstraintWrongAddressUntil
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintFixedVehicle:
		return "fixed_vehicle"
	case ConstraintGroupedWith:
		return "grouped_with"
	case ConstraintDelayed:
		return "delayed"
	case ConstraintWrongAddressUntil:
		return "wrong_address_until"
	default:
		return "none"
	}
}

// Constraint is the parsed form of an item's free-text annotation.
// Only the fields relevant to Kind are set.
type Constraint struct {
	Kind             ConstraintKind
	VehicleID        int
	Group            []int
	Until            time.Time
	CorrectedAddress string
}

// IsHard reports whether the constraint pins the item's vehicle or timing.
// Items with a hard constraint are never swapped by the rebalancer.
func (c Constraint) IsHard() bool { return c.Kind != ConstraintNone }

var (
	fixedVehicleRe = regexp.MustCompile(`(?i)\bon (?:truck|vehicle) (\d+)\b`)
	groupedWithRe  = regexp.MustCompile(`(?i)\bdelivered with ([\d,\s]+)`)
	delayedRe      = regexp.MustCompile(`(?i)^delayed\b`)
	wrongAddressRe = regexp.MustCompile(`(?i)^wrong address\b`)
	correctionRe   = regexp.MustCompile(`(?i)\bcorrected at (\d{1,2}:\d{2}(?:\s*[ap]m)?) to (.+)$`)
	clockRe        = regexp.MustCompile(`(?i)\b(\d{1,2}:\d{2}(?:\s*[ap]m)?)`)
)

// ParseConstraint maps an annotation onto the constraint taxonomy.
//
//	"Can only be on truck 2"                                          -> FixedVehicle(2)
//	"Must be delivered with 15, 19"                                   -> GroupedWith([15 19])
//	"Delayed on flight---will not arrive to depot until 9:05 am"      -> Delayed(09:05)
//	"Wrong address listed; corrected at 10:20 am to 410 S State St"   -> WrongAddressUntil(10:20, "410 S State St")
//
// Empty or unrecognised notes yield ConstraintNone. Times land on day.
func ParseConstraint(note string, day time.Time) (Constraint, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return Constraint{}, nil
	}

	if m := fixedVehicleRe.FindStringSubmatch(note); m != nil {
		id, err := strconv.Atoi(m[1])
		if err != nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: %w", note, ErrInvalidInput)
		}
		return Constraint{Kind: ConstraintFixedVehicle, VehicleID: id}, nil
	}

	if m := groupedWithRe.FindStringSubmatch(note); m != nil {
		var group []int
		for _, f := range strings.Split(m[1], ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			id, err := strconv.Atoi(f)
			if err != nil || id <= 0 {
				return Constraint{}, fmt.Errorf("parse constraint %q: bad item id %q: %w", note, f, ErrInvalidInput)
			}
			group = append(group, id)
		}
		if len(group) == 0 {
			return Constraint{}, fmt.Errorf("parse constraint %q: empty group: %w", note, ErrInvalidInput)
		}
		return Constraint{Kind: ConstraintGroupedWith, Group: group}, nil
	}

	if delayedRe.MatchString(note) {
		m := clockRe.FindStringSubmatch(note)
		if m == nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: missing arrival time: %w", note, ErrInvalidInput)
		}
		until, err := At(day, m[1])
		if err != nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: %w", note, err)
		}
		return Constraint{Kind: ConstraintDelayed, Until: until}, nil
	}

	if wrongAddressRe.MatchString(note) {
		m := correctionRe.FindStringSubmatch(note)
		if m == nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: missing correction time or address: %w", note, ErrInvalidInput)
		}
		until, err := At(day, m[1])
		if err != nil {
			return Constraint{}, fmt.Errorf("parse constraint %q: %w", note, err)
		}
		addr := strings.TrimSpace(m[2])
		if addr == "" {
			return Constraint{}, fmt.Errorf("parse constraint %q: empty corrected address: %w", note, ErrInvalidInput)
		}
		return Constraint{Kind: ConstraintWrongAddressUntil, Until: until, CorrectedAddress: addr}, nil
	}

	return Constraint{}, nil
}
