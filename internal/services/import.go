package services

import (
	"fmt"
	"log"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/ports"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ImportOptions struct {
	// Day anchors clock-only deadlines and annotation times.
	Day time.Time
	// EndOfDay is the deadline for items marked "EOD".
	EndOfDay time.Time
}

// ImportItems validates raw records, parses deadlines and annotations, and
// resolves each address to a matrix location. Items whose address cannot be
// resolved are kept with domain.NoLocation; routing their vehicle fails later.
func ImportItems(records []domain.ItemRecord, book ports.AddressBook, opts ImportOptions) (*domain.Registry, error) {
	reg := domain.NewRegistry(len(records))

	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, fmt.Errorf("import items: record %d: %v: %w", i, err, domain.ErrInvalidInput)
		}
		if _, err := reg.Get(rec.ID); err == nil {
			return nil, fmt.Errorf("import items: duplicate item id %d: %w", rec.ID, domain.ErrInvalidInput)
		}

		deadline, err := parseDeadline(rec.Deadline, opts)
		if err != nil {
			return nil, fmt.Errorf("import items: item %d deadline: %w", rec.ID, err)
		}

		constraint, err := domain.ParseConstraint(rec.Note, opts.Day)
		if err != nil {
			return nil, fmt.Errorf("import items: item %d: %w", rec.ID, err)
		}
		if constraint.Kind == domain.ConstraintFixedVehicle && constraint.VehicleID <= 0 {
			return nil, fmt.Errorf("import items: item %d vehicle %d: %w", rec.ID, constraint.VehicleID, domain.ErrInvalidInput)
		}

		item := &domain.Item{
			ID:         rec.ID,
			Address:    strings.TrimSpace(rec.Address),
			City:       rec.City,
			State:      rec.State,
			Zip:        rec.Zip,
			Location:   domain.NoLocation,
			Deadline:   deadline,
			Weight:     rec.Weight,
			Note:       rec.Note,
			Constraint: constraint,
			Status:     domain.StatusAtHub,
		}

		// A wrong-address item is routed to where it will actually go.
		if idx, ok := book.LocationIndex(item.Destination()); ok {
			item.Location = idx
		} else {
			log.Printf("import items: item=%d address=%q unresolved", rec.ID, item.Destination())
		}
		if err := reg.Put(item); err != nil {
			return nil, fmt.Errorf("import items: %w", err)
		}
	}

	return reg, nil
}

func parseDeadline(s string, opts ImportOptions) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "EOD") {
		if opts.EndOfDay.IsZero() {
			return time.Time{}, fmt.Errorf("end of day not configured: %w", domain.ErrInvalidInput)
		}
		return opts.EndOfDay, nil
	}
	return domain.At(opts.Day, s)
}
