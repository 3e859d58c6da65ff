package config

import (
	"errors"
	"fmt"
	"os"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/ports"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Fleet is the YAML description of a service day and its vehicles.
type Fleet struct {
	ServiceDate string          `yaml:"service_date" validate:"required"`
	Hub         string          `yaml:"hub" validate:"required"`
	EndOfDay    string          `yaml:"end_of_day" validate:"required"`
	MaxPasses   int             `yaml:"max_passes" validate:"gte=0"`
	Vehicles    []VehicleConfig `yaml:"vehicles" validate:"len=3,dive"`
}

type VehicleConfig struct {
	ID          int     `yaml:"id" validate:"min=1,max=3"`
	Depart      string  `yaml:"depart" validate:"required"`
	Speed       float64 `yaml:"speed" validate:"gt=0"`
	Capacity    int     `yaml:"capacity" validate:"min=1,max=16"`
	ReturnToHub bool    `yaml:"return_to_hub"`
	WaitsFor    int     `yaml:"waits_for" validate:"omitempty,min=1,max=3,nefield=ID"`
}

// LoadFleet reads and validates a fleet file.
func LoadFleet(path string) (*Fleet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load fleet: read %q: %w", path, err)
	}

	var f Fleet
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("load fleet: decode %q: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("load fleet %q: %w", path, err)
	}
	return &f, nil
}

// Validate checks field rules and the cross-vehicle rules: unique ids,
// exactly one vehicle returning to the hub, and waits_for pointing at it.
func (f *Fleet) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("validate fleet: %v: %w", err, domain.ErrInvalidInput)
	}
	if _, err := f.Day(); err != nil {
		return fmt.Errorf("validate fleet: %w", err)
	}

	byID := make(map[int]VehicleConfig, len(f.Vehicles))
	returning := 0
	for _, v := range f.Vehicles {
		if _, dup := byID[v.ID]; dup {
			return fmt.Errorf("validate fleet: duplicate vehicle id %d: %w", v.ID, domain.ErrInvalidInput)
		}
		byID[v.ID] = v
		if v.ReturnToHub {
			returning++
		}
	}
	if returning != 1 {
		return fmt.Errorf("validate fleet: %d vehicles return to hub, want 1: %w", returning, domain.ErrInvalidInput)
	}

	for _, v := range f.Vehicles {
		if v.WaitsFor == 0 {
			continue
		}
		awaited, ok := byID[v.WaitsFor]
		if !ok {
			return fmt.Errorf("validate fleet: vehicle %d waits for unknown vehicle %d: %w", v.ID, v.WaitsFor, domain.ErrInvalidInput)
		}
		if !awaited.ReturnToHub {
			return fmt.Errorf("validate fleet: vehicle %d waits for vehicle %d which does not return: %w", v.ID, v.WaitsFor, domain.ErrInvalidInput)
		}
	}
	return nil
}

// Day is the service date at midnight UTC.
func (f *Fleet) Day() (time.Time, error) {
	d, err := time.Parse(dateLayout, f.ServiceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("service date %q: %w", f.ServiceDate, domain.ErrInvalidInput)
	}
	return d, nil
}

func (f *Fleet) EndOfDayAt() (time.Time, error) {
	day, err := f.Day()
	if err != nil {
		return time.Time{}, err
	}
	return domain.At(day, f.EndOfDay)
}

// Build resolves the hub address and returns vehicles ordered as configured.
func (f *Fleet) Build(book ports.AddressBook) ([]*domain.Vehicle, error) {
	day, err := f.Day()
	if err != nil {
		return nil, fmt.Errorf("build fleet: %w", err)
	}

	hub, ok := book.LocationIndex(f.Hub)
	if !ok {
		return nil, fmt.Errorf("build fleet: hub %q: %w", f.Hub, domain.ErrUnresolvableLocation)
	}

	vehicles := make([]*domain.Vehicle, 0, len(f.Vehicles))
	for _, vc := range f.Vehicles {
		depart, err := domain.At(day, vc.Depart)
		if err != nil {
			return nil, fmt.Errorf("build fleet: vehicle %d: %w", vc.ID, err)
		}
		v := domain.NewVehicle(vc.ID, vc.Capacity, vc.Speed, hub, depart)
		v.ReturnToHub = vc.ReturnToHub
		v.WaitsFor = vc.WaitsFor
		vehicles = append(vehicles, v)
	}
	if len(vehicles) == 0 {
		return nil, errors.New("build fleet: no vehicles")
	}
	return vehicles, nil
}
