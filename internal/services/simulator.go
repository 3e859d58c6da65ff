package services

import (
	"errors"
	"fmt"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/ports"
	"slices"
	"time"
)

// Simulator drives a vehicle along its route at constant speed and stamps
// dispatch and delivery times on the items it holds.
type Simulator struct {
	Distances ports.DistanceProvider
}

func NewSimulator(distances ports.DistanceProvider) *Simulator {
	return &Simulator{Distances: distances}
}

// Simulate runs one vehicle from its DepartAt. An item is delivered on the
// first arrival at its location; items located at the hub are delivered at
// departure. The vehicle's Distance is set to the simulated total.
func (s *Simulator) Simulate(v *domain.Vehicle, reg *domain.Registry) (*domain.Schedule, error) {
	if v.Speed <= 0 {
		return nil, fmt.Errorf("simulate vehicle %d: speed %.2f: %w", v.ID, v.Speed, domain.ErrInvalidInput)
	}
	if len(v.Items) > 0 && len(v.Route) == 0 {
		return nil, fmt.Errorf("simulate vehicle %d: %d items but no route", v.ID, len(v.Items))
	}

	byLocation := make(map[int][]*domain.Item)
	pending := make(map[int]*domain.Item, len(v.Items))
	for _, id := range v.Items {
		item, err := reg.Get(id)
		if err != nil {
			return nil, fmt.Errorf("simulate vehicle %d: %w", v.ID, err)
		}
		depart := v.DepartAt
		item.DispatchedAt = &depart
		item.DeliveredAt = nil
		item.Status = domain.StatusEnRoute
		byLocation[item.Location] = append(byLocation[item.Location], item)
		pending[item.ID] = item
	}

	sched := &domain.Schedule{VehicleID: v.ID, Hub: v.Hub, DepartAt: v.DepartAt}

	deliver := func(loc int, at time.Time) []int {
		var ids []int
		for _, item := range byLocation[loc] {
			if _, ok := pending[item.ID]; !ok {
				continue
			}
			when := at
			item.DeliveredAt = &when
			item.Status = domain.StatusDelivered
			delete(pending, item.ID)
			ids = append(ids, item.ID)
		}
		return ids
	}

	if len(v.Route) > 0 {
		deliver(v.Route[0], v.DepartAt)
	}

	clock := v.DepartAt
	driven := 0.0
	for i := 0; i+1 < len(v.Route); i++ {
		from, to := v.Route[i], v.Route[i+1]
		d, err := legDistance(s.Distances, from, to)
		if err != nil {
			return nil, fmt.Errorf("simulate vehicle %d: %w", v.ID, err)
		}
		arrive := clock.Add(travelTime(d, v.Speed))
		driven += d

		sched.Legs = append(sched.Legs, domain.Leg{
			From:               from,
			To:                 to,
			Distance:           d,
			DepartAt:           clock,
			ArriveAt:           arrive,
			CumulativeDistance: driven,
			ItemIDs:            deliver(to, arrive),
		})
		clock = arrive
	}

	if len(pending) > 0 {
		ids := make([]int, 0, len(pending))
		for id := range pending {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		return nil, fmt.Errorf("simulate vehicle %d: items %v not on route: %w", v.ID, ids, domain.ErrUnresolvableLocation)
	}

	sched.TotalDistance = driven
	v.Distance = driven
	return sched, nil
}

// SimulateFleet simulates every vehicle. A vehicle that waits for another
// departs at the later of its scheduled departure and the awaited vehicle's
// finish time, so awaited vehicles are simulated first.
func (s *Simulator) SimulateFleet(vehicles []*domain.Vehicle, reg *domain.Registry) (map[int]*domain.Schedule, error) {
	schedules := make(map[int]*domain.Schedule, len(vehicles))
	known := make(map[int]bool, len(vehicles))
	for _, v := range vehicles {
		known[v.ID] = true
	}

	for len(schedules) < len(vehicles) {
		progressed := false
		for _, v := range vehicles {
			if _, done := schedules[v.ID]; done {
				continue
			}

			v.DepartAt = v.ScheduledDepartAt
			if v.WaitsFor != 0 {
				if !known[v.WaitsFor] {
					return nil, fmt.Errorf("simulate fleet: vehicle %d waits for unknown vehicle %d: %w", v.ID, v.WaitsFor, domain.ErrInvalidInput)
				}
				awaited, ok := schedules[v.WaitsFor]
				if !ok {
					continue
				}
				if finish := awaited.FinishAt(); finish.After(v.DepartAt) {
					v.DepartAt = finish
				}
			}

			sched, err := s.Simulate(v, reg)
			if err != nil {
				return nil, err
			}
			schedules[v.ID] = sched
			progressed = true
		}
		if !progressed {
			return nil, errors.New("simulate fleet: vehicles wait for each other in a cycle")
		}
	}
	return schedules, nil
}

// Violations lists the items on v delivered after their deadline.
func Violations(v *domain.Vehicle, reg *domain.Registry) []domain.Violation {
	var out []domain.Violation
	for _, id := range v.Items {
		item, err := reg.Get(id)
		if err != nil || !item.Late() {
			continue
		}
		out = append(out, domain.Violation{
			ItemID:      item.ID,
			VehicleID:   v.ID,
			Deadline:    item.Deadline,
			DeliveredAt: *item.DeliveredAt,
		})
	}
	return out
}

func travelTime(distance, speed float64) time.Duration {
	return time.Duration(float64(time.Hour) * distance / speed)
}
