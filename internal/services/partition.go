package services

import (
	"cmp"
	"fmt"
	"parcel-routing-service/internal/domain"
	"slices"
	"strings"
	"time"
)

// Partition assigns every item to a vehicle and returns item ids per vehicle
// id. It does not mutate items or vehicles.
//
// Placement runs in priority order: fixed vehicle, wrong address, grouped,
// delayed, then unconstrained items by deadline. A group rides the earliest
// vehicle departing after its delayed members arrive. Hard constraints may exceed
// a vehicle's capacity; unconstrained items never do.
func Partition(items []*domain.Item, vehicles []*domain.Vehicle) (map[int][]int, error) {
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("partition: no vehicles: %w", domain.ErrInvalidInput)
	}

	p := &partition{
		loads:     make(map[int][]int, len(vehicles)),
		owner:     make(map[int]int, len(items)),
		byID:      make(map[int]*domain.Item, len(items)),
		vehicles:  make(map[int]*domain.Vehicle, len(vehicles)),
		addresses: make(map[int]map[string]bool, len(vehicles)),
		zips:      make(map[int]map[string]bool, len(vehicles)),
	}
	for _, v := range vehicles {
		p.loads[v.ID] = nil
		p.vehicles[v.ID] = v
		p.addresses[v.ID] = map[string]bool{}
		p.zips[v.ID] = map[string]bool{}
	}
	for _, it := range items {
		p.byID[it.ID] = it
	}

	byDeparture := slices.Clone(vehicles)
	slices.SortStableFunc(byDeparture, func(a, b *domain.Vehicle) int {
		if c := a.ScheduledDepartAt.Compare(b.ScheduledDepartAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for _, it := range items {
		if it.Constraint.Kind != domain.ConstraintFixedVehicle {
			continue
		}
		if _, ok := p.vehicles[it.Constraint.VehicleID]; !ok {
			return nil, fmt.Errorf("partition: item %d requires unknown vehicle %d: %w", it.ID, it.Constraint.VehicleID, domain.ErrInvalidInput)
		}
		p.place(it.Constraint.VehicleID, it)
	}

	for _, it := range items {
		if it.Constraint.Kind != domain.ConstraintWrongAddressUntil || p.assigned(it.ID) {
			continue
		}
		var target *domain.Vehicle
		for _, v := range byDeparture {
			if !v.ScheduledDepartAt.Before(it.Constraint.Until) {
				target = v
			}
		}
		if target == nil {
			return nil, fmt.Errorf("partition: item %d address corrected at %s after every departure: %w",
				it.ID, it.Constraint.Until.Format("15:04"), domain.ErrInfeasibleSchedule)
		}
		p.place(target.ID, it)
	}

	for _, it := range items {
		if it.Constraint.Kind != domain.ConstraintGroupedWith || p.assigned(it.ID) {
			continue
		}
		members, err := p.group(it)
		if err != nil {
			return nil, err
		}

		// The group cannot leave before its last delayed member reaches the hub.
		var ready time.Time
		target := 0
		for _, m := range members {
			if m.Constraint.Kind == domain.ConstraintDelayed && m.Constraint.Until.After(ready) {
				ready = m.Constraint.Until
			}
			vid, ok := p.owner[m.ID]
			if !ok {
				continue
			}
			if target != 0 && vid != target {
				return nil, fmt.Errorf("partition: group of item %d is pinned to vehicles %d and %d: %w", it.ID, target, vid, domain.ErrInfeasibleSchedule)
			}
			target = vid
		}

		if target != 0 {
			if p.vehicles[target].ScheduledDepartAt.Before(ready) {
				return nil, fmt.Errorf("partition: group of item %d is pinned to vehicle %d departing before %s: %w",
					it.ID, target, ready.Format("15:04"), domain.ErrInfeasibleSchedule)
			}
		} else {
			for _, v := range byDeparture {
				if !v.ScheduledDepartAt.Before(ready) {
					target = v.ID
					break
				}
			}
			if target == 0 {
				return nil, fmt.Errorf("partition: group of item %d is ready at %s after every departure: %w",
					it.ID, ready.Format("15:04"), domain.ErrInfeasibleSchedule)
			}
		}
		for _, m := range members {
			if !p.assigned(m.ID) {
				p.place(target, m)
			}
		}
	}

	for _, it := range items {
		if it.Constraint.Kind != domain.ConstraintDelayed || p.assigned(it.ID) {
			continue
		}
		var target *domain.Vehicle
		for _, v := range byDeparture {
			if !v.ScheduledDepartAt.Before(it.Constraint.Until) {
				target = v
				break
			}
		}
		if target == nil {
			return nil, fmt.Errorf("partition: item %d arrives at %s after every departure: %w",
				it.ID, it.Constraint.Until.Format("15:04"), domain.ErrInfeasibleSchedule)
		}
		p.place(target.ID, it)
	}

	remaining := make([]*domain.Item, 0, len(items))
	for _, it := range items {
		if !p.assigned(it.ID) {
			remaining = append(remaining, it)
		}
	}
	slices.SortStableFunc(remaining, func(a, b *domain.Item) int {
		if c := a.Deadline.Compare(b.Deadline); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for _, it := range remaining {
		vid, err := p.pick(vehicles, it)
		if err != nil {
			return nil, err
		}
		p.place(vid, it)
	}

	return p.loads, nil
}

type partition struct {
	loads     map[int][]int
	owner     map[int]int
	byID      map[int]*domain.Item
	vehicles  map[int]*domain.Vehicle
	addresses map[int]map[string]bool
	zips      map[int]map[string]bool
}

func (p *partition) assigned(id int) bool {
	_, ok := p.owner[id]
	return ok
}

func (p *partition) place(vehicleID int, it *domain.Item) {
	p.loads[vehicleID] = append(p.loads[vehicleID], it.ID)
	p.owner[it.ID] = vehicleID
	p.addresses[vehicleID][localityKey(it.Destination())] = true
	if it.Zip != "" {
		p.zips[vehicleID][it.Zip] = true
	}
}

// group returns the transitive closure of "delivered with" links starting at
// it, in discovery order.
func (p *partition) group(it *domain.Item) ([]*domain.Item, error) {
	seen := map[int]bool{it.ID: true}
	members := []*domain.Item{it}
	for i := 0; i < len(members); i++ {
		cur := members[i]
		if cur.Constraint.Kind != domain.ConstraintGroupedWith {
			continue
		}
		for _, id := range cur.Constraint.Group {
			if seen[id] {
				continue
			}
			m, ok := p.byID[id]
			if !ok {
				return nil, fmt.Errorf("partition: item %d grouped with unknown item %d: %w", cur.ID, id, domain.ErrInvalidInput)
			}
			seen[id] = true
			members = append(members, m)
		}
	}
	return members, nil
}

// pick chooses a vehicle for an unconstrained item: prefer vehicles already
// serving the same address or zip, then the least loaded. Ties go to the
// earlier vehicle in fleet order.
func (p *partition) pick(vehicles []*domain.Vehicle, it *domain.Item) (int, error) {
	var open, local []*domain.Vehicle
	for _, v := range vehicles {
		if len(p.loads[v.ID]) >= v.Capacity {
			continue
		}
		open = append(open, v)
		if p.addresses[v.ID][localityKey(it.Destination())] || (it.Zip != "" && p.zips[v.ID][it.Zip]) {
			local = append(local, v)
		}
	}
	if len(open) == 0 {
		return 0, fmt.Errorf("partition: item %d: every vehicle is full: %w", it.ID, domain.ErrCapacityExceeded)
	}

	candidates := open
	if len(local) > 0 {
		candidates = local
	}
	best := candidates[0]
	for _, v := range candidates[1:] {
		if len(p.loads[v.ID]) < len(p.loads[best.ID]) {
			best = v
		}
	}
	return best.ID, nil
}

func localityKey(address string) string {
	return strings.Join(strings.Fields(strings.ToLower(address)), " ")
}
