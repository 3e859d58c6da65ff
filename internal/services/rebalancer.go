package services

import (
	"context"
	"fmt"
	"log"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/platform/metrics"
	"parcel-routing-service/internal/platform/obs"
	"slices"
)

// Rebalancer repairs deadline violations by swapping unconstrained items
// between vehicles. Each swap is tentative: the fleet is snapshotted, the two
// vehicles are re-optimized and the whole fleet re-simulated, and the swap is
// kept only when every vehicle it touched is compliant.
type Rebalancer struct {
	Optimizer *RouteOptimizer
	Simulator *Simulator
}

func NewRebalancer(optimizer *RouteOptimizer, simulator *Simulator) *Rebalancer {
	return &Rebalancer{Optimizer: optimizer, Simulator: simulator}
}

// Rebalance simulates the fleet and swaps items until no vehicle delivers
// late. Vehicles must already hold their items and routes. When a late
// vehicle has no partner that yields a compliant swap it returns an
// *domain.InfeasibleScheduleError listing every remaining violation.
func (r *Rebalancer) Rebalance(ctx context.Context, vehicles []*domain.Vehicle, reg *domain.Registry) (_ map[int]*domain.Schedule, err error) {
	defer obs.Time(ctx, "rebalancer.Rebalance")(&err)

	schedules, err := r.Simulator.SimulateFleet(vehicles, reg)
	if err != nil {
		return nil, fmt.Errorf("rebalance: %w", err)
	}

	// Each commit makes one more vehicle compliant without breaking another,
	// so the number of rounds is bounded by the fleet size.
	for range len(vehicles) + 1 {
		late := firstLate(vehicles, reg)
		if late == nil {
			return schedules, nil
		}

		committed := false
		for _, partner := range byID(vehicles) {
			if partner.ID == late.ID {
				continue
			}
			next, ok, err := r.trySwaps(ctx, late, partner, vehicles, reg)
			if err != nil {
				return nil, err
			}
			if ok {
				schedules = next
				committed = true
				break
			}
		}
		if !committed {
			return nil, &domain.InfeasibleScheduleError{Violations: fleetViolations(vehicles, reg)}
		}
	}

	if late := firstLate(vehicles, reg); late != nil {
		return nil, &domain.InfeasibleScheduleError{Violations: fleetViolations(vehicles, reg)}
	}
	return schedules, nil
}

// trySwaps tests every pair of unconstrained items between a and b. Item lists
// are copied before iterating because each attempt mutates the vehicles.
func (r *Rebalancer) trySwaps(ctx context.Context, a, b *domain.Vehicle, vehicles []*domain.Vehicle, reg *domain.Registry) (map[int]*domain.Schedule, bool, error) {
	fromA := slices.Clone(a.Items)
	fromB := slices.Clone(b.Items)

	for _, idA := range fromA {
		itemA, err := reg.Get(idA)
		if err != nil {
			return nil, false, fmt.Errorf("rebalance: %w", err)
		}
		if itemA.Constraint.IsHard() {
			continue
		}
		for _, idB := range fromB {
			itemB, err := reg.Get(idB)
			if err != nil {
				return nil, false, fmt.Errorf("rebalance: %w", err)
			}
			if itemB.Constraint.IsHard() {
				continue
			}

			snap := takeSnapshot(vehicles, reg)
			schedules, err := r.swap(a, b, itemA, itemB, vehicles, reg)
			if err != nil {
				snap.restore(vehicles, reg)
				return nil, false, err
			}
			if compliant(reg, touched(a, b, vehicles)...) {
				metrics.RebalanceSwaps.WithLabelValues("committed").Inc()
				log.Printf("run_id=%s op=rebalance swap item=%d vehicle=%d<->item=%d vehicle=%d",
					obs.RunID(ctx), itemA.ID, a.ID, itemB.ID, b.ID)
				return schedules, true, nil
			}
			snap.restore(vehicles, reg)
			metrics.RebalanceSwaps.WithLabelValues("rolled_back").Inc()
		}
	}
	return nil, false, nil
}

func (r *Rebalancer) swap(a, b *domain.Vehicle, itemA, itemB *domain.Item, vehicles []*domain.Vehicle, reg *domain.Registry) (map[int]*domain.Schedule, error) {
	if err := a.Unload(itemA); err != nil {
		return nil, fmt.Errorf("rebalance swap: %w", err)
	}
	if err := b.Unload(itemB); err != nil {
		return nil, fmt.Errorf("rebalance swap: %w", err)
	}
	// Count-neutral, so capacity is unchanged.
	if err := a.ForceLoad(itemB); err != nil {
		return nil, fmt.Errorf("rebalance swap: %w", err)
	}
	if err := b.ForceLoad(itemA); err != nil {
		return nil, fmt.Errorf("rebalance swap: %w", err)
	}

	if err := r.Optimizer.RouteVehicle(a, reg); err != nil {
		return nil, fmt.Errorf("rebalance swap: %w", err)
	}
	if err := r.Optimizer.RouteVehicle(b, reg); err != nil {
		return nil, fmt.Errorf("rebalance swap: %w", err)
	}

	schedules, err := r.Simulator.SimulateFleet(vehicles, reg)
	if err != nil {
		return nil, fmt.Errorf("rebalance swap: %w", err)
	}
	return schedules, nil
}

// touched returns a, b and every vehicle whose departure depends on them.
func touched(a, b *domain.Vehicle, vehicles []*domain.Vehicle) []*domain.Vehicle {
	out := []*domain.Vehicle{a, b}
	for _, v := range vehicles {
		if v.ID != a.ID && v.ID != b.ID && (v.WaitsFor == a.ID || v.WaitsFor == b.ID) {
			out = append(out, v)
		}
	}
	return out
}

func compliant(reg *domain.Registry, vehicles ...*domain.Vehicle) bool {
	for _, v := range vehicles {
		if len(Violations(v, reg)) > 0 {
			return false
		}
	}
	return true
}

func firstLate(vehicles []*domain.Vehicle, reg *domain.Registry) *domain.Vehicle {
	for _, v := range byID(vehicles) {
		if !compliant(reg, v) {
			return v
		}
	}
	return nil
}

func fleetViolations(vehicles []*domain.Vehicle, reg *domain.Registry) []domain.Violation {
	var out []domain.Violation
	for _, v := range byID(vehicles) {
		out = append(out, Violations(v, reg)...)
	}
	return out
}

func byID(vehicles []*domain.Vehicle) []*domain.Vehicle {
	sorted := slices.Clone(vehicles)
	slices.SortFunc(sorted, func(a, b *domain.Vehicle) int { return a.ID - b.ID })
	return sorted
}

// snapshot holds enough state to undo a tentative swap: every vehicle and
// every item, since re-simulation rewrites timestamps fleet-wide.
type snapshot struct {
	vehicles map[int]domain.VehicleState
	items    map[int]domain.ItemState
}

func takeSnapshot(vehicles []*domain.Vehicle, reg *domain.Registry) snapshot {
	s := snapshot{
		vehicles: make(map[int]domain.VehicleState, len(vehicles)),
		items:    make(map[int]domain.ItemState, reg.Len()),
	}
	for _, v := range vehicles {
		s.vehicles[v.ID] = v.State()
	}
	for it := range reg.All() {
		s.items[it.ID] = it.Snapshot()
	}
	return s
}

func (s snapshot) restore(vehicles []*domain.Vehicle, reg *domain.Registry) {
	for _, v := range vehicles {
		v.Restore(s.vehicles[v.ID])
	}
	for it := range reg.All() {
		it.Restore(s.items[it.ID])
	}
}
