package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/platform/metrics"
	"parcel-routing-service/internal/platform/obs"
	"parcel-routing-service/internal/ports"
	"slices"
	"strconv"
	"time"
)

type PlanDeliveriesRequest struct {
	Vehicles  []*domain.Vehicle
	Day       time.Time
	EndOfDay  time.Time
	MaxPasses int
}

// PlanDeliveries runs the full pipeline: import, partition, load, route,
// simulate and rebalance. The returned Dispatch answers status and mileage
// queries over the final plan.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.ItemRepository,
	provider ports.DistanceProvider,
	book ports.AddressBook,
) (_ *Dispatch, err error) {
	defer obs.Time(ctx, "plan deliveries")(&err)

	start := time.Now()
	defer func() {
		status := "ok"
		switch {
		case errors.Is(err, domain.ErrInfeasibleSchedule):
			status = "infeasible"
		case err != nil:
			status = "error"
		}
		metrics.PlanDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	if len(req.Vehicles) == 0 {
		return nil, fmt.Errorf("plan deliveries: no vehicles: %w", domain.ErrInvalidInput)
	}

	records, err := repo.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: list items: %w", err)
	}

	reg, err := ImportItems(records, book, ImportOptions{Day: req.Day, EndOfDay: req.EndOfDay})
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	planner := NewPlanner(provider)
	planner.MaxPasses = req.MaxPasses
	return planner.Plan(ctx, reg, req.Vehicles)
}

// Planner schedules items already held in a registry onto a fleet.
type Planner struct {
	Distances ports.DistanceProvider
	MaxPasses int
}

func NewPlanner(distances ports.DistanceProvider) *Planner {
	return &Planner{Distances: distances, MaxPasses: DefaultMaxPasses}
}

// Plan partitions, loads, routes, simulates and rebalances. Vehicles are
// mutated in place and must not already hold items.
func (p *Planner) Plan(ctx context.Context, reg *domain.Registry, vehicles []*domain.Vehicle) (*Dispatch, error) {
	items := slices.Collect(reg.All())

	loads, err := Partition(items, vehicles)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	for _, v := range vehicles {
		for _, id := range loads[v.ID] {
			item, err := reg.Get(id)
			if err != nil {
				return nil, fmt.Errorf("plan: %w", err)
			}
			// Partition has already enforced capacity for unconstrained items.
			if err := v.ForceLoad(item); err != nil {
				return nil, fmt.Errorf("plan: %w", err)
			}
		}
	}

	optimizer := NewRouteOptimizer(p.Distances)
	if p.MaxPasses > 0 {
		optimizer.MaxPasses = p.MaxPasses
	}

	for _, v := range vehicles {
		if err := optimizer.RouteVehicle(v, reg); err != nil {
			return nil, fmt.Errorf("plan: %w", err)
		}
	}

	rebalancer := NewRebalancer(optimizer, NewSimulator(p.Distances))
	schedules, err := rebalancer.Rebalance(ctx, vehicles, reg)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}

	dispatch := NewDispatch(reg, vehicles, schedules)
	for _, v := range dispatch.Vehicles() {
		metrics.VehicleMileage.WithLabelValues(strconv.Itoa(v.ID)).Set(v.Distance)
		log.Printf("run_id=%s vehicle=%d items=%d depart=%s distance=%.1f",
			obs.RunID(ctx), v.ID, len(v.Items), v.DepartAt.Format("15:04"), v.Distance)
	}
	log.Printf("run_id=%s items=%d total_distance=%.1f", obs.RunID(ctx), reg.Len(), dispatch.TotalMileage())

	return dispatch, nil
}
