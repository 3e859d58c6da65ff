package services

import (
	"errors"
	"fmt"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/platform/metrics"
	"parcel-routing-service/internal/ports"
	"slices"
)

const (
	// DefaultMaxPasses bounds the local search on degenerate matrices where
	// ties could otherwise keep it moving.
	DefaultMaxPasses = 100

	improvementEpsilon = 1e-9
)

// RouteOptimizer orders a vehicle's stops with a deterministic local search
// over two move classes: pairwise exchange and double-segment reversal.
type RouteOptimizer struct {
	Distances ports.DistanceProvider
	MaxPasses int

	// Trace, when set, is called with the route distance after every applied move.
	Trace func(pass int, distance float64)
}

func NewRouteOptimizer(distances ports.DistanceProvider) *RouteOptimizer {
	return &RouteOptimizer{Distances: distances, MaxPasses: DefaultMaxPasses}
}

// Optimize returns a route that starts at hub, visits every distinct stop once
// and, when returnToHub is set, ends at hub again, together with its distance.
//
// The search starts from the stops in input order. Each pass applies the best
// strictly improving move of either class; it stops when no move improves or
// the pass limit is reached.
func (o *RouteOptimizer) Optimize(hub int, stops []int, returnToHub bool) ([]int, float64, error) {
	if o.Distances == nil {
		return nil, 0, errors.New("optimize route: distance provider must be non-nil")
	}

	n := o.Distances.LocationCount()
	if hub < 0 || hub >= n {
		return nil, 0, fmt.Errorf("optimize route: hub %d: %w", hub, domain.ErrUnresolvableLocation)
	}

	// nodes[0] is the hub; the search works on positions into nodes.
	nodes := []int{hub}
	for _, s := range stops {
		if s < 0 || s >= n {
			return nil, 0, fmt.Errorf("optimize route: stop %d: %w", s, domain.ErrUnresolvableLocation)
		}
		if !slices.Contains(nodes, s) {
			nodes = append(nodes, s)
		}
	}

	table := make([][]float64, len(nodes))
	for i := range nodes {
		table[i] = make([]float64, len(nodes))
		for j := range nodes {
			d, err := legDistance(o.Distances, nodes[i], nodes[j])
			if err != nil {
				return nil, 0, fmt.Errorf("optimize route: %w", err)
			}
			table[i][j] = d
		}
	}

	route := make([]int, 0, len(nodes)+1)
	for i := range nodes {
		route = append(route, i)
	}
	if returnToHub {
		route = append(route, 0)
	}

	// Positions lo..hi (inclusive) may move; the hub start and return are fixed.
	lo, hi := 1, len(route)-1
	if returnToHub {
		hi--
	}

	cost := func(r []int) float64 {
		total := 0.0
		for i := 0; i+1 < len(r); i++ {
			total += table[r[i]][r[i+1]]
		}
		return total
	}

	best := cost(route)
	maxPasses := o.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	for pass := 0; pass < maxPasses; pass++ {
		exRoute, exCost := bestExchange(route, lo, hi, best, cost)
		revRoute, revCost := bestReversal(route, lo, hi, best, cost)

		switch {
		case exRoute == nil && revRoute == nil:
			return o.locations(nodes, route), best, nil
		case revRoute != nil && (exRoute == nil || revCost < exCost):
			route, best = revRoute, revCost
			metrics.OptimizerMoves.WithLabelValues("reversal").Inc()
		default:
			route, best = exRoute, exCost
			metrics.OptimizerMoves.WithLabelValues("exchange").Inc()
		}

		if o.Trace != nil {
			o.Trace(pass, best)
		}
	}

	metrics.OptimizerCapped.Inc()
	return o.locations(nodes, route), best, nil
}

func (o *RouteOptimizer) locations(nodes []int, route []int) []int {
	out := make([]int, len(route))
	for i, p := range route {
		out[i] = nodes[p]
	}
	return out
}

// bestExchange tries swapping every pair of movable positions.
func bestExchange(route []int, lo, hi int, current float64, cost func([]int) float64) ([]int, float64) {
	var bestRoute []int
	bestCost := current
	for i := lo; i <= hi; i++ {
		for j := i + 1; j <= hi; j++ {
			cand := slices.Clone(route)
			cand[i], cand[j] = cand[j], cand[i]
			if c := cost(cand); c < bestCost-improvementEpsilon {
				bestRoute, bestCost = cand, c
			}
		}
	}
	return bestRoute, bestCost
}

// bestReversal tries every cut i<j<k, reversing [i..j] and [j+1..k] independently.
func bestReversal(route []int, lo, hi int, current float64, cost func([]int) float64) ([]int, float64) {
	var bestRoute []int
	bestCost := current
	for i := lo; i <= hi; i++ {
		for j := i + 1; j <= hi; j++ {
			for k := j + 1; k <= hi; k++ {
				cand := slices.Clone(route)
				slices.Reverse(cand[i : j+1])
				slices.Reverse(cand[j+1 : k+1])
				if c := cost(cand); c < bestCost-improvementEpsilon {
					bestRoute, bestCost = cand, c
				}
			}
		}
	}
	return bestRoute, bestCost
}

// RouteVehicle rebuilds a vehicle's route from the destinations of the items
// it currently holds.
func (o *RouteOptimizer) RouteVehicle(v *domain.Vehicle, reg *domain.Registry) error {
	stops := make([]int, 0, len(v.Items))
	for _, id := range v.Items {
		item, err := reg.Get(id)
		if err != nil {
			return fmt.Errorf("route vehicle %d: %w", v.ID, err)
		}
		if item.Location == domain.NoLocation {
			return fmt.Errorf("route vehicle %d: item %d address %q: %w", v.ID, item.ID, item.Address, domain.ErrUnresolvableLocation)
		}
		stops = append(stops, item.Location)
	}

	route, dist, err := o.Optimize(v.Hub, stops, v.ReturnToHub)
	if err != nil {
		return fmt.Errorf("route vehicle %d: %w", v.ID, err)
	}
	v.Route = route
	v.Distance = dist
	return nil
}
