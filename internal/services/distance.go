package services

import (
	"fmt"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/ports"
)

// legDistance returns the distance between two locations, falling back to the
// mirrored entry when the provider only stores one direction.
func legDistance(p ports.DistanceProvider, from, to int) (float64, error) {
	if from == to {
		return 0, nil
	}
	if d, ok := p.Distance(from, to); ok {
		return d, nil
	}
	if d, ok := p.Distance(to, from); ok {
		return d, nil
	}
	return 0, fmt.Errorf("distance %d -> %d: %w", from, to, domain.ErrUnresolvableLocation)
}

// RouteDistance sums consecutive leg distances of a route.
func RouteDistance(p ports.DistanceProvider, route []int) (float64, error) {
	total := 0.0
	for i := 0; i+1 < len(route); i++ {
		d, err := legDistance(p, route[i], route[i+1])
		if err != nil {
			return 0, fmt.Errorf("route distance: %w", err)
		}
		total += d
	}
	return total, nil
}
