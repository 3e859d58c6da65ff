package services

import (
	"fmt"
	"parcel-routing-service/internal/adapters/distance"
	"parcel-routing-service/internal/domain"
	"time"
)

var day = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2026, 1, 15, h, m, 0, 0, time.UTC)
}

// lineProvider places location i at mile i on a straight road. Only the
// upper triangle is stored so lookups rely on the mirror fallback.
func lineProvider(n int) *distance.MockDistanceProvider {
	var pairs []distance.MockPair
	addresses := make(map[string]int, n)
	for i := 0; i < n; i++ {
		addresses[fmt.Sprintf("Stop %d", i)] = i
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, distance.MockPair{From: i, To: j, Distance: float64(j - i)})
		}
	}
	return distance.NewMockDistanceProvider(pairs).WithAddresses(addresses)
}

func newItem(id, loc int, deadline time.Time, c domain.Constraint) *domain.Item {
	return &domain.Item{
		ID:         id,
		Address:    fmt.Sprintf("Stop %d", loc),
		Location:   loc,
		Deadline:   deadline,
		Constraint: c,
	}
}

func newRegistry(items ...*domain.Item) *domain.Registry {
	reg := domain.NewRegistry(len(items))
	for _, it := range items {
		if err := reg.Put(it); err != nil {
			panic(err)
		}
	}
	return reg
}
