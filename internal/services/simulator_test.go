package services

import (
	"parcel-routing-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// routedVehicle loads items onto a fresh vehicle at speed 10 and routes it.
func routedVehicle(t *testing.T, id int, reg *domain.Registry, opt *RouteOptimizer, returnToHub bool, items ...*domain.Item) *domain.Vehicle {
	t.Helper()
	v := domain.NewVehicle(id, 16, 10, 0, at(8, 0))
	v.ReturnToHub = returnToHub
	for _, it := range items {
		require.NoError(t, v.Load(it))
	}
	require.NoError(t, opt.RouteVehicle(v, reg))
	return v
}

func TestSimulateDeliveryTimes(t *testing.T) {
	provider := lineProvider(5)
	hubItem := newItem(1, 0, at(17, 0), domain.Constraint{})
	near := newItem(2, 1, at(17, 0), domain.Constraint{})
	far := newItem(3, 3, at(17, 0), domain.Constraint{})
	sameStop := newItem(4, 3, at(17, 0), domain.Constraint{})
	reg := newRegistry(hubItem, near, far, sameStop)

	v := routedVehicle(t, 1, reg, NewRouteOptimizer(provider), false, far, hubItem, near, sameStop)
	require.Equal(t, []int{0, 1, 3}, v.Route)

	sched, err := NewSimulator(provider).Simulate(v, reg)
	require.NoError(t, err)

	assert.Equal(t, at(8, 0), *hubItem.DeliveredAt)
	assert.Equal(t, at(8, 6), *near.DeliveredAt)
	assert.Equal(t, at(8, 18), *far.DeliveredAt)
	assert.Equal(t, at(8, 18), *sameStop.DeliveredAt)
	for it := range reg.All() {
		assert.Equal(t, domain.StatusDelivered, it.Status)
		assert.Equal(t, at(8, 0), *it.DispatchedAt)
	}

	require.Len(t, sched.Legs, 2)
	assert.Equal(t, []int{2}, sched.Legs[0].ItemIDs)
	assert.ElementsMatch(t, []int{3, 4}, sched.Legs[1].ItemIDs)
	assert.Equal(t, 3.0, sched.TotalDistance)
	assert.Equal(t, 3.0, v.Distance)
}

func TestSimulateDeterministic(t *testing.T) {
	provider := lineProvider(6)
	items := []*domain.Item{
		newItem(1, 4, at(17, 0), domain.Constraint{}),
		newItem(2, 2, at(17, 0), domain.Constraint{}),
		newItem(3, 5, at(17, 0), domain.Constraint{}),
	}
	reg := newRegistry(items...)
	v := routedVehicle(t, 1, reg, NewRouteOptimizer(provider), true, items...)
	sim := NewSimulator(provider)

	first, err := sim.Simulate(v, reg)
	require.NoError(t, err)
	firstTimes := map[int]any{}
	for _, it := range items {
		firstTimes[it.ID] = *it.DeliveredAt
	}

	second, err := sim.Simulate(v, reg)
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, firstTimes[it.ID], *it.DeliveredAt)
	}
	assert.Equal(t, first, second)
}

func TestSimulateFinalPositionMatchesRoute(t *testing.T) {
	provider := lineProvider(6)
	items := []*domain.Item{
		newItem(1, 5, at(17, 0), domain.Constraint{}),
		newItem(2, 2, at(17, 0), domain.Constraint{}),
	}
	reg := newRegistry(items...)
	v := routedVehicle(t, 1, reg, NewRouteOptimizer(provider), false, items...)

	sched, err := NewSimulator(provider).Simulate(v, reg)
	require.NoError(t, err)

	pos := sched.PositionAt(sched.FinishAt())
	assert.Equal(t, v.Route[len(v.Route)-1], pos.Location)
	assert.Equal(t, v.Distance, pos.Mileage)
}

func TestSimulateRejectsBadVehicle(t *testing.T) {
	provider := lineProvider(3)
	item := newItem(1, 2, at(17, 0), domain.Constraint{})
	reg := newRegistry(item)

	v := domain.NewVehicle(1, 16, 0, 0, at(8, 0))
	require.NoError(t, v.Load(item))
	v.Route = []int{0, 2}

	_, err := NewSimulator(provider).Simulate(v, reg)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	v.Speed = 10
	v.Route = []int{0, 1}
	_, err = NewSimulator(provider).Simulate(v, reg)
	require.ErrorIs(t, err, domain.ErrUnresolvableLocation, "item location missing from route")
}

func TestSimulateFleetWaitsForReturningVehicle(t *testing.T) {
	provider := lineProvider(4)
	first := newItem(1, 2, at(17, 0), domain.Constraint{})
	later := newItem(2, 1, at(17, 0), domain.Constraint{})
	reg := newRegistry(first, later)
	opt := NewRouteOptimizer(provider)

	v1 := routedVehicle(t, 1, reg, opt, true, first)
	v3 := routedVehicle(t, 3, reg, opt, false, later)
	v3.WaitsFor = 1

	// Listed out of order; the awaited vehicle must still run first.
	schedules, err := NewSimulator(provider).SimulateFleet([]*domain.Vehicle{v3, v1}, reg)
	require.NoError(t, err)

	assert.Equal(t, at(8, 24), schedules[1].FinishAt())
	assert.Equal(t, at(8, 24), v3.DepartAt)
	assert.Equal(t, at(8, 0), v3.ScheduledDepartAt)
	assert.Equal(t, at(8, 30), *later.DeliveredAt)
}

func TestSimulateFleetUnknownDependency(t *testing.T) {
	reg := newRegistry()
	v := domain.NewVehicle(1, 16, 10, 0, at(8, 0))
	v.WaitsFor = 7

	_, err := NewSimulator(lineProvider(2)).SimulateFleet([]*domain.Vehicle{v}, reg)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestViolations(t *testing.T) {
	provider := lineProvider(4)
	onTime := newItem(1, 1, at(8, 10), domain.Constraint{})
	late := newItem(2, 3, at(8, 10), domain.Constraint{})
	reg := newRegistry(onTime, late)
	v := routedVehicle(t, 1, reg, NewRouteOptimizer(provider), false, onTime, late)

	_, err := NewSimulator(provider).Simulate(v, reg)
	require.NoError(t, err)

	got := Violations(v, reg)
	require.Len(t, got, 1)
	assert.Equal(t, domain.Violation{ItemID: 2, VehicleID: 1, Deadline: at(8, 10), DeliveredAt: at(8, 18)}, got[0])
}
