package services

import (
	"parcel-routing-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFleet(capacity int) []*domain.Vehicle {
	return []*domain.Vehicle{
		domain.NewVehicle(1, capacity, 18, 0, at(8, 0)),
		domain.NewVehicle(2, capacity, 18, 0, at(9, 5)),
		domain.NewVehicle(3, capacity, 18, 0, at(10, 20)),
	}
}

func TestPartitionHardConstraints(t *testing.T) {
	none := domain.Constraint{}
	items := []*domain.Item{
		newItem(1, 1, at(9, 0), domain.Constraint{Kind: domain.ConstraintFixedVehicle, VehicleID: 2}),
		newItem(2, 2, at(17, 0), domain.Constraint{Kind: domain.ConstraintDelayed, Until: at(9, 5)}),
		newItem(3, 3, at(17, 0), domain.Constraint{Kind: domain.ConstraintWrongAddressUntil, Until: at(10, 20), CorrectedAddress: "Stop 3"}),
		newItem(4, 4, at(10, 30), domain.Constraint{Kind: domain.ConstraintGroupedWith, Group: []int{5}}),
		newItem(5, 5, at(17, 0), none),
		newItem(6, 6, at(17, 0), domain.Constraint{Kind: domain.ConstraintGroupedWith, Group: []int{4, 7}}),
		newItem(7, 7, at(17, 0), none),
	}

	loads, err := Partition(items, testFleet(16))
	require.NoError(t, err)

	assert.Contains(t, loads[2], 1, "fixed vehicle wins regardless of deadline")
	assert.Contains(t, loads[2], 2, "delayed goes to the earliest departure after arrival")
	assert.Contains(t, loads[3], 3, "wrong address goes to the latest departure after correction")

	for _, id := range []int{4, 5, 6, 7} {
		assert.Contains(t, loads[1], id, "group members ride together on the earliest departure")
	}
}

func TestPartitionGroupFollowsPinnedMember(t *testing.T) {
	items := []*domain.Item{
		newItem(1, 1, at(17, 0), domain.Constraint{Kind: domain.ConstraintFixedVehicle, VehicleID: 3}),
		newItem(2, 2, at(17, 0), domain.Constraint{Kind: domain.ConstraintGroupedWith, Group: []int{1, 3}}),
		newItem(3, 3, at(17, 0), domain.Constraint{}),
	}

	loads, err := Partition(items, testFleet(16))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 3}, loads[3])
}

func TestPartitionGroupPinnedToTwoVehicles(t *testing.T) {
	items := []*domain.Item{
		newItem(1, 1, at(17, 0), domain.Constraint{Kind: domain.ConstraintFixedVehicle, VehicleID: 1}),
		newItem(2, 2, at(17, 0), domain.Constraint{Kind: domain.ConstraintFixedVehicle, VehicleID: 2}),
		newItem(3, 3, at(17, 0), domain.Constraint{Kind: domain.ConstraintGroupedWith, Group: []int{1, 2}}),
	}

	_, err := Partition(items, testFleet(16))
	require.ErrorIs(t, err, domain.ErrInfeasibleSchedule)
}

func TestPartitionDisjointAndComplete(t *testing.T) {
	var items []*domain.Item
	for id := 1; id <= 30; id++ {
		items = append(items, newItem(id, id%7, at(9+id%8, 0), domain.Constraint{}))
	}
	items[3].Constraint = domain.Constraint{Kind: domain.ConstraintFixedVehicle, VehicleID: 3}
	items[9].Constraint = domain.Constraint{Kind: domain.ConstraintDelayed, Until: at(9, 5)}

	fleet := testFleet(16)
	loads, err := Partition(items, fleet)
	require.NoError(t, err)

	seen := map[int]int{}
	for vid, ids := range loads {
		for _, id := range ids {
			prev, dup := seen[id]
			require.False(t, dup, "item %d on vehicles %d and %d", id, prev, vid)
			seen[id] = vid
		}
	}
	assert.Len(t, seen, len(items))

	for _, v := range fleet {
		assert.LessOrEqual(t, len(loads[v.ID]), v.Capacity)
	}
}

func TestPartitionPrefersLocalityThenLeastLoaded(t *testing.T) {
	items := []*domain.Item{
		newItem(1, 1, at(17, 0), domain.Constraint{}),
		newItem(2, 2, at(17, 0), domain.Constraint{}),
		newItem(3, 1, at(17, 0), domain.Constraint{}),
	}

	loads, err := Partition(items, testFleet(4))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, loads[1])
	assert.Equal(t, []int{2}, loads[2])
	assert.Empty(t, loads[3])
}

func TestPartitionOrdersByDeadline(t *testing.T) {
	fleet := []*domain.Vehicle{domain.NewVehicle(1, 1, 18, 0, at(8, 0))}
	items := []*domain.Item{
		newItem(1, 1, at(17, 0), domain.Constraint{}),
		newItem(2, 2, at(9, 0), domain.Constraint{}),
	}

	_, err := Partition(items, fleet)
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
	assert.ErrorContains(t, err, "item 1", "the later deadline is the one left without room")
}

func TestPartitionCapacityExceeded(t *testing.T) {
	fleet := []*domain.Vehicle{
		domain.NewVehicle(1, 1, 18, 0, at(8, 0)),
		domain.NewVehicle(2, 1, 18, 0, at(9, 0)),
	}
	items := []*domain.Item{
		newItem(1, 1, at(17, 0), domain.Constraint{}),
		newItem(2, 2, at(17, 0), domain.Constraint{}),
		newItem(3, 3, at(17, 0), domain.Constraint{}),
	}

	_, err := Partition(items, fleet)
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestPartitionInfeasibleTiming(t *testing.T) {
	tests := []struct {
		name string
		c    domain.Constraint
	}{
		{name: "delayed past last departure", c: domain.Constraint{Kind: domain.ConstraintDelayed, Until: at(11, 0)}},
		{name: "corrected past last departure", c: domain.Constraint{Kind: domain.ConstraintWrongAddressUntil, Until: at(11, 0), CorrectedAddress: "Stop 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition([]*domain.Item{newItem(1, 1, at(17, 0), tt.c)}, testFleet(16))
			require.ErrorIs(t, err, domain.ErrInfeasibleSchedule)
		})
	}
}

func TestPartitionUnknownReferences(t *testing.T) {
	tests := []struct {
		name string
		c    domain.Constraint
	}{
		{name: "unknown vehicle", c: domain.Constraint{Kind: domain.ConstraintFixedVehicle, VehicleID: 9}},
		{name: "unknown group member", c: domain.Constraint{Kind: domain.ConstraintGroupedWith, Group: []int{42}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition([]*domain.Item{newItem(1, 1, at(17, 0), tt.c)}, testFleet(16))
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestPartitionGroupWaitsForDelayedMember(t *testing.T) {
	items := []*domain.Item{
		newItem(1, 1, at(17, 0), domain.Constraint{Kind: domain.ConstraintGroupedWith, Group: []int{2}}),
		newItem(2, 2, at(17, 0), domain.Constraint{Kind: domain.ConstraintDelayed, Until: at(9, 5)}),
	}

	loads, err := Partition(items, testFleet(16))
	require.NoError(t, err)

	assert.Empty(t, loads[1], "the 08:00 departure leaves before item 2 arrives")
	assert.ElementsMatch(t, []int{1, 2}, loads[2])
}

func TestPartitionGroupDepartsTooEarly(t *testing.T) {
	tests := []struct {
		name  string
		items []*domain.Item
	}{
		{
			name: "pinned to an earlier departure",
			items: []*domain.Item{
				newItem(1, 1, at(17, 0), domain.Constraint{Kind: domain.ConstraintFixedVehicle, VehicleID: 1}),
				newItem(2, 2, at(17, 0), domain.Constraint{Kind: domain.ConstraintGroupedWith, Group: []int{1, 3}}),
				newItem(3, 3, at(17, 0), domain.Constraint{Kind: domain.ConstraintDelayed, Until: at(9, 5)}),
			},
		},
		{
			name: "ready after every departure",
			items: []*domain.Item{
				newItem(1, 1, at(17, 0), domain.Constraint{Kind: domain.ConstraintGroupedWith, Group: []int{2}}),
				newItem(2, 2, at(17, 0), domain.Constraint{Kind: domain.ConstraintDelayed, Until: at(11, 0)}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Partition(tt.items, testFleet(16))
			require.ErrorIs(t, err, domain.ErrInfeasibleSchedule)
		})
	}
}

func TestPartitionLocalityUsesCorrectedAddress(t *testing.T) {
	wrong := newItem(1, 3, at(17, 0), domain.Constraint{Kind: domain.ConstraintWrongAddressUntil, Until: at(10, 20), CorrectedAddress: "Stop 3"})
	wrong.Address = "Old Road 6"
	items := []*domain.Item{
		wrong,
		newItem(2, 3, at(17, 0), domain.Constraint{}),
	}

	loads, err := Partition(items, testFleet(16))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, loads[3], "item 2 joins the vehicle already driving to Stop 3")
	assert.Empty(t, loads[1])
}
