package planner

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opticore/optirider/internal/model"
)

// fakeProvider is a deterministic stand-in for distance.Provider: it
// always returns the same precomputed matrix, regardless of the points
// passed in, so tests can drive BuildInstance without a network call.
type fakeProvider struct {
	matrix [][]int
}

func (f fakeProvider) Matrix(_ context.Context, _ []model.Point) ([][]int, error) {
	return f.matrix, nil
}

func e2eRules() model.RuleConfig {
	return model.RuleConfig{
		MissPenalty:         2_000_000,
		MissPenaltyReducer:  20,
		WaitTimeAtWarehouse: 0,
		LateDeliveryPenalty: 10,
		GlobalStartTime:     9 * 3600,
		GlobalEndTime:       21 * 3600,
		MaxTripTime:         5*3600 + 30*60,
	}
}

// TestStartDay_CapacityPeel exercises BuildInstance and StartDay
// end-to-end against spec.md's end-to-end scenario 2: three deliveries
// each exactly filling a capacity-40 rider's vehicle must come back as
// three separate depot-to-depot trips, one delivery apiece.
func TestStartDay_CapacityPeel(t *testing.T) {
	ctx := context.Background()
	depot := model.Depot{ID: "depot", Point: model.Point{Longitude: 0, Latitude: 0}}
	orders := []model.Order{
		{ID: "o1", Kind: model.Delivery, Point: model.Point{Longitude: 1, Latitude: 0}, ExpectedTime: 9*3600 + 5000, PackageVolume: 40},
		{ID: "o2", Kind: model.Delivery, Point: model.Point{Longitude: 2, Latitude: 0}, ExpectedTime: 9*3600 + 5000, PackageVolume: 40},
		{ID: "o3", Kind: model.Delivery, Point: model.Point{Longitude: 3, Latitude: 0}, ExpectedTime: 9*3600 + 5000, PackageVolume: 40},
	}
	riders := []model.Rider{{ID: "r1", Capacity: 40, StartTime: 9 * 3600, TourLocation: -1}}

	provider := fakeProvider{matrix: [][]int{
		{0, 100, 100, 100},
		{100, 0, 150, 150},
		{100, 150, 0, 150},
		{100, 150, 150, 0},
	}}

	rules := e2eRules()
	in, err := BuildInstance(ctx, provider, depot, orders, riders, 9*3600, rules)
	assert.NoError(t, err)

	result := StartDay(ctx, in, in.Penalty, 5*time.Second, rules)

	assert.Len(t, result.Trips, 1)
	trips := result.Trips[0]
	assert.Len(t, trips, 3, "one trip per delivery, each filling the vehicle's capacity")

	served := map[string]bool{}
	for _, trip := range trips {
		assert.Equal(t, "depot", trip.NodeIDs[0])
		assert.Equal(t, "depot", trip.NodeIDs[len(trip.NodeIDs)-1])
		assert.Len(t, trip.NodeIDs, 3, "depot, one delivery, depot")
		served[trip.NodeIDs[1]] = true
	}
	assert.Equal(t, map[string]bool{"o1": true, "o2": true, "o3": true}, served)
}

// TestAddPickups_InsertsWhenCapacityAllows exercises BuildInstance and
// AddPickups end-to-end against spec.md's end-to-end scenario 4: a
// rider whose current trip still holds one delivery (TourLocation 0: it
// has not yet left the depot), with ample spare capacity, must absorb a
// new pickup into its current trip.
func TestAddPickups_InsertsWhenCapacityAllows(t *testing.T) {
	ctx := context.Background()
	depot := model.Depot{ID: "depot", Point: model.Point{Longitude: 0, Latitude: 0}}
	orders := []model.Order{
		{ID: "o1", Kind: model.Delivery, Point: model.Point{Longitude: 1, Latitude: 0}, ExpectedTime: 9*3600 + 5000, PackageVolume: 10},
		{ID: "p1", Kind: model.Pickup, Point: model.Point{Longitude: 2, Latitude: 0}, ExpectedTime: 9*3600 + 5000, PackageVolume: 8},
	}
	rider := model.Rider{
		ID:           "r1",
		Capacity:     1000, // ample headroom, independent of how initial load is charged
		StartTime:    9 * 3600,
		TourLocation: 0,
		CurrentTours: []model.Trip{{Stops: []model.Stop{
			{NodeID: "depot", Time: 9 * 3600},
			{NodeID: "o1", Time: 9*3600 + 100},
		}}},
	}

	provider := fakeProvider{matrix: [][]int{
		{0, 100, 150},
		{100, 0, 80},
		{150, 80, 0},
	}}

	rules := e2eRules()
	in, err := BuildInstance(ctx, provider, depot, orders, []model.Rider{rider}, 9*3600, rules)
	assert.NoError(t, err)

	out := AddPickups(ctx, AddPickupsInput{
		Instance:    in,
		Riders:      []model.Rider{rider},
		NewPickups:  []string{"p1"},
		CurTime:     9 * 3600,
		TotalBudget: 4 * time.Second,
		Rand:        rand.New(rand.NewSource(1)),
	}, rules)

	assert.Len(t, out.RiderPlans, 1)
	plan := out.RiderPlans[0]
	assert.True(t, plan.UpdatedCurrentTour)
	assert.NotEmpty(t, plan.Trips)

	foundPickup := false
	for _, s := range plan.Trips[0].Stops {
		if s.NodeID == "p1" {
			foundPickup = true
		}
	}
	assert.True(t, foundPickup, "new pickup should be spliced into the rider's current trip")
}

// TestDeletePickup_VisitedPickupUnchanged exercises DeletePickup
// end-to-end against spec.md's end-to-end scenario 6: deleting a pickup
// that sits before tour_location (already visited) must return every
// rider's plan unchanged, with no changed rider reported.
func TestDeletePickup_VisitedPickupUnchanged(t *testing.T) {
	stops := []model.Stop{
		{NodeID: "depot", Time: 9 * 3600},
		{NodeID: "pickupX", Time: 9*3600 + 100},
		{NodeID: "orderY", Time: 9*3600 + 250},
		{NodeID: "depot", Time: 9*3600 + 400},
	}
	rider := model.Rider{
		ID:           "r1",
		Capacity:     40,
		StartTime:    9 * 3600,
		TourLocation: 2,
		CurrentTours: []model.Trip{{Stops: stops}},
	}

	in := model.Instance{
		TimeMatrix: [][]int{
			{0, 100, 150},
			{100, 0, 120},
			{150, 120, 0},
		},
		NodeIDs:         []string{"depot", "pickupX", "orderY"},
		PackageVolume:   []int{0, -8, 10},
		DeliveryTime:    []int{0, 9*3600 + 5000, 9*3600 + 5000},
		ServiceTime:     []int{0, 0, 0},
		Penalty:         []int{0, 2_000_000, 2_000_000},
		VehicleCapacity: []int{40},
		StartTime:       []int{9 * 3600},
	}

	out := DeletePickup(context.Background(), DeletePickupInput{
		Instance:    in,
		Riders:      []model.Rider{rider},
		DelOrderID:  "pickupX",
		CurTime:     9 * 3600,
		TotalBudget: 2 * time.Second,
	}, e2eRules())

	assert.Equal(t, "", out.ChangedRider)
	assert.Len(t, out.RiderPlans, 1)
	assert.Equal(t, []model.Trip{{Stops: stops}}, out.RiderPlans[0].Trips)
}
