package vrp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/opticore/optirider/internal/model"
)

func testRules() model.RuleConfig {
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

// TestSolve_SingleDeliverySingleRider exercises the single-trip solver
// end-to-end against spec.md's end-to-end scenario 1: one rider, one
// delivery, symmetric 100s travel time each way. Expect a single trip
// depot->order->depot with the order timed at travel_time past the
// rider's start time and zero service.
func TestSolve_SingleDeliverySingleRider(t *testing.T) {
	in := model.Instance{
		TimeMatrix: [][]int{
			{0, 100},
			{100, 0},
		},
		NodeIDs:         []string{"depot", "order1"},
		PackageVolume:   []int{0, 5},
		DeliveryTime:    []int{0, 10 * 3600},
		ServiceTime:     []int{0, 0},
		Penalty:         []int{0, 2_000_000},
		VehicleCapacity: []int{10},
		StartTime:       []int{9 * 3600},
	}

	res, err := Solve(context.Background(), Round{
		Instance:   in,
		StartNode:  []int{0},
		EndNode:    []int{0},
		TimeBudget: 2 * time.Second,
	}, testRules())

	assert.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1, 0}}, res.VehicleRoutes)
	assert.Equal(t, 9*3600, res.VehicleTimes[0][0])
	assert.Equal(t, 9*3600+100, res.VehicleTimes[0][1])
	assert.Equal(t, 9*3600+200, res.VehicleTimes[0][2])
	assert.False(t, res.Dropped[1])
}
