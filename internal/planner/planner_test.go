package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opticore/optirider/internal/model"
)

func TestEstimateTripCount(t *testing.T) {
	in := model.Instance{
		PackageVolume:   []int{0, 40, 40, -10},
		VehicleCapacity: []int{40},
	}
	assert.Equal(t, 2, estimateTripCount(in))
}

func TestEstimateTripCount_ZeroCapacity(t *testing.T) {
	in := model.Instance{
		PackageVolume:   []int{0, 10},
		VehicleCapacity: []int{0, 0},
	}
	assert.Equal(t, 1, estimateTripCount(in))
}

func TestCeilDiv(t *testing.T) {
	assert.Equal(t, 2, ceilDiv(3, 2))
	assert.Equal(t, 1, ceilDiv(2, 2))
	assert.Equal(t, 0, ceilDiv(0, 2))
}

func TestProjectNodes(t *testing.T) {
	full := model.Instance{
		TimeMatrix: [][]int{
			{0, 10, 20},
			{10, 0, 15},
			{20, 15, 0},
		},
		NodeIDs:       []string{"depot", "a", "b"},
		PackageVolume: []int{0, 5, -3},
		DeliveryTime:  []int{0, 100, 200},
		ServiceTime:   []int{0, 30, 45},
	}
	sub := projectNodes(full, []int{0, 2})
	assert.Equal(t, []string{"depot", "b"}, sub.NodeIDs)
	assert.Equal(t, [][]int{{0, 20}, {20, 0}}, sub.TimeMatrix)
	assert.Equal(t, []int{0, -3}, sub.PackageVolume)
	assert.Equal(t, 45, sub.ServiceTime[1])
}

func TestOrderAppearsAnywhere(t *testing.T) {
	riders := []model.Rider{
		{CurrentTours: []model.Trip{{Stops: []model.Stop{{NodeID: "depot"}, {NodeID: "o1"}, {NodeID: "depot"}}}}},
	}
	assert.True(t, orderAppearsAnywhere(riders, "o1"))
	assert.False(t, orderAppearsAnywhere(riders, "o2"))
}

func TestCurrentTripChanged(t *testing.T) {
	rider := model.Rider{CurrentTours: []model.Trip{{Stops: []model.Stop{{NodeID: "depot"}, {NodeID: "o1"}}}}}

	same := model.Trip{Stops: []model.Stop{{NodeID: "depot"}, {NodeID: "o1"}}}
	assert.False(t, currentTripChanged(rider, same))

	different := model.Trip{Stops: []model.Stop{{NodeID: "depot"}, {NodeID: "o2"}, {NodeID: "depot"}}}
	assert.True(t, currentTripChanged(rider, different))
}

func TestSortInts(t *testing.T) {
	s := []int{5, 1, 3, 0, 2}
	sortInts(s)
	assert.Equal(t, []int{0, 1, 2, 3, 5}, s)
}
