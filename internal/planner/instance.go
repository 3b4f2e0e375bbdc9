// Package planner implements the problem builder, the multi-trip driver,
// the two re-planning engines and the result assembler of spec.md §4.
package planner

import (
	"context"

	"github.com/opticore/optirider/internal/distance"
	"github.com/opticore/optirider/internal/model"
	"github.com/opticore/optirider/internal/penalty"
)

// BuildInstance normalises a depot, an ordered order catalogue and a
// rider set into the numeric problem instance of spec.md §3: point 0 is
// the depot, points 1..N are orders in input order, deliveries contribute
// +volume and pickups -volume, and service time at the depot is zero.
// It also fills Instance.Penalty with the initial age-discounted
// drop-penalty vector (0 for the depot).
func BuildInstance(
	ctx context.Context,
	provider distance.Provider,
	depot model.Depot,
	orders []model.Order,
	riders []model.Rider,
	nowTime int,
	rules model.RuleConfig,
) (model.Instance, error) {
	points := make([]model.Point, 0, len(orders)+1)
	points = append(points, depot.Point)
	nodeIDs := make([]string, 0, len(orders)+1)
	nodeIDs = append(nodeIDs, depot.ID)
	volumes := []int{0}
	deliveryTimes := []int{0}
	serviceTimes := []int{0}
	dropPenalty := []int{0}

	for _, o := range orders {
		points = append(points, o.Point)
		nodeIDs = append(nodeIDs, o.ID)
		volumes = append(volumes, o.SignedVolume())
		deliveryTimes = append(deliveryTimes, o.ExpectedTime)
		serviceTimes = append(serviceTimes, o.ServiceTime)
		dropPenalty = append(dropPenalty, penalty.Miss(o.ExpectedTime, nowTime, rules.MissPenalty, rules.MissPenaltyReducer))
	}

	matrix, err := provider.Matrix(ctx, points)
	if err != nil {
		return model.Instance{}, err
	}

	capacities := make([]int, len(riders))
	startTimes := make([]int, len(riders))
	for i, r := range riders {
		capacities[i] = r.Capacity
		startTimes[i] = r.StartTime
	}

	return model.Instance{
		TimeMatrix:      matrix,
		NodeIDs:         nodeIDs,
		PackageVolume:   volumes,
		DeliveryTime:    deliveryTimes,
		ServiceTime:     serviceTimes,
		Penalty:         dropPenalty,
		VehicleCapacity: capacities,
		StartTime:       startTimes,
	}, nil
}

// NodeIndex builds a lookup from client-facing order/depot id to instance
// node index.
func NodeIndex(in model.Instance) map[string]int {
	idx := make(map[string]int, len(in.NodeIDs))
	for i, id := range in.NodeIDs {
		idx[id] = i
	}
	return idx
}

// projectNodes builds the time-matrix/per-node-vector projection of full
// onto the given global node indices, in the order given. Penalty,
// VehicleCapacity and StartTime are left zero-valued; callers fill those
// in for their own round.
func projectNodes(full model.Instance, nodes []int) model.Instance {
	n := len(nodes)
	matrix := make([][]int, n)
	nodeIDs := make([]string, n)
	volume := make([]int, n)
	delivery := make([]int, n)
	service := make([]int, n)
	for i, from := range nodes {
		matrix[i] = make([]int, n)
		for j, to := range nodes {
			matrix[i][j] = full.TimeMatrix[from][to]
		}
		nodeIDs[i] = full.NodeIDs[from]
		volume[i] = full.PackageVolume[from]
		delivery[i] = full.DeliveryTime[from]
		service[i] = full.ServiceTime[from]
	}
	return model.Instance{
		TimeMatrix:    matrix,
		NodeIDs:       nodeIDs,
		PackageVolume: volume,
		DeliveryTime:  delivery,
		ServiceTime:   service,
	}
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return a
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

