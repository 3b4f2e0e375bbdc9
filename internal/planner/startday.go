package planner

import (
	"context"
	"math"
	"time"

	"github.com/opticore/optirider/internal/model"
	"github.com/opticore/optirider/internal/vrp"
)

// Trip is one produced depot-to-depot loop: the visited node ids in order
// (depot included at both ends) and each stop's absolute clock time.
type Trip struct {
	NodeIDs []string
	Times   []int
}

// MultiTripResult is the per-vehicle output of the multi-trip driver: an
// ordered list of trips produced across successive rounds.
type MultiTripResult struct {
	Trips [][]Trip
}

// StartDay implements the multi-trip driver of spec.md §4.2: it estimates
// a round count from total demand versus fleet capacity, then repeatedly
// solves a shrinking residual instance — peeling off whatever each
// vehicle completed and carrying the rest into the next round — until no
// vehicle produces a new trip or every node has been visited.
func StartDay(ctx context.Context, in model.Instance, dropPenalty []int, totalBudget time.Duration, rules model.RuleConfig) MultiTripResult {
	result := MultiTripResult{Trips: make([][]Trip, in.NumVehicles())}

	current := in
	current.Penalty = append([]int(nil), dropPenalty...)

	k := estimateTripCount(current)
	roundBudget := totalBudget
	if k > 1 {
		roundBudget = time.Duration(math.Ceil(float64(totalBudget) / float64(k)))
	}

	for {
		if current.NumNodes() <= 1 {
			break
		}

		numVehicles := current.NumVehicles()
		startNode := make([]int, numVehicles)
		endNode := make([]int, numVehicles)

		res, err := vrp.Solve(ctx, vrp.Round{
			Instance:   current,
			StartNode:  startNode,
			EndNode:    endNode,
			TimeBudget: roundBudget,
		}, rules)
		if err != nil {
			break
		}

		producedAny := false
		nextStart := make([]int, numVehicles)
		for v := 0; v < numVehicles; v++ {
			nodes := res.VehicleRoutes[v]
			times := res.VehicleTimes[v]

			returnTime := current.StartTime[v]
			if len(times) > 0 {
				returnTime = times[len(times)-1]
			}

			if len(nodes) > 2 {
				producedAny = true
				ids := make([]string, len(nodes))
				for i, node := range nodes {
					ids[i] = current.NodeIDs[node]
				}
				result.Trips[v] = append(result.Trips[v], Trip{
					NodeIDs: ids,
					Times:   append([]int(nil), times...),
				})
			}

			next := returnTime + rules.WaitTimeAtWarehouse
			if next > rules.GlobalEndTime {
				next = rules.GlobalEndTime
			}
			nextStart[v] = next
		}

		residualNodes := []int{0}
		for node := 1; node < current.NumNodes(); node++ {
			if res.Dropped[node] {
				residualNodes = append(residualNodes, node)
			}
		}

		if len(residualNodes) <= 1 || !producedAny {
			break
		}

		current = projectResidual(current, residualNodes, nextStart, rules.MissPenalty)
	}

	return result
}

// estimateTripCount approximates how many depot round-trips the fleet
// needs to clear every delivery's positive volume demand, used only to
// apportion the per-round search budget.
func estimateTripCount(in model.Instance) int {
	demand := 0
	for _, v := range in.PackageVolume {
		if v > 0 {
			demand += v
		}
	}
	capacity := 0
	for _, c := range in.VehicleCapacity {
		capacity += c
	}
	if capacity <= 0 {
		return 1
	}
	k := int(math.Ceil(float64(demand) / float64(capacity)))
	if k < 1 {
		k = 1
	}
	return k
}

// projectResidual builds the next round's instance: the depot plus every
// node the previous round left unvisited, each reset to the flat miss
// penalty, with each vehicle resuming at its computed next start time.
func projectResidual(in model.Instance, residualNodes []int, nextStart []int, missPenalty int) model.Instance {
	out := projectNodes(in, residualNodes)
	out.Penalty = make([]int, len(residualNodes))
	for i := range residualNodes {
		if i != 0 {
			out.Penalty[i] = missPenalty
		}
	}
	out.VehicleCapacity = append([]int(nil), in.VehicleCapacity...)
	out.StartTime = append([]int(nil), nextStart...)
	return out
}
