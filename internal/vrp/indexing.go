package vrp

import (
	"context"
	"fmt"

	"github.com/nextmv-io/sdk/route"
	"github.com/nextmv-io/sdk/store"

	"github.com/opticore/optirider/internal/model"
)

// boundaryNodes splits an instance's nodes into the set that become
// router "stops" (droppable, visitable by any vehicle) versus the set
// that are some vehicle's fixed start or end node.
func boundaryNodes(numNodes int, startNode, endNode []int) (stopNodes []int, isBoundary map[int]bool) {
	isBoundary = make(map[int]bool, len(startNode)+len(endNode))
	for _, n := range startNode {
		isBoundary[n] = true
	}
	for _, n := range endNode {
		isBoundary[n] = true
	}
	for node := 0; node < numNodes; node++ {
		if !isBoundary[node] {
			stopNodes = append(stopNodes, node)
		}
	}
	return stopNodes, isBoundary
}

// newIndexSpace builds the mapping from the router's global point index
// (stops 0..n-1, then each vehicle's (start, end) pair) back to our
// instance's node index, mirroring the ordering the SDK's own demos use
// when building an indexed measure: all stops first, then one start/end
// pair per vehicle in vehicle order.
func newIndexSpace(stopNodes, startNode, endNode []int) []int {
	idx := make([]int, 0, len(stopNodes)+2*len(startNode))
	idx = append(idx, stopNodes...)
	for v := range startNode {
		idx = append(idx, startNode[v], endNode[v])
	}
	return idx
}

// matrixMeasure adapts a precomputed integer time matrix into the SDK's
// ByIndex measure contract, in place of the Haversine-over-points measure
// the demos build for geocoded stops: the distance provider here already
// hands back travel times directly.
type matrixMeasure struct {
	timeMatrix   [][]int
	nodeForIndex []int
}

// Cost implements route.ByIndex.
func (m matrixMeasure) Cost(from, to int) float64 {
	return float64(m.timeMatrix[m.nodeForIndex[from]][m.nodeForIndex[to]])
}

// buildBacklogs turns a per-vehicle prefix of already-decided instance
// node indices into the SDK's Backlog seed (§4.1's "optional initial
// solution").
func buildBacklogs(in model.Instance, initialSolution [][]int) []route.Backlog {
	backlogs := make([]route.Backlog, 0, len(initialSolution))
	for v, prefix := range initialSolution {
		if len(prefix) == 0 {
			continue
		}
		ids := make([]string, len(prefix))
		for i, node := range prefix {
			ids[i] = in.NodeIDs[node]
		}
		backlogs = append(backlogs, route.Backlog{
			VehicleID: fmt.Sprintf("vehicle-%d", v),
			Stops:     ids,
		})
	}
	return backlogs
}

// emptyResult is returned when the model fails to build or the solver
// finds no feasible assignment: every stop node is dropped and every
// vehicle's trip is the trivial start/end loop, per spec.md §4.1's error
// condition.
func emptyResult(in model.Instance, rc Round, stopNodes []int, _ map[int]bool) Result {
	numVehicles := in.NumVehicles()
	routes := make([][]int, numVehicles)
	times := make([][]int, numVehicles)
	for v := 0; v < numVehicles; v++ {
		routes[v] = []int{rc.StartNode[v], rc.EndNode[v]}
		times[v] = []int{in.StartTime[v], in.StartTime[v]}
	}
	dropped := make(map[int]bool, len(stopNodes))
	for _, node := range stopNodes {
		dropped[node] = true
	}
	return Result{VehicleRoutes: routes, VehicleTimes: times, Dropped: dropped}
}

// assembleResult converts the SDK's solved route.Plan back into
// instance-node-indexed routes and absolute stop times.
func assembleResult(in model.Instance, rc Round, stopNodes []int, plan route.Plan) Result {
	nodeForID := make(map[string]int, len(in.NodeIDs))
	for i, id := range in.NodeIDs {
		nodeForID[id] = i
	}

	numVehicles := in.NumVehicles()
	routes := make([][]int, numVehicles)
	times := make([][]int, numVehicles)
	dropped := make(map[int]bool, len(stopNodes))
	for _, node := range stopNodes {
		dropped[node] = true
	}

	for v := 0; v < numVehicles && v < len(plan.Vehicles); v++ {
		pv := plan.Vehicles[v]
		routeNodes := make([]int, 0, len(pv.Route))
		routeTimes := make([]int, 0, len(pv.Route))
		last := len(pv.Route) - 1
		for i, stop := range pv.Route {
			var node int
			switch {
			case i == 0:
				node = rc.StartNode[v]
			case i == last:
				node = rc.EndNode[v]
			default:
				n, ok := nodeForID[stop.ID]
				if !ok {
					continue
				}
				node = n
				delete(dropped, node)
			}
			routeNodes = append(routeNodes, node)
			routeTimes = append(routeTimes, unepoch(stop.EstimatedArrival))
		}
		routes[v] = routeNodes
		times[v] = routeTimes
	}

	return Result{VehicleRoutes: routes, VehicleTimes: times, Dropped: dropped}
}

// bestPlan drains the solver's improving-solution stream and returns the
// last (best) route.Plan produced before the round's time budget expired,
// per spec.md §5's cooperative-cancellation contract: a solve that times
// out still yields its best known assignment, never an error.
func bestPlan(ctx context.Context, solver store.Solver) (route.Plan, bool) {
	var last store.Solution
	found := false
	for solution := range solver.Run(ctx) {
		last = solution
		found = true
	}
	if !found {
		return route.Plan{}, false
	}
	plan, ok := last.Store.Format().(route.Plan)
	if !ok {
		return route.Plan{}, false
	}
	return plan, true
}
