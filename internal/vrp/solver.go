// Package vrp implements the single-trip constrained VRP solver of
// spec.md §4.1 on top of the nextmv routing SDK: capacity, fixed
// per-vehicle start time, soft lateness, per-node drop disjunctions and
// an optional stop-count cap, seeded from an optional partial solution.
package vrp

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/route"
	"github.com/nextmv-io/sdk/store"

	"github.com/opticore/optirider/internal/model"
)

// Round is one single-trip solve request: a problem instance plus the
// per-vehicle start/end nodes, initial load and the optional knobs of
// §4.1 (stop-count cap, initial solution seed).
type Round struct {
	Instance model.Instance

	// StartNode/EndNode give, per vehicle, the instance node index the
	// vehicle departs from / must return to. For the multi-trip driver
	// these are always the depot (0); the add-pickups engine may pass a
	// rider's current in-transit position and an explicit appended end
	// node.
	StartNode []int
	EndNode   []int

	// InitialLoad is the capacity already consumed by each vehicle before
	// this round starts (non-zero only when splicing a trip in progress).
	InitialLoad []int

	// MaxStops optionally caps the number of stops, excluding the
	// vehicle's start and end node, any one vehicle may be assigned in
	// this round (§4.1.5, the route_length input of §4.3).
	MaxStops *int

	// InitialSolution seeds the search with a fixed, already-decided
	// prefix of stop node indices per vehicle (the Backlog of §4.1's
	// "optional initial solution").
	InitialSolution [][]int

	// TimeBudget bounds the CP search (§4.1's guided-local-search budget
	// T, apportioned per round by the multi-trip driver).
	TimeBudget time.Duration
}

// Result is the per-vehicle output of one round: ordered node visits
// (start and end node included), their absolute clock times, and the set
// of instance nodes the solver left unassigned.
type Result struct {
	VehicleRoutes [][]int
	VehicleTimes  [][]int
	Dropped       map[int]bool
}

// Solve runs one bounded single-trip VRP solve. On infeasibility it
// returns an empty-tour result with every non-end node marked dropped,
// per spec.md §4.1's error condition — never an error.
func Solve(ctx context.Context, rc Round, rules model.RuleConfig) (Result, error) {
	in := rc.Instance
	numVehicles := in.NumVehicles()

	stopNodes, isBoundary := boundaryNodes(in.NumNodes(), rc.StartNode, rc.EndNode)

	stops := make([]route.Stop, len(stopNodes))
	quantities := make([]int, len(stopNodes))
	services := make([]route.Service, len(stopNodes))
	penalties := make([]int, len(stopNodes))
	for k, node := range stopNodes {
		stops[k] = route.Stop{ID: in.NodeIDs[node]}
		quantities[k] = in.PackageVolume[node]
		services[k] = route.Service{ID: in.NodeIDs[node], Duration: in.ServiceTime[node]}
		penalties[k] = in.Penalty[node]
	}

	capacities := make([]int, numVehicles)
	for v := 0; v < numVehicles; v++ {
		capacities[v] = in.VehicleCapacity[v] - initialLoadOf(rc.InitialLoad, v)
		if capacities[v] < 0 {
			capacities[v] = 0
		}
	}

	startPositions := make([]route.Position, numVehicles)
	endPositions := make([]route.Position, numVehicles)
	shifts := make([]route.TimeWindow, numVehicles)
	for v := 0; v < numVehicles; v++ {
		tripEnd := in.StartTime[v] + rules.MaxTripTime
		if rules.GlobalEndTime < tripEnd {
			tripEnd = rules.GlobalEndTime
		}
		shifts[v] = route.TimeWindow{Start: epoch(in.StartTime[v]), End: epoch(tripEnd)}
	}

	globalIndex := newIndexSpace(stopNodes, rc.StartNode, rc.EndNode)
	measure := matrixMeasure{timeMatrix: in.TimeMatrix, nodeForIndex: globalIndex}
	measures := make([]route.ByIndex, numVehicles)
	for v := range measures {
		measures[v] = measure
	}

	backlogs := buildBacklogs(in, rc.InitialSolution)

	opts := []route.Option{
		route.Starts(startPositions),
		route.Ends(endPositions),
		route.Shifts(shifts),
		route.Capacity(quantities, capacities),
		route.Services(services),
		route.Unassigned(penalties),
		route.TravelTimeMeasures(measures),
		route.ValueFunctionMeasures(measures),
		route.Threads(1),
	}
	if len(backlogs) > 0 {
		opts = append(opts, route.Backlogs(backlogs))
	}

	vehicles := make([]string, numVehicles)
	for v := range vehicles {
		vehicles[v] = fmt.Sprintf("vehicle-%d", v)
	}

	lateness := latenessUpdater{instance: in, stopNodes: stopNodes, perSecond: rules.LateDeliveryPenalty}
	opts = append(opts, route.Update(lateness, planValue{}))

	if rc.MaxStops != nil {
		constraint := stopCountConstraint{max: *rc.MaxStops}
		opts = append(opts, route.Constraint(constraint, vehicles))
	}

	router, err := route.NewRouter(stops, vehicles, opts...)
	if err != nil {
		// A model the router rejects is treated the same as the solver
		// finding no feasible assignment: push everything to the next
		// round.
		return emptyResult(in, rc, stopNodes, isBoundary), nil
	}

	var solveOpts store.Options
	solveOpts.Diagram.Expansion.Limit = 1
	if rc.TimeBudget > 0 {
		solveOpts.Limits.Duration = rc.TimeBudget
	}

	solver, err := router.Solver(solveOpts)
	if err != nil {
		return emptyResult(in, rc, stopNodes, isBoundary), nil
	}

	plan, ok := bestPlan(ctx, solver)
	if !ok {
		return emptyResult(in, rc, stopNodes, isBoundary), nil
	}

	return assembleResult(in, rc, stopNodes, plan), nil
}

func initialLoadOf(loads []int, v int) int {
	if v < len(loads) {
		return loads[v]
	}
	return 0
}

// epoch converts a seconds-since-midnight value into the time.Time the
// SDK's Shifts/Windows options expect, anchored at the Unix epoch so
// arithmetic on the values is exact.
func epoch(seconds int) time.Time {
	return time.Unix(int64(seconds), 0).UTC()
}

func unepoch(t time.Time) int {
	return int(t.Unix())
}
