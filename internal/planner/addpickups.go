package planner

import (
	"context"
	"math/rand"
	"time"

	"github.com/opticore/optirider/internal/model"
	"github.com/opticore/optirider/internal/penalty"
	"github.com/opticore/optirider/internal/vrp"
)

// AddPickupsInput is everything the add-pickups engine needs: the full
// problem instance (depot, every order referenced by any rider's plan,
// and the new pickups), the fleet's current plans, and the pickups to
// insert.
type AddPickupsInput struct {
	Instance    model.Instance
	Riders      []model.Rider
	NewPickups  []string // order ids, in client-submitted order
	CurTime     int
	TotalBudget time.Duration
	Rand        *rand.Rand
}

// AddPickupsOutput is the per-rider result: trips[0] is the (possibly
// revised) current trip, trips[1:] are the re-planned upcoming trips.
type AddPickupsOutput struct {
	RiderPlans []model.RiderPlan
}

// AddPickups implements spec.md §4.3: a bounded, rider-by-rider splice of
// the new pickups into each rider's current trip, one solve per rider in
// random order (pickups a rider's solve leaves out are offered to the next
// rider; riders are not compared against each other), followed by a full
// multi-trip re-plan of every trip that comes after.
func AddPickups(ctx context.Context, in AddPickupsInput, rules model.RuleConfig) AddPickupsOutput {
	idx := NodeIndex(in.Instance)
	depotID := in.Instance.NodeIDs[0]
	numRiders := len(in.Riders)

	// D: the weight of a single already-committed order, used both as the
	// cost of bumping a delivery out of the current trip and as the
	// future-trip weight for anything left unresolved this round.
	d := rules.MissPenalty
	if len(in.NewPickups) > 0 {
		firstNode := idx[in.NewPickups[0]]
		d = penalty.Miss(in.Instance.DeliveryTime[firstNode], in.CurTime, rules.MissPenalty, rules.MissPenaltyReducer)
	}
	insertionPenalty := 1
	if len(in.NewPickups) > 0 {
		insertionPenalty = (d - 1) / len(in.NewPickups)
		if insertionPenalty < 1 {
			insertionPenalty = 1
		}
	}

	pending := append([]string(nil), in.NewPickups...)
	newCurrentTrip := make([]model.Trip, numRiders)
	nextStart := make([]int, numRiders)
	futureSet := map[int]bool{}

	for v, r := range in.Riders {
		for _, trip := range r.CurrentTours[minInt(1, len(r.CurrentTours)):] {
			for _, stop := range trip.Stops {
				if stop.NodeID != depotID {
					futureSet[idx[stop.NodeID]] = true
				}
			}
		}
		if len(r.CurrentTours) > 0 {
			newCurrentTrip[v] = r.CurrentTours[0]
			if stops := r.CurrentTours[0].Stops; len(stops) > 0 {
				nextStart[v] = stops[len(stops)-1].Time + rules.WaitTimeAtWarehouse
				if nextStart[v] > rules.GlobalEndTime {
					nextStart[v] = rules.GlobalEndTime
				}
				continue
			}
		}
		nextStart[v] = in.CurTime
	}

	perRiderBudget := in.TotalBudget
	if numRiders > 0 {
		perRiderBudget = in.TotalBudget / time.Duration(numRiders+1)
	}

	order := rand.Perm(numRiders)
	if in.Rand != nil {
		order = in.Rand.Perm(numRiders)
	}

	for pass, v := range order {
		if len(pending) == 0 {
			break
		}
		rider := in.Riders[v]

		var startGlobal, endGlobal int
		var alreadyVisited []model.Stop
		var committed []string // existing stops from the rider's position onward, start node included
		var initialLoad, curTime int

		if rider.TourLocation < 0 || len(rider.CurrentTours) == 0 || len(rider.CurrentTours[0].Stops) == 0 {
			startGlobal = idx[depotID]
			curTime = in.CurTime
		} else {
			stops := rider.CurrentTours[0].Stops
			loc := rider.TourLocation
			if loc >= len(stops) {
				loc = len(stops) - 1
			}
			alreadyVisited = append([]model.Stop(nil), stops[:loc]...)
			committed = make([]string, 0, len(stops)-loc)
			consumed := 0
			for i := loc; i < len(stops); i++ {
				committed = append(committed, stops[i].NodeID)
				if vol := in.Instance.PackageVolume[idx[stops[i].NodeID]]; vol > 0 {
					consumed += vol
				}
			}
			startGlobal = idx[stops[loc].NodeID]
			curTime = stops[loc].Time
			initialLoad = consumed
		}
		endGlobal = idx[depotID]

		committedLen := 0
		if len(committed) > 0 {
			committedLen = len(committed) - 1
		}
		remainingVehicles := numRiders - pass
		expectedShare := ceilDiv(remainingVehicles, len(pending))
		maxStops := committedLen + 1 + expectedShare + 2

		nodeList := make([]int, 0, committedLen+len(pending)+2)
		nodeList = append(nodeList, startGlobal)
		for _, id := range committed[minInt(1, len(committed)):] {
			nodeList = append(nodeList, idx[id])
		}
		pickupStart := len(nodeList)
		for _, id := range pending {
			nodeList = append(nodeList, idx[id])
		}
		nodeList = append(nodeList, endGlobal)

		sub := projectNodes(in.Instance, nodeList)
		sub.Penalty = make([]int, len(nodeList))
		for i := 1; i < pickupStart; i++ {
			sub.Penalty[i] = d
		}
		for i := pickupStart; i < len(nodeList)-1; i++ {
			sub.Penalty[i] = insertionPenalty
		}
		sub.VehicleCapacity = []int{rider.Capacity}
		sub.StartTime = []int{curTime}

		backlog := make([]int, 0, committedLen)
		for i := 1; i < pickupStart; i++ {
			backlog = append(backlog, i)
		}

		res, err := vrp.Solve(ctx, vrp.Round{
			Instance:        sub,
			StartNode:       []int{0},
			EndNode:         []int{len(nodeList) - 1},
			InitialLoad:     []int{initialLoad},
			MaxStops:        &maxStops,
			InitialSolution: [][]int{backlog},
			TimeBudget:      perRiderBudget,
		}, rules)
		if err != nil {
			continue
		}

		solvedNodes := res.VehicleRoutes[0]
		solvedTimes := res.VehicleTimes[0]
		stops := make([]model.Stop, 0, len(alreadyVisited)+len(solvedNodes))
		stops = append(stops, alreadyVisited...)
		for i, local := range solvedNodes {
			stops = append(stops, model.Stop{NodeID: sub.NodeIDs[local], Time: solvedTimes[i]})
		}
		newCurrentTrip[v] = model.Trip{Stops: stops}

		if len(solvedTimes) > 0 {
			next := solvedTimes[len(solvedTimes)-1] + rules.WaitTimeAtWarehouse
			if next > rules.GlobalEndTime {
				next = rules.GlobalEndTime
			}
			nextStart[v] = next
		}

		// Committed stops the solver dropped go to the future-trips bucket.
		for i := 1; i < pickupStart; i++ {
			if res.Dropped[i] {
				futureSet[nodeList[i]] = true
			}
		}

		// Pickups the solver placed are resolved; the rest stay pending.
		inserted := map[string]bool{}
		for _, local := range solvedNodes {
			id := sub.NodeIDs[local]
			inserted[id] = true
		}
		remaining := pending[:0:0]
		for _, id := range pending {
			if !inserted[id] {
				remaining = append(remaining, id)
			}
		}
		pending = remaining
	}

	for _, id := range pending {
		futureSet[idx[id]] = true
	}

	futureNodes := make([]int, 0, len(futureSet)+1)
	futureNodes = append(futureNodes, idx[depotID])
	for node := range futureSet {
		futureNodes = append(futureNodes, node)
	}
	sortInts(futureNodes)

	futureBudget := in.TotalBudget - perRiderBudget*time.Duration(numRiders)
	if futureBudget < 0 {
		futureBudget = perRiderBudget
	}

	var mt MultiTripResult
	if len(futureNodes) > 1 {
		future := projectNodes(in.Instance, futureNodes)
		future.Penalty = make([]int, len(futureNodes))
		for i := range futureNodes {
			if i != 0 {
				future.Penalty[i] = d
			}
		}
		future.VehicleCapacity = make([]int, numRiders)
		for v, r := range in.Riders {
			future.VehicleCapacity[v] = r.Capacity
		}
		future.StartTime = append([]int(nil), nextStart...)

		mt = StartDay(ctx, future, future.Penalty, futureBudget, rules)
	} else {
		mt = MultiTripResult{Trips: make([][]Trip, numRiders)}
	}

	out := AddPickupsOutput{RiderPlans: make([]model.RiderPlan, numRiders)}
	for v, r := range in.Riders {
		var trips []model.Trip
		if len(newCurrentTrip[v].Stops) > 0 {
			trips = append(trips, newCurrentTrip[v])
		}
		for _, t := range mt.Trips[v] {
			stops := make([]model.Stop, len(t.NodeIDs))
			for i, id := range t.NodeIDs {
				stops[i] = model.Stop{NodeID: id, Time: t.Times[i]}
			}
			trips = append(trips, model.Trip{Stops: stops})
		}
		out.RiderPlans[v] = model.RiderPlan{
			RiderID:            r.ID,
			Trips:              trips,
			UpdatedCurrentTour: currentTripChanged(r, newCurrentTrip[v]),
		}
	}
	return out
}

func currentTripChanged(r model.Rider, newTrip model.Trip) bool {
	var original []model.Stop
	if len(r.CurrentTours) > 0 {
		original = r.CurrentTours[0].Stops
	}
	if len(original) != len(newTrip.Stops) {
		return true
	}
	for i := range original {
		if original[i].NodeID != newTrip.Stops[i].NodeID {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func sortInts(s []int) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
