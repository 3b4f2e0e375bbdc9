package planner

import (
	"context"
	"time"

	"github.com/opticore/optirider/internal/model"
)

// DeletePickupInput is everything the delete-pickup engine needs.
type DeletePickupInput struct {
	Instance    model.Instance
	Riders      []model.Rider
	DelOrderID  string
	CurTime     int
	TotalBudget time.Duration
}

// DeletePickupOutput is the new plan plus which rider's current trip
// changed, if any (empty when the order was already gone, per spec.md
// §7's "delete of an unknown or already-visited order" rule).
type DeletePickupOutput struct {
	RiderPlans   []model.RiderPlan
	ChangedRider string
}

// DeletePickup implements spec.md §4.4: if the order is still sitting in
// some rider's not-yet-visited current-trip remainder, it is spliced out
// in place and every later stop's absolute time shifts earlier by the
// time saved; otherwise, if it only appears in a future trip, every
// future trip across the fleet is re-planned from scratch without it. An
// unknown or already-visited order leaves the plan unchanged.
func DeletePickup(ctx context.Context, in DeletePickupInput, rules model.RuleConfig) DeletePickupOutput {
	if !orderAppearsAnywhere(in.Riders, in.DelOrderID) {
		return unchangedPlan(in.Riders)
	}

	idx := NodeIndex(in.Instance)
	depotID := in.Instance.NodeIDs[0]
	numRiders := len(in.Riders)

	for v, r := range in.Riders {
		if len(r.CurrentTours) == 0 {
			continue
		}
		stops := r.CurrentTours[0].Stops
		for i := r.TourLocation + 1; i < len(stops); i++ {
			if stops[i].NodeID != in.DelOrderID {
				continue
			}
			if i == 0 || i >= len(stops)-1 {
				break // depot can't be deleted; malformed position, skip this rider
			}

			prev := idx[stops[i-1].NodeID]
			x := idx[stops[i].NodeID]
			next := idx[stops[i+1].NodeID]
			saved := in.Instance.TimeMatrix[prev][x] + in.Instance.TimeMatrix[x][next] +
				in.Instance.ServiceTime[x] - in.Instance.TimeMatrix[prev][next]

			newStops := append([]model.Stop(nil), stops[:i]...)
			for j := i + 1; j < len(stops); j++ {
				newStops = append(newStops, model.Stop{NodeID: stops[j].NodeID, Time: stops[j].Time - saved})
			}

			newTrips := make([]model.Trip, len(r.CurrentTours))
			newTrips[0] = model.Trip{Stops: newStops}
			for t := 1; t < len(r.CurrentTours); t++ {
				old := r.CurrentTours[t].Stops
				shifted := make([]model.Stop, len(old))
				for k, s := range old {
					shifted[k] = model.Stop{NodeID: s.NodeID, Time: s.Time - saved}
				}
				newTrips[t] = model.Trip{Stops: shifted}
			}

			out := unchangedPlan(in.Riders)
			out.RiderPlans[v] = model.RiderPlan{RiderID: r.ID, Trips: newTrips, UpdatedCurrentTour: true}
			out.ChangedRider = r.ID
			return out
		}
	}

	// X is not among any rider's remaining current-trip stops. If it is not
	// in a future trip either, it was already visited: nothing changes.
	inFuture := false
	for _, r := range in.Riders {
		for _, trip := range r.CurrentTours[minInt(1, len(r.CurrentTours)):] {
			for _, stop := range trip.Stops {
				if stop.NodeID == in.DelOrderID {
					inFuture = true
				}
			}
		}
	}
	if !inFuture {
		return unchangedPlan(in.Riders)
	}

	// X only appears in a future trip: rebuild every future trip across
	// the fleet without it; current trips are carried over untouched.
	futureSet := map[int]bool{}
	nextStart := make([]int, numRiders)
	for v, r := range in.Riders {
		for _, trip := range r.CurrentTours[minInt(1, len(r.CurrentTours)):] {
			for _, stop := range trip.Stops {
				if stop.NodeID != depotID && stop.NodeID != in.DelOrderID {
					futureSet[idx[stop.NodeID]] = true
				}
			}
		}
		if len(r.CurrentTours) > 0 {
			if stops := r.CurrentTours[0].Stops; len(stops) > 0 {
				next := stops[len(stops)-1].Time + rules.WaitTimeAtWarehouse
				if next > rules.GlobalEndTime {
					next = rules.GlobalEndTime
				}
				nextStart[v] = next
				continue
			}
		}
		nextStart[v] = in.CurTime
	}

	futureNodes := append([]int{idx[depotID]}, setToSlice(futureSet)...)
	sortInts(futureNodes)

	out := DeletePickupOutput{RiderPlans: make([]model.RiderPlan, numRiders)}
	var mt MultiTripResult
	if len(futureNodes) > 1 {
		future := projectNodes(in.Instance, futureNodes)
		future.Penalty = make([]int, len(futureNodes))
		for i := range futureNodes {
			if i != 0 {
				future.Penalty[i] = rules.MissPenalty
			}
		}
		future.VehicleCapacity = make([]int, numRiders)
		for v, r := range in.Riders {
			future.VehicleCapacity[v] = r.Capacity
		}
		future.StartTime = append([]int(nil), nextStart...)

		mt = StartDay(ctx, future, future.Penalty, in.TotalBudget, rules)
	} else {
		mt = MultiTripResult{Trips: make([][]Trip, numRiders)}
	}

	for v, r := range in.Riders {
		var trips []model.Trip
		if len(r.CurrentTours) > 0 {
			trips = append(trips, r.CurrentTours[0])
		}
		for _, t := range mt.Trips[v] {
			stops := make([]model.Stop, len(t.NodeIDs))
			for i, id := range t.NodeIDs {
				stops[i] = model.Stop{NodeID: id, Time: t.Times[i]}
			}
			trips = append(trips, model.Trip{Stops: stops})
		}
		out.RiderPlans[v] = model.RiderPlan{RiderID: r.ID, Trips: trips}
	}
	return out
}

func orderAppearsAnywhere(riders []model.Rider, id string) bool {
	for _, r := range riders {
		for _, trip := range r.CurrentTours {
			for _, stop := range trip.Stops {
				if stop.NodeID == id {
					return true
				}
			}
		}
	}
	return false
}

func unchangedPlan(riders []model.Rider) DeletePickupOutput {
	out := DeletePickupOutput{RiderPlans: make([]model.RiderPlan, len(riders))}
	for v, r := range riders {
		out.RiderPlans[v] = model.RiderPlan{RiderID: r.ID, Trips: r.CurrentTours}
	}
	return out
}

func setToSlice(s map[int]bool) []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	return out
}
