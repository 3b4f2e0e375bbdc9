package vrp

import (
	"github.com/nextmv-io/sdk/route"

	"github.com/opticore/optirider/internal/model"
	"github.com/opticore/optirider/internal/penalty"
)

// stopCountConstraint caps the number of non-boundary stops a single
// vehicle may carry in one round — the optional route_length input of
// §4.1.5 / §4.3.
type stopCountConstraint struct {
	max int
}

// Violated implements route.VehicleConstraint.
func (c stopCountConstraint) Violated(vehicle route.PartialVehicle) (route.VehicleConstraint, bool) {
	count := len(vehicle.Route()) - 2
	if count < 0 {
		count = 0
	}
	return c, count > c.max
}

// latenessUpdater prices a vehicle's soft-lateness cost against each
// stop's delivery_time threshold, following the earliness/lateness
// value-function pattern of the customization-best-practices demo: the
// SDK has no built-in soft-deadline dimension, so the cost is folded into
// the vehicle's value via a custom VehicleUpdater instead.
type latenessUpdater struct {
	instance  model.Instance
	stopNodes []int
	perSecond int
}

// Update implements route.VehicleUpdater.
func (u latenessUpdater) Update(s route.PartialVehicle) (route.VehicleUpdater, int, bool) {
	cost := 0
	etas := s.Times().EstimatedArrival
	for i, r := range s.Route() {
		if r < 0 || r >= len(u.stopNodes) {
			continue // start/end sentinel, not a real stop
		}
		node := u.stopNodes[r]
		if i >= len(etas) {
			continue
		}
		arrival := unepoch(etas[i])
		cost += penalty.Late(arrival, u.instance.DeliveryTime[node], u.perSecond)
	}
	return u, cost, true
}

// planValue aggregates the per-vehicle values (lateness cost plus the
// SDK's own travel-time value) into the plan-level objective, the same
// accumulation shape as the fleetData.Update pattern in the
// customization-best-practices demo.
type planValue struct {
	vehicleValues map[string]int
	total         int
}

// Update implements route.PlanUpdater.
func (p planValue) Update(_ route.PartialPlan, vehicles []route.PartialVehicle) (route.PlanUpdater, int, bool) {
	values := make(map[string]int, len(p.vehicleValues))
	for id, v := range p.vehicleValues {
		values[id] = v
	}
	total := p.total
	for _, v := range vehicles {
		id := v.ID()
		total -= values[id]
		values[id] = v.Value()
		total += values[id]
	}
	return planValue{vehicleValues: values, total: total}, total, true
}
