package httpapi

import (
	"context"

	"github.com/opticore/optirider/internal/config"
	"github.com/opticore/optirider/internal/distance"
	"github.com/opticore/optirider/internal/model"
	"github.com/opticore/optirider/internal/planner"
)

func toDepot(d depotDTO) model.Depot {
	return model.Depot{ID: d.ID, Point: model.Point{Longitude: d.Point.Longitude, Latitude: d.Point.Latitude}}
}

func toOrders(os []orderDTO) []model.Order {
	orders := make([]model.Order, len(os))
	for i, o := range os {
		kind := model.Delivery
		if o.OrderType == "pickup" {
			kind = model.Pickup
		}
		orders[i] = model.Order{
			ID:            o.ID,
			Kind:          kind,
			Point:         model.Point{Longitude: o.Point.Longitude, Latitude: o.Point.Latitude},
			ExpectedTime:  o.ExpectedTime,
			PackageVolume: o.Package.Volume,
			ServiceTime:   o.ServiceTime,
		}
	}
	return orders
}

func toRiders(rs []riderDTO) []model.Rider {
	riders := make([]model.Rider, len(rs))
	for i, r := range rs {
		tours := make([]model.Trip, len(r.Tours))
		for t, trip := range r.Tours {
			stops := make([]model.Stop, len(trip))
			for s, st := range trip {
				stops[s] = model.Stop{NodeID: st.OrderID, Time: st.Timing}
			}
			tours[t] = model.Trip{Stops: stops}
		}

		location := -1
		if r.HeadingTo != nil && len(tours) > 0 {
			for i, stop := range tours[0].Stops {
				if stop.NodeID == *r.HeadingTo {
					location = i
					break
				}
			}
		}

		riders[i] = model.Rider{
			ID:           r.ID,
			Capacity:     r.Vehicle.Capacity,
			StartTime:    r.StartTime,
			CurrentTours: tours,
			TourLocation: location,
		}
	}
	return riders
}

// buildInstance resolves the full problem instance (depot + all orders)
// against the configured distance provider.
func buildInstance(ctx context.Context, dist distance.Provider, p problemDTO, riders []model.Rider, nowTime int, rules config.RuleConfig) (model.Instance, error) {
	return planner.BuildInstance(ctx, dist, toDepot(p.Depot), toOrders(p.Orders), riders, nowTime, modelRules(rules))
}

// modelRules adapts the config package's rule constants into the
// model.RuleConfig value the planner/vrp packages consume, keeping those
// packages free of a dependency on viper's config shape.
func modelRules(r config.RuleConfig) model.RuleConfig {
	return model.RuleConfig{
		MissPenalty:         r.MissPenalty,
		MissPenaltyReducer:  r.MissPenaltyReducer,
		WaitTimeAtWarehouse: r.WaitTimeAtWarehouse,
		LateDeliveryPenalty: r.LateDeliveryPenalty,
		GlobalStartTime:     r.GlobalStartTime,
		GlobalEndTime:       r.GlobalEndTime,
		MaxTripTime:         r.MaxTripTime,
	}
}

func toStopDTOs(stops []model.Stop) []stopDTO {
	out := make([]stopDTO, len(stops))
	for i, s := range stops {
		out[i] = stopDTO{OrderID: s.NodeID, Timing: s.Time}
	}
	return out
}

func toTourDTOs(trips []model.Trip) [][]stopDTO {
	out := make([][]stopDTO, len(trips))
	for i, t := range trips {
		out[i] = toStopDTOs(t.Stops)
	}
	return out
}
