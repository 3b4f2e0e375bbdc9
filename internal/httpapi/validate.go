package httpapi

import "fmt"

func validateProblem(p problemDTO) *apiError {
	if p.Depot.ID == "" {
		return validationError("depot.id is required")
	}
	if len(p.Riders) == 0 {
		return validationError("at least one rider is required")
	}

	riderIDs := make(map[string]bool, len(p.Riders))
	for _, r := range p.Riders {
		if r.ID == "" {
			return validationError("rider.id is required")
		}
		if riderIDs[r.ID] {
			return validationError(fmt.Sprintf("duplicate rider id %q", r.ID))
		}
		riderIDs[r.ID] = true
		if r.Vehicle.Capacity <= 0 {
			return validationError(fmt.Sprintf("rider %q: vehicle.capacity must be positive", r.ID))
		}
	}

	orderIDs := make(map[string]bool, len(p.Orders))
	for _, o := range p.Orders {
		if o.ID == "" {
			return validationError("order.id is required")
		}
		if orderIDs[o.ID] {
			return validationError(fmt.Sprintf("duplicate order id %q", o.ID))
		}
		orderIDs[o.ID] = true
		if o.OrderType != "delivery" && o.OrderType != "pickup" {
			return validationError(fmt.Sprintf("order %q: orderType must be %q or %q", o.ID, "delivery", "pickup"))
		}
		if o.Package.Volume < 0 {
			return validationError(fmt.Sprintf("order %q: package.volume must be non-negative", o.ID))
		}
		if o.ServiceTime < 0 {
			return validationError(fmt.Sprintf("order %q: serviceTime must be non-negative", o.ID))
		}
	}

	for _, r := range p.Riders {
		for _, trip := range r.Tours {
			for _, stop := range trip {
				if stop.OrderID == p.Depot.ID {
					continue
				}
				if !orderIDs[stop.OrderID] {
					return validationError(fmt.Sprintf("rider %q: tour references unknown order %q", r.ID, stop.OrderID))
				}
			}
		}
		if r.HeadingTo != nil && *r.HeadingTo != p.Depot.ID && !orderIDs[*r.HeadingTo] {
			return validationError(fmt.Sprintf("rider %q: headingTo references unknown order %q", r.ID, *r.HeadingTo))
		}
	}

	return nil
}

func validateAddPickups(req addPickupsRequest) *apiError {
	if err := validateProblem(req.problemDTO); err != nil {
		return err
	}
	orderIDs := make(map[string]bool, len(req.Orders))
	for _, o := range req.Orders {
		orderIDs[o.ID] = true
	}
	seen := make(map[string]bool, len(req.NewOrders))
	for _, id := range req.NewOrders {
		if !orderIDs[id] {
			return validationError(fmt.Sprintf("newOrders references unknown order %q", id))
		}
		if seen[id] {
			return validationError(fmt.Sprintf("duplicate entry %q in newOrders", id))
		}
		seen[id] = true
	}
	return nil
}

func validateDeletePickup(req deletePickupRequest) *apiError {
	if err := validateProblem(req.problemDTO); err != nil {
		return err
	}
	if req.DelOrderID == "" {
		return validationError("delOrderId is required")
	}
	return nil
}
