package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validProblem() problemDTO {
	return problemDTO{
		Depot: depotDTO{ID: "depot", Point: pointDTO{Longitude: 1, Latitude: 1}},
		Riders: []riderDTO{
			{ID: "r1", Vehicle: vehicleDTO{Capacity: 10}, StartTime: 9 * 3600},
		},
		Orders: []orderDTO{
			{ID: "o1", OrderType: "delivery", Point: pointDTO{Longitude: 2, Latitude: 2}, ExpectedTime: 10 * 3600, Package: packageDTO{Volume: 5}},
		},
	}
}

func TestValidateProblem_OK(t *testing.T) {
	assert.Nil(t, validateProblem(validProblem()))
}

func TestValidateProblem_MissingDepot(t *testing.T) {
	p := validProblem()
	p.Depot.ID = ""
	err := validateProblem(p)
	assert.NotNil(t, err)
	assert.Equal(t, 400, err.status)
}

func TestValidateProblem_NoRiders(t *testing.T) {
	p := validProblem()
	p.Riders = nil
	assert.NotNil(t, validateProblem(p))
}

func TestValidateProblem_NonPositiveCapacity(t *testing.T) {
	p := validProblem()
	p.Riders[0].Vehicle.Capacity = 0
	assert.NotNil(t, validateProblem(p))
}

func TestValidateProblem_BadOrderType(t *testing.T) {
	p := validProblem()
	p.Orders[0].OrderType = "sideways"
	assert.NotNil(t, validateProblem(p))
}

func TestValidateProblem_DuplicateOrderID(t *testing.T) {
	p := validProblem()
	p.Orders = append(p.Orders, p.Orders[0])
	assert.NotNil(t, validateProblem(p))
}

func TestValidateProblem_UnknownTourReference(t *testing.T) {
	p := validProblem()
	p.Riders[0].Tours = [][]stopDTO{{{OrderID: "ghost", Timing: 0}}}
	assert.NotNil(t, validateProblem(p))
}

func TestValidateAddPickups_UnknownNewOrder(t *testing.T) {
	req := addPickupsRequest{problemDTO: validProblem(), NewOrders: []string{"ghost"}}
	assert.NotNil(t, validateAddPickups(req))
}

func TestValidateAddPickups_OK(t *testing.T) {
	req := addPickupsRequest{problemDTO: validProblem(), NewOrders: []string{"o1"}}
	assert.Nil(t, validateAddPickups(req))
}

func TestValidateDeletePickup_RequiresID(t *testing.T) {
	req := deletePickupRequest{problemDTO: validProblem()}
	assert.NotNil(t, validateDeletePickup(req))
}
