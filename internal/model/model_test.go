package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_SignedVolume(t *testing.T) {
	delivery := Order{Kind: Delivery, PackageVolume: 10}
	assert.Equal(t, 10, delivery.SignedVolume())

	pickup := Order{Kind: Pickup, PackageVolume: 10}
	assert.Equal(t, -10, pickup.SignedVolume())
}

func TestInstance_Counts(t *testing.T) {
	in := Instance{
		TimeMatrix:      [][]int{{0, 1}, {1, 0}},
		VehicleCapacity: []int{10, 20, 30},
	}
	assert.Equal(t, 2, in.NumNodes())
	assert.Equal(t, 3, in.NumVehicles())
}
