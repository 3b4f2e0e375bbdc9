package vrp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundaryNodes(t *testing.T) {
	stopNodes, isBoundary := boundaryNodes(5, []int{0}, []int{0})
	assert.Equal(t, []int{1, 2, 3, 4}, stopNodes)
	assert.True(t, isBoundary[0])
	assert.False(t, isBoundary[1])
}

func TestBoundaryNodes_DistinctStartEnd(t *testing.T) {
	// Single vehicle mid-trip: start at node 2, explicit end node 5.
	stopNodes, isBoundary := boundaryNodes(6, []int{2}, []int{5})
	assert.Equal(t, []int{0, 1, 3, 4}, stopNodes)
	assert.True(t, isBoundary[2])
	assert.True(t, isBoundary[5])
}

func TestNewIndexSpace(t *testing.T) {
	idx := newIndexSpace([]int{1, 2, 3}, []int{0, 0}, []int{0, 0})
	assert.Equal(t, []int{1, 2, 3, 0, 0, 0, 0}, idx)
}

func TestMatrixMeasure_Cost(t *testing.T) {
	matrix := [][]int{
		{0, 10, 20},
		{10, 0, 15},
		{20, 15, 0},
	}
	m := matrixMeasure{timeMatrix: matrix, nodeForIndex: []int{2, 0, 1}}
	assert.Equal(t, float64(20), m.Cost(0, 1)) // global 0->1 maps to node 2->0
	assert.Equal(t, float64(0), m.Cost(0, 0))
}
