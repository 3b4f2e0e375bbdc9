package penalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiss_DueNow(t *testing.T) {
	assert.Equal(t, 2000000, Miss(100, 100, 2000000, 20))
	assert.Equal(t, 2000000, Miss(100, 200, 2000000, 20)) // already past due
}

func TestMiss_AgesDown(t *testing.T) {
	daySeconds := 24 * 3600
	got := Miss(daySeconds, 0, 2000000, 20)
	assert.Equal(t, 2000000/20, got)
}

func TestMiss_FloorsAtOne(t *testing.T) {
	daySeconds := 24 * 3600 * 10
	got := Miss(daySeconds, 0, 100, 20)
	assert.Equal(t, 1, got)
}

func TestLate_NotLate(t *testing.T) {
	assert.Equal(t, 0, Late(100, 200, 10))
	assert.Equal(t, 0, Late(200, 200, 10))
}

func TestLate_Charges(t *testing.T) {
	assert.Equal(t, 50, Late(205, 200, 10))
}
