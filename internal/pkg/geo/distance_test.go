package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMetersIdentity(t *testing.T) {
	assert.Zero(t, DistanceMeters(35.6812, 139.7671, 35.6812, 139.7671))
}

func TestDistanceMetersSymmetry(t *testing.T) {
	d1 := DistanceMeters(35.6812, 139.7671, 35.6586, 139.7454)
	d2 := DistanceMeters(35.6586, 139.7454, 35.6812, 139.7671)
	assert.InDelta(t, d1, d2, 1e-9)
}

// Tokyo station to Tokyo Tower, roughly 3.2 km.
func TestDistanceMetersKnownPair(t *testing.T) {
	d := DistanceMeters(35.6812, 139.7671, 35.6586, 139.7454)
	assert.InDelta(t, 3200, d, 100)
}

// A tenth of a millidegree of longitude at Tokyo's latitude is ~9 meters,
// the scale the check-in threshold operates at.
func TestDistanceMetersCheckInScale(t *testing.T) {
	d := DistanceMeters(35.6812, 139.7671, 35.6812, 139.7672)
	assert.InDelta(t, 9.0, d, 0.5)
}

func TestIsFiniteCoord(t *testing.T) {
	assert.True(t, IsFiniteCoord(35.6812, 139.7671))
	assert.True(t, IsFiniteCoord(-90, 180))

	assert.False(t, IsFiniteCoord(math.NaN(), 139.7671))
	assert.False(t, IsFiniteCoord(35.6812, math.Inf(1)))
	assert.False(t, IsFiniteCoord(91, 139.7671))
	assert.False(t, IsFiniteCoord(35.6812, -181))
}
