package quiz

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kass/africa-quiz/pkg/models"
)

var unitSquare = models.Ring{
	{Lon: 0, Lat: 0},
	{Lon: 10, Lat: 0},
	{Lon: 10, Lat: 10},
	{Lon: 0, Lat: 10},
}

func TestPointInRing(t *testing.T) {
	testCases := []struct {
		name     string
		lon, lat float64
		inside   bool
	}{
		{"center", 5, 5, true},
		{"near edge inside", 9.99, 5, true},
		{"outside east", 10.01, 5, false},
		{"outside north", 5, 10.01, false},
		{"far away", 100, 100, false},
		{"outside at ring latitude", -5, 0, false},
		{"outside at vertex latitude", 15, 10, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.inside, pointInRing(tc.lon, tc.lat, unitSquare))
		})
	}
}

func TestPointInRingConcave(t *testing.T) {
	// U-shaped ring: the notch between the prongs is outside.
	ring := models.Ring{
		{Lon: 0, Lat: 0},
		{Lon: 10, Lat: 0},
		{Lon: 10, Lat: 10},
		{Lon: 7, Lat: 10},
		{Lon: 7, Lat: 3},
		{Lon: 3, Lat: 3},
		{Lon: 3, Lat: 10},
		{Lon: 0, Lat: 10},
	}

	assert.True(t, pointInRing(1.5, 5, ring), "west prong")
	assert.True(t, pointInRing(8.5, 5, ring), "east prong")
	assert.False(t, pointInRing(5, 5, ring), "notch")
	assert.True(t, pointInRing(5, 1.5, ring), "base")
}

func TestPointInRingVertexOnRay(t *testing.T) {
	// A diamond puts two vertices exactly on the test ray; the half-open
	// edge rule must count each crossing once, not twice.
	diamond := models.Ring{
		{Lon: 5, Lat: 0},
		{Lon: 10, Lat: 5},
		{Lon: 5, Lat: 10},
		{Lon: 0, Lat: 5},
	}

	assert.True(t, pointInRing(5, 5, diamond), "center, ray through both side vertices")
	assert.False(t, pointInRing(-5, 5, diamond), "west of the diamond on the vertex ray")
	assert.False(t, pointInRing(15, 5, diamond), "east of the diamond on the vertex ray")
}

func TestPointInRingDegenerate(t *testing.T) {
	assert.False(t, pointInRing(5, 5, nil))
	assert.False(t, pointInRing(5, 5, models.Ring{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 10}}))
}

func TestPointInShapeAnyRing(t *testing.T) {
	shape := models.Shape{
		Name: "archipelago",
		Rings: []models.Ring{
			unitSquare,
			{
				{Lon: 20, Lat: 0},
				{Lon: 30, Lat: 0},
				{Lon: 30, Lat: 10},
				{Lon: 20, Lat: 10},
			},
		},
	}

	assert.True(t, PointInShape(5, 5, shape), "first landmass")
	assert.True(t, PointInShape(25, 5, shape), "second landmass")
	assert.False(t, PointInShape(15, 5, shape), "water between landmasses")
}

func BenchmarkPointInRing(b *testing.B) {
	// A ring with enough vertices to resemble a real border.
	ring := make(models.Ring, 0, 360)
	for i := 0; i < 360; i++ {
		rad := float64(i) * math.Pi / 180
		ring = append(ring, models.Location{
			Lon: 10 + 5*math.Cos(rad),
			Lat: 10 + 5*math.Sin(rad),
		})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = pointInRing(10, 10, ring)
	}
}
