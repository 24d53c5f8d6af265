package quiz

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kass/africa-quiz/pkg/models"
	"github.com/kass/africa-quiz/pkg/projection"
)

func squareShape(name string, minLon, minLat, size float64) models.Shape {
	return models.Shape{
		Name: name,
		Rings: []models.Ring{{
			{Lon: minLon, Lat: minLat},
			{Lon: minLon + size, Lat: minLat},
			{Lon: minLon + size, Lat: minLat + size},
			{Lon: minLon, Lat: minLat + size},
		}},
	}
}

// testEngine builds an engine over three 10-degree squares on a 300x100
// canvas, with a fixed seed for reproducible rounds.
func testEngine(t *testing.T, seed int64) (*Engine, *projection.Projector) {
	t.Helper()

	shapes := []models.Shape{
		squareShape("Alba", 0, 0, 10),
		squareShape("Brivia", 20, 0, 10),
		squareShape("Corland", 40, 0, 10),
	}

	box, err := projection.ComputeBoundingBox(shapes)
	require.NoError(t, err)

	p, err := projection.New(box, 300, 100)
	require.NoError(t, err)

	engine, err := New(shapes, p, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return engine, p
}

func TestNewRequiresShapes(t *testing.T) {
	box := models.BoundingBox{
		BottomLeft: models.Location{Lat: 0, Lon: 0},
		TopRight:   models.Location{Lat: 10, Lon: 10},
	}
	p, err := projection.New(box, 100, 100)
	require.NoError(t, err)

	_, err = New(nil, p, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrNoCountries)
}

func TestStartNewRoundIsPermutation(t *testing.T) {
	engine, _ := testEngine(t, 7)

	loaded := engine.Countries()
	for i := 0; i < 20; i++ {
		engine.StartNewRound()
		order := engine.Order()

		assert.Len(t, order, len(loaded))

		sortedOrder := append([]string(nil), order...)
		sortedLoaded := append([]string(nil), loaded...)
		sort.Strings(sortedOrder)
		sort.Strings(sortedLoaded)
		assert.Equal(t, sortedLoaded, sortedOrder)

		assert.False(t, engine.IsRoundComplete())
	}
}

func TestStartNewRoundSeededDeterminism(t *testing.T) {
	a, _ := testEngine(t, 99)
	b, _ := testEngine(t, 99)

	assert.Equal(t, a.Order(), b.Order())
}

func TestSingleCountryRounds(t *testing.T) {
	shapes := []models.Shape{squareShape("Solo", 0, 0, 10)}

	box, err := projection.ComputeBoundingBox(shapes)
	require.NoError(t, err)
	p, err := projection.New(box, 100, 100)
	require.NoError(t, err)

	engine, err := New(shapes, p, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		engine.StartNewRound()
		current, err := engine.CurrentCountry()
		require.NoError(t, err)
		assert.Equal(t, "Solo", current)
		engine.Advance()
		assert.True(t, engine.IsRoundComplete())
	}
}

func TestCursorLifecycle(t *testing.T) {
	engine, _ := testEngine(t, 3)

	_, total := engine.Progress()
	require.Equal(t, 3, total)

	for i := 0; i < total; i++ {
		assert.False(t, engine.IsRoundComplete())

		current, err := engine.CurrentCountry()
		require.NoError(t, err)
		assert.Equal(t, engine.Order()[i], current)

		engine.Advance()
	}

	assert.True(t, engine.IsRoundComplete())

	_, err := engine.CurrentCountry()
	assert.ErrorIs(t, err, ErrRoundComplete)

	_, err = engine.HandleClick(0, 0)
	assert.ErrorIs(t, err, ErrRoundComplete)

	// Advancing past the end never pushes the cursor out of range.
	engine.Advance()
	answered, _ := engine.Progress()
	assert.Equal(t, total, answered)

	engine.StartNewRound()
	assert.False(t, engine.IsRoundComplete())
}

func TestHandleClickCenter(t *testing.T) {
	engine, p := testEngine(t, 5)

	// Click the center of each square; the hit country must match
	// regardless of quiz order.
	testCases := []struct {
		name     string
		lon, lat float64
	}{
		{"Alba", 5, 5},
		{"Brivia", 25, 5},
		{"Corland", 45, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			x, y := p.GeoToPixel(tc.lon, tc.lat)
			result, err := engine.HandleClick(x, y)
			require.NoError(t, err)

			assert.Equal(t, tc.name, result.Country)
			assert.False(t, result.Ocean())

			current, err := engine.CurrentCountry()
			require.NoError(t, err)
			assert.Equal(t, current == tc.name, result.Correct)
		})
	}
}

func TestHandleClickOcean(t *testing.T) {
	engine, p := testEngine(t, 5)

	// Between the squares.
	x, y := p.GeoToPixel(15, 5)
	result, err := engine.HandleClick(x, y)
	require.NoError(t, err)

	assert.True(t, result.Ocean())
	assert.False(t, result.Correct)
	assert.Empty(t, result.Country)
}

func TestHandleClickHasNoSideEffects(t *testing.T) {
	engine, p := testEngine(t, 5)

	before, err := engine.CurrentCountry()
	require.NoError(t, err)

	x, y := p.GeoToPixel(5, 5)
	for i := 0; i < 3; i++ {
		_, err := engine.HandleClick(x, y)
		require.NoError(t, err)
	}

	after, err := engine.CurrentCountry()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	answered, _ := engine.Progress()
	assert.Equal(t, 0, answered)
}

func TestHandleClickOverlapFirstLoadedWins(t *testing.T) {
	// An enclave entirely inside another country: the tie-break is load
	// order, not quiz order.
	shapes := []models.Shape{
		squareShape("Host", 0, 0, 20),
		squareShape("Enclave", 5, 5, 5),
	}

	box, err := projection.ComputeBoundingBox(shapes)
	require.NoError(t, err)
	p, err := projection.New(box, 200, 200)
	require.NoError(t, err)

	engine, err := New(shapes, p, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	x, y := p.GeoToPixel(7.5, 7.5)
	result, err := engine.HandleClick(x, y)
	require.NoError(t, err)
	assert.Equal(t, "Host", result.Country)
}

func TestHandleClickMultiRingShape(t *testing.T) {
	shapes := []models.Shape{
		{
			Name: "Twin Isles",
			Rings: []models.Ring{
				{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 0}, {Lon: 10, Lat: 10}, {Lon: 0, Lat: 10}},
				{{Lon: 30, Lat: 0}, {Lon: 40, Lat: 0}, {Lon: 40, Lat: 10}, {Lon: 30, Lat: 10}},
			},
		},
	}

	box, err := projection.ComputeBoundingBox(shapes)
	require.NoError(t, err)
	p, err := projection.New(box, 400, 100)
	require.NoError(t, err)

	engine, err := New(shapes, p, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	for _, lon := range []float64{5, 35} {
		x, y := p.GeoToPixel(lon, 5)
		result, err := engine.HandleClick(x, y)
		require.NoError(t, err)
		assert.Equal(t, "Twin Isles", result.Country)
	}

	x, y := p.GeoToPixel(20, 5)
	result, err := engine.HandleClick(x, y)
	require.NoError(t, err)
	assert.True(t, result.Ocean())
}

func TestFullRoundPlaythrough(t *testing.T) {
	engine, p := testEngine(t, 11)

	centers := map[string]models.Location{
		"Alba":    {Lon: 5, Lat: 5},
		"Brivia":  {Lon: 25, Lat: 5},
		"Corland": {Lon: 45, Lat: 5},
	}

	for !engine.IsRoundComplete() {
		current, err := engine.CurrentCountry()
		require.NoError(t, err)

		center := centers[current]
		x, y := p.GeoToPixel(center.Lon, center.Lat)

		result, err := engine.HandleClick(x, y)
		require.NoError(t, err)
		assert.True(t, result.Correct, "clicked the center of %s", current)

		engine.Advance()
	}

	answered, total := engine.Progress()
	assert.Equal(t, total, answered)
}
