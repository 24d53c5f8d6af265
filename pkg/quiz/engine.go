// Package quiz implements the quiz round state machine and the click
// hit-testing that classifies a pixel as a country or an ocean click.
package quiz

import (
	"math/rand"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kass/africa-quiz/pkg/models"
	"github.com/kass/africa-quiz/pkg/projection"
	"github.com/kass/africa-quiz/pkg/spatial"
)

var (
	// ErrNoCountries is returned when an engine is constructed with an
	// empty shape set.
	ErrNoCountries = eris.New("quiz: no countries loaded")

	// ErrRoundComplete is returned when the current country or a click
	// classification is requested after the round finished. Callers must
	// start a new round first.
	ErrRoundComplete = eris.New("quiz: round complete")
)

// Result classifies one click. An empty Country is an ocean click.
type Result struct {
	Country string
	Correct bool
}

// Ocean reports whether the click hit no country at all.
func (r Result) Ocean() bool {
	return r.Country == ""
}

// Engine sequences countries through rounds without repeats and resolves
// clicks against the loaded boundaries. Not safe for concurrent use; the
// design is single-threaded and event-driven.
type Engine struct {
	shapes    []models.Shape
	projector *projection.Projector
	index     *spatial.Index
	rng       *rand.Rand
	log       *zap.Logger

	order  []string
	cursor int
}

// New builds an engine over the loaded shapes and starts the first round.
// The random source is explicit so rounds are reproducible under test.
func New(shapes []models.Shape, projector *projection.Projector, rng *rand.Rand) (*Engine, error) {
	if len(shapes) == 0 {
		return nil, ErrNoCountries
	}

	order := make([]string, len(shapes))
	for i, shape := range shapes {
		order[i] = shape.Name
	}

	e := &Engine{
		shapes:    shapes,
		projector: projector,
		index:     spatial.NewIndex(shapes),
		rng:       rng,
		log:       zap.L().With(zap.String("component", "quiz.engine")),
		order:     order,
	}
	e.StartNewRound()
	return e, nil
}

// StartNewRound shuffles the country sequence (Fisher-Yates via
// rand.Shuffle) and resets the cursor.
func (e *Engine) StartNewRound() {
	e.rng.Shuffle(len(e.order), func(i, j int) {
		e.order[i], e.order[j] = e.order[j], e.order[i]
	})
	e.cursor = 0

	e.log.Info("new round started", zap.Int("countries", len(e.order)))
}

// CurrentCountry returns the country the player should click next.
// Returns ErrRoundComplete once every country has been prompted.
func (e *Engine) CurrentCountry() (string, error) {
	if e.IsRoundComplete() {
		return "", eris.Wrap(ErrRoundComplete, "quiz: current country")
	}
	return e.order[e.cursor], nil
}

// HandleClick resolves a pixel click to a country and scores it against
// the current prompt. Round state is untouched; callers advance
// explicitly after rendering feedback.
//
// Candidates come back from the envelope index in load order, so the
// first exact match wins deterministically even for overlapping shapes.
func (e *Engine) HandleClick(x, y int) (Result, error) {
	if e.IsRoundComplete() {
		return Result{}, eris.Wrap(ErrRoundComplete, "quiz: handle click")
	}

	lon, lat := e.projector.PixelToGeo(x, y)

	for _, i := range e.index.Candidates(lon, lat) {
		if !PointInShape(lon, lat, e.shapes[i]) {
			continue
		}
		name := e.shapes[i].Name
		return Result{
			Country: name,
			Correct: name == e.order[e.cursor],
		}, nil
	}

	// Ocean click.
	return Result{}, nil
}

// Advance moves the cursor to the next country. Advancing past the last
// country leaves the engine in the round-complete state.
func (e *Engine) Advance() {
	if e.cursor < len(e.order) {
		e.cursor++
	}
}

// IsRoundComplete reports whether every country has been prompted.
func (e *Engine) IsRoundComplete() bool {
	return e.cursor >= len(e.order)
}

// Progress returns the number of answered prompts and the round length.
func (e *Engine) Progress() (int, int) {
	return e.cursor, len(e.order)
}

// Countries returns the country names in load order.
func (e *Engine) Countries() []string {
	names := make([]string, len(e.shapes))
	for i, shape := range e.shapes {
		names[i] = shape.Name
	}
	return names
}

// Order returns a copy of the current round's shuffled sequence.
func (e *Engine) Order() []string {
	order := make([]string, len(e.order))
	copy(order, e.order)
	return order
}

// Projector exposes the engine's coordinate mapper to the presentation layer.
func (e *Engine) Projector() *projection.Projector {
	return e.projector
}

// SetProjector swaps in a projector for a resized canvas. Round state and
// the spatial index are untouched; only the pixel mapping changes.
func (e *Engine) SetProjector(p *projection.Projector) {
	e.projector = p
}
