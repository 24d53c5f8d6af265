// Package projection maps geographic coordinates to a fixed pixel canvas
// using an equirectangular projection with an inverted Y axis.
package projection

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/kass/africa-quiz/pkg/models"
)

var (
	// ErrEmptyGeometry is returned when a bounding box is requested for
	// zero shapes or zero vertices.
	ErrEmptyGeometry = eris.New("projection: no geometry to compute bounds from")

	// ErrDegenerateBounds is returned when a projector is constructed
	// from a zero-extent bounding box or non-positive pixel dimensions.
	ErrDegenerateBounds = eris.New("projection: degenerate bounds")
)

// ComputeBoundingBox scans every vertex of every shape and returns the
// minimal enclosing box.
func ComputeBoundingBox(shapes []models.Shape) (models.BoundingBox, error) {
	found := false
	var box models.BoundingBox

	for _, shape := range shapes {
		env, ok := shape.Envelope()
		if !ok {
			continue
		}
		if !found {
			box = env
			found = true
			continue
		}
		if env.BottomLeft.Lat < box.BottomLeft.Lat {
			box.BottomLeft.Lat = env.BottomLeft.Lat
		}
		if env.BottomLeft.Lon < box.BottomLeft.Lon {
			box.BottomLeft.Lon = env.BottomLeft.Lon
		}
		if env.TopRight.Lat > box.TopRight.Lat {
			box.TopRight.Lat = env.TopRight.Lat
		}
		if env.TopRight.Lon > box.TopRight.Lon {
			box.TopRight.Lon = env.TopRight.Lon
		}
	}

	if !found {
		return models.BoundingBox{}, ErrEmptyGeometry
	}
	return box, nil
}

// Projector converts between geographic and pixel coordinates.
// It is immutable once constructed.
type Projector struct {
	box    models.BoundingBox
	width  int
	height int
	scaleX float64
	scaleY float64
}

// New creates a projector for the given bounding box and canvas size.
func New(box models.BoundingBox, width, height int) (*Projector, error) {
	if width <= 0 || height <= 0 {
		return nil, eris.Wrapf(ErrDegenerateBounds, "canvas %dx%d", width, height)
	}
	if box.Width() <= 0 || box.Height() <= 0 {
		return nil, eris.Wrapf(ErrDegenerateBounds, "bbox extent %.6fx%.6f", box.Width(), box.Height())
	}

	return &Projector{
		box:    box,
		width:  width,
		height: height,
		scaleX: float64(width) / box.Width(),
		scaleY: float64(height) / box.Height(),
	}, nil
}

// GeoToPixel converts a geographic coordinate to a pixel coordinate.
// Coordinates outside the bounding box extrapolate linearly and may land
// off-canvas; that is never an error.
func (p *Projector) GeoToPixel(lon, lat float64) (int, int) {
	x := int(math.Round((lon - p.box.BottomLeft.Lon) * p.scaleX))
	y := int(math.Round((p.box.TopRight.Lat - lat) * p.scaleY))
	return x, y
}

// PixelToGeo converts a pixel coordinate back to a geographic coordinate.
// Exact inverse of GeoToPixel up to the integer quantization step.
func (p *Projector) PixelToGeo(x, y int) (float64, float64) {
	lon := float64(x)/p.scaleX + p.box.BottomLeft.Lon
	lat := p.box.TopRight.Lat - float64(y)/p.scaleY
	return lon, lat
}

// Bounds returns the geographic bounding box the projector was built from.
func (p *Projector) Bounds() models.BoundingBox {
	return p.box
}

// Size returns the pixel canvas dimensions.
func (p *Projector) Size() (int, int) {
	return p.width, p.height
}
