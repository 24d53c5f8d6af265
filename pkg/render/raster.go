// Package render turns the loaded shape set into pre-projected pixel data
// for the presentation layer: a per-cell country grid and label anchors.
// No geographic math leaves this boundary.
package render

import (
	"github.com/kass/africa-quiz/pkg/models"
	"github.com/kass/africa-quiz/pkg/projection"
	"github.com/kass/africa-quiz/pkg/quiz"
	"github.com/kass/africa-quiz/pkg/spatial"
)

// Ocean marks a grid cell that belongs to no shape.
const Ocean = -1

// Grid is a row-major raster of shape positions, one cell per pixel.
type Grid struct {
	Width  int
	Height int
	cells  []int
}

// At returns the shape position rendered at the pixel, or Ocean.
// Out-of-range pixels are Ocean.
func (g *Grid) At(x, y int) int {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return Ocean
	}
	return g.cells[y*g.Width+x]
}

// Label is a text anchor for one shape, centered on its projected envelope.
type Label struct {
	Name string
	X    int
	Y    int
}

// Raster classifies every pixel of the projector's canvas through the same
// inverse mapping and hit test a click uses, so the rendered cell for a
// pixel always matches what clicking that pixel would resolve to.
func Raster(shapes []models.Shape, p *projection.Projector) *Grid {
	width, height := p.Size()
	grid := &Grid{
		Width:  width,
		Height: height,
		cells:  make([]int, width*height),
	}

	index := spatial.NewIndex(shapes)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			lon, lat := p.PixelToGeo(x, y)
			cell := Ocean
			for _, i := range index.Candidates(lon, lat) {
				if quiz.PointInShape(lon, lat, shapes[i]) {
					cell = i
					break
				}
			}
			grid.cells[y*grid.Width+x] = cell
		}
	}
	return grid
}

// Labels projects each shape's envelope center to a pixel anchor.
func Labels(shapes []models.Shape, p *projection.Projector) []Label {
	labels := make([]Label, 0, len(shapes))
	for _, shape := range shapes {
		env, ok := shape.Envelope()
		if !ok {
			continue
		}
		x, y := p.GeoToPixel(
			env.BottomLeft.Lon+env.Width()/2,
			env.BottomLeft.Lat+env.Height()/2,
		)
		labels = append(labels, Label{Name: shape.Name, X: x, Y: y})
	}
	return labels
}
