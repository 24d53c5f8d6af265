// Package spatial provides an R-Tree index over shape ring envelopes,
// used to prune point-in-polygon candidates before the exact test.
package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/kass/africa-quiz/pkg/models"
)

const (
	minChildren = 25
	maxChildren = 50
	dimensions  = 2

	// padding keeps rtreego rects valid for degenerate extents and
	// point queries, which require strictly positive side lengths.
	padding = 1e-9
)

// ringEntry wraps one ring envelope to implement rtreego.Spatial.
// Axis order is {lon, lat} throughout the index.
type ringEntry struct {
	shape int
	rect  *rtreego.Rect
}

func (e *ringEntry) Bounds() *rtreego.Rect {
	return e.rect
}

// Index is an immutable envelope index over a shape set. Queries return
// shape positions in load order, so callers keep a deterministic
// first-match tie-break for overlapping shapes.
type Index struct {
	tree  *rtreego.Rtree
	rings int
}

// NewIndex builds the envelope index. Shapes with no vertices contribute
// no entries and can never be hit.
func NewIndex(shapes []models.Shape) *Index {
	idx := &Index{
		tree: rtreego.NewTree(dimensions, minChildren, maxChildren),
	}

	for i, shape := range shapes {
		for _, ring := range shape.Rings {
			rect := ringRect(ring)
			if rect == nil {
				continue
			}
			idx.tree.Insert(&ringEntry{shape: i, rect: rect})
			idx.rings++
		}
	}
	return idx
}

// Candidates returns the positions of shapes whose ring envelope contains
// the point, deduplicated and sorted ascending (load order).
func (idx *Index) Candidates(lon, lat float64) []int {
	point := rtreego.Point{lon, lat}
	results := idx.tree.SearchIntersect(point.ToRect(padding))

	seen := make(map[int]bool, len(results))
	candidates := make([]int, 0, len(results))
	for _, result := range results {
		entry, ok := result.(*ringEntry)
		if !ok || seen[entry.shape] {
			continue
		}
		seen[entry.shape] = true
		candidates = append(candidates, entry.shape)
	}

	sort.Ints(candidates)
	return candidates
}

// Rings returns the number of indexed ring envelopes.
func (idx *Index) Rings() int {
	return idx.rings
}

// ringRect computes the rtreego rect for a ring envelope, padded so that
// zero-extent edges still produce a valid rect.
func ringRect(ring models.Ring) *rtreego.Rect {
	if len(ring) == 0 {
		return nil
	}

	minLon, maxLon := ring[0].Lon, ring[0].Lon
	minLat, maxLat := ring[0].Lat, ring[0].Lat
	for _, v := range ring[1:] {
		if v.Lon < minLon {
			minLon = v.Lon
		}
		if v.Lon > maxLon {
			maxLon = v.Lon
		}
		if v.Lat < minLat {
			minLat = v.Lat
		}
		if v.Lat > maxLat {
			maxLat = v.Lat
		}
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{minLon - padding, minLat - padding},
		[]float64{maxLon - minLon + 2*padding, maxLat - minLat + 2*padding},
	)
	if err != nil {
		return nil
	}
	return rect
}
