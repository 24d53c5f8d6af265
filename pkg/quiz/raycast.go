package quiz

import "github.com/kass/africa-quiz/pkg/models"

// pointInRing runs a standard ray cast: count crossings between the edge
// and a horizontal ray extending west from the test point; an odd count
// means inside. The half-open comparison (yi > lat) != (yj > lat) counts
// a vertex lying exactly on the ray once across its two adjacent edges.
func pointInRing(lon, lat float64, ring models.Ring) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat

		if (yi > lat) != (yj > lat) &&
			lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PointInShape reports whether the point lies inside the shape. Rings are
// disjoint landmasses, so inside any ring means inside the shape.
func PointInShape(lon, lat float64, shape models.Shape) bool {
	for _, ring := range shape.Rings {
		if pointInRing(lon, lat, ring) {
			return true
		}
	}
	return false
}
