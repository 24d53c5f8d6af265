package models

// Location represents a geographic location with latitude and longitude
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Ring is a closed exterior polygon boundary. The first vertex implicitly
// closes to the last; a valid ring has at least 3 distinct vertices.
type Ring []Location

// Shape is a named country boundary. Multiple rings represent disjoint
// landmasses (islands, exclaves); rings never represent holes.
type Shape struct {
	Name  string `json:"name"`
	Rings []Ring `json:"rings"`
}

// BoundingBox represents a rectangular area defined by two corners
type BoundingBox struct {
	BottomLeft Location
	TopRight   Location
}

// Width returns the longitude extent of the box in degrees.
func (b BoundingBox) Width() float64 {
	return b.TopRight.Lon - b.BottomLeft.Lon
}

// Height returns the latitude extent of the box in degrees.
func (b BoundingBox) Height() float64 {
	return b.TopRight.Lat - b.BottomLeft.Lat
}

// Contains reports whether the location lies within the box, borders included.
func (b BoundingBox) Contains(loc Location) bool {
	return loc.Lat >= b.BottomLeft.Lat && loc.Lat <= b.TopRight.Lat &&
		loc.Lon >= b.BottomLeft.Lon && loc.Lon <= b.TopRight.Lon
}

// Envelope returns the minimal bounding box of the shape's rings.
// The second return is false for a shape with no vertices.
func (s Shape) Envelope() (BoundingBox, bool) {
	found := false
	var box BoundingBox
	for _, ring := range s.Rings {
		for _, v := range ring {
			if !found {
				box = BoundingBox{BottomLeft: v, TopRight: v}
				found = true
				continue
			}
			if v.Lat < box.BottomLeft.Lat {
				box.BottomLeft.Lat = v.Lat
			}
			if v.Lat > box.TopRight.Lat {
				box.TopRight.Lat = v.Lat
			}
			if v.Lon < box.BottomLeft.Lon {
				box.BottomLeft.Lon = v.Lon
			}
			if v.Lon > box.TopRight.Lon {
				box.TopRight.Lon = v.Lon
			}
		}
	}
	return box, found
}
