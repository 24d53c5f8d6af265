// Package geodata loads named country boundaries from a GeoJSON
// feature collection into the in-memory shape set used by the quiz.
package geodata

import (
	"encoding/json"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/kass/africa-quiz/pkg/models"
)

// areaTolerance is the minimum planar ring area (square degrees) below
// which a ring is considered degenerate and dropped.
const areaTolerance = 1e-9

// ErrNoShapes is returned when a feature collection parses but yields
// zero usable shapes after per-feature filtering.
var ErrNoShapes = eris.New("geodata: no usable shapes in feature collection")

// Load reads and parses a GeoJSON file of named country boundaries.
// Per-feature problems are skipped with a warning; an unreadable or
// unparseable file, or an empty result, is fatal.
func Load(path string) ([]models.Shape, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: read %s", path)
	}

	shapes, err := Parse(data)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: load %s", path)
	}
	return shapes, nil
}

// Parse decodes a GeoJSON FeatureCollection into shapes, keeping load order.
// Only Polygon and MultiPolygon geometries are accepted; exterior rings only.
func Parse(data []byte) ([]models.Shape, error) {
	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geodata: decode feature collection")
	}

	log := zap.L().With(zap.String("component", "geodata.loader"))

	shapes := make([]models.Shape, 0, len(fc.Features))
	seen := make(map[string]bool, len(fc.Features))

	for i, feature := range fc.Features {
		if feature == nil {
			continue
		}

		name := featureName(feature)
		if name == "" {
			log.Warn("skipping feature without a name", zap.Int("feature", i))
			continue
		}
		if seen[name] {
			log.Warn("skipping duplicate feature name", zap.String("name", name))
			continue
		}
		if feature.Geometry == nil {
			log.Warn("skipping feature without geometry", zap.String("name", name))
			continue
		}

		var rings []models.Ring
		switch g := feature.Geometry.(type) {
		case *geom.Polygon:
			rings = polygonRings(g)
		case *geom.MultiPolygon:
			for p := 0; p < g.NumPolygons(); p++ {
				rings = append(rings, polygonRings(g.Polygon(p))...)
			}
		default:
			log.Warn("skipping unsupported geometry type",
				zap.String("name", name),
				zap.String("type", geometryType(feature.Geometry)),
			)
			continue
		}

		if len(rings) == 0 {
			log.Warn("skipping feature with no valid rings", zap.String("name", name))
			continue
		}

		seen[name] = true
		shapes = append(shapes, models.Shape{Name: name, Rings: rings})
	}

	if len(shapes) == 0 {
		return nil, ErrNoShapes
	}

	log.Info("feature collection loaded",
		zap.Int("features", len(fc.Features)),
		zap.Int("shapes", len(shapes)),
	)
	return shapes, nil
}

// polygonRings extracts the exterior ring of a polygon, dropping
// degenerate rings. Interior rings (holes) are ignored.
func polygonRings(p *geom.Polygon) []models.Ring {
	if p == nil || p.NumLinearRings() == 0 {
		return nil
	}

	exterior := p.LinearRing(0)
	if math.Abs(exterior.Area()) < areaTolerance {
		return nil
	}

	ring := coordsToRing(exterior.Coords())
	if len(ring) < 3 {
		return nil
	}
	return []models.Ring{ring}
}

// coordsToRing converts GeoJSON coordinates to a Ring, dropping the
// explicit closing vertex and consecutive duplicates.
func coordsToRing(coords []geom.Coord) models.Ring {
	ring := make(models.Ring, 0, len(coords))
	for _, c := range coords {
		loc := models.Location{Lon: c[0], Lat: c[1]}
		if n := len(ring); n > 0 && ring[n-1] == loc {
			continue
		}
		ring = append(ring, loc)
	}
	// GeoJSON rings repeat the first vertex at the end; our rings close implicitly.
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
	}
	return ring
}

// featureName extracts the trimmed "name" property of a feature.
func featureName(f *geojson.Feature) string {
	v, ok := f.Properties["name"]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// geometryType names a go-geom geometry for log messages.
func geometryType(g geom.T) string {
	switch g.(type) {
	case *geom.Point:
		return "Point"
	case *geom.MultiPoint:
		return "MultiPoint"
	case *geom.LineString:
		return "LineString"
	case *geom.MultiLineString:
		return "MultiLineString"
	case *geom.Polygon:
		return "Polygon"
	case *geom.MultiPolygon:
		return "MultiPolygon"
	default:
		return "unknown"
	}
}
