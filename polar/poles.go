package polar

import (
	"fmt"

	"github.com/CI-CMG/polar-processor/kernel"
	"github.com/twpayne/go-geom"
)

// Where the projected pole lands on either side of the cut.
var (
	westPole = geom.Coord{-180, 0}
	eastPole = geom.Coord{180, 0}
)

// InsertPoleVertices adds an explicit pole vertex wherever a segment of a
// split geometry runs through the projected pole. Only exterior rings and
// line strings are touched; holes are copied as they are.
func InsertPoleVertices(g geom.T) (geom.T, error) {
	switch v := g.(type) {
	case *geom.Point:
		return v, nil
	case *geom.LineString:
		coords, err := withPoles(v.Coords())
		if err != nil {
			return nil, err
		}
		return geom.NewLineString(geom.XY).SetCoords(coords)
	case *geom.LinearRing:
		coords, err := withPoles(v.Coords())
		if err != nil {
			return nil, err
		}
		return geom.NewLinearRing(geom.XY).SetCoords(coords)
	case *geom.Polygon:
		rings, err := polygonWithPoles(v.Coords())
		if err != nil {
			return nil, err
		}
		return geom.NewPolygon(geom.XY).SetCoords(rings)
	case *geom.MultiLineString:
		lines := v.Coords()
		for i, line := range lines {
			coords, err := withPoles(line)
			if err != nil {
				return nil, err
			}
			lines[i] = coords
		}
		return geom.NewMultiLineString(geom.XY).SetCoords(lines)
	case *geom.MultiPolygon:
		polys := v.Coords()
		for i, rings := range polys {
			r, err := polygonWithPoles(rings)
			if err != nil {
				return nil, err
			}
			polys[i] = r
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(polys)
	case *geom.GeometryCollection:
		gc := geom.NewGeometryCollection()
		for _, m := range v.Geoms() {
			r, err := InsertPoleVertices(m)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(r); err != nil {
				return nil, err
			}
		}
		return gc, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}
}

func polygonWithPoles(rings [][]geom.Coord) ([][]geom.Coord, error) {
	if len(rings) == 0 {
		return rings, nil
	}
	exterior, err := withPoles(rings[0])
	if err != nil {
		return nil, err
	}
	rings[0] = exterior
	return rings, nil
}

func withPoles(coords []geom.Coord) ([]geom.Coord, error) {
	result := make([]geom.Coord, 0, len(coords)+2)
	for _, c := range coords {
		if len(result) == 0 {
			result = append(result, c)
			continue
		}

		last := result[len(result)-1]
		hit, err := kernel.SegmentIntersectsPoint(last, c, westPole)
		if err != nil {
			return nil, err
		}
		if hit {
			result = append(result, geom.Coord{westPole.X(), westPole.Y()})
		} else {
			hit, err = kernel.SegmentIntersectsPoint(last, c, eastPole)
			if err != nil {
				return nil, err
			}
			if hit {
				result = append(result, geom.Coord{eastPole.X(), eastPole.Y()})
			}
		}
		result = append(result, c)
	}
	return result, nil
}
