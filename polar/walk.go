package polar

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geom"
)

// ErrUnsupportedGeometry is returned for geometry types the walker does not
// know how to traverse.
var ErrUnsupportedGeometry = errors.New("Unsupported geometry")

// CoordFunc maps a single coordinate.
type CoordFunc func(geom.Coord) geom.Coord

// Map returns a copy of g with fn applied to every coordinate. Points,
// line strings, linear rings, polygons, multi line strings, multi polygons
// and geometry collections are supported.
func Map(g geom.T, fn CoordFunc) (geom.T, error) {
	switch v := g.(type) {
	case *geom.Point:
		if v.Empty() {
			return geom.NewPointEmpty(geom.XY), nil
		}
		return geom.NewPoint(geom.XY).SetCoords(fn(v.Coords()))
	case *geom.LineString:
		return geom.NewLineString(geom.XY).SetCoords(mapCoords(v.Coords(), fn))
	case *geom.LinearRing:
		return geom.NewLinearRing(geom.XY).SetCoords(mapCoords(v.Coords(), fn))
	case *geom.Polygon:
		return geom.NewPolygon(geom.XY).SetCoords(mapRings(v.Coords(), fn))
	case *geom.MultiLineString:
		return geom.NewMultiLineString(geom.XY).SetCoords(mapRings(v.Coords(), fn))
	case *geom.MultiPolygon:
		polys := v.Coords()
		for i, rings := range polys {
			polys[i] = mapRings(rings, fn)
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(polys)
	case *geom.GeometryCollection:
		gc := geom.NewGeometryCollection()
		for _, m := range v.Geoms() {
			mapped, err := Map(m, fn)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(mapped); err != nil {
				return nil, err
			}
		}
		return gc, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, g)
	}
}

func mapCoords(coords []geom.Coord, fn CoordFunc) []geom.Coord {
	result := make([]geom.Coord, len(coords))
	for i, c := range coords {
		result[i] = fn(c)
	}
	return result
}

func mapRings(rings [][]geom.Coord, fn CoordFunc) [][]geom.Coord {
	result := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		result[i] = mapCoords(ring, fn)
	}
	return result
}
