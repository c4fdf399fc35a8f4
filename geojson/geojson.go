// Package geojson converts between GeoJSON geometries and go-geom values.
package geojson

import (
	"errors"
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-geom"
)

var ErrMissingGeometry = errors.New("Missing geometry")

// ToGeom converts a GeoJSON geometry. Positions are reduced to their first two
// values, any altitude is dropped.
func ToGeom(g *geojson.Geometry) (geom.T, error) {
	if g == nil {
		return nil, ErrMissingGeometry
	}

	switch g.Type {
	case geojson.GeometryPoint:
		c, err := toCoord(g.Point)
		if err != nil {
			return nil, err
		}
		return geom.NewPoint(geom.XY).SetCoords(c)
	case geojson.GeometryMultiPoint:
		coords, err := toCoords(g.MultiPoint)
		if err != nil {
			return nil, err
		}
		return geom.NewMultiPoint(geom.XY).SetCoords(coords)
	case geojson.GeometryLineString:
		coords, err := toCoords(g.LineString)
		if err != nil {
			return nil, err
		}
		return geom.NewLineString(geom.XY).SetCoords(coords)
	case geojson.GeometryMultiLineString:
		lines, err := toCoordSlices(g.MultiLineString)
		if err != nil {
			return nil, err
		}
		return geom.NewMultiLineString(geom.XY).SetCoords(lines)
	case geojson.GeometryPolygon:
		rings, err := toCoordSlices(g.Polygon)
		if err != nil {
			return nil, err
		}
		return geom.NewPolygon(geom.XY).SetCoords(rings)
	case geojson.GeometryMultiPolygon:
		polys := make([][][]geom.Coord, len(g.MultiPolygon))
		for i, p := range g.MultiPolygon {
			rings, err := toCoordSlices(p)
			if err != nil {
				return nil, err
			}
			polys[i] = rings
		}
		return geom.NewMultiPolygon(geom.XY).SetCoords(polys)
	case geojson.GeometryCollection:
		gc := geom.NewGeometryCollection()
		for _, m := range g.Geometries {
			c, err := ToGeom(m)
			if err != nil {
				return nil, err
			}
			if err := gc.Push(c); err != nil {
				return nil, err
			}
		}
		return gc, nil
	default:
		return nil, fmt.Errorf("Unknown geometry type: %v", g.Type)
	}
}

// FromGeom converts a go-geom geometry into GeoJSON. Linear rings become line
// strings.
func FromGeom(g geom.T) (*geojson.Geometry, error) {
	switch v := g.(type) {
	case *geom.Point:
		if v.Empty() {
			return nil, errors.New("Cannot convert empty point")
		}
		return geojson.NewPointGeometry(fromCoord(v.Coords())), nil
	case *geom.MultiPoint:
		return geojson.NewMultiPointGeometry(fromCoords(v.Coords())...), nil
	case *geom.LineString:
		return geojson.NewLineStringGeometry(fromCoords(v.Coords())), nil
	case *geom.LinearRing:
		return geojson.NewLineStringGeometry(fromCoords(v.Coords())), nil
	case *geom.MultiLineString:
		return geojson.NewMultiLineStringGeometry(fromCoordSlices(v.Coords())...), nil
	case *geom.Polygon:
		return geojson.NewPolygonGeometry(fromCoordSlices(v.Coords())), nil
	case *geom.MultiPolygon:
		polys := make([][][][]float64, 0, v.NumPolygons())
		for _, rings := range v.Coords() {
			polys = append(polys, fromCoordSlices(rings))
		}
		return geojson.NewMultiPolygonGeometry(polys...), nil
	case *geom.GeometryCollection:
		members := make([]*geojson.Geometry, 0, v.NumGeoms())
		for _, m := range v.Geoms() {
			c, err := FromGeom(m)
			if err != nil {
				return nil, err
			}
			members = append(members, c)
		}
		return geojson.NewCollectionGeometry(members...), nil
	default:
		return nil, fmt.Errorf("Unknown geometry type: %T", g)
	}
}

func toCoord(p []float64) (geom.Coord, error) {
	if len(p) < 2 {
		return nil, fmt.Errorf("Bad position: %v", p)
	}
	return geom.Coord{p[0], p[1]}, nil
}

func toCoords(ps [][]float64) ([]geom.Coord, error) {
	result := make([]geom.Coord, len(ps))
	for i, p := range ps {
		c, err := toCoord(p)
		if err != nil {
			return nil, err
		}
		result[i] = c
	}
	return result, nil
}

func toCoordSlices(pss [][][]float64) ([][]geom.Coord, error) {
	result := make([][]geom.Coord, len(pss))
	for i, ps := range pss {
		coords, err := toCoords(ps)
		if err != nil {
			return nil, err
		}
		result[i] = coords
	}
	return result, nil
}

func fromCoord(c geom.Coord) []float64 {
	return []float64{c.X(), c.Y()}
}

func fromCoords(coords []geom.Coord) [][]float64 {
	result := make([][]float64, len(coords))
	for i, c := range coords {
		result[i] = fromCoord(c)
	}
	return result
}

func fromCoordSlices(coords [][]geom.Coord) [][][]float64 {
	result := make([][][]float64, len(coords))
	for i, c := range coords {
		result[i] = fromCoords(c)
	}
	return result
}
