package kernel

import (
	"errors"
	"fmt"

	"github.com/paulsmith/gogeos/geos"
	"github.com/twpayne/go-geom"
)

// ToGeos converts a go-geom geometry into its GEOS counterpart.
func ToGeos(g geom.T) (*geos.Geometry, error) {
	switch v := g.(type) {
	case *geom.Point:
		if v.Empty() {
			return nil, errors.New("Cannot convert empty point")
		}
		return geos.NewPoint(toGeosCoord(v.Coords()))
	case *geom.LineString:
		return geos.NewLineString(toGeosCoords(v.Coords())...)
	case *geom.LinearRing:
		return geos.NewLinearRing(toGeosCoords(v.Coords())...)
	case *geom.Polygon:
		return polygonToGeos(v.Coords())
	case *geom.MultiPoint:
		members := make([]*geos.Geometry, 0, v.NumPoints())
		for i := 0; i < v.NumPoints(); i++ {
			p, err := ToGeos(v.Point(i))
			if err != nil {
				return nil, err
			}
			members = append(members, p)
		}
		return geos.NewCollection(geos.MULTIPOINT, members...)
	case *geom.MultiLineString:
		members := make([]*geos.Geometry, 0, v.NumLineStrings())
		for _, coords := range v.Coords() {
			ls, err := geos.NewLineString(toGeosCoords(coords)...)
			if err != nil {
				return nil, err
			}
			members = append(members, ls)
		}
		return geos.NewCollection(geos.MULTILINESTRING, members...)
	case *geom.MultiPolygon:
		members := make([]*geos.Geometry, 0, v.NumPolygons())
		for _, rings := range v.Coords() {
			p, err := polygonToGeos(rings)
			if err != nil {
				return nil, err
			}
			members = append(members, p)
		}
		return geos.NewCollection(geos.MULTIPOLYGON, members...)
	case *geom.GeometryCollection:
		members := make([]*geos.Geometry, 0, v.NumGeoms())
		for _, m := range v.Geoms() {
			c, err := ToGeos(m)
			if err != nil {
				return nil, err
			}
			members = append(members, c)
		}
		return geos.NewCollection(geos.GEOMETRYCOLLECTION, members...)
	default:
		return nil, fmt.Errorf("Unknown geometry type: %T", g)
	}
}

func polygonToGeos(rings [][]geom.Coord) (*geos.Geometry, error) {
	if len(rings) == 0 {
		return nil, errors.New("Cannot convert empty polygon")
	}

	holes := make([][]geos.Coord, 0, len(rings)-1)
	for _, h := range rings[1:] {
		holes = append(holes, toGeosCoords(h))
	}
	return geos.NewPolygon(toGeosCoords(rings[0]), holes...)
}

// FromGeos converts a GEOS geometry, typically the result of an overlay
// operation, back into go-geom values with an XY layout.
func FromGeos(g *geos.Geometry) (geom.T, error) {
	t, err := g.Type()
	if err != nil {
		return nil, err
	}

	switch t {
	case geos.POINT:
		empty, err := g.IsEmpty()
		if err != nil {
			return nil, err
		}
		if empty {
			return geom.NewPointEmpty(geom.XY), nil
		}
		coords, err := g.Coords()
		if err != nil {
			return nil, err
		}
		return geom.NewPoint(geom.XY).SetCoords(fromGeosCoord(coords[0]))
	case geos.LINESTRING:
		coords, err := g.Coords()
		if err != nil {
			return nil, err
		}
		return geom.NewLineString(geom.XY).SetCoords(fromGeosCoords(coords))
	case geos.LINEARRING:
		coords, err := g.Coords()
		if err != nil {
			return nil, err
		}
		return geom.NewLinearRing(geom.XY).SetCoords(fromGeosCoords(coords))
	case geos.POLYGON:
		rings, err := polyToRings(g)
		if err != nil {
			return nil, err
		}
		return geom.NewPolygon(geom.XY).SetCoords(rings)
	case geos.MULTIPOINT, geos.MULTILINESTRING, geos.MULTIPOLYGON, geos.GEOMETRYCOLLECTION:
		return collectionFromGeos(t, g)
	default:
		return nil, fmt.Errorf("Unknown geometry type: %v", t)
	}
}

func collectionFromGeos(t geos.GeometryType, g *geos.Geometry) (geom.T, error) {
	n, err := g.NGeometry()
	if err != nil {
		return nil, err
	}

	members := make([]geom.T, n)
	for i := 0; i < n; i++ {
		m, err := g.Geometry(i)
		if err != nil {
			return nil, err
		}
		members[i], err = FromGeos(m)
		if err != nil {
			return nil, err
		}
	}

	switch t {
	case geos.MULTIPOINT:
		mp := geom.NewMultiPoint(geom.XY)
		for _, m := range members {
			if err := mp.Push(m.(*geom.Point)); err != nil {
				return nil, err
			}
		}
		return mp, nil
	case geos.MULTILINESTRING:
		mls := geom.NewMultiLineString(geom.XY)
		for _, m := range members {
			if err := mls.Push(m.(*geom.LineString)); err != nil {
				return nil, err
			}
		}
		return mls, nil
	case geos.MULTIPOLYGON:
		mp := geom.NewMultiPolygon(geom.XY)
		for _, m := range members {
			if err := mp.Push(m.(*geom.Polygon)); err != nil {
				return nil, err
			}
		}
		return mp, nil
	default:
		gc := geom.NewGeometryCollection()
		if err := gc.Push(members...); err != nil {
			return nil, err
		}
		return gc, nil
	}
}

func polyToRings(g *geos.Geometry) ([][]geom.Coord, error) {
	empty, err := g.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}

	shell, err := g.Shell()
	if err != nil {
		return nil, err
	}
	c, err := shell.Coords()
	if err != nil {
		return nil, err
	}

	holes, err := g.Holes()
	if err != nil {
		return nil, err
	}

	rings := make([][]geom.Coord, len(holes)+1)
	rings[0] = fromGeosCoords(c)
	for i, h := range holes {
		c, err := h.Coords()
		if err != nil {
			return nil, err
		}
		rings[i+1] = fromGeosCoords(c)
	}
	return rings, nil
}

func toGeosCoord(c geom.Coord) geos.Coord {
	return geos.NewCoord(c.X(), c.Y())
}

func toGeosCoords(coords []geom.Coord) []geos.Coord {
	result := make([]geos.Coord, len(coords))
	for i, c := range coords {
		result[i] = toGeosCoord(c)
	}
	return result
}

func fromGeosCoord(c geos.Coord) geom.Coord {
	return geom.Coord{c.X, c.Y}
}

func fromGeosCoords(coords []geos.Coord) []geom.Coord {
	result := make([]geom.Coord, len(coords))
	for i, c := range coords {
		result[i] = fromGeosCoord(c)
	}
	return result
}
