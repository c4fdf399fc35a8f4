// Package polar splits polygons that wrap around a pole into parts which no
// longer cross the antimeridian.
//
// A polygon is projected onto a plane centred on its nearest pole, where the
// antimeridian becomes a straight line. If the exterior ring crosses that
// line an odd number of times it encircles the pole; the projected polygon is
// cut along the line, the pole is inserted as an explicit vertex on the cut
// and the parts are projected back to lon/lat.
package polar

import (
	"github.com/CI-CMG/polar-processor/kernel"
	"github.com/twpayne/go-geom"
)

// SplitFunc cuts a projected polygon along x = ±180 into parts that each
// stay on one side of the line.
type SplitFunc func(*geom.Polygon) (geom.T, error)

// Split splits p around its nearest pole. The boolean is false when no split
// was needed, either because p does not encircle a pole or because its
// boundary already runs through one.
func Split(p *geom.Polygon) (geom.T, bool, error) {
	return SplitWith(p, kernel.SplitDateline)
}

// SplitWith is Split using a custom dateline splitter.
func SplitWith(p *geom.Polygon, split SplitFunc) (geom.T, bool, error) {
	arctic := IsArctic(p)

	projected, ok, err := NeedsSplit(p)
	if err != nil || !ok {
		return nil, false, err
	}

	cut, err := split(projected)
	if err != nil {
		return nil, false, err
	}

	withPoles, err := InsertPoleVertices(cut)
	if err != nil {
		return nil, false, err
	}

	result, err := Map(withPoles, func(c geom.Coord) geom.Coord {
		return Unproject(c, arctic)
	})
	if err != nil {
		return nil, false, err
	}
	return result, true, nil
}

// SplitMultiPolygon splits every member of mp. Parts of split members and
// untouched members are flattened into a single XY geometry: a MultiPolygon
// if every part is a polygon, a GeometryCollection otherwise. The boolean is
// false if no member needed a split.
func SplitMultiPolygon(mp *geom.MultiPolygon) (geom.T, bool, error) {
	parts := make([]geom.T, 0, mp.NumPolygons())
	changed := false
	for i := 0; i < mp.NumPolygons(); i++ {
		p := mp.Polygon(i)
		result, ok, err := Split(p)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			flat, err := Map(p, xy)
			if err != nil {
				return nil, false, err
			}
			parts = append(parts, flat)
			continue
		}
		changed = true
		parts = append(parts, flatten(result)...)
	}

	if !changed {
		return nil, false, nil
	}

	out := geom.NewMultiPolygon(geom.XY)
	for _, part := range parts {
		p, ok := part.(*geom.Polygon)
		if !ok {
			gc := geom.NewGeometryCollection()
			if err := gc.Push(parts...); err != nil {
				return nil, false, err
			}
			return gc, true, nil
		}
		if err := out.Push(p); err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}

func xy(c geom.Coord) geom.Coord {
	return geom.Coord{c.X(), c.Y()}
}

func flatten(g geom.T) []geom.T {
	switch v := g.(type) {
	case *geom.MultiPolygon:
		result := make([]geom.T, 0, v.NumPolygons())
		for i := 0; i < v.NumPolygons(); i++ {
			result = append(result, v.Polygon(i))
		}
		return result
	case *geom.GeometryCollection:
		var result []geom.T
		for _, m := range v.Geoms() {
			result = append(result, flatten(m)...)
		}
		return result
	default:
		return []geom.T{g}
	}
}
