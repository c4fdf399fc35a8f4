package kernel

import (
	"github.com/paulsmith/gogeos/geos"
	"github.com/twpayne/go-geom"
)

func segment(a, b geom.Coord) (*geos.Geometry, error) {
	return geos.NewLineString(toGeosCoord(a), toGeosCoord(b))
}

// SegmentIntersectsPoint reports whether p lies on the closed segment a-b.
func SegmentIntersectsPoint(a, b, p geom.Coord) (bool, error) {
	seg, err := segment(a, b)
	if err != nil {
		return false, err
	}

	pt, err := geos.NewPoint(toGeosCoord(p))
	if err != nil {
		return false, err
	}

	return seg.Intersects(pt)
}

// SegmentIntersection returns the intersection of segments a-b and c-d when
// it is a single point. Disjoint and collinear overlapping segments report
// false.
func SegmentIntersection(a, b, c, d geom.Coord) (geom.Coord, bool, error) {
	s1, err := segment(a, b)
	if err != nil {
		return nil, false, err
	}
	s2, err := segment(c, d)
	if err != nil {
		return nil, false, err
	}

	x, err := s1.Intersection(s2)
	if err != nil {
		return nil, false, err
	}

	t, err := x.Type()
	if err != nil {
		return nil, false, err
	}
	if t != geos.POINT {
		return nil, false, nil
	}

	empty, err := x.IsEmpty()
	if err != nil {
		return nil, false, err
	}
	if empty {
		return nil, false, nil
	}

	coords, err := x.Coords()
	if err != nil {
		return nil, false, err
	}
	return fromGeosCoord(coords[0]), true, nil
}
