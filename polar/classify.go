package polar

import (
	"github.com/CI-CMG/polar-processor/kernel"
	"github.com/twpayne/go-geom"
)

var (
	origin = geom.Coord{0, 0}

	// The seam in shifted planar space: the vertical ray above the pole.
	seamStart = geom.Coord{0, 0}
	seamEnd   = geom.Coord{0, 360}
)

// IsArctic reports whether p lies closer to the north pole than to the south
// pole, judged by its envelope. Ties go north.
func IsArctic(p *geom.Polygon) bool {
	b := p.Bounds()
	nDist := 90 - b.Max(1)
	sDist := 90 + b.Min(1)
	return nDist <= sDist
}

// NeedsSplit projects p around its nearest pole and counts how often the
// exterior ring crosses the seam. An odd count means the ring encircles the
// pole and the projected polygon is returned for cutting. A ring that touches
// the pole itself is taken to be split already.
func NeedsSplit(p *geom.Polygon) (*geom.Polygon, bool, error) {
	if p.Empty() {
		return nil, false, nil
	}

	projected := ProjectPolygon(p, IsArctic(p))
	exterior := projected.LinearRing(0).Coords()

	crossings := map[[2]float64]struct{}{}
	var prev geom.Coord
	for i, c := range exterior {
		c = shift(c)
		if c.X() == 0 && c.Y() == 0 {
			return nil, false, nil
		}
		if i == 0 {
			prev = c
			continue
		}

		hit, err := kernel.SegmentIntersectsPoint(prev, c, origin)
		if err != nil {
			return nil, false, err
		}
		if hit {
			return nil, false, nil
		}

		x, ok, err := kernel.SegmentIntersection(prev, c, seamStart, seamEnd)
		if err != nil {
			return nil, false, err
		}
		if ok {
			crossings[[2]float64{x.X(), x.Y()}] = struct{}{}
		}
		prev = c
	}

	if len(crossings)%2 == 1 {
		return projected, true, nil
	}
	return nil, false, nil
}

// shift moves the projected pole from (180, 0) to the origin.
func shift(c geom.Coord) geom.Coord {
	x := c.X() + 180
	if x > 180 {
		x -= 360
	}
	return geom.Coord{x, c.Y()}
}
