package kernel

import (
	"math"
	"testing"

	"github.com/cheekybits/is"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

func mustPolygon(is is.I, s string) *geom.Polygon {
	g, err := wkt.Unmarshal(s)
	is.NoErr(err)
	p, ok := g.(*geom.Polygon)
	is.True(ok)
	return p
}

func openRing(coords []geom.Coord) []geom.Coord {
	n := len(coords)
	if n > 1 && coords[0].Equal(geom.XY, coords[n-1]) {
		return coords[:n-1]
	}
	return coords
}

func near(a, b geom.Coord) bool {
	return math.Abs(a.X()-b.X()) < 1e-9 && math.Abs(a.Y()-b.Y()) < 1e-9
}

// sameRing compares closed rings ignoring start vertex and orientation.
func sameRing(got, want []geom.Coord) bool {
	a, b := openRing(got), openRing(want)
	if len(a) != len(b) {
		return false
	}

	n := len(a)
	for _, reverse := range []bool{false, true} {
		for off := 0; off < n; off++ {
			match := true
			for i := 0; i < n && match; i++ {
				j := (off + i) % n
				if reverse {
					j = (off - i + n) % n
				}
				match = near(a[j], b[i])
			}
			if match {
				return true
			}
		}
	}
	return false
}

func polygons(g geom.T) []*geom.Polygon {
	switch v := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{v}
	case *geom.MultiPolygon:
		result := make([]*geom.Polygon, 0, v.NumPolygons())
		for i := 0; i < v.NumPolygons(); i++ {
			result = append(result, v.Polygon(i))
		}
		return result
	case *geom.GeometryCollection:
		result := []*geom.Polygon{}
		for _, m := range v.Geoms() {
			result = append(result, polygons(m)...)
		}
		return result
	}
	return nil
}

func area(g geom.T) float64 {
	total := 0.0
	for _, p := range polygons(g) {
		total += p.Area()
	}
	return total
}

func TestSplitDatelineRing(t *testing.T) {
	is := is.New(t)

	p := mustPolygon(is, "POLYGON ((180 -20, 160 0, 180 20, -160 0, 180 -20))")
	result, err := SplitDateline(p)
	is.NoErr(err)

	parts := polygons(result)
	is.Equal(len(parts), 2)

	want := [][]geom.Coord{
		{{-180, -20}, {-180, 20}, {-160, 0}, {-180, -20}},
		{{180, 20}, {180, -20}, {160, 0}, {180, 20}},
	}
	for _, w := range want {
		found := false
		for _, part := range parts {
			if sameRing(part.LinearRing(0).Coords(), w) {
				found = true
			}
		}
		if !found {
			is.Fail("Missing part: ", w)
		}
	}
}

func TestSplitDatelineNarrow(t *testing.T) {
	is := is.New(t)

	p := mustPolygon(is, "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))")
	result, err := SplitDateline(p)
	is.NoErr(err)
	is.Equal(result, p)
}

func TestSplitDatelineWideWithoutWrap(t *testing.T) {
	is := is.New(t)

	p := mustPolygon(is, "POLYGON ((-100 0, 0 0, 100 0, 100 10, 0 10, -100 10, -100 0))")
	result, err := SplitDateline(p)
	is.NoErr(err)
	is.Equal(result, p)
}

func TestSplitDatelineStartsWest(t *testing.T) {
	is := is.New(t)

	p := mustPolygon(is, "POLYGON ((-170 -10, -170 10, 170 10, 170 -10, -170 -10))")
	result, err := SplitDateline(p)
	is.NoErr(err)

	parts := polygons(result)
	is.Equal(len(parts), 2)
	is.True(math.Abs(area(result)-400) < 1e-9)

	for _, part := range parts {
		b := part.Bounds()
		is.True(b.Min(0) >= -180)
		is.True(b.Max(0) <= 180)
	}
}

func TestSplitDatelineCrossingHole(t *testing.T) {
	is := is.New(t)

	p := mustPolygon(is, "POLYGON ((170 -10, 170 10, -170 10, -170 -10, 170 -10), (175 -5, 175 5, -175 5, -175 -5, 175 -5))")
	result, err := SplitDateline(p)
	is.NoErr(err)

	parts := polygons(result)
	is.Equal(len(parts), 2)
	is.True(math.Abs(area(result)-300) < 1e-9)
	for _, part := range parts {
		is.Equal(part.NumLinearRings(), 1)
	}
}

func TestSplitDatelineShiftedHole(t *testing.T) {
	is := is.New(t)

	p := mustPolygon(is, "POLYGON ((170 -10, 170 10, -170 10, -170 -10, 170 -10), (-178 -2, -176 -2, -176 2, -178 2, -178 -2))")
	result, err := SplitDateline(p)
	is.NoErr(err)

	parts := polygons(result)
	is.Equal(len(parts), 2)
	is.True(math.Abs(area(result)-392) < 1e-9)

	holes := 0
	for _, part := range parts {
		holes += part.NumLinearRings() - 1
		if part.NumLinearRings() > 1 {
			b := part.LinearRing(1).Bounds()
			is.Equal(b.Min(0), -178.0)
			is.Equal(b.Max(0), -176.0)
		}
	}
	is.Equal(holes, 1)
}

func TestUnwrapRing(t *testing.T) {
	is := is.New(t)

	ring := []geom.Coord{{180, -20}, {160, 0}, {180, 20}, {-160, 0}, {180, -20}}
	out, crossings := unwrapRing(ring)
	is.Equal(crossings, 1)
	is.Equal(out, []geom.Coord{{180, -20}, {160, 0}, {180, 20}, {200, 0}, {180, -20}})

	// Input is left untouched
	is.Equal(ring[3], geom.Coord{-160, 0})
}

func TestSegmentIntersectsPoint(t *testing.T) {
	is := is.New(t)

	origin := geom.Coord{0, 0}

	hit, err := SegmentIntersectsPoint(geom.Coord{0, -20}, geom.Coord{0, 20}, origin)
	is.NoErr(err)
	is.True(hit)

	hit, err = SegmentIntersectsPoint(geom.Coord{0, 0}, geom.Coord{5, 5}, origin)
	is.NoErr(err)
	is.True(hit)

	hit, err = SegmentIntersectsPoint(geom.Coord{1, 1}, geom.Coord{2, 2}, origin)
	is.NoErr(err)
	is.False(hit)
}

func TestSegmentIntersection(t *testing.T) {
	is := is.New(t)

	maskStart := geom.Coord{0, 0}
	maskEnd := geom.Coord{0, 360}

	c, ok, err := SegmentIntersection(geom.Coord{-10, 10}, geom.Coord{10, 10}, maskStart, maskEnd)
	is.NoErr(err)
	is.True(ok)
	is.True(near(c, geom.Coord{0, 10}))

	// Collinear overlap is a line, not a crossing
	_, ok, err = SegmentIntersection(geom.Coord{0, 5}, geom.Coord{0, 10}, maskStart, maskEnd)
	is.NoErr(err)
	is.False(ok)

	_, ok, err = SegmentIntersection(geom.Coord{-10, -10}, geom.Coord{10, -10}, maskStart, maskEnd)
	is.NoErr(err)
	is.False(ok)
}

func TestRoundTripCollection(t *testing.T) {
	is := is.New(t)

	poly := mustPolygon(is, "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0), (2 2, 2 4, 4 4, 2 2))")
	mp := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{{{{20, 20}, {30, 20}, {30, 30}, {20, 20}}}})
	in := geom.NewGeometryCollection()
	is.NoErr(in.Push(
		geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{1, 2}),
		geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{{0, 0}, {1, 1}}),
		poly,
		mp,
	))

	g, err := ToGeos(in)
	is.NoErr(err)

	out, err := FromGeos(g)
	is.NoErr(err)

	gc, ok := out.(*geom.GeometryCollection)
	is.True(ok)
	is.Equal(gc.NumGeoms(), 4)
	is.Equal(gc.Geom(0).(*geom.Point).Coords(), geom.Coord{1, 2})
	is.Equal(gc.Geom(1).(*geom.LineString).Coords(), []geom.Coord{{0, 0}, {1, 1}})
	is.Equal(gc.Geom(2).(*geom.Polygon).Coords(), poly.Coords())
	is.Equal(gc.Geom(3).(*geom.MultiPolygon).NumPolygons(), 1)
}

func TestToGeosEmptyPoint(t *testing.T) {
	is := is.New(t)

	_, err := ToGeos(geom.NewPointEmpty(geom.XY))
	is.Err(err)
}

func TestShiftXSnapsSeam(t *testing.T) {
	is := is.New(t)

	p := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{{179.99999999999997, 0}, {200, 10}, {180.00000000000003, 10}, {179.99999999999997, 0}}})
	shiftX(p, -360)
	is.Equal(p.LinearRing(0).Coords(), []geom.Coord{{-180, 0}, {-160, 10}, {-180, 10}, {-180, 0}})

	is.Equal(snapSeam(179.99999999999), 179.99999999999)
	is.Equal(snapSeam(-180.5), -180.0)
}
