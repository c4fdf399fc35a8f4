package kernel

import (
	"fmt"
	"math"

	"github.com/paulsmith/gogeos/geos"
	"github.com/twpayne/go-geom"
)

const (
	pageWidth = 360.0

	// Half extent of the page rectangles. Covers every planar radius a
	// projected latitude can produce.
	planeExtent = 180.0

	// Overlay results on a page edge may be off by a few ulps.
	seamTolerance = 1e-12
)

// SplitDateline cuts a polygon whose rings wrap across x = ±180 into parts
// that each stay within [-180, 180]. Rings are first unwrapped into a
// continuous x range, then intersected with one 360 wide page at a time and
// shifted back. Polygons that do not wrap are returned as they are.
func SplitDateline(p *geom.Polygon) (geom.T, error) {
	if p.Empty() {
		return p, nil
	}

	b := p.Bounds()
	if b.Max(0)-b.Min(0) < 180 {
		return p, nil
	}

	rings := p.Coords()
	shell, crossings := unwrapRing(rings[0])
	if crossings == 0 {
		return p, nil
	}

	shellGeom, err := geos.NewPolygon(toGeosCoords(shell))
	if err != nil {
		return nil, err
	}

	pshell := geos.PrepareGeometry(shellGeom)
	holes := make([][]geos.Coord, 0, len(rings)-1)
	for _, ring := range rings[1:] {
		hole, err := placeHole(pshell, ring, crossings)
		if err != nil {
			return nil, err
		}
		holes = append(holes, toGeosCoords(hole))
	}

	unwrapped, err := geos.NewPolygon(toGeosCoords(shell), holes...)
	if err != nil {
		return nil, err
	}

	maxX := math.Inf(-1)
	for _, c := range shell {
		maxX = math.Max(maxX, c.X())
	}

	var result *geos.Geometry
	for page := 0; ; page++ {
		minX := -180 + float64(page)*pageWidth
		if maxX <= minX {
			break
		}

		piece, err := cutPage(unwrapped, minX)
		if err != nil {
			return nil, err
		}
		if piece == nil {
			continue
		}

		shiftX(piece, -float64(page)*pageWidth)
		g, err := ToGeos(piece)
		if err != nil {
			return nil, err
		}

		if result == nil {
			result = g
			continue
		}
		result, err = result.Union(g)
		if err != nil {
			return nil, err
		}
	}

	if result == nil {
		return geom.NewGeometryCollection(), nil
	}
	return FromGeos(result)
}

// unwrapRing makes x continuous along the ring: a jump larger than 180
// between neighbours moves the rest of the ring one page. The result is
// shifted so its leftmost page is page zero. The second return value is the
// number of pages spanned.
func unwrapRing(coords []geom.Coord) ([]geom.Coord, int) {
	out := make([]geom.Coord, len(coords))
	if len(coords) == 0 {
		return out, 0
	}

	shift := 0.0
	page, minPage, maxPage := 0, 0, 0
	prevX := coords[0].X()
	out[0] = geom.Coord{coords[0].X(), coords[0].Y()}
	for i := 1; i < len(coords); i++ {
		x := coords[i].X() + shift
		if prevX-x > 180 {
			x += pageWidth
			shift += pageWidth
			page++
			maxPage = max(maxPage, page)
		} else if x-prevX > 180 {
			x -= pageWidth
			shift -= pageWidth
			page--
			minPage = min(minPage, page)
		}
		out[i] = geom.Coord{x, coords[i].Y()}
		prevX = x
	}

	if minPage != 0 {
		offset := float64(-minPage) * pageWidth
		for _, c := range out {
			c[0] += offset
		}
	}
	return out, maxPage - minPage
}

// placeHole unwraps a hole and moves it right, one page at a time, until the
// unwrapped shell contains it.
func placeHole(shell *geos.PGeometry, ring []geom.Coord, crossings int) ([]geom.Coord, error) {
	hole, _ := unwrapRing(ring)
	for shiftCount := 0; ; shiftCount++ {
		ls, err := geos.NewLineString(toGeosCoords(hole)...)
		if err != nil {
			return nil, err
		}
		inside, err := shell.Contains(ls)
		if err != nil {
			return nil, err
		}
		if inside {
			return hole, nil
		}
		if shiftCount >= crossings {
			return nil, fmt.Errorf("Hole does not appear to be within the exterior ring: %v", ring)
		}
		for _, c := range hole {
			c[0] += pageWidth
		}
	}
}

// cutPage intersects g with the page starting at minX. Returns nil when the
// page does not overlap g.
func cutPage(g *geos.Geometry, minX float64) (geom.T, error) {
	maxX := minX + pageWidth
	rect, err := geos.NewPolygon([]geos.Coord{
		geos.NewCoord(minX, -planeExtent),
		geos.NewCoord(maxX, -planeExtent),
		geos.NewCoord(maxX, planeExtent),
		geos.NewCoord(minX, planeExtent),
		geos.NewCoord(minX, -planeExtent),
	})
	if err != nil {
		return nil, err
	}

	piece, err := rect.Intersection(g)
	if err != nil {
		return nil, err
	}

	empty, err := piece.IsEmpty()
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, nil
	}
	return FromGeos(piece)
}

// shiftX translates g in place and clamps x into [-180, 180]. Values computed
// on a page edge are snapped onto the seam.
func shiftX(g geom.T, dx float64) {
	if gc, ok := g.(*geom.GeometryCollection); ok {
		for _, m := range gc.Geoms() {
			shiftX(m, dx)
		}
		return
	}

	flat := g.FlatCoords()
	stride := g.Stride()
	for i := 0; i < len(flat); i += stride {
		flat[i] = snapSeam(flat[i] + dx)
	}
}

func snapSeam(x float64) float64 {
	switch {
	case x >= 180-seamTolerance:
		return 180
	case x <= -180+seamTolerance:
		return -180
	}
	return x
}
