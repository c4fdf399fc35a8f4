package polar

import (
	"math"

	"github.com/twpayne/go-geom"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Project maps a lon/lat coordinate onto the plane centred on the chosen
// pole. The pole lands on (180, 0) and longitude ±180 becomes the vertical
// line x = ±180.
func Project(c geom.Coord, arctic bool) geom.Coord {
	lon, lat := c.X(), c.Y()

	var distance float64
	if arctic {
		distance = 90 - lat
	} else {
		distance = 90 + lat
	}

	angle := lon + 90
	if angle > 180 {
		angle -= 360
	}

	x := float64(distance*math.Cos(angle*degToRad)) + 180
	if x > 180 {
		x -= 360
	}
	y := distance * math.Sin(angle*degToRad)

	return geom.Coord{round(x), round(y)}
}

// Unproject is the inverse of Project.
//
// A point at zero radius is the pole itself and gets longitude 180. A point
// whose angle lands on ±180 takes the sign of its planar x, so both halves of
// a cut agree on which side a shared seam vertex belongs to.
func Unproject(c geom.Coord, arctic bool) geom.Coord {
	originalX := c.X()
	x, y := originalX+180, c.Y()
	if x > 180 {
		x -= 360
	}

	distance := math.Sqrt(float64(x*x) + float64(y*y))
	angle := float64(math.Atan2(y, x)*radToDeg) - 90
	if angle > 180 {
		angle -= 360
	}
	if angle < -180 {
		angle += 360
	}

	if distance == 0 {
		angle = 180
	}
	if math.Abs(angle) == 180 {
		angle = 180
		if originalX < 0 {
			angle = -angle
		}
	}

	var lat float64
	if arctic {
		lat = 90 - distance
	} else {
		lat = distance - 90
	}

	return geom.Coord{round(angle), round(lat)}
}

// ProjectPolygon projects every ring of p, holes included.
func ProjectPolygon(p *geom.Polygon, arctic bool) *geom.Polygon {
	rings := p.Coords()
	for _, ring := range rings {
		for i, c := range ring {
			ring[i] = Project(c, arctic)
		}
	}
	return geom.NewPolygon(geom.XY).MustSetCoords(rings)
}
