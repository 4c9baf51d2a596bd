// Package geo is the default geometry used by camera alignment: Web
// Mercator visible regions and great-circle distances in metres.
package geo

import (
	"math"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

// TileSize is the pixel size of a zoom-0 world.
const TileSize = 512.0

const maxLat = 85.0511287798066

type Mercator struct{}

func New() Mercator { return Mercator{} }

// VisibleRegion returns prev when the caller already knows the region.
func (Mercator) VisibleRegion(center model.Position, zoom float64, vp model.Viewport, prev *model.Region) model.Region {
	if prev != nil {
		return *prev
	}
	world := TileSize * math.Exp2(zoom)
	cx, cy := project(center, world)
	hw, hh := vp.Width/2, vp.Height/2

	return model.Region{
		NE: unproject(cx+hw, cy-hh, world),
		SW: unproject(cx-hw, cy+hh, world),
	}
}

func (Mercator) LineString(points ...model.Position) []model.Position {
	out := make([]model.Position, len(points))
	copy(out, points)
	return out
}

func (Mercator) Distance(a, b model.Position) float64 {
	return h3.GreatCircleDistanceM(latLng(a), latLng(b))
}

// PointAlongLine walks dist metres along line. Within a segment the
// position is interpolated linearly in degrees. Walking past the end
// returns the last vertex.
func (m Mercator) PointAlongLine(line []model.Position, dist float64) model.Position {
	if len(line) == 0 {
		return model.Position{}
	}
	if dist <= 0 {
		return line[0]
	}
	walked := 0.0
	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		seg := m.Distance(a, b)
		if seg > 0 && walked+seg >= dist {
			f := (dist - walked) / seg
			return model.Position{
				a[0] + (b[0]-a[0])*f,
				a[1] + (b[1]-a[1])*f,
			}
		}
		walked += seg
	}
	return line[len(line)-1]
}

func latLng(p model.Position) h3.LatLng {
	return h3.LatLng{Lat: p[1], Lng: p[0]}
}

func project(p model.Position, world float64) (float64, float64) {
	lat := math.Max(-maxLat, math.Min(maxLat, p[1]))
	x := (p[0] + 180) / 360 * world
	s := math.Sin(lat * math.Pi / 180)
	y := (0.5 - math.Log((1+s)/(1-s))/(4*math.Pi)) * world
	return x, y
}

func unproject(x, y, world float64) model.Position {
	lon := x/world*360 - 180
	n := math.Pi - 2*math.Pi*y/world
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return model.Position{lon, lat}
}
