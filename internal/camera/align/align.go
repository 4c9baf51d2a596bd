// Package align shifts a camera target so it lands at a fractional anchor of
// the visible region instead of its center.
package align

import "github.com/mohammed-shakir/camera-stop-engine/internal/core/model"

// Geometry is the math the alignment needs. Distances only have to be
// consistent between Distance and PointAlongLine.
type Geometry interface {
	VisibleRegion(center model.Position, zoom float64, vp model.Viewport, prev *model.Region) model.Region
	LineString(points ...model.Position) []model.Position
	Distance(a, b model.Position) float64
	PointAlongLine(line []model.Position, dist float64) model.Position
}

// Align returns the coordinate for target with the region's top-left corner
// as origin: alignment[0] walks down the left edge, alignment[1] walks along
// the top edge. The result takes its longitude from the vertical walk and
// its latitude from the horizontal one.
func Align(g Geometry, target model.Position, zoom float64, vp model.Viewport, prev *model.Region, alignment [2]float64) model.Position {
	region := g.VisibleRegion(target, zoom, vp, prev)

	topLeft := model.Position{region.SW[0], region.NE[1]}
	topRight := model.Position{region.NE[0], region.NE[1]}
	bottomLeft := model.Position{region.SW[0], region.SW[1]}

	vertical := g.LineString(topLeft, bottomLeft)
	horizontal := g.LineString(topLeft, topRight)

	distV := g.Distance(topLeft, bottomLeft)
	distH := g.Distance(topLeft, topRight)

	vp0 := g.PointAlongLine(vertical, distV*alignment[0])
	hp := g.PointAlongLine(horizontal, distH*alignment[1])

	return model.Position{vp0[0], hp[1]}
}
