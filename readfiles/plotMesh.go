package readfiles

import (
	"image/color"

	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/types"
	"github.com/notargets/fieldview/utils"
)

// PlotMeta selects what the mesh plot draws
type PlotMeta struct {
	Title       string
	Edges       bool
	Streamlines []types.PolyLine
	Glyphs      []types.LineSegment
}

// MeshLines collects the plot as line lists keyed by color: mesh edges in
// black, streamlines in blue, glyphs in red
func MeshLines(qm *geometry2D.QuadMesh, pm *PlotMeta) (lines map[color.RGBA][]float32) {
	lines = make(map[color.RGBA][]float32)
	if pm.Edges {
		col := utils.GetColor(utils.Black)
		for _, ek := range qm.Edges() {
			iv := ek.GetVertices(false)
			a, b := qm.Verts[iv[0]].Pos, qm.Verts[iv[1]].Pos
			utils.AddLine(a.X, a.Y, b.X, b.Y, col, lines)
		}
	}
	col := utils.GetColor(utils.Blue)
	for _, pl := range pm.Streamlines {
		lines[col] = append(lines[col], pl.Flatten()...)
	}
	col = utils.GetColor(utils.Red)
	for _, g := range pm.Glyphs {
		utils.AddLine(g.Start.X, g.Start.Y, g.End.X, g.End.Y, col, lines)
	}
	return
}
