package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// GroundSentinel is the height reported for positions outside the grid.
const GroundSentinel float32 = 0

// Up is the normal reported for positions outside the grid.
var Up = mgl32.Vec3{0, 1, 0}

// cell locates the full-resolution quad containing world (x, z). It returns
// the quad's top-left grid cell and the fractional offsets within it. Points
// on the far edge resolve to the last quad with an offset of 1.
func (g *VertexGrid) cell(x, z float32) (cx, cz int, fx, fz float32, ok bool) {
	gx := x + float32(g.half)
	gz := -z + float32(g.half)
	last := float32(g.Size - 1)
	// Written positively so NaN coordinates fall outside.
	if !(gx >= 0 && gz >= 0 && gx <= last && gz <= last) || g.Size < 2 {
		return 0, 0, 0, 0, false
	}

	cx = min(int(math.Floor(float64(gx))), g.Size-2)
	cz = min(int(math.Floor(float64(gz))), g.Size-2)
	return cx, cz, gx - float32(cx), gz - float32(cz), true
}

// HeightAt returns the bilinearly interpolated terrain height at world
// (x, z), or GroundSentinel outside the grid.
func (g *VertexGrid) HeightAt(x, z float32) float32 {
	cx, cz, fx, fz, ok := g.cell(x, z)
	if !ok {
		return GroundSentinel
	}

	h00 := g.At(cx, cz).Position.Y()
	h10 := g.At(cx+1, cz).Position.Y()
	h01 := g.At(cx, cz+1).Position.Y()
	h11 := g.At(cx+1, cz+1).Position.Y()

	// Lerp along x on both rows, then between rows.
	near := h00*(1-fx) + h10*fx
	far := h01*(1-fx) + h11*fx
	return near*(1-fz) + far*fz
}

// NormalAt returns the face normal of the quad containing world (x, z),
// taken from the cross product of its diagonals, or Up outside the grid.
func (g *VertexGrid) NormalAt(x, z float32) mgl32.Vec3 {
	cx, cz, _, _, ok := g.cell(x, z)
	if !ok {
		return Up
	}

	a := g.At(cx, cz).Position
	b := g.At(cx+1, cz).Position
	c := g.At(cx, cz+1).Position
	d := g.At(cx+1, cz+1).Position

	n := d.Sub(a).Cross(c.Sub(b))
	if n.Len() == 0 {
		return Up
	}
	return n.Normalize()
}
