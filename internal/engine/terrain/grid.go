package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// VertexGrid is the full-resolution terrain vertex lattice, centered on the
// origin. It is read-only after BuildVertexGrid returns.
type VertexGrid struct {
	Size     int
	Vertices []Vertex
	half     int
}

// BuildVertexGrid lays out one vertex per heightfield sample and computes
// angle-weighted vertex normals at full resolution.
func BuildVertexGrid(hf *Heightfield) *VertexGrid {
	w := hf.Size
	g := &VertexGrid{
		Size:     w,
		Vertices: make([]Vertex, w*w),
		half:     w / 2,
	}

	div := float32(hf.Divisor)
	white := mgl32.Vec4{1, 1, 1, 1}
	for z := 0; z < w; z++ {
		for x := 0; x < w; x++ {
			g.Vertices[z*w+x] = Vertex{
				Position: mgl32.Vec3{
					float32(x - g.half),
					hf.Sample(x, z) / div,
					-float32(z - g.half),
				},
				TexCoord: mgl32.Vec2{float32(x) / float32(w), float32(z) / float32(w)},
				Color:    white,
			}
		}
	}

	g.computeNormals()
	return g
}

// At returns the vertex at grid cell (x, z).
func (g *VertexGrid) At(x, z int) *Vertex {
	return &g.Vertices[z*g.Size+x]
}

// computeNormals accumulates each triangle's face normal into its three
// corners, weighted by the interior angle at that corner.
func (g *VertexGrid) computeNormals() {
	w := g.Size
	acc := make([]mgl64.Vec3, len(g.Vertices))

	for z := 0; z < w-1; z++ {
		for x := 0; x < w-1; x++ {
			a := z*w + x
			b := a + 1
			c := a + w
			d := c + 1
			g.accumulate(acc, a, b, c)
			g.accumulate(acc, b, d, c)
		}
	}

	for i, n := range acc {
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		g.Vertices[i].Normal = mgl32.Vec3{float32(n[0]), float32(n[1]), float32(n[2])}
	}
}

func (g *VertexGrid) accumulate(acc []mgl64.Vec3, ia, ib, ic int) {
	a := vec64(g.Vertices[ia].Position)
	b := vec64(g.Vertices[ib].Position)
	c := vec64(g.Vertices[ic].Position)

	face := b.Sub(a).Cross(c.Sub(a))
	corners := [3]struct {
		idx     int
		p, q, r mgl64.Vec3
	}{
		{ia, a, b, c},
		{ib, b, c, a},
		{ic, c, a, b},
	}
	for _, k := range corners {
		acc[k.idx] = acc[k.idx].Add(face.Mul(interiorAngle(k.p, k.q, k.r)))
	}
}

// interiorAngle returns the angle at p between edges p->q and p->r.
func interiorAngle(p, q, r mgl64.Vec3) float64 {
	u := q.Sub(p)
	v := r.Sub(p)
	lu, lv := u.Len(), v.Len()
	if lu == 0 || lv == 0 {
		return 0
	}
	cos := u.Dot(v) / (lu * lv)
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
