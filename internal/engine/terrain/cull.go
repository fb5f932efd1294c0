package terrain

import "github.com/go-gl/mathgl/mgl32"

// plane is a*x + b*y + c*z + d = 0 with a unit normal pointing inside.
type plane struct {
	n mgl32.Vec3
	d float32
}

// Frustum holds the six clip planes of a view-projection matrix.
type Frustum [6]plane

// NewFrustum extracts the left, right, bottom, top, near and far planes from
// a combined projection*view matrix.
func NewFrustum(clip mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := clip.Row(0), clip.Row(1), clip.Row(2), clip.Row(3)
	return Frustum{
		makePlane(r3.Add(r0)),
		makePlane(r3.Sub(r0)),
		makePlane(r3.Add(r1)),
		makePlane(r3.Sub(r1)),
		makePlane(r3.Add(r2)),
		makePlane(r3.Sub(r2)),
	}
}

func makePlane(v mgl32.Vec4) plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return plane{n: n, d: v.W()}
	}
	return plane{n: n.Mul(1 / l), d: v.W() / l}
}

// ContainsSphere reports whether a sphere is at least partly inside.
func (f Frustum) ContainsSphere(center mgl32.Vec3, radius float32) bool {
	for _, p := range f {
		if p.n.Dot(center)+p.d < -radius {
			return false
		}
	}
	return true
}

// Cull marks each chunk active when its bounding sphere touches the view
// frustum of the given projection*view matrix, and returns the number of
// active chunks. Culled chunks keep their level and display buffers.
func (t *Terrain) Cull(viewProj mgl32.Mat4) int {
	f := NewFrustum(viewProj)
	visible := 0
	for _, c := range t.chunks {
		c.Active = f.ContainsSphere(c.Anchor, c.Radius)
		if c.Active {
			visible++
		}
	}
	return visible
}

// ActivateAll clears any culling result.
func (t *Terrain) ActivateAll() {
	for _, c := range t.chunks {
		c.Active = true
	}
}
