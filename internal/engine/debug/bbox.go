package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// BoxLines creates line vertices for a wireframe box.
// Returns 24 vertices (12 edges × 2 endpoints).
func BoxLines(lo, hi mgl32.Vec3, color mgl32.Vec3) []LineVertex {
	corner := func(x, y, z bool) LineVertex {
		p := lo
		if x {
			p[0] = hi[0]
		}
		if y {
			p[1] = hi[1]
		}
		if z {
			p[2] = hi[2]
		}
		return LineVertex{p, color}
	}

	vertices := make([]LineVertex, 0, BBoxWireframeVertexCount)
	for _, y := range [2]bool{false, true} {
		// Bottom and top faces
		vertices = append(vertices,
			corner(false, y, false), corner(true, y, false),
			corner(true, y, false), corner(true, y, true),
			corner(true, y, true), corner(false, y, true),
			corner(false, y, true), corner(false, y, false),
		)
	}
	// Vertical edges
	for _, xz := range [4][2]bool{{false, false}, {true, false}, {true, true}, {false, true}} {
		vertices = append(vertices, corner(xz[0], false, xz[1]), corner(xz[0], true, xz[1]))
	}
	return vertices
}

// ChunkBounds creates a wireframe cube enclosing each active chunk's
// bounding sphere, the volume frustum culling tests against.
func ChunkBounds(terr *terrain.Terrain) []LineVertex {
	var vertices []LineVertex
	for _, c := range terr.ActiveChunks() {
		r := mgl32.Vec3{c.Radius, c.Radius, c.Radius}
		color := LevelColor(c.Level(), c.MaxLevel())
		vertices = append(vertices, BoxLines(c.Anchor.Sub(r), c.Anchor.Add(r), color)...)
	}
	return vertices
}
