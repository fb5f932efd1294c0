package picking

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// MarchStep is the ray-march step in world units. One grid cell is one unit.
const MarchStep float32 = 0.25

// bisections refines a bracketed ground crossing.
const bisections = 20

// GroundHit is where a ray first meets the terrain ground.
type GroundHit struct {
	Point    mgl32.Vec3
	Distance float32
	Chunk    int // Handle of the chunk whose footprint contains Point
}

// ChunkBox returns the axis-aligned box around a chunk's displayed vertices.
func ChunkBox(c *terrain.Chunk) AABB {
	verts := c.Vertices()
	lo, hi := verts[0].Position, verts[0].Position
	for _, v := range verts[1:] {
		for axis := 0; axis < 3; axis++ {
			lo[axis] = min(lo[axis], v.Position[axis])
			hi[axis] = max(hi[axis], v.Position[axis])
		}
	}
	return AABB{Min: lo, Max: hi}
}

type span struct {
	chunk       int
	enter, exit float32
}

// PickGround casts a ray against the ground height surface. Chunks are
// tested nearest first by their bounding boxes, then the ray is marched
// through each box and the first crossing is refined by bisection.
func PickGround(terr *terrain.Terrain, r Ray) (GroundHit, bool) {
	var spans []span
	for _, c := range terr.Chunks() {
		if enter, exit, ok := r.IntersectAABB(ChunkBox(c)); ok {
			spans = append(spans, span{chunk: c.Index, enter: enter, exit: exit})
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].enter < spans[j].enter })

	above := func(t float32) float32 {
		p := r.At(t)
		return p.Y() - terr.FindGroundPosition(p.X(), p.Z())
	}

	for _, s := range spans {
		prev := s.enter
		if above(prev) <= 0 {
			return hitAt(terr, r, prev), true
		}
		for t := min(prev+MarchStep, s.exit); ; t = min(t+MarchStep, s.exit) {
			if above(t) <= 0 {
				lo, hi := prev, t
				for rangeIdx := 0; rangeIdx < bisections; rangeIdx++ {
					mid := (lo + hi) / 2
					if above(mid) <= 0 {
						hi = mid
					} else {
						lo = mid
					}
				}
				return hitAt(terr, r, hi), true
			}
			if t >= s.exit {
				break
			}
			prev = t
		}
	}
	return GroundHit{}, false
}

func hitAt(terr *terrain.Terrain, r Ray, t float32) GroundHit {
	p := r.At(t)
	p[1] = terr.FindGroundPosition(p.X(), p.Z())
	return GroundHit{Point: p, Distance: t, Chunk: ChunkContaining(terr, p.X(), p.Z())}
}

// ChunkContaining returns the handle of the chunk whose footprint contains
// world (x, z), or terrain.NoNeighbor outside the terrain. Points on a shared
// border resolve to the chunk with the larger tile coordinate.
func ChunkContaining(terr *terrain.Terrain, x, z float32) int {
	grid := terr.Grid()
	origin := grid.Vertices[0].Position
	gx := x - origin.X()
	gz := origin.Z() - z
	last := float32(grid.Size - 1)
	if gx < 0 || gz < 0 || gx > last || gz > last {
		return terrain.NoNeighbor
	}

	tile := float32(terr.ChunkWidth() - 1)
	perSide := terr.ChunksPerSide()
	cx := min(int(gx/tile), perSide-1)
	cy := min(int(gz/tile), perSide-1)
	return terr.ChunkAt(cx, cy)
}
