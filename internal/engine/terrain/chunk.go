package terrain

import "github.com/go-gl/mathgl/mgl32"

// BoundingRadiusMargin scales a chunk's bounding radius. The radius is taken
// from the footprint and height span instead of the projected corners, so it
// is padded to keep chunks near the screen edge from being culled early.
const BoundingRadiusMargin = 1.5

// Chunk is one square tile of the terrain with its own detail level.
//
// A chunk holds three copies of its vertices:
//   - backup: the pristine grid vertices, never written after construction
//   - rest: the working copy that SetLevel, Recover and Align write
//   - display: what the renderer reads, refreshed from rest by Publish
type Chunk struct {
	Index     int    // Handle into the terrain's chunk arena
	X, Y      int    // Tile coordinates
	Neighbors [4]int // Indexed by Side; NoNeighbor on the boundary
	Anchor    mgl32.Vec3
	Radius    float32
	Active    bool // False when culled; culled chunks keep their level

	width   int
	ladder  [][]uint32
	level   int
	stride  int
	backup  []Vertex
	rest    []Vertex
	display []Vertex
	dirty   bool // rest holds changes not yet published
}

// newChunk copies a width x width block of the grid starting at (ox, oz).
// The chunk starts at full detail.
func newChunk(grid *VertexGrid, ox, oz, width int, ladder [][]uint32) *Chunk {
	c := &Chunk{
		Neighbors: [4]int{NoNeighbor, NoNeighbor, NoNeighbor, NoNeighbor},
		Active:    true,
		width:     width,
		ladder:    ladder,
		stride:    1,
		backup:    make([]Vertex, width*width),
	}
	for y := 0; y < width; y++ {
		row := grid.Vertices[(oz+y)*grid.Size+ox : (oz+y)*grid.Size+ox+width]
		copy(c.backup[y*width:], row)
	}
	c.rest = append([]Vertex(nil), c.backup...)
	c.display = append([]Vertex(nil), c.backup...)
	c.computeBounds()
	return c
}

// computeBounds sets the anchor to the center of the chunk's bounding box and
// derives a conservative bounding radius.
func (c *Chunk) computeBounds() {
	first := c.backup[0].Position
	last := c.backup[len(c.backup)-1].Position
	minY, maxY := first.Y(), first.Y()
	for _, v := range c.backup {
		y := v.Position.Y()
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	c.Anchor = mgl32.Vec3{
		(first.X() + last.X()) / 2,
		(minY + maxY) / 2,
		(first.Z() + last.Z()) / 2,
	}
	halfWidth := float32(c.width-1) / 2
	c.Radius = max(halfWidth, maxY-minY) * BoundingRadiusMargin
}

// Width returns the number of vertices per chunk side.
func (c *Chunk) Width() int { return c.width }

// Level returns the active detail level; 0 is full detail.
func (c *Chunk) Level() int { return c.level }

// MaxLevel returns the coarsest detail level index.
func (c *Chunk) MaxLevel() int { return len(c.ladder) - 1 }

// Stride returns the vertex spacing of the active level.
func (c *Chunk) Stride() int { return c.stride }

// Vertices returns the display buffer. Callers must not modify it.
func (c *Chunk) Vertices() []Vertex { return c.display }

// Indices returns the triangle list of the active level. Callers must not
// modify it.
func (c *Chunk) Indices() []uint32 { return c.ladder[c.level] }

// TriangleCount returns the number of triangles at the active level.
func (c *Chunk) TriangleCount() int { return len(c.ladder[c.level]) / 3 }

// SetLevel switches the chunk to a detail level, clamped to the valid range.
// On a change the working buffer is restored from backup, undoing any
// stitching, and true is returned: the caller must re-stitch all four
// borders before publishing.
func (c *Chunk) SetLevel(level int) bool {
	level = max(0, min(level, c.MaxLevel()))
	if level == c.level {
		return false
	}
	c.level = level
	c.stride = StrideOf(level)
	copy(c.rest, c.backup)
	c.dirty = true
	return true
}

// Recover restores one border of the working buffer from backup.
func (c *Chunk) Recover(side Side) {
	for t := 0; t < c.width; t++ {
		i := c.borderIndex(side, t)
		c.rest[i] = c.backup[i]
	}
	c.dirty = true
}

// Align snaps one border of the working buffer to the coarser of this
// chunk's stride and the neighbor's. Vertices at multiples of that stride are
// kept and every vertex between two of them takes the value of the preceding
// one, so the border collapses onto the coarse edge. The border must have
// been recovered first.
func (c *Chunk) Align(side Side, neighborStride int) {
	step := max(c.stride, neighborStride)
	if step == 1 {
		return
	}
	major := c.borderIndex(side, 0)
	for t := 1; t < c.width; t++ {
		i := c.borderIndex(side, t)
		if t%step == 0 {
			major = i
			continue
		}
		c.rest[i] = c.rest[major]
	}
	c.dirty = true
}

// Publish copies the working buffer to the display buffer if it changed.
// It reports whether anything was copied.
func (c *Chunk) Publish() bool {
	if !c.dirty {
		return false
	}
	copy(c.display, c.rest)
	c.dirty = false
	return true
}

// BorderVertex returns the display vertex at offset t along a side.
func (c *Chunk) BorderVertex(side Side, t int) Vertex {
	return c.display[c.borderIndex(side, t)]
}

// borderIndex maps an offset along a side to a local vertex index. Offsets
// run along +x for top/bottom and +z (grid rows) for left/right, so two
// neighbors walk their shared border in the same order.
func (c *Chunk) borderIndex(side Side, t int) int {
	n := c.width
	switch side {
	case SideLeft:
		return t * n
	case SideRight:
		return t*n + n - 1
	case SideTop:
		return t
	default:
		return (n-1)*n + t
	}
}
