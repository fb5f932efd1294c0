// Package debug provides debug visualization utilities for terrain chunks.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// LineVertex is one endpoint of a debug line segment.
type LineVertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
}

// CrackColor marks border vertices that do not match their neighbor.
var CrackColor = mgl32.Vec3{1, 0, 1}

// LevelColor maps a detail level to a color running from green at full
// detail to red at the coarsest level.
func LevelColor(level, maxLevel int) mgl32.Vec3 {
	if maxLevel <= 0 {
		return mgl32.Vec3{0, 0.8, 0}
	}
	t := mgl32.Clamp(float32(level)/float32(maxLevel), 0, 1)
	return mgl32.Vec3{t, 0.8 * (1 - t), 0}
}

// ChunkGrid generates line segments outlining every active chunk, draped on
// the chunk's display vertices at its current stride and lifted by lift.
// Each chunk is colored by its level, so stitched borders show where a fine
// chunk meets a coarse one. Returns two vertices per segment.
func ChunkGrid(terr *terrain.Terrain, lift float32) []LineVertex {
	up := mgl32.Vec3{0, lift, 0}

	var vertices []LineVertex
	for _, c := range terr.ActiveChunks() {
		color := LevelColor(c.Level(), c.MaxLevel())
		last := c.Width() - 1
		for _, side := range terrain.Sides {
			for t := 0; t < last; t += c.Stride() {
				a := c.BorderVertex(side, t).Position.Add(up)
				b := c.BorderVertex(side, t+c.Stride()).Position.Add(up)
				vertices = append(vertices, LineVertex{a, color}, LineVertex{b, color})
			}
		}
	}
	return vertices
}

// CrackMarkers generates a vertical segment of the given height at every
// crack, from the lower of the two mismatched positions.
func CrackMarkers(cracks []terrain.Crack, height float32) []LineVertex {
	vertices := make([]LineVertex, 0, len(cracks)*2)
	for _, c := range cracks {
		base := c.A
		if c.B.Y() < base.Y() {
			base = c.B
		}
		vertices = append(vertices,
			LineVertex{base, CrackColor},
			LineVertex{base.Add(mgl32.Vec3{0, height, 0}), CrackColor},
		)
	}
	return vertices
}
