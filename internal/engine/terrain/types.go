// Package terrain builds chunked, level-of-detail heightfield terrain meshes.
//
// A Terrain is built once from a Heightfield. Every frame the caller may cull
// chunks against a view frustum, then calls Update with the eye position: each
// visible chunk picks a detail level from its distance, chunks that changed
// level have their borders re-stitched against their neighbors, and the result
// is published to the display buffers the renderer reads.
package terrain

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is a terrain vertex as consumed by the renderer.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
	Color    mgl32.Vec4
}

// Side names one of the four borders of a chunk.
type Side int

// Chunk sides, in neighbor slot order.
const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// Sides lists every side in neighbor slot order.
var Sides = [4]Side{SideLeft, SideRight, SideTop, SideBottom}

// Opposite returns the side a neighbor sees the shared border from.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	case SideTop:
		return SideBottom
	default:
		return SideTop
	}
}

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// NoNeighbor marks a chunk side on the terrain boundary.
const NoNeighbor = -1

// ShadingMode is forwarded to the renderer untouched.
type ShadingMode int

// Shading modes.
const (
	ShadingSmooth ShadingMode = iota
	ShadingFlat
)

// ParseShadingMode converts a config string to a ShadingMode.
func ParseShadingMode(s string) (ShadingMode, error) {
	switch s {
	case "", "smooth":
		return ShadingSmooth, nil
	case "flat":
		return ShadingFlat, nil
	default:
		return ShadingSmooth, fmt.Errorf("unknown shading mode %q", s)
	}
}

func (m ShadingMode) String() string {
	if m == ShadingFlat {
		return "flat"
	}
	return "smooth"
}

// FrameStats summarizes one Update call.
type FrameStats struct {
	Visible int   // Active chunks considered for level selection
	Changed int   // Chunks whose level changed this frame
	Borders int   // Border jobs processed by the stitcher
	Levels  []int // Chunk count per detail level
}

// Crack is a shared border vertex whose display position differs between
// the two chunks that own it.
type Crack struct {
	Chunk    int
	Neighbor int
	Side     Side
	Offset   int // Position along the border
	A, B     mgl32.Vec3
}
