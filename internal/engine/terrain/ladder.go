package terrain

import "math/bits"

// LevelCount returns how many detail levels a chunk of the given width has:
// one per power-of-two stride from 1 up to width-1.
func LevelCount(chunkWidth int) int {
	return bits.TrailingZeros(uint(chunkWidth-1)) + 1
}

// StrideOf returns the vertex stride used at a detail level.
func StrideOf(level int) int {
	return 1 << level
}

// buildLadder precomputes the triangle index lists for every detail level of
// a chunkWidth x chunkWidth vertex block. Level 0 uses every vertex; the last
// level covers the block with two triangles. The lists are shared by all
// chunks of the same width.
func buildLadder(chunkWidth int) [][]uint32 {
	n := chunkWidth
	levels := LevelCount(n)
	ladder := make([][]uint32, levels)

	for level := 0; level < levels; level++ {
		s := StrideOf(level)
		quads := (n - 1) / s
		indices := make([]uint32, 0, quads*quads*6)
		for y := 0; y < n-1; y += s {
			for x := 0; x < n-1; x += s {
				a := uint32(y*n + x)
				b := uint32(y*n + x + s)
				c := uint32((y+s)*n + x)
				d := uint32((y+s)*n + x + s)
				indices = append(indices, a, b, c, b, d, c)
			}
		}
		ladder[level] = indices
	}
	return ladder
}
