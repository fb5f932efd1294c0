package terrain

// partition slices the grid into k*k chunks of chunkWidth vertices per side.
// Adjacent chunks each carry their own copy of the shared border row/column.
// Chunks are stored row-major, so the handle of tile (cx, cy) is cy*k+cx.
func partition(grid *VertexGrid, chunkWidth int) []*Chunk {
	step := chunkWidth - 1
	k := (grid.Size - 1) / step
	ladder := buildLadder(chunkWidth)

	chunks := make([]*Chunk, 0, k*k)
	for cy := 0; cy < k; cy++ {
		for cx := 0; cx < k; cx++ {
			c := newChunk(grid, cx*step, cy*step, chunkWidth, ladder)
			c.Index = cy*k + cx
			c.X, c.Y = cx, cy
			c.Neighbors = neighborsOf(cx, cy, k)
			chunks = append(chunks, c)
		}
	}
	return chunks
}

// neighborsOf returns the handles of the tiles around (cx, cy) in Side order.
func neighborsOf(cx, cy, k int) [4]int {
	n := [4]int{NoNeighbor, NoNeighbor, NoNeighbor, NoNeighbor}
	if cx > 0 {
		n[SideLeft] = cy*k + cx - 1
	}
	if cx < k-1 {
		n[SideRight] = cy*k + cx + 1
	}
	if cy > 0 {
		n[SideTop] = (cy-1)*k + cx
	}
	if cy < k-1 {
		n[SideBottom] = (cy+1)*k + cx
	}
	return n
}
