package terrain

// border identifies a shared edge by the chunk on its left or top side and
// that chunk's right or bottom side, so both owners map to the same key.
type border struct {
	chunk int
	side  Side
}

// borderOf returns the canonical key of the border on the given side of a
// chunk, and false when that side has no neighbor.
func (t *Terrain) borderOf(chunk int, side Side) (border, bool) {
	n := t.chunks[chunk].Neighbors[side]
	if n == NoNeighbor {
		return border{}, false
	}
	if side == SideLeft || side == SideTop {
		return border{chunk: n, side: side.Opposite()}, true
	}
	return border{chunk: chunk, side: side}, true
}

// stitch re-aligns every border touching a changed chunk. Each border is
// queued once no matter how many of its owners changed. Because corner
// vertices sit on every stride, no job can disturb another border, so one pass
// over the queue reaches the fixed point. It returns the number of borders
// processed.
func (t *Terrain) stitch(changed []int) int {
	queued := make(map[border]bool)
	var queue []border
	for _, ci := range changed {
		for _, side := range Sides {
			b, ok := t.borderOf(ci, side)
			if !ok || queued[b] {
				continue
			}
			queued[b] = true
			queue = append(queue, b)
		}
	}

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		t.stitchBorder(b)
	}
	return len(queued)
}

// stitchBorder recovers both sides of a border from backup and aligns them
// to the coarser of the two current strides.
func (t *Terrain) stitchBorder(b border) {
	a := t.chunks[b.chunk]
	n := t.chunks[a.Neighbors[b.side]]
	opposite := b.side.Opposite()

	a.Recover(b.side)
	n.Recover(opposite)

	sa, sn := a.Stride(), n.Stride()
	a.Align(b.side, sn)
	n.Align(opposite, sa)
}

// publish copies every changed working buffer to its display buffer.
func (t *Terrain) publish() {
	for _, c := range t.chunks {
		c.Publish()
	}
}
