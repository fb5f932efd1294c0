package terrain

import "github.com/go-gl/mathgl/mgl32"

// SelectLevel maps a camera distance to a detail level: the index of the
// first threshold strictly greater than distance. Distances past the last
// threshold get maxLevel, and the result never exceeds maxLevel.
func SelectLevel(distance float32, thresholds []float32, maxLevel int) int {
	for i, t := range thresholds {
		if t > distance {
			return min(i, maxLevel)
		}
	}
	return maxLevel
}

// selectLevels runs level selection for every active chunk and returns the
// handles of the chunks whose level changed.
func (t *Terrain) selectLevels(eye mgl32.Vec3, stats *FrameStats) []int {
	var changed []int
	for _, c := range t.chunks {
		if !c.Active {
			continue
		}
		stats.Visible++
		d := c.Anchor.Sub(eye).Len()
		if c.SetLevel(SelectLevel(d, t.thresholds, c.MaxLevel())) {
			changed = append(changed, c.Index)
		}
	}
	return changed
}
