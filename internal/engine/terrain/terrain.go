package terrain

import (
	"fmt"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultThresholds is used when Options.Thresholds is empty.
var DefaultThresholds = []float32{32, 64, 128, 256}

// Options configures a Terrain.
type Options struct {
	Thresholds []float32   // Ascending camera distances; index i selects level i
	Shading    ShadingMode // Forwarded to the renderer
	Logger     *zap.Logger // Defaults to a no-op logger
}

// Terrain owns the vertex grid and the chunk arena built from one heightfield.
type Terrain struct {
	grid       *VertexGrid
	chunks     []*Chunk
	perSide    int
	chunkWidth int
	thresholds []float32
	texture    *image.RGBA
	shading    ShadingMode
	log        *zap.Logger
}

// New builds the vertex grid, partitions it into chunks and precomputes every
// chunk's detail ladder. All chunks start at full detail.
func New(hf *Heightfield, opts Options) (*Terrain, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	thresholds := opts.Thresholds
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	if err := checkThresholds(thresholds); err != nil {
		return nil, err
	}

	start := time.Now()
	grid := BuildVertexGrid(hf)
	t := &Terrain{
		grid:       grid,
		chunks:     partition(grid, hf.ChunkWidth),
		perSide:    hf.ChunksPerSide(),
		chunkWidth: hf.ChunkWidth,
		thresholds: append([]float32(nil), thresholds...),
		texture:    hf.Texture,
		shading:    opts.Shading,
		log:        log,
	}

	log.Info("terrain built",
		zap.Int("size", hf.Size),
		zap.Int("chunk_width", hf.ChunkWidth),
		zap.Int("chunks", len(t.chunks)),
		zap.Int("levels", LevelCount(hf.ChunkWidth)),
		zap.Stringer("shading", t.shading),
		zap.Duration("elapsed", time.Since(start)),
	)
	return t, nil
}

func checkThresholds(thresholds []float32) error {
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return configErrorf(ErrThresholds, "threshold %d (%g) <= threshold %d (%g)",
				i, thresholds[i], i-1, thresholds[i-1])
		}
	}
	return nil
}

// SetDetailThresholds replaces the distance thresholds. They take effect on
// the next Update. An empty slice restores DefaultThresholds, as in New.
func (t *Terrain) SetDetailThresholds(thresholds []float32) error {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	if err := checkThresholds(thresholds); err != nil {
		return err
	}
	t.thresholds = append(t.thresholds[:0:0], thresholds...)
	return nil
}

// DetailThresholds returns a copy of the current thresholds.
func (t *Terrain) DetailThresholds() []float32 {
	return append([]float32(nil), t.thresholds...)
}

// Update runs one frame of level selection for the given eye position,
// re-stitches the borders of every chunk that changed level, and publishes
// the result to the display buffers. Display buffers must not be read while
// Update runs.
func (t *Terrain) Update(eye mgl32.Vec3) FrameStats {
	stats := FrameStats{Levels: make([]int, LevelCount(t.chunkWidth))}

	changed := t.selectLevels(eye, &stats)
	stats.Changed = len(changed)
	if len(changed) > 0 {
		stats.Borders = t.stitch(changed)
		t.publish()
	}

	for _, c := range t.chunks {
		stats.Levels[c.Level()]++
	}

	if stats.Changed > 0 {
		t.log.Debug("detail levels changed",
			zap.Int("changed", stats.Changed),
			zap.Int("borders", stats.Borders),
			zap.Ints("levels", stats.Levels),
		)
	}
	return stats
}

// SetLevel forces one chunk to a detail level, stitches its borders and
// publishes the result. It reports whether the level changed.
func (t *Terrain) SetLevel(handle, level int) (bool, error) {
	c, err := t.Chunk(handle)
	if err != nil {
		return false, err
	}
	if !c.SetLevel(level) {
		return false, nil
	}
	t.stitch([]int{handle})
	t.publish()
	return true, nil
}

// Chunk returns the chunk with the given handle.
func (t *Terrain) Chunk(handle int) (*Chunk, error) {
	if handle < 0 || handle >= len(t.chunks) {
		return nil, fmt.Errorf("chunk handle %d out of range [0, %d)", handle, len(t.chunks))
	}
	return t.chunks[handle], nil
}

// ChunkAt returns the handle of tile (cx, cy), or NoNeighbor.
func (t *Terrain) ChunkAt(cx, cy int) int {
	if cx < 0 || cy < 0 || cx >= t.perSide || cy >= t.perSide {
		return NoNeighbor
	}
	return cy*t.perSide + cx
}

// Chunks returns every chunk in handle order.
func (t *Terrain) Chunks() []*Chunk { return t.chunks }

// ActiveChunks returns the chunks that survived the last Cull.
func (t *Terrain) ActiveChunks() []*Chunk {
	active := make([]*Chunk, 0, len(t.chunks))
	for _, c := range t.chunks {
		if c.Active {
			active = append(active, c)
		}
	}
	return active
}

// ChunksPerSide returns the number of chunks along each axis.
func (t *Terrain) ChunksPerSide() int { return t.perSide }

// ChunkWidth returns the number of vertices per chunk side.
func (t *Terrain) ChunkWidth() int { return t.chunkWidth }

// Grid returns the full-resolution vertex grid.
func (t *Terrain) Grid() *VertexGrid { return t.grid }

// Texture returns the texture image draped over the terrain.
func (t *Terrain) Texture() *image.RGBA { return t.texture }

// Shading returns the shading mode the terrain was built with.
func (t *Terrain) Shading() ShadingMode { return t.shading }

// FindGroundPosition returns the terrain height at world (x, z) from the
// full-resolution grid, independent of any chunk's level. Outside the
// terrain it returns GroundSentinel.
func (t *Terrain) FindGroundPosition(x, z float32) float32 {
	return t.grid.HeightAt(x, z)
}

// FindGroundNormal returns the ground normal at world (x, z), or Up outside
// the terrain.
func (t *Terrain) FindGroundNormal(x, z float32) mgl32.Vec3 {
	return t.grid.NormalAt(x, z)
}

// Cracks lists shared border vertices whose display positions differ by more
// than eps between the two owning chunks. An empty result means the terrain
// is watertight.
func (t *Terrain) Cracks(eps float32) []Crack {
	var cracks []Crack
	for _, c := range t.chunks {
		for _, side := range [2]Side{SideRight, SideBottom} {
			ni := c.Neighbors[side]
			if ni == NoNeighbor {
				continue
			}
			n := t.chunks[ni]
			for k := 0; k < c.width; k++ {
				a := c.BorderVertex(side, k).Position
				b := n.BorderVertex(side.Opposite(), k).Position
				if !nearlyEqual(a, b, eps) {
					cracks = append(cracks, Crack{
						Chunk: c.Index, Neighbor: ni, Side: side, Offset: k, A: a, B: b,
					})
				}
			}
		}
	}
	return cracks
}

func nearlyEqual(a, b mgl32.Vec3, eps float32) bool {
	d := a.Sub(b)
	return mgl32.Abs(d[0]) <= eps && mgl32.Abs(d[1]) <= eps && mgl32.Abs(d[2]) <= eps
}
