package terrain

import (
	"fmt"
	"image"

	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
)

// Heightfield is a square grid of elevation samples plus the texture that
// will be draped over it. It is immutable once built.
type Heightfield struct {
	Size       int       // Samples per side (W)
	Samples    []float32 // W*W samples, row-major by z
	Divisor    int       // Sample value per world unit of height
	ChunkWidth int       // Vertices per chunk side (C)
	Texture    *image.RGBA
}

// LoadParams describes where a heightfield comes from.
type LoadParams struct {
	HeightMap     string
	Texture       string
	HeightDivisor int
	ChunkWidth    int
}

// LoadHeightfield decodes the height and texture images named in p.
func LoadHeightfield(p LoadParams) (*Heightfield, error) {
	height, err := texture.Open(p.HeightMap)
	if err != nil {
		return nil, fmt.Errorf("loading height map: %w", err)
	}
	tex, err := texture.Open(p.Texture)
	if err != nil {
		return nil, fmt.Errorf("loading texture: %w", err)
	}
	return NewHeightfield(height, tex, p.HeightDivisor, p.ChunkWidth)
}

// NewHeightfield validates the images and extracts the height samples from
// the red channel of the height image.
func NewHeightfield(height, tex image.Image, divisor, chunkWidth int) (*Heightfield, error) {
	if divisor <= 0 {
		return nil, configErrorf(ErrDivisor, "divisor %d", divisor)
	}
	if !texture.IsPowerOfTwoPlusOne(chunkWidth) {
		return nil, configErrorf(ErrChunkWidth, "chunk width %d", chunkWidth)
	}

	hb := height.Bounds()
	w, h := hb.Dx(), hb.Dy()
	if w != h {
		return nil, configErrorf(ErrNotSquare, "height image %dx%d", w, h)
	}
	if w < chunkWidth {
		return nil, configErrorf(ErrTooSmall, "height image %d, chunk width %d", w, chunkWidth)
	}
	if (w-1)%(chunkWidth-1) != 0 {
		return nil, configErrorf(ErrMisaligned, "height image %d, chunk width %d", w, chunkWidth)
	}

	tb := tex.Bounds()
	if !texture.IsPowerOfTwoPlusOne(tb.Dx()) || !texture.IsPowerOfTwoPlusOne(tb.Dy()) {
		return nil, configErrorf(ErrTextureSize, "texture %dx%d", tb.Dx(), tb.Dy())
	}

	return &Heightfield{
		Size:       w,
		Samples:    texture.RedChannel(height),
		Divisor:    divisor,
		ChunkWidth: chunkWidth,
		Texture:    texture.ToRGBA(tex),
	}, nil
}

// Sample returns the raw sample at grid cell (x, z).
func (hf *Heightfield) Sample(x, z int) float32 {
	return hf.Samples[z*hf.Size+x]
}

// ChunksPerSide returns k, the number of chunks along each axis.
func (hf *Heightfield) ChunksPerSide() int {
	return (hf.Size - 1) / (hf.ChunkWidth - 1)
}
