package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// LevelMap renders a top-down image of the terrain with cellPx pixels per
// grid quad. Each chunk is filled with its level color and the quads of its
// current stride are outlined. Culled chunks are drawn dark gray, and
// vertices listed in cracks are painted CrackColor.
func LevelMap(terr *terrain.Terrain, cracks []terrain.Crack, cellPx int) *image.RGBA {
	cellPx = max(cellPx, 1)
	quads := terr.Grid().Size - 1
	img := image.NewRGBA(image.Rect(0, 0, quads*cellPx+1, quads*cellPx+1))

	span := terr.ChunkWidth() - 1
	for _, c := range terr.Chunks() {
		fill := toRGBA(LevelColor(c.Level(), c.MaxLevel()))
		if !c.Active {
			fill = color.RGBA{40, 40, 40, 255}
		}
		edge := color.RGBA{fill.R / 2, fill.G / 2, fill.B / 2, 255}

		x0, y0 := c.X*span*cellPx, c.Y*span*cellPx
		size := span * cellPx
		step := c.Stride() * cellPx
		for y := 0; y <= size; y++ {
			for x := 0; x <= size; x++ {
				px := fill
				if x%step == 0 || y%step == 0 {
					px = edge
				}
				img.SetRGBA(x0+x, y0+y, px)
			}
		}
	}

	mark := toRGBA(CrackColor)
	for _, cr := range cracks {
		c, err := terr.Chunk(cr.Chunk)
		if err != nil {
			continue
		}
		gx, gy := c.X*span, c.Y*span
		switch cr.Side {
		case terrain.SideRight:
			gx, gy = gx+span, gy+cr.Offset
		case terrain.SideBottom:
			gx, gy = gx+cr.Offset, gy+span
		case terrain.SideLeft:
			gy += cr.Offset
		case terrain.SideTop:
			gx += cr.Offset
		}
		img.SetRGBA(gx*cellPx, gy*cellPx, mark)
	}
	return img
}

func toRGBA(c mgl32.Vec3) color.RGBA {
	return color.RGBA{R: uint8(c[0] * 255), G: uint8(c[1] * 255), B: uint8(c[2] * 255), A: 255}
}

// SnapshotWriter saves debug images under timestamped names.
type SnapshotWriter struct {
	outputDir string
	prefix    string
}

// NewSnapshotWriter creates a snapshot writer.
func NewSnapshotWriter(outputDir, prefix string) *SnapshotWriter {
	return &SnapshotWriter{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// GenerateFilename generates a snapshot filename without saving.
func (sw *SnapshotWriter) GenerateFilename() string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sw.prefix, timestamp)
	if sw.outputDir != "" {
		filename = filepath.Join(sw.outputDir, filename)
	}
	return filename
}

// Save encodes img as PNG and returns the path written.
func (sw *SnapshotWriter) Save(img image.Image) (string, error) {
	// Create output directory if needed
	if sw.outputDir != "" {
		if err := os.MkdirAll(sw.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sw.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	return filename, nil
}
