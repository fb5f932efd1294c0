package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/texture"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/formats"
	"github.com/Faultbox/midgard-terrain/pkg/grf"
)

// cmdImport converts a ground altitude table into a height image and a
// surface texture that terraintool can load.
func cmdImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	size := fs.Int("size", 257, "Output size in pixels per side (2^n+1)")
	archive := fs.String("grf", "", "Read the map from this GRF archive")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: terraintool import [-size N] [-grf archive.grf] <map.gat> <outdir>")
	}
	if !texture.IsPowerOfTwoPlusOne(*size) {
		return fmt.Errorf("size %d is not 2^n+1", *size)
	}

	gat, err := loadGAT(*archive, fs.Arg(0))
	if err != nil {
		return err
	}

	height, span, err := gat.HeightImage(*size)
	if err != nil {
		return err
	}

	outDir := fs.Arg(1)
	heightPath := filepath.Join(outDir, "heightmap.png")
	texturePath := filepath.Join(outDir, "texture.png")
	if err := writePNG(heightPath, height); err != nil {
		return err
	}
	if err := writePNG(texturePath, gat.SurfaceImage(*size)); err != nil {
		return err
	}

	divisor := gat.SuggestedDivisor(span, *size)
	lo, hi := gat.AltitudeRange()
	water := gat.WaterCells()
	logger.Named("import").Info("converted altitude table",
		zap.String("source", fs.Arg(0)),
		zap.Int("cells_x", gat.Width),
		zap.Int("cells_y", gat.Height),
		zap.Int("size", *size),
		zap.Float32("span", span),
		zap.Int("water_cells", water),
	)

	fmt.Printf("Source:     %s (GAT %s, %dx%d cells)\n", fs.Arg(0), gat.Version, gat.Width, gat.Height)
	fmt.Printf("Height map: %s\n", heightPath)
	fmt.Printf("Texture:    %s\n", texturePath)
	fmt.Printf("Altitude:   %.2f .. %.2f (span %.2f)\n", lo, hi, span)
	fmt.Printf("Water:      %d of %d cells\n", water, len(gat.Cells))
	fmt.Println()
	fmt.Printf("terraintool -heightmap %s -texture %s -divisor %d info\n", heightPath, texturePath, divisor)
	return nil
}

// cmdMaps lists the altitude tables in a GRF archive, optionally filtered
// by a base-name glob or substring.
func cmdMaps(args []string) error {
	fs := flag.NewFlagSet("maps", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N maps (0 = all)")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: terraintool maps [-n N] <archive.grf> [pattern]")
	}

	a, err := grf.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	defer a.Close()

	pattern := strings.ToLower(fs.Arg(1))
	for _, name := range matchMaps(a.List(), pattern, *limit) {
		fmt.Println(name)
	}
	return nil
}

// matchMaps keeps the .gat entries of names whose base name matches the
// glob pattern or whose path contains it.
func matchMaps(names []string, pattern string, limit int) []string {
	var out []string
	for _, name := range names {
		lower := strings.ToLower(strings.ReplaceAll(name, "\\", "/"))
		if path.Ext(lower) != ".gat" {
			continue
		}
		if pattern != "" {
			matched, _ := path.Match(pattern, path.Base(lower))
			if !matched && !strings.Contains(lower, pattern) {
				continue
			}
		}
		out = append(out, name)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// loadGAT parses a GAT from disk, or from inside a GRF archive when one is
// named.
func loadGAT(archive, path string) (*formats.GAT, error) {
	if archive == "" {
		return formats.ParseGATFile(path)
	}

	a, err := grf.Open(archive)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	data, err := a.Read(path)
	if err != nil {
		return nil, err
	}
	return formats.ParseGAT(data)
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
