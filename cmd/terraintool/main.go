// terraintool is a CLI utility for building, inspecting and benchmarking
// chunked LOD terrain.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/picking"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/export"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

func main() {
	// Global flags come before the command
	if err := config.ParseFlags(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	logOpts := logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Console: true}
	if cfg.Logging.LogFile != "" {
		logOpts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(logOpts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	closer.Bind(logger.Sync)
	defer closer.Close()

	switch command {
	case "info":
		err = cmdInfo(cfg)
	case "query", "q":
		err = cmdQuery(cfg, args)
	case "bench":
		err = cmdBench(cfg, args)
	case "maps":
		err = cmdMaps(args)
	case "import":
		err = cmdImport(args)
	case "pick":
		err = cmdPick(cfg, args)
	case "export", "x":
		err = cmdExport(cfg, args)
	case "config":
		err = cmdConfig(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		closer.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closer.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terraintool - chunked LOD terrain utility

Usage:
  terraintool [flags] <command> [options]

Commands:
  info                       Show heightfield and chunk layout
  query <x> <z> [<x> <z>...] Ground height and normal at world positions
  bench [-frames N] [-walk]  Fly a camera over the terrain and report LOD stats
  maps <archive.grf> [glob]  List the altitude tables in a GRF archive
  import <map.gat> <outdir>  Convert an altitude table to height and texture images
                             (-grf archive.grf reads the map from an archive)
  pick [-w W -h H] <sx> <sy> Cast a ray from a screen pixel of the configured camera
  export [-o file.glb]       Write the current LOD state as binary glTF
  config [path]              Print the effective config or save it to path

Flags:
  -config <file>      Config file (default: ./terrain.yaml, ./config.yaml, user config dir)
  -heightmap <file>   Height image
  -texture <file>     Texture image
  -chunk-width <n>    Vertices per chunk side (2^n+1)
  -divisor <n>        Height divisor
  -no-cull            Disable frustum culling
  -debug              Debug logging

Examples:
  terraintool -heightmap island.tga -texture island.png info
  terraintool query 12.5 -40
  terraintool -debug bench -frames 300
  terraintool pick 640 360
  terraintool import -size 513 -grf data.grf data/prontera.gat maps/prontera
  terraintool export -o out/island.glb -grid`)
}

// buildTerrain loads the configured heightfield and builds a terrain from it.
func buildTerrain(cfg *config.Config) (*terrain.Terrain, error) {
	shading, err := terrain.ParseShadingMode(cfg.Terrain.Shading)
	if err != nil {
		return nil, err
	}

	hf, err := terrain.LoadHeightfield(terrain.LoadParams{
		HeightMap:     cfg.Terrain.HeightMap,
		Texture:       cfg.Terrain.Texture,
		HeightDivisor: cfg.Terrain.HeightDivisor,
		ChunkWidth:    cfg.Terrain.ChunkWidth,
	})
	if err != nil {
		return nil, err
	}

	return terrain.New(hf, terrain.Options{
		Thresholds: cfg.Terrain.LODDistances,
		Shading:    shading,
		Logger:     logger.Named("terrain"),
	})
}

// lensFrom converts camera config angles from degrees.
func lensFrom(c config.CameraConfig) camera.Lens {
	return camera.Lens{
		FOV:    mgl32.DegToRad(c.FOV),
		Aspect: c.Aspect,
		Near:   c.Near,
		Far:    c.Far,
	}
}

// orbitFrom builds the configured orbit camera centered on the terrain's
// ground at the origin. A zero distance frames the whole terrain instead.
func orbitFrom(c config.CameraConfig, terr *terrain.Terrain) *camera.OrbitCamera {
	cam := camera.NewOrbitCamera()
	cam.Lens = lensFrom(c)
	if c.Distance > 0 {
		cam.Center = mgl32.Vec3{0, terr.FindGroundPosition(0, 0), 0}
		cam.Distance = c.Distance
	} else {
		cam.FitToBounds(terrainBounds(terr))
	}
	cam.Pitch = mgl32.DegToRad(c.Pitch)
	cam.Yaw = mgl32.DegToRad(c.Yaw)
	return cam
}

// terrainBounds returns the corners of the box around the vertex grid.
func terrainBounds(terr *terrain.Terrain) (lo, hi mgl32.Vec3) {
	verts := terr.Grid().Vertices
	lo, hi = verts[0].Position, verts[0].Position
	for _, v := range verts[1:] {
		for axis := 0; axis < 3; axis++ {
			lo[axis] = min(lo[axis], v.Position[axis])
			hi[axis] = max(hi[axis], v.Position[axis])
		}
	}
	return lo, hi
}

func cmdInfo(cfg *config.Config) error {
	terr, err := buildTerrain(cfg)
	if err != nil {
		return err
	}

	grid := terr.Grid()
	lo, hi := terrainBounds(terr)

	c := terr.Chunks()[0]
	fmt.Printf("Height map: %s\n", cfg.Terrain.HeightMap)
	fmt.Printf("Texture:    %s\n", cfg.Terrain.Texture)
	fmt.Printf("Grid:       %dx%d (divisor %d)\n", grid.Size, grid.Size, cfg.Terrain.HeightDivisor)
	fmt.Printf("Heights:    %.2f .. %.2f\n", lo.Y(), hi.Y())
	fmt.Printf("Chunks:     %dx%d of width %d\n", terr.ChunksPerSide(), terr.ChunksPerSide(), terr.ChunkWidth())
	fmt.Printf("Shading:    %s\n", terr.Shading())
	fmt.Printf("Thresholds: %v\n", terr.DetailThresholds())
	fmt.Println()
	fmt.Println("Levels:")
	for level := 0; level < c.MaxLevel() + 1; level++ {
		fmt.Printf("  %d  stride %-4d %6d triangles/chunk\n",
			level, terrain.StrideOf(level), ladderTriangles(terr.ChunkWidth(), level))
	}
	return nil
}

// ladderTriangles returns the triangle count of one chunk at a level.
func ladderTriangles(width, level int) int {
	quads := (width - 1) / terrain.StrideOf(level)
	return quads * quads * 2
}

func cmdQuery(cfg *config.Config, args []string) error {
	if len(args) < 2 || len(args)%2 != 0 {
		return fmt.Errorf("usage: terraintool query <x> <z> [<x> <z>...]")
	}

	coords := make([]float32, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", a, err)
		}
		coords[i] = float32(v)
	}

	terr, err := buildTerrain(cfg)
	if err != nil {
		return err
	}

	for i := 0; i < len(coords); i += 2 {
		x, z := coords[i], coords[i+1]
		h := terr.FindGroundPosition(x, z)
		n := terr.FindGroundNormal(x, z)
		fmt.Printf("(%8.2f, %8.2f)  height %8.3f  normal (%.3f, %.3f, %.3f)\n",
			x, z, h, n.X(), n.Y(), n.Z())
	}
	return nil
}

func cmdPick(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	width := fs.Float64("w", 1280, "Viewport width in pixels")
	height := fs.Float64("h", 720, "Viewport height in pixels")
	fs.Parse(args)
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: terraintool pick [-w W -h H] <sx> <sy>")
	}

	var screen [2]float32
	for i, a := range fs.Args() {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return fmt.Errorf("invalid screen coordinate %q: %w", a, err)
		}
		screen[i] = float32(v)
	}

	terr, err := buildTerrain(cfg)
	if err != nil {
		return err
	}

	cam := orbitFrom(cfg.Camera, terr)
	cam.Aspect = float32(*width / *height)
	terr.Cull(cam.ViewProjection())
	terr.Update(cam.Position())

	ray := picking.ScreenToRay(screen[0], screen[1], float32(*width), float32(*height), cam.ViewProjection().Inv())
	hit, ok := picking.PickGround(terr, ray)
	if !ok {
		fmt.Println("No ground under that pixel")
		return nil
	}

	c, err := terr.Chunk(hit.Chunk)
	if err != nil {
		return err
	}
	fmt.Printf("Hit:      (%.3f, %.3f, %.3f)\n", hit.Point.X(), hit.Point.Y(), hit.Point.Z())
	fmt.Printf("Distance: %.3f\n", hit.Distance)
	fmt.Printf("Chunk:    %d (tile %d,%d) level %d, active %v\n", c.Index, c.X, c.Y, c.Level(), c.Active)
	return nil
}

func cmdExport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("o", cfg.Export.Output, "Output .glb path")
	grid := fs.Bool("grid", cfg.Export.DebugGrid, "Include chunk outlines")
	texture := fs.Bool("texture", true, "Embed the terrain texture")
	fs.Parse(args)

	terr, err := buildTerrain(cfg)
	if err != nil {
		return err
	}

	// Export what the configured camera would see.
	cam := orbitFrom(cfg.Camera, terr)
	if cfg.Camera.Cull {
		terr.Cull(cam.ViewProjection())
	}
	terr.Update(cam.Position())

	return export.WriteGLB(*output, terr, export.Options{
		DebugGrid: *grid,
		Texture:   *texture,
		Logger:    logger.Named("export"),
	})
}

func cmdConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("Saved config to %s\n", args[0])
		return nil
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
