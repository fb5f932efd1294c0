package main

import (
	"flag"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/camera"
	"github.com/Faultbox/midgard-terrain/internal/engine/debug"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// crackEpsilon is the position tolerance for the per-frame crack audit.
const crackEpsilon = 1e-4

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inOutSine":  ease.InOutSine,
	"outBounce":  ease.OutBounce,
}

// easingByName looks up an easing curve, case-insensitively.
func easingByName(name string) (ease.TweenFunc, error) {
	for k, fn := range easings {
		if strings.EqualFold(k, name) {
			return fn, nil
		}
	}
	names := make([]string, 0, len(easings))
	for k := range easings {
		names = append(names, k)
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown easing %q (have %s)", name, strings.Join(names, ", "))
}

// benchResult aggregates FrameStats over a run.
type benchResult struct {
	Frames        int
	Changed       int
	Borders       int
	CrackFrames   int // Frames where the crack audit found mismatches
	MaxCracks     int
	Visible       int // Summed over frames
	Triangles     int // Summed over frames, active chunks only
	UpdateTime    time.Duration
	MaxUpdateTime time.Duration
	LastCracks    []terrain.Crack
}

// camPose is where a bench frame looks from.
type camPose struct {
	eye      mgl32.Vec3
	viewProj mgl32.Mat4
}

// poseFunc advances the camera by dt seconds and returns the new pose.
type poseFunc func(dt float32) camPose

// orbitPoses dollies an orbit camera from StartDistance to EndDistance on the
// configured easing while it circles the terrain Turns times.
func orbitPoses(cfg *config.Config, terr *terrain.Terrain) (poseFunc, error) {
	curve, err := easingByName(cfg.Bench.Ease)
	if err != nil {
		return nil, err
	}

	duration := float32(cfg.Bench.FrameTime.Seconds()) * float32(cfg.Bench.Frames)
	dolly := gween.New(cfg.Bench.StartDistance, cfg.Bench.EndDistance, duration, curve)
	yaw0 := mgl32.DegToRad(cfg.Camera.Yaw)
	spin := gween.New(yaw0, yaw0+cfg.Bench.Turns*2*math.Pi, duration, ease.Linear)

	cam := orbitFrom(cfg.Camera, terr)
	return func(dt float32) camPose {
		cam.Distance, _ = dolly.Update(dt)
		cam.Yaw, _ = spin.Update(dt)
		return camPose{eye: cam.Position(), viewProj: cam.ViewProjection()}
	}, nil
}

// walkPoses moves a walker across the terrain diagonal on the ground, with a
// follow camera trailing it.
func walkPoses(cfg *config.Config, terr *terrain.Terrain) poseFunc {
	half := float32(terr.Grid().Size-1) / 2
	from := mgl32.Vec2{-half, half}
	to := mgl32.Vec2{half, -half}
	dir := to.Sub(from).Normalize()
	length := to.Sub(from).Len()

	cam := camera.NewFollowCamera()
	cam.Lens = lensFrom(cfg.Camera)
	cam.Yaw = float32(math.Atan2(float64(dir.X()), float64(dir.Y())))

	travelled := float32(0)
	return func(dt float32) camPose {
		travelled = float32(math.Mod(float64(travelled+cfg.Bench.WalkSpeed*dt), float64(length)))
		p := from.Add(dir.Mul(travelled))
		target := mgl32.Vec3{p.X(), terr.FindGroundPosition(p.X(), p.Y()), p.Y()}
		return camPose{eye: cam.Position(target), viewProj: cam.ViewProjection(target)}
	}
}

// runBench steps the terrain through frames camera poses, culling when
// enabled, and audits every frame for cracks.
func runBench(terr *terrain.Terrain, frames int, frameTime time.Duration, cull bool, next poseFunc, log *zap.Logger) benchResult {
	res := benchResult{Frames: frames}
	dt := float32(frameTime.Seconds())

	for frame := 0; frame < frames; frame++ {
		pose := next(dt)
		if cull {
			terr.Cull(pose.viewProj)
		} else {
			terr.ActivateAll()
		}

		start := time.Now()
		stats := terr.Update(pose.eye)
		elapsed := time.Since(start)

		res.UpdateTime += elapsed
		res.MaxUpdateTime = max(res.MaxUpdateTime, elapsed)
		res.Changed += stats.Changed
		res.Borders += stats.Borders
		res.Visible += stats.Visible
		for _, c := range terr.ActiveChunks() {
			res.Triangles += c.TriangleCount()
		}

		cracks := terr.Cracks(crackEpsilon)
		if len(cracks) > 0 {
			res.CrackFrames++
			res.MaxCracks = max(res.MaxCracks, len(cracks))
			log.Warn("cracks detected", zap.Int("frame", frame), zap.Int("count", len(cracks)))
		}
		res.LastCracks = cracks

		log.Debug("frame",
			zap.Int("frame", frame),
			zap.Int("visible", stats.Visible),
			zap.Int("changed", stats.Changed),
			zap.Int("borders", stats.Borders),
			zap.Duration("update", elapsed),
		)
	}
	return res
}

func cmdBench(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	frames := fs.Int("frames", cfg.Bench.Frames, "Number of frames")
	walk := fs.Bool("walk", cfg.Bench.Mode == "walk", "Walk across the terrain instead of orbiting")
	snapshots := fs.String("snapshot", cfg.Bench.SnapshotDir, "Directory for the final level map")
	fs.Parse(args)

	terr, err := buildTerrain(cfg)
	if err != nil {
		return err
	}
	log := logger.Named("bench")

	var next poseFunc
	if *walk {
		next = walkPoses(cfg, terr)
	} else {
		bcfg := *cfg
		bcfg.Bench.Frames = *frames
		if next, err = orbitPoses(&bcfg, terr); err != nil {
			return err
		}
	}

	res := runBench(terr, *frames, cfg.Bench.FrameTime, cfg.Camera.Cull, next, log)
	printBench(res, terr)

	if *snapshots != "" {
		img := debug.LevelMap(terr, res.LastCracks, 4)
		path, err := debug.NewSnapshotWriter(*snapshots, "levels").Save(img)
		if err != nil {
			return fmt.Errorf("saving level map: %w", err)
		}
		fmt.Printf("Level map:  %s\n", path)
	}

	if res.CrackFrames > 0 {
		return fmt.Errorf("cracks found in %d of %d frames", res.CrackFrames, res.Frames)
	}
	return nil
}

func printBench(res benchResult, terr *terrain.Terrain) {
	frames := max(res.Frames, 1)
	fmt.Printf("Frames:     %d\n", res.Frames)
	fmt.Printf("Chunks:     %d (avg %.1f visible)\n", len(terr.Chunks()), float64(res.Visible)/float64(frames))
	fmt.Printf("Triangles:  avg %.0f per frame\n", float64(res.Triangles)/float64(frames))
	fmt.Printf("Changes:    %d level changes, %d borders stitched\n", res.Changed, res.Borders)
	fmt.Printf("Update:     avg %v, max %v\n", res.UpdateTime/time.Duration(frames), res.MaxUpdateTime)
	fmt.Printf("Cracks:     %d frames (max %d)\n", res.CrackFrames, res.MaxCracks)

	counts := make([]int, terr.Chunks()[0].MaxLevel()+1)
	for _, c := range terr.Chunks() {
		counts[c.Level()]++
	}
	fmt.Println("Final levels:")
	for level, n := range counts {
		fmt.Printf("  %d  %d chunks\n", level, n)
	}
}
