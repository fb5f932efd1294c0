package main

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/config"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

func benchTerrain(t *testing.T) *terrain.Terrain {
	t.Helper()
	height := image.NewGray(image.Rect(0, 0, 33, 33))
	for z := 0; z < 33; z++ {
		for x := 0; x < 33; x++ {
			height.Pix[z*33+x] = uint8((x*37 + z*91 + x*z*13) % 251)
		}
	}
	tex := image.NewRGBA(image.Rect(0, 0, 33, 33))

	hf, err := terrain.NewHeightfield(height, tex, 8, 9)
	if err != nil {
		t.Fatalf("NewHeightfield failed: %v", err)
	}
	terr, err := terrain.New(hf, terrain.Options{Thresholds: []float32{8, 16, 24}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return terr
}

func benchConfig() *config.Config {
	cfg := config.Default()
	cfg.Bench.Frames = 60
	cfg.Bench.StartDistance = 60
	cfg.Bench.EndDistance = 4
	cfg.Camera.Distance = 60
	return cfg
}

func TestRunBenchOrbit(t *testing.T) {
	terr := benchTerrain(t)
	cfg := benchConfig()

	next, err := orbitPoses(cfg, terr)
	if err != nil {
		t.Fatalf("orbitPoses failed: %v", err)
	}
	res := runBench(terr, cfg.Bench.Frames, cfg.Bench.FrameTime, true, next, zap.NewNop())

	if res.Frames != 60 {
		t.Errorf("expected 60 frames, got %d", res.Frames)
	}
	if res.CrackFrames != 0 {
		t.Errorf("expected no cracks, found them in %d frames", res.CrackFrames)
	}
	if res.Changed == 0 || res.Borders == 0 {
		t.Errorf("expected level changes during the dolly, got %d changes and %d borders", res.Changed, res.Borders)
	}
	if res.Visible == 0 || res.Triangles == 0 {
		t.Error("expected visible chunks")
	}
}

func TestRunBenchWalk(t *testing.T) {
	terr := benchTerrain(t)
	cfg := benchConfig()
	cfg.Bench.WalkSpeed = 20

	res := runBench(terr, 40, 50*time.Millisecond, false, walkPoses(cfg, terr), zap.NewNop())

	if res.CrackFrames != 0 {
		t.Errorf("expected no cracks, found them in %d frames", res.CrackFrames)
	}
	if res.Visible != 40*16 {
		t.Errorf("expected every chunk visible without culling, got %d", res.Visible)
	}
	if res.Changed == 0 {
		t.Error("expected level changes while walking")
	}
}

func TestEasingByName(t *testing.T) {
	for _, name := range []string{"linear", "inOutQuad", "INOUTQUAD", "outBounce"} {
		if _, err := easingByName(name); err != nil {
			t.Errorf("easingByName(%q) failed: %v", name, err)
		}
	}
	if _, err := easingByName("wobble"); err == nil {
		t.Error("expected error for unknown easing")
	}

	cfg := benchConfig()
	cfg.Bench.Ease = "wobble"
	if _, err := orbitPoses(cfg, benchTerrain(t)); err == nil {
		t.Error("expected orbitPoses to reject unknown easing")
	}
}

func TestLadderTriangles(t *testing.T) {
	tests := []struct {
		width, level, want int
	}{
		{5, 0, 32},
		{5, 1, 8},
		{5, 2, 2},
		{17, 0, 512},
		{17, 4, 2},
	}
	for _, tt := range tests {
		if got := ladderTriangles(tt.width, tt.level); got != tt.want {
			t.Errorf("ladderTriangles(%d, %d) = %d, want %d", tt.width, tt.level, got, tt.want)
		}
	}
}

func TestOrbitFromFitsTerrain(t *testing.T) {
	terr := benchTerrain(t)
	cfg := benchConfig()

	cam := orbitFrom(cfg.Camera, terr)
	if cam.Distance != 60 {
		t.Errorf("configured distance should win, got %v", cam.Distance)
	}

	cfg.Camera.Distance = 0
	cam = orbitFrom(cfg.Camera, terr)

	// 32 units across at a 60 degree field of view.
	want := float32(16 / math.Tan(math.Pi/6))
	if math.Abs(float64(cam.Distance-want)) > 1e-3 {
		t.Errorf("expected fitted distance %v, got %v", want, cam.Distance)
	}
	if cam.Center.X() != 0 || cam.Center.Z() != 0 {
		t.Errorf("expected camera centered on the terrain, got %v", cam.Center)
	}
	if cam.Pitch != mgl32.DegToRad(cfg.Camera.Pitch) {
		t.Errorf("configured pitch should survive fitting, got %v", cam.Pitch)
	}

	lo, hi := terrainBounds(terr)
	if lo.X() != -16 || hi.X() != 16 || lo.Z() != -16 || hi.Z() != 16 {
		t.Errorf("unexpected bounds %v .. %v", lo, hi)
	}
}
