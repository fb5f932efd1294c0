package terrain

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func flatTerrain(t *testing.T) *Terrain {
	t.Helper()
	terr, err := New(newTestHeightfield(t, 17, 5, 1, flat(10)), Options{Thresholds: []float32{6, 12}})
	if err != nil {
		t.Fatal(err)
	}
	return terr
}

func viewProj(fovDeg float32, eye, center, up mgl32.Vec3) mgl32.Mat4 {
	proj := mgl32.Perspective(mgl32.DegToRad(fovDeg), 1, 0.1, 1000)
	return proj.Mul4(mgl32.LookAtV(eye, center, up))
}

func TestCullLookingDown(t *testing.T) {
	terr := flatTerrain(t)
	vp := viewProj(90, mgl32.Vec3{0, 100, 0}, mgl32.Vec3{}, mgl32.Vec3{0, 0, -1})

	if got := terr.Cull(vp); got != 16 {
		t.Errorf("expected 16 visible chunks, got %d", got)
	}
}

func TestCullLookingAway(t *testing.T) {
	terr := flatTerrain(t)
	vp := viewProj(90, mgl32.Vec3{0, 100, 0}, mgl32.Vec3{0, 200, 0}, mgl32.Vec3{0, 0, 1})

	if got := terr.Cull(vp); got != 0 {
		t.Fatalf("expected no visible chunks, got %d", got)
	}

	// Culled chunks keep their level even when the eye is far away.
	stats := terr.Update(mgl32.Vec3{500, 0, 500})
	if stats.Visible != 0 || stats.Changed != 0 {
		t.Errorf("update with everything culled: %+v", stats)
	}
	for _, c := range terr.Chunks() {
		if c.Level() != 0 {
			t.Errorf("culled chunk %d moved to level %d", c.Index, c.Level())
		}
	}

	terr.ActivateAll()
	if got := len(terr.ActiveChunks()); got != 16 {
		t.Errorf("expected 16 active chunks after ActivateAll, got %d", got)
	}
}

func TestCullNarrowView(t *testing.T) {
	terr := flatTerrain(t)
	near := terr.Chunks()[0]
	eye := near.Anchor.Add(mgl32.Vec3{0, 10, 0})
	vp := viewProj(10, eye, near.Anchor, mgl32.Vec3{0, 0, -1})

	got := terr.Cull(vp)
	if got == 0 || got == 16 {
		t.Fatalf("expected a partial view, got %d visible chunks", got)
	}
	if !near.Active {
		t.Error("chunk under the camera was culled")
	}
	if terr.Chunks()[15].Active {
		t.Error("opposite corner chunk is visible")
	}
}

func TestFrustumContainsSphere(t *testing.T) {
	f := NewFrustum(viewProj(60, mgl32.Vec3{0, 0, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))

	tests := []struct {
		name   string
		center mgl32.Vec3
		radius float32
		want   bool
	}{
		{"in front", mgl32.Vec3{}, 1, true},
		{"behind", mgl32.Vec3{0, 0, 20}, 1, false},
		{"far left", mgl32.Vec3{-100, 0, 0}, 1, false},
		{"straddling left plane", mgl32.Vec3{-6, 0, 0}, 2, true},
		{"beyond far plane", mgl32.Vec3{0, 0, -2000}, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ContainsSphere(tt.center, tt.radius); got != tt.want {
				t.Errorf("ContainsSphere(%v, %v) = %v, want %v", tt.center, tt.radius, got, tt.want)
			}
		})
	}
}
