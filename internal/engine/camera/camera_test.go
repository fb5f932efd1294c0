package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOrbitCameraPosition(t *testing.T) {
	tests := []struct {
		name       string
		pitch, yaw float32
		want       mgl32.Vec3
	}{
		{"level, yaw 0", 0, 0, mgl32.Vec3{0, 0, 10}},
		{"level, yaw 90", 0, math.Pi / 2, mgl32.Vec3{10, 0, 0}},
		{"straight up", math.Pi / 2, 0, mgl32.Vec3{0, 10, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			c.Center = mgl32.Vec3{1, 2, 3}
			c.Distance = 10
			c.Pitch = tt.pitch
			c.Yaw = tt.yaw

			want := tt.want.Add(c.Center)
			if got := c.Position(); !got.ApproxEqualThreshold(want, 1e-4) {
				t.Errorf("Position() = %v, want %v", got, want)
			}
		})
	}
}

func TestOrbitCameraViewMatrix(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = mgl32.Vec3{5, 0, -5}
	c.Distance = 20
	c.Pitch = 0.7
	c.Yaw = 1.1

	// The center sits straight ahead, Distance units down -Z in view space.
	got := mgl32.TransformCoordinate(c.Center, c.ViewMatrix())
	if want := (mgl32.Vec3{0, 0, -20}); !got.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("center in view space = %v, want %v", got, want)
	}

	// And projects to the middle of the screen.
	clip := c.ViewProjection().Mul4x1(c.Center.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	if mgl32.Abs(ndc.X()) > 1e-4 || mgl32.Abs(ndc.Y()) > 1e-4 {
		t.Errorf("center projects to %v, want screen center", ndc)
	}
}

func TestOrbitCameraHandleZoom(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 100

	c.HandleZoom(1)
	if c.Distance != 90 {
		t.Errorf("expected distance 90 after zoom, got %f", c.Distance)
	}

	for rangeIdx := 0; rangeIdx < 200; rangeIdx++ {
		c.HandleZoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", c.MinDistance, c.Distance)
	}

	for rangeIdx := 0; rangeIdx < 200; rangeIdx++ {
		c.HandleZoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("expected distance clamped to %f, got %f", c.MaxDistance, c.Distance)
	}
}

func TestOrbitCameraHandleDrag(t *testing.T) {
	c := NewOrbitCamera()

	c.HandleDrag(0, 10000)
	if c.Pitch != c.MaxPitch {
		t.Errorf("expected pitch clamped to %f, got %f", c.MaxPitch, c.Pitch)
	}
	c.HandleDrag(0, -10000)
	if c.Pitch != c.MinPitch {
		t.Errorf("expected pitch clamped to %f, got %f", c.MinPitch, c.Pitch)
	}

	c.HandleDrag(100, 0)
	if want := float32(-0.5); mgl32.Abs(c.Yaw-want) > 1e-6 {
		t.Errorf("expected yaw %f, got %f", want, c.Yaw)
	}
}

func TestOrbitCameraHandleMovement(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 100 // speed 1

	c.HandleMovement(1, 0, 0)
	if want := (mgl32.Vec3{0, 0, -1}); !c.Center.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("forward moved center to %v, want %v", c.Center, want)
	}

	c.Center = mgl32.Vec3{}
	c.HandleMovement(0, 1, 0)
	if want := (mgl32.Vec3{1, 0, 0}); !c.Center.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("right moved center to %v, want %v", c.Center, want)
	}
}

func TestOrbitCameraFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FOV = mgl32.DegToRad(90)

	c.FitToBounds(mgl32.Vec3{-64, 0, -64}, mgl32.Vec3{64, 20, 64})

	if want := (mgl32.Vec3{0, 10, 0}); c.Center != want {
		t.Errorf("expected center %v, got %v", want, c.Center)
	}
	if mgl32.Abs(c.Distance-64) > 1e-3 {
		t.Errorf("expected distance 64, got %f", c.Distance)
	}
	if c.Pitch != 0.6 || c.Yaw != 0 {
		t.Errorf("expected pitch 0.6 and yaw 0, got %f and %f", c.Pitch, c.Yaw)
	}
}

func TestFollowCamera(t *testing.T) {
	c := NewFollowCamera()
	c.Distance = 10
	c.Pitch = 0
	c.Yaw = 0
	target := mgl32.Vec3{3, 4, 5}

	// Yaw 0 faces +Z, so the camera sits behind on -Z.
	if got, want := c.Position(target), (mgl32.Vec3{3, 4, -5}); !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Position() = %v, want %v", got, want)
	}

	c.Pitch = math.Pi / 2
	if got := c.Position(target); mgl32.Abs(got.Y()-14) > 1e-4 {
		t.Errorf("overhead camera height = %f, want 14", got.Y())
	}

	c.Yaw = math.Pi / 2
	if got := c.ForwardDirection(); !got.ApproxEqualThreshold(mgl32.Vec2{1, 0}, 1e-6) {
		t.Errorf("ForwardDirection() = %v, want (1, 0)", got)
	}
	if got := c.RightDirection(); !got.ApproxEqualThreshold(mgl32.Vec2{0, 1}, 1e-6) {
		t.Errorf("RightDirection() = %v, want (0, 1)", got)
	}

	c.HandleZoom(100)
	if c.Distance != c.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", c.MinDistance, c.Distance)
	}
}
