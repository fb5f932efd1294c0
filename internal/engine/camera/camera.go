// Package camera provides the cameras that drive terrain level selection
// and culling.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Lens holds perspective projection parameters.
type Lens struct {
	FOV    float32 // Vertical field of view, radians
	Aspect float32
	Near   float32
	Far    float32
}

// Projection returns the perspective matrix for this lens.
func (l Lens) Projection() mgl32.Mat4 {
	return mgl32.Perspective(l.FOV, l.Aspect, l.Near, l.Far)
}

// DefaultLens returns a 60 degree 16:9 lens.
func DefaultLens() Lens {
	return Lens{FOV: mgl32.DegToRad(60), Aspect: 16.0 / 9.0, Near: 0.5, Far: 4000}
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Lens

	// Center point to orbit around
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32 // Distance from center
	Pitch    float32 // Vertical angle above the horizon, radians
	Yaw      float32 // Horizontal angle, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Lens:            DefaultLens(),
		Distance:        200.0,
		Pitch:           0.5,
		Yaw:             0.0,
		MinDistance:     1.0,
		MaxDistance:     5000.0,
		MinPitch:        0.1,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mgl32.Vec3 {
	return c.Center.Add(orbitOffset(c.Distance, c.Pitch, c.Yaw))
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns projection * view, the matrix terrain culling
// expects.
func (c *OrbitCamera) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch = mgl32.Clamp(c.Pitch+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the camera center point based on keyboard input.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	// Speed scales with distance for consistent feel
	speed := c.Distance * 0.01

	sin, cos := sincos(c.Yaw)
	dir := mgl32.Vec3{-sin*forward + cos*right, up, -cos*forward - sin*right}
	c.Center = c.Center.Add(dir.Mul(speed))
}

// SetCenter sets the camera's center point.
func (c *OrbitCamera) SetCenter(center mgl32.Vec3) {
	c.Center = center
}

// FitToBounds centers the camera on a bounding box and backs off far enough
// to keep its footprint in view.
func (c *OrbitCamera) FitToBounds(lo, hi mgl32.Vec3) {
	c.Center = lo.Add(hi).Mul(0.5)

	size := max(hi.X()-lo.X(), hi.Z()-lo.Z())
	fit := size / 2 / float32(math.Tan(float64(c.FOV)/2))
	c.Distance = mgl32.Clamp(fit, c.MinDistance, c.MaxDistance)

	c.Pitch = mgl32.Clamp(0.6, c.MinPitch, c.MaxPitch) // Look down at ~35 degrees
	c.Yaw = 0
}

// FollowCamera trails a target moving over the ground.
type FollowCamera struct {
	Lens

	// Camera orientation
	Yaw   float32 // Horizontal rotation around target (radians)
	Pitch float32 // Vertical angle (radians)

	// Distance from target
	Distance    float32
	MinDistance float32
	MaxDistance float32

	// Height above the target's feet the camera looks at
	LookHeight float32

	// Sensitivity
	YawSensitivity  float32
	ZoomSensitivity float32
}

// NewFollowCamera creates a follow camera looking down at about 48 degrees.
func NewFollowCamera() *FollowCamera {
	return &FollowCamera{
		Lens:            DefaultLens(),
		Pitch:           0.85,
		Distance:        30.0,
		MinDistance:     5.0,
		MaxDistance:     200.0,
		LookHeight:      2.0,
		YawSensitivity:  0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position behind and above the target.
func (c *FollowCamera) Position(target mgl32.Vec3) mgl32.Vec3 {
	return target.Sub(orbitOffset(c.Distance, -c.Pitch, c.Yaw))
}

// ViewMatrix returns the view matrix for this camera looking at target.
func (c *FollowCamera) ViewMatrix(target mgl32.Vec3) mgl32.Mat4 {
	look := target.Add(mgl32.Vec3{0, c.LookHeight, 0})
	return mgl32.LookAtV(c.Position(target), look, mgl32.Vec3{0, 1, 0})
}

// ViewProjection returns projection * view for a target.
func (c *FollowCamera) ViewProjection(target mgl32.Vec3) mgl32.Mat4 {
	return c.Projection().Mul4(c.ViewMatrix(target))
}

// HandleYaw rotates camera horizontally around target.
func (c *FollowCamera) HandleYaw(deltaX float32) {
	c.Yaw -= deltaX * c.YawSensitivity
}

// HandleZoom updates distance from target.
func (c *FollowCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = mgl32.Clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// ForwardDirection returns the camera's forward direction on the XZ plane.
func (c *FollowCamera) ForwardDirection() mgl32.Vec2 {
	sin, cos := sincos(c.Yaw)
	return mgl32.Vec2{sin, cos}
}

// RightDirection returns the camera's right direction on the XZ plane.
func (c *FollowCamera) RightDirection() mgl32.Vec2 {
	sin, cos := sincos(c.Yaw)
	return mgl32.Vec2{-cos, sin}
}

// orbitOffset converts spherical coordinates to a Cartesian offset. Yaw 0
// points along +Z.
func orbitOffset(distance, pitch, yaw float32) mgl32.Vec3 {
	sp, cp := sincos(pitch)
	sy, cy := sincos(yaw)
	return mgl32.Vec3{distance * cp * sy, distance * sp, distance * cp * cy}
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}
