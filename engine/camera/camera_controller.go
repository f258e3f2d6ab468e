package camera

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns the eye position as spherical coordinates (radius, azimuth,
// elevation) around a target. Keyboard orbit and scroll zoom add velocity that a
// critically damped spring brings back to rest on each Update; mouse drag moves the
// angles directly.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Update integrates the orbit and zoom velocities over dt and damps them.
	//
	// Parameters:
	//   - dt: time since the previous update
	//
	// Returns:
	//   - bool: true if the camera moved
	Update(dt time.Duration) bool

	// Moving reports whether any velocity is still above rest.
	Moving() bool

	// OrbitLeft adds one orbit speed step of leftward angular velocity.
	OrbitLeft()

	// OrbitRight adds one orbit speed step of rightward angular velocity.
	OrbitRight()

	// OrbitUp adds one orbit speed step of upward angular velocity.
	OrbitUp()

	// OrbitDown adds one orbit speed step of downward angular velocity.
	OrbitDown()

	// Drag rotates the camera immediately by a mouse movement in pixels, scaled by the
	// mouse sensitivity. Elevation stays within its bounds.
	//
	// Parameters:
	//   - dx: horizontal movement
	//   - dy: vertical movement
	Drag(dx, dy float32)

	// Zoom adds radial velocity. Positive delta zooms in.
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis in radians.
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly.
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane in radians.
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	SetElevation(elevation float32)
}
