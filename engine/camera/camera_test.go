package camera

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / 60

func TestLookFromRoundTrips(t *testing.T) {
	eye := mgl32.Vec3{0, 20, 60}
	target := mgl32.Vec3{0, 2, 0}
	ctrl := NewCameraController(WithLookFrom(eye, target))

	assert.True(t, eye.ApproxEqualThreshold(ctrl.Position(), 1e-4))
	assert.Equal(t, target, ctrl.Target())
}

func TestCameraMatricesFollowController(t *testing.T) {
	eye := mgl32.Vec3{10, 5, 10}
	ctrl := NewCameraController(WithLookFrom(eye, mgl32.Vec3{}))
	cam := NewCamera(WithController(ctrl), WithAspect(4.0/3.0), WithFar(200))

	assert.True(t, eye.ApproxEqualThreshold(cam.Position(), 1e-4))
	want := mgl32.LookAtV(ctrl.Position(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assert.True(t, want.ApproxEqual(cam.View()))

	// The target projects to the centre of the screen.
	clip := cam.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), 1e-5)
	assert.InDelta(t, 0, clip.Y()/clip.W(), 1e-5)
	z := clip.Z() / clip.W()
	assert.True(t, z > 0 && z < 1, "depth %v is outside [0, 1]", z)
}

func TestSetAspectIgnoresInvalid(t *testing.T) {
	cam := NewCamera(WithAspect(2))
	cam.SetAspect(0)
	assert.Equal(t, float32(2), cam.Aspect())
	cam.SetAspect(1.5)
	assert.Equal(t, float32(1.5), cam.Aspect())
}

func TestOrbitVelocityIsDampedToRest(t *testing.T) {
	ctrl := NewCameraController(WithAzimuth(0))
	ctrl.OrbitRight()
	require.True(t, ctrl.Moving())

	var prev float32
	for i := 0; i < 600 && ctrl.Moving(); i++ {
		ctrl.Update(frame)
		assert.GreaterOrEqual(t, ctrl.Azimuth(), prev)
		prev = ctrl.Azimuth()
	}
	assert.False(t, ctrl.Moving())
	assert.Greater(t, ctrl.Azimuth(), float32(0))
	assert.False(t, ctrl.Update(frame), "a controller at rest does not move")
}

func TestZoomAndElevationStayInBounds(t *testing.T) {
	ctrl := NewCameraController(WithRadius(10), WithRadiusBounds(5, 20), WithElevationBounds(0, 1))
	for range 20 {
		ctrl.Zoom(10)
		ctrl.OrbitUp()
		ctrl.Update(frame)
	}
	assert.Equal(t, float32(5), ctrl.Radius())
	assert.LessOrEqual(t, ctrl.Elevation(), float32(1))

	ctrl.Drag(0, -10000)
	assert.Equal(t, float32(0), ctrl.Elevation())
	ctrl.SetRadius(100)
	assert.Equal(t, float32(20), ctrl.Radius())
}
