package camera

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"
)

// restVelocity is the speed below which a damped axis counts as stopped.
const restVelocity = 1e-4

// axis is one spring-damped coordinate velocity.
type axis struct {
	velocity float64
	accel    float64
}

func (a *axis) damp(s harmonica.Spring) {
	a.velocity, a.accel = s.Update(a.velocity, a.accel, 0)
	if math.Abs(a.velocity) < restVelocity && math.Abs(a.accel) < restVelocity {
		a.velocity, a.accel = 0, 0
	}
}

func (a *axis) moving() bool {
	return a.velocity != 0
}

type cameraControllerImpl struct {
	mu sync.Mutex

	target mgl32.Vec3

	radius    float32
	azimuth   float32 // around Y, 0 = +Z
	elevation float32 // from the horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32

	frequency float64
	damping   float64

	azimuthAxis   axis
	elevationAxis axis
	radiusAxis    axis
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new orbit controller with sensible defaults.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		radius:    60.0,
		azimuth:   0.0,
		elevation: float32(math.Pi / 6),

		minRadius:    2.0,
		maxRadius:    500.0,
		minElevation: -float32(math.Pi/2 - 0.05),
		maxElevation: float32(math.Pi/2 - 0.05),

		orbitSpeed:       0.6,
		mouseSensitivity: 0.005,
		zoomSpeed:        15.0,

		frequency: 6.0,
		damping:   1.0,
	}
	for _, option := range options {
		option(cc)
	}
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = mgl32.Clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	return cc
}

// position computes the eye from the spherical coordinates. Caller must hold the mutex.
func (cc *cameraControllerImpl) position() mgl32.Vec3 {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))
	return cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position()
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
}

func (cc *cameraControllerImpl) Update(dt time.Duration) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	secs := dt.Seconds()
	if secs <= 0 || !cc.moving() {
		return false
	}

	cc.azimuth += float32(cc.azimuthAxis.velocity * secs)
	cc.elevation = mgl32.Clamp(cc.elevation+float32(cc.elevationAxis.velocity*secs), cc.minElevation, cc.maxElevation)
	cc.radius = mgl32.Clamp(cc.radius+float32(cc.radiusAxis.velocity*secs), cc.minRadius, cc.maxRadius)

	spring := harmonica.NewSpring(secs, cc.frequency, cc.damping)
	cc.azimuthAxis.damp(spring)
	cc.elevationAxis.damp(spring)
	cc.radiusAxis.damp(spring)
	return true
}

func (cc *cameraControllerImpl) moving() bool {
	return cc.azimuthAxis.moving() || cc.elevationAxis.moving() || cc.radiusAxis.moving()
}

func (cc *cameraControllerImpl) Moving() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moving()
}

func (cc *cameraControllerImpl) OrbitLeft()  { cc.push(&cc.azimuthAxis, -cc.orbitSpeed) }
func (cc *cameraControllerImpl) OrbitRight() { cc.push(&cc.azimuthAxis, cc.orbitSpeed) }
func (cc *cameraControllerImpl) OrbitUp()    { cc.push(&cc.elevationAxis, cc.orbitSpeed) }
func (cc *cameraControllerImpl) OrbitDown()  { cc.push(&cc.elevationAxis, -cc.orbitSpeed) }

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.push(&cc.radiusAxis, -delta*cc.zoomSpeed)
}

func (cc *cameraControllerImpl) push(a *axis, v float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	a.velocity += float64(v)
}

func (cc *cameraControllerImpl) Drag(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth -= dx * cc.mouseSensitivity
	cc.elevation = mgl32.Clamp(cc.elevation+dy*cc.mouseSensitivity, cc.minElevation, cc.maxElevation)
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = mgl32.Clamp(radius, cc.minRadius, cc.maxRadius)
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = mgl32.Clamp(elevation, cc.minElevation, cc.maxElevation)
}
