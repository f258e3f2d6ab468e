package scene

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownAnimation is returned by ParseAnimation for names it does not know.
var ErrUnknownAnimation = errors.New("scene: unknown animation")

// Animation selects the runtime transform applied to a model instance.
type Animation int

const (
	// AnimationNone keeps the instance at its configured transform.
	AnimationNone Animation = iota
	// AnimationTellurion tilts the instance by the axial tilt and spins it about its
	// own tilted axis, the way a globe spins on a tellurion.
	AnimationTellurion
)

func (a Animation) String() string {
	switch a {
	case AnimationNone:
		return "none"
	case AnimationTellurion:
		return "tellurion"
	default:
		return fmt.Sprintf("Animation(%d)", int(a))
	}
}

// ParseAnimation converts a configuration name into an Animation. The empty string
// means AnimationNone.
//
// Parameters:
//   - name: "none", "tellurion" or ""
//
// Returns:
//   - Animation: the parsed kind
//   - error: ErrUnknownAnimation for any other name
func ParseAnimation(name string) (Animation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return AnimationNone, nil
	case "tellurion":
		return AnimationTellurion, nil
	default:
		return AnimationNone, fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
}

// Default animation parameters.
const (
	DefaultAxialTiltDegrees float32 = 23.433
	DefaultYawRateDegrees   float32 = 10
)

// AnimationParams are the tunables of AnimationTellurion.
type AnimationParams struct {
	// AxialTiltDegrees is the fixed roll about Z applied before the spin.
	AxialTiltDegrees float32
	// YawRateDegrees is the spin rate about the tilted Y axis in degrees per second.
	YawRateDegrees float32
}

// DefaultAnimationParams returns a 23.433 degree tilt spinning at 10 degrees per second.
func DefaultAnimationParams() AnimationParams {
	return AnimationParams{
		AxialTiltDegrees: DefaultAxialTiltDegrees,
		YawRateDegrees:   DefaultYawRateDegrees,
	}
}

// YawDegrees returns the spin angle after elapsed time. It grows without wrapping so
// successive frames always compare in time order.
func (p AnimationParams) YawDegrees(elapsed time.Duration) float32 {
	return float32(elapsed.Seconds()) * p.YawRateDegrees
}

// Transform returns tilt · spin for the given elapsed time.
func (p AnimationParams) Transform(elapsed time.Duration) mgl32.Mat4 {
	tilt := mgl32.HomogRotate3DZ(mgl32.DegToRad(p.AxialTiltDegrees))
	spin := mgl32.HomogRotate3DY(mgl32.DegToRad(p.YawDegrees(elapsed)))
	return tilt.Mul4(spin)
}
