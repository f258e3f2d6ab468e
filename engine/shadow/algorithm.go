package shadow

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned by ParseAlgorithm for names it does not know.
var ErrUnknownAlgorithm = errors.New("shadow: unknown algorithm")

// Algorithm selects how directional shadows are produced and sampled.
type Algorithm int

const (
	// None renders no shadow maps; every fragment is lit.
	None Algorithm = iota
	// DepthPCF samples a depth map with a percentage-closer filter.
	DepthPCF
	// VSM stores depth moments, blurs them and applies Chebyshev's inequality.
	VSM
)

func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case DepthPCF:
		return "pcf"
	case VSM:
		return "vsm"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ShaderValue returns the scene program's shadowMapType for the algorithm.
func (a Algorithm) ShaderValue() int32 {
	return int32(a)
}

// Enabled reports whether the algorithm renders shadow maps at all.
func (a Algorithm) Enabled() bool {
	return a == DepthPCF || a == VSM
}

// ParseAlgorithm converts a configuration name into an Algorithm.
//
// Parameters:
//   - name: "none", "pcf" (or "depth") or "vsm"
//
// Returns:
//   - Algorithm: the parsed algorithm
//   - error: ErrUnknownAlgorithm for any other name
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off":
		return None, nil
	case "pcf", "depth", "depthpcf":
		return DepthPCF, nil
	case "vsm", "variance":
		return VSM, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
