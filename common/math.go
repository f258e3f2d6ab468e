package common

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// clipDepthZO remaps OpenGL-style clip depth [-1, 1] into the [0, 1] range WebGPU expects.
// Column-major: z' = 0.5*z + 0.5*w.
var clipDepthZO = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// OrthoZO creates an orthographic projection matrix whose depth output lies in [0, 1].
// The near plane maps to depth 0 and the far plane to depth 1, matching the WebGPU
// clip space convention used by the shadow depth targets.
//
// Parameters:
//   - left, right: horizontal extents of the view volume
//   - bottom, top: vertical extents of the view volume
//   - near, far: distances to the near and far clip planes
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func OrthoZO(left, right, bottom, top, near, far float32) mgl32.Mat4 {
	return clipDepthZO.Mul4(mgl32.Ortho(left, right, bottom, top, near, far))
}

// PerspectiveZO creates a perspective projection matrix whose depth output lies in [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport width divided by height
//   - near, far: distances to the near and far clip planes
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func PerspectiveZO(fovY, aspect, near, far float32) mgl32.Mat4 {
	return clipDepthZO.Mul4(mgl32.Perspective(fovY, aspect, near, far))
}

// ModelMatrix builds a world transform in the order translate · rotateX · rotateY · rotateZ
// · extra... · scale. Rotations are Euler angles in degrees. Any extra matrices are applied
// between the static rotation and the scale, which is where per-instance animation lives.
//
// Parameters:
//   - position: world-space translation
//   - rotationDegrees: Euler rotation about X, Y and Z in degrees
//   - scale: per-axis scale factors
//   - extra: optional matrices multiplied in after the static rotation
//
// Returns:
//   - mgl32.Mat4: the composed model matrix
func ModelMatrix(position, rotationDegrees, scale mgl32.Vec3, extra ...mgl32.Mat4) mgl32.Mat4 {
	m := mgl32.Translate3D(position.X(), position.Y(), position.Z())
	m = m.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotationDegrees.X())))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotationDegrees.Y())))
	m = m.Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotationDegrees.Z())))
	for _, e := range extra {
		m = m.Mul4(e)
	}
	return m.Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*int(unsafe.Sizeof(zero)))
}
