package loader

import "github.com/go-gl/mathgl/mgl32"

func sub(a, b [3]float32) [3]float32 {
	return mgl32.Vec3(a).Sub(mgl32.Vec3(b))
}

func cross(a, b [3]float32) [3]float32 {
	return mgl32.Vec3(a).Cross(mgl32.Vec3(b))
}

// normalize returns v scaled to unit length, or +Y for a zero vector.
func normalize(v [3]float32) [3]float32 {
	vec := mgl32.Vec3(v)
	if vec.Len() < 1e-8 {
		return [3]float32{0, 1, 0}
	}
	return vec.Normalize()
}
