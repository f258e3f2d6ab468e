package light

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMatEqual(t *testing.T, want, got mgl32.Mat4) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5, "element %d", i)
	}
}

func assertFinite(t *testing.T, m mgl32.Mat4) {
	t.Helper()
	for i, v := range m {
		require.False(t, math.IsNaN(float64(v)) || math.IsInf(float64(v), 0), "element %d is %v", i, v)
	}
}

func TestLightSpaceMatrix_ProjectionTimesLookAt(t *testing.T) {
	volume := DefaultShadowVolume()
	dir := mgl32.Vec3{-0.2, -1.0, -0.3}

	want := volume.Projection().Mul4(mgl32.LookAtV(dir.Mul(-1), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))
	assertMatEqual(t, want, LightSpaceMatrix(dir, volume))
}

func TestLightSpaceMatrix_DepthSpansNearToFar(t *testing.T) {
	volume := DefaultShadowVolume()
	dir := mgl32.Vec3{0.3, -1.0, 0.2}
	m := LightSpaceMatrix(dir, volume)

	eye := dir.Mul(-volume.EyeScale)
	forward := dir.Normalize()

	nearPoint := eye.Add(forward.Mul(volume.Near))
	farPoint := eye.Add(forward.Mul(volume.Far))
	midPoint := eye.Add(forward.Mul((volume.Near + volume.Far) / 2))

	assert.InDelta(t, 0.0, m.Mul4x1(nearPoint.Vec4(1)).Z(), 1e-4)
	assert.InDelta(t, 1.0, m.Mul4x1(farPoint.Vec4(1)).Z(), 1e-4)
	assert.InDelta(t, 0.5, m.Mul4x1(midPoint.Vec4(1)).Z(), 1e-4)
}

func TestLightSpaceMatrix_OrthographicExtent(t *testing.T) {
	volume := DefaultShadowVolume()
	m := LightSpaceMatrix(mgl32.Vec3{0, -1, 0.5}, volume)

	// w stays 1 for an orthographic projection
	p := m.Mul4x1(mgl32.Vec4{10, 0, 5, 1})
	assert.InDelta(t, 1.0, p.W(), 1e-6)
}

func TestLightSpaceMatrix_ZeroDirectionIsStraightDown(t *testing.T) {
	volume := DefaultShadowVolume()
	got := LightSpaceMatrix(mgl32.Vec3{}, volume)
	assertFinite(t, got)
	assertMatEqual(t, LightSpaceMatrix(mgl32.Vec3{0, -1, 0}, volume), got)
}

func TestLightSpaceMatrix_ParallelToUpUsesZ(t *testing.T) {
	volume := DefaultShadowVolume()
	got := LightSpaceMatrix(mgl32.Vec3{0, -2, 0}, volume)
	assertFinite(t, got)

	want := volume.Projection().Mul4(mgl32.LookAtV(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{}, mgl32.Vec3{0, 0, 1}))
	assertMatEqual(t, want, got)
}

func TestNewLightSet_PreservesOrderAndCaps(t *testing.T) {
	dirs := make([]Light, 0, MaxDirectionalLights+2)
	for i := 0; i < MaxDirectionalLights+2; i++ {
		dirs = append(dirs, NewDirectionalLight(WithDirection(float32(i), -1, 0)))
	}
	points := []Light{NewPointLight(WithPosition(1, 2, 3))}

	set := NewLightSet(dirs, points)
	require.Len(t, set.Directional(), MaxDirectionalLights)
	require.Len(t, set.Point(), 1)
	for i, l := range set.Directional() {
		assert.Equal(t, float32(i), l.Direction().X())
	}
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, set.Point()[0].Position())
}

func TestLightSet_RecomputeLightSpaceIsIdempotent(t *testing.T) {
	set := NewLightSet(
		[]Light{
			NewDirectionalLight(WithDirection(-0.2, -1, -0.3)),
			NewDirectionalLight(WithDirection(0.5, -0.8, 0.1)),
		},
		[]Light{NewPointLight(WithPosition(0, 5, 0))},
	)
	volume := DefaultShadowVolume()

	set.RecomputeLightSpace(volume)
	first := []mgl32.Mat4{set.Directional()[0].LightSpaceMatrix(), set.Directional()[1].LightSpaceMatrix()}
	set.RecomputeLightSpace(volume)

	for i, l := range set.Directional() {
		assert.Equal(t, first[i], l.LightSpaceMatrix())
		assertMatEqual(t, LightSpaceMatrix(l.Direction(), volume), l.LightSpaceMatrix())
	}
	assert.Equal(t, mgl32.Ident4(), set.Point()[0].LightSpaceMatrix())
}

func TestLightSet_NudgeMovesOneStep(t *testing.T) {
	set := NewLightSet([]Light{NewDirectionalLight(WithDirection(0.5, -1, 0))}, nil)
	bounds := DefaultNudgeBounds()

	require.True(t, set.Nudge(0, NudgeInput{Up: true, Right: true}, bounds))
	d := set.Directional()[0].Direction()
	assert.InDelta(t, 0.5, d.X(), 1e-6)
	assert.InDelta(t, -1.01, d.Y(), 1e-6)
	assert.InDelta(t, 0.01, d.Z(), 1e-6)

	require.True(t, set.Nudge(0, NudgeInput{Down: true, Left: true}, bounds))
	d = set.Directional()[0].Direction()
	assert.InDelta(t, -1.0, d.Y(), 1e-6)
	assert.InDelta(t, 0.0, d.Z(), 1e-6)
}

func TestLightSet_NudgeSaturates(t *testing.T) {
	bounds := DefaultNudgeBounds()
	tests := []struct {
		name  string
		start mgl32.Vec3
		input NudgeInput
		want  mgl32.Vec3
	}{
		{"y lower bound", mgl32.Vec3{0, -1.995, 0}, NudgeInput{Up: true}, mgl32.Vec3{0, -2, 0}},
		{"y upper bound", mgl32.Vec3{0, 1.995, 0}, NudgeInput{Down: true}, mgl32.Vec3{0, 2, 0}},
		{"z lower bound", mgl32.Vec3{0, -1, -2.995}, NudgeInput{Left: true}, mgl32.Vec3{0, -1, -3}},
		{"z upper bound", mgl32.Vec3{0, -1, 2.995}, NudgeInput{Right: true}, mgl32.Vec3{0, -1, 3}},
		{"out of range start", mgl32.Vec3{0, 7, -9}, NudgeInput{}, mgl32.Vec3{0, 2, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewLightSet([]Light{NewDirectionalLight(WithDirection(tt.start.X(), tt.start.Y(), tt.start.Z()))}, nil)
			for range 1000 {
				set.Nudge(0, tt.input, bounds)
			}
			got := set.Directional()[0].Direction()
			assert.InDelta(t, tt.want.Y(), got.Y(), 1e-6)
			assert.InDelta(t, tt.want.Z(), got.Z(), 1e-6)
		})
	}
}

func TestLightSet_NudgeMissingLight(t *testing.T) {
	set := NewLightSet(nil, []Light{NewPointLight()})
	assert.False(t, set.Nudge(0, NudgeInput{Up: true}, DefaultNudgeBounds()))
	assert.False(t, set.Nudge(-1, NudgeInput{Up: true}, DefaultNudgeBounds()))
}

func TestNewLight_Defaults(t *testing.T) {
	l := NewPointLight(WithAttenuation(1, 0.09, 0.032), WithColor(1, 0.5, 0.25))
	assert.Equal(t, LightTypePoint, l.Type())
	c, lin, q := l.Attenuation()
	assert.Equal(t, float32(1), c)
	assert.Equal(t, float32(0.09), lin)
	assert.Equal(t, float32(0.032), q)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.25}, l.Color())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Ambient())
	assert.Equal(t, "point", l.Type().String())
}
