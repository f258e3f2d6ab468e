package scene

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/tellurion/engine/config"
	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnimation(t *testing.T) {
	a, err := ParseAnimation("")
	require.NoError(t, err)
	assert.Equal(t, AnimationNone, a)

	a, err = ParseAnimation(" Tellurion ")
	require.NoError(t, err)
	assert.Equal(t, AnimationTellurion, a)

	_, err = ParseAnimation("spin")
	assert.ErrorIs(t, err, ErrUnknownAnimation)
}

func TestStaticInstanceIsTimeInvariant(t *testing.T) {
	inst := NewModelInstance(
		WithPosition(mgl32.Vec3{1, 2, 3}),
		WithRotation(mgl32.Vec3{10, 20, 30}),
		WithScale(mgl32.Vec3{2, 2, 2}),
	)
	params := DefaultAnimationParams()

	first := inst.ModelMatrix(0, params)
	later := inst.ModelMatrix(90*time.Second, params)
	assert.True(t, first.ApproxEqual(later))
	assert.InDelta(t, 1, first.At(0, 3), 1e-6)
	assert.InDelta(t, 2, first.At(1, 3), 1e-6)
	assert.InDelta(t, 3, first.At(2, 3), 1e-6)
}

func TestTellurionYawIncreasesAtRate(t *testing.T) {
	params := DefaultAnimationParams()
	var prev float32 = -1
	for i := range 10 {
		yaw := params.YawDegrees(time.Duration(i) * 500 * time.Millisecond)
		assert.Greater(t, yaw, prev)
		assert.InDelta(t, float64(i)*5, yaw, 1e-4)
		prev = yaw
	}
}

func TestTellurionMatrixComposesTiltAndSpin(t *testing.T) {
	params := DefaultAnimationParams()
	inst := NewModelInstance(WithAnimation(AnimationTellurion), WithPosition(mgl32.Vec3{5, 0, 0}))

	elapsed := 3 * time.Second
	want := mgl32.Translate3D(5, 0, 0).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(23.433))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(30)))
	assert.True(t, want.ApproxEqualThreshold(inst.ModelMatrix(elapsed, params), 1e-5))

	// The spin axis is the tilted Y axis, so it is left unchanged by the spin.
	axis := inst.ModelMatrix(elapsed, params).Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	tilted := mgl32.HomogRotate3DZ(mgl32.DegToRad(23.433)).Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	assert.True(t, axis.ApproxEqualThreshold(tilted, 1e-5))
	assert.False(t, inst.ModelMatrix(0, params).ApproxEqual(inst.ModelMatrix(elapsed, params)))
}

func TestStateDrawableSkipsDisabledAndEmpty(t *testing.T) {
	m := model.NewModel(model.WithName("cube"))
	a := NewModelInstance(WithModel(m))
	b := NewModelInstance(WithModel(m), WithEnabled(false))
	c := NewModelInstance()
	s := NewState(WithInstances(a, b, c))

	assert.Equal(t, []ModelInstance{a}, s.Drawable())
	assert.NotEqual(t, a.ID(), b.ID())

	s.Advance(time.Second)
	s.Advance(-time.Second)
	assert.Equal(t, time.Second, s.Elapsed)
}

func TestInstanceFromDescriptor(t *testing.T) {
	inst, err := InstanceFromDescriptor(config.ModelDescriptor{
		Path:      "assets/earth.glb",
		Position:  config.Vec3{X: 1},
		Animation: config.AnimationTellurion,
	})
	require.NoError(t, err)
	assert.Equal(t, "assets/earth.glb", inst.Path())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, inst.Scale())
	assert.Equal(t, AnimationTellurion, inst.Animation())
	assert.True(t, inst.Enabled())

	_, err = InstanceFromDescriptor(config.ModelDescriptor{Path: "x.glb", Animation: "wobble"})
	assert.ErrorIs(t, err, ErrUnknownAnimation)
}

func TestWithSettingsCopiesTunables(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Shadow.BlurRadius = 6
	settings.Animation.YawRateDegrees = 20
	s := NewState(WithSettings(settings))

	assert.Equal(t, float32(6), s.BlurRadius)
	assert.Equal(t, float32(20), s.Animation.YawRateDegrees)
	assert.Equal(t, settings.ShadowVolume(), s.Volume)
	assert.NotNil(t, s.Lights)
}
