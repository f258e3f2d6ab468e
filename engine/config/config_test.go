package config

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader() *Loader {
	return NewLoader(WithLogger(common.NewNopLogger()))
}

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func TestLoadModels_YAMLAndTOMLAgree(t *testing.T) {
	l := testLoader()

	for _, name := range []string{"scene.yaml", "scene.toml"} {
		t.Run(name, func(t *testing.T) {
			models := l.LoadModels(fixture(name))
			require.Len(t, models, 2)

			assert.Equal(t, "assets/models/plane.glb", models[0].Path)
			assert.Equal(t, mgl32.Vec3{0, -2, 0}, models[0].Position.Vec())
			assert.Equal(t, mgl32.Vec3{40, 1, 40}, models[0].ScaleVec())
			assert.Equal(t, AnimationNone, models[0].Animation)

			assert.Equal(t, "assets/models/earth.glb", models[1].Path)
			assert.Equal(t, mgl32.Vec3{1, 1, 1}, models[1].ScaleVec(), "missing scale defaults to one")
			assert.Equal(t, AnimationTellurion, models[1].Animation)
		})
	}
}

func TestLoadModels_AnimationNameIgnoresCase(t *testing.T) {
	models := testLoader().LoadModels(fixture("mixed_case_animation.yaml"))
	require.Len(t, models, 2)

	assert.Equal(t, AnimationNone, models[0].Animation)
	assert.Equal(t, AnimationTellurion, models[1].Animation)
}

func TestLoadModels_ErrorsYieldEmptyList(t *testing.T) {
	l := testLoader()

	cases := map[string]string{
		"missing file":          "does_not_exist.yaml",
		"malformed":             "malformed.yaml",
		"unsupported extension": "scene.json",
		"entry without path":    "missing_path.yaml",
		"unknown animation":     "bad_animation.yaml",
	}
	for name, file := range cases {
		t.Run(name, func(t *testing.T) {
			models := l.LoadModels(fixture(file))
			assert.NotNil(t, models)
			assert.Empty(t, models)
		})
	}
}

func TestLoadModels_EmptyFile(t *testing.T) {
	models := testLoader().LoadModels(fixture("empty.yaml"))
	assert.NotNil(t, models)
	assert.Empty(t, models)
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	var file sceneFile
	err := Decode(fixture("scene.json"), &file)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadDirectionalLights(t *testing.T) {
	lights := testLoader().LoadDirectionalLights(fixture("directionalLights.yaml"))
	require.Len(t, lights, 2)

	first := lights[0].Light()
	assert.Equal(t, light.LightTypeDirectional, first.Type())
	assert.Equal(t, mgl32.Vec3{-0.2, -1.0, -0.3}, first.Direction(), "direction is not normalized")
	assert.Equal(t, mgl32.Vec3{1.0, 0.95, 0.9}, first.Color())
	assert.Equal(t, mgl32.Vec3{0.8, 0.8, 0.8}, first.Diffuse())
}

func TestLoadPointLights(t *testing.T) {
	lights := testLoader().LoadPointLights(fixture("pointLights.toml"))
	require.Len(t, lights, 1)

	p := lights[0].Light()
	assert.Equal(t, light.LightTypePoint, p.Type())
	assert.Equal(t, mgl32.Vec3{4, 6, -2}, p.Position())
	c, lin, q := p.Attenuation()
	assert.InDelta(t, 1.0, c, 1e-6)
	assert.InDelta(t, 0.09, lin, 1e-6)
	assert.InDelta(t, 0.032, q, 1e-6)
}

func TestLoadLights_MissingFile(t *testing.T) {
	l := testLoader()
	assert.Empty(t, l.LoadDirectionalLights(fixture("nope.yaml")))
	assert.Empty(t, l.LoadPointLights(fixture("nope.toml")))
}

func TestLightSet_FromDescriptors(t *testing.T) {
	l := testLoader()
	set := LightSet(
		l.LoadDirectionalLights(fixture("directionalLights.yaml")),
		l.LoadPointLights(fixture("pointLights.toml")),
	)
	require.Len(t, set.Directional(), 2)
	require.Len(t, set.Point(), 1)
	assert.Equal(t, mgl32.Vec3{0.5, -1.0, 0.2}, set.Directional()[1].Direction())
}

func TestLoadSettings_Defaults(t *testing.T) {
	s := testLoader().LoadSettings("")
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, 800, s.Window.Width)
	assert.Equal(t, 600, s.Window.Height)
	assert.Equal(t, light.DefaultShadowVolume(), s.ShadowVolume())
	assert.Equal(t, light.DefaultNudgeBounds(), s.NudgeBounds())
}

func TestLoadSettings_YAMLOverridesOnlyGivenKeys(t *testing.T) {
	s := testLoader().LoadSettings(fixture("settings.yaml"))
	defaults := DefaultSettings()

	assert.Equal(t, 1280, s.Window.Width)
	assert.Equal(t, defaults.Window.Height, s.Window.Height)
	assert.Equal(t, 640, s.Window.MinWidth)
	assert.Zero(t, s.Window.MinHeight, "an omitted floor leaves the window default")
	assert.Equal(t, "pcf", s.Shadow.Algorithm)
	assert.Equal(t, 2048, s.Shadow.Resolution)
	assert.Equal(t, defaults.Shadow.HalfExtent, s.Shadow.HalfExtent)
	assert.InDelta(t, 20.0, s.Animation.YawRateDegrees, 1e-6)
	assert.InDelta(t, 23.433, s.Animation.AxialTiltDegrees, 1e-4)
}

func TestLoadSettings_TOML(t *testing.T) {
	s := testLoader().LoadSettings(fixture("settings.toml"))

	assert.Equal(t, "none", s.Shadow.Algorithm)
	assert.Equal(t, 6, s.Shadow.BlurRadius)
	assert.InDelta(t, 0.05, s.NudgeBounds().Step, 1e-6)
	assert.InDelta(t, 2.0, s.NudgeBounds().MaxY, 1e-6)
}

func TestLoadSettings_BrokenFileFallsBack(t *testing.T) {
	s := testLoader().LoadSettings(fixture("malformed.yaml"))
	assert.Equal(t, DefaultSettings(), s)
}
