package composite

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/material"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
	"github.com/Carmen-Shannon/tellurion/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCamera struct{ eye mgl32.Vec3 }

func (c fixedCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.eye, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}
func (c fixedCamera) Projection() mgl32.Mat4 { return common.PerspectiveZO(45, 4.0/3.0, 0.1, 100) }
func (c fixedCamera) Position() mgl32.Vec3   { return c.eye }

func newScene() *scene.State {
	lights := light.NewLightSet(
		[]light.Light{
			light.NewDirectionalLight(light.WithDirection(-1, -1, 0)),
			light.NewDirectionalLight(light.WithDirection(1, -1, 0)),
		},
		[]light.Light{light.NewPointLight(light.WithPosition(0, 5, 0), light.WithAttenuation(1, 0.09, 0.032))},
	)
	painted := material.NewMaterial(
		material.WithName("painted"),
		material.WithMap(material.DiffuseMap, renderertest.NewTexture("paint", 4, 4, renderer.FormatRGBA8)),
	)
	globe := model.NewModel(model.WithName("globe"), model.WithParts(
		model.Part{Mesh: renderertest.NewMesh("globe/surface", 96), Material: painted},
		model.Part{Mesh: renderertest.NewMesh("globe/stand", 12)},
	))
	state := scene.NewState(
		scene.WithLights(lights),
		scene.WithCamera(fixedCamera{eye: mgl32.Vec3{0, 2, 10}}),
		scene.WithBlinn(true),
		scene.WithInstances(scene.NewModelInstance(scene.WithModel(globe), scene.WithAnimation(scene.AnimationTellurion))),
	)
	state.Elapsed = 2 * time.Second
	lights.RecomputeLightSpace(state.Volume)
	return state
}

func locate(t *testing.T, p shader.Program, name string) shader.UniformHandle {
	t.Helper()
	h, err := p.Locate(name)
	require.NoError(t, err)
	return h
}

func TestCompositeWritesGlobalsAndLights(t *testing.T) {
	r := renderertest.NewRecorder(1024, 768)
	state := newScene()
	bank := shadow.NewTargetBank(r, 2, shadow.DepthPCF, 256, common.NewNopLogger())
	pass := NewPass(bank)
	prog := pass.Program()

	require.NoError(t, pass.Run(r, state))

	bind := r.CallsOf(renderertest.OpBindRenderTarget)
	require.Len(t, bind, 1)
	assert.Equal(t, "", bind[0].Target)
	assert.Equal(t, [4]float64{0, 0, 0, 1}, bind[0].Clear.Color)
	assert.Equal(t, float32(1), bind[0].Clear.Depth)
	assert.Equal(t, renderer.Viewport{Width: 1024, Height: 768}, r.CallsOf(renderertest.OpSetViewport)[0].Viewport)

	draws := r.Draws()
	require.Len(t, draws, 2)
	u := draws[0].Uniforms
	assert.Equal(t, int32(2), u.Int(locate(t, prog, "numDirectionalLights")))
	assert.Equal(t, int32(1), u.Int(locate(t, prog, "numPointLights")))
	assert.Equal(t, int32(1), u.Int(locate(t, prog, "shadowMapType")))
	assert.Equal(t, int32(1), u.Int(locate(t, prog, "blinn")))
	assert.Equal(t, mgl32.Vec3{0, 2, 10}, u.Vec3(locate(t, prog, "viewPos")))
	assert.Equal(t, state.Volume.Far, u.Float(locate(t, prog, "far_plane")))
	assert.Equal(t, state.LightWidth, u.Float(locate(t, prog, "lightWidth")))
	assert.Equal(t, mgl32.Vec3{1, -1, 0}, u.Vec3(locate(t, prog, "directionalLights[1].direction")))
	assert.True(t, state.Lights.Directional()[1].LightSpaceMatrix().ApproxEqual(u.Mat4(locate(t, prog, "directionalLights[1].lightSpaceMatrix"))))
	assert.InDelta(t, 0.032, u.Float(locate(t, prog, "pointLights[0].attQuadratic")), 1e-6)

	inst := state.Instances[0]
	assert.True(t, inst.ModelMatrix(state.Elapsed, state.Animation).ApproxEqual(u.Mat4(locate(t, prog, "model"))))
}

func TestCompositeBindsShadowMapsPerAlgorithm(t *testing.T) {
	tests := []struct {
		algorithm shadow.Algorithm
		prefix    string
		want      []string
	}{
		{shadow.DepthPCF, "shadowMap", []string{"shadow0.depth", "shadow1.depth"}},
		{shadow.VSM, "varianceMap", []string{"shadow0.blur1.color", "shadow1.blur1.color"}},
	}
	for _, tt := range tests {
		t.Run(tt.algorithm.String(), func(t *testing.T) {
			r := renderertest.NewRecorder(800, 600)
			state := newScene()
			pass := NewPass(shadow.NewTargetBank(r, 2, tt.algorithm, 128, common.NewNopLogger()))
			require.NoError(t, pass.Run(r, state))

			textures := r.Draws()[0].Textures
			for i, label := range tt.want {
				slot, ok := pass.Program().TextureSlot(tt.prefix + string(rune('0'+i)))
				require.True(t, ok)
				assert.Equal(t, label, textures[slot])
			}
		})
	}
}

func TestCompositeAppliesMaterialsPerPart(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	state := newScene()
	pass := NewPass(shadow.NewTargetBank(r, 0, shadow.None, 128, common.NewNopLogger()))
	prog := pass.Program()
	hasDiffuse := locate(t, prog, "material.hasDiffuseMap")
	diffuseSlot, ok := prog.TextureSlot("diffuseMap")
	require.True(t, ok)

	require.NoError(t, pass.Run(r, state))

	draws := r.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, "globe/surface", draws[0].Mesh)
	assert.Equal(t, int32(1), draws[0].Uniforms.Int(hasDiffuse))
	assert.Equal(t, "paint", draws[0].Textures[diffuseSlot])

	assert.Equal(t, "globe/stand", draws[1].Mesh)
	assert.Equal(t, int32(0), draws[1].Uniforms.Int(hasDiffuse))
	assert.NotContains(t, draws[1].Textures, diffuseSlot)
	assert.Equal(t, int32(0), draws[1].Uniforms.Int(locate(t, prog, "shadowMapType")))
}
