package shadow

import (
	"testing"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(directional int) *scene.State {
	var dirs []light.Light
	for i := range directional {
		dirs = append(dirs, light.NewDirectionalLight(light.WithDirection(float32(i)-1, -1, 0.5)))
	}
	lights := light.NewLightSet(dirs, []light.Light{light.NewPointLight()})
	state := scene.NewState(scene.WithLights(lights))
	lights.RecomputeLightSpace(state.Volume)

	cube := model.NewModel(model.WithName("cube"), model.WithParts(
		model.Part{Mesh: renderertest.NewMesh("cube/body", 36)},
		model.Part{Mesh: renderertest.NewMesh("cube/lid", 6)},
	))
	state.Add(
		scene.NewModelInstance(scene.WithModel(cube), scene.WithPosition(mgl32.Vec3{1, 0, 0})),
		scene.NewModelInstance(scene.WithModel(cube), scene.WithAnimation(scene.AnimationTellurion)),
		scene.NewModelInstance(scene.WithModel(cube), scene.WithEnabled(false)),
	)
	return state
}

func TestParseAlgorithm(t *testing.T) {
	for name, want := range map[string]Algorithm{"none": None, "PCF": DepthPCF, "vsm": VSM} {
		got, err := ParseAlgorithm(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAlgorithm("esm")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
	assert.Equal(t, int32(2), VSM.ShaderValue())
}

func TestTargetBankCounts(t *testing.T) {
	tests := []struct {
		algorithm               Algorithm
		depth, moments, blurred int
	}{
		{None, 0, 0, 0},
		{DepthPCF, 3, 0, 0},
		{VSM, 3, 3, 6},
	}
	for _, tt := range tests {
		t.Run(tt.algorithm.String(), func(t *testing.T) {
			r := renderertest.NewRecorder(800, 600)
			bank := NewTargetBank(r, 3, tt.algorithm, 256, common.NewNopLogger())

			assert.Equal(t, tt.depth, bank.DepthTargetCount())
			assert.Equal(t, tt.moments, bank.MomentTargetCount())
			assert.Equal(t, tt.blurred, bank.BlurTargetCount())
			if tt.algorithm == VSM {
				assert.Equal(t, renderer.FormatRG32Float, bank.VarianceMap(2).Format())
				assert.Equal(t, "shadow1.blur1.color", bank.VarianceMap(1).Label())
			} else {
				assert.Nil(t, bank.Blur(0, BlurHorizontal))
				assert.Nil(t, bank.VarianceMap(0))
			}
		})
	}
}

func TestTargetBankCapsLightCount(t *testing.T) {
	bank := NewTargetBank(renderertest.NewRecorder(800, 600), 9, DepthPCF, 0, common.NewNopLogger())
	assert.Equal(t, light.MaxDirectionalLights, bank.LightCount())
	assert.Equal(t, light.DefaultShadowResolution, bank.Resolution())
	assert.Nil(t, bank.Shadow(light.MaxDirectionalLights))
}

func TestTargetBankKeepsIncompleteTargets(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	r.FailTargets["shadow1"] = true
	bank := NewTargetBank(r, 2, DepthPCF, 256, common.NewNopLogger())

	assert.Equal(t, 2, bank.LightCount())
	assert.Equal(t, 1, bank.DepthTargetCount())
	require.NotNil(t, bank.Shadow(1))
	assert.False(t, bank.Shadow(1).Complete())
	assert.Nil(t, bank.DepthMap(1))

	bank.Release()
	assert.Zero(t, bank.LightCount())
}

func TestShadowPassDrawsEveryInstancePerLight(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	state := newState(2)
	bank := NewTargetBank(r, 2, DepthPCF, 512, common.NewNopLogger())
	pass := NewShadowPass(bank, common.NewNopLogger())
	lightSpace, err := pass.Program().Locate("lightSpaceMatrix")
	require.NoError(t, err)

	var visited []int
	require.NoError(t, pass.Run(r, state, func(i int) {
		visited = append(visited, i)
		assert.Equal(t, renderer.CullFront, r.CullMode(), "culling is switched before the first light")
	}))
	assert.Equal(t, []int{0, 1}, visited)

	binds := r.CallsOf(renderertest.OpBindRenderTarget)
	require.Len(t, binds, 2)
	for i, b := range binds {
		assert.Equal(t, bank.Shadow(i).Label(), b.Target)
		assert.True(t, b.Clear.ClearDepth)
		assert.Equal(t, float32(1), b.Clear.Depth)
		assert.False(t, b.Clear.ClearColor)
	}
	for _, v := range r.CallsOf(renderertest.OpSetViewport) {
		assert.Equal(t, renderer.Viewport{Width: 512, Height: 512}, v.Viewport)
	}

	draws := r.Draws()
	require.Len(t, draws, 2*2*2, "lights x enabled instances x parts")
	for i, d := range draws {
		assert.Equal(t, shader.ShadowProgramKey, d.Program)
		assert.Equal(t, renderer.CullFront, d.Cull)
		want := state.Lights.Directional()[i/4].LightSpaceMatrix()
		assert.True(t, want.ApproxEqual(d.Uniforms.Mat4(lightSpace)))
	}

	culls := r.CallsOf(renderertest.OpSetCullMode)
	require.Len(t, culls, 2)
	assert.Equal(t, renderer.CullFront, culls[0].Cull)
	assert.Equal(t, renderer.CullBack, culls[1].Cull)
}

func TestShadowPassLeavesLightsUntouched(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	state := newState(2)
	before := state.Lights.Directional()[0].LightSpaceMatrix()
	dir := state.Lights.Directional()[0].Direction()

	pass := NewShadowPass(NewTargetBank(r, 2, VSM, 128, common.NewNopLogger()), common.NewNopLogger())
	require.NoError(t, pass.Run(r, state, nil))

	assert.Equal(t, before, state.Lights.Directional()[0].LightSpaceMatrix())
	assert.Equal(t, dir, state.Lights.Directional()[0].Direction())
	bind := r.CallsOf(renderertest.OpBindRenderTarget)[0]
	assert.True(t, bind.Clear.ClearColor)
	assert.Equal(t, [4]float64{1, 1, 0, 1}, bind.Clear.Color)
}

func TestShadowPassNoneIsNoop(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	pass := NewShadowPass(NewTargetBank(r, 2, None, 128, common.NewNopLogger()), common.NewNopLogger())
	require.NoError(t, pass.Run(r, newState(2), nil))
	assert.Empty(t, r.Calls)
}

func TestShadowPassSkipsIncompleteTarget(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	r.FailTargets["shadow0"] = true
	pass := NewShadowPass(NewTargetBank(r, 2, DepthPCF, 128, common.NewNopLogger()), common.NewNopLogger())

	require.NoError(t, pass.Run(r, newState(2), nil))
	binds := r.CallsOf(renderertest.OpBindRenderTarget)
	require.Len(t, binds, 1)
	assert.Equal(t, "shadow1", binds[0].Target)
	assert.Equal(t, 2, r.Count(renderertest.OpSetCullMode))
}

func TestFilterStageSubPasses(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	state := newState(2)
	state.BlurRadius = 3
	bank := NewTargetBank(r, 2, VSM, 128, common.NewNopLogger())
	stage := NewFilterStage(bank, common.NewNopLogger())
	vertical, err := stage.Program().Locate("vertical")
	require.NoError(t, err)
	radius, err := stage.Program().Locate("radius")
	require.NoError(t, err)

	var visited []int
	require.NoError(t, stage.Run(r, state, func(i int) {
		visited = append(visited, i)
		assert.Equal(t, 2*i, r.Count(renderertest.OpDrawFullscreenTriangle), "each light starts after the previous one finished")
	}))
	assert.Equal(t, []int{0, 1}, visited)

	draws := r.Draws()
	require.Len(t, draws, 4)
	wantTargets := []string{"shadow0.blur0", "shadow0.blur1", "shadow1.blur0", "shadow1.blur1"}
	wantSources := []string{"shadow0.color", "shadow0.blur0.color", "shadow1.color", "shadow1.blur0.color"}
	for i, d := range draws {
		assert.Equal(t, renderertest.OpDrawFullscreenTriangle, d.Op)
		assert.Equal(t, wantTargets[i], d.Target)
		assert.Equal(t, map[int]string{0: wantSources[i]}, d.Textures)
		assert.Equal(t, int32(i%2), d.Uniforms.Int(vertical))
		assert.Equal(t, float32(3), d.Uniforms.Float(radius))
	}
	for _, b := range r.CallsOf(renderertest.OpBindRenderTarget) {
		assert.Equal(t, [4]float64{0, 0, 0, 1}, b.Clear.Color)
		assert.False(t, b.Clear.ClearDepth)
	}
	assert.Empty(t, r.BoundTextures())
}

func TestFilterStageIdleWithoutVSM(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	bank := NewTargetBank(r, 2, DepthPCF, 128, common.NewNopLogger())
	require.NoError(t, NewFilterStage(bank, common.NewNopLogger()).Run(r, newState(2), nil))
	assert.Empty(t, r.Calls)
	assert.Zero(t, bank.BlurTargetCount())
}
