package orchestrator

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
	"github.com/Carmen-Shannon/tellurion/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type keys struct {
	held  map[uint32]bool
	blinn bool
}

func (k *keys) KeyPressed(key uint32) bool { return k.held[key] }
func (k *keys) BlinnEnabled() bool         { return k.blinn }

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time { return c.now }

func newScene() *scene.State {
	lights := light.NewLightSet(
		[]light.Light{
			light.NewDirectionalLight(light.WithDirection(-0.5, -1, 0.2)),
			light.NewDirectionalLight(light.WithDirection(0.5, -1, -0.2)),
		},
		[]light.Light{light.NewPointLight(light.WithPosition(0, 4, 0))},
	)
	floor := model.NewModel(model.WithName("floor"), model.WithParts(model.Part{Mesh: renderertest.NewMesh("floor", 6)}))
	globe := model.NewModel(model.WithName("globe"), model.WithParts(model.Part{Mesh: renderertest.NewMesh("globe", 960)}))
	return scene.NewState(
		scene.WithLights(lights),
		scene.WithInstances(
			scene.NewModelInstance(scene.WithModel(floor)),
			scene.NewModelInstance(scene.WithModel(globe), scene.WithAnimation(scene.AnimationTellurion)),
		),
	)
}

func newOrchestrator(t *testing.T, algorithm shadow.Algorithm, options ...OrchestratorBuilderOption) (*Orchestrator, *renderertest.Recorder) {
	t.Helper()
	r := renderertest.NewRecorder(800, 600)
	state := newScene()
	bank := shadow.NewTargetBank(r, len(state.Lights.Directional()), algorithm, 256, common.NewNopLogger())
	options = append([]OrchestratorBuilderOption{WithLogger(common.NewNopLogger())}, options...)
	return NewOrchestrator(r, state, bank, options...), r
}

func TestDrawEndToEndVSM(t *testing.T) {
	var steps []string
	o, r := newOrchestrator(t, shadow.VSM, WithPhaseHook(func(s Step) { steps = append(steps, s.String()) }))

	require.NoError(t, o.Draw())

	var shadowBinds, filterBinds, screenBinds int
	for _, b := range r.CallsOf(renderertest.OpBindRenderTarget) {
		switch b.Target {
		case "shadow0", "shadow1":
			shadowBinds++
		case "":
			screenBinds++
		default:
			filterBinds++
		}
	}
	assert.Equal(t, 2, shadowBinds)
	assert.Equal(t, 4, filterBinds)
	assert.Equal(t, 1, screenBinds)

	var compositeDraws []renderertest.Call
	for _, d := range r.Draws() {
		if d.Program == shader.SceneProgramKey {
			compositeDraws = append(compositeDraws, d)
		}
	}
	require.Len(t, compositeDraws, 2)
	assert.Equal(t, "floor", compositeDraws[0].Mesh)
	assert.Equal(t, "globe", compositeDraws[1].Mesh)

	culls := r.CallsOf(renderertest.OpSetCullMode)
	require.Len(t, culls, 2)
	assert.Equal(t, renderer.CullFront, culls[0].Cull)
	assert.Equal(t, renderer.CullBack, culls[1].Cull)
	for _, d := range compositeDraws {
		assert.Equal(t, renderer.CullBack, d.Cull)
	}

	assert.Equal(t, []string{
		"shadow(0)", "shadow(1)", "filter(0)", "filter(1)", "restore", "composite", "idle",
	}, steps)
	phase, idx := o.Phase()
	assert.Equal(t, PhaseIdle, phase)
	assert.Equal(t, -1, idx)
}

func TestDrawPCFSkipsFilter(t *testing.T) {
	o, r := newOrchestrator(t, shadow.DepthPCF)
	require.NoError(t, o.Draw())

	assert.Zero(t, r.Count(renderertest.OpDrawFullscreenTriangle))
	assert.Len(t, r.CallsOf(renderertest.OpBindRenderTarget), 3)
	assert.Equal(t, 2, r.Count(renderertest.OpSetCullMode))
}

func TestDrawNoneOnlyComposites(t *testing.T) {
	o, r := newOrchestrator(t, shadow.None)
	require.NoError(t, o.Draw())

	assert.Zero(t, r.Count(renderertest.OpSetCullMode))
	binds := r.CallsOf(renderertest.OpBindRenderTarget)
	require.Len(t, binds, 1)
	assert.Equal(t, "", binds[0].Target)
	require.Len(t, r.Draws(), 2)
	for _, d := range r.Draws() {
		assert.Equal(t, renderer.CullBack, d.Cull)
	}
}

func TestDrawRestoresBackFaceCulling(t *testing.T) {
	for _, algorithm := range []shadow.Algorithm{shadow.None, shadow.DepthPCF, shadow.VSM} {
		t.Run(algorithm.String(), func(t *testing.T) {
			o, r := newOrchestrator(t, algorithm)
			r.SetCullMode(renderer.CullNone)
			r.Reset()

			require.NoError(t, o.Draw())

			draws := r.Draws()
			require.NotEmpty(t, draws)
			for _, d := range draws {
				if d.Program == shader.SceneProgramKey {
					assert.Equal(t, renderer.CullBack, d.Cull)
				}
			}
			assert.Equal(t, renderer.CullBack, r.CullMode())
		})
	}
}

func TestDrawRecomputesLightSpaceAfterNudge(t *testing.T) {
	in := &keys{held: map[uint32]bool{common.KeyUp: true}, blinn: true}
	bounds := light.DefaultNudgeBounds()
	o, r := newOrchestrator(t, shadow.DepthPCF, WithInput(in), WithNudgeBounds(bounds))
	l := o.State().Lights.Directional()[0]

	require.NoError(t, o.Draw())
	assert.InDelta(t, -1-bounds.Step, l.Direction().Y(), 1e-6)
	assert.True(t, o.State().Blinn)
	assert.Equal(t, light.LightSpaceMatrix(l.Direction(), o.State().Volume), l.LightSpaceMatrix())

	prog, err := shader.ShadowProgram().Locate("lightSpaceMatrix")
	require.NoError(t, err)
	assert.Equal(t, l.LightSpaceMatrix(), r.Draws()[0].Uniforms.Mat4(prog))

	for range 500 {
		require.NoError(t, o.Draw())
	}
	assert.Equal(t, bounds.MinY, l.Direction().Y())
	assert.Equal(t, float32(0.5), o.State().Lights.Directional()[1].Direction().X(), "only light 0 is nudged")
}

func TestDrawAdvancesAnimationWithClock(t *testing.T) {
	clock := &manualClock{now: time.Unix(1000, 0)}
	o, r := newOrchestrator(t, shadow.None, WithClock(clock.Now))
	model, err := shader.SceneProgram().Locate("model")
	require.NoError(t, err)

	require.NoError(t, o.Draw())
	first := r.Draws()
	clock.now = clock.now.Add(1500 * time.Millisecond)
	r.Reset()
	require.NoError(t, o.Draw())
	second := r.Draws()

	assert.Equal(t, 1500*time.Millisecond, o.State().Elapsed)
	assert.Equal(t, first[0].Uniforms.Mat4(model), second[0].Uniforms.Mat4(model), "static instance")
	assert.False(t, first[1].Uniforms.Mat4(model).ApproxEqual(second[1].Uniforms.Mat4(model)), "spinning instance")

	want := o.State().Instances[1].ModelMatrix(1500*time.Millisecond, scene.DefaultAnimationParams())
	assert.True(t, want.ApproxEqualThreshold(second[1].Uniforms.Mat4(model), 1e-5))
	assert.NotEqual(t, mgl32.Ident4(), want)
}
