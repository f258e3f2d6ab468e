package renderertest

import (
	"testing"

	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderSnapshotsUniformsPerDraw(t *testing.T) {
	r := NewRecorder(800, 600)
	prog := shader.ShadowProgram()
	model, err := prog.Locate("model")
	require.NoError(t, err)

	target, err := r.CreateRenderTarget(renderer.TargetDescriptor{Label: "shadow0", Width: 512, Height: 512, Depth: true})
	require.NoError(t, err)
	require.NoError(t, r.BindRenderTarget(target, renderer.ClearOptions{ClearDepth: true, Depth: 1}))
	r.UseProgram(prog)

	mesh := NewMesh("cube", 36)
	prog.SetMat4(model, mgl32.Translate3D(1, 0, 0))
	r.DrawMesh(mesh)
	prog.SetMat4(model, mgl32.Translate3D(2, 0, 0))
	r.DrawMesh(mesh)

	draws := r.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, "shadow0", draws[0].Target)
	assert.Equal(t, shader.ShadowProgramKey, draws[0].Program)
	assert.Equal(t, "cube", draws[0].Mesh)
	assert.InDelta(t, 1, draws[0].Uniforms.Mat4(model).At(0, 3), 1e-6)
	assert.InDelta(t, 2, draws[1].Uniforms.Mat4(model).At(0, 3), 1e-6)
}

func TestRecorderTargets(t *testing.T) {
	r := NewRecorder(800, 600)
	r.FailTargets["shadow1"] = true

	vsm, err := r.CreateRenderTarget(renderer.TargetDescriptor{Label: "shadow0", Width: 256, Height: 256, Depth: true, Color: renderer.FormatRG32Float})
	require.NoError(t, err)
	assert.Equal(t, "shadow0.depth", vsm.Depth().Label())
	assert.Equal(t, renderer.FormatRG32Float, vsm.Color().Format())

	failed, err := r.CreateRenderTarget(renderer.TargetDescriptor{Label: "shadow1", Width: 256, Height: 256, Depth: true})
	assert.ErrorIs(t, err, renderer.ErrIncompleteTarget)
	assert.False(t, failed.Complete())
	assert.ErrorIs(t, r.BindRenderTarget(failed, renderer.ClearOptions{}), renderer.ErrIncompleteTarget)
	assert.Zero(t, r.Count(OpBindRenderTarget))

	vsm.Release()
	assert.False(t, vsm.Complete())
}

func TestRecorderTracksBoundState(t *testing.T) {
	r := NewRecorder(800, 600)
	tex := NewTexture("moments", 64, 64, renderer.FormatRG32Float)
	assert.Equal(t, renderer.CullBack, r.CullMode())

	r.SetCullMode(renderer.CullFront)
	r.BindTexture(0, tex)
	r.UseProgram(shader.BlurProgram())
	require.NoError(t, r.BindRenderTarget(nil, renderer.ClearOptions{}))
	r.DrawFullscreenTriangle()
	r.BindTexture(0, nil)
	r.DrawFullscreenTriangle()

	assert.Equal(t, renderer.CullFront, r.CullMode())
	draws := r.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, map[int]string{0: "moments"}, draws[0].Textures)
	assert.Empty(t, draws[1].Textures)
	assert.Equal(t, "", draws[0].Target)
	assert.Equal(t, 2, r.Count(OpBindTexture))
	assert.Empty(t, r.BoundTextures())

	r.Reset()
	assert.Empty(t, r.Calls)
	assert.Equal(t, renderer.CullFront, r.CullMode())
}
