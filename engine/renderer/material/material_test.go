package material

import (
	"testing"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyWritesCoefficientsAndFlags(t *testing.T) {
	prog := shader.SceneProgram()
	h := ResolveHandles(prog)
	r := renderertest.NewRecorder(800, 600)

	diffuse := renderertest.NewTexture("brick", 4, 4, renderer.FormatRGBA8)
	m := NewMaterial(
		WithName("brick"),
		WithCoefficients(mgl32.Vec3{0.2, 0.2, 0.2}, mgl32.Vec3{0.8, 0.4, 0.1}, mgl32.Vec3{1, 1, 1}),
		WithShininess(64),
		WithMap(DiffuseMap, diffuse),
	)
	m.Apply(r, prog, h)

	hasDiffuse, err := prog.Locate("material.hasDiffuseMap")
	require.NoError(t, err)
	hasNormal, err := prog.Locate("material.hasNormalMap")
	require.NoError(t, err)
	diff, err := prog.Locate("material.diffuse")
	require.NoError(t, err)
	shine, err := prog.Locate("material.shininess")
	require.NoError(t, err)

	assert.Equal(t, int32(1), prog.Int(hasDiffuse))
	assert.Equal(t, int32(0), prog.Int(hasNormal))
	assert.Equal(t, mgl32.Vec3{0.8, 0.4, 0.1}, prog.Vec3(diff))
	assert.Equal(t, float32(64), prog.Float(shine))

	slot, ok := prog.TextureSlot("diffuseMap")
	require.True(t, ok)
	assert.Equal(t, map[int]string{slot: "brick"}, r.BoundTextures())
}

func TestApplyUnbindsPreviousMaps(t *testing.T) {
	prog := shader.SceneProgram()
	h := ResolveHandles(prog)
	r := renderertest.NewRecorder(800, 600)

	textured := NewMaterial(
		WithMap(DiffuseMap, renderertest.NewTexture("a", 1, 1, renderer.FormatRGBA8)),
		WithMap(SpecularMap, renderertest.NewTexture("b", 1, 1, renderer.FormatRGBA8)),
	)
	plain := NewMaterial()

	textured.Apply(r, prog, h)
	assert.Len(t, r.BoundTextures(), 2)
	plain.Apply(r, prog, h)
	assert.Empty(t, r.BoundTextures())
}

func TestImportedMaterial(t *testing.T) {
	m := NewMaterial(WithImported(common.ImportedMaterial{
		Name:      "steel",
		Ambient:   [3]float32{0.1, 0.1, 0.1},
		Diffuse:   [3]float32{0.5, 0.5, 0.6},
		Specular:  [3]float32{0.9, 0.9, 0.9},
		Shininess: 0.5,
	}))

	assert.Equal(t, "steel", m.Name())
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0.6}, m.Diffuse())
	assert.Equal(t, float32(1), m.Shininess())
	assert.Nil(t, m.Map(NormalMap))
	assert.Nil(t, m.Map(Map(7)))
	assert.Equal(t, "normalMap", NormalMap.String())
}
