package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nestedSource = `
struct Inner {
    a: f32,
    b: vec3<f32>,
}

struct Outer {
    inner: Inner,
    scale: f32,
}

struct Params {
    count: i32,
    offsets: array<vec4<f32>, 2>,
    outer: Outer,
}

@group(0) @binding(0) var<uniform> params: Params;

@vertex
fn vs_main(@builtin(vertex_index) i: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}
`

func TestParseUniformName(t *testing.T) {
	cases := map[string]UniformKey{
		"numPointLights":                        {Field: "numPointLights"},
		"material.shininess":                    {Category: "material", Field: "shininess"},
		"pointLights[2].position":               {Category: "pointLights", Index: 2, Field: "position"},
		"directionalLights[0].lightSpaceMatrix": {Category: "directionalLights", Field: "lightSpaceMatrix"},
		"offsets[1]":                            {Category: "offsets", Index: 1},
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := ParseUniformName(name)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, name, got.String())
		})
	}
}

func TestParseUniformName_Malformed(t *testing.T) {
	for _, name := range []string{"", "p[", "p[]", "p[x].y", "[1].a", "a.", "p[-1].x"} {
		_, err := ParseUniformName(name)
		assert.ErrorIs(t, err, ErrUnknownUniform, "name %q", name)
	}
}

func TestUniformTable_SceneLayout(t *testing.T) {
	table := SceneProgram().Uniforms()
	require.NotNil(t, table)

	assert.Equal(t, uint32(1648), table.Size())
	assert.Equal(t, 12+7+4*6+8*8, table.Len())

	offsets := map[string]uint32{
		"model":                                 0,
		"view":                                  64,
		"projection":                            128,
		"viewPos":                               192,
		"blinn":                                 204,
		"numDirectionalLights":                  208,
		"numPointLights":                        212,
		"shadowMapType":                         216,
		"lightWidth":                            220,
		"PCFSampleRadius":                       224,
		"near_plane":                            228,
		"far_plane":                             232,
		"material.ambient":                      240,
		"material.shininess":                    284,
		"material.hasSpecularMap":               296,
		"directionalLights[0].direction":        304,
		"directionalLights[1].lightSpaceMatrix": 304 + 144 + 80,
		"directionalLights[3].lightColor":       304 + 3*144 + 64,
		"pointLights[0].position":               880,
		"pointLights[2].position":               880 + 2*96,
		"pointLights[7].attQuadratic":           880 + 7*96 + 84,
	}
	for name, want := range offsets {
		h, err := table.Locate(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, h.Offset(), name)
	}

	h, err := table.Locate("directionalLights[1].lightSpaceMatrix")
	require.NoError(t, err)
	assert.Equal(t, UniformKindMat4, h.Kind())
	assert.Equal(t, h, table.Handle(UniformKey{Category: "directionalLights", Index: 1, Field: "lightSpaceMatrix"}))
}

func TestUniformTable_UnknownNames(t *testing.T) {
	table := SceneProgram().Uniforms()

	for _, name := range []string{"pointLights[8].position", "directionalLights[0].position", "nope", "material.gloss"} {
		h, err := table.Locate(name)
		assert.ErrorIs(t, err, ErrUnknownUniform, name)
		assert.False(t, h.Valid(), name)
	}
	assert.False(t, table.Handle(UniformKey{Category: "pointLights", Index: 9, Field: "position"}).Valid())
}

func TestUniformTable_NestedStructsAndPrimitiveArrays(t *testing.T) {
	p, err := NewProgram("nested", nestedSource)
	require.NoError(t, err)
	table := p.Uniforms()

	assert.Equal(t, uint32(96), table.Size())

	want := map[UniformKey]uint32{
		{Field: "count"}:                      0,
		{Category: "offsets", Index: 0}:       16,
		{Category: "offsets", Index: 1}:       32,
		{Category: "outer", Field: "inner.a"}: 48,
		{Category: "outer", Field: "inner.b"}: 64,
		{Category: "outer", Field: "scale"}:   80,
	}
	assert.Equal(t, len(want), table.Len())
	for key, offset := range want {
		h := table.Handle(key)
		require.True(t, h.Valid(), key.String())
		assert.Equal(t, offset, h.Offset(), key.String())
	}

	keys := table.Keys()
	require.Len(t, keys, len(want))
	assert.Equal(t, UniformKey{Field: "count"}, keys[0])
	assert.Equal(t, UniformKey{Category: "outer", Field: "scale"}, keys[len(keys)-1])
}
