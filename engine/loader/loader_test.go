package loader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/material"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/renderertest"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// writeTriangle saves a GLB holding one textured triangle without normals.
func writeTriangle(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()
	if len(doc.Buffers) == 0 {
		doc.Buffers = append(doc.Buffers, new(gltf.Buffer))
	}
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range 16 {
		img.Set(i%4, i/4, color.RGBA{R: 255, A: 255})
	}
	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, img))

	buf := doc.Buffers[0]
	offset := len(buf.Data)
	buf.Data = append(buf.Data, encoded.Bytes()...)
	buf.ByteLength = len(buf.Data)
	doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{Buffer: 0, ByteOffset: offset, ByteLength: encoded.Len()})
	doc.Images = append(doc.Images, &gltf.Image{MimeType: "image/png", BufferView: ptr(len(doc.BufferViews) - 1)})
	doc.Textures = append(doc.Textures, &gltf.Texture{Source: ptr(0)})
	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "painted",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float64{0.5, 0.25, 1, 1},
			MetallicFactor:   ptr(0.0),
			RoughnessFactor:  ptr(0.5),
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	})
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    ptr(idx),
			Material:   ptr(0),
			Attributes: map[string]int{gltf.POSITION: pos, gltf.TEXCOORD_0: uv},
		}},
	})

	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func newTestLoader(r *renderertest.Recorder) Loader {
	return NewLoader(BackendTypeGLTF,
		WithRenderer(r),
		WithLogger(common.NewNopLogger()),
		WithDecodeWorkers(2),
	)
}

func TestLoadUploadsMeshesAndMaterials(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	r.MaxDimension = 2
	l := newTestLoader(r)
	path := writeTriangle(t)

	m, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tri", m.Name())
	assert.Equal(t, path, m.Path())
	require.Len(t, m.Parts(), 1)
	part := m.Parts()[0]
	assert.Equal(t, 3, part.Mesh.IndexCount())
	assert.Equal(t, "tri/tri", part.Mesh.Label())

	require.NotNil(t, part.Material)
	assert.Equal(t, "painted", part.Material.Name())
	assert.InDelta(t, 0.25, part.Material.Diffuse().Y(), 1e-6)
	assert.InDelta(t, 30, part.Material.Shininess(), 1e-3)

	diffuse := part.Material.Map(material.DiffuseMap)
	require.NotNil(t, diffuse, "the embedded image becomes the diffuse map")
	assert.Equal(t, 2, diffuse.Width(), "images above the device limit are downscaled")
	assert.Nil(t, part.Material.Map(material.NormalMap))
	assert.InDelta(t, 1.0, float64(m.BoundingRadius()), 1e-6)
}

func TestLoadCachesByPath(t *testing.T) {
	l := newTestLoader(renderertest.NewRecorder(800, 600))
	path := writeTriangle(t)

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(filepath.Join(filepath.Dir(path), ".", "tri.glb"))
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, l.Models(), 1)
	assert.Same(t, first, l.Get(path))

	l.Release()
	assert.Empty(t, l.Models())
	assert.True(t, first.Parts() == nil)
}

func TestLoadErrors(t *testing.T) {
	l := newTestLoader(renderertest.NewRecorder(800, 600))

	_, err := l.Load("scene.obj")
	assert.ErrorContains(t, err, "unsupported model format")

	_, err = l.Load(filepath.Join(t.TempDir(), "missing.glb"))
	assert.Error(t, err)

	noRenderer := NewLoader(BackendTypeGLTF, WithLogger(common.NewNopLogger()))
	_, err = noRenderer.Load(writeTriangle(t))
	assert.ErrorContains(t, err, "without a renderer")
}

func TestComputeFaceNormals(t *testing.T) {
	vertices := []model.GPUVertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}
	computeFaceNormals(vertices, []uint32{0, 1, 2})
	for _, v := range vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
	}
}

func TestShininessFromRoughness(t *testing.T) {
	assert.Equal(t, float32(256), shininessFromRoughness(0))
	assert.Equal(t, float32(1), shininessFromRoughness(1))
	assert.InDelta(t, 30, shininessFromRoughness(0.5), 1e-3)
}

func TestMaxTextureDimensionOption(t *testing.T) {
	r := renderertest.NewRecorder(800, 600)
	r.MaxDimension = 8192
	l := NewLoader(BackendTypeGLTF,
		WithRenderer(r),
		WithLogger(common.NewNopLogger()),
		WithMaxTextureDimension(1),
	)

	m, err := l.Load(writeTriangle(t))
	require.NoError(t, err)
	diffuse := m.Parts()[0].Material.Map(material.DiffuseMap)
	require.NotNil(t, diffuse)
	assert.Equal(t, 1, diffuse.Width())
}
