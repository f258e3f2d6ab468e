package loader

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/qmuntal/gltf"
)

// extractMaterials converts every glTF material into Phong coefficients. The metallic
// roughness model maps as follows: diffuse is the base colour darkened by metalness,
// specular blends from 4% grey to the base colour with metalness, shininess falls with
// roughness and ambient is a tenth of the diffuse term.
//
// Texture references are resolved to image bytes (embedded) or to a path relative to
// dir (external). Nothing is decoded here.
//
// Parameters:
//   - doc: the decoded glTF document
//   - dir: the directory external images are resolved against
//
// Returns:
//   - []common.ImportedMaterial: one entry per document material
func extractMaterials(doc *gltf.Document, dir string) []common.ImportedMaterial {
	out := make([]common.ImportedMaterial, len(doc.Materials))
	for i, m := range doc.Materials {
		base := [4]float64{1, 1, 1, 1}
		metallic, roughness := 1.0, 1.0
		var baseTex *gltf.TextureInfo
		if pbr := m.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				base = *pbr.BaseColorFactor
			}
			if pbr.MetallicFactor != nil {
				metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				roughness = *pbr.RoughnessFactor
			}
			baseTex = pbr.BaseColorTexture
		}

		name := m.Name
		if name == "" {
			name = fmt.Sprintf("material%d", i)
		}

		imp := common.ImportedMaterial{
			Name:      name,
			Shininess: shininessFromRoughness(roughness),
		}
		for c := range 3 {
			diffuse := base[c] * (1 - metallic)
			imp.Diffuse[c] = float32(diffuse)
			imp.Ambient[c] = float32(diffuse * 0.1)
			imp.Specular[c] = float32(0.04*(1-metallic) + base[c]*metallic)
		}

		if baseTex != nil {
			imp.DiffuseTexture = textureRef(doc, baseTex.Index, dir, name+".diffuse")
		}
		if m.NormalTexture != nil && m.NormalTexture.Index != nil {
			imp.NormalTexture = textureRef(doc, *m.NormalTexture.Index, dir, name+".normal")
		}
		out[i] = imp
	}
	return out
}

// shininessFromRoughness converts a roughness in [0,1] to a Phong exponent in [1,256].
func shininessFromRoughness(roughness float64) float32 {
	r := math.Max(roughness, 0.0625)
	s := 2/math.Pow(r, 4) - 2
	return float32(math.Min(math.Max(s, 1), 256))
}

// textureRef returns the image behind a glTF texture index, or nil when the texture has
// no usable source.
func textureRef(doc *gltf.Document, textureIndex int, dir, name string) *common.ImportedTexture {
	if textureIndex < 0 || textureIndex >= len(doc.Textures) {
		return nil
	}
	src := doc.Textures[textureIndex].Source
	if src == nil || *src < 0 || *src >= len(doc.Images) {
		return nil
	}
	img := doc.Images[*src]
	tex := &common.ImportedTexture{Name: name, MimeType: img.MimeType}

	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		data := doc.Buffers[bv.Buffer].Data
		end := bv.ByteOffset + bv.ByteLength
		if end > len(data) {
			return nil
		}
		tex.Data = data[bv.ByteOffset:end]
	case img.IsEmbeddedResource():
		data, err := img.MarshalData()
		if err != nil {
			return nil
		}
		tex.Data = data
	case img.URI != "":
		tex.Path = filepath.Join(dir, filepath.FromSlash(img.URI))
	default:
		return nil
	}
	return tex
}
