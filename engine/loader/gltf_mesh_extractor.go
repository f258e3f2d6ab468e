package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// extractMeshes flattens every triangle primitive of every mesh in doc into an
// ImportedMesh. Non-triangle primitives and primitives without positions are skipped.
// Missing normals are computed per face, missing UVs are zero and missing tangents use
// model.DefaultTangent.
//
// Parameters:
//   - doc: the decoded glTF document
//
// Returns:
//   - []model.ImportedMesh: the meshes in document order
//   - error: error if an accessor cannot be read
func extractMeshes(doc *gltf.Document) ([]model.ImportedMesh, error) {
	var meshes []model.ImportedMesh
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}

			name := m.Name
			if name == "" {
				name = fmt.Sprintf("mesh%d", mi)
			}
			if len(m.Primitives) > 1 {
				name = fmt.Sprintf("%s/%d", name, pi)
			}

			mesh, err := extractPrimitive(doc, prim, posIdx)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", name, err)
			}
			mesh.Name = name
			meshes = append(meshes, mesh)
		}
	}
	return meshes, nil
}

func extractPrimitive(doc *gltf.Document, prim *gltf.Primitive, posIdx int) (model.ImportedMesh, error) {
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return model.ImportedMesh{}, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return model.ImportedMesh{}, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return model.ImportedMesh{}, fmt.Errorf("read uvs: %w", err)
		}
	}

	var tangents [][4]float32
	if idx, ok := prim.Attributes[gltf.TANGENT]; ok {
		if tangents, err = modeler.ReadTangent(doc, doc.Accessors[idx], nil); err != nil {
			return model.ImportedMesh{}, fmt.Errorf("read tangents: %w", err)
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return model.ImportedMesh{}, fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indices = indices[:len(indices)-len(indices)%3]

	vertices := make([]model.GPUVertex, len(positions))
	for i, p := range positions {
		v := model.GPUVertex{Position: p, Tangent: model.DefaultTangent}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		if i < len(uvs) {
			v.TexCoord = uvs[i]
		}
		if i < len(tangents) {
			v.Tangent = tangents[i]
		}
		vertices[i] = v
	}
	if len(normals) == 0 {
		computeFaceNormals(vertices, indices)
	}

	mesh := model.ImportedMesh{
		Vertices:      vertices,
		Indices:       indices,
		MaterialIndex: -1,
	}
	if prim.Material != nil {
		mesh.MaterialIndex = *prim.Material
	}
	mesh.ComputeBounds()
	return mesh, nil
}

// computeFaceNormals accumulates area weighted face normals into each vertex and
// normalizes the sum.
func computeFaceNormals(vertices []model.GPUVertex, indices []uint32) {
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		if int(max(a, b, c)) >= len(vertices) {
			continue
		}
		n := cross(sub(vertices[b].Position, vertices[a].Position), sub(vertices[c].Position, vertices[a].Position))
		for _, i := range [3]uint32{a, b, c} {
			for k := range 3 {
				vertices[i].Normal[k] += n[k]
			}
		}
	}
	for i := range vertices {
		vertices[i].Normal = normalize(vertices[i].Normal)
	}
}
