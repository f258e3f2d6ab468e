package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/qmuntal/gltf"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter defines the interface for orchestrating a full glTF/GLB import.
// It decodes the document and runs the mesh and material extractors to produce an
// ImportedModel.
type gltfImporter interface {
	// Import loads a glTF/GLB file and extracts meshes and materials into an ImportedModel.
	// External buffers and images are resolved relative to the file.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *model.ImportedModel: the fully populated imported model
	//   - error: error if import fails
	Import(path string) (*model.ImportedModel, error)

	// ImportReader loads a self-contained glTF JSON or GLB stream.
	//
	// Parameters:
	//   - name: the model name
	//   - r: the reader providing glTF/GLB data
	//
	// Returns:
	//   - *model.ImportedModel: the fully populated imported model
	//   - error: error if import fails
	ImportReader(name string, r io.Reader) (*model.ImportedModel, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*model.ImportedModel, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return imp.importDocument(doc, name, filepath.Dir(path))
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader) (*model.ImportedModel, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to parse from reader: %w", err)
	}
	return imp.importDocument(doc, name, "")
}

func (imp *gltfImporterImpl) importDocument(doc *gltf.Document, name, dir string) (*model.ImportedModel, error) {
	meshes, err := extractMeshes(doc)
	if err != nil {
		return nil, err
	}
	if len(meshes) == 0 {
		return nil, fmt.Errorf("%q has no triangle meshes", name)
	}
	return &model.ImportedModel{
		Name:      name,
		Meshes:    meshes,
		Materials: extractMaterials(doc, dir),
	}, nil
}
