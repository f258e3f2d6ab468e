package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/model"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/material"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// Uploader is the part of the renderer the loader needs: mesh and texture creation and
// the device's texture size limit. renderer.Renderer satisfies it.
type Uploader interface {
	MaxTextureDimension() int
	CreateMesh(label string, vertices []byte, indices []uint32) (renderer.Mesh, error)
	CreateTexture(label string, data common.TextureStagingData) (renderer.Texture, error)
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	uploader Uploader
	logger   common.Logger

	// decodePool fans texture decoding out over a bounded set of reusable goroutines.
	decodeWorkers int
	decodePool    worker.DynamicWorkerPool
	maxTexture    int

	modelCache map[string]model.Model

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching 3D models.
// It abstracts the file format (glTF, GLB) behind a generic backend and manages a cache
// of previously loaded models, so scene instances that name the same file share one
// upload.
type Loader interface {
	// Load imports a model file, uploads its meshes and textures, and caches the result.
	// If the model is already cached (by cleaned file path), the cached version is
	// returned. Textures that fail to decode or upload are logged and left out; the
	// material then shades from its coefficients.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if the file cannot be read or a mesh cannot be uploaded
	Load(path string) (model.Model, error)

	// LoadReader imports a self-contained glTF or GLB stream and caches it by name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// Release frees every cached model and empties the cache.
	Release()
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:            sync.RWMutex{},
		logger:        common.NewDefaultLogger("loader", false),
		decodeWorkers: 4,
		modelCache:    make(map[string]model.Model),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}

	l.decodePool = worker.NewDynamicWorkerPool(l.decodeWorkers, 256, 1*time.Second)
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	key := filepath.Clean(path)
	if cached := l.Get(key); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(key)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	m, err := l.importedToModel(imported, key)
	if err != nil {
		return nil, err
	}
	return l.store(key, m), nil
}

func (l *loader) LoadReader(name string, r io.Reader) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	imported, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m, err := l.importedToModel(imported, "")
	if err != nil {
		return nil, err
	}
	return l.store(name, m), nil
}

// store caches m under key. When another goroutine stored the same key first, m is
// released and the cached model wins.
func (l *loader) store(key string, m model.Model) model.Model {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cached, ok := l.modelCache[key]; ok {
		m.Release()
		return cached
	}
	l.modelCache[key] = m
	return m
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, m := range l.modelCache {
		m.Release()
		delete(l.modelCache, key)
	}
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %s", ext)
	}
}

// textureJob is one material map waiting to be decoded and uploaded.
type textureJob struct {
	material int
	which    material.Map
	source   *common.ImportedTexture
	staging  common.TextureStagingData
	err      error
}

// importedToModel converts an ImportedModel (CPU data) into a Model (engine-ready).
// Texture decoding runs on the decode pool; every GPU upload happens on the calling
// goroutine after the decodes are joined.
//
// Parameters:
//   - imported: the CPU-side ImportedModel containing mesh and material data
//   - path: the source path recorded on the model
//
// Returns:
//   - model.Model: the engine-ready Model with uploaded meshes
//   - error: error if a mesh upload fails
func (l *loader) importedToModel(imported *model.ImportedModel, path string) (model.Model, error) {
	if l.uploader == nil {
		return nil, fmt.Errorf("loader: cannot upload %q without a renderer", imported.Name)
	}

	jobs := l.decodeTextures(imported)

	mats := make([]material.Material, len(imported.Materials))
	for i, imp := range imported.Materials {
		mats[i] = material.NewMaterial(material.WithImported(imp))
	}

	var textures []renderer.Texture
	for _, job := range jobs {
		if job.err != nil {
			l.logger.Warnf("%s: %v", imported.Name, job.err)
			continue
		}
		label := fmt.Sprintf("%s/%s", imported.Name, job.source.Name)
		tex, err := l.uploader.CreateTexture(label, job.staging)
		if err != nil {
			l.logger.Warnf("%s: upload %s: %v", imported.Name, label, err)
			continue
		}
		textures = append(textures, tex)
		mats[job.material].SetMap(job.which, tex)
	}

	var radius float32
	parts := make([]model.Part, 0, len(imported.Meshes))
	for _, mesh := range imported.Meshes {
		label := fmt.Sprintf("%s/%s", imported.Name, mesh.Name)
		gpuMesh, err := l.uploader.CreateMesh(label, model.MarshalVertices(mesh.Vertices), mesh.Indices)
		if err != nil {
			for _, p := range parts {
				p.Mesh.Release()
			}
			for _, t := range textures {
				t.Release()
			}
			return nil, fmt.Errorf("failed to upload mesh %q: %w", label, err)
		}

		part := model.Part{Mesh: gpuMesh}
		if mesh.MaterialIndex >= 0 && mesh.MaterialIndex < len(mats) {
			part.Material = mats[mesh.MaterialIndex]
		}
		parts = append(parts, part)
		radius = max(radius, model.ComputeBoundingRadius(mesh.Vertices))
	}

	return model.NewModel(
		model.WithName(imported.Name),
		model.WithPath(path),
		model.WithParts(parts...),
		model.WithMaterials(mats...),
		model.WithTextures(textures...),
		model.WithBoundingRadius(radius),
	), nil
}

// decodeTextures decodes every material map of imported on the decode pool and waits
// for all of them. Images above the device limit are downscaled while decoding.
func (l *loader) decodeTextures(imported *model.ImportedModel) []*textureJob {
	var jobs []*textureJob
	for i, imp := range imported.Materials {
		for which, src := range [...]*common.ImportedTexture{
			material.DiffuseMap:  imp.DiffuseTexture,
			material.NormalMap:   imp.NormalTexture,
			material.SpecularMap: imp.SpecularTexture,
		} {
			if src != nil {
				jobs = append(jobs, &textureJob{material: i, which: material.Map(which), source: src})
			}
		}
	}

	limit := l.uploader.MaxTextureDimension()
	if l.maxTexture > 0 && (limit <= 0 || l.maxTexture < limit) {
		limit = l.maxTexture
	}
	var wg sync.WaitGroup
	for id, job := range jobs {
		wg.Add(1)
		l.decodePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				job.staging, job.err = job.source.Decode(limit)
				return nil, job.err
			},
		})
	}
	wg.Wait()
	return jobs
}
