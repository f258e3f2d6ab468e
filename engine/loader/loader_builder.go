package loader

import (
	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithRenderer is an option builder that sets the device the Loader uploads meshes and
// textures to.
//
// Parameters:
//   - r: the renderer, or any other Uploader
//
// Returns:
//   - LoaderBuilderOption: a function that applies the renderer option to a loader
func WithRenderer(r Uploader) LoaderBuilderOption {
	return func(l *loader) {
		l.uploader = r
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}

// WithLogger sets the logger used for texture decode and upload failures.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger common.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithDecodeWorkers sets how many goroutines decode textures concurrently.
//
// Parameters:
//   - n: the worker count, values below 1 are raised to 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithDecodeWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.decodeWorkers = max(n, 1)
	}
}

// WithMaxTextureDimension caps decoded texture sides below the device limit.
//
// Parameters:
//   - n: the cap in pixels, 0 keeps the device limit
//
// Returns:
//   - LoaderBuilderOption: a function that applies the cap to a loader
func WithMaxTextureDimension(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.maxTexture = max(n, 0)
	}
}
