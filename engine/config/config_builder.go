package config

import "github.com/Carmen-Shannon/tellurion/common"

// LoaderBuilderOption is a functional option applied to a Loader during NewLoader.
type LoaderBuilderOption func(*Loader)

// WithLogger sets the logger that receives load errors.
//
// Parameters:
//   - logger: the logger to use
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a Loader
func WithLogger(logger common.Logger) LoaderBuilderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}
