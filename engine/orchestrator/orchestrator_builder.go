package orchestrator

import (
	"time"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/composite"
	"github.com/Carmen-Shannon/tellurion/engine/light"
)

// OrchestratorBuilderOption is a functional option for configuring an Orchestrator during
// construction. Options that configure the composite pass append to passOptions.
type OrchestratorBuilderOption func(o *Orchestrator, passOptions *[]composite.PassBuilderOption)

// WithInput sets the keyboard source sampled at the start of each frame.
//
// Parameters:
//   - in: the input source, usually the window
//
// Returns:
//   - OrchestratorBuilderOption: functional option to set the input
func WithInput(in Input) OrchestratorBuilderOption {
	return func(o *Orchestrator, _ *[]composite.PassBuilderOption) {
		o.input = in
	}
}

// WithNudgeBounds sets the arrow-key step and the clamp ranges for directional light 0.
func WithNudgeBounds(b light.NudgeBounds) OrchestratorBuilderOption {
	return func(o *Orchestrator, _ *[]composite.PassBuilderOption) {
		o.bounds = b
	}
}

// WithClock replaces time.Now as the source of the scene's elapsed time.
func WithClock(clock func() time.Time) OrchestratorBuilderOption {
	return func(o *Orchestrator, _ *[]composite.PassBuilderOption) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the logger shared by the passes.
func WithLogger(logger common.Logger) OrchestratorBuilderOption {
	return func(o *Orchestrator, _ *[]composite.PassBuilderOption) {
		o.logger = logger
	}
}

// WithPhaseHook registers a function called on every phase transition, on the drawing
// goroutine.
func WithPhaseHook(hook func(Step)) OrchestratorBuilderOption {
	return func(o *Orchestrator, _ *[]composite.PassBuilderOption) {
		o.hook = hook
	}
}

// WithPassOptions forwards options to the composite pass.
func WithPassOptions(options ...composite.PassBuilderOption) OrchestratorBuilderOption {
	return func(_ *Orchestrator, passOptions *[]composite.PassBuilderOption) {
		*passOptions = append(*passOptions, options...)
	}
}
