// Package orchestrator sequences the passes of one frame: shadow capture per light,
// the VSM blur per light, the screen viewport restore and the composite.
package orchestrator

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/composite"
	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
	"github.com/Carmen-Shannon/tellurion/engine/shadow"
)

// Input is the per-frame keyboard state. The window satisfies it.
type Input interface {
	// KeyPressed reports whether key is held down.
	KeyPressed(key uint32) bool
	// BlinnEnabled reports the current Blinn-Phong toggle.
	BlinnEnabled() bool
}

// Orchestrator draws one frame per Draw call. Frame begin, end and present stay with the
// caller's loop.
type Orchestrator struct {
	renderer  renderer.Renderer
	state     *scene.State
	bank      shadow.TargetBank
	shadow    *shadow.ShadowPass
	filter    *shadow.FilterStage
	composite *composite.Pass

	input  Input
	bounds light.NudgeBounds
	clock  func() time.Time
	last   time.Time
	logger common.Logger
	hook   func(Step)

	mu   sync.Mutex
	step Step
}

// NewOrchestrator wires the passes for state around the targets in bank.
//
// Parameters:
//   - r: the renderer every pass draws with
//   - state: the frame state, shared with the caller
//   - bank: the shadow targets, which fix the algorithm
//   - options: functional options to configure the orchestrator
//
// Returns:
//   - *Orchestrator: the orchestrator, in PhaseIdle
func NewOrchestrator(r renderer.Renderer, state *scene.State, bank shadow.TargetBank, options ...OrchestratorBuilderOption) *Orchestrator {
	o := &Orchestrator{
		renderer: r,
		state:    state,
		bank:     bank,
		bounds:   light.DefaultNudgeBounds(),
		clock:    time.Now,
		step:     Step{Phase: PhaseIdle, Light: -1},
	}
	var passOptions []composite.PassBuilderOption
	for _, option := range options {
		option(o, &passOptions)
	}
	if o.logger == nil {
		o.logger = common.NewDefaultLogger("orchestrator", false)
	}
	o.shadow = shadow.NewShadowPass(bank, o.logger)
	o.filter = shadow.NewFilterStage(bank, o.logger)
	o.composite = composite.NewPass(bank, passOptions...)
	return o
}

// State returns the frame state.
func (o *Orchestrator) State() *scene.State { return o.state }

// Phase returns the current phase and, during the shadow and filter phases, the light
// being processed (-1 otherwise).
//
// Returns:
//   - Phase: the current phase
//   - int: the light index or -1
func (o *Orchestrator) Phase() (Phase, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step.Phase, o.step.Light
}

func (o *Orchestrator) enter(p Phase, lightIndex int) {
	s := Step{Phase: p, Light: lightIndex}
	o.mu.Lock()
	o.step = s
	o.mu.Unlock()
	if o.hook != nil {
		o.hook(s)
	}
}

// Draw renders one frame: it samples input once, recomputes every light-space matrix,
// captures each light's shadow map, blurs the moments under VSM, restores the screen
// viewport and back-face culling, and draws the composite. The orchestrator is back in
// PhaseIdle on return, error or not.
//
// Returns:
//   - error: the first pass error; incomplete targets are skipped, not reported
func (o *Orchestrator) Draw() error {
	defer o.enter(PhaseIdle, -1)

	now := o.clock()
	if o.last.IsZero() {
		o.last = now
	}
	o.state.Advance(now.Sub(o.last))
	o.last = now
	o.readInput()
	o.state.Lights.RecomputeLightSpace(o.state.Volume)

	r, state := o.renderer, o.state
	if err := o.shadow.Run(r, state, func(i int) { o.enter(PhaseShadow, i) }); err != nil {
		return err
	}
	if err := o.filter.Run(r, state, func(i int) { o.enter(PhaseFilter, i) }); err != nil {
		return err
	}

	o.enter(PhaseRestore, -1)
	w, h := r.ScreenSize()
	r.SetViewport(0, 0, w, h)
	if r.CullMode() != renderer.CullBack {
		r.SetCullMode(renderer.CullBack)
	}

	o.enter(PhaseComposite, -1)
	return o.composite.Run(r, state)
}

func (o *Orchestrator) readInput() {
	if o.input == nil {
		return
	}
	nudge := light.NudgeInput{
		Up:    o.input.KeyPressed(common.KeyUp),
		Down:  o.input.KeyPressed(common.KeyDown),
		Left:  o.input.KeyPressed(common.KeyLeft),
		Right: o.input.KeyPressed(common.KeyRight),
	}
	if nudge.Any() {
		o.state.Lights.Nudge(0, nudge, o.bounds)
	}
	o.state.Blinn = o.input.BlinnEnabled()
}
