package shadow

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
)

// ShadowPass renders every drawable instance from each directional light into that
// light's shadow target.
type ShadowPass struct {
	bank    TargetBank
	program shader.Program
	logger  common.Logger

	lightSpace shader.UniformHandle
	model      shader.UniformHandle
}

// NewShadowPass creates the depth capture pass for bank. It panics if the embedded
// shadow program does not declare its uniforms.
//
// Parameters:
//   - bank: the targets to render into
//   - logger: where skipped targets are reported, the default logger when nil
//
// Returns:
//   - *ShadowPass: the pass
func NewShadowPass(bank TargetBank, logger common.Logger) *ShadowPass {
	if logger == nil {
		logger = common.NewDefaultLogger("shadow", false)
	}
	p := &ShadowPass{
		bank:    bank,
		program: shader.ShadowProgram(),
		logger:  logger,
	}
	p.lightSpace = mustLocate(p.program, "lightSpaceMatrix")
	p.model = mustLocate(p.program, "model")
	return p
}

func mustLocate(p shader.Program, name string) shader.UniformHandle {
	h, err := p.Locate(name)
	if err != nil {
		panic(fmt.Sprintf("shadow: %s program: %v", p.Key(), err))
	}
	return h
}

// Program returns the shadow program.
func (p *ShadowPass) Program() shader.Program { return p.program }

// Lights returns how many lights the pass renders this frame: the directional lights
// that have a slot in the bank, or 0 when shadows are disabled.
func (p *ShadowPass) Lights(state *scene.State) int {
	if !p.bank.Algorithm().Enabled() {
		return 0
	}
	return min(len(state.Lights.Directional()), p.bank.LightCount())
}

// Begin switches to front-face culling for the depth captures. It does nothing when
// shadows are disabled.
func (p *ShadowPass) Begin(r renderer.Renderer) {
	if p.bank.Algorithm().Enabled() {
		r.SetCullMode(renderer.CullFront)
	}
}

// End restores back-face culling for the composite pass. It does nothing when shadows
// are disabled.
func (p *ShadowPass) End(r renderer.Renderer) {
	if p.bank.Algorithm().Enabled() {
		r.SetCullMode(renderer.CullBack)
	}
}

// RunLight captures depth for directional light i. An incomplete target is skipped.
//
// Parameters:
//   - r: the renderer
//   - state: the frame state
//   - i: the directional light index
//
// Returns:
//   - error: an error if the target could not be bound for any reason other than being incomplete
func (p *ShadowPass) RunLight(r renderer.Renderer, state *scene.State, i int) error {
	target := p.bank.Shadow(i)
	if target == nil || i >= len(state.Lights.Directional()) {
		return nil
	}

	clear := renderer.ClearOptions{ClearDepth: true, Depth: 1}
	if p.bank.Algorithm() == VSM {
		clear.ClearColor = true
		clear.Color = [4]float64{1, 1, 0, 1}
	}
	if err := r.BindRenderTarget(target, clear); err != nil {
		if errors.Is(err, renderer.ErrIncompleteTarget) {
			p.logger.Debugf("skipping shadow target %q: %v", target.Label(), err)
			return nil
		}
		return fmt.Errorf("shadow pass light %d: %w", i, err)
	}

	res := p.bank.Resolution()
	r.SetViewport(0, 0, res, res)
	r.UseProgram(p.program)
	p.program.SetMat4(p.lightSpace, state.Lights.Directional()[i].LightSpaceMatrix())

	for _, inst := range state.Drawable() {
		p.program.SetMat4(p.model, inst.ModelMatrix(state.Elapsed, state.Animation))
		for _, part := range inst.Model().Parts() {
			if part.Mesh != nil {
				r.DrawMesh(part.Mesh)
			}
		}
	}
	return nil
}

// Run captures depth for every directional light in index order, between one switch to
// front-face culling and one switch back. Light parameters are only read.
//
// Parameters:
//   - r: the renderer
//   - state: the frame state
//   - onLight: called with each light index before its capture, may be nil
//
// Returns:
//   - error: the first bind error other than an incomplete target
func (p *ShadowPass) Run(r renderer.Renderer, state *scene.State, onLight func(i int)) error {
	n := p.Lights(state)
	if n == 0 {
		return nil
	}
	p.Begin(r)
	defer p.End(r)
	for i := range n {
		if onLight != nil {
			onLight(i)
		}
		if err := p.RunLight(r, state, i); err != nil {
			return err
		}
	}
	return nil
}
