package shadow

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
)

// FilterStage blurs each light's depth moments with a separable gaussian. It only does
// work when the bank was allocated for VSM.
type FilterStage struct {
	bank    TargetBank
	program shader.Program
	logger  common.Logger

	vertical shader.UniformHandle
	radius   shader.UniformHandle
	slot     int
}

// NewFilterStage creates the VSM blur stage for bank. It panics if the embedded blur
// program does not declare its uniforms or its moments texture.
//
// Parameters:
//   - bank: the targets to read and write
//   - logger: where skipped targets are reported, the default logger when nil
//
// Returns:
//   - *FilterStage: the stage
func NewFilterStage(bank TargetBank, logger common.Logger) *FilterStage {
	if logger == nil {
		logger = common.NewDefaultLogger("shadow", false)
	}
	f := &FilterStage{
		bank:    bank,
		program: shader.BlurProgram(),
		logger:  logger,
	}
	f.vertical = mustLocate(f.program, "vertical")
	f.radius = mustLocate(f.program, "radius")
	slot, ok := f.program.TextureSlot("moments")
	if !ok {
		panic("shadow: vsm_blur program declares no moments texture")
	}
	f.slot = slot
	return f
}

// Program returns the blur program.
func (f *FilterStage) Program() shader.Program { return f.program }

// Lights returns how many lights are filtered this frame, 0 unless the bank is VSM.
func (f *FilterStage) Lights(state *scene.State) int {
	if f.bank.Algorithm() != VSM {
		return 0
	}
	return min(len(state.Lights.Directional()), f.bank.LightCount())
}

// RunLight blurs light i: the horizontal sub-pass reads the moment attachment into blur
// target 0, the vertical sub-pass reads blur target 0 into blur target 1. A light with
// any incomplete target is skipped.
//
// Parameters:
//   - r: the renderer
//   - state: the frame state
//   - i: the directional light index
//
// Returns:
//   - error: an error if a target could not be bound for any reason other than being incomplete
func (f *FilterStage) RunLight(r renderer.Renderer, state *scene.State, i int) error {
	src := f.bank.Shadow(i)
	horizontal := f.bank.Blur(i, BlurHorizontal)
	vertical := f.bank.Blur(i, BlurVertical)
	for _, t := range []renderer.RenderTarget{src, horizontal, vertical} {
		if t == nil || !t.Complete() {
			return nil
		}
	}

	if err := f.blur(r, state, horizontal, src.Color(), false); err != nil {
		return fmt.Errorf("filter light %d: %w", i, err)
	}
	if err := f.blur(r, state, vertical, horizontal.Color(), true); err != nil {
		return fmt.Errorf("filter light %d: %w", i, err)
	}
	return nil
}

func (f *FilterStage) blur(r renderer.Renderer, state *scene.State, dst renderer.RenderTarget, src renderer.Texture, vertical bool) error {
	err := r.BindRenderTarget(dst, renderer.ClearOptions{ClearColor: true, Color: [4]float64{0, 0, 0, 1}})
	if errors.Is(err, renderer.ErrIncompleteTarget) {
		f.logger.Debugf("skipping blur target %q: %v", dst.Label(), err)
		return nil
	}
	if err != nil {
		return err
	}
	r.SetViewport(0, 0, dst.Width(), dst.Height())
	r.UseProgram(f.program)
	f.program.SetBool(f.vertical, vertical)
	f.program.SetFloat(f.radius, state.BlurRadius)
	r.BindTexture(f.slot, src)
	r.DrawFullscreenTriangle()
	return nil
}

// End unbinds the moments slot so no blur target stays bound into the next pass.
func (f *FilterStage) End(r renderer.Renderer) {
	if f.bank.Algorithm() == VSM {
		r.BindTexture(f.slot, nil)
	}
}

// Run blurs every light in index order: two sub-passes per light with VSM, none otherwise.
//
// Parameters:
//   - r: the renderer
//   - state: the frame state
//   - onLight: called with each light index before its blur, may be nil
//
// Returns:
//   - error: the first bind error other than an incomplete target
func (f *FilterStage) Run(r renderer.Renderer, state *scene.State, onLight func(i int)) error {
	n := f.Lights(state)
	if n == 0 {
		return nil
	}
	defer f.End(r)
	for i := range n {
		if onLight != nil {
			onLight(i)
		}
		if err := f.RunLight(r, state, i); err != nil {
			return err
		}
	}
	return nil
}
