package shadow

import (
	"fmt"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
)

// Blur stages of the separable VSM filter.
const (
	BlurHorizontal = 0
	BlurVertical   = 1
	blurStages     = 2
)

// TargetAllocator creates offscreen render targets. renderer.Renderer satisfies it.
type TargetAllocator interface {
	CreateRenderTarget(desc renderer.TargetDescriptor) (renderer.RenderTarget, error)
}

type targetBank struct {
	algorithm  Algorithm
	resolution int
	shadow     []renderer.RenderTarget
	blur       [][blurStages]renderer.RenderTarget
}

// TargetBank owns the per-light shadow and blur targets for the lifetime of a scene.
type TargetBank interface {
	// Algorithm returns the algorithm the bank was allocated for.
	//
	// Returns:
	//   - Algorithm: the shadow algorithm
	Algorithm() Algorithm

	// Resolution returns the width and height of every target in texels.
	//
	// Returns:
	//   - int: the resolution
	Resolution() int

	// LightCount returns the number of directional lights that have a slot.
	//
	// Returns:
	//   - int: the number of slots
	LightCount() int

	// Shadow returns light i's depth target. With VSM the target also carries the
	// RG32Float moment attachment.
	//
	// Parameters:
	//   - i: the directional light index
	//
	// Returns:
	//   - renderer.RenderTarget: the target, possibly incomplete, or nil when i has no slot
	Shadow(i int) renderer.RenderTarget

	// Blur returns one of light i's two VSM blur targets.
	//
	// Parameters:
	//   - i: the directional light index
	//   - stage: BlurHorizontal or BlurVertical
	//
	// Returns:
	//   - renderer.RenderTarget: the target, or nil outside VSM or for an unknown slot
	Blur(i, stage int) renderer.RenderTarget

	// DepthMap returns the depth texture of light i, or nil when its target is incomplete.
	DepthMap(i int) renderer.Texture

	// VarianceMap returns the blurred moments of light i, or nil when unavailable.
	VarianceMap(i int) renderer.Texture

	// DepthTargetCount returns the number of complete depth attachments.
	DepthTargetCount() int

	// MomentTargetCount returns the number of complete moment attachments.
	MomentTargetCount() int

	// BlurTargetCount returns the number of complete blur targets.
	BlurTargetCount() int

	// Release frees every target.
	Release()
}

var _ TargetBank = &targetBank{}

// NewTargetBank allocates the targets algorithm needs for lightCount directional lights.
// None allocates nothing. DepthPCF allocates one depth target per light. VSM adds a
// moment attachment to each depth target and two blur targets per light.
//
// A target the allocator rejects is logged and kept as an incomplete placeholder;
// passes skip it and the frame renders without that light's shadow.
//
// Parameters:
//   - alloc: the allocator, usually the renderer
//   - lightCount: the number of directional lights, capped at light.MaxDirectionalLights
//   - algorithm: the shadow algorithm
//   - resolution: target width and height in texels, light.DefaultShadowResolution when < 1
//   - logger: where allocation failures are reported, the default logger when nil
//
// Returns:
//   - TargetBank: the bank
func NewTargetBank(alloc TargetAllocator, lightCount int, algorithm Algorithm, resolution int, logger common.Logger) TargetBank {
	if logger == nil {
		logger = common.NewDefaultLogger("shadow", false)
	}
	if resolution < 1 {
		resolution = light.DefaultShadowResolution
	}
	lightCount = common.ClampInt(lightCount, 0, light.MaxDirectionalLights)
	b := &targetBank{
		algorithm:  algorithm,
		resolution: resolution,
	}
	if !algorithm.Enabled() || lightCount == 0 {
		return b
	}

	b.shadow = make([]renderer.RenderTarget, lightCount)
	for i := range lightCount {
		desc := renderer.TargetDescriptor{
			Label:  fmt.Sprintf("shadow%d", i),
			Width:  resolution,
			Height: resolution,
			Depth:  true,
		}
		if algorithm == VSM {
			desc.Color = renderer.FormatRG32Float
		}
		b.shadow[i] = allocate(alloc, desc, logger)
	}

	if algorithm == VSM {
		b.blur = make([][blurStages]renderer.RenderTarget, lightCount)
		for i := range lightCount {
			for stage := range blurStages {
				b.blur[i][stage] = allocate(alloc, renderer.TargetDescriptor{
					Label:  fmt.Sprintf("shadow%d.blur%d", i, stage),
					Width:  resolution,
					Height: resolution,
					Color:  renderer.FormatRG32Float,
				}, logger)
			}
		}
	}
	return b
}

func allocate(alloc TargetAllocator, desc renderer.TargetDescriptor, logger common.Logger) renderer.RenderTarget {
	target, err := alloc.CreateRenderTarget(desc)
	if err != nil {
		logger.Errorf("render target %q is incomplete: %v", desc.Label, err)
	}
	if target == nil {
		target = renderer.NewIncompleteTarget(desc)
	}
	return target
}

func (b *targetBank) Algorithm() Algorithm { return b.algorithm }
func (b *targetBank) Resolution() int      { return b.resolution }
func (b *targetBank) LightCount() int      { return len(b.shadow) }

func (b *targetBank) Shadow(i int) renderer.RenderTarget {
	if i < 0 || i >= len(b.shadow) {
		return nil
	}
	return b.shadow[i]
}

func (b *targetBank) Blur(i, stage int) renderer.RenderTarget {
	if i < 0 || i >= len(b.blur) || stage < 0 || stage >= blurStages {
		return nil
	}
	return b.blur[i][stage]
}

func (b *targetBank) DepthMap(i int) renderer.Texture {
	t := b.Shadow(i)
	if t == nil || !t.Complete() {
		return nil
	}
	return t.Depth()
}

func (b *targetBank) VarianceMap(i int) renderer.Texture {
	t := b.Blur(i, BlurVertical)
	if t == nil || !t.Complete() {
		return nil
	}
	return t.Color()
}

func (b *targetBank) DepthTargetCount() int {
	n := 0
	for _, t := range b.shadow {
		if t.Complete() && t.Depth() != nil {
			n++
		}
	}
	return n
}

func (b *targetBank) MomentTargetCount() int {
	n := 0
	for _, t := range b.shadow {
		if t.Complete() && t.Color() != nil {
			n++
		}
	}
	return n
}

func (b *targetBank) BlurTargetCount() int {
	n := 0
	for _, pair := range b.blur {
		for _, t := range pair {
			if t.Complete() {
				n++
			}
		}
	}
	return n
}

func (b *targetBank) Release() {
	for _, t := range b.shadow {
		t.Release()
	}
	for _, pair := range b.blur {
		for _, t := range pair {
			t.Release()
		}
	}
	b.shadow = nil
	b.blur = nil
}
