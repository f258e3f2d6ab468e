// Package composite draws the scene from the camera with every light applied and the
// shadow maps of the directional lights sampled.
package composite

import (
	"fmt"

	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/Carmen-Shannon/tellurion/engine/renderer"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/material"
	"github.com/Carmen-Shannon/tellurion/engine/renderer/shader"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
	"github.com/Carmen-Shannon/tellurion/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
)

type globalHandles struct {
	model, view, projection, viewPos shader.UniformHandle
	blinn                            shader.UniformHandle
	numDirectional, numPoint         shader.UniformHandle
	shadowMapType                    shader.UniformHandle
	lightWidth, pcfSampleRadius      shader.UniformHandle
	nearPlane, farPlane              shader.UniformHandle
}

type directionalHandles struct {
	direction, ambient, diffuse, specular, color shader.UniformHandle
	lightSpaceMatrix                             shader.UniformHandle
}

type pointHandles struct {
	position, ambient, diffuse, specular, color shader.UniformHandle
	constant, linear, quadratic                 shader.UniformHandle
}

// Pass is the camera-viewpoint lighting pass. Every uniform location is resolved once
// at construction.
type Pass struct {
	bank       shadow.TargetBank
	program    shader.Program
	clearColor [4]float64
	fallback   material.Material

	globals      globalHandles
	directional  [light.MaxDirectionalLights]directionalHandles
	point        [light.MaxPointLights]pointHandles
	material     material.Handles
	shadowSlot   [light.MaxDirectionalLights]int
	varianceSlot [light.MaxDirectionalLights]int
}

// NewPass creates the composite pass sampling the shadow maps in bank. It panics if the
// embedded scene program is missing a uniform or shadow texture it relies on.
//
// Parameters:
//   - bank: the shadow targets, which also fix the shadow algorithm
//   - options: functional options to configure the pass
//
// Returns:
//   - *Pass: the pass
func NewPass(bank shadow.TargetBank, options ...PassBuilderOption) *Pass {
	p := &Pass{
		bank:       bank,
		program:    shader.SceneProgram(),
		clearColor: [4]float64{0, 0, 0, 1},
	}
	for _, option := range options {
		option(p)
	}
	if p.fallback == nil {
		p.fallback = material.NewMaterial(material.WithName("default"))
	}
	p.resolve()
	return p
}

func (p *Pass) locate(name string) shader.UniformHandle {
	h, err := p.program.Locate(name)
	if err != nil {
		panic(fmt.Sprintf("composite: %v", err))
	}
	return h
}

func (p *Pass) resolve() {
	p.globals = globalHandles{
		model:           p.locate("model"),
		view:            p.locate("view"),
		projection:      p.locate("projection"),
		viewPos:         p.locate("viewPos"),
		blinn:           p.locate("blinn"),
		numDirectional:  p.locate("numDirectionalLights"),
		numPoint:        p.locate("numPointLights"),
		shadowMapType:   p.locate("shadowMapType"),
		lightWidth:      p.locate("lightWidth"),
		pcfSampleRadius: p.locate("PCFSampleRadius"),
		nearPlane:       p.locate("near_plane"),
		farPlane:        p.locate("far_plane"),
	}

	field := func(category string, i int, name string) shader.UniformHandle {
		key := shader.UniformKey{Category: category, Index: i, Field: name}
		h := p.program.Handle(key)
		if !h.Valid() {
			panic(fmt.Sprintf("composite: scene program has no uniform %s", key))
		}
		return h
	}
	for i := range p.directional {
		p.directional[i] = directionalHandles{
			direction:        field("directionalLights", i, "direction"),
			ambient:          field("directionalLights", i, "ambient"),
			diffuse:          field("directionalLights", i, "diffuse"),
			specular:         field("directionalLights", i, "specular"),
			color:            field("directionalLights", i, "lightColor"),
			lightSpaceMatrix: field("directionalLights", i, "lightSpaceMatrix"),
		}

		var ok bool
		if p.shadowSlot[i], ok = p.program.TextureSlot(fmt.Sprintf("shadowMap%d", i)); !ok {
			panic(fmt.Sprintf("composite: scene program has no shadowMap%d", i))
		}
		if p.varianceSlot[i], ok = p.program.TextureSlot(fmt.Sprintf("varianceMap%d", i)); !ok {
			panic(fmt.Sprintf("composite: scene program has no varianceMap%d", i))
		}
	}
	for i := range p.point {
		p.point[i] = pointHandles{
			position:  field("pointLights", i, "position"),
			ambient:   field("pointLights", i, "ambient"),
			diffuse:   field("pointLights", i, "diffuse"),
			specular:  field("pointLights", i, "specular"),
			color:     field("pointLights", i, "lightColor"),
			constant:  field("pointLights", i, "attConstant"),
			linear:    field("pointLights", i, "attLinear"),
			quadratic: field("pointLights", i, "attQuadratic"),
		}
	}
	p.material = material.ResolveHandles(p.program)
}

// Program returns the scene program.
func (p *Pass) Program() shader.Program { return p.program }

// Run draws every drawable instance to the screen.
//
// Parameters:
//   - r: the renderer
//   - state: the frame state
//
// Returns:
//   - error: an error if the screen could not be bound
func (p *Pass) Run(r renderer.Renderer, state *scene.State) error {
	clear := renderer.ClearOptions{ClearColor: true, Color: p.clearColor, ClearDepth: true, Depth: 1}
	if err := r.BindRenderTarget(nil, clear); err != nil {
		return fmt.Errorf("composite: %w", err)
	}
	w, h := r.ScreenSize()
	r.SetViewport(0, 0, w, h)
	r.UseProgram(p.program)

	p.writeGlobals(state)
	p.writeLights(state)
	p.bindShadowMaps(r, state)

	for _, inst := range state.Drawable() {
		p.program.SetMat4(p.globals.model, inst.ModelMatrix(state.Elapsed, state.Animation))
		for _, part := range inst.Model().Parts() {
			if part.Mesh == nil {
				continue
			}
			m := part.Material
			if m == nil {
				m = p.fallback
			}
			m.Apply(r, p.program, p.material)
			r.DrawMesh(part.Mesh)
		}
	}
	return nil
}

func (p *Pass) writeGlobals(state *scene.State) {
	view, projection := mgl32.Ident4(), mgl32.Ident4()
	var eye mgl32.Vec3
	if state.Camera != nil {
		view, projection, eye = state.Camera.View(), state.Camera.Projection(), state.Camera.Position()
	}
	g := p.globals
	p.program.SetMat4(g.view, view)
	p.program.SetMat4(g.projection, projection)
	p.program.SetVec3(g.viewPos, eye)
	p.program.SetBool(g.blinn, state.Blinn)
	p.program.SetInt(g.shadowMapType, p.bank.Algorithm().ShaderValue())
	p.program.SetFloat(g.lightWidth, state.LightWidth)
	p.program.SetFloat(g.pcfSampleRadius, state.PCFSampleRadius)
	p.program.SetFloat(g.nearPlane, state.Volume.Near)
	p.program.SetFloat(g.farPlane, state.Volume.Far)
}

func (p *Pass) writeLights(state *scene.State) {
	dirs := state.Lights.Directional()
	n := min(len(dirs), light.MaxDirectionalLights)
	p.program.SetInt(p.globals.numDirectional, int32(n))
	for i, l := range dirs[:n] {
		h := p.directional[i]
		p.program.SetVec3(h.direction, l.Direction())
		p.program.SetVec3(h.ambient, l.Ambient())
		p.program.SetVec3(h.diffuse, l.Diffuse())
		p.program.SetVec3(h.specular, l.Specular())
		p.program.SetVec3(h.color, l.Color())
		p.program.SetMat4(h.lightSpaceMatrix, l.LightSpaceMatrix())
	}

	points := state.Lights.Point()
	n = min(len(points), light.MaxPointLights)
	p.program.SetInt(p.globals.numPoint, int32(n))
	for i, l := range points[:n] {
		h := p.point[i]
		c, lin, q := l.Attenuation()
		p.program.SetVec3(h.position, l.Position())
		p.program.SetVec3(h.ambient, l.Ambient())
		p.program.SetVec3(h.diffuse, l.Diffuse())
		p.program.SetVec3(h.specular, l.Specular())
		p.program.SetVec3(h.color, l.Color())
		p.program.SetFloat(h.constant, c)
		p.program.SetFloat(h.linear, lin)
		p.program.SetFloat(h.quadratic, q)
	}
}

// bindShadowMaps binds each light's depth map (PCF) or blurred moments (VSM). Slots of
// missing lights are unbound so the shader sees the neutral fallback.
func (p *Pass) bindShadowMaps(r renderer.Renderer, state *scene.State) {
	n := min(len(state.Lights.Directional()), light.MaxDirectionalLights)
	switch p.bank.Algorithm() {
	case shadow.DepthPCF:
		for i := range light.MaxDirectionalLights {
			var tex renderer.Texture
			if i < n {
				tex = p.bank.DepthMap(i)
			}
			r.BindTexture(p.shadowSlot[i], tex)
		}
	case shadow.VSM:
		for i := range light.MaxDirectionalLights {
			var tex renderer.Texture
			if i < n {
				tex = p.bank.VarianceMap(i)
			}
			r.BindTexture(p.varianceSlot[i], tex)
		}
	}
}
