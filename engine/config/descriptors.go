package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/tellurion/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// Animation names accepted by the "animation" key of a model entry.
const (
	AnimationNone      = "none"
	AnimationTellurion = "tellurion"
)

// Vec3 is a three component vector written as {x, y, z} in configuration files.
type Vec3 struct {
	X float32 `yaml:"x" toml:"x"`
	Y float32 `yaml:"y" toml:"y"`
	Z float32 `yaml:"z" toml:"z"`
}

// Vec returns the vector as an mgl32.Vec3.
func (v Vec3) Vec() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// ModelDescriptor places one model asset in the scene.
type ModelDescriptor struct {
	Path     string `yaml:"path" toml:"path"`
	Position Vec3   `yaml:"position" toml:"position"`
	Rotation Vec3   `yaml:"rotation" toml:"rotation"`
	Scale    *Vec3  `yaml:"scale" toml:"scale"`
	// Animation selects a runtime transform; empty means none.
	Animation string `yaml:"animation" toml:"animation"`
}

// ScaleVec returns the configured scale, or (1, 1, 1) when the key was omitted.
func (m ModelDescriptor) ScaleVec() mgl32.Vec3 {
	if m.Scale == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	return m.Scale.Vec()
}

// validate checks the entry and normalizes the animation name, which is matched
// without regard to case or surrounding space.
func (m *ModelDescriptor) validate() error {
	if m.Path == "" {
		return errors.New("missing path")
	}
	m.Animation = strings.ToLower(strings.TrimSpace(m.Animation))
	switch m.Animation {
	case "", AnimationNone, AnimationTellurion:
		return nil
	default:
		return fmt.Errorf("unknown animation %q", m.Animation)
	}
}

func (m *ModelDescriptor) applyDefaults() {
	if m.Scale == nil {
		m.Scale = &Vec3{1, 1, 1}
	}
	if m.Animation == "" {
		m.Animation = AnimationNone
	}
}

// DirectionalLightDescriptor configures one shadow casting directional light.
type DirectionalLightDescriptor struct {
	Direction  Vec3 `yaml:"direction" toml:"direction"`
	Ambient    Vec3 `yaml:"ambient" toml:"ambient"`
	Diffuse    Vec3 `yaml:"diffuse" toml:"diffuse"`
	Specular   Vec3 `yaml:"specular" toml:"specular"`
	LightColor Vec3 `yaml:"lightColor" toml:"lightColor"`
}

// Light builds the described light. The direction is kept exactly as configured.
func (d DirectionalLightDescriptor) Light() light.Light {
	return light.NewDirectionalLight(
		light.WithDirection(d.Direction.X, d.Direction.Y, d.Direction.Z),
		light.WithAmbient(d.Ambient.X, d.Ambient.Y, d.Ambient.Z),
		light.WithDiffuse(d.Diffuse.X, d.Diffuse.Y, d.Diffuse.Z),
		light.WithSpecular(d.Specular.X, d.Specular.Y, d.Specular.Z),
		light.WithColor(d.LightColor.X, d.LightColor.Y, d.LightColor.Z),
	)
}

// PointLightDescriptor configures one attenuated point light.
type PointLightDescriptor struct {
	Position   Vec3    `yaml:"position" toml:"position"`
	Ambient    Vec3    `yaml:"ambient" toml:"ambient"`
	Diffuse    Vec3    `yaml:"diffuse" toml:"diffuse"`
	Specular   Vec3    `yaml:"specular" toml:"specular"`
	LightColor Vec3    `yaml:"lightColor" toml:"lightColor"`
	Constant   float32 `yaml:"constant" toml:"constant"`
	Linear     float32 `yaml:"linear" toml:"linear"`
	Quadratic  float32 `yaml:"quadratic" toml:"quadratic"`
}

// Light builds the described light.
func (p PointLightDescriptor) Light() light.Light {
	return light.NewPointLight(
		light.WithPosition(p.Position.X, p.Position.Y, p.Position.Z),
		light.WithAmbient(p.Ambient.X, p.Ambient.Y, p.Ambient.Z),
		light.WithDiffuse(p.Diffuse.X, p.Diffuse.Y, p.Diffuse.Z),
		light.WithSpecular(p.Specular.X, p.Specular.Y, p.Specular.Z),
		light.WithColor(p.LightColor.X, p.LightColor.Y, p.LightColor.Z),
		light.WithAttenuation(p.Constant, p.Linear, p.Quadratic),
	)
}

// LightSet builds a light.LightSet from descriptor lists, preserving order.
//
// Parameters:
//   - directional: directional light descriptors
//   - point: point light descriptors
//
// Returns:
//   - *light.LightSet: the populated light set
func LightSet(directional []DirectionalLightDescriptor, point []PointLightDescriptor) *light.LightSet {
	dirs := make([]light.Light, 0, len(directional))
	for _, d := range directional {
		dirs = append(dirs, d.Light())
	}
	points := make([]light.Light, 0, len(point))
	for _, p := range point {
		points = append(points, p.Light())
	}
	return light.NewLightSet(dirs, points)
}

type sceneFile struct {
	Models []ModelDescriptor `yaml:"models" toml:"models"`
}

type directionalLightFile struct {
	DirectionalLights []DirectionalLightDescriptor `yaml:"directionalLights" toml:"directionalLights"`
}

type pointLightFile struct {
	PointLights []PointLightDescriptor `yaml:"pointLights" toml:"pointLights"`
}
