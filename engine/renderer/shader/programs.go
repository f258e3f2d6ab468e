package shader

import (
	_ "embed"
	"fmt"
)

// Keys of the built in programs.
const (
	SceneProgramKey  = "scene"
	ShadowProgramKey = "shadow"
	BlurProgramKey   = "vsm_blur"
)

//go:embed assets/scene.wgsl
var sceneSource string

//go:embed assets/shadow.wgsl
var shadowSource string

//go:embed assets/vsm_blur.wgsl
var blurSource string

// mustProgram parses an embedded program and panics when it is broken.
func mustProgram(key, source string) Program {
	p, err := NewProgram(key, source)
	if err != nil {
		panic(fmt.Sprintf("shader: built in program %s: %v", key, err))
	}
	return p
}

// SceneProgram returns a new instance of the camera pass program: Phong/Blinn-Phong shading
// from up to four directional and eight point lights with PCF or VSM shadows.
func SceneProgram() Program {
	return mustProgram(SceneProgramKey, sceneSource)
}

// ShadowProgram returns a new instance of the depth capture program. Its fragment stage
// writes (depth, depth²) and is only used when the target has a moment attachment.
func ShadowProgram() Program {
	return mustProgram(ShadowProgramKey, shadowSource)
}

// BlurProgram returns a new instance of the separable moment blur program.
func BlurProgram() Program {
	return mustProgram(BlurProgramKey, blurSource)
}
