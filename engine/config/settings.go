package config

import "github.com/Carmen-Shannon/tellurion/engine/light"

// Settings holds every renderer, window and scene tunable. Keys missing from a
// settings file keep the values from DefaultSettings.
type Settings struct {
	Window    WindowSettings    `yaml:"window" toml:"window"`
	Shadow    ShadowSettings    `yaml:"shadow" toml:"shadow"`
	Animation AnimationSettings `yaml:"animation" toml:"animation"`
	Input     InputSettings     `yaml:"input" toml:"input"`
	Camera    CameraSettings    `yaml:"camera" toml:"camera"`
	Scene     SceneFiles        `yaml:"scene" toml:"scene"`
	Renderer  RendererSettings  `yaml:"renderer" toml:"renderer"`
}

type WindowSettings struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
	// MinWidth and MinHeight floor interactive resizing. Zero keeps the window default.
	MinWidth  int `yaml:"minWidth" toml:"minWidth"`
	MinHeight int `yaml:"minHeight" toml:"minHeight"`
}

// ShadowSettings configures the shadow algorithm and the shared orthographic volume.
type ShadowSettings struct {
	// Algorithm is one of "none", "pcf" or "vsm".
	Algorithm       string  `yaml:"algorithm" toml:"algorithm"`
	Resolution      int     `yaml:"resolution" toml:"resolution"`
	HalfExtent      float32 `yaml:"halfExtent" toml:"halfExtent"`
	EyeScale        float32 `yaml:"eyeScale" toml:"eyeScale"`
	Near            float32 `yaml:"near" toml:"near"`
	Far             float32 `yaml:"far" toml:"far"`
	LightWidth      float32 `yaml:"lightWidth" toml:"lightWidth"`
	PCFSampleRadius float32 `yaml:"pcfSampleRadius" toml:"pcfSampleRadius"`
	// BlurRadius is the half width in texels of the VSM gaussian kernel.
	BlurRadius int `yaml:"blurRadius" toml:"blurRadius"`
}

// AnimationSettings drives the "tellurion" instance animation.
type AnimationSettings struct {
	AxialTiltDegrees float32 `yaml:"axialTilt" toml:"axialTilt"`
	YawRateDegrees   float32 `yaml:"yawRate" toml:"yawRate"`
}

// InputSettings bounds the arrow-key nudge of the primary directional light.
type InputSettings struct {
	NudgeStep float32 `yaml:"nudgeStep" toml:"nudgeStep"`
	MinY      float32 `yaml:"minY" toml:"minY"`
	MaxY      float32 `yaml:"maxY" toml:"maxY"`
	MinZ      float32 `yaml:"minZ" toml:"minZ"`
	MaxZ      float32 `yaml:"maxZ" toml:"maxZ"`
}

type CameraSettings struct {
	Position Vec3    `yaml:"position" toml:"position"`
	Target   Vec3    `yaml:"target" toml:"target"`
	FovY     float32 `yaml:"fovY" toml:"fovY"`
	Near     float32 `yaml:"near" toml:"near"`
	Far      float32 `yaml:"far" toml:"far"`
}

// SceneFiles names the three scene description files.
type SceneFiles struct {
	Models            string `yaml:"models" toml:"models"`
	DirectionalLights string `yaml:"directionalLights" toml:"directionalLights"`
	PointLights       string `yaml:"pointLights" toml:"pointLights"`
}

type RendererSettings struct {
	// MaxTextureDimension caps decoded texture sides; 0 uses the device limit.
	MaxTextureDimension int  `yaml:"maxTextureDimension" toml:"maxTextureDimension"`
	LoaderWorkers       int  `yaml:"loaderWorkers" toml:"loaderWorkers"`
	Profiler            bool `yaml:"profiler" toml:"profiler"`
	Debug               bool `yaml:"debug" toml:"debug"`
	ForceSoftware       bool `yaml:"forceSoftware" toml:"forceSoftware"`
	VSync               bool `yaml:"vsync" toml:"vsync"`
}

// DefaultSettings returns the built in configuration.
func DefaultSettings() Settings {
	return Settings{
		Window: WindowSettings{
			Title:  "tellurion",
			Width:  800,
			Height: 600,
		},
		Shadow: ShadowSettings{
			Algorithm:       "vsm",
			Resolution:      light.DefaultShadowResolution,
			HalfExtent:      light.DefaultShadowHalfExtent,
			EyeScale:        light.DefaultShadowEyeScale,
			Near:            light.DefaultShadowNear,
			Far:             light.DefaultShadowFar,
			LightWidth:      light.DefaultLightWidth,
			PCFSampleRadius: light.DefaultPCFSampleRadius,
			BlurRadius:      4,
		},
		Animation: AnimationSettings{
			AxialTiltDegrees: 23.433,
			YawRateDegrees:   10,
		},
		Input: InputSettings{
			NudgeStep: light.DefaultNudgeStep,
			MinY:      -2,
			MaxY:      2,
			MinZ:      -3,
			MaxZ:      3,
		},
		Camera: CameraSettings{
			Position: Vec3{0, 20, 60},
			Target:   Vec3{0, 0, 0},
			FovY:     45,
			Near:     0.1,
			Far:      500,
		},
		Scene: SceneFiles{
			Models:            "config/scene.yaml",
			DirectionalLights: "config/directionalLights.yaml",
			PointLights:       "config/pointLights.yaml",
		},
		Renderer: RendererSettings{
			LoaderWorkers: 4,
			VSync:         true,
		},
	}
}

// ShadowVolume returns the orthographic light volume described by the shadow settings.
func (s Settings) ShadowVolume() light.ShadowVolume {
	return light.ShadowVolume{
		HalfExtent: s.Shadow.HalfExtent,
		Near:       s.Shadow.Near,
		Far:        s.Shadow.Far,
		EyeScale:   s.Shadow.EyeScale,
	}
}

// NudgeBounds returns the arrow-key nudge limits described by the input settings.
func (s Settings) NudgeBounds() light.NudgeBounds {
	return light.NudgeBounds{
		Step: s.Input.NudgeStep,
		MinY: s.Input.MinY,
		MaxY: s.Input.MaxY,
		MinZ: s.Input.MinZ,
		MaxZ: s.Input.MaxZ,
	}
}
