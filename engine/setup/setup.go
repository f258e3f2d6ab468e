// Package setup turns loaded settings and scene files into the runtime objects the
// render loop needs: the scene state, the shadow target bank and the camera.
package setup

import (
	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine/camera"
	"github.com/Carmen-Shannon/tellurion/engine/config"
	"github.com/Carmen-Shannon/tellurion/engine/loader"
	"github.com/Carmen-Shannon/tellurion/engine/scene"
	"github.com/Carmen-Shannon/tellurion/engine/shadow"
	"github.com/go-gl/mathgl/mgl32"
)

// BuildState reads the three scene files named by settings, loads every model and
// returns the assembled scene state. Entries that fail to load are logged and left out.
//
// Parameters:
//   - settings: the loaded settings
//   - files: the scene file reader
//   - models: the model loader, already bound to a renderer
//   - view: the camera, may be nil
//   - logger: receives asset errors
//
// Returns:
//   - *scene.State: the scene state
func BuildState(settings config.Settings, files *config.Loader, models loader.Loader, view scene.View, logger common.Logger) *scene.State {
	directional := files.LoadDirectionalLights(settings.Scene.DirectionalLights)
	point := files.LoadPointLights(settings.Scene.PointLights)

	var instances []scene.ModelInstance
	for _, desc := range files.LoadModels(settings.Scene.Models) {
		inst, err := scene.InstanceFromDescriptor(desc)
		if err != nil {
			logger.Errorf("skipping model %s: %v", desc.Path, err)
			continue
		}
		mdl, err := models.Load(desc.Path)
		if err != nil {
			logger.Errorf("skipping model %s: %v", desc.Path, err)
			continue
		}
		inst.SetModel(mdl)
		instances = append(instances, inst)
	}
	logger.Infof("scene: %d models, %d directional lights, %d point lights",
		len(instances), len(directional), len(point))

	return scene.NewState(
		scene.WithSettings(settings),
		scene.WithLights(config.LightSet(directional, point)),
		scene.WithInstances(instances...),
		scene.WithCamera(view),
	)
}

// Algorithm parses the configured shadow algorithm, falling back to VSM on an unknown name.
func Algorithm(settings config.Settings, logger common.Logger) shadow.Algorithm {
	alg, err := shadow.ParseAlgorithm(settings.Shadow.Algorithm)
	if err != nil {
		logger.Warnf("%v, using %s", err, shadow.VSM)
		return shadow.VSM
	}
	return alg
}

// BuildBank allocates shadow targets for the directional lights of state.
//
// Parameters:
//   - alloc: the renderer
//   - settings: the loaded settings
//   - state: the assembled scene state
//   - logger: receives allocation failures
//
// Returns:
//   - shadow.TargetBank: the bank
func BuildBank(alloc shadow.TargetAllocator, settings config.Settings, state *scene.State, logger common.Logger) shadow.TargetBank {
	return shadow.NewTargetBank(alloc, len(state.Lights.Directional()), Algorithm(settings, logger), settings.Shadow.Resolution, logger)
}

// BuildCamera creates the orbiting camera described by the camera settings.
//
// Parameters:
//   - settings: the loaded settings
//   - width: the surface width in pixels
//   - height: the surface height in pixels
//
// Returns:
//   - camera.Camera: the camera
func BuildCamera(settings config.Settings, width, height int) camera.Camera {
	cs := settings.Camera
	ctrl := camera.NewCameraController(camera.WithLookFrom(cs.Position.Vec(), cs.Target.Vec()))

	options := []camera.CameraBuilderOption{
		camera.WithController(ctrl),
		camera.WithFov(mgl32.DegToRad(cs.FovY)),
		camera.WithNear(cs.Near),
		camera.WithFar(cs.Far),
	}
	if height > 0 {
		options = append(options, camera.WithAspect(float32(width)/float32(height)))
	}
	return camera.NewCamera(options...)
}
