// Command tellurion renders the configured scene with shadow-mapped directional lights.
//
// Usage:
//
//	tellurion [-settings config/settings.yaml] [-debug] [-profile]
//
// Controls: W/A/S/D orbit the camera, Q/E and the scroll wheel zoom, middle mouse drags,
// the arrow keys move the primary light, B toggles Blinn-Phong and Esc quits.
package main

import (
	"flag"

	"github.com/Carmen-Shannon/tellurion/common"
	"github.com/Carmen-Shannon/tellurion/engine"
	"github.com/Carmen-Shannon/tellurion/engine/config"
)

func main() {
	settingsPath := flag.String("settings", "config/settings.yaml", "settings file (.yaml or .toml)")
	debug := flag.Bool("debug", false, "enable debug logging")
	profile := flag.Bool("profile", false, "log frame and memory statistics")
	flag.Parse()

	logger := common.NewDefaultLogger("tellurion", *debug)
	files := config.NewLoader(config.WithLogger(logger))

	settings := files.LoadSettings(*settingsPath)
	if *debug {
		settings.Renderer.Debug = true
	}
	if *profile {
		settings.Renderer.Profiler = true
	}

	eng := engine.NewEngine(
		engine.WithSettings(settings),
		engine.WithLogger(logger),
		engine.WithConfigLoader(files),
	)
	eng.Run()
}
