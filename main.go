package main

import (
	"embed"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"

	"gptlink/internal/config"
	"gptlink/internal/events"
	"gptlink/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg := config.Load()
	log := logging.New(os.Stderr, cfg.LogLevel)

	app := NewApp(cfg, log)
	if err := app.init(); err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}

	events.EnableRuntimeEmitter()

	// Create application with options
	err := wails.Run(&options.App{
		Title:  "GPTLink",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "GPTLink",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		Logger:           logging.WailsLogger{L: log},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
			app.header,
			app.appConfig,
			app.db.ModelConfigs,
			app.db.Sessions,
		},
	})

	if err != nil {
		log.Error("wails run failed", "error", err)
		os.Exit(1)
	}
}
