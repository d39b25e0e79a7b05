package main

import (
	"fmt"
	"log"
	"runtime"

	"clearview/internal/config"
	"clearview/internal/controllers"
	"clearview/internal/logger"
	"clearview/internal/opencv"
	"clearview/internal/services"
	"clearview/internal/shutdown"
	"clearview/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/pflag"
)

const (
	AppName    = "ClearView"
	AppID      = "com.clearview.watermark-remover"
	AppVersion = "1.0.0"
)

// Application wires the workflow controller to its collaborators and the view
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  *config.Config

	controller *controllers.WorkflowController
	view       *views.MainView
	shutdown   *shutdown.Manager
}

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a clearview.yaml config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	application, err := NewApplication(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}

	application.Run()
}

func NewApplication(cfg *config.Config) (*Application, error) {
	appLogger := logger.New(cfg.Log.Format, cfg.Log.Level)

	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	window.CenterOnScreen()
	window.SetMaster()

	appLogger.Info("Application", "starting application", map[string]interface{}{
		"version":     AppVersion,
		"window_size": fmt.Sprintf("%.0fx%.0f", cfg.Window.Width, cfg.Window.Height),
		"go_version":  runtime.Version(),
		"model":       cfg.Editor.Model,
		"api_key_set": cfg.Editor.APIKey != "",
	})

	if cfg.Editor.APIKey == "" {
		appLogger.Warning("Application", "no API key configured, edit requests will fail", map[string]interface{}{
			"env": "GEMINI_API_KEY",
		})
	}

	decoder := services.NewDecoder()
	editor := services.NewGeminiEditor(cfg.Editor, appLogger)
	downloader := services.NewDownloader(opencv.NewResampler(appLogger), cfg.Download.MatchSourceSize, appLogger)

	manager := shutdown.NewManager(appLogger)

	controller := controllers.NewWorkflowController(controllers.Options{
		Context:        manager.Context(),
		Decoder:        decoder,
		Editor:         editor,
		Downloader:     downloader,
		Dispatch:       fyne.Do,
		Logger:         appLogger,
		RequestTimeout: cfg.Editor.RequestTimeout,
	})

	view := views.NewMainView(window, appLogger)
	view.SetSelectHandler(controller.SelectImage)
	view.SetProcessHandler(func() { controller.StartProcessing() })
	view.SetResetHandler(controller.Reset)
	view.SetDismissErrorHandler(controller.DismissError)
	view.SetDownloadHandler(controller.Download)
	view.SetFilenameProvider(controller.SuggestedFilename)
	controller.SetRenderer(view)

	manager.Register("workflow controller", controller)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		config:     cfg,
		controller: controller,
		view:       view,
		shutdown:   manager,
	}
	application.setupMenus()
	application.setupWindowEvents()

	return application, nil
}

// Run shows the window and blocks until the UI loop exits
func (app *Application) Run() {
	app.shutdown.Listen(func() {
		fyne.Do(app.fyneApp.Quit)
	})

	app.view.Show()
	app.fyneApp.Run()

	app.shutdown.Shutdown()
	app.logger.Info("Application", "application terminated", nil)
}

func (app *Application) setupWindowEvents() {
	app.window.SetOnClosed(func() {
		app.logger.Info("Application", "window closed, performing cleanup", nil)
		go app.shutdown.Shutdown()
	})
}
