package main

import (
	"fmt"
	"runtime"
	"time"

	"risk-assessor/internal/config"
	"risk-assessor/internal/controllers"
	"risk-assessor/internal/logger"
	"risk-assessor/internal/models"
	"risk-assessor/internal/services"
	"risk-assessor/internal/shutdown"
	"risk-assessor/internal/storage"
	"risk-assessor/internal/timing"
	"risk-assessor/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Alzheimer's Risk Assessor"
	AppID      = "com.riskassessor.alzheimers"
	AppVersion = "1.0.0"

	shutdownStepTimeout = 3 * time.Second
)

// Application wires the MVC components around one fyne window.
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger

	controller *controllers.MainController
	view       *views.MainView

	modelService      *services.ModelService
	assessmentService *services.AssessmentService

	shutdown *shutdown.Manager
}

func runGUI(cfg config.Config, log logger.Logger) error {
	application, err := NewApplication(cfg, log)
	if err != nil {
		return fmt.Errorf("application initialization failed: %w", err)
	}
	application.Run()
	return nil
}

func NewApplication(cfg config.Config, log logger.Logger) (*Application, error) {
	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: AppVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	window.CenterOnScreen()

	log.Info("Application", "application starting", map[string]interface{}{
		"version":    AppVersion,
		"dataset":    cfg.DatasetPath,
		"go_version": runtime.Version(),
		"log_level":  cfg.LogLevel,
	})

	var store services.HistoryStore
	if cfg.HistoryDB != "" {
		hs, err := storage.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		store = hs
	}

	stateRepo := models.NewModelStateRepository()
	assessmentRepo := models.NewAssessmentRepository(cfg.HistoryLimit)
	tracker := timing.NewTracker(log)

	modelService := services.NewModelService(cfg, stateRepo, tracker, log)
	assessmentService := services.NewAssessmentService(modelService, assessmentRepo, store, log)

	mainView := views.NewMainView(window)
	mainController := controllers.NewMainController(modelService, assessmentService, log)
	mainController.SetHistoryLimit(cfg.HistoryLimit)
	mainController.SetMainView(mainView)

	manager := shutdown.NewManager(log)
	manager.SetStepTimeout(shutdownStepTimeout)
	manager.Register("assessments", assessmentService)
	manager.Register("controller", mainController)

	application := &Application{
		fyneApp:           fyneApp,
		window:            window,
		logger:            log,
		controller:        mainController,
		view:              mainView,
		modelService:      modelService,
		assessmentService: assessmentService,
		shutdown:          manager,
	}
	application.setupWindowEvents()

	return application, nil
}

// Run trains the model in the background and blocks in the fyne event loop.
func (a *Application) Run() {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	a.view.Show()
	a.controller.StartTraining()
	a.fyneApp.Run()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "application terminated", nil)
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		a.view.ShowConfirm("Exit", "Close the risk assessor?", func(confirmed bool) {
			if confirmed {
				a.shutdown.Shutdown()
				a.window.Close()
			}
		})
	})
	a.window.SetMaster()
}
