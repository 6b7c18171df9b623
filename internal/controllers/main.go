package controllers

import (
	"context"
	"errors"
	"sync"
	"time"

	"risk-assessor/internal/logger"
	"risk-assessor/internal/models"
	"risk-assessor/internal/services"
	"risk-assessor/internal/views"
)

const trainingTimeout = 5 * time.Minute

// MainController orchestrates the application using MVC pattern
type MainController struct {
	modelService      *services.ModelService
	assessmentService *services.AssessmentService
	logger            logger.Logger

	mainView *views.MainView

	mu           sync.Mutex
	cancelTrain  context.CancelFunc
	historyLimit int
	shutdownOnce sync.Once
}

func NewMainController(
	modelService *services.ModelService,
	assessmentService *services.AssessmentService,
	log logger.Logger,
) *MainController {
	return &MainController{
		modelService:      modelService,
		assessmentService: assessmentService,
		logger:            log,
		historyLimit:      models.DefaultHistorySize,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view *views.MainView) {
	mc.mainView = view
	mc.setupViewEventHandlers()
}

func (mc *MainController) SetHistoryLimit(limit int) {
	if limit > 0 {
		mc.historyLimit = limit
	}
}

func (mc *MainController) setupViewEventHandlers() {
	mc.mainView.SetAssessHandler(mc.Assess)
	mc.mainView.SetClearHandler(mc.Clear)
	mc.mainView.SetModelInfoHandler(mc.ShowModelInfo)
	mc.mainView.SetHistoryHandler(mc.ShowHistory)
	mc.mainView.SetReopenHandler(mc.Reopen)
}

// StartTraining fits the model in the background.
func (mc *MainController) StartTraining() {
	go mc.TrainModel()
}

// TrainModel fits the model and updates the view when done. It blocks.
func (mc *MainController) TrainModel() {
	ctx, cancel := context.WithTimeout(context.Background(), trainingTimeout)
	defer cancel()

	mc.mu.Lock()
	mc.cancelTrain = cancel
	mc.mu.Unlock()

	if mc.mainView != nil {
		mc.mainView.UpdateStatus("Training model...")
		mc.mainView.UpdateTrainingProgress("Loading dataset", 0)
	}

	done := make(chan struct{})
	var monitor sync.WaitGroup
	monitor.Add(1)
	go func() {
		defer monitor.Done()
		mc.monitorTrainingProgress(done)
	}()

	report, err := mc.modelService.Train(ctx)
	close(done)
	// The final view update must be queued after the monitor's last one.
	monitor.Wait()

	mc.mu.Lock()
	mc.cancelTrain = nil
	mc.mu.Unlock()

	if mc.mainView == nil {
		return
	}
	if err != nil {
		mc.mainView.SetModelReady(false, 0, 0)
		if ctx.Err() != nil {
			mc.mainView.UpdateStatus("Training cancelled")
			return
		}
		mc.mainView.UpdateStatus("Training failed")
		mc.handleError("Training failed", err)
		return
	}

	mc.mainView.SetModelReady(true, report.TestAccuracy, report.Rows)
	mc.mainView.UpdateStatus("Ready")
}

// monitorTrainingProgress mirrors the training stage into the progress bar.
func (mc *MainController) monitorTrainingProgress(done <-chan struct{}) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			state := mc.modelService.State()
			if state.Phase != models.ModelTraining {
				return
			}
			if mc.mainView != nil {
				mc.mainView.UpdateTrainingProgress(state.CurrentStage, state.Progress)
			}
		}
	}
}

// Assess validates the submitted form and shows the predicted risk.
func (mc *MainController) Assess(raw map[string]string) {
	if !mc.modelService.IsReady() {
		mc.handleError("Assessment failed", services.ErrModelNotReady)
		return
	}

	assessment, err := mc.assessmentService.Assess(context.Background(), raw)
	if err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			mc.logger.Debug("MainController", "form rejected", map[string]interface{}{
				"fields": verrs.Fields(),
			})
			if mc.mainView != nil {
				mc.mainView.ShowValidationErrors(verrs)
				mc.mainView.UpdateStatus("Please correct the highlighted fields")
			}
			return
		}
		mc.handleError("Assessment failed", err)
		return
	}

	if mc.mainView != nil {
		mc.mainView.ShowResult(assessment)
		mc.mainView.UpdateSessionStats(mc.assessmentService.Stats())
		mc.mainView.UpdateStatus("Assessment: " + assessment.Risk.String())
	}
}

func (mc *MainController) Clear() {
	if mc.mainView == nil {
		return
	}
	mc.mainView.ResetForm()
	mc.mainView.UpdateStatus("Form cleared")
}

func (mc *MainController) ShowModelInfo() {
	report := mc.modelService.Report()
	if report == nil {
		mc.handleError("Model info", services.ErrModelNotReady)
		return
	}
	if mc.mainView == nil {
		return
	}
	mc.mainView.ShowModelInfo(views.ModelInfo{
		Dataset:       report.Dataset,
		Rows:          report.Rows,
		TrainRows:     report.TrainRows,
		TestRows:      report.TestRows,
		TrainAccuracy: report.TrainAccuracy,
		TestAccuracy:  report.TestAccuracy,
		Confusion:     report.Confusion.String(),
		TrainDuration: report.Duration,
		AvgPredict:    mc.modelService.AveragePredictTime(),
		Predictions:   mc.modelService.PredictionCount(),
	})
}

func (mc *MainController) ShowHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := mc.assessmentService.Recent(ctx, mc.historyLimit)
	if err != nil {
		mc.handleError("History unavailable", err)
		return
	}
	if mc.mainView != nil {
		mc.mainView.ShowHistory(items)
	}
}

// Reopen loads a past assessment's inputs back into the form.
func (mc *MainController) Reopen(a models.Assessment) {
	if err := a.Features.Validate(); err != nil {
		mc.handleError("Cannot reopen assessment", err)
		return
	}
	if mc.mainView == nil {
		return
	}
	mc.mainView.LoadFeatures(a.Features)
	mc.mainView.UpdateStatus("Loaded assessment from " + a.CreatedAt.Local().Format("2006-01-02 15:04"))
}

func (mc *MainController) handleError(title string, err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{"context": title})
	if mc.mainView != nil {
		mc.mainView.ShowError(title, err)
	}
}

// Shutdown cancels an in-flight training run.
func (mc *MainController) Shutdown() {
	mc.shutdownOnce.Do(func() {
		mc.mu.Lock()
		if mc.cancelTrain != nil {
			mc.cancelTrain()
		}
		mc.mu.Unlock()
		mc.logger.Info("MainController", "controller shut down", nil)
	})
}
