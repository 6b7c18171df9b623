package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"risk-assessor/internal/classifier"
	"risk-assessor/internal/config"
	"risk-assessor/internal/dataset"
	"risk-assessor/internal/logger"
	"risk-assessor/internal/models"
	"risk-assessor/internal/timing"
)

var (
	ErrModelNotReady   = errors.New("model is not trained yet")
	ErrAlreadyTraining = errors.New("model is already trained or training")
)

// TrainingReport summarises one fit on a stratified split.
type TrainingReport struct {
	Dataset       string
	Features      []string
	Rows          int
	TrainRows     int
	TestRows      int
	ClassCounts   map[int]int
	TrainAccuracy float64
	TestAccuracy  float64
	Confusion     classifier.ConfusionMatrix
	Duration      time.Duration
}

// ModelService owns the single classifier served to the form.
type ModelService struct {
	cfg       config.Config
	stateRepo *models.ModelStateRepository
	timer     *timing.Tracker
	logger    logger.Logger

	mu     sync.RWMutex
	model  *classifier.GaussianNB
	report *TrainingReport
}

func NewModelService(
	cfg config.Config,
	stateRepo *models.ModelStateRepository,
	timer *timing.Tracker,
	log logger.Logger,
) *ModelService {
	return &ModelService{
		cfg:       cfg,
		stateRepo: stateRepo,
		timer:     timer,
		logger:    log,
	}
}

// Train loads the dataset, fits on the training split over the form's
// features and keeps the model for Predict. It runs at most once.
func (ms *ModelService) Train(ctx context.Context) (*TrainingReport, error) {
	if !ms.stateRepo.StartTraining() {
		return nil, ErrAlreadyTraining
	}

	ms.logger.Info("ModelService", "training started", map[string]interface{}{
		"dataset":   ms.cfg.DatasetPath,
		"test_size": ms.cfg.TestSize,
		"seed":      ms.cfg.RandomSeed,
	})

	model, report, err := ms.fit(ctx, models.FeatureKeys(), ms.stateRepo.UpdateProgress)
	if err != nil {
		ms.stateRepo.FailTraining(err)
		ms.logger.Error("ModelService", err, map[string]interface{}{"dataset": ms.cfg.DatasetPath})
		return nil, err
	}

	ms.mu.Lock()
	ms.model = model
	ms.report = report
	ms.mu.Unlock()
	ms.stateRepo.CompleteTraining()

	ms.logger.Info("ModelService", "training completed", map[string]interface{}{
		"rows":           report.Rows,
		"train_accuracy": report.TrainAccuracy,
		"test_accuracy":  report.TestAccuracy,
		"duration_ms":    report.Duration.Milliseconds(),
	})
	return report, nil
}

// Evaluate reproduces the offline accuracy check without touching the served
// model. With allFeatures every non-identifier column is used.
func (ms *ModelService) Evaluate(ctx context.Context, allFeatures bool) (*TrainingReport, error) {
	var features []string
	if !allFeatures {
		features = models.FeatureKeys()
	}
	_, report, err := ms.fit(ctx, features, func(string, float64) {})
	return report, err
}

func (ms *ModelService) fit(
	ctx context.Context,
	features []string,
	progress func(stage string, p float64),
) (*classifier.GaussianNB, *TrainingReport, error) {
	ctx = ms.timer.StartTiming(ctx, "train")

	progress("Loading dataset", 0.1)
	table, err := dataset.Load(ctx, ms.cfg.DatasetPath, dataset.Options{
		Target:   ms.cfg.TargetColumn,
		Drop:     ms.cfg.DropColumns,
		Features: features,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}

	progress("Splitting", 0.3)
	train, test, err := dataset.StratifiedSplit(table, ms.cfg.TestSize, ms.cfg.RandomSeed)
	if err != nil {
		return nil, nil, fmt.Errorf("split dataset: %w", err)
	}

	progress("Fitting", 0.5)
	model := classifier.NewGaussianNB(classifier.WithVarSmoothing(ms.cfg.VarSmoothing))
	if err := model.Fit(train.X, train.Y); err != nil {
		return nil, nil, fmt.Errorf("fit: %w", err)
	}

	progress("Scoring", 0.8)
	trainAcc, err := model.Score(train.X, train.Y)
	if err != nil {
		return nil, nil, fmt.Errorf("score train: %w", err)
	}
	pred, err := model.PredictBatch(test.X)
	if err != nil {
		return nil, nil, fmt.Errorf("score test: %w", err)
	}

	report := &TrainingReport{
		Dataset:       ms.cfg.DatasetPath,
		Features:      table.Columns,
		Rows:          table.Len(),
		TrainRows:     train.Len(),
		TestRows:      test.Len(),
		ClassCounts:   table.ClassCounts(),
		TrainAccuracy: trainAcc,
		TestAccuracy:  classifier.Accuracy(test.Y, pred),
		Confusion:     classifier.NewConfusionMatrix(test.Y, pred),
		Duration:      ms.timer.EndTiming(ctx),
	}
	progress("Ready", 1)
	return model, report, nil
}

// Prediction is the classifier output for one vector.
type Prediction struct {
	Risk        models.Risk
	Probability float64 // of HighRisk
}

func (ms *ModelService) Predict(ctx context.Context, vec models.FeatureVector) (Prediction, error) {
	ms.mu.RLock()
	model := ms.model
	ms.mu.RUnlock()
	if model == nil {
		return Prediction{}, ErrModelNotReady
	}

	ctx = ms.timer.StartTiming(ctx, "predict")
	defer ms.timer.EndTiming(ctx)

	class, err := model.Predict(vec)
	if err != nil {
		return Prediction{}, fmt.Errorf("predict: %w", err)
	}
	p, err := model.ClassProbability(vec, int(models.HighRisk))
	if err != nil {
		return Prediction{}, fmt.Errorf("predict probability: %w", err)
	}
	return Prediction{Risk: models.RiskFromClass(class), Probability: p}, nil
}

// Report returns the last training report, or nil before training.
func (ms *ModelService) Report() *TrainingReport {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.report
}

func (ms *ModelService) State() models.ModelState {
	return ms.stateRepo.GetState()
}

func (ms *ModelService) IsReady() bool {
	return ms.stateRepo.IsReady()
}

// AveragePredictTime feeds the model info dialog.
func (ms *ModelService) AveragePredictTime() time.Duration {
	return ms.timer.GetAverageTime("predict")
}

func (ms *ModelService) PredictionCount() int {
	return ms.timer.Count("predict")
}
