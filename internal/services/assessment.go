package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"risk-assessor/internal/logger"
	"risk-assessor/internal/models"

	"github.com/google/uuid"
)

// HistoryStore persists assessments beyond the session.
type HistoryStore interface {
	Save(ctx context.Context, a models.Assessment) error
	Recent(ctx context.Context, limit int) ([]models.Assessment, error)
	Close() error
}

// Predictor is the part of ModelService the assessment flow depends on.
type Predictor interface {
	Predict(ctx context.Context, vec models.FeatureVector) (Prediction, error)
}

// AssessmentService turns raw form input into a recorded risk assessment.
type AssessmentService struct {
	predictor Predictor
	repo      *models.AssessmentRepository
	store     HistoryStore
	logger    logger.Logger
	now       func() time.Time

	closeOnce sync.Once
}

// NewAssessmentService accepts a nil store when persistence is disabled.
func NewAssessmentService(
	predictor Predictor,
	repo *models.AssessmentRepository,
	store HistoryStore,
	log logger.Logger,
) *AssessmentService {
	return &AssessmentService{
		predictor: predictor,
		repo:      repo,
		store:     store,
		logger:    log,
		now:       time.Now,
	}
}

// Assess validates raw, predicts and records the result. Validation failures
// come back as models.ValidationErrors.
func (as *AssessmentService) Assess(ctx context.Context, raw map[string]string) (models.Assessment, error) {
	start := as.now()

	vec, err := models.ParseFeatureVector(raw)
	if err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			as.logger.Debug("AssessmentService", "input rejected", map[string]interface{}{
				"fields": verrs.Fields(),
			})
		}
		return models.Assessment{}, err
	}

	pred, err := as.predictor.Predict(ctx, vec)
	if err != nil {
		return models.Assessment{}, err
	}

	a := models.Assessment{
		ID:          uuid.NewString(),
		Features:    vec,
		Risk:        pred.Risk,
		Probability: pred.Probability,
		CreatedAt:   start,
		Duration:    as.now().Sub(start),
	}
	as.repo.Add(a)
	as.logger.Debug("AssessmentService", "features accepted", map[string]interface{}{
		"id":       a.ID,
		"features": vec.Map(),
	})

	if as.store != nil {
		if err := as.store.Save(ctx, a); err != nil {
			as.logger.Error("AssessmentService", fmt.Errorf("persist assessment: %w", err), map[string]interface{}{
				"id": a.ID,
			})
		}
	}

	as.logger.Info("AssessmentService", "assessment completed", map[string]interface{}{
		"id":          a.ID,
		"risk":        a.Risk.String(),
		"probability": a.Probability,
	})
	return a, nil
}

// History returns this session's assessments, oldest first.
func (as *AssessmentService) History() []models.Assessment {
	return as.repo.History()
}

func (as *AssessmentService) Stats() models.AssessmentStats {
	return as.repo.Stats()
}

// Recent reads persisted history, falling back to the session when no store
// is configured. Newest first in both cases.
func (as *AssessmentService) Recent(ctx context.Context, limit int) ([]models.Assessment, error) {
	if as.store != nil {
		return as.store.Recent(ctx, limit)
	}
	history := as.repo.History()
	out := make([]models.Assessment, 0, len(history))
	for i := len(history) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, history[i])
	}
	return out, nil
}

// Shutdown closes the history store.
func (as *AssessmentService) Shutdown() {
	as.closeOnce.Do(func() {
		if as.store == nil {
			return
		}
		if err := as.store.Close(); err != nil {
			as.logger.Error("AssessmentService", err, nil)
		}
	})
}
