package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRisk(t *testing.T) {
	assert.Equal(t, HighRisk, RiskFromClass(1))
	assert.Equal(t, LowRisk, RiskFromClass(0))
	assert.Equal(t, "High Risk", HighRisk.String())
	assert.Equal(t, "Low Risk", LowRisk.String())
}

func TestAssessment_Confidence(t *testing.T) {
	assert.InDelta(t, 0.8, Assessment{Risk: HighRisk, Probability: 0.8}.Confidence(), 1e-12)
	assert.InDelta(t, 0.9, Assessment{Risk: LowRisk, Probability: 0.1}.Confidence(), 1e-12)
}

func TestAssessmentRepository_Eviction(t *testing.T) {
	repo := NewAssessmentRepository(3)
	for i := 0; i < 5; i++ {
		risk := LowRisk
		if i%2 == 0 {
			risk = HighRisk
		}
		repo.Add(Assessment{ID: string(rune('a' + i)), Risk: risk})
	}

	history := repo.History()
	require.Len(t, history, 3)
	assert.Equal(t, "c", history[0].ID)
	assert.Equal(t, "e", history[2].ID)

	assert.Equal(t, AssessmentStats{Total: 3, HighRisk: 2, LowRisk: 1}, repo.Stats())
	assert.Equal(t, 3, repo.Len())
}

func TestAssessmentRepository_DefaultSize(t *testing.T) {
	repo := NewAssessmentRepository(0)
	for i := 0; i < DefaultHistorySize+5; i++ {
		repo.Add(Assessment{})
	}
	assert.Equal(t, DefaultHistorySize, repo.Len())
}

func TestModelStateRepository_Lifecycle(t *testing.T) {
	repo := NewModelStateRepository()
	assert.Equal(t, ModelIdle, repo.GetState().Phase)

	require.True(t, repo.StartTraining())
	assert.False(t, repo.StartTraining(), "second start while training")
	assert.True(t, repo.IsTraining())

	repo.UpdateProgress("Fitting", 1.7)
	st := repo.GetState()
	assert.Equal(t, "Fitting", st.CurrentStage)
	assert.Equal(t, 1.0, st.Progress)

	repo.FailTraining(errors.New("no rows"))
	assert.Equal(t, ModelFailed, repo.GetState().Phase)
	assert.EqualError(t, repo.GetState().Err, "no rows")

	require.True(t, repo.StartTraining(), "retry after failure")
	repo.CompleteTraining()
	assert.True(t, repo.IsReady())
	assert.False(t, repo.StartTraining(), "model trains at most once")

	repo.UpdateProgress("ignored", 0.5)
	assert.Equal(t, "Ready", repo.GetState().CurrentStage)
}
