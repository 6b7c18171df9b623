package models

import (
	"sync"
	"time"
)

// ModelPhase is the lifecycle of the single in-process classifier.
type ModelPhase int

const (
	ModelIdle ModelPhase = iota
	ModelTraining
	ModelReady
	ModelFailed
)

func (p ModelPhase) String() string {
	switch p {
	case ModelIdle:
		return "idle"
	case ModelTraining:
		return "training"
	case ModelReady:
		return "ready"
	case ModelFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ModelState is a snapshot of training progress.
type ModelState struct {
	Phase        ModelPhase
	CurrentStage string
	Progress     float64
	StartTime    time.Time
	Err          error
}

// ModelStateRepository tracks training progress for the UI.
type ModelStateRepository struct {
	mu    sync.RWMutex
	state ModelState
}

func NewModelStateRepository() *ModelStateRepository {
	return &ModelStateRepository{state: ModelState{Phase: ModelIdle, CurrentStage: "Not trained"}}
}

func (r *ModelStateRepository) GetState() ModelState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// StartTraining moves Idle or Failed to Training. It returns false if a
// training run is in progress or the model is already ready.
func (r *ModelStateRepository) StartTraining() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase == ModelTraining || r.state.Phase == ModelReady {
		return false
	}
	r.state = ModelState{
		Phase:        ModelTraining,
		CurrentStage: "Initializing",
		StartTime:    time.Now(),
	}
	return true
}

func (r *ModelStateRepository) UpdateProgress(stage string, progress float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Phase != ModelTraining {
		return
	}
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	r.state.CurrentStage = stage
	r.state.Progress = progress
}

func (r *ModelStateRepository) CompleteTraining() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Phase = ModelReady
	r.state.CurrentStage = "Ready"
	r.state.Progress = 1
	r.state.Err = nil
}

func (r *ModelStateRepository) FailTraining(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.Phase = ModelFailed
	r.state.CurrentStage = "Failed"
	r.state.Err = err
}

func (r *ModelStateRepository) IsReady() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Phase == ModelReady
}

func (r *ModelStateRepository) IsTraining() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Phase == ModelTraining
}
