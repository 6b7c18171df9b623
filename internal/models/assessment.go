package models

import (
	"sync"
	"time"
)

// Risk is the classifier's binary verdict.
type Risk int

const (
	LowRisk  Risk = 0
	HighRisk Risk = 1
)

func RiskFromClass(class int) Risk {
	if class == int(HighRisk) {
		return HighRisk
	}
	return LowRisk
}

func (r Risk) String() string {
	if r == HighRisk {
		return "High Risk"
	}
	return "Low Risk"
}

// Assessment is the outcome of one submitted form.
type Assessment struct {
	ID          string
	Features    FeatureVector
	Risk        Risk
	Probability float64 // of HighRisk
	CreatedAt   time.Time
	Duration    time.Duration
}

// Confidence is the probability of the predicted class.
func (a Assessment) Confidence() float64 {
	if a.Risk == HighRisk {
		return a.Probability
	}
	return 1 - a.Probability
}

const DefaultHistorySize = 20

// AssessmentRepository keeps the session's most recent assessments in memory.
type AssessmentRepository struct {
	mu             sync.RWMutex
	history        []Assessment
	maxHistorySize int
}

func NewAssessmentRepository(maxHistorySize int) *AssessmentRepository {
	if maxHistorySize <= 0 {
		maxHistorySize = DefaultHistorySize
	}
	return &AssessmentRepository{
		history:        make([]Assessment, 0, maxHistorySize),
		maxHistorySize: maxHistorySize,
	}
}

// Add appends an assessment, evicting the oldest once the cap is reached.
func (r *AssessmentRepository) Add(a Assessment) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, a)
	if over := len(r.history) - r.maxHistorySize; over > 0 {
		r.history = append(r.history[:0:0], r.history[over:]...)
	}
}

// History returns a copy, oldest first.
func (r *AssessmentRepository) History() []Assessment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Assessment, len(r.history))
	copy(out, r.history)
	return out
}

func (r *AssessmentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.history)
}

// Stats summarises the session for the status bar.
type AssessmentStats struct {
	Total    int
	HighRisk int
	LowRisk  int
}

func (r *AssessmentRepository) Stats() AssessmentStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := AssessmentStats{Total: len(r.history)}
	for _, a := range r.history {
		if a.Risk == HighRisk {
			stats.HighRisk++
		} else {
			stats.LowRisk++
		}
	}
	return stats
}
