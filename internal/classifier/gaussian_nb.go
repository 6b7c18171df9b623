// Package classifier implements Gaussian Naive Bayes with scikit-learn's
// default behaviour: empirical class priors and variance smoothing of
// 1e-9 times the largest feature variance.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrNotFitted         = errors.New("classifier is not fitted")
	ErrEmptyTrainingSet  = errors.New("training set is empty")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrConstantFeatures  = errors.New("every feature is constant")
)

const DefaultVarSmoothing = 1e-9

type Option func(*GaussianNB)

// WithVarSmoothing sets the fraction of the largest feature variance added
// to every per-class variance.
func WithVarSmoothing(eps float64) Option {
	return func(nb *GaussianNB) {
		nb.varSmoothing = eps
	}
}

// GaussianNB is safe for concurrent Predict calls; Fit takes the write lock.
type GaussianNB struct {
	mu           sync.RWMutex
	varSmoothing float64

	classes  []int
	logPrior []float64
	theta    [][]float64 // per class feature means
	variance [][]float64 // per class feature variances, smoothed
	epsilon  float64
	nFeature int
}

func NewGaussianNB(opts ...Option) *GaussianNB {
	nb := &GaussianNB{varSmoothing: DefaultVarSmoothing}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Fit estimates per-class priors, means and variances from X and y.
func (nb *GaussianNB) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d rows but %d labels", ErrDimensionMismatch, len(X), len(y))
	}
	nFeature := len(X[0])
	if nFeature == 0 {
		return fmt.Errorf("%w: rows have no features", ErrDimensionMismatch)
	}
	for i, row := range X {
		if len(row) != nFeature {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrDimensionMismatch, i, len(row), nFeature)
		}
	}

	byClass := make(map[int][]int)
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	column := make([]float64, len(X))
	maxVar := 0.0
	for j := 0; j < nFeature; j++ {
		for i, row := range X {
			column[i] = row[j]
		}
		_, v := stat.PopMeanVariance(column, nil)
		maxVar = math.Max(maxVar, v)
	}
	if maxVar == 0 {
		return fmt.Errorf("%w across %d rows", ErrConstantFeatures, len(X))
	}
	epsilon := nb.varSmoothing * maxVar

	logPrior := make([]float64, len(classes))
	theta := make([][]float64, len(classes))
	variance := make([][]float64, len(classes))
	for k, c := range classes {
		rows := byClass[c]
		logPrior[k] = math.Log(float64(len(rows)) / float64(len(X)))
		theta[k] = make([]float64, nFeature)
		variance[k] = make([]float64, nFeature)

		values := make([]float64, len(rows))
		for j := 0; j < nFeature; j++ {
			for i, r := range rows {
				values[i] = X[r][j]
			}
			mean, v := stat.PopMeanVariance(values, nil)
			theta[k][j] = mean
			variance[k][j] = v + epsilon
		}
	}

	nb.mu.Lock()
	defer nb.mu.Unlock()
	nb.classes = classes
	nb.logPrior = logPrior
	nb.theta = theta
	nb.variance = variance
	nb.epsilon = epsilon
	nb.nFeature = nFeature
	return nil
}

// jointLogLikelihood returns log P(c) + log P(x|c) for every class.
// Callers hold the read lock.
func (nb *GaussianNB) jointLogLikelihood(x []float64) ([]float64, error) {
	if nb.classes == nil {
		return nil, ErrNotFitted
	}
	if len(x) != nb.nFeature {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(x), nb.nFeature)
	}

	jll := make([]float64, len(nb.classes))
	for k := range nb.classes {
		ll := 0.0
		for j, xj := range x {
			v := nb.variance[k][j]
			d := xj - nb.theta[k][j]
			ll -= 0.5*math.Log(2*math.Pi*v) + 0.5*d*d/v
		}
		jll[k] = nb.logPrior[k] + ll
	}
	return jll, nil
}

// PredictProba returns the posterior of each class, ordered as Classes().
func (nb *GaussianNB) PredictProba(x []float64) ([]float64, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	jll, err := nb.jointLogLikelihood(x)
	if err != nil {
		return nil, err
	}
	norm := floats.LogSumExp(jll)
	for k := range jll {
		jll[k] = math.Exp(jll[k] - norm)
	}
	return jll, nil
}

// Predict returns the most probable class label for x.
func (nb *GaussianNB) Predict(x []float64) (int, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	jll, err := nb.jointLogLikelihood(x)
	if err != nil {
		return 0, err
	}
	return nb.classes[floats.MaxIdx(jll)], nil
}

func (nb *GaussianNB) PredictBatch(X [][]float64) ([]int, error) {
	out := make([]int, len(X))
	for i, x := range X {
		p, err := nb.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// Score returns the mean accuracy on X against y.
func (nb *GaussianNB) Score(X [][]float64, y []int) (float64, error) {
	if len(X) != len(y) {
		return 0, fmt.Errorf("%w: %d rows but %d labels", ErrDimensionMismatch, len(X), len(y))
	}
	pred, err := nb.PredictBatch(X)
	if err != nil {
		return 0, err
	}
	return Accuracy(y, pred), nil
}

// Classes returns the sorted labels seen during Fit.
func (nb *GaussianNB) Classes() []int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return append([]int(nil), nb.classes...)
}

func (nb *GaussianNB) NumFeatures() int {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.nFeature
}

func (nb *GaussianNB) Fitted() bool {
	nb.mu.RLock()
	defer nb.mu.RUnlock()
	return nb.classes != nil
}

// ClassProbability returns the posterior of one label, or 0 if the label was
// never seen in training.
func (nb *GaussianNB) ClassProbability(x []float64, label int) (float64, error) {
	proba, err := nb.PredictProba(x)
	if err != nil {
		return 0, err
	}
	for k, c := range nb.Classes() {
		if c == label {
			return proba[k], nil
		}
	}
	return 0, nil
}

// Params exposes the fitted parameters for inspection.
type Params struct {
	Classes  []int
	Priors   []float64
	Theta    [][]float64
	Variance [][]float64
	Epsilon  float64
}

func (nb *GaussianNB) Params() (Params, error) {
	nb.mu.RLock()
	defer nb.mu.RUnlock()

	if nb.classes == nil {
		return Params{}, ErrNotFitted
	}
	p := Params{
		Classes: append([]int(nil), nb.classes...),
		Priors:  make([]float64, len(nb.logPrior)),
		Epsilon: nb.epsilon,
	}
	for k, lp := range nb.logPrior {
		p.Priors[k] = math.Exp(lp)
		p.Theta = append(p.Theta, append([]float64(nil), nb.theta[k]...))
		p.Variance = append(p.Variance, append([]float64(nil), nb.variance[k]...))
	}
	return p, nil
}
