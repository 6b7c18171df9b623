package classifier

import (
	"context"
	"errors"
	"testing"

	"risk-assessor/internal/dataset"
	"risk-assessor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Same toy data as the scikit-learn GaussianNB docs, labels shifted to 0/1.
var (
	toyX = [][]float64{{-2, -1}, {-1, -1}, {-1, -2}, {1, 1}, {1, 2}, {2, 1}}
	toyY = []int{0, 0, 0, 1, 1, 1}
)

func TestGaussianNB_FitParams(t *testing.T) {
	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(toyX, toyY))

	p, err := nb.Params()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, p.Classes)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, p.Priors, 1e-12)
	assert.InDeltaSlice(t, []float64{-4.0 / 3, -4.0 / 3}, p.Theta[0], 1e-12)
	assert.InDeltaSlice(t, []float64{4.0 / 3, 4.0 / 3}, p.Theta[1], 1e-12)
	// population variance of {-2,-1,-1} is 2/9; overall variance of each column is 2
	assert.InDelta(t, 2e-9, p.Epsilon, 1e-15)
	assert.InDelta(t, 2.0/9+2e-9, p.Variance[0][0], 1e-12)

	assert.True(t, nb.Fitted())
	assert.Equal(t, 2, nb.NumFeatures())
}

func TestGaussianNB_Predict(t *testing.T) {
	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(toyX, toyY))

	got, err := nb.Predict([]float64{-0.8, -1})
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = nb.Predict([]float64{1.5, 1.5})
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	proba, err := nb.PredictProba([]float64{-0.8, -1})
	require.NoError(t, err)
	require.Len(t, proba, 2)
	assert.InDelta(t, 1.0, proba[0]+proba[1], 1e-12)
	assert.Greater(t, proba[0], 0.99)

	score, err := nb.Score(toyX, toyY)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestGaussianNB_SymmetricPosterior(t *testing.T) {
	nb := NewGaussianNB()
	require.NoError(t, nb.Fit([][]float64{{0}, {2}, {10}, {12}}, []int{0, 0, 1, 1}))

	p, err := nb.ClassProbability([]float64{6}, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	p, err = nb.ClassProbability([]float64{11}, 1)
	require.NoError(t, err)
	assert.Greater(t, p, 0.999)

	p, err = nb.ClassProbability([]float64{11}, 7)
	require.NoError(t, err)
	assert.Zero(t, p)
}

func TestGaussianNB_UnequalPriors(t *testing.T) {
	// identical per-class distributions: the posterior equals the prior
	X := [][]float64{{0}, {1}, {0}, {1}, {0}, {1}, {0}, {1}}
	y := []int{0, 0, 0, 0, 0, 0, 1, 1}
	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(X, y))

	proba, err := nb.PredictProba([]float64{0.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.75, 0.25}, proba, 1e-9)
}

func TestGaussianNB_SingleClass(t *testing.T) {
	nb := NewGaussianNB()
	require.NoError(t, nb.Fit([][]float64{{1}, {2}}, []int{1, 1}))

	got, err := nb.Predict([]float64{100})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, []int{1}, nb.Classes())
}

func TestGaussianNB_ConstantFeatureUsesSmoothing(t *testing.T) {
	nb := NewGaussianNB(WithVarSmoothing(1e-3))
	X := [][]float64{{1, 0}, {1, 1}, {1, 5}, {1, 6}}
	require.NoError(t, nb.Fit(X, []int{0, 0, 1, 1}))

	p, err := nb.Params()
	require.NoError(t, err)
	assert.Greater(t, p.Variance[0][0], 0.0)

	got, err := nb.Predict([]float64{1, 5.5})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestGaussianNB_Errors(t *testing.T) {
	nb := NewGaussianNB()

	_, err := nb.Predict([]float64{1, 2})
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = nb.PredictProba([]float64{1, 2})
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = nb.Params()
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.False(t, nb.Fitted())

	assert.ErrorIs(t, nb.Fit(nil, nil), ErrEmptyTrainingSet)
	assert.ErrorIs(t, nb.Fit([][]float64{{1}}, []int{0, 1}), ErrDimensionMismatch)
	assert.ErrorIs(t, nb.Fit([][]float64{{1, 2}, {1}}, []int{0, 1}), ErrDimensionMismatch)
	assert.ErrorIs(t, nb.Fit([][]float64{{}}, []int{0}), ErrDimensionMismatch)

	require.NoError(t, nb.Fit(toyX, toyY))
	_, err = nb.Predict([]float64{1})
	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	_, err = nb.PredictBatch([][]float64{{1, 1}, {1}})
	assert.ErrorContains(t, err, "row 1")
	_, err = nb.Score(toyX, []int{0})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestGaussianNB_AllFeaturesConstant(t *testing.T) {
	nb := NewGaussianNB()
	X := [][]float64{{3, 1}, {3, 1}, {3, 1}, {3, 1}}

	err := nb.Fit(X, []int{0, 0, 1, 1})
	assert.ErrorIs(t, err, ErrConstantFeatures)
	assert.False(t, nb.Fitted())

	_, err = nb.PredictProba([]float64{3, 1})
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestGaussianNB_PatientFixture(t *testing.T) {
	opts := dataset.DefaultOptions()
	opts.Features = models.FeatureKeys()
	table, err := dataset.Load(context.Background(), "../dataset/testdata/patients.csv", opts)
	require.NoError(t, err)

	train, test, err := dataset.StratifiedSplit(table, 0.2, 42)
	require.NoError(t, err)

	nb := NewGaussianNB()
	require.NoError(t, nb.Fit(train.X, train.Y))
	assert.Equal(t, models.FeatureCount, nb.NumFeatures())

	score, err := nb.Score(test.X, test.Y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.8)
}
