package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStratifiedSplit_KeepsClassRatio(t *testing.T) {
	table, err := Load(context.Background(), fixture, DefaultOptions())
	require.NoError(t, err)

	train, test, err := StratifiedSplit(table, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, 160, train.Len())
	assert.Equal(t, 40, test.Len())
	assert.Equal(t, map[int]int{0: 27, 1: 13}, test.ClassCounts())
	assert.Equal(t, map[int]int{0: 106, 1: 54}, train.ClassCounts())
	assert.Equal(t, table.Columns, train.Columns)
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	table, err := Load(context.Background(), fixture, DefaultOptions())
	require.NoError(t, err)

	_, a, err := StratifiedSplit(table, 0.2, 42)
	require.NoError(t, err)
	_, b, err := StratifiedSplit(table, 0.2, 42)
	require.NoError(t, err)
	_, c, err := StratifiedSplit(table, 0.2, 7)
	require.NoError(t, err)

	assert.Equal(t, a.X, b.X)
	assert.NotEqual(t, a.X, c.X)
}

func TestStratifiedSplit_Disjoint(t *testing.T) {
	table := &Table{Columns: []string{"id"}}
	for i := 0; i < 50; i++ {
		table.X = append(table.X, []float64{float64(i)})
		table.Y = append(table.Y, i%2)
	}

	train, test, err := StratifiedSplit(table, 0.3, 1)
	require.NoError(t, err)

	seen := map[float64]bool{}
	for _, row := range append(train.X, test.X...) {
		assert.False(t, seen[row[0]], "row %v in both halves", row[0])
		seen[row[0]] = true
	}
	assert.Len(t, seen, 50)
}

func TestStratifiedSplit_Errors(t *testing.T) {
	table := &Table{Columns: []string{"a"}, X: [][]float64{{1}, {2}}, Y: []int{0, 1}}

	_, _, err := StratifiedSplit(table, 0, 1)
	assert.ErrorContains(t, err, "test size")
	_, _, err = StratifiedSplit(table, 1.5, 1)
	assert.ErrorContains(t, err, "test size")
	_, _, err = StratifiedSplit(&Table{X: [][]float64{{1}}, Y: []int{0}}, 0.5, 1)
	assert.ErrorContains(t, err, "at least 2 rows")

	// one row per class: each class keeps its only row for training
	_, _, err = StratifiedSplit(table, 0.2, 1)
	assert.ErrorContains(t, err, "no test rows")
}
