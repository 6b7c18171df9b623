package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions the table into train and test sets keeping the
// class ratio of each. Rows of every class are shuffled with a source seeded
// by seed, so the split is reproducible.
func StratifiedSplit(t *Table, testSize float64, seed int64) (train, test *Table, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}
	if t.Len() < 2 {
		return nil, nil, fmt.Errorf("need at least 2 rows to split, have %d", t.Len())
	}

	byClass := make(map[int][]int)
	for i, y := range t.Y {
		byClass[y] = append(byClass[y], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	var trainRows, testRows []int
	for _, c := range classes {
		rows := byClass[c]
		rng.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })

		nTest := int(math.Round(float64(len(rows)) * testSize))
		if nTest >= len(rows) {
			nTest = len(rows) - 1
		}
		testRows = append(testRows, rows[:nTest]...)
		trainRows = append(trainRows, rows[nTest:]...)
	}
	if len(testRows) == 0 {
		return nil, nil, fmt.Errorf("test size %v leaves no test rows out of %d", testSize, t.Len())
	}

	sort.Ints(trainRows)
	sort.Ints(testRows)
	return t.Subset(trainRows), t.Subset(testRows), nil
}
