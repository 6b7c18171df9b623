package classifier

import (
	"fmt"
	"strings"
)

// Accuracy is the fraction of positions where yPred matches yTrue.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// ConfusionMatrix counts binary outcomes with 1 as the positive class.
type ConfusionMatrix struct {
	TruePositive  int
	FalsePositive int
	TrueNegative  int
	FalseNegative int
}

func NewConfusionMatrix(yTrue, yPred []int) ConfusionMatrix {
	var cm ConfusionMatrix
	for i := range yTrue {
		if i >= len(yPred) {
			break
		}
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			cm.TruePositive++
		case yTrue[i] != 1 && yPred[i] == 1:
			cm.FalsePositive++
		case yTrue[i] == 1:
			cm.FalseNegative++
		default:
			cm.TrueNegative++
		}
	}
	return cm
}

func (cm ConfusionMatrix) Total() int {
	return cm.TruePositive + cm.FalsePositive + cm.TrueNegative + cm.FalseNegative
}

func (cm ConfusionMatrix) Accuracy() float64 {
	if cm.Total() == 0 {
		return 0
	}
	return float64(cm.TruePositive+cm.TrueNegative) / float64(cm.Total())
}

func (cm ConfusionMatrix) Precision() float64 {
	return ratio(cm.TruePositive, cm.TruePositive+cm.FalsePositive)
}

func (cm ConfusionMatrix) Recall() float64 {
	return ratio(cm.TruePositive, cm.TruePositive+cm.FalseNegative)
}

func (cm ConfusionMatrix) F1() float64 {
	p, r := cm.Precision(), cm.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

func (cm ConfusionMatrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %10s %10s\n", "", "pred low", "pred high")
	fmt.Fprintf(&b, "%-14s %10d %10d\n", "actual low", cm.TrueNegative, cm.FalsePositive)
	fmt.Fprintf(&b, "%-14s %10d %10d\n", "actual high", cm.FalseNegative, cm.TruePositive)
	return b.String()
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
