// Package cell recovers standard-cell instances from candidate via groups:
// it defines the classification capability, a linear model backed by gonum,
// and the per-row greedy selection of non-overlapping groups.
package cell

import (
	"context"

	"cell-tracer/internal/via"
)

// Prediction is the classifier's verdict on one candidate group.
type Prediction struct {
	Label       string  `json:"label"`
	ClassIndex  int     `json:"class_index"`
	Confidence  float64 `json:"confidence"`  // raw score of the winning class; higher is better
	Probability float64 `json:"probability"` // softmax of the winning class, for display
}

// Classifier scores a batch of candidate groups taken from one row.
//
// Implementations return exactly one prediction per group, in input order.
// Confidences from a single call must be comparable with each other,
// including across group sizes.
type Classifier interface {
	Classify(ctx context.Context, row int, groups []via.Group) ([]Prediction, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, row int, groups []via.Group) ([]Prediction, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, row int, groups []via.Group) ([]Prediction, error) {
	return f(ctx, row, groups)
}

// StaticClassifier classifies every group on its own with Score. It needs no
// rendering or trained model, which makes it deterministic.
type StaticClassifier struct {
	Score func(row int, g via.Group) Prediction
}

// Classify implements Classifier.
func (s StaticClassifier) Classify(ctx context.Context, row int, groups []via.Group) ([]Prediction, error) {
	out := make([]Prediction, len(groups))
	for i, g := range groups {
		out[i] = s.Score(row, g)
	}
	return out, ctx.Err()
}

// SizeClassifier is a StaticClassifier that prefers the largest group and
// labels it by via count: two signal vias read as an inverter, three as a
// two-input gate.
func SizeClassifier() StaticClassifier {
	return StaticClassifier{Score: func(_ int, g via.Group) Prediction {
		p := Prediction{Label: "nand2", ClassIndex: 3, Confidence: float64(len(g)), Probability: 1}
		if len(g) < 3 {
			p.Label, p.ClassIndex = "invx1", 1
		}
		return p
	}}
}
