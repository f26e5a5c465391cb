package cell

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"cell-tracer/pkg/errors"
)

// DefaultLabels is the class index → label table of the shipped model.
var DefaultLabels = []string{"and2", "invx1", "invx8", "nand2", "nor2", "or2"}

// Model is a multinomial linear classifier: one weight row and one intercept
// per class. Raw class scores are X·Wᵀ + b, as produced by a trained
// logistic regression's decision function.
type Model struct {
	// Labels optionally overrides the label table for this model.
	Labels    []string    `json:"labels,omitempty"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`

	weights *mat.Dense
}

// LoadModel reads a model from JSON and checks that it expects features
// inputs per sample. Any failure is CLASSIFIER_UNAVAILABLE; callers must not
// go on without a model.
func LoadModel(path string, features int) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeClassifierUnavailable, err, "read model %s", path)
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeClassifierUnavailable, err, "parse model %s", path)
	}
	if err := m.init(features); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewModel builds a model from weights, validating the shape.
func NewModel(coef [][]float64, intercept []float64, features int) (*Model, error) {
	m := &Model{Coef: coef, Intercept: intercept}
	if err := m.init(features); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) init(features int) error {
	classes := len(m.Coef)
	if classes < 2 {
		return errors.New(errors.ErrCodeClassifierUnavailable, "model needs at least 2 classes, has %d", classes)
	}
	if len(m.Intercept) != classes {
		return errors.New(errors.ErrCodeClassifierUnavailable,
			"model has %d intercepts for %d classes", len(m.Intercept), classes)
	}
	flat := make([]float64, 0, classes*features)
	for i, row := range m.Coef {
		if len(row) != features {
			return errors.New(errors.ErrCodeClassifierUnavailable,
				"model class %d has %d weights, snippets have %d features", i, len(row), features)
		}
		flat = append(flat, row...)
	}
	m.weights = mat.NewDense(classes, features, flat)
	return nil
}

// Classes returns the number of classes.
func (m *Model) Classes() int { return len(m.Intercept) }

// Features returns the expected feature count per sample.
func (m *Model) Features() int {
	_, c := m.weights.Dims()
	return c
}

// DecisionFunction returns the n×classes raw score matrix for the n×features
// sample matrix x.
func (m *Model) DecisionFunction(x *mat.Dense) (*mat.Dense, error) {
	n, f := x.Dims()
	if f != m.Features() {
		return nil, fmt.Errorf("decision function: got %d features, model expects %d", f, m.Features())
	}
	scores := mat.NewDense(n, m.Classes(), nil)
	scores.Mul(x, m.weights.T())
	for i := 0; i < n; i++ {
		floats.Add(scores.RawRowView(i), m.Intercept)
	}
	return scores, nil
}

// Predict turns raw scores into predictions through the label table.
func (m *Model) Predict(scores *mat.Dense, labels []string) ([]Prediction, error) {
	if len(m.Labels) > 0 {
		labels = m.Labels
	}
	if len(labels) < m.Classes() {
		return nil, errors.New(errors.ErrCodeClassifierUnavailable,
			"label table has %d entries for %d classes", len(labels), m.Classes())
	}

	n, _ := scores.Dims()
	out := make([]Prediction, n)
	for i := 0; i < n; i++ {
		row := scores.RawRowView(i)
		best := floats.MaxIdx(row)
		out[i] = Prediction{
			Label:       labels[best],
			ClassIndex:  best,
			Confidence:  row[best],
			Probability: softmaxAt(row, best),
		}
	}
	return out, nil
}

// softmaxAt returns exp(s[k]) / Σ exp(s[j]), computed stably.
func softmaxAt(s []float64, k int) float64 {
	peak := floats.Max(s)
	var sum float64
	for _, v := range s {
		sum += math.Exp(v - peak)
	}
	return math.Exp(s[k]-peak) / sum
}
