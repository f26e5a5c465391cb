package cell

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"cell-tracer/internal/features"
	"cell-tracer/internal/via"
	"cell-tracer/pkg/errors"
)

// ModelClassifier renders each candidate group and scores the snippets with a
// linear model in a single batch.
type ModelClassifier struct {
	renderer *features.Renderer
	model    *Model
	labels   []string
}

// NewModelClassifier checks that the model matches the renderer's snippet
// size and that every class has a label.
func NewModelClassifier(r *features.Renderer, m *Model, labels []string) (*ModelClassifier, error) {
	if r == nil || m == nil {
		return nil, errors.New(errors.ErrCodeClassifierUnavailable, "renderer and model are required")
	}
	if m.Features() != r.FeatureCount() {
		return nil, errors.New(errors.ErrCodeClassifierUnavailable,
			"model expects %d features, renderer produces %d", m.Features(), r.FeatureCount())
	}
	if len(m.Labels) == 0 && len(labels) < m.Classes() {
		return nil, errors.New(errors.ErrCodeClassifierUnavailable,
			"label table has %d entries for %d classes", len(labels), m.Classes())
	}
	return &ModelClassifier{renderer: r, model: m, labels: labels}, nil
}

// Classify implements Classifier. When the renderer has an artifact
// directory every candidate snippet is also written there.
func (c *ModelClassifier) Classify(ctx context.Context, row int, groups []via.Group) ([]Prediction, error) {
	if len(groups) == 0 {
		return nil, nil
	}

	n, f := len(groups), c.renderer.FeatureCount()
	x := mat.NewDense(n, f, nil)
	for i, g := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s, err := c.renderer.RenderGroup(ctx, row, g)
		if err != nil {
			return nil, fmt.Errorf("row %d group %v: %w", row, g.Indices(), err)
		}
		x.SetRow(i, s.Features())

		if _, err := c.renderer.WriteArtifact(c.renderer.GroupWindow(row, g), s, "", ""); err != nil {
			return nil, err
		}
	}

	scores, err := c.model.DecisionFunction(x)
	if err != nil {
		return nil, err
	}
	return c.model.Predict(scores, c.labels)
}

var _ Classifier = (*ModelClassifier)(nil)
