package cell

import (
	"context"
	"fmt"

	"cell-tracer/internal/via"
	"cell-tracer/pkg/errors"
)

// Selection is one accepted candidate group and the label predicted for it.
type Selection struct {
	Group      via.Group `json:"group"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
}

// RowSelection is the outcome of selecting one row.
type RowSelection struct {
	Row        int          `json:"row"`
	Selections []Selection  `json:"selections"`
	Visited    map[int]bool `json:"-"` // via global index → absorbed by an accepted group
}

// Labels returns the predicted label sequence in position order.
func (s RowSelection) Labels() []string {
	out := make([]string, len(s.Selections))
	for i, sel := range s.Selections {
		out[i] = sel.Label
	}
	return out
}

// SelectRow walks a row's candidates in start order and greedily accepts, per
// starting position, the group the classifier is most confident about.
//
// A position whose leading via was absorbed by an earlier accepted group is
// skipped without being classified. All groups of a position go to the
// classifier in one call; the highest confidence wins and the first group
// wins ties. Every via of an accepted group is marked visited, so no via is
// used by two selections of the same row.
func SelectRow(ctx context.Context, rowIndex int, cands []via.Candidates, c Classifier) (RowSelection, error) {
	sel := RowSelection{Row: rowIndex, Visited: make(map[int]bool)}
	for _, cand := range cands {
		if err := ctx.Err(); err != nil {
			return sel, err
		}
		if len(cand.Groups) == 0 || sel.Visited[cand.Lead().Index] {
			continue
		}

		preds, err := c.Classify(ctx, rowIndex, cand.Groups)
		if err != nil {
			return sel, fmt.Errorf("classify row %d position %d: %w", rowIndex, cand.Start, err)
		}
		if len(preds) != len(cand.Groups) {
			return sel, errors.New(errors.ErrCodeInternal,
				"classifier returned %d predictions for %d groups", len(preds), len(cand.Groups))
		}

		best := 0
		for i := 1; i < len(preds); i++ {
			if preds[i].Confidence > preds[best].Confidence {
				best = i
			}
		}

		g := cand.Groups[best]
		for _, v := range g {
			sel.Visited[v.Index] = true
		}
		sel.Selections = append(sel.Selections, Selection{
			Group:      g,
			Label:      preds[best].Label,
			Confidence: preds[best].Confidence,
		})
	}
	return sel, nil
}
