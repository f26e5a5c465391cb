// Package alignment scores predicted cell label sequences against the placed
// components of the same row.
package alignment

// Result is the outcome of scoring one row.
type Result struct {
	Matches     int `json:"matches"`
	TotalActual int `json:"total_actual"`
}

// Accuracy returns Matches/TotalActual as a percentage. ok is false when the
// row has no actual components, in which case accuracy is not applicable.
func (r Result) Accuracy() (pct float64, ok bool) {
	if r.TotalActual == 0 {
		return 0, false
	}
	return float64(r.Matches) / float64(r.TotalActual) * 100, true
}

// Score counts the positions at which predicted and actual agree, allowing
// the two sequences to drift apart by a contiguous block of insertions or
// deletions.
//
// Two offsets, one per sequence, start at zero. On a mismatch the offset of
// the longer sequence advances and the shorter sequence's effective length
// grows by one, so correction stops once the lengths meet. When the
// lengths are equal a mismatch is simply not counted.
//
// Drift is assumed to run in one direction only. A pair that needs both an
// insertion and a deletion, at different places, is scored pessimistically;
// this is a property of the metric, not something to correct here.
func Score(predicted, actual []string) Result {
	lenPred := len(predicted)
	lenActual := len(actual)
	shorter := min(lenPred, lenActual)

	gapPredict, gapActual := 0, 0
	matches := 0
	for i := 0; i < shorter; i++ {
		if predicted[i+gapPredict] == actual[i+gapActual] {
			matches++
			continue
		}
		switch {
		case lenPred < lenActual:
			gapActual++
			lenPred++
		case lenPred > lenActual:
			gapPredict++
			lenActual++
		}
	}

	return Result{Matches: matches, TotalActual: len(actual)}
}
