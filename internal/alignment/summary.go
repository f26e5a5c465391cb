package alignment

// RowScore is the score of one row together with the sequences compared.
type RowScore struct {
	Row       int      `json:"row"`
	Predicted []string `json:"predicted"`
	Actual    []string `json:"actual"`
	Result
}

// Summary aggregates row scores.
type Summary struct {
	Rows    []RowScore `json:"rows"`
	Matches int        `json:"matches"`
	Total   int        `json:"total"`
}

// Summarize sums matches and actual counts across rows.
func Summarize(rows []RowScore) Summary {
	s := Summary{Rows: rows}
	for _, r := range rows {
		s.Matches += r.Matches
		s.Total += r.TotalActual
	}
	return s
}

// Percent returns sum(matches)/sum(total)*100. ok is false when no row had
// any actual component.
func (s Summary) Percent() (pct float64, ok bool) {
	return Result{Matches: s.Matches, TotalActual: s.Total}.Accuracy()
}
