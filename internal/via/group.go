package via

// GroupCandidates enumerates, for every starting via of an x-sorted row, the
// contiguous groups of 2..MaxGroupSize vias whose span is below MaxDistance.
//
// Each size is tested on its own against the same starting via; a failing
// smaller size does not stop larger sizes from being tried. Starting vias
// with no qualifying group are left out of the result, which is ordered by
// starting position.
func GroupCandidates(row []Via, params Params) ([]Candidates, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var out []Candidates
	n := len(row)
	for i := 0; i < n; i++ {
		first := row[i]
		var groups []Group
		for j := 2; j <= params.MaxGroupSize; j++ {
			last := i + j - 1
			if last >= n {
				continue
			}
			if row[last].X()-first.X() < params.MaxDistance {
				// g must not alias row.
				g := make(Group, j)
				copy(g, row[i:i+j])
				groups = append(groups, g)
			}
		}
		if len(groups) > 0 {
			out = append(out, Candidates{Start: i, Groups: groups})
		}
	}
	return out, nil
}
