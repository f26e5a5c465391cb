package via

import (
	"cell-tracer/pkg/errors"
)

// Params holds the candidate grouping thresholds.
type Params struct {
	// MaxGroupSize is the largest number of vias a single cell may own.
	MaxGroupSize int `toml:"max_group_size"`
	// MaxDistance bounds last.x - first.x of a group, exclusive. One value
	// covers every group size.
	MaxDistance float64 `toml:"max_distance"`
}

// DefaultParams returns grouping parameters tuned for the FreePDK45 gscl45nm
// library: up to three signal vias per cell, and the OR2X1 cell width as the
// distance bound.
func DefaultParams() Params {
	return Params{
		MaxGroupSize: 3,
		MaxDistance:  2280,
	}
}

// WithMaxGroupSize returns a copy of params with a different group size bound.
func (p Params) WithMaxGroupSize(n int) Params {
	p.MaxGroupSize = n
	return p
}

// WithMaxDistance returns a copy of params with a different span bound.
func (p Params) WithMaxDistance(d float64) Params {
	p.MaxDistance = d
	return p
}

// Validate rejects parameters under which no group could ever qualify.
func (p Params) Validate() error {
	if p.MaxGroupSize < 2 {
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"max group size must be at least 2, got %d", p.MaxGroupSize)
	}
	if p.MaxDistance <= 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"max distance must be positive, got %g", p.MaxDistance)
	}
	return nil
}
