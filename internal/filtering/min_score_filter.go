package filtering

import (
	"context"

	"github.com/gitscout/gitscout/internal/matching"
)

type minScoreFilter struct {
	min float64
}

// NewMinScore creates a filter that removes recommendations scoring below
// the threshold.
func NewMinScore(min float64) Filter {
	if min < 0 {
		min = 0
	}
	return &minScoreFilter{
		min: min,
	}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(string) {}

func (f *minScoreFilter) IsEnabled() bool { return true }

func (f *minScoreFilter) Apply(_ context.Context, recs *matching.Recommendations) (*matching.Recommendations, Step, error) {
	initial := recs.Len()
	excluded := recs.ExcludeBelow(f.min)

	return recs, Step{Initial: initial, Dropped: len(excluded), Left: recs.Len()}, nil
}
