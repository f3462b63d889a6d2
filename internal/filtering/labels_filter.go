package filtering

import (
	"context"

	"github.com/gitscout/gitscout/internal/matching"
)

type labelsFilter struct {
	labels []string
}

// NewExcludedLabels creates a filter that removes issues carrying any of the
// configured labels.
func NewExcludedLabels(labels []string) Filter {
	return &labelsFilter{
		labels: labels,
	}
}

func (f *labelsFilter) Name() string { return "labels" }

func (f *labelsFilter) Disable(string) {}

func (f *labelsFilter) IsEnabled() bool { return true }

func (f *labelsFilter) Apply(_ context.Context, recs *matching.Recommendations) (*matching.Recommendations, Step, error) {
	initial := recs.Len()
	if len(f.labels) == 0 {
		return recs, Step{Initial: initial, Dropped: 0, Left: recs.Len()}, nil
	}

	excluded := recs.ExcludeLabels(f.labels)

	return recs, Step{Initial: initial, Dropped: len(excluded), Left: recs.Len()}, nil
}
