package filtering

import (
	"context"

	"github.com/gitscout/gitscout/internal/matching"
)

type assignedFilter struct{}

// NewAssigned creates a filter that removes issues somebody is already
// working on.
func NewAssigned() Filter {
	return &assignedFilter{}
}

func (f *assignedFilter) Name() string { return "assigned" }

func (f *assignedFilter) Disable(string) {}

func (f *assignedFilter) IsEnabled() bool { return true }

func (f *assignedFilter) Apply(_ context.Context, recs *matching.Recommendations) (*matching.Recommendations, Step, error) {
	initial := recs.Len()
	excluded := recs.ExcludeAssigned()

	return recs, Step{Initial: initial, Dropped: len(excluded), Left: recs.Len()}, nil
}
