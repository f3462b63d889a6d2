package filtering

import (
	"context"
	"fmt"

	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/matching"
)

type dismissFileFilter struct {
	path       string
	repository string
}

// NewDismissFile creates a filter that removes issues recorded in a dismiss
// file for the given repository.
func NewDismissFile(path, repository string) Filter {
	return &dismissFileFilter{
		path:       path,
		repository: repository,
	}
}

func (f *dismissFileFilter) Name() string { return "dismiss_file" }

func (f *dismissFileFilter) Disable(string) {}

func (f *dismissFileFilter) IsEnabled() bool { return true }

func (f *dismissFileFilter) Apply(_ context.Context, recs *matching.Recommendations) (*matching.Recommendations, Step, error) {
	initial := recs.Len()
	if f.path == "" {
		return recs, Step{Initial: initial, Dropped: 0, Left: recs.Len()}, nil
	}

	dismissed, err := github.GetDismissedIssuesFromFile(f.path)
	if err != nil {
		return recs, Step{}, fmt.Errorf("getting dismissed issues from file: %w", err)
	}

	removed := recs.Exclude(dismissed.Numbers(f.repository))

	return recs, Step{Initial: initial, Dropped: len(removed), Left: recs.Len()}, nil
}
