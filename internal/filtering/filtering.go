package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gitscout/gitscout/internal/matching"
)

// Filter represents a single filtering step applied to recommendations.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Apply(ctx context.Context, recs *matching.Recommendations) (*matching.Recommendations, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Filtering runs an ordered list of filters.
type Filtering struct {
	steps  []Filter
	logger *zap.Logger
}

func New(steps []Filter, logger *zap.Logger) *Filtering {
	return &Filtering{steps: steps, logger: logger}
}

// RunFilters executes the filters sequentially, returning the resulting
// recommendations list.
func (f *Filtering) RunFilters(ctx context.Context, recs *matching.Recommendations) (*matching.Recommendations, error) {
	for _, step := range f.steps {
		if !step.IsEnabled() {
			f.logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		next, info, err := step.Apply(ctx, recs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		f.logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		recs = next
	}

	return recs, nil
}
