package ai

import (
	"context"

	"github.com/gitscout/gitscout/internal/github"
)

// Analyzer extracts the skills an issue requires from its free text. It
// supplements the deterministic keyword extraction; callers must tolerate
// failures and fall back to the extracted set.
type Analyzer interface {
	RequiredSkills(ctx context.Context, issue *github.Issue) ([]string, error)
}
