package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gitscout/gitscout/internal/ai"
	"github.com/gitscout/gitscout/internal/filtering"
	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/matching"
	"github.com/gitscout/gitscout/internal/skills"
)

// GitHub is the fetcher surface consumed by the recommender.
type GitHub interface {
	GetUserProfile(username string) (*github.Profile, error)
	GetUserRepositories(username string) (github.Repositories, error)
	GetOpenIssues(owner, repo string) (*github.Issues, error)
}

// SkillExtractor derives skill sets from profile and issue text.
type SkillExtractor interface {
	FromProfile(profile *github.Profile, repos github.Repositories) skills.Set
	FromIssue(issue *github.Issue) skills.Set
}

// Scorer computes the match between two skill sets.
type Scorer interface {
	Score(user, required skills.Set) float64
}

// Recommender runs the whole pipeline: fetch, extract, score, filter, sort.
// Every call fetches fresh data; nothing is retained between calls.
type Recommender struct {
	github    GitHub
	extractor SkillExtractor
	scorer    Scorer
	analyzer  ai.Analyzer
	filters   *filtering.Filtering
	logger    *zap.Logger
}

func New(gh GitHub, extractor SkillExtractor, scorer Scorer, analyzer ai.Analyzer, filters *filtering.Filtering, logger *zap.Logger) *Recommender {
	return &Recommender{
		github:    gh,
		extractor: extractor,
		scorer:    scorer,
		analyzer:  analyzer,
		filters:   filters,
		logger:    logger,
	}
}

// UserProfile fetches the user's public profile.
func (r *Recommender) UserProfile(ctx context.Context, username string) (*github.Profile, error) {
	profile, err := r.github.GetUserProfile(username)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return profile, nil
}

// UserRepositories fetches the user's public non-fork repositories.
func (r *Recommender) UserRepositories(ctx context.Context, username string) (github.Repositories, error) {
	repos, err := r.github.GetUserRepositories(username)
	if err != nil {
		return nil, fmt.Errorf("fetch repositories: %w", err)
	}
	return repos, nil
}

// UserSkills fetches the user's profile and repositories and extracts the
// skill set.
func (r *Recommender) UserSkills(ctx context.Context, username string) (skills.Set, error) {
	profile, err := r.github.GetUserProfile(username)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	repos, err := r.github.GetUserRepositories(username)
	if err != nil {
		return nil, fmt.Errorf("fetch repositories: %w", err)
	}

	userSkills := r.extractor.FromProfile(profile, repos)

	r.logger.Debug("extracted user skills",
		zap.String("username", username),
		zap.Int("repositories", repos.Len()),
		zap.Int("skills", userSkills.Len()),
	)

	return userSkills, nil
}

// Recommendations returns the repository's open issues matching the user's
// skills, filtered and ordered by match score descending.
func (r *Recommender) Recommendations(ctx context.Context, username, owner, repo string) (*matching.Recommendations, error) {
	userSkills, err := r.UserSkills(ctx, username)
	if err != nil {
		return nil, err
	}

	if userSkills.Len() == 0 {
		r.logger.Info("no skills extracted from profile, nothing to match",
			zap.String("username", username),
		)
		return &matching.Recommendations{}, nil
	}

	issues, err := r.github.GetOpenIssues(owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetch issues: %w", err)
	}

	recs := &matching.Recommendations{}
	for _, issue := range issues.Items {
		required := r.extractor.FromIssue(issue)
		required = r.refineWithAnalyzer(ctx, issue, required)

		recs.Items = append(recs.Items, &matching.Recommendation{
			Issue:          issue,
			MatchScore:     r.scorer.Score(userSkills, required),
			RequiredSkills: required,
			UserSkills:     userSkills,
		})
	}

	if r.filters != nil {
		recs, err = r.filters.RunFilters(ctx, recs)
		if err != nil {
			return nil, fmt.Errorf("filtering: %w", err)
		}
	}

	recs.SortByScore()

	r.logger.Debug("computed recommendations",
		zap.String("repository", fmt.Sprintf("%s/%s", owner, repo)),
		zap.Int("issues", issues.Len()),
		zap.Int("recommended", recs.Len()),
	)

	return recs, nil
}

// refineWithAnalyzer merges AI-extracted skills into the set. Analyzer
// failures degrade to the deterministic extraction.
func (r *Recommender) refineWithAnalyzer(ctx context.Context, issue *github.Issue, required skills.Set) skills.Set {
	if r.analyzer == nil {
		return required
	}

	extra, err := r.analyzer.RequiredSkills(ctx, issue)
	if err != nil {
		r.logger.Warn("ai skill analysis failed, using extracted skills only",
			zap.Int("issue_number", issue.Number),
			zap.Error(err),
		)
		return required
	}

	return required.Union(skills.NewSet(extra...))
}
