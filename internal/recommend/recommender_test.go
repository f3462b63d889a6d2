package recommend

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/gitscout/gitscout/internal/filtering"
	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/matching"
	"github.com/gitscout/gitscout/internal/skills"
)

type stubGitHub struct {
	profile    *github.Profile
	repos      github.Repositories
	issues     *github.Issues
	profileErr error
	issuesErr  error
}

func (s *stubGitHub) GetUserProfile(string) (*github.Profile, error) {
	return s.profile, s.profileErr
}

func (s *stubGitHub) GetUserRepositories(string) (github.Repositories, error) {
	return s.repos, nil
}

func (s *stubGitHub) GetOpenIssues(string, string) (*github.Issues, error) {
	return s.issues, s.issuesErr
}

// stubExtractor maps issue numbers to fixed skill sets so scoring is fully
// controlled by the test.
type stubExtractor struct {
	userSkills  skills.Set
	issueSkills map[int]skills.Set
}

func (s *stubExtractor) FromProfile(*github.Profile, github.Repositories) skills.Set {
	return s.userSkills
}

func (s *stubExtractor) FromIssue(issue *github.Issue) skills.Set {
	if set, ok := s.issueSkills[issue.Number]; ok {
		return set
	}
	return skills.NewSet()
}

type stubAnalyzer struct {
	skills []string
	err    error
}

func (s *stubAnalyzer) RequiredSkills(context.Context, *github.Issue) ([]string, error) {
	return s.skills, s.err
}

func newStubGitHub() *stubGitHub {
	return &stubGitHub{
		profile: &github.Profile{Login: "dev"},
		repos:   github.Repositories{{Name: "auth-proxy"}},
		issues: &github.Issues{Items: []*github.Issue{
			{Number: 1, Title: "auth bug"},
			{Number: 2, Title: "js build"},
		}},
	}
}

func TestRecommendationsOrderedAndFiltered(t *testing.T) {
	gh := newStubGitHub()
	extractor := &stubExtractor{
		userSkills: skills.NewSet("python", "security"),
		issueSkills: map[int]skills.Set{
			1: skills.NewSet("python", "authentication", "security"),
			2: skills.NewSet("javascript"),
		},
	}
	filters := filtering.New([]filtering.Filter{
		filtering.NewMinScore(matching.DefaultMinScore),
	}, zap.NewNop())

	r := New(gh, extractor, matching.NewScorer(), nil, filters, zap.NewNop())

	recs, err := r.Recommendations(context.Background(), "dev", "acme", "widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recs.Len() != 1 {
		t.Fatalf("expected only the overlapping issue, got %d", recs.Len())
	}
	if recs.Items[0].Issue.Number != 1 {
		t.Fatalf("expected issue 1, got %d", recs.Items[0].Issue.Number)
	}
	if recs.Items[0].MatchScore <= matching.DefaultMinScore {
		t.Fatalf("expected score above threshold, got %f", recs.Items[0].MatchScore)
	}
}

func TestRecommendationsSortedDescending(t *testing.T) {
	gh := newStubGitHub()
	gh.issues.Items = append(gh.issues.Items, &github.Issue{Number: 3, Title: "exact match"})

	extractor := &stubExtractor{
		userSkills: skills.NewSet("python", "security"),
		issueSkills: map[int]skills.Set{
			1: skills.NewSet("python", "authentication", "security"),
			2: skills.NewSet("javascript"),
			3: skills.NewSet("python", "security"),
		},
	}

	r := New(gh, extractor, matching.NewScorer(), nil, nil, zap.NewNop())

	recs, err := r.Recommendations(context.Background(), "dev", "acme", "widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if recs.Len() != 3 {
		t.Fatalf("expected all issues without filters, got %d", recs.Len())
	}

	for i := 1; i < recs.Len(); i++ {
		if recs.Items[i-1].MatchScore < recs.Items[i].MatchScore {
			t.Fatalf("recommendations are not sorted descending: %f before %f",
				recs.Items[i-1].MatchScore, recs.Items[i].MatchScore)
		}
	}
	if recs.Items[0].Issue.Number != 3 {
		t.Fatalf("expected the identical skill set to rank first, got issue %d", recs.Items[0].Issue.Number)
	}
}

func TestRecommendationsEmptySkillSet(t *testing.T) {
	gh := newStubGitHub()
	extractor := &stubExtractor{userSkills: skills.NewSet()}

	r := New(gh, extractor, matching.NewScorer(), nil, nil, zap.NewNop())

	recs, err := r.Recommendations(context.Background(), "dev", "acme", "widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if recs.Len() != 0 {
		t.Fatalf("expected no recommendations for an empty skill set, got %d", recs.Len())
	}
}

func TestRecommendationsAnalyzerMergesSkills(t *testing.T) {
	gh := newStubGitHub()
	gh.issues.Items = gh.issues.Items[:1]

	extractor := &stubExtractor{
		userSkills: skills.NewSet("python"),
		issueSkills: map[int]skills.Set{
			1: skills.NewSet("python"),
		},
	}
	analyzer := &stubAnalyzer{skills: []string{"cryptography"}}

	r := New(gh, extractor, matching.NewScorer(), analyzer, nil, zap.NewNop())

	recs, err := r.Recommendations(context.Background(), "dev", "acme", "widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !recs.Items[0].RequiredSkills.Has("cryptography") {
		t.Fatal("expected analyzer skills to be merged into the required set")
	}
	if !recs.Items[0].RequiredSkills.Has("python") {
		t.Fatal("expected extracted skills to survive the merge")
	}
}

func TestRecommendationsAnalyzerFailureDegrades(t *testing.T) {
	gh := newStubGitHub()
	gh.issues.Items = gh.issues.Items[:1]

	extractor := &stubExtractor{
		userSkills: skills.NewSet("python"),
		issueSkills: map[int]skills.Set{
			1: skills.NewSet("python"),
		},
	}
	analyzer := &stubAnalyzer{err: errors.New("quota exceeded")}

	r := New(gh, extractor, matching.NewScorer(), analyzer, nil, zap.NewNop())

	recs, err := r.Recommendations(context.Background(), "dev", "acme", "widgets")
	if err != nil {
		t.Fatalf("analyzer failures must not fail the pipeline: %v", err)
	}
	if recs.Len() != 1 {
		t.Fatalf("expected the extracted-only recommendation, got %d", recs.Len())
	}
}

func TestRecommendationsFetchErrorSurfaces(t *testing.T) {
	gh := newStubGitHub()
	gh.issuesErr = errors.New("api: 403")

	extractor := &stubExtractor{userSkills: skills.NewSet("python")}

	r := New(gh, extractor, matching.NewScorer(), nil, nil, zap.NewNop())

	if _, err := r.Recommendations(context.Background(), "dev", "acme", "widgets"); err == nil {
		t.Fatal("expected fetch error to surface")
	}
}

func TestUserSkillsProfileErrorSurfaces(t *testing.T) {
	gh := newStubGitHub()
	gh.profileErr = errors.New("api: 404")

	r := New(gh, &stubExtractor{}, matching.NewScorer(), nil, nil, zap.NewNop())

	if _, err := r.UserSkills(context.Background(), "ghost"); err == nil {
		t.Fatal("expected profile error to surface")
	}
}
