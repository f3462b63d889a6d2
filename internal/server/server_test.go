package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/matching"
	"github.com/gitscout/gitscout/internal/skills"
)

type stubRecommender struct {
	profile *github.Profile
	repos   github.Repositories
	skills  skills.Set
	recs    *matching.Recommendations
	err     error
}

func (s *stubRecommender) UserProfile(context.Context, string) (*github.Profile, error) {
	return s.profile, s.err
}

func (s *stubRecommender) UserRepositories(context.Context, string) (github.Repositories, error) {
	return s.repos, s.err
}

func (s *stubRecommender) UserSkills(context.Context, string) (skills.Set, error) {
	return s.skills, s.err
}

func (s *stubRecommender) Recommendations(context.Context, string, string, string) (*matching.Recommendations, error) {
	return s.recs, s.err
}

func newTestServer(rec Recommender) *httptest.Server {
	return httptest.NewServer(New(Config{}, rec, zap.NewNop()).Handler())
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	resp.Body.Close()
	return body
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(&stubRecommender{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["status"] != "success" {
		t.Fatalf("expected success envelope, got %v", body)
	}
}

func TestProfileEndpoint(t *testing.T) {
	ts := newTestServer(&stubRecommender{profile: &github.Profile{Login: "octocat", Bio: "security engineer"}})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/profile/octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if data["login"] != "octocat" {
		t.Fatalf("expected login in response, got %v", data)
	}
	if data["bio"] != "security engineer" {
		t.Fatalf("expected bio in response, got %v", data)
	}
}

func TestProfileEndpointFetchError(t *testing.T) {
	ts := newTestServer(&stubRecommender{err: errors.New("api down")})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/profile/octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["status"] != "error" {
		t.Fatalf("expected error envelope, got %v", body)
	}
}

func TestRepositoriesEndpoint(t *testing.T) {
	repos := github.Repositories{
		{Name: "scanner", Language: "Go"},
		{Name: "webapp", Language: "TypeScript"},
	}
	ts := newTestServer(&stubRecommender{repos: repos})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/repositories/octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	if data["username"] != "octocat" {
		t.Fatalf("expected username in response, got %v", data)
	}
	if data["count"].(float64) != 2 {
		t.Fatalf("expected count 2, got %v", data["count"])
	}
	if got := data["repositories"].([]any); len(got) != 2 {
		t.Fatalf("expected 2 repositories, got %v", got)
	}
}

func TestSkillsEndpoint(t *testing.T) {
	ts := newTestServer(&stubRecommender{skills: skills.NewSet("go", "docker")})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/skills/octocat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	if data["username"] != "octocat" {
		t.Fatalf("expected username in response, got %v", data)
	}
	if got := data["skills"].([]any); len(got) != 2 {
		t.Fatalf("expected 2 skills, got %v", got)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	recs := &matching.Recommendations{
		Items: []*matching.Recommendation{
			{
				Issue:          &github.Issue{Number: 7, Title: "auth bug"},
				MatchScore:     0.8,
				RequiredSkills: skills.NewSet("python"),
				UserSkills:     skills.NewSet("python"),
			},
		},
	}
	ts := newTestServer(&stubRecommender{recs: recs})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/recommendations?username=dev&owner=acme&repo=widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	if data["repository"] != "acme/widgets" {
		t.Fatalf("expected repository slug, got %v", data["repository"])
	}
	if data["count"].(float64) != 1 {
		t.Fatalf("expected count 1, got %v", data["count"])
	}
}

func TestRecommendationsEndpointMissingParams(t *testing.T) {
	ts := newTestServer(&stubRecommender{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/recommendations?username=dev")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestRecommendationsEndpointPipelineError(t *testing.T) {
	ts := newTestServer(&stubRecommender{err: errors.New("api down")})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/recommendations?username=dev&owner=acme&repo=widgets")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["status"] != "error" {
		t.Fatalf("expected error envelope, got %v", body)
	}
}
