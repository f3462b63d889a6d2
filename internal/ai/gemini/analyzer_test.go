package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/gitscout/gitscout/internal/github"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestAnalyzerRequiredSkills(t *testing.T) {
	stub := &stubGenerator{response: `{"skills": ["Python", "security", " authentication "]}`}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	issue := &github.Issue{Number: 42, Title: "Fix auth bypass"}

	skills, err := analyzer.RequiredSkills(context.Background(), issue)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"python", "security", "authentication"}
	if len(skills) != len(want) {
		t.Fatalf("expected %d skills, got %v", len(want), skills)
	}
	for i, skill := range want {
		if skills[i] != skill {
			t.Fatalf("expected %q at position %d, got %q", skill, i, skills[i])
		}
	}

	if !strings.Contains(stub.lastPrompt, "Fix auth bypass") {
		t.Fatal("expected issue title in prompt")
	}
}

func TestAnalyzerParsesFencedJSON(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"skills\": [\"go\"]}\n```"}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	skills, err := analyzer.RequiredSkills(context.Background(), &github.Issue{Number: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(skills) != 1 || skills[0] != "go" {
		t.Fatalf("expected [go], got %v", skills)
	}
}

func TestAnalyzerGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded")}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	if _, err := analyzer.RequiredSkills(context.Background(), &github.Issue{Number: 1}); err == nil {
		t.Fatal("expected generator error to propagate")
	}
}

func TestAnalyzerInvalidResponse(t *testing.T) {
	stub := &stubGenerator{response: "no json here"}
	analyzer := NewAnalyzer(stub, zap.NewNop(), 0)

	if _, err := analyzer.RequiredSkills(context.Background(), &github.Issue{Number: 1}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAnalyzerNilIssue(t *testing.T) {
	analyzer := NewAnalyzer(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := analyzer.RequiredSkills(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil issue")
	}
}
