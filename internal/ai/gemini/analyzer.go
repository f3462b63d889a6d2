package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/logger"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Analyzer asks Gemini which skills an issue requires.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewAnalyzer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// RequiredSkills returns the skills Gemini extracted from the issue text.
func (a *Analyzer) RequiredSkills(ctx context.Context, issue *github.Issue) ([]string, error) {
	if issue == nil {
		return nil, fmt.Errorf("issue is required")
	}

	issueJSON, err := json.MarshalIndent(issue, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal issue payload: %w", err)
	}

	prompt := buildPrompt(string(issueJSON))

	a.logger.Debug("gemini generate content request",
		zap.Int("issue_number", issue.Number),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini generate content response",
		zap.Int("issue_number", issue.Number),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(issueJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Issue:\n{{ISSUE_JSON}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(template, "{{ISSUE_JSON}}", issueJSON)
}

func parseResponse(raw string) ([]string, error) {
	cleaned := extractJSON(raw)

	var data struct {
		Skills []any `json:"skills"`
	}
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	skills := make([]string, 0, len(data.Skills))
	for _, entry := range data.Skills {
		skill := strings.ToLower(coerceString(entry))
		if skill == "" {
			continue
		}
		skills = append(skills, skill)
	}

	return skills, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
