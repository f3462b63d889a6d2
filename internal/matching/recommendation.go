package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gitscout/gitscout/internal/github"
	"github.com/gitscout/gitscout/internal/skills"
)

// Recommendation pairs an issue with its match score and the skill sets the
// score was computed from. Computed per request, never persisted.
type Recommendation struct {
	Issue          *github.Issue `json:"issue"`
	MatchScore     float64       `json:"match_score"`
	RequiredSkills skills.Set    `json:"required_skills"`
	UserSkills     skills.Set    `json:"user_skills"`
}

type Recommendations struct {
	Items []*Recommendation
}

func (r *Recommendations) Len() int {
	return len(r.Items)
}

// SortByScore orders recommendations by score descending. The sort is stable
// so equal scores keep their issue order.
func (r *Recommendations) SortByScore() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].MatchScore > r.Items[j].MatchScore
	})
}

func (r *Recommendations) FindByNumber(number int) *Recommendation {
	for _, rec := range r.Items {
		if rec.Issue.Number == number {
			return rec
		}
	}
	return nil
}

func (r *Recommendations) Numbers() []int {
	numbers := make([]int, 0, len(r.Items))
	for _, rec := range r.Items {
		numbers = append(numbers, rec.Issue.Number)
	}
	return numbers
}

// Exclude removes recommendations whose issue number is in targets and
// returns the removed numbers.
func (r *Recommendations) Exclude(targets []int) []int {
	var excluded []int
	for _, target := range targets {
		for idx, rec := range r.Items {
			if rec.Issue.Number == target {
				r.RemoveByIndex(idx)
				excluded = append(excluded, target)
				break
			}
		}
	}
	return excluded
}

// ExcludeAssigned removes recommendations for issues that already have
// assignees and returns the removed numbers.
func (r *Recommendations) ExcludeAssigned() []int {
	var excluded []int
	for idx := 0; idx < len(r.Items); {
		if r.Items[idx].Issue.Assignees > 0 {
			excluded = append(excluded, r.Items[idx].Issue.Number)
			r.RemoveByIndex(idx)
			continue
		}
		idx++
	}
	return excluded
}

// ExcludeLabels removes recommendations carrying any of the given labels and
// returns the removed numbers.
func (r *Recommendations) ExcludeLabels(labels []string) []int {
	var excluded []int
	for _, label := range labels {
		for idx := 0; idx < len(r.Items); {
			if r.Items[idx].Issue.HasLabel(label) {
				excluded = append(excluded, r.Items[idx].Issue.Number)
				r.RemoveByIndex(idx)
				continue
			}
			idx++
		}
	}
	return excluded
}

// ExcludeBelow removes recommendations scoring below min and returns the
// removed numbers.
func (r *Recommendations) ExcludeBelow(min float64) []int {
	var excluded []int
	for idx := 0; idx < len(r.Items); {
		if r.Items[idx].MatchScore < min {
			excluded = append(excluded, r.Items[idx].Issue.Number)
			r.RemoveByIndex(idx)
			continue
		}
		idx++
	}
	return excluded
}

// RemoveByIndex removes a recommendation from the list by index. Do not
// preserve order.
func (r *Recommendations) RemoveByIndex(idx int) {
	r.Items[idx] = r.Items[len(r.Items)-1]
	r.Items = r.Items[:len(r.Items)-1]
}

// ReportByLabel groups recommendation summaries by issue label. Unlabeled
// issues are grouped under "unlabeled".
func (r *Recommendations) ReportByLabel() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, rec := range r.Items {
		labels := rec.Issue.Labels
		if len(labels) == 0 {
			labels = []string{"unlabeled"}
		}
		row := map[string]string{
			"title":           rec.Issue.Title,
			"url":             rec.Issue.URL,
			"match_score":     fmt.Sprintf("%.2f", rec.MatchScore),
			"required_skills": rec.RequiredSkills.Join(", "),
		}
		for _, label := range labels {
			report[label] = append(report[label], row)
		}
	}
	return report
}

func (r *Recommendations) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "recommendations_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToDismissed converts the recommendations to dismissed-issue records for the
// given repository.
func (r *Recommendations) ToDismissed(repository string) *github.DismissedIssues {
	dismissed := &github.DismissedIssues{}
	for _, rec := range r.Items {
		dismissed.Items = append(dismissed.Items, &github.DismissedIssue{
			Number:      rec.Issue.Number,
			Repository:  repository,
			URL:         rec.Issue.URL,
			DismissedAt: time.Now().UTC(),
		})
	}
	return dismissed
}
