package github

import (
	"encoding/json"
	"os"
	"time"
)

type DismissedIssues struct {
	Items []*DismissedIssue
}

type DismissedIssue struct {
	Number      int
	Repository  string
	URL         string
	DismissedAt time.Time
}

// GetDismissedIssuesFromFile loads previously dismissed issues from the given
// file. A missing list in an empty file is not an error.
func GetDismissedIssuesFromFile(path string) (*DismissedIssues, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &DismissedIssues{}, nil
	}

	var dismissed DismissedIssues
	if err := json.NewDecoder(file).Decode(&dismissed); err != nil {
		return nil, err
	}
	return &dismissed, nil
}

func (d *DismissedIssues) Append(s *DismissedIssues) {
	d.Items = append(d.Items, s.Items...)
}

// Numbers returns the dismissed issue numbers recorded for the repository.
func (d *DismissedIssues) Numbers(repository string) []int {
	numbers := make([]int, 0)
	for _, issue := range d.Items {
		if issue.Repository == repository {
			numbers = append(numbers, issue.Number)
		}
	}
	return numbers
}

func (d *DismissedIssues) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return err
	}
	return nil
}
