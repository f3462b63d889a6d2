package github

import (
	"fmt"

	gh "github.com/google/go-github/v56/github"
	"go.uber.org/zap"
)

type Issues struct {
	Items []*Issue
}

type Issue struct {
	Number    int      `json:"number,omitempty"`
	Title     string   `json:"title,omitempty"`
	Body      string   `json:"body,omitempty"`
	Labels    []string `json:"labels,omitempty"`
	Assignees int      `json:"assignees,omitempty"`
	URL       string   `json:"url,omitempty"`
}

// GetOpenIssues fetches all open issues of the repository. The REST issues
// endpoint also returns pull requests; those are skipped.
func (c *Client) GetOpenIssues(owner, repo string) (*Issues, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "open",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	issues := &Issues{}
	for {
		page, resp, err := c.api.Issues.ListByRepo(c.ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list issues for %s/%s: %w", owner, repo, err)
		}

		for _, i := range page {
			if i.IsPullRequest() {
				continue
			}

			labels := make([]string, 0, len(i.Labels))
			for _, label := range i.Labels {
				labels = append(labels, label.GetName())
			}

			issues.Items = append(issues.Items, &Issue{
				Number:    i.GetNumber(),
				Title:     i.GetTitle(),
				Body:      i.GetBody(),
				Labels:    labels,
				Assignees: len(i.Assignees),
				URL:       i.GetHTMLURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("got open issues from GitHub",
		zap.String("repository", fmt.Sprintf("%s/%s", owner, repo)),
		zap.Int("count", issues.Len()),
	)

	return issues, nil
}

func (i *Issues) Len() int {
	return len(i.Items)
}

func (i *Issues) FindByNumber(number int) *Issue {
	for _, issue := range i.Items {
		if issue.Number == number {
			return issue
		}
	}
	return nil
}

func (i *Issue) HasLabel(name string) bool {
	for _, label := range i.Labels {
		if label == name {
			return true
		}
	}
	return false
}
