package github

import (
	"fmt"

	gh "github.com/google/go-github/v56/github"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

type Profile struct {
	Login     string `json:"login,omitempty"`
	Name      string `json:"name,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Company   string `json:"company,omitempty"`
	Location  string `json:"location,omitempty"`
	Followers int    `json:"followers,omitempty"`
	Following int    `json:"following,omitempty"`
}

type Repository struct {
	Name        string         `json:"name,omitempty"`
	FullName    string         `json:"full_name,omitempty"`
	Description string         `json:"description,omitempty"`
	Language    string         `json:"language,omitempty"`
	Topics      []string       `json:"topics,omitempty"`
	Languages   map[string]int `json:"languages,omitempty"`
}

type Repositories []*Repository

func (r Repositories) Len() int {
	return len(r)
}

func (r Repositories) Names() []string {
	names := make([]string, 0, len(r))
	for _, repo := range r {
		names = append(names, repo.Name)
	}
	return names
}

// GetUserProfile fetches the public profile of the given user.
func (c *Client) GetUserProfile(username string) (*Profile, error) {
	user, _, err := c.api.Users.Get(c.ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}

	var profile Profile
	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &profile,
		TagName:  "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(user); err != nil {
		return nil, fmt.Errorf("decode user %q: %w", username, err)
	}

	return &profile, nil
}

// GetUserRepositories fetches the user's own public repositories with
// per-repository language statistics. Forks are skipped.
func (c *Client) GetUserRepositories(username string) (Repositories, error) {
	opts := &gh.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	var repos Repositories
	for {
		page, resp, err := c.api.Repositories.List(c.ctx, username, opts)
		if err != nil {
			return nil, fmt.Errorf("list repositories for %q: %w", username, err)
		}

		for _, r := range page {
			if r.GetFork() {
				continue
			}

			repo := &Repository{
				Name:        r.GetName(),
				FullName:    r.GetFullName(),
				Description: r.GetDescription(),
				Language:    r.GetLanguage(),
				Topics:      r.Topics,
			}

			languages, _, err := c.api.Repositories.ListLanguages(c.ctx, username, r.GetName())
			if err != nil {
				// A single failed languages call does not invalidate the repository list.
				c.logger.Debug("listing repository languages failed",
					zap.String("repository", r.GetFullName()),
					zap.Error(err),
				)
			} else {
				repo.Languages = languages
			}

			repos = append(repos, repo)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Debug("got repositories from GitHub",
		zap.String("username", username),
		zap.Int("count", repos.Len()),
	)

	return repos, nil
}
