package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v56/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Max value for list requests per page.
const perPage = 100

type Client struct {
	// ctx used only for http requests right now
	ctx    context.Context
	api    *gh.Client
	logger *zap.Logger
}

// New creates a GitHub API client. An empty token results in an anonymous
// client, which is enough for public data but runs into rate limits quickly.
func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	var hc *http.Client

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(ctx, ts)
	} else {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{
		ctx:    ctx,
		api:    gh.NewClient(hc),
		logger: logger,
	}
}

// SetAPIBaseURL points the client at a different API endpoint. Used in tests.
func (c *Client) SetAPIBaseURL(base string) error {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return err
	}

	c.api.BaseURL = parsed
	return nil
}
