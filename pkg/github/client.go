// Package github wraps the GitHub REST API calls the label reconciler needs.
package github

import (
	"context"
	"fmt"
	"os"

	"github.com/google/go-github/v71/github"
	"golang.org/x/oauth2"
)

// LabelService is the remote side of the reconciliation: list the live
// labels and mutate them one call at a time. Implementations report any
// non-success response or network failure as an error; the reconciler
// treats every error as fatal to the run.
type LabelService interface {
	ListLabels(ctx context.Context) ([]*github.Label, error)
	CreateLabel(ctx context.Context, name, color, description string) error
	EditLabel(ctx context.Context, oldName, newName, color, description string) error
	DeleteLabel(ctx context.Context, name string) error
}

// Client implements LabelService against a single repository.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// NewClient builds an authenticated client for owner/repo. The token is
// attached to every request as a bearer credential.
func NewClient(token, owner, repo string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("no token provided")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return &Client{
		gh:    github.NewClient(oauth2.NewClient(context.Background(), ts)),
		owner: owner,
		repo:  repo,
	}, nil
}

// NewClientWithBaseURL is NewClient pointed at a non-default API endpoint,
// for GitHub Enterprise or tests.
func NewClientWithBaseURL(token, owner, repo, baseURL string) (*Client, error) {
	c, err := NewClient(token, owner, repo)
	if err != nil {
		return nil, err
	}
	c.gh, err = c.gh.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("setting API base URL: %w", err)
	}
	return c, nil
}

// ListLabels fetches the repository's full label list, following pagination
// until every page is consumed. The result preserves the order the API
// returned the labels in.
func (c *Client) ListLabels(ctx context.Context) ([]*github.Label, error) {
	var all []*github.Label
	opts := &github.ListOptions{PerPage: 100}
	for {
		labels, resp, err := c.gh.Issues.ListLabels(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing labels: %w", err)
		}
		all = append(all, labels...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateLabel creates a new label.
func (c *Client) CreateLabel(ctx context.Context, name, color, description string) error {
	_, _, err := c.gh.Issues.CreateLabel(ctx, c.owner, c.repo, &github.Label{
		Name:        &name,
		Color:       &color,
		Description: &description,
	})
	if err != nil {
		return fmt.Errorf("creating label %q: %w", name, err)
	}
	return nil
}

// EditLabel updates oldName in place, renaming it to newName when the two
// differ. Editing rather than delete+create preserves the label's identity
// and any issues referencing it.
func (c *Client) EditLabel(ctx context.Context, oldName, newName, color, description string) error {
	_, _, err := c.gh.Issues.EditLabel(ctx, c.owner, c.repo, oldName, &github.Label{
		Name:        &newName,
		Color:       &color,
		Description: &description,
	})
	if err != nil {
		return fmt.Errorf("editing label %q: %w", oldName, err)
	}
	return nil
}

// DeleteLabel removes a label.
func (c *Client) DeleteLabel(ctx context.Context, name string) error {
	_, err := c.gh.Issues.DeleteLabel(ctx, c.owner, c.repo, name)
	if err != nil {
		return fmt.Errorf("deleting label %q: %w", name, err)
	}
	return nil
}

// GetFileContents reads a file from the repository at the given ref. The
// label configuration usually lives in the repository being synced, so a
// run checks out nothing and reads the config straight from the API.
func (c *Client) GetFileContents(ctx context.Context, path, ref string) ([]byte, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}
	file, _, _, err := c.gh.Repositories.GetContents(ctx, c.owner, c.repo, path, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", path, err)
	}
	if file == nil {
		return nil, fmt.Errorf("fetching %q: path is a directory", path)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return []byte(content), nil
}

// ReadConfig loads the label configuration, preferring a local file when
// one exists at path and falling back to the repository contents at ref.
func (c *Client) ReadConfig(ctx context.Context, path, ref string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}
	return c.GetFileContents(ctx, path, ref)
}
