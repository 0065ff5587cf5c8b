package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API for the branch/file/PR operations the
// side-effect executor performs.
type Client struct {
	client *github.Client
}

// NewClient creates a GitHub API client authenticated with a personal
// access token. baseURL is for GitHub Enterprise; empty means
// api.github.com.
func NewClient(ctx context.Context, token, baseURL string) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	client := github.NewClient(tc)
	if baseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(baseURL, baseURL)
		if err != nil {
			return nil, fmt.Errorf("configure enterprise base URL: %w", err)
		}
	}

	return &Client{client: client}, nil
}

// BranchHeadSHA resolves the current commit SHA of a branch.
func (c *Client) BranchHeadSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, _, err := c.client.Git.GetRef(ctx, owner, repo, "refs/heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("get ref for %s/%s@%s: %w", owner, repo, branch, err)
	}
	return ref.GetObject().GetSHA(), nil
}

// CreateBranch creates a new branch pointing at fromSHA.
func (c *Client) CreateBranch(ctx context.Context, owner, repo, branch, fromSHA string) error {
	_, _, err := c.client.Git.CreateRef(ctx, owner, repo, &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(fromSHA)},
	})
	if err != nil {
		return fmt.Errorf("create branch %s on %s/%s: %w", branch, owner, repo, err)
	}
	return nil
}

// CommitFile creates or updates a single file on a branch. An existing
// file is detected by fetching its blob SHA first.
func (c *Client) CommitFile(ctx context.Context, owner, repo string, in CommitFileInput) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(in.Message),
		Content: in.Content,
		Branch:  github.String(in.Branch),
	}

	existing, _, resp, err := c.client.Repositories.GetContents(ctx, owner, repo, in.Path,
		&github.RepositoryContentGetOptions{Ref: in.Branch})
	switch {
	case err == nil && existing != nil:
		opts.SHA = existing.SHA
		_, _, err = c.client.Repositories.UpdateFile(ctx, owner, repo, in.Path, opts)
	case resp != nil && resp.StatusCode == 404:
		_, _, err = c.client.Repositories.CreateFile(ctx, owner, repo, in.Path, opts)
	default:
		return fmt.Errorf("probe %s on %s/%s: %w", in.Path, owner, repo, err)
	}
	if err != nil {
		return fmt.Errorf("commit %s on %s/%s@%s: %w", in.Path, owner, repo, in.Branch, err)
	}
	return nil
}

// DeleteFile removes a file from a branch.
func (c *Client) DeleteFile(ctx context.Context, owner, repo, branch, path, message string) error {
	existing, _, _, err := c.client.Repositories.GetContents(ctx, owner, repo, path,
		&github.RepositoryContentGetOptions{Ref: branch})
	if err != nil {
		return fmt.Errorf("probe %s on %s/%s: %w", path, owner, repo, err)
	}
	_, _, err = c.client.Repositories.DeleteFile(ctx, owner, repo, path, &github.RepositoryContentFileOptions{
		Message: github.String(message),
		SHA:     existing.SHA,
		Branch:  github.String(branch),
	})
	if err != nil {
		return fmt.Errorf("delete %s on %s/%s@%s: %w", path, owner, repo, branch, err)
	}
	return nil
}

// CreatePullRequest opens a pull request.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo string, in PullRequestInput) (*PullRequest, error) {
	pr, _, err := c.client.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(in.Title),
		Body:  github.String(in.Body),
		Head:  github.String(in.HeadBranch),
		Base:  github.String(in.BaseBranch),
		Draft: github.Bool(in.Draft),
	})
	if err != nil {
		return nil, fmt.Errorf("create pull request on %s/%s: %w", owner, repo, err)
	}

	return &PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		URL:        pr.GetHTMLURL(),
		HeadBranch: pr.GetHead().GetRef(),
		Draft:      pr.GetDraft(),
	}, nil
}

// ListOpenPullRequests lists open pull requests for conflict scanning.
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	prs, _, err := c.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	})
	if err != nil {
		return nil, fmt.Errorf("list open pull requests on %s/%s: %w", owner, repo, err)
	}

	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, PullRequest{
			Number:     pr.GetNumber(),
			Title:      pr.GetTitle(),
			URL:        pr.GetHTMLURL(),
			HeadBranch: pr.GetHead().GetRef(),
			Draft:      pr.GetDraft(),
		})
	}
	return out, nil
}
