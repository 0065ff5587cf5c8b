package pullrequest

import (
	"context"
	"errors"

	"cicd-workflow-automation/pkg/github"
)

// SCMClient is the source-control boundary the creator drives. The
// production implementation is pkg/github.Client.
type SCMClient interface {
	BranchHeadSHA(ctx context.Context, owner, repo, branch string) (string, error)
	CreateBranch(ctx context.Context, owner, repo, branch, fromSHA string) error
	CommitFile(ctx context.Context, owner, repo string, in github.CommitFileInput) error
	DeleteFile(ctx context.Context, owner, repo, branch, path, message string) error
	CreatePullRequest(ctx context.Context, owner, repo string, in github.PullRequestInput) (*github.PullRequest, error)
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]github.PullRequest, error)
}

// Config tunes the creator's rate limit and conflict handling.
type Config struct {
	HourlyLimit          int
	BranchPrefix         string
	ConflictAvoidance    bool
	AutoResolveConflicts bool
}

func (c Config) withDefaults() Config {
	if c.HourlyLimit <= 0 {
		c.HourlyLimit = 10
	}
	if c.BranchPrefix == "" {
		c.BranchPrefix = "automation"
	}
	return c
}

// Result is the per-decision outcome of a creation batch.
type Result struct {
	Success  bool     `json:"success"`
	PRNumber int      `json:"pr_number,omitempty"`
	URL      string   `json:"url,omitempty"`
	Branch   string   `json:"branch,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrRateLimited aborts a whole batch before any side effects.
var ErrRateLimited = errors.New("pull request hourly rate limit exceeded")

// ErrConflictingAutomation aborts a batch when open automation PRs are
// found and auto-resolution is disabled.
var ErrConflictingAutomation = errors.New("conflicting automation pull requests already open")
