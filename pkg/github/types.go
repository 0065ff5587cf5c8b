package github

// CommitFileInput is one file create/update on a branch.
type CommitFileInput struct {
	Path    string
	Content []byte
	Message string
	Branch  string
}

// PullRequestInput is the data needed to open a pull request.
type PullRequestInput struct {
	Title      string
	Body       string
	HeadBranch string
	BaseBranch string
	Draft      bool
}

// PullRequest is a provider pull request reduced to what the pipeline
// needs.
type PullRequest struct {
	Number     int
	Title      string
	URL        string
	HeadBranch string
	Draft      bool
}
