package pullrequest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/pkg/github"
	"cicd-workflow-automation/pkg/log"
)

// Creator applies automation decisions as branches plus pull requests.
// The hourly ceiling is an in-memory, process-lifetime limiter; it is
// not shared across instances and resets on restart.
type Creator struct {
	scm     SCMClient
	limiter *rate.Limiter
	cfg     Config
	l       log.Logger
}

// NewCreator builds a creator over the given SCM boundary.
func NewCreator(l log.Logger, scm SCMClient, cfg Config) *Creator {
	cfg = cfg.withDefaults()
	return &Creator{
		scm:     scm,
		limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(cfg.HourlyLimit)), cfg.HourlyLimit),
		cfg:     cfg,
		l:       l,
	}
}

// CreateForDecisions opens one pull request per decision flagged
// shouldCreatePR. The rate limit is checked up front over the whole
// batch: a breach rejects the call before any side effect. Per-decision
// failures are isolated and reported in their own Result.
func (c *Creator) CreateForDecisions(ctx context.Context, decisions []decision.AutomationDecision, repo model.RepositoryRef) ([]Result, error) {
	pending := make([]decision.AutomationDecision, 0, len(decisions))
	for _, d := range decisions {
		if d.ShouldCreatePR {
			pending = append(pending, d)
		}
	}
	if len(pending) == 0 {
		return nil, nil
	}

	if !c.limiter.AllowN(time.Now(), len(pending)) {
		return nil, fmt.Errorf("%w: %d requested against %d/hour",
			ErrRateLimited, len(pending), c.cfg.HourlyLimit)
	}

	conflictNote := ""
	if c.cfg.ConflictAvoidance {
		note, err := c.scanConflicts(ctx, repo)
		if err != nil {
			return nil, err
		}
		conflictNote = note
	}

	results := make([]Result, 0, len(pending))
	for _, d := range pending {
		res := c.createOne(ctx, d, repo, conflictNote)
		if !res.Success {
			c.l.Warnf(ctx, "PR creation failed for %s: %s", repo.FullName, res.Error)
		}
		results = append(results, res)
	}
	return results, nil
}

// scanConflicts looks for already-open automation pull requests. With
// auto-resolution off an existing one aborts the batch; with it on the
// batch proceeds and each rationale carries a conflict note.
func (c *Creator) scanConflicts(ctx context.Context, repo model.RepositoryRef) (string, error) {
	open, err := c.scm.ListOpenPullRequests(ctx, repo.Owner, repo.Name)
	if err != nil {
		return "", fmt.Errorf("conflict scan on %s: %w", repo.FullName, err)
	}

	var existing []string
	for _, pr := range open {
		if strings.HasPrefix(pr.HeadBranch, c.cfg.BranchPrefix+"/") ||
			strings.HasPrefix(pr.Title, "[automation]") {
			existing = append(existing, fmt.Sprintf("#%d (%s)", pr.Number, pr.HeadBranch))
		}
	}
	if len(existing) == 0 {
		return "", nil
	}
	if !c.cfg.AutoResolveConflicts {
		return "", fmt.Errorf("%w: %s", ErrConflictingAutomation, strings.Join(existing, ", "))
	}
	return "Note: open automation PRs already exist: " + strings.Join(existing, ", "), nil
}

func (c *Creator) createOne(ctx context.Context, d decision.AutomationDecision, repo model.RepositoryRef, conflictNote string) Result {
	branch := c.branchName(d.Priority)
	res := Result{Branch: branch}

	base := repo.DefaultBranch
	if base == "" {
		base = "main"
	}

	headSHA, err := c.scm.BranchHeadSHA(ctx, repo.Owner, repo.Name, base)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := c.scm.CreateBranch(ctx, repo.Owner, repo.Name, branch, headSHA); err != nil {
		res.Error = err.Error()
		return res
	}

	// File-apply failures degrade to warnings; the PR still opens with
	// whatever landed.
	for _, change := range d.Changes {
		if err := c.applyChange(ctx, repo, branch, change); err != nil {
			warn := fmt.Sprintf("apply %s %s: %v", change.Operation, change.Path, err)
			res.Warnings = append(res.Warnings, warn)
			c.l.Warnf(ctx, "File apply warning on %s: %s", repo.FullName, warn)
		}
	}

	pr, err := c.scm.CreatePullRequest(ctx, repo.Owner, repo.Name, github.PullRequestInput{
		Title:      title(d),
		Body:       body(d, conflictNote),
		HeadBranch: branch,
		BaseBranch: base,
		Draft:      d.Priority == model.PriorityLow,
	})
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.PRNumber = pr.Number
	res.URL = pr.URL
	c.l.Infof(ctx, "Opened PR #%d on %s from %s", pr.Number, repo.FullName, branch)
	return res
}

func (c *Creator) applyChange(ctx context.Context, repo model.RepositoryRef, branch string, change decision.WorkflowChange) error {
	switch change.Operation {
	case decision.OperationCreate, decision.OperationUpdate:
		return c.scm.CommitFile(ctx, repo.Owner, repo.Name, github.CommitFileInput{
			Path:    change.Path,
			Content: []byte(change.Content),
			Message: change.Description,
			Branch:  branch,
		})
	case decision.OperationDelete:
		return c.scm.DeleteFile(ctx, repo.Owner, repo.Name, branch, change.Path, change.Description)
	default:
		return fmt.Errorf("unknown change operation %q", change.Operation)
	}
}

// branchName generates a unique branch: prefix/priority-timestamp-entropy.
func (c *Creator) branchName(priority model.Priority) string {
	return fmt.Sprintf("%s/%s-%s-%s",
		c.cfg.BranchPrefix, priority,
		time.Now().UTC().Format("20060102-150405"),
		uuid.NewString()[:8])
}

func title(d decision.AutomationDecision) string {
	return fmt.Sprintf("[automation] %s priority: %d workflow change(s)", d.Priority, len(d.Changes))
}

func body(d decision.AutomationDecision, conflictNote string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Automated CI/CD update\n\n")
	fmt.Fprintf(&b, "**Priority:** %s\n\n", d.Priority)
	fmt.Fprintf(&b, "**Rationale:** %s\n\n", d.Rationale)

	b.WriteString("### Changes\n")
	for _, change := range d.Changes {
		fmt.Fprintf(&b, "- `%s` %s: %s\n", change.Operation, change.Path, change.Description)
	}

	fmt.Fprintf(&b, "\n### Estimated impact\n")
	fmt.Fprintf(&b, "- Time savings: %.1f min/build\n", d.Impact.TimeSavingsMinutes)
	fmt.Fprintf(&b, "- Monthly cost delta: %.2f\n", d.Impact.MonthlyCostDelta)
	fmt.Fprintf(&b, "- Confidence: %.0f%%\n", d.Impact.Confidence*100)

	if d.BatchID != "" {
		fmt.Fprintf(&b, "\nBatch: `%s`\n", d.BatchID)
	}
	if conflictNote != "" {
		fmt.Fprintf(&b, "\n%s\n", conflictNote)
	}
	return b.String()
}
