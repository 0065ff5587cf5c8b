package decision

import "cicd-workflow-automation/internal/model"

// ChangeOperation says what to do with a workflow file.
type ChangeOperation string

const (
	OperationCreate ChangeOperation = "create"
	OperationUpdate ChangeOperation = "update"
	OperationDelete ChangeOperation = "delete"
)

// WorkflowChange is one concrete edit proposed for a repository's CI/CD
// configuration.
type WorkflowChange struct {
	Operation   ChangeOperation `json:"operation"`
	Path        string          `json:"path"`
	Content     string          `json:"content"`
	Description string          `json:"description"`
	Category    string          `json:"category"` // caching, security, performance, maintenance
}

// PerformanceImpact estimates what a decision buys if applied.
type PerformanceImpact struct {
	TimeSavingsMinutes float64 `json:"time_savings_minutes"`
	MonthlyCostDelta   float64 `json:"monthly_cost_delta"` // positive = savings
	Confidence         float64 `json:"confidence"`         // [0, 1]
	Rationale          string  `json:"rationale"`
}

// AutomationDecision is the pipeline output: whether and how to change
// a repository's CI/CD configuration. Not persisted beyond the run;
// the pull request is the durable artifact.
type AutomationDecision struct {
	ShouldCreatePR bool              `json:"should_create_pr"`
	Changes        []WorkflowChange  `json:"changes"`
	Priority       model.Priority    `json:"priority"`
	Rationale      string            `json:"rationale"`
	Impact         PerformanceImpact `json:"impact"`
	BatchID        string            `json:"batch_id,omitempty"`
}
