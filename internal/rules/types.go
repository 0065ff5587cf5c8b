package rules

import (
	"time"

	"cicd-workflow-automation/internal/model"
)

// TriggerType selects which predicate a trigger applies to the
// evaluation context.
type TriggerType string

const (
	TriggerWebhookEvent         TriggerType = "webhook-event"
	TriggerChangeKind           TriggerType = "change-kind"
	TriggerSchedule             TriggerType = "schedule"
	TriggerPerformanceThreshold TriggerType = "performance-threshold"
	TriggerSecurityAlert        TriggerType = "security-alert"
)

// ScheduleWindow matches when the context timestamp falls inside the
// configured weekday/hour window. Empty weekdays means every day.
type ScheduleWindow struct {
	Weekdays []time.Weekday
	FromHour int
	ToHour   int
}

// PerformanceThreshold breaches when the snapshot exceeds either limit.
// Zero limits are ignored.
type PerformanceThreshold struct {
	MaxAvgBuildMinutes float64
	MinSuccessRate     float64
}

// Trigger gates whether a rule is considered at all.
type Trigger struct {
	Type         TriggerType
	WebhookEvent model.EventKind       // for webhook-event triggers
	ChangeKind   model.ChangeKind      // for change-kind triggers
	Schedule     *ScheduleWindow       // for schedule triggers
	Performance  *PerformanceThreshold // for performance-threshold triggers
}

// ConditionOperator is the fixed comparison vocabulary.
type ConditionOperator string

const (
	OpEquals      ConditionOperator = "equals"
	OpNotEquals   ConditionOperator = "not_equals"
	OpContains    ConditionOperator = "contains"
	OpNotContains ConditionOperator = "not_contains"
	OpGreaterThan ConditionOperator = "greater_than"
	OpLessThan    ConditionOperator = "less_than"
	OpMatches     ConditionOperator = "matches"
	OpNotMatches  ConditionOperator = "not_matches"
	OpIn          ConditionOperator = "in"
	OpNotIn       ConditionOperator = "not_in"
)

// Condition compares a named context field against a literal. All of a
// rule's conditions are ANDed.
type Condition struct {
	Field    string
	Operator ConditionOperator
	Value    string
	Values   []string // for in / not_in
	Negate   bool
}

// ActionType names a rule action.
type ActionType string

const (
	ActionCreatePullRequest ActionType = "create-pull-request"
	ActionTriggerDeployment ActionType = "trigger-deployment"
	ActionSecurityScan      ActionType = "security-scan"
	ActionNotify            ActionType = "notify"
	ActionUpdateWorkflow    ActionType = "update-workflow"
)

// ActionParams is the tagged union of per-action-type parameters.
type ActionParams interface {
	actionParams()
}

// CreatePullRequestParams configures a create-pull-request action.
type CreatePullRequestParams struct {
	TitlePrefix string
	Draft       bool
}

// TriggerDeploymentParams configures a trigger-deployment action.
type TriggerDeploymentParams struct {
	Environment string
}

// SecurityScanParams configures a security-scan action.
type SecurityScanParams struct {
	Scanner string
}

// NotifyParams configures a notify action.
type NotifyParams struct {
	Channel string
	Message string
}

// UpdateWorkflowParams configures an update-workflow action.
type UpdateWorkflowParams struct {
	Path string
}

func (CreatePullRequestParams) actionParams() {}
func (TriggerDeploymentParams) actionParams() {}
func (SecurityScanParams) actionParams()      {}
func (NotifyParams) actionParams()            {}
func (UpdateWorkflowParams) actionParams()    {}

// Action is a side-effecting or decision-producing operation attached
// to a rule.
type Action struct {
	Type   ActionType
	Params ActionParams
}

// AutomationRule is a long-lived, administratively managed rule.
type AutomationRule struct {
	ID         string
	Name       string
	Enabled    bool
	Priority   int // 1..10
	Triggers   []Trigger
	Conditions []Condition
	Actions    []Action
	Tags       []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EvaluationContext is constructed fresh per pass.
type EvaluationContext struct {
	Event          *model.WebhookEvent
	Repository     model.RepositoryRef
	Changes        *model.ChangeSet
	Performance    *model.PerformanceSnapshot
	SecurityAlerts []model.SecurityAlert
	Timestamp      time.Time
}

// ActionResult is the outcome of one action execution.
type ActionResult struct {
	Action  ActionType
	Success bool
	Output  string
	Error   string
}

// EvaluationResult is one rule's outcome for a pass.
type EvaluationResult struct {
	Rule          *AutomationRule
	Triggered     bool
	ConditionsMet bool
	Actions       []ActionResult
	Confidence    float64 // 0..1
	Reasoning     []string
	Errors        []string
}

// ConflictType classifies a detected rule conflict.
type ConflictType string

const (
	ConflictAction   ConflictType = "action"
	ConflictPriority ConflictType = "priority"
)

// Conflict is an advisory record of colliding rules in one pass. It
// never blocks the pipeline.
type Conflict struct {
	Rules       []*AutomationRule
	Type        ConflictType
	ActionType  ActionType // set for action conflicts
	Resolution  string
	Description string
}
