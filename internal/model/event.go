package model

import "time"

// EventKind is the webhook event type as delivered by the SCM provider.
type EventKind string

const (
	EventPush        EventKind = "push"
	EventPullRequest EventKind = "pull_request"
	EventRelease     EventKind = "release"
	EventWorkflowRun EventKind = "workflow_run"
	EventRepository  EventKind = "repository"
)

// Priority classifies how urgently an event should be processed.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Weight maps a priority class onto the integer scale used by the job
// queue (higher = more urgent).
func (p Priority) Weight() int {
	switch p {
	case PriorityCritical:
		return 10
	case PriorityHigh:
		return 7
	case PriorityMedium:
		return 5
	case PriorityLow:
		return 2
	default:
		return 5
	}
}

// RepositoryRef identifies a repository. Owner+Name is the identity;
// the remaining fields are descriptive.
type RepositoryRef struct {
	Owner         string
	Name          string
	FullName      string
	DefaultBranch string
	Language      string
	Topics        []string
}

// Equal compares two references by owner+name.
func (r RepositoryRef) Equal(other RepositoryRef) bool {
	return r.Owner == other.Owner && r.Name == other.Name
}

// WebhookEvent is a verified, parsed webhook delivery. Immutable once
// built; consumed exactly once by the queue.
type WebhookEvent struct {
	Kind       EventKind
	DeliveryID string
	Repository RepositoryRef
	Branch     string
	Action     string // opened, closed, merged, completed, ...
	Author     string
	Message    string
	RawPayload []byte
	Signature  string
	ReceivedAt time.Time
	Priority   Priority // assigned by the prioritizer before queuing
}
