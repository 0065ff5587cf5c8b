package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cicd-workflow-automation/internal/model"
)

// Parser turns raw GitHub webhook payloads into typed events. Every
// parser requires a repository identity (owner+name); a payload without
// one is rejected at ingress.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// payloadRepository is the repository object common to all payloads.
type payloadRepository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (r payloadRepository) ref() (model.RepositoryRef, error) {
	owner := r.Owner.Login
	name := r.Name
	// Some payloads only carry full_name.
	if (owner == "" || name == "") && strings.Contains(r.FullName, "/") {
		parts := strings.SplitN(r.FullName, "/", 2)
		if owner == "" {
			owner = parts[0]
		}
		if name == "" {
			name = parts[1]
		}
	}
	if owner == "" || name == "" {
		return model.RepositoryRef{}, fmt.Errorf("payload missing repository identity")
	}

	fullName := r.FullName
	if fullName == "" {
		fullName = owner + "/" + name
	}
	return model.RepositoryRef{
		Owner:         owner,
		Name:          name,
		FullName:      fullName,
		DefaultBranch: r.DefaultBranch,
		Language:      r.Language,
	}, nil
}

// Parse dispatches on the event type header value.
func (p *Parser) Parse(eventType string, payload []byte) (*model.WebhookEvent, error) {
	switch model.EventKind(eventType) {
	case model.EventPush:
		return p.ParsePushEvent(payload)
	case model.EventPullRequest:
		return p.ParsePullRequestEvent(payload)
	case model.EventRelease:
		return p.ParseReleaseEvent(payload)
	case model.EventWorkflowRun:
		return p.ParseWorkflowRunEvent(payload)
	case model.EventRepository:
		return p.ParseRepositoryEvent(payload)
	default:
		return nil, fmt.Errorf("unsupported event type %q", eventType)
	}
}

func (p *Parser) ParsePushEvent(payload []byte) (*model.WebhookEvent, error) {
	var event struct {
		Ref        string            `json:"ref"`
		Repository payloadRepository `json:"repository"`
		HeadCommit struct {
			Message string `json:"message"`
			Author  struct {
				Name string `json:"name"`
			} `json:"author"`
		} `json:"head_commit"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parse push event: %w", err)
	}
	repo, err := event.Repository.ref()
	if err != nil {
		return nil, err
	}

	return &model.WebhookEvent{
		Kind:       model.EventPush,
		Repository: repo,
		Branch:     strings.TrimPrefix(event.Ref, "refs/heads/"),
		Author:     event.HeadCommit.Author.Name,
		Message:    event.HeadCommit.Message,
		RawPayload: payload,
		ReceivedAt: time.Now(),
	}, nil
}

func (p *Parser) ParsePullRequestEvent(payload []byte) (*model.WebhookEvent, error) {
	var event struct {
		Action      string `json:"action"`
		PullRequest struct {
			Title string `json:"title"`
			Head  struct {
				Ref string `json:"ref"`
			} `json:"head"`
			User struct {
				Login string `json:"login"`
			} `json:"user"`
			Merged bool `json:"merged"`
		} `json:"pull_request"`
		Repository payloadRepository `json:"repository"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parse pull request event: %w", err)
	}
	repo, err := event.Repository.ref()
	if err != nil {
		return nil, err
	}

	// Merged takes precedence over closed.
	action := event.Action
	if action == "closed" && event.PullRequest.Merged {
		action = "merged"
	}

	return &model.WebhookEvent{
		Kind:       model.EventPullRequest,
		Repository: repo,
		Branch:     event.PullRequest.Head.Ref,
		Action:     action,
		Author:     event.PullRequest.User.Login,
		Message:    event.PullRequest.Title,
		RawPayload: payload,
		ReceivedAt: time.Now(),
	}, nil
}

func (p *Parser) ParseReleaseEvent(payload []byte) (*model.WebhookEvent, error) {
	var event struct {
		Action  string `json:"action"`
		Release struct {
			TagName string `json:"tag_name"`
			Name    string `json:"name"`
			Author  struct {
				Login string `json:"login"`
			} `json:"author"`
		} `json:"release"`
		Repository payloadRepository `json:"repository"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parse release event: %w", err)
	}
	repo, err := event.Repository.ref()
	if err != nil {
		return nil, err
	}

	return &model.WebhookEvent{
		Kind:       model.EventRelease,
		Repository: repo,
		Branch:     event.Release.TagName,
		Action:     event.Action,
		Author:     event.Release.Author.Login,
		Message:    event.Release.Name,
		RawPayload: payload,
		ReceivedAt: time.Now(),
	}, nil
}

func (p *Parser) ParseWorkflowRunEvent(payload []byte) (*model.WebhookEvent, error) {
	var event struct {
		Action      string `json:"action"`
		WorkflowRun struct {
			Name       string `json:"name"`
			HeadBranch string `json:"head_branch"`
			Conclusion string `json:"conclusion"`
			Actor      struct {
				Login string `json:"login"`
			} `json:"actor"`
		} `json:"workflow_run"`
		Repository payloadRepository `json:"repository"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parse workflow run event: %w", err)
	}
	repo, err := event.Repository.ref()
	if err != nil {
		return nil, err
	}

	message := event.WorkflowRun.Name
	if event.WorkflowRun.Conclusion != "" {
		message = fmt.Sprintf("%s (%s)", message, event.WorkflowRun.Conclusion)
	}

	return &model.WebhookEvent{
		Kind:       model.EventWorkflowRun,
		Repository: repo,
		Branch:     event.WorkflowRun.HeadBranch,
		Action:     event.Action,
		Author:     event.WorkflowRun.Actor.Login,
		Message:    message,
		RawPayload: payload,
		ReceivedAt: time.Now(),
	}, nil
}

func (p *Parser) ParseRepositoryEvent(payload []byte) (*model.WebhookEvent, error) {
	var event struct {
		Action     string            `json:"action"`
		Repository payloadRepository `json:"repository"`
		Sender     struct {
			Login string `json:"login"`
		} `json:"sender"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("parse repository event: %w", err)
	}
	repo, err := event.Repository.ref()
	if err != nil {
		return nil, err
	}

	return &model.WebhookEvent{
		Kind:       model.EventRepository,
		Repository: repo,
		Action:     event.Action,
		Author:     event.Sender.Login,
		RawPayload: payload,
		ReceivedAt: time.Now(),
	}, nil
}
