package webhook

import (
	"testing"

	"cicd-workflow-automation/internal/model"
)

func TestParsePushEvent(t *testing.T) {
	p := NewParser()
	payload := []byte(`{
		"ref": "refs/heads/feature/caching",
		"repository": {
			"name": "hello",
			"full_name": "octocat/hello",
			"default_branch": "main",
			"language": "Go",
			"owner": {"login": "octocat"}
		},
		"head_commit": {
			"message": "bump deps",
			"author": {"name": "Sam"}
		}
	}`)

	event, err := p.ParsePushEvent(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Kind != model.EventPush {
		t.Errorf("expected push, got %s", event.Kind)
	}
	if event.Branch != "feature/caching" {
		t.Errorf("expected branch from ref, got %q", event.Branch)
	}
	if event.Repository.Owner != "octocat" || event.Repository.Name != "hello" {
		t.Errorf("repository identity wrong: %+v", event.Repository)
	}
	if event.Repository.DefaultBranch != "main" {
		t.Errorf("default branch lost: %+v", event.Repository)
	}
}

func TestParseRequiresRepositoryIdentity(t *testing.T) {
	p := NewParser()
	if _, err := p.ParsePushEvent([]byte(`{"ref": "refs/heads/main", "repository": {}}`)); err == nil {
		t.Error("expected rejection for payload without repository identity")
	}
}

func TestParseIdentityFromFullName(t *testing.T) {
	p := NewParser()
	event, err := p.ParsePushEvent([]byte(`{"ref": "refs/heads/main", "repository": {"full_name": "octocat/hello"}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Repository.Owner != "octocat" || event.Repository.Name != "hello" {
		t.Errorf("identity not derived from full_name: %+v", event.Repository)
	}
}

func TestParsePullRequestMergedPrecedence(t *testing.T) {
	p := NewParser()
	payload := []byte(`{
		"action": "closed",
		"pull_request": {
			"title": "Update caching",
			"head": {"ref": "feature/caching"},
			"user": {"login": "octocat"},
			"merged": true
		},
		"repository": {"full_name": "octocat/hello"}
	}`)

	event, err := p.ParsePullRequestEvent(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Action != "merged" {
		t.Errorf("merged must take precedence over closed, got %q", event.Action)
	}
}

func TestParseDispatch(t *testing.T) {
	p := NewParser()
	repoJSON := `"repository": {"full_name": "octocat/hello"}`

	cases := []struct {
		eventType string
		payload   string
		want      model.EventKind
	}{
		{"push", `{"ref": "refs/heads/main", ` + repoJSON + `}`, model.EventPush},
		{"pull_request", `{"action": "opened", ` + repoJSON + `}`, model.EventPullRequest},
		{"release", `{"action": "published", "release": {"tag_name": "v1.2.0"}, ` + repoJSON + `}`, model.EventRelease},
		{"workflow_run", `{"action": "completed", "workflow_run": {"name": "CI", "conclusion": "failure"}, ` + repoJSON + `}`, model.EventWorkflowRun},
		{"repository", `{"action": "created", ` + repoJSON + `}`, model.EventRepository},
	}

	for _, tc := range cases {
		t.Run(tc.eventType, func(t *testing.T) {
			event, err := p.Parse(tc.eventType, []byte(tc.payload))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if event.Kind != tc.want {
				t.Errorf("expected %s, got %s", tc.want, event.Kind)
			}
		})
	}

	if _, err := p.Parse("ping", []byte(`{}`)); err == nil {
		t.Error("expected unsupported event type error")
	}
}
