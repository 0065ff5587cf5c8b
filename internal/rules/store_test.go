package rules_test

import (
	"testing"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/rules"
)

func validRule(name string, priority int) *rules.AutomationRule {
	return &rules.AutomationRule{
		Name:     name,
		Enabled:  true,
		Priority: priority,
		Triggers: []rules.Trigger{
			{Type: rules.TriggerWebhookEvent, WebhookEvent: model.EventPush},
		},
		Conditions: []rules.Condition{
			{Field: "repository.owner", Operator: rules.OpEquals, Value: "octocat"},
		},
		Actions: []rules.Action{
			{Type: rules.ActionCreatePullRequest, Params: rules.CreatePullRequestParams{}},
		},
	}
}

func TestStoreValidation(t *testing.T) {
	s := rules.NewStore()

	t.Run("missing name", func(t *testing.T) {
		r := validRule("", 5)
		if _, err := s.Create(r); err != rules.ErrEmptyName {
			t.Errorf("expected ErrEmptyName, got %v", err)
		}
	})

	t.Run("no triggers", func(t *testing.T) {
		r := validRule("r", 5)
		r.Triggers = nil
		if _, err := s.Create(r); err != rules.ErrNoTriggers {
			t.Errorf("expected ErrNoTriggers, got %v", err)
		}
	})

	t.Run("no conditions", func(t *testing.T) {
		r := validRule("r", 5)
		r.Conditions = nil
		if _, err := s.Create(r); err != rules.ErrNoConditions {
			t.Errorf("expected ErrNoConditions, got %v", err)
		}
	})

	t.Run("no actions", func(t *testing.T) {
		r := validRule("r", 5)
		r.Actions = nil
		if _, err := s.Create(r); err != rules.ErrNoActions {
			t.Errorf("expected ErrNoActions, got %v", err)
		}
	})

	t.Run("priority out of range", func(t *testing.T) {
		for _, p := range []int{0, 11, -3} {
			r := validRule("r", p)
			if _, err := s.Create(r); err != rules.ErrInvalidPriority {
				t.Errorf("priority %d: expected ErrInvalidPriority, got %v", p, err)
			}
		}
	})
}

func TestStoreCRUD(t *testing.T) {
	s := rules.NewStore()

	id, err := s.Create(validRule("dependency-bumps", 7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "dependency-bumps" {
		t.Errorf("expected name preserved, got %q", got.Name)
	}

	updated := validRule("dependency-bumps-v2", 9)
	updated.ID = id
	if err := s.Update(updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = s.Get(id)
	if got.Name != "dependency-bumps-v2" || got.Priority != 9 {
		t.Errorf("update not applied: %+v", got)
	}

	if err := s.SetEnabled(id, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.ListEnabled()) != 0 {
		t.Error("expected no enabled rules after disable")
	}
	if len(s.List()) != 1 {
		t.Error("expected disabled rule still listed")
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete(id); err != rules.ErrRuleNotFound {
		t.Errorf("expected ErrRuleNotFound, got %v", err)
	}
}

func TestStoreListOrder(t *testing.T) {
	s := rules.NewStore()
	s.Create(validRule("low", 2))
	s.Create(validRule("high", 9))
	s.Create(validRule("mid", 5))

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(list))
	}
	if list[0].Name != "high" || list[1].Name != "mid" || list[2].Name != "low" {
		t.Errorf("expected priority-descending order, got %s %s %s",
			list[0].Name, list[1].Name, list[2].Name)
	}
}
