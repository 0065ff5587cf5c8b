package http

import (
	"fmt"
	"time"

	"cicd-workflow-automation/internal/model"
	"cicd-workflow-automation/internal/rules"
)

// --- Request DTOs ---

type triggerReq struct {
	Type         string          `json:"type" binding:"required"`
	WebhookEvent string          `json:"webhook_event"`
	ChangeKind   string          `json:"change_kind"`
	Schedule     *scheduleReq    `json:"schedule"`
	Performance  *performanceReq `json:"performance"`
}

type scheduleReq struct {
	Weekdays []int `json:"weekdays"`
	FromHour int   `json:"from_hour"`
	ToHour   int   `json:"to_hour"`
}

type performanceReq struct {
	MaxAvgBuildMinutes float64 `json:"max_avg_build_minutes"`
	MinSuccessRate     float64 `json:"min_success_rate"`
}

type conditionReq struct {
	Field    string   `json:"field"    binding:"required"`
	Operator string   `json:"operator" binding:"required"`
	Value    string   `json:"value"`
	Values   []string `json:"values"`
	Negate   bool     `json:"negate"`
}

type actionReq struct {
	Type   string            `json:"type" binding:"required"`
	Params map[string]string `json:"params"`
}

type ruleReq struct {
	ID         string         `json:"-"` // populated from URI param on update
	Name       string         `json:"name"     binding:"required,min=1,max=255"`
	Enabled    *bool          `json:"enabled"`
	Priority   int            `json:"priority" binding:"required,min=1,max=10"`
	Triggers   []triggerReq   `json:"triggers"`
	Conditions []conditionReq `json:"conditions"`
	Actions    []actionReq    `json:"actions"`
	Tags       []string       `json:"tags"`
}

func (r ruleReq) toRule() (*rules.AutomationRule, error) {
	rule := &rules.AutomationRule{
		ID:       r.ID,
		Name:     r.Name,
		Enabled:  true,
		Priority: r.Priority,
		Tags:     r.Tags,
	}
	if r.Enabled != nil {
		rule.Enabled = *r.Enabled
	}

	for _, t := range r.Triggers {
		trigger := rules.Trigger{
			Type:         rules.TriggerType(t.Type),
			WebhookEvent: model.EventKind(t.WebhookEvent),
			ChangeKind:   model.ChangeKind(t.ChangeKind),
		}
		if t.Schedule != nil {
			window := &rules.ScheduleWindow{
				FromHour: t.Schedule.FromHour,
				ToHour:   t.Schedule.ToHour,
			}
			for _, d := range t.Schedule.Weekdays {
				window.Weekdays = append(window.Weekdays, time.Weekday(d))
			}
			trigger.Schedule = window
		}
		if t.Performance != nil {
			trigger.Performance = &rules.PerformanceThreshold{
				MaxAvgBuildMinutes: t.Performance.MaxAvgBuildMinutes,
				MinSuccessRate:     t.Performance.MinSuccessRate,
			}
		}
		rule.Triggers = append(rule.Triggers, trigger)
	}

	for _, c := range r.Conditions {
		rule.Conditions = append(rule.Conditions, rules.Condition{
			Field:    c.Field,
			Operator: rules.ConditionOperator(c.Operator),
			Value:    c.Value,
			Values:   c.Values,
			Negate:   c.Negate,
		})
	}

	for _, a := range r.Actions {
		params, err := actionParams(rules.ActionType(a.Type), a.Params)
		if err != nil {
			return nil, err
		}
		rule.Actions = append(rule.Actions, rules.Action{
			Type:   rules.ActionType(a.Type),
			Params: params,
		})
	}

	return rule, nil
}

// actionParams decodes the per-type params union at the boundary.
func actionParams(t rules.ActionType, raw map[string]string) (rules.ActionParams, error) {
	switch t {
	case rules.ActionCreatePullRequest:
		return rules.CreatePullRequestParams{
			TitlePrefix: raw["title_prefix"],
			Draft:       raw["draft"] == "true",
		}, nil
	case rules.ActionTriggerDeployment:
		return rules.TriggerDeploymentParams{Environment: raw["environment"]}, nil
	case rules.ActionSecurityScan:
		return rules.SecurityScanParams{Scanner: raw["scanner"]}, nil
	case rules.ActionNotify:
		return rules.NotifyParams{Channel: raw["channel"], Message: raw["message"]}, nil
	case rules.ActionUpdateWorkflow:
		return rules.UpdateWorkflowParams{Path: raw["path"]}, nil
	default:
		return nil, fmt.Errorf("unknown action type %q", t)
	}
}

type setEnabledReq struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// --- Response DTOs ---

type ruleResp struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Enabled    bool           `json:"enabled"`
	Priority   int            `json:"priority"`
	Triggers   []triggerResp  `json:"triggers"`
	Conditions []conditionReq `json:"conditions"`
	Actions    []actionResp   `json:"actions"`
	Tags       []string       `json:"tags,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type triggerResp struct {
	Type         string          `json:"type"`
	WebhookEvent string          `json:"webhook_event,omitempty"`
	ChangeKind   string          `json:"change_kind,omitempty"`
	Schedule     *scheduleReq    `json:"schedule,omitempty"`
	Performance  *performanceReq `json:"performance,omitempty"`
}

type actionResp struct {
	Type   string            `json:"type"`
	Params map[string]string `json:"params,omitempty"`
}

func newRuleResp(rule *rules.AutomationRule) ruleResp {
	resp := ruleResp{
		ID:        rule.ID,
		Name:      rule.Name,
		Enabled:   rule.Enabled,
		Priority:  rule.Priority,
		Tags:      rule.Tags,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}

	for _, t := range rule.Triggers {
		tr := triggerResp{
			Type:         string(t.Type),
			WebhookEvent: string(t.WebhookEvent),
			ChangeKind:   string(t.ChangeKind),
		}
		if t.Schedule != nil {
			window := &scheduleReq{FromHour: t.Schedule.FromHour, ToHour: t.Schedule.ToHour}
			for _, d := range t.Schedule.Weekdays {
				window.Weekdays = append(window.Weekdays, int(d))
			}
			tr.Schedule = window
		}
		if t.Performance != nil {
			tr.Performance = &performanceReq{
				MaxAvgBuildMinutes: t.Performance.MaxAvgBuildMinutes,
				MinSuccessRate:     t.Performance.MinSuccessRate,
			}
		}
		resp.Triggers = append(resp.Triggers, tr)
	}

	for _, c := range rule.Conditions {
		resp.Conditions = append(resp.Conditions, conditionReq{
			Field:    c.Field,
			Operator: string(c.Operator),
			Value:    c.Value,
			Values:   c.Values,
			Negate:   c.Negate,
		})
	}

	for _, a := range rule.Actions {
		resp.Actions = append(resp.Actions, actionResp{
			Type:   string(a.Type),
			Params: paramsMap(a.Params),
		})
	}

	return resp
}

func paramsMap(p rules.ActionParams) map[string]string {
	switch v := p.(type) {
	case rules.CreatePullRequestParams:
		out := map[string]string{}
		if v.TitlePrefix != "" {
			out["title_prefix"] = v.TitlePrefix
		}
		if v.Draft {
			out["draft"] = "true"
		}
		return out
	case rules.TriggerDeploymentParams:
		return map[string]string{"environment": v.Environment}
	case rules.SecurityScanParams:
		return map[string]string{"scanner": v.Scanner}
	case rules.NotifyParams:
		return map[string]string{"channel": v.Channel, "message": v.Message}
	case rules.UpdateWorkflowParams:
		return map[string]string{"path": v.Path}
	default:
		return nil
	}
}

type listResp struct {
	Rules []ruleResp `json:"rules"`
	Total int        `json:"total"`
}

func newListResp(list []*rules.AutomationRule) listResp {
	out := listResp{Rules: make([]ruleResp, 0, len(list)), Total: len(list)}
	for _, rule := range list {
		out.Rules = append(out.Rules, newRuleResp(rule))
	}
	return out
}
