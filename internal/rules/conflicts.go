package rules

import (
	"fmt"
	"strings"
)

// exclusiveActions lists action types only one rule per pass should
// perform.
var exclusiveActions = map[ActionType]bool{
	ActionCreatePullRequest: true,
	ActionTriggerDeployment: true,
	ActionSecurityScan:      true,
}

// DetectConflicts inspects one pass's full result batch. Conflicts are
// advisory: they are recorded for alerting, never enforced.
func DetectConflicts(results []EvaluationResult) []Conflict {
	var conflicts []Conflict

	// Action conflicts: two or more triggered rules claiming the same
	// mutually exclusive action type.
	byAction := make(map[ActionType][]*AutomationRule)
	for _, res := range results {
		if !res.Triggered {
			continue
		}
		seen := make(map[ActionType]bool)
		for _, action := range res.Rule.Actions {
			if !exclusiveActions[action.Type] || seen[action.Type] {
				continue
			}
			seen[action.Type] = true
			byAction[action.Type] = append(byAction[action.Type], res.Rule)
		}
	}
	for actionType, contenders := range byAction {
		if len(contenders) < 2 {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Rules:      contenders,
			Type:       ConflictAction,
			ActionType: actionType,
			Resolution: "highest-priority-wins",
			Description: fmt.Sprintf("rules %s all request exclusive action %s",
				ruleNames(contenders), actionType),
		})
	}

	// Priority conflicts: two or more triggered rules at priority >= 8
	// in one pass need manual attention.
	var highPriority []*AutomationRule
	for _, res := range results {
		if res.Triggered && res.Rule.Priority >= 8 {
			highPriority = append(highPriority, res.Rule)
		}
	}
	if len(highPriority) >= 2 {
		conflicts = append(conflicts, Conflict{
			Rules:      highPriority,
			Type:       ConflictPriority,
			Resolution: "manual-review",
			Description: fmt.Sprintf("rules %s fired together at priority >= 8",
				ruleNames(highPriority)),
		})
	}

	return conflicts
}

func ruleNames(rules []*AutomationRule) string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name)
	}
	return strings.Join(names, ", ")
}
