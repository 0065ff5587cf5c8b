package rules

import "errors"

var (
	ErrRuleNotFound    = errors.New("rule not found")
	ErrEmptyName       = errors.New("rule name is required")
	ErrNoTriggers      = errors.New("rule must define at least one trigger")
	ErrNoConditions    = errors.New("rule must define at least one condition")
	ErrNoActions       = errors.New("rule must define at least one action")
	ErrInvalidPriority = errors.New("rule priority must be between 1 and 10")
)
