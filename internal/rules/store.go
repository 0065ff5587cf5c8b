package rules

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the in-memory rule registry. Read-mostly: every evaluation
// pass lists enabled rules, administrative calls mutate.
type Store struct {
	mu    sync.RWMutex
	rules map[string]*AutomationRule
}

// NewStore creates an empty rule store.
func NewStore() *Store {
	return &Store{rules: make(map[string]*AutomationRule)}
}

func validate(rule *AutomationRule) error {
	if rule.Name == "" {
		return ErrEmptyName
	}
	if len(rule.Triggers) == 0 {
		return ErrNoTriggers
	}
	if len(rule.Conditions) == 0 {
		return ErrNoConditions
	}
	if len(rule.Actions) == 0 {
		return ErrNoActions
	}
	if rule.Priority < 1 || rule.Priority > 10 {
		return ErrInvalidPriority
	}
	return nil
}

// Create validates and stores a new rule, assigning its id.
func (s *Store) Create(rule *AutomationRule) (string, error) {
	if err := validate(rule); err != nil {
		return "", err
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	s.mu.Lock()
	s.rules[rule.ID] = rule
	s.mu.Unlock()
	return rule.ID, nil
}

// Update validates and replaces an existing rule.
func (s *Store) Update(rule *AutomationRule) error {
	if err := validate(rule); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.rules[rule.ID]
	if !ok {
		return ErrRuleNotFound
	}
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = time.Now()
	s.rules[rule.ID] = rule
	return nil
}

// Delete removes a rule.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return ErrRuleNotFound
	}
	delete(s.rules, id)
	return nil
}

// SetEnabled flips a rule's enabled flag.
func (s *Store) SetEnabled(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rules[id]
	if !ok {
		return ErrRuleNotFound
	}
	rule.Enabled = enabled
	rule.UpdatedAt = time.Now()
	return nil
}

// Get returns one rule by id.
func (s *Store) Get(id string) (*AutomationRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[id]
	if !ok {
		return nil, ErrRuleNotFound
	}
	return rule, nil
}

// List returns all rules sorted by priority descending then name.
func (s *Store) List() []*AutomationRule {
	s.mu.RLock()
	out := make([]*AutomationRule, 0, len(s.rules))
	for _, rule := range s.rules {
		out = append(out, rule)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ListEnabled returns enabled rules in the same order as List.
func (s *Store) ListEnabled() []*AutomationRule {
	all := s.List()
	out := make([]*AutomationRule, 0, len(all))
	for _, rule := range all {
		if rule.Enabled {
			out = append(out, rule)
		}
	}
	return out
}
