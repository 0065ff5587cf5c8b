package http

import (
	"cicd-workflow-automation/internal/rules"
	"cicd-workflow-automation/pkg/log"
)

// Handler is the public interface for the rules admin HTTP layer.
type Handler interface {
	Create(c interface{})
	List(c interface{})
	Detail(c interface{})
	Update(c interface{})
	Delete(c interface{})
	SetEnabled(c interface{})
}

type handler struct {
	l     log.Logger
	store *rules.Store
}

// New creates the HTTP handler for rule administration.
func New(l log.Logger, store *rules.Store) *handler {
	return &handler{
		l:     l,
		store: store,
	}
}
