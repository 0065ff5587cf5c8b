package http

import (
	"cicd-workflow-automation/internal/automation"
	"cicd-workflow-automation/internal/decision"
	"cicd-workflow-automation/internal/model"
)

// --- Request DTOs ---

type repositoryReq struct {
	Owner         string `json:"owner" binding:"required"`
	Name          string `json:"name"  binding:"required"`
	DefaultBranch string `json:"default_branch"`
	Language      string `json:"language"`
}

func (r repositoryReq) toRef() model.RepositoryRef {
	return model.RepositoryRef{
		Owner:         r.Owner,
		Name:          r.Name,
		FullName:      r.Owner + "/" + r.Name,
		DefaultBranch: r.DefaultBranch,
		Language:      r.Language,
	}
}

type dependencyChangeReq struct {
	Name        string `json:"name" binding:"required"`
	Ecosystem   string `json:"ecosystem"`
	FromVersion string `json:"from_version"`
	ToVersion   string `json:"to_version"`
	Breaking    bool   `json:"breaking"`
}

type configChangeReq struct {
	Path        string `json:"path" binding:"required"`
	Description string `json:"description"`
	Significant bool   `json:"significant"`
}

type fileChangeReq struct {
	Path        string `json:"path" binding:"required"`
	Status      string `json:"status"`
	Significant bool   `json:"significant"`
}

type changeSetReq struct {
	Dependencies  []dependencyChangeReq `json:"dependencies"`
	Configs       []configChangeReq     `json:"configs"`
	Files         []fileChangeReq       `json:"files"`
	ReadmeChanged bool                  `json:"readme_changed"`
}

func (r changeSetReq) toChangeSet() model.ChangeSet {
	cs := model.ChangeSet{ReadmeChanged: r.ReadmeChanged}
	for _, d := range r.Dependencies {
		cs.Dependencies = append(cs.Dependencies, model.DependencyChange{
			Name:        d.Name,
			Ecosystem:   d.Ecosystem,
			FromVersion: d.FromVersion,
			ToVersion:   d.ToVersion,
			Breaking:    d.Breaking,
		})
	}
	for _, c := range r.Configs {
		cs.Configs = append(cs.Configs, model.ConfigChange{
			Path:        c.Path,
			Description: c.Description,
			Significant: c.Significant,
		})
	}
	for _, f := range r.Files {
		cs.Files = append(cs.Files, model.FileChange{
			Path:        f.Path,
			Status:      f.Status,
			Significant: f.Significant,
		})
	}
	return cs
}

type evaluateReq struct {
	Repository repositoryReq `json:"repository" binding:"required"`
	Changes    changeSetReq  `json:"changes"`
}

func (r evaluateReq) toInput() automation.EvaluateChangesInput {
	return automation.EvaluateChangesInput{
		Repository: r.Repository.toRef(),
		Changes:    r.Changes.toChangeSet(),
	}
}

type applyReq struct {
	Repository repositoryReq                 `json:"repository" binding:"required"`
	Decisions  []decision.AutomationDecision `json:"decisions"  binding:"required"`
}

func (r applyReq) toInput() automation.CreatePRsInput {
	return automation.CreatePRsInput{
		Repository: r.Repository.toRef(),
		Decisions:  r.Decisions,
	}
}

type submitTaskReq struct {
	Kind       string        `json:"kind"       binding:"required"`
	Repository repositoryReq `json:"repository" binding:"required"`
	Priority   string        `json:"priority"`
}

func (r submitTaskReq) toInput() automation.SubmitTaskInput {
	priority := model.Priority(r.Priority)
	if priority == "" {
		priority = model.PriorityMedium
	}
	return automation.SubmitTaskInput{
		Kind:       model.JobKind(r.Kind),
		Repository: r.Repository.toRef(),
		Priority:   priority,
	}
}

// --- Response DTOs ---

type evaluateResp struct {
	Decisions []decision.AutomationDecision `json:"decisions"`
	Total     int                           `json:"total"`
}

type submitResp struct {
	JobID string `json:"job_id"`
}
