package model

// ChangeKind categorizes a detected repository change.
type ChangeKind string

const (
	ChangeDependency    ChangeKind = "dependency"
	ChangeConfiguration ChangeKind = "configuration"
	ChangeFile          ChangeKind = "file"
	ChangeReadme        ChangeKind = "readme"
)

// DependencyChange is a version bump detected in a manifest.
type DependencyChange struct {
	Name        string
	Ecosystem   string // npm, gomod, pip, ...
	FromVersion string
	ToVersion   string
	Breaking    bool // major version bump or upstream breaking-change marker
}

// ConfigChange is a modification to a build/CI configuration file.
type ConfigChange struct {
	Path        string
	Description string
	Significant bool
}

// FileChange is a generic file modification in a change-set.
type FileChange struct {
	Path        string
	Status      string // added, modified, deleted
	Significant bool
}

// ChangeSet groups everything detected in one push/PR worth of changes.
type ChangeSet struct {
	Dependencies  []DependencyChange
	Configs       []ConfigChange
	Files         []FileChange
	ReadmeChanged bool
}

// HasBreakingDependency reports whether any dependency change is
// flagged breaking.
func (cs ChangeSet) HasBreakingDependency() bool {
	for _, d := range cs.Dependencies {
		if d.Breaking {
			return true
		}
	}
	return false
}

// HasSignificantChanges reports whether the set carries anything worth
// generating workflow edits for.
func (cs ChangeSet) HasSignificantChanges() bool {
	if len(cs.Dependencies) > 0 {
		return true
	}
	for _, c := range cs.Configs {
		if c.Significant {
			return true
		}
	}
	for _, f := range cs.Files {
		if f.Significant {
			return true
		}
	}
	return false
}

// IsEmpty reports whether nothing at all was detected.
func (cs ChangeSet) IsEmpty() bool {
	return len(cs.Dependencies) == 0 && len(cs.Configs) == 0 &&
		len(cs.Files) == 0 && !cs.ReadmeChanged
}
