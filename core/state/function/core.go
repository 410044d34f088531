package function

import (
	types "github.com/eagraf/fnconsole/core/api"
	"golang.org/x/mod/semver"
)

type Status string

const (
	StatusNotInstalled    Status = "not_installed"
	StatusInstalling      Status = "installing"
	StatusInstalled       Status = "installed"
	StatusUpdateAvailable Status = "update_available"
	// StatusUninstalling is never stored. It is reported while an uninstall call is
	// pending on top of the stored installed status.
	StatusUninstalling Status = "uninstalling"
)

// IsInstalled reports whether the status counts as installed for display.
func (s Status) IsInstalled() bool {
	return s == StatusInstalled || s == StatusUpdateAvailable
}

// State is the record of one function card.
type State struct {
	FunctionName     string   `json:"function_name"`
	Repo             string   `json:"repo"`
	Owner            string   `json:"owner"`
	Branch           string   `json:"branch"`
	SCMType          string   `json:"scm_type"`
	ByMemphis        bool     `json:"by_memphis"`
	ComputeEngine    string   `json:"compute_engine"`
	Status           Status   `json:"status"`
	PreviousStatus   Status   `json:"previous_status"`
	IsValid          bool     `json:"is_valid"`
	InvalidReason    string   `json:"invalid_reason"`
	InstalledVersion string   `json:"installed_version"`
	Description      string   `json:"description"`
	Image            string   `json:"image"`
	Language         string   `json:"language"`
	LastCommit       string   `json:"last_commit"`
	Tags             []string `json:"tags"`
}

func (s State) Ref() types.FunctionRef {
	return types.FunctionRef{
		FunctionName: s.FunctionName,
		Repo:         s.Repo,
		Owner:        s.Owner,
		Branch:       s.Branch,
		SCM:          s.SCMType,
	}
}

// NewState builds a record from a backend function entry.
func NewState(f *types.Function) *State {
	s := &State{
		FunctionName:  f.FunctionName,
		Repo:          f.Repo,
		Owner:         f.Owner,
		Branch:        f.Branch,
		SCMType:       f.SCM,
		ByMemphis:     f.ByMemphis,
		ComputeEngine: f.ComputeEngine,
	}
	s.overwrite(f, nil)
	return s
}

// overwrite copies every backend owned field of f into s.
func (s *State) overwrite(f *types.Function, versions []string) {
	s.Status = StatusFromFunction(f, versions)
	s.PreviousStatus = ""
	s.IsValid = f.IsValid
	s.InvalidReason = f.InvalidReason
	s.InstalledVersion = f.InstalledVersion
	s.ByMemphis = f.ByMemphis
	s.ComputeEngine = f.ComputeEngine
	s.Description = f.Description
	s.Image = f.Image
	s.Language = f.Language
	s.LastCommit = f.InstalledUpdatedAt
	s.Tags = make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		s.Tags = append(s.Tags, t.Name)
	}
}

// StatusFromFunction derives the lifecycle status reported by the backend. An
// installed function also counts as updatable when versions holds a semantic version
// newer than the installed one.
func StatusFromFunction(f *types.Function, versions []string) Status {
	switch {
	case f.InstalledInProgress:
		return StatusInstalling
	case !f.Installed:
		return StatusNotInstalled
	case f.UpdatesAvailable || hasNewerVersion(f.InstalledVersion, versions):
		return StatusUpdateAvailable
	default:
		return StatusInstalled
	}
}

func hasNewerVersion(installed string, versions []string) bool {
	if !semver.IsValid(installed) {
		return false
	}
	for _, v := range versions {
		if semver.IsValid(v) && semver.Compare(v, installed) > 0 {
			return true
		}
	}
	return false
}
