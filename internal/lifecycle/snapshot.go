package lifecycle

import (
	"github.com/eagraf/fnconsole/core/state/function"
)

// Snapshot is what the presentation layer renders a function card from.
type Snapshot struct {
	State function.State
	// Status is the display status: the stored status, or "uninstalling" while an
	// uninstall call is pending.
	Status           function.Status
	InstallPending   bool
	UninstallPending bool
}

func (s Snapshot) busy() bool {
	return s.InstallPending || s.UninstallPending || s.Status == function.StatusInstalling
}

func (s Snapshot) CanInstall() bool {
	return s.State.IsValid && !s.busy() &&
		(s.Status == function.StatusNotInstalled || s.Status == function.StatusUpdateAvailable)
}

func (s Snapshot) CanUpdate() bool {
	return s.CanInstall() && s.Status == function.StatusUpdateAvailable
}

func (s Snapshot) CanUninstall() bool {
	return !s.busy() && s.Status.IsInstalled()
}

func (s Snapshot) CanTest() bool {
	return s.Status.IsInstalled()
}

// CanAttach reports whether the function can be bound to a station.
func (s Snapshot) CanAttach() bool {
	return s.State.IsValid && !s.busy() && s.Status.IsInstalled()
}

const (
	ActionInstall   = "Install"
	ActionUpdate    = "Update"
	ActionUninstall = "Uninstall"
)

// Action is the label of the card's main button. Update is offered instead of
// Uninstall when a newer version exists, and it triggers Install.
func (s Snapshot) Action() string {
	if s.busy() {
		return ""
	}
	switch s.Status {
	case function.StatusNotInstalled:
		return ActionInstall
	case function.StatusUpdateAvailable:
		return ActionUpdate
	case function.StatusInstalled:
		return ActionUninstall
	default:
		return ""
	}
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Update is published on every status change and with every transient message.
type Update struct {
	Snapshot Snapshot
	Level    Level
	Message  string
}
