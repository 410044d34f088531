package function

import (
	"encoding/json"
	"fmt"

	types "github.com/eagraf/fnconsole/core/api"
	"github.com/eagraf/fnconsole/internal/jsonstate"
)

var (
	TransitionStartInstallation    = "start_installation"
	TransitionFinishInstallation   = "finish_installation"
	TransitionFailInstallation     = "fail_installation"
	TransitionFinishUninstallation = "finish_uninstallation"
	TransitionRefreshDetails       = "refresh_details"
)

// Transition is a typed change to a function record. Validate is checked against the
// current record before Patch produces the JSON patch to apply.
type Transition interface {
	Type() string
	Validate(oldState []byte) error
	Patch(oldState []byte) ([]byte, error)
}

func unmarshalState(raw []byte) (*State, error) {
	var s State
	err := json.Unmarshal(raw, &s)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// StartInstallationTransition records that the backend accepted an install or update
// job. The function stays "installing" until a FinishInstallationTransition or
// FailInstallationTransition arrives.
type StartInstallationTransition struct{}

func (t *StartInstallationTransition) Type() string {
	return TransitionStartInstallation
}

func (t *StartInstallationTransition) Validate(oldState []byte) error {
	old, err := unmarshalState(oldState)
	if err != nil {
		return err
	}
	if !old.IsValid {
		return fmt.Errorf("function %s is invalid: %s", old.FunctionName, old.InvalidReason)
	}
	if old.Status != StatusNotInstalled && old.Status != StatusUpdateAvailable {
		return fmt.Errorf("function %s cannot be installed in state %s", old.FunctionName, old.Status)
	}
	return nil
}

func (t *StartInstallationTransition) Patch(oldState []byte) ([]byte, error) {
	old, err := unmarshalState(oldState)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf(`[
		{ "op": "replace", "path": "/status", "value": "%s" },
		{ "op": "add", "path": "/previous_status", "value": "%s" }
	]`, StatusInstalling, old.Status)), nil
}

type FinishInstallationTransition struct {
	Version string `json:"version"`
}

func (t *FinishInstallationTransition) Type() string {
	return TransitionFinishInstallation
}

func (t *FinishInstallationTransition) Validate(oldState []byte) error {
	old, err := unmarshalState(oldState)
	if err != nil {
		return err
	}
	if old.Status != StatusInstalling {
		return fmt.Errorf("function %s is in state %s", old.FunctionName, old.Status)
	}
	return nil
}

func (t *FinishInstallationTransition) Patch(oldState []byte) ([]byte, error) {
	old, err := unmarshalState(oldState)
	if err != nil {
		return nil, err
	}
	version := old.InstalledVersion
	if t.Version != "" {
		version = t.Version
	}
	marshaledVersion, err := json.Marshal(version)
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf(`[
		{ "op": "replace", "path": "/status", "value": "%s" },
		{ "op": "add", "path": "/previous_status", "value": "" },
		{ "op": "add", "path": "/installed_version", "value": %s }
	]`, StatusInstalled, marshaledVersion)), nil
}

// FailInstallationTransition restores the status the function had before its
// install job was enqueued.
type FailInstallationTransition struct {
	Reason string `json:"reason"`
}

func (t *FailInstallationTransition) Type() string {
	return TransitionFailInstallation
}

func (t *FailInstallationTransition) Validate(oldState []byte) error {
	old, err := unmarshalState(oldState)
	if err != nil {
		return err
	}
	if old.Status != StatusInstalling {
		return fmt.Errorf("function %s is in state %s", old.FunctionName, old.Status)
	}
	return nil
}

func (t *FailInstallationTransition) Patch(oldState []byte) ([]byte, error) {
	old, err := unmarshalState(oldState)
	if err != nil {
		return nil, err
	}
	restored := old.PreviousStatus
	if restored == "" {
		restored = StatusNotInstalled
	}
	return []byte(fmt.Sprintf(`[
		{ "op": "replace", "path": "/status", "value": "%s" },
		{ "op": "add", "path": "/previous_status", "value": "" }
	]`, restored)), nil
}

type FinishUninstallationTransition struct{}

func (t *FinishUninstallationTransition) Type() string {
	return TransitionFinishUninstallation
}

func (t *FinishUninstallationTransition) Validate(oldState []byte) error {
	old, err := unmarshalState(oldState)
	if err != nil {
		return err
	}
	if !old.Status.IsInstalled() {
		return fmt.Errorf("function %s is not installed, found state %s", old.FunctionName, old.Status)
	}
	return nil
}

func (t *FinishUninstallationTransition) Patch(oldState []byte) ([]byte, error) {
	return []byte(fmt.Sprintf(`[
		{ "op": "replace", "path": "/status", "value": "%s" },
		{ "op": "add", "path": "/installed_version", "value": "" }
	]`, StatusNotInstalled)), nil
}

// RefreshDetailsTransition overwrites the backend owned fields of the record with a
// freshly fetched function entry.
type RefreshDetailsTransition struct {
	Function *types.Function `json:"function"`
	Versions []string        `json:"versions"`
}

func (t *RefreshDetailsTransition) Type() string {
	return TransitionRefreshDetails
}

func (t *RefreshDetailsTransition) Validate(oldState []byte) error {
	if t.Function == nil {
		return fmt.Errorf("refreshed function cannot be nil")
	}
	old, err := unmarshalState(oldState)
	if err != nil {
		return err
	}
	if t.Function.FunctionName != old.FunctionName {
		return fmt.Errorf("refreshed function %s does not match record %s", t.Function.FunctionName, old.FunctionName)
	}
	return nil
}

func (t *RefreshDetailsTransition) Patch(oldState []byte) ([]byte, error) {
	old, err := unmarshalState(oldState)
	if err != nil {
		return nil, err
	}
	wasInstalling, previous := old.Status == StatusInstalling, old.PreviousStatus
	old.overwrite(t.Function, t.Versions)
	if wasInstalling && old.Status == StatusInstalling {
		old.PreviousStatus = previous
	}

	newState, err := json.Marshal(old)
	if err != nil {
		return nil, err
	}
	return jsonstate.Diff(oldState, newState)
}
