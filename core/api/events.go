package types

const (
	EventFunctionInstalled     = "function_installed"
	EventFunctionInstallFailed = "function_install_failed"
)

// InstallationCompleted is the out of band signal that an enqueued install or update
// job finished on the backend.
type InstallationCompleted struct {
	FunctionRef
	Succeeded bool   `json:"succeeded"`
	Version   string `json:"version,omitempty"`
	Reason    string `json:"reason,omitempty"`
}
