package types

import "fmt"

// FunctionRef is the identity needed to address a function on the backend.
type FunctionRef struct {
	FunctionName string `json:"function_name"`
	Repo         string `json:"repo"`
	Owner        string `json:"owner"`
	Branch       string `json:"branch"`
	SCM          string `json:"scm"`
}

func (r FunctionRef) String() string {
	return fmt.Sprintf("%s/%s@%s:%s", r.Owner, r.Repo, r.Branch, r.FunctionName)
}

type Tag struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Function is a function entry as reported by the backend, both in the marketplace
// listing and as the metadata of a details response.
type Function struct {
	FunctionRef

	ByMemphis           bool   `json:"by_memphis"`
	ComputeEngine       string `json:"compute_engine"`
	Description         string `json:"description"`
	Image               string `json:"image"`
	Language            string `json:"language"`
	Tags                []Tag  `json:"tags"`
	Installed           bool   `json:"installed"`
	InstalledInProgress bool   `json:"installed_in_progress"`
	UpdatesAvailable    bool   `json:"updates_available"`
	IsValid             bool   `json:"is_valid"`
	InvalidReason       string `json:"invalid_reason"`
	InstalledVersion    string `json:"installed_version"`
	InstalledUpdatedAt  string `json:"installed_updated_at"`
}

type GetAllFunctionsResponse struct {
	Installed     []*Function `json:"installed"`
	Other         []*Function `json:"other"`
	SCMIntegrated bool        `json:"scm_integrated"`
}

type GetFunctionDetailsResponse struct {
	Metadata      *Function `json:"metadata_function"`
	ReadmeContent string    `json:"readme_content"`
	Versions      []string  `json:"versions"`
	ObjectKeys    []string  `json:"s3_object_keys"`
}

type GetFunctionFileCodeResponse struct {
	Content string `json:"content"`
}

type InstallFunctionRequest struct {
	FunctionName string `json:"function_name"`
	Repo         string `json:"repo"`
	Owner        string `json:"owner"`
	Branch       string `json:"branch"`
	SCMType      string `json:"scm_type"`
	ByMemphis    bool   `json:"by_memphis"`
}

type UninstallFunctionRequest struct {
	FunctionName  string `json:"function_name"`
	Repo          string `json:"repo"`
	Owner         string `json:"owner"`
	Branch        string `json:"branch"`
	SCMType       string `json:"scm_type"`
	ComputeEngine string `json:"compute_engine"`
}

// TestEvent is the mock payload posted to a function.
type TestEvent struct {
	Headers map[string]string `json:"headers"`
	Content string            `json:"content"`
}

type TestFunctionRequest struct {
	FunctionName    string    `json:"function_name"`
	FunctionVersion string    `json:"function_version"`
	SCMType         string    `json:"scm_type"`
	Branch          string    `json:"branch"`
	Repo            string    `json:"repo"`
	Owner           string    `json:"owner"`
	TestEvent       TestEvent `json:"test_event"`
}

type TestFunctionResponse struct {
	Success bool     `json:"success"`
	Output  string   `json:"output"`
	Logs    []string `json:"logs"`
}
