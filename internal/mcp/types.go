package mcp

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Workspace string `json:"workspace,omitempty" jsonschema:"Only list windows on this workspace"`
}

// WindowInfo describes one managed window.
type WindowInfo struct {
	ID        string `json:"id"`
	Handle    uint32 `json:"handle"`
	Title     string `json:"title"`
	ClassName string `json:"class_name"`
	State     string `json:"state"`
	Workspace string `json:"workspace"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	HasFocus  bool   `json:"has_focus"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// WorkspaceInfo describes one workspace.
type WorkspaceInfo struct {
	Name        string `json:"name"`
	Monitor     string `json:"monitor"`
	IsDisplayed bool   `json:"is_displayed"`
	HasFocus    bool   `json:"has_focus" jsonschema:"True when the focused container is this workspace or inside it"`
	WindowCount int    `json:"window_count"`
}

// ListWorkspacesOutput is the output for the list_workspaces tool.
type ListWorkspacesOutput struct {
	Workspaces []WorkspaceInfo `json:"workspaces"`
}

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string `json:"command" jsonschema:"Command to run, e.g. toggle-floating or resize width +5%. Separate several commands with ;"`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	Command string `json:"command"`
	OK      bool   `json:"ok"`
}
