package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload        CommandType = "RELOAD"
	CommandGetStatus     CommandType = "GET_STATUS"
	CommandGetTree       CommandType = "GET_TREE"
	CommandGetMonitors   CommandType = "GET_MONITORS"
	CommandGetWorkspaces CommandType = "GET_WORKSPACES"
	CommandGetWindows    CommandType = "GET_WINDOWS"
	CommandRunCommand    CommandType = "RUN_COMMAND"
	CommandSubscribe     CommandType = "SUBSCRIBE"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client. A
// subscription streams one Response per event.
type Response struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning  bool   `json:"daemon_running"`
	Paused         bool   `json:"paused"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
	MonitorCount   int    `json:"monitor_count"`
	WorkspaceCount int    `json:"workspace_count"`
	WindowCount    int    `json:"window_count"`
	FocusedID      string `json:"focused_id,omitempty"`
}

// RunCommandPayload is the payload of RUN_COMMAND. Several commands may be
// separated by ";" and run in order.
type RunCommandPayload struct {
	Command string `json:"command"`
}

// SubscribePayload is the payload of SUBSCRIBE. No events, or "all",
// subscribes to everything.
type SubscribePayload struct {
	Events []string `json:"events,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
