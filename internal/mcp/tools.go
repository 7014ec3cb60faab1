package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilewm/internal/container"
)

// walkTree visits every container below root with the names of its monitor
// and workspace, when it has them.
func walkTree(node container.DTO, monitor, workspace string, visit func(dto container.DTO, monitor, workspace string)) {
	switch node.Type {
	case "monitor":
		monitor = node.Name
	case "workspace":
		workspace = node.Name
	}
	visit(node, monitor, workspace)
	for _, child := range node.Children {
		walkTree(child, monitor, workspace, visit)
	}
}

func containsFocus(node container.DTO) bool {
	if node.HasFocus {
		return true
	}
	for _, child := range node.Children {
		if containsFocus(child) {
			return true
		}
	}
	return false
}

func countWindows(node container.DTO) int {
	n := 0
	if node.Type == "window" {
		n++
	}
	for _, child := range node.Children {
		n += countWindows(child)
	}
	return n
}

func windowsFromTree(tree container.DTO, workspace string) []WindowInfo {
	out := []WindowInfo{}
	walkTree(tree, "", "", func(dto container.DTO, _, ws string) {
		if dto.Type != "window" || (workspace != "" && ws != workspace) {
			return
		}
		info := WindowInfo{
			ID:        dto.ID,
			Handle:    dto.Handle,
			Title:     dto.Title,
			ClassName: dto.ClassName,
			State:     dto.State,
			Workspace: ws,
			HasFocus:  dto.HasFocus,
		}
		if dto.Rect != nil {
			info.X, info.Y = dto.Rect.X, dto.Rect.Y
			info.Width, info.Height = dto.Rect.Width, dto.Rect.Height
		}
		out = append(out, info)
	})
	return out
}

func workspacesFromTree(tree container.DTO) []WorkspaceInfo {
	out := []WorkspaceInfo{}
	walkTree(tree, "", "", func(dto container.DTO, monitor, _ string) {
		if dto.Type != "workspace" {
			return
		}
		out = append(out, WorkspaceInfo{
			Name:        dto.Name,
			Monitor:     monitor,
			IsDisplayed: dto.IsDisplayed != nil && *dto.IsDisplayed,
			HasFocus:    containsFocus(dto),
			WindowCount: countWindows(dto),
		})
	})
	return out
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	tree, err := s.daemon.GetTree()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	return nil, ListWindowsOutput{Windows: windowsFromTree(tree, strings.TrimSpace(args.Workspace))}, nil
}

func (s *Server) handleListWorkspaces(_ context.Context, _ *mcpsdk.CallToolRequest, _ any) (*mcpsdk.CallToolResult, ListWorkspacesOutput, error) {
	tree, err := s.daemon.GetTree()
	if err != nil {
		return nil, ListWorkspacesOutput{}, err
	}
	return nil, ListWorkspacesOutput{Workspaces: workspacesFromTree(tree)}, nil
}

// handleGetTree returns the tree as text content; the tree type is
// recursive, so it has no output schema.
func (s *Server) handleGetTree(_ context.Context, _ *mcpsdk.CallToolRequest, _ any) (*mcpsdk.CallToolResult, any, error) {
	tree, err := s.daemon.GetTree()
	if err != nil {
		return nil, nil, err
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode tree: %w", err)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil, nil
}

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	command := strings.TrimSpace(args.Command)
	if command == "" {
		return nil, RunCommandOutput{}, fmt.Errorf("command is required")
	}
	if err := s.daemon.RunCommand(command); err != nil {
		return nil, RunCommandOutput{}, err
	}
	return nil, RunCommandOutput{Command: command, OK: true}, nil
}
