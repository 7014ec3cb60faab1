package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/geom"
)

type fakeDaemon struct {
	tree     container.DTO
	treeErr  error
	commands []string
	cmdErr   error
}

func (f *fakeDaemon) GetTree() (container.DTO, error) { return f.tree, f.treeErr }

func (f *fakeDaemon) RunCommand(command string) error {
	f.commands = append(f.commands, command)
	return f.cmdErr
}

func boolPtr(b bool) *bool { return &b }

func sampleTree() container.DTO {
	return container.DTO{Type: "root", Children: []container.DTO{{
		Type: "monitor",
		Name: "left",
		Children: []container.DTO{
			{
				Type:        "workspace",
				Name:        "1",
				IsDisplayed: boolPtr(true),
				Children: []container.DTO{
					{ID: "a", Type: "window", Handle: 10, Title: "editor", State: "tiling", Rect: &geom.Rect{Width: 500, Height: 500}, HasFocus: true},
					{Type: "split", Children: []container.DTO{
						{ID: "b", Type: "window", Handle: 11, Title: "shell", State: "tiling", Rect: &geom.Rect{X: 500, Width: 500, Height: 250}},
					}},
				},
			},
			{
				Type:        "workspace",
				Name:        "2",
				IsDisplayed: boolPtr(false),
				Children: []container.DTO{
					{ID: "c", Type: "window", Handle: 12, Title: "music", State: "floating"},
				},
			},
		},
	}}}
}

func connect(t *testing.T, daemon Daemon) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	srv := NewServer(daemon)

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	serverSession, err := srv.mcpServer.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callJSON(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any, out any) *mcpsdk.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if out != nil && !res.IsError {
		require.NotEmpty(t, res.Content)
		text, ok := res.Content[0].(*mcpsdk.TextContent)
		require.True(t, ok, "content is %T", res.Content[0])
		require.NoError(t, json.Unmarshal([]byte(text.Text), out))
	}
	return res
}

func TestToolsAreListed(t *testing.T) {
	session := connect(t, &fakeDaemon{})

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_windows", "list_workspaces", "get_tree", "run_command"}, names)
}

func TestListWindows(t *testing.T) {
	session := connect(t, &fakeDaemon{tree: sampleTree()})

	var out ListWindowsOutput
	callJSON(t, session, "list_windows", nil, &out)
	require.Len(t, out.Windows, 3)
	assert.Equal(t, WindowInfo{ID: "a", Handle: 10, Title: "editor", State: "tiling", Workspace: "1", Width: 500, Height: 500, HasFocus: true}, out.Windows[0])
	assert.Equal(t, "1", out.Windows[1].Workspace)
	assert.Equal(t, 500, out.Windows[1].X)
	assert.Equal(t, "2", out.Windows[2].Workspace)

	out = ListWindowsOutput{}
	callJSON(t, session, "list_windows", map[string]any{"workspace": "2"}, &out)
	require.Len(t, out.Windows, 1)
	assert.Equal(t, uint32(12), out.Windows[0].Handle)
}

func TestListWindowsEmptyTree(t *testing.T) {
	session := connect(t, &fakeDaemon{tree: container.DTO{Type: "root"}})

	var out ListWindowsOutput
	res := callJSON(t, session, "list_windows", nil, &out)
	assert.False(t, res.IsError)
	assert.Empty(t, out.Windows)
}

func TestListWorkspaces(t *testing.T) {
	session := connect(t, &fakeDaemon{tree: sampleTree()})

	var out ListWorkspacesOutput
	callJSON(t, session, "list_workspaces", nil, &out)
	assert.Equal(t, []WorkspaceInfo{
		{Name: "1", Monitor: "left", IsDisplayed: true, HasFocus: true, WindowCount: 2},
		{Name: "2", Monitor: "left", IsDisplayed: false, HasFocus: false, WindowCount: 1},
	}, out.Workspaces)
}

func TestGetTree(t *testing.T) {
	session := connect(t, &fakeDaemon{tree: sampleTree()})

	var out container.DTO
	callJSON(t, session, "get_tree", nil, &out)
	assert.Equal(t, "root", out.Type)
	require.Len(t, out.Children, 1)
	assert.Len(t, out.Children[0].Children, 2)
}

func TestRunCommand(t *testing.T) {
	daemon := &fakeDaemon{}
	session := connect(t, daemon)

	var out RunCommandOutput
	callJSON(t, session, "run_command", map[string]any{"command": " toggle-floating "}, &out)
	assert.Equal(t, RunCommandOutput{Command: "toggle-floating", OK: true}, out)
	assert.Equal(t, []string{"toggle-floating"}, daemon.commands)
}

func TestToolErrorsAreReportedInResult(t *testing.T) {
	daemon := &fakeDaemon{treeErr: errors.New("failed to connect to daemon"), cmdErr: errors.New("unknown command")}
	session := connect(t, daemon)

	res := callJSON(t, session, "list_windows", nil, nil)
	assert.True(t, res.IsError)

	res = callJSON(t, session, "run_command", map[string]any{"command": "fly"}, nil)
	assert.True(t, res.IsError)

	res = callJSON(t, session, "run_command", map[string]any{"command": "  "}, nil)
	assert.True(t, res.IsError)
	assert.Equal(t, []string{"fly"}, daemon.commands)
}
