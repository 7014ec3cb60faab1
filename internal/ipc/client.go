package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/tilewm/internal/container"
	"github.com/1broseidon/tilewm/internal/runtimepath"
	"github.com/1broseidon/tilewm/internal/wm"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket path.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

func (c *Client) dial() (net.Conn, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	return conn, nil
}

func writeRequest(conn net.Conn, req *Request) error {
	reqData, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

func readResponse(reader *bufio.Reader) (*Response, error) {
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	return &resp, nil
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := writeRequest(conn, req); err != nil {
		return nil, err
	}
	return readResponse(bufio.NewReader(conn))
}

func request[T any](c *Client, cmd CommandType) (T, error) {
	var out T
	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return out, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	status, err := request[StatusData](c, CommandGetStatus)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetTree retrieves the whole container tree.
func (c *Client) GetTree() (container.DTO, error) {
	return request[container.DTO](c, CommandGetTree)
}

func (c *Client) GetMonitors() ([]container.DTO, error) {
	return request[[]container.DTO](c, CommandGetMonitors)
}

func (c *Client) GetWorkspaces() ([]container.DTO, error) {
	return request[[]container.DTO](c, CommandGetWorkspaces)
}

func (c *Client) GetWindows() ([]container.DTO, error) {
	return request[[]container.DTO](c, CommandGetWindows)
}

// RunCommand runs one or more ";" separated commands in the daemon.
func (c *Client) RunCommand(command string) error {
	payload, err := json.Marshal(RunCommandPayload{Command: command})
	if err != nil {
		return fmt.Errorf("failed to marshal command payload: %w", err)
	}
	_, err = c.sendRequest(&Request{Command: CommandRunCommand, Payload: payload})
	return err
}

// Subscribe streams events to fn until ctx is cancelled, fn returns an
// error or the daemon closes the connection.
func (c *Client) Subscribe(ctx context.Context, events []string, fn func(wm.Event) error) error {
	payload, err := json.Marshal(SubscribePayload{Events: events})
	if err != nil {
		return fmt.Errorf("failed to marshal subscribe payload: %w", err)
	}

	conn, err := c.dial()
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	conn.SetWriteDeadline(time.Now().Add(c.timeout))
	if err := writeRequest(conn, &Request{Command: CommandSubscribe, Payload: payload}); err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Time{})

	reader := bufio.NewReader(conn)
	for {
		resp, err := readResponse(reader)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var ev wm.Event
		if err := json.Unmarshal(resp.Data, &ev); err != nil {
			return fmt.Errorf("failed to parse event: %w", err)
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
