package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping verifies the daemon socket answers.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call("Greenroom.Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Start requests the daemon to start processing.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Greenroom.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Greenroom.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Greenroom.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionList returns sessions optionally filtered by statuses.
func (c *Client) SessionList(statuses []string) (*SessionListResponse, error) {
	var resp SessionListResponse
	req := SessionListRequest{Statuses: statuses}
	if err := c.client.Call("Greenroom.SessionList", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionDescribe returns details and answers for a single session. The
// response is nil when the session does not exist.
func (c *Client) SessionDescribe(id int64) (*SessionDescribeResponse, error) {
	var resp SessionDescribeResponse
	req := SessionDescribeRequest{ID: id}
	if err := c.client.Call("Greenroom.SessionDescribe", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Found {
		return nil, nil
	}
	return &resp, nil
}

// SessionCreate enqueues a new interview session.
func (c *Client) SessionCreate(role, interviewType string, questions int) (*SessionCreateResponse, error) {
	var resp SessionCreateResponse
	req := SessionCreateRequest{Role: role, InterviewType: interviewType, Questions: questions}
	if err := c.client.Call("Greenroom.SessionCreate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionAnswer submits a typed answer for the session's current question.
func (c *Client) SessionAnswer(id int64, text string) (*SessionAnswerResponse, error) {
	var resp SessionAnswerResponse
	req := SessionAnswerRequest{ID: id, Text: text}
	if err := c.client.Call("Greenroom.SessionAnswer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionCancel stops the given sessions.
func (c *Client) SessionCancel(ids []int64) (*SessionCancelResponse, error) {
	var resp SessionCancelResponse
	req := SessionCancelRequest{IDs: ids}
	if err := c.client.Call("Greenroom.SessionCancel", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionRetry retries failed sessions.
func (c *Client) SessionRetry(ids []int64) (*SessionRetryResponse, error) {
	var resp SessionRetryResponse
	req := SessionRetryRequest{IDs: ids}
	if err := c.client.Call("Greenroom.SessionRetry", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionClear removes all sessions.
func (c *Client) SessionClear() (*SessionClearResponse, error) {
	var resp SessionClearResponse
	if err := c.client.Call("Greenroom.SessionClear", SessionClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearCompleted removes only completed sessions.
func (c *Client) ClearCompleted() (*SessionClearCompletedResponse, error) {
	var resp SessionClearCompletedResponse
	if err := c.client.Call("Greenroom.ClearCompleted", SessionClearCompletedRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearFailed removes failed sessions.
func (c *Client) ClearFailed() (*SessionClearFailedResponse, error) {
	var resp SessionClearFailedResponse
	if err := c.client.Call("Greenroom.ClearFailed", SessionClearFailedRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetStuck resets sessions stuck in processing states.
func (c *Client) ResetStuck() (*SessionResetResponse, error) {
	var resp SessionResetResponse
	if err := c.client.Call("Greenroom.ResetStuck", SessionResetRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SessionHealth returns session diagnostics.
func (c *Client) SessionHealth() (*SessionHealthResponse, error) {
	var resp SessionHealthResponse
	if err := c.client.Call("Greenroom.SessionHealth", SessionHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.client.Call("Greenroom.DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Preflight runs feature checks on the daemon side.
func (c *Client) Preflight() (*PreflightResponse, error) {
	var resp PreflightResponse
	if err := c.client.Call("Greenroom.Preflight", PreflightRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Greenroom.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail returns log lines from the daemon.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("Greenroom.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
