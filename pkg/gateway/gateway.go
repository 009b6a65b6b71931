// Package gateway implements the HTTP client for the CherryBot robot
// controller API. All device commands carry the operator token obtained
// through Authenticate; the session lifecycle itself lives in pkg/session.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/interactions-lab/robopong/pkg/pose"
)

const maxResponseBytes = 1 << 20

// Operator identifies who holds the session. The controller requires a
// name and email on login.
type Operator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Device is the controller surface the engine and session manager consume.
// *Client implements it; tests substitute fakes.
type Device interface {
	Authenticate(ctx context.Context, op Operator) (string, error)
	OperatorToken(ctx context.Context) (string, error)
	Release(ctx context.Context, token string) error
	Pose(ctx context.Context, token string) (pose.Pose, error)
	MoveTo(ctx context.Context, token string, target pose.Pose, speed int) error
	SetGripper(ctx context.Context, token string, strength int) error
}

// Client talks to the controller over HTTP.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ Device = (*Client)(nil)

// NewClient creates a client for the controller at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:        baseURL,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: 10 * time.Second,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.RequestTimeout)
}

// operatorResponse is the controller's GET /operator payload.
type operatorResponse struct {
	Token string `json:"token"`
}

// poseResponse is the controller's GET /tcp payload.
type poseResponse struct {
	Coordinate pose.Position `json:"coordinate"`
	Rotation   pose.Rotation `json:"rotation"`
}

// moveRequest is the PUT /tcp/target payload.
type moveRequest struct {
	Target struct {
		Coordinate pose.Position `json:"coordinate"`
		Rotation   pose.Rotation `json:"rotation"`
	} `json:"target"`
	Speed int `json:"speed"`
}

// Authenticate registers the operator and fetches the new session token.
// The controller's login is two calls: POST /operator registers, then
// GET /operator returns the active token.
func (c *Client) Authenticate(ctx context.Context, op Operator) (string, error) {
	body, err := json.Marshal(op)
	if err != nil {
		return "", fmt.Errorf("encode operator: %w", err)
	}
	if err := c.do(ctx, "authenticate", http.MethodPost, "/operator", body, nil); err != nil {
		return "", err
	}

	token, err := c.OperatorToken(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", &AuthError{Reason: "controller returned no token"}
	}
	return token, nil
}

// OperatorToken returns the currently active session token, or "" if the
// controller has no operator.
func (c *Client) OperatorToken(ctx context.Context) (string, error) {
	var resp operatorResponse
	if err := c.do(ctx, "operator token", http.MethodGet, "/operator", nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Release ends the session identified by token.
func (c *Client) Release(ctx context.Context, token string) error {
	return c.do(ctx, "release session", http.MethodDelete, "/operator/"+token, nil, nil)
}

// Pose returns the current tool center point pose.
func (c *Client) Pose(ctx context.Context, token string) (pose.Pose, error) {
	var resp poseResponse
	if err := c.doAuth(ctx, "get pose", http.MethodGet, "/tcp", token, nil, &resp); err != nil {
		return pose.Pose{}, err
	}
	return pose.Pose{Position: resp.Coordinate, Rotation: resp.Rotation}, nil
}

// MoveTo commands the arm to the target pose at the given speed. The call
// is fire-and-confirm: a 2xx response means the command was accepted, not
// that the motion finished.
func (c *Client) MoveTo(ctx context.Context, token string, target pose.Pose, speed int) error {
	var req moveRequest
	req.Target.Coordinate = target.Position
	req.Target.Rotation = target.Rotation
	req.Speed = speed

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode move target: %w", err)
	}
	return c.doAuth(ctx, "move", http.MethodPut, "/tcp/target", token, body, nil)
}

// SetGripper sets the gripper strength (0..400). The controller takes the
// bare integer as the request body.
func (c *Client) SetGripper(ctx context.Context, token string, strength int) error {
	body := []byte(strconv.Itoa(strength))
	return c.doAuth(ctx, "set gripper", http.MethodPut, "/gripper", token, body, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, out any) error {
	return c.doAuth(ctx, op, method, path, "", body, out)
}

func (c *Client) doAuth(ctx context.Context, op, method, path, token string, body []byte, out any) error {
	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.BaseURL+path, reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "*/*")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authentication", token)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &TransportError{Op: op, Status: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
