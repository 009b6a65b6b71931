// Package target picks the cup a shot should aim at, from an explicit
// request or from the vision detector's latest snapshot.
package target

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBytes = 1 << 20

// DefaultTimeout bounds the detection call. A slow detector must degrade
// to the fallback target, not stall the shot.
const DefaultTimeout = 2 * time.Second

// BBox is a detection's bounding box in frame pixels.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Detection is one detected cup. ClassID 0..5 maps to cup 1..6.
type Detection struct {
	ClassID    int     `json:"class_id"`
	Confidence float64 `json:"confidence"`
	BBox       BBox    `json:"bbox"`
	Center     Point   `json:"center"`
}

// Detector supplies the latest detection snapshot, ordered by descending
// confidence.
type Detector interface {
	Detections(ctx context.Context) ([]Detection, error)
}

// UnavailableError means the detector could not be reached at all
// (connection refused or timed out), as opposed to answering badly.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("detector unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Client fetches detections from the vision server's /detections endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

var _ Detector = (*Client)(nil)

// NewClient creates a detector client with the default timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
		Timeout:    DefaultTimeout,
	}
}

type detectionsResponse struct {
	Status     string      `json:"status"`
	Detections []Detection `json:"detections"`
}

// Detections returns the latest snapshot. The server pre-sorts by
// confidence, highest first.
func (c *Client) Detections(ctx context.Context) ([]Detection, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.BaseURL+"/detections", nil)
	if err != nil {
		return nil, fmt.Errorf("create detections request: %w", err)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		// Connection refused and context deadline both land here.
		return nil, &UnavailableError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector returned status %d", resp.StatusCode)
	}

	var payload detectionsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode detections: %w", err)
	}
	return payload.Detections, nil
}
