// Package client is a typed HTTP client for the video studio API. It covers
// the calls a front end makes: registering a user, submitting a video,
// polling it to a terminal status and reporting analytics events.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/api"
)

const defaultPollInterval = 2 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Token is an optional session token sent as a bearer credential.
	Token string
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client that sends the given session token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

func (c *Client) CreateUser(ctx context.Context, req api.CreateUserRequest) (*api.CreateUserResponse, error) {
	var out api.CreateUserResponse
	if err := c.do(ctx, http.MethodPost, "/api/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitVideo(ctx context.Context, req api.SubmitVideoRequest) (*api.SubmitVideoResponse, error) {
	var out api.SubmitVideoResponse
	if err := c.do(ctx, http.MethodPost, "/api/videos", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetVideo(ctx context.Context, id int64) (*api.VideoResponse, error) {
	var out api.VideoResponse
	if err := c.do(ctx, http.MethodGet, "/api/videos/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WaitForVideo polls a video until it reaches completed or failed, or ctx ends.
func (c *Client) WaitForVideo(ctx context.Context, id int64, interval time.Duration) (*api.VideoResponse, error) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		video, err := c.GetVideo(ctx, id)
		if err != nil {
			return nil, err
		}
		if api.IsTerminalStatus(video.Status) {
			return video, nil
		}

		select {
		case <-ctx.Done():
			return video, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) TrackEvent(ctx context.Context, req api.TrackEventRequest) (*api.TrackEventResponse, error) {
	var out api.TrackEventResponse
	if err := c.do(ctx, http.MethodPost, "/api/analytics", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AnalyticsSummary(ctx context.Context) ([]api.EventTypeCountResponse, error) {
	var out []api.EventTypeCountResponse
	if err := c.do(ctx, http.MethodGet, "/api/analytics/summary", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if json.Unmarshal(respBody, &errResp) != nil || errResp.Error == "" {
			errResp.Error = strings.TrimSpace(string(respBody))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
