// Package api talks to the remote todo REST service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tasklist/internal/endpoint"
	"tasklist/internal/todo"
)

const (
	todosPath = endpoint.CollectionPath

	requestIDHeader = "X-Request-ID"
)

type Client struct {
	base   *url.URL
	http   *http.Client
	logger *logrus.Logger
}

// New creates a client for the API rooted at baseURL. A zero timeout means
// requests wait for the server indefinitely.
func New(baseURL string, timeout time.Duration, logger *logrus.Logger) (*Client, error) {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout}, logger)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *logrus.Logger) (*Client, error) {
	base, err := endpoint.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{base: base, http: httpClient, logger: logger}, nil
}

func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) List(ctx context.Context) ([]todo.Todo, error) {
	var todos []todo.Todo
	if _, err := c.do(ctx, OpFetch, http.MethodGet, todosPath, nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []todo.Todo{}
	}
	return todos, nil
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Create sends the normalized draft. The server assigns the id.
func (c *Client) Create(ctx context.Context, d todo.Draft) (todo.Todo, error) {
	d = d.Normalize()
	body := createRequest{Title: d.Title, Description: d.Description, Completed: false}

	var created todo.Todo
	if _, err := c.do(ctx, OpCreate, http.MethodPost, todosPath, body, &created); err != nil {
		return todo.Todo{}, err
	}
	return created, nil
}

func (c *Client) Delete(ctx context.Context, id int) (int, error) {
	if _, err := c.do(ctx, OpDelete, http.MethodDelete, itemPath(id), nil, nil); err != nil {
		return 0, err
	}
	return id, nil
}

type updateRequest struct {
	Completed bool `json:"completed"`
}

// ToggleComplete flips the completed flag of t on the server. When the
// server answers without a body, t with the flag flipped is returned.
func (c *Client) ToggleComplete(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	next := !t.Completed

	var updated todo.Todo
	decoded, err := c.do(ctx, OpUpdate, http.MethodPatch, itemPath(t.ID), updateRequest{Completed: next}, &updated)
	if err != nil {
		return todo.Todo{}, err
	}
	if !decoded {
		updated = t
		updated.Completed = next
	}
	return updated, nil
}

func itemPath(id int) string {
	return todosPath + "/" + strconv.Itoa(id)
}

// do runs a single request. It reports whether a response body was decoded
// into out.
func (c *Client) do(ctx context.Context, op Op, method, path string, in, out any) (bool, error) {
	requestID := uuid.NewString()
	logEntry := c.logger.WithFields(logrus.Fields{
		"component":  "api",
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return false, wrapError(op, fmt.Errorf("encode request: %w", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return false, wrapError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logEntry.WithError(err).Warn("request failed")
		return false, wrapError(op, err)
	}
	defer resp.Body.Close()

	logEntry = logEntry.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		logEntry.Warn("request rejected")
		return false, statusError(op, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		logEntry.WithError(err).Warn("read response failed")
		return false, wrapError(op, fmt.Errorf("read response: %w", err))
	}
	logEntry.Debug("request completed")

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, wrapError(op, fmt.Errorf("decode response: %w", err))
	}
	return true, nil
}
