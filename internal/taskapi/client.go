// Package taskapi is the HTTP client of the remote task service.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskboard/pkg/task"
)

const (
	// HeaderRequestID carries a fresh id on every request.
	HeaderRequestID = "X-Request-Id"
	// HeaderCorrelationID carries the id of the user action that caused the request.
	HeaderCorrelationID = "X-Correlation-Id"

	maxErrorBody = 64 << 10
)

// Client implements task.Service over HTTP+JSON.
type Client struct {
	base string
	http *http.Client
	log  *log.Logger
}

var _ task.Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.log = l.WithPrefix("taskapi") }
}

// New creates a Client for the collection at baseURL,
// e.g. http://localhost:8080/v1/tasks.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{},
		log:  log.Default().WithPrefix("taskapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, c.base, nil, &tasks); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Create posts a new task. d.ID is ignored.
func (c *Client) Create(ctx context.Context, d task.Draft) error {
	d.ID = ""
	if err := c.do(ctx, http.MethodPost, c.base, d, nil); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Update replaces the task identified by d.ID.
func (c *Client) Update(ctx context.Context, d task.Draft) error {
	if d.ID == "" {
		return errors.New("update task: missing id")
	}
	if err := c.do(ctx, http.MethodPut, c.base, d, nil); err != nil {
		return fmt.Errorf("update task %s: %w", d.ID, err)
	}
	return nil
}

// Delete removes the task with id.
func (c *Client) Delete(ctx context.Context, id task.ID) error {
	if id == "" {
		return errors.New("delete task: missing id")
	}
	if err := c.do(ctx, http.MethodDelete, c.base+"/"+url.PathEscape(string(id)), nil, nil); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	rid := uuid.Must(uuid.NewV7()).String()
	req.Header.Set(HeaderRequestID, rid)
	if cid := task.CorrelationID(ctx); cid != "" {
		req.Header.Set(HeaderCorrelationID, cid)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	begin := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "url", target, "request_id", rid, "err", err)
		return fmt.Errorf("%w: %v", task.ErrUnreachable, err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", "method", method, "url", target, "status", resp.StatusCode, "request_id", rid, "took", time.Since(begin))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeRejection(resp, rid)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeRejection reads {message, code} (or {error}) from a non-2xx response.
func decodeRejection(resp *http.Response, rid string) error {
	rej := &task.RejectedError{Status: resp.StatusCode, RequestID: rid}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
		Code    string `json:"code"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		rej.Code = body.Code
		rej.Message = body.Message
		if rej.Message == "" {
			rej.Message = body.Error
		}
	}
	if rej.Message == "" {
		rej.Message = strings.TrimSpace(string(raw))
	}
	return rej
}
