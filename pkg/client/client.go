// Package client is the Go API client with offline support: writes that fail
// at the transport level are parked in the offline write queue and replayed
// when the backend is reachable again.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/syncqueue"
)

// queueEndpoints maps each offline queue to the API path it replays against.
var queueEndpoints = map[string]string{
	syncqueue.QueueUsers:      "/api/users",
	syncqueue.QueueAttendance: "/api/attendance",
	syncqueue.QueueStudents:   "/api/students",
}

// Client talks to the AttendEase API.
type Client struct {
	baseURL string
	http    *http.Client
	queues  *syncqueue.Manager
	logger  *zap.Logger
}

// New constructs a client. queues may be nil to disable offline buffering.
func New(baseURL string, queues *syncqueue.Manager, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		queues:  queues,
		logger:  logger,
	}
}

// RegisterUser creates a user, queueing the payload when the backend is
// unreachable. The returned flag reports whether the write was queued.
func (c *Client) RegisterUser(ctx context.Context, payload interface{}) (bool, error) {
	return c.postOrQueue(ctx, syncqueue.QueueUsers, payload)
}

// SubmitAttendance submits an attendance report, queueing it when the backend
// is unreachable.
func (c *Client) SubmitAttendance(ctx context.Context, payload interface{}) (bool, error) {
	return c.postOrQueue(ctx, syncqueue.QueueAttendance, payload)
}

// ImportStudents imports a class roster, queueing it when the backend is
// unreachable.
func (c *Client) ImportStudents(ctx context.Context, payload interface{}) (bool, error) {
	return c.postOrQueue(ctx, syncqueue.QueueStudents, payload)
}

// postOrQueue delivers the payload, falling back to the offline queue on
// transport failure. HTTP error statuses are surfaced, not queued: the server
// received the request and rejected it.
func (c *Client) postOrQueue(ctx context.Context, queue string, payload interface{}) (bool, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshal payload: %w", err)
	}

	err = c.post(ctx, queueEndpoints[queue], raw)
	if err == nil {
		return false, nil
	}
	if _, ok := err.(*statusError); ok {
		return false, err
	}

	if c.queues == nil {
		return false, err
	}
	if _, qerr := c.queues.Enqueue(queue, json.RawMessage(raw)); qerr != nil {
		return false, fmt.Errorf("queue write after send failure: %w (send: %v)", qerr, err)
	}
	c.logger.Warn("backend unreachable, write queued",
		zap.String("queue", queue),
		zap.Error(err))
	return true, nil
}

// Sync replays every queued write in the fixed queue order.
func (c *Client) Sync(ctx context.Context) (int, error) {
	if c.queues == nil {
		return 0, nil
	}
	return c.queues.ProcessAll(ctx, func(ctx context.Context, queue string, payload json.RawMessage) error {
		return c.post(ctx, queueEndpoints[queue], payload)
	})
}

// Online reports whether the backend status endpoint responds.
func (c *Client) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	return resp.StatusCode == http.StatusOK
}

// AutoSync polls the backend and replays queued writes whenever it is
// reachable. Blocks until the context is cancelled.
func (c *Client) AutoSync(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !c.Online(ctx) {
				continue
			}
			n, err := c.Sync(ctx)
			if err != nil && err != syncqueue.ErrFlushInProgress {
				c.logger.Warn("auto sync failed", zap.Error(err))
				continue
			}
			if n > 0 {
				c.logger.Info("auto sync delivered queued writes", zap.Int("delivered", n))
			}
		}
	}
}

// statusError is an HTTP-level rejection from the server.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

func (c *Client) post(ctx context.Context, path string, payload json.RawMessage) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{Status: resp.StatusCode, Body: string(body)}
	}
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	return nil
}
