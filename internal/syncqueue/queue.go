// Package syncqueue implements the client-side offline write queue: named
// FIFO queues persisted as one JSON file each, flushed against the API when
// connectivity returns.
package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Queue names, flushed in this order.
const (
	QueueUsers      = "pendingUsers"
	QueueAttendance = "pendingAttendance"
	QueueStudents   = "pendingStudents"
)

// FlushOrder is the fixed order ProcessAll drains the queues in.
var FlushOrder = []string{QueueUsers, QueueAttendance, QueueStudents}

// Status tracks an item's lifecycle.
type Status string

const (
	StatusPending Status = "pending"
	StatusSynced  Status = "synced"
	StatusFailed  Status = "failed"
)

// ErrFlushInProgress is returned when a flush is requested while another one
// holds the in-flight guard.
var ErrFlushInProgress = errors.New("syncqueue: flush already in progress")

// Item is one queued write awaiting delivery.
type Item struct {
	ID         string          `json:"id"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	Status     Status          `json:"status"`
	Attempts   int             `json:"attempts"`
}

// Sender delivers one queued payload. A nil return drops the item; any error
// keeps it for the next flush.
type Sender func(ctx context.Context, queue string, payload json.RawMessage) error

// Manager owns the queue files under one state directory. File access is
// serialised per manager; flushes additionally hold an in-flight guard so a
// manual sync cannot overlap an automatic one.
type Manager struct {
	dir    string
	logger *zap.Logger

	mu      sync.Mutex
	flushMu sync.Mutex
}

// NewManager creates the state directory when missing.
func NewManager(dir string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create queue dir: %w", err)
	}
	return &Manager{dir: dir, logger: logger}, nil
}

// Enqueue appends a payload to the named queue with pending status.
func (m *Manager) Enqueue(queue string, payload interface{}) (*Item, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	item := Item{
		ID:         uuid.NewString(),
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
		Status:     StatusPending,
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items, err := m.load(queue)
	if err != nil {
		return nil, err
	}
	items = append(items, item)
	if err := m.save(queue, items); err != nil {
		return nil, err
	}

	m.logger.Info("write queued",
		zap.String("queue", queue),
		zap.String("id", item.ID))
	return &item, nil
}

// Items returns a copy of everything in the named queue.
func (m *Manager) Items(queue string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(queue)
}

// Pending returns how many undelivered items the named queue holds.
func (m *Manager) Pending(queue string) (int, error) {
	items, err := m.Items(queue)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Process flushes one queue in FIFO order. Delivered items are removed; failed
// items keep their position, marked failed, and are retried on the next flush.
// Returns the number delivered.
func (m *Manager) Process(ctx context.Context, queue string, send Sender) (int, error) {
	if !m.flushMu.TryLock() {
		return 0, ErrFlushInProgress
	}
	defer m.flushMu.Unlock()

	return m.process(ctx, queue, send)
}

// ProcessAll flushes every queue in the fixed order. It stops early when the
// context is cancelled but always reports how many items were delivered.
func (m *Manager) ProcessAll(ctx context.Context, send Sender) (int, error) {
	if !m.flushMu.TryLock() {
		return 0, ErrFlushInProgress
	}
	defer m.flushMu.Unlock()

	total := 0
	for _, queue := range FlushOrder {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := m.process(ctx, queue, send)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (m *Manager) process(ctx context.Context, queue string, send Sender) (int, error) {
	m.mu.Lock()
	items, err := m.load(queue)
	m.mu.Unlock()
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	delivered := 0
	remaining := make([]Item, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			remaining = append(remaining, item)
			continue
		}
		item.Attempts++
		if err := send(ctx, queue, item.Payload); err != nil {
			item.Status = StatusFailed
			remaining = append(remaining, item)
			m.logger.Warn("queued write failed",
				zap.String("queue", queue),
				zap.String("id", item.ID),
				zap.Int("attempts", item.Attempts),
				zap.Error(err))
			continue
		}
		delivered++
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// The file may have grown while the lock was released for the send loop.
	// Carry over anything enqueued mid-flush so it is not lost.
	processed := make(map[string]struct{}, len(items))
	for _, item := range items {
		processed[item.ID] = struct{}{}
	}
	current, err := m.load(queue)
	if err != nil {
		return delivered, err
	}
	for _, item := range current {
		if _, ok := processed[item.ID]; !ok {
			remaining = append(remaining, item)
		}
	}

	if err := m.save(queue, remaining); err != nil {
		return delivered, err
	}

	if delivered > 0 {
		m.logger.Info("queue flushed",
			zap.String("queue", queue),
			zap.Int("delivered", delivered),
			zap.Int("remaining", len(remaining)))
	}
	return delivered, nil
}

func (m *Manager) path(queue string) string {
	return filepath.Join(m.dir, queue+".json")
}

func (m *Manager) load(queue string) ([]Item, error) {
	raw, err := os.ReadFile(m.path(queue))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read queue %s: %w", queue, err)
	}
	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode queue %s: %w", queue, err)
	}
	return items, nil
}

func (m *Manager) save(queue string, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode queue %s: %w", queue, err)
	}
	if err := os.WriteFile(m.path(queue), raw, 0o644); err != nil {
		return fmt.Errorf("write queue %s: %w", queue, err)
	}
	return nil
}
