package syncqueue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestEnqueueMarksPending(t *testing.T) {
	m := newTestManager(t)

	item, err := m.Enqueue(QueueUsers, map[string]string{"name": "Asha"})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, StatusPending, item.Status)

	items, err := m.Items(QueueUsers)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestProcessDeliveredItemsAreDropped(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Enqueue(QueueUsers, map[string]string{"name": "Asha"})
	require.NoError(t, err)
	_, err = m.Enqueue(QueueUsers, map[string]string{"name": "Ravi"})
	require.NoError(t, err)

	delivered, err := m.Process(context.Background(), QueueUsers, func(context.Context, string, json.RawMessage) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	pending, err := m.Pending(QueueUsers)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestProcessFailedItemsAreRetained(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Enqueue(QueueAttendance, map[string]string{"id": "report-1"})
	require.NoError(t, err)

	delivered, err := m.Process(context.Background(), QueueAttendance, func(context.Context, string, json.RawMessage) error {
		return errors.New("backend unreachable")
	})
	require.NoError(t, err)
	assert.Zero(t, delivered)

	items, err := m.Items(QueueAttendance)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusFailed, items[0].Status)
	assert.Equal(t, 1, items[0].Attempts)

	// a later flush retries the same item
	delivered, err = m.Process(context.Background(), QueueAttendance, func(context.Context, string, json.RawMessage) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	pending, err := m.Pending(QueueAttendance)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestProcessPreservesFIFOOrder(t *testing.T) {
	m := newTestManager(t)
	for _, name := range []string{"first", "second", "third"} {
		_, err := m.Enqueue(QueueStudents, map[string]string{"name": name})
		require.NoError(t, err)
	}

	var seen []string
	_, err := m.Process(context.Background(), QueueStudents, func(_ context.Context, _ string, payload json.RawMessage) error {
		var body map[string]string
		require.NoError(t, json.Unmarshal(payload, &body))
		seen = append(seen, body["name"])
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, seen)
}

func TestProcessAllUsesFixedOrder(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Enqueue(QueueStudents, map[string]string{"name": "s"})
	require.NoError(t, err)
	_, err = m.Enqueue(QueueAttendance, map[string]string{"id": "r"})
	require.NoError(t, err)
	_, err = m.Enqueue(QueueUsers, map[string]string{"name": "u"})
	require.NoError(t, err)

	var order []string
	total, err := m.ProcessAll(context.Background(), func(_ context.Context, queue string, _ json.RawMessage) error {
		order = append(order, queue)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{QueueUsers, QueueAttendance, QueueStudents}, order)
}

func TestFlushGuardRejectsConcurrentFlush(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Enqueue(QueueUsers, map[string]string{"name": "u"})
	require.NoError(t, err)

	inFlush := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := m.Process(context.Background(), QueueUsers, func(context.Context, string, json.RawMessage) error {
			close(inFlush)
			<-release
			return nil
		})
		assert.NoError(t, err)
	}()

	<-inFlush
	_, err = m.ProcessAll(context.Background(), func(context.Context, string, json.RawMessage) error {
		return nil
	})
	assert.ErrorIs(t, err, ErrFlushInProgress)

	close(release)
	wg.Wait()
}

func TestProcessKeepsWriteEnqueuedMidFlush(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Enqueue(QueueUsers, map[string]string{"name": "Asha"})
	require.NoError(t, err)

	// The sender queues another write while the flush is sending, the way the
	// client does when a request arrives during an automatic sync.
	var enqueued *Item
	delivered, err := m.Process(context.Background(), QueueUsers, func(context.Context, string, json.RawMessage) error {
		enqueued, err = m.Enqueue(QueueUsers, map[string]string{"name": "Ravi"})
		require.NoError(t, err)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	items, err := m.Items(QueueUsers)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, enqueued.ID, items[0].ID)
	assert.Equal(t, StatusPending, items[0].Status)
}

func TestQueueSurvivesManagerRestart(t *testing.T) {
	dir := t.TempDir()
	first, err := NewManager(dir, zap.NewNop())
	require.NoError(t, err)
	_, err = first.Enqueue(QueueUsers, map[string]string{"name": "Asha"})
	require.NoError(t, err)

	second, err := NewManager(dir, zap.NewNop())
	require.NoError(t, err)
	pending, err := second.Pending(QueueUsers)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}
