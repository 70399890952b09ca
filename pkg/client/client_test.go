package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/syncqueue"
)

func newTestQueues(t *testing.T) *syncqueue.Manager {
	t.Helper()
	m, err := syncqueue.NewManager(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestClientDeliversDirectlyWhenOnline(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/api/users", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	queues := newTestQueues(t)
	c := New(srv.URL, queues, zap.NewNop())

	queued, err := c.RegisterUser(context.Background(), map[string]string{"name": "Asha"})
	require.NoError(t, err)
	assert.False(t, queued)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	pending, err := queues.Pending(syncqueue.QueueUsers)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestClientQueuesOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening any more

	queues := newTestQueues(t)
	c := New(srv.URL, queues, zap.NewNop())

	queued, err := c.SubmitAttendance(context.Background(), map[string]string{"id": "report-1"})
	require.NoError(t, err)
	assert.True(t, queued)

	pending, err := queues.Pending(syncqueue.QueueAttendance)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestClientSurfacesServerRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"DUPLICATE_EMAIL"}}`, http.StatusConflict)
	}))
	defer srv.Close()

	queues := newTestQueues(t)
	c := New(srv.URL, queues, zap.NewNop())

	queued, err := c.RegisterUser(context.Background(), map[string]string{"email": "asha@example.com"})
	require.Error(t, err)
	assert.False(t, queued)
	assert.Contains(t, err.Error(), "409")

	// rejections are not retried, the server already saw the write
	pending, err := queues.Pending(syncqueue.QueueUsers)
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestClientSyncReplaysQueuedWrites(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	queues := newTestQueues(t)
	_, err := queues.Enqueue(syncqueue.QueueUsers, map[string]string{"name": "Asha"})
	require.NoError(t, err)
	_, err = queues.Enqueue(syncqueue.QueueAttendance, map[string]string{"id": "report-1"})
	require.NoError(t, err)

	c := New(srv.URL, queues, zap.NewNop())
	delivered, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{"/api/users", "/api/attendance"}, paths)

	for _, queue := range syncqueue.FlushOrder {
		pending, err := queues.Pending(queue)
		require.NoError(t, err)
		assert.Zero(t, pending, queue)
	}
}

func TestClientSyncKeepsRejectedItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	queues := newTestQueues(t)
	_, err := queues.Enqueue(syncqueue.QueueUsers, map[string]string{"name": "Asha"})
	require.NoError(t, err)

	c := New(srv.URL, queues, zap.NewNop())
	delivered, err := c.Sync(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)

	items, err := queues.Items(syncqueue.QueueUsers)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, syncqueue.StatusFailed, items[0].Status)
}

func TestClientOnline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/status" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, nil, zap.NewNop())
	assert.True(t, c.Online(context.Background()))

	srv.Close()
	assert.False(t, c.Online(context.Background()))
}
