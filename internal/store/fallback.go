package store

import (
	"context"

	"go.uber.org/zap"
)

// FallbackStore tries every operation against the primary (remote) backend
// and, on any error, logs a warning and retries the same logical operation
// against the local flat-file store. This centralises the try/fallback shape
// that would otherwise be duplicated in every route handler. ErrNotFound from
// the primary is a definitive answer, not a backend failure, so it does not
// trigger a fallback.
type FallbackStore struct {
	primary   Store
	secondary Store
	logger    *zap.Logger
	onFall    func()
}

// NewFallbackStore composes primary and secondary backends.
func NewFallbackStore(primary, secondary Store, logger *zap.Logger) *FallbackStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackStore{primary: primary, secondary: secondary, logger: logger}
}

// OnFallback registers a hook invoked every time an operation falls back to
// the local store. Set it before serving traffic.
func (s *FallbackStore) OnFallback(fn func()) {
	s.onFall = fn
}

// Collection returns a fallback-wrapped handle for the named collection.
func (s *FallbackStore) Collection(name string) Collection {
	return &fallbackCollection{
		name:      name,
		primary:   s.primary.Collection(name),
		secondary: s.secondary.Collection(name),
		logger:    s.logger,
		store:     s,
	}
}

// Ping reports healthy when either backend answers.
func (s *FallbackStore) Ping(ctx context.Context) error {
	if err := s.primary.Ping(ctx); err != nil {
		s.logger.Warn("primary store ping failed", zap.Error(err))
		return s.secondary.Ping(ctx)
	}
	return nil
}

// Kind identifies the backend combination.
func (s *FallbackStore) Kind() string {
	return s.primary.Kind() + "+fallback"
}

// Primary exposes the remote backend for health reporting.
func (s *FallbackStore) Primary() Store {
	return s.primary
}

type fallbackCollection struct {
	name      string
	primary   Collection
	secondary Collection
	logger    *zap.Logger
	store     *FallbackStore
}

func (c *fallbackCollection) warn(op string, err error) {
	c.logger.Warn("remote store operation failed, falling back to local store",
		zap.String("collection", c.name),
		zap.String("op", op),
		zap.Error(err),
	)
	if c.store != nil && c.store.onFall != nil {
		c.store.onFall()
	}
}

func (c *fallbackCollection) List(ctx context.Context) ([]Document, error) {
	docs, err := c.primary.List(ctx)
	if err != nil {
		c.warn("list", err)
		return c.secondary.List(ctx)
	}
	return docs, nil
}

func (c *fallbackCollection) Get(ctx context.Context, id string) (*Document, error) {
	doc, err := c.primary.Get(ctx, id)
	if err != nil && err != ErrNotFound {
		c.warn("get", err)
		return c.secondary.Get(ctx, id)
	}
	return doc, err
}

func (c *fallbackCollection) Put(ctx context.Context, doc Document) (string, error) {
	id, err := c.primary.Put(ctx, doc)
	if err != nil {
		c.warn("put", err)
		return c.secondary.Put(ctx, doc)
	}
	return id, nil
}

func (c *fallbackCollection) Patch(ctx context.Context, id string, partial map[string]interface{}) error {
	err := c.primary.Patch(ctx, id, partial)
	if err != nil && err != ErrNotFound {
		c.warn("patch", err)
		return c.secondary.Patch(ctx, id, partial)
	}
	return err
}

func (c *fallbackCollection) Delete(ctx context.Context, id string) error {
	if err := c.primary.Delete(ctx, id); err != nil {
		c.warn("delete", err)
		return c.secondary.Delete(ctx, id)
	}
	return nil
}
