package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// FileStore is the local flat-file fallback backend. All collections live in a
// single JSON file; every read loads the file fresh and every write rewrites
// it wholesale. A mutex serialises read-modify-write cycles, which makes the
// store safe for concurrent requests within one process only; multiple
// processes sharing the file can still lose updates.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileDatabase map[string][]map[string]interface{}

// NewFileStore ensures the backing file exists (seeding it with sample records
// when absent) and returns a handle.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = "./data/db.json"
	}
	s := &FileStore{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
		if err := s.save(seedDatabase()); err != nil {
			return nil, fmt.Errorf("seed local store: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat local store: %w", err)
	}

	return s, nil
}

// Collection returns a handle over one named collection.
func (s *FileStore) Collection(name string) Collection {
	return &fileCollection{store: s, name: name}
}

// Ping verifies the backing file is readable.
func (s *FileStore) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.load()
	return err
}

// Kind identifies the backend.
func (s *FileStore) Kind() string {
	return "file"
}

// Path exposes the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) load() (fileDatabase, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			db := seedDatabase()
			if err := s.save(db); err != nil {
				return nil, fmt.Errorf("seed local store: %w", err)
			}
			return db, nil
		}
		return nil, fmt.Errorf("read local store: %w", err)
	}

	db := fileDatabase{}
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("parse local store: %w", err)
	}
	return db, nil
}

func (s *FileStore) save(db fileDatabase) error {
	payload, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal local store: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write local store: %w", err)
	}
	return nil
}

type fileCollection struct {
	store *FileStore
	name  string
}

func (c *fileCollection) List(_ context.Context) ([]Document, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	db, err := c.store.load()
	if err != nil {
		return nil, err
	}

	items := db[c.name]
	docs := make([]Document, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, fmt.Errorf("marshal document in %s: %w", c.name, err)
		}
		docs = append(docs, Document{ID: documentID(item), Data: raw})
	}
	return docs, nil
}

func (c *fileCollection) Get(_ context.Context, id string) (*Document, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	db, err := c.store.load()
	if err != nil {
		return nil, err
	}

	for _, item := range db[c.name] {
		if documentID(item) == id {
			raw, err := json.Marshal(item)
			if err != nil {
				return nil, fmt.Errorf("marshal document %s/%s: %w", c.name, id, err)
			}
			return &Document{ID: id, Data: raw}, nil
		}
	}
	return nil, ErrNotFound
}

func (c *fileCollection) Put(_ context.Context, doc Document) (string, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	db, err := c.store.load()
	if err != nil {
		return "", err
	}

	item := map[string]interface{}{}
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &item); err != nil {
			return "", fmt.Errorf("parse document body for %s: %w", c.name, err)
		}
	}

	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	item["id"] = id

	items := db[c.name]
	replaced := false
	for i, existing := range items {
		if documentID(existing) == id {
			items[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		items = append(items, item)
	}
	db[c.name] = items

	if err := c.store.save(db); err != nil {
		return "", err
	}
	return id, nil
}

func (c *fileCollection) Patch(_ context.Context, id string, partial map[string]interface{}) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	db, err := c.store.load()
	if err != nil {
		return err
	}

	items := db[c.name]
	for i, existing := range items {
		if documentID(existing) != id {
			continue
		}
		for k, v := range partial {
			if k == "id" {
				continue
			}
			existing[k] = v
		}
		items[i] = existing
		db[c.name] = items
		return c.store.save(db)
	}
	return ErrNotFound
}

func (c *fileCollection) Delete(_ context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	db, err := c.store.load()
	if err != nil {
		return err
	}

	items := db[c.name]
	kept := items[:0]
	for _, existing := range items {
		if documentID(existing) != id {
			kept = append(kept, existing)
		}
	}
	db[c.name] = kept
	return c.store.save(db)
}

func documentID(item map[string]interface{}) string {
	if id, ok := item["id"].(string); ok {
		return id
	}
	return ""
}
