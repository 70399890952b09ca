// Package store implements the resilient data access layer: a document-style
// Collection interface with two implementations (a PostgreSQL-backed remote
// store and a local flat-file JSON store), a fallback composite that retries
// remote failures against the local store, and the one-time process-start
// selector that binds the active backend.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names shared by both backends.
const (
	CollectionUsers             = "users"
	CollectionCourses           = "courses"
	CollectionAttendance        = "attendance"
	CollectionCourseStudents    = "courseStudents"
	CollectionAttendanceReports = "attendanceReports"
	CollectionNotifications     = "notifications"
	CollectionRooms             = "rooms"
	CollectionBookings          = "bookings"
)

// ErrNotFound is returned when a document id is absent from a collection.
var ErrNotFound = errors.New("store: document not found")

// Document is one record in a named collection. Data always carries the id
// embedded under the "id" key, mirroring the wire format of the entities.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Collection exposes document operations over one named collection.
type Collection interface {
	// List returns every document in the collection.
	List(ctx context.Context) ([]Document, error)
	// Get returns one document or ErrNotFound.
	Get(ctx context.Context, id string) (*Document, error)
	// Put inserts or replaces a document. When doc.ID is empty a new id is
	// assigned; the stored id is returned either way.
	Put(ctx context.Context, doc Document) (string, error)
	// Patch shallow-merges partial fields into an existing document.
	Patch(ctx context.Context, id string, partial map[string]interface{}) error
	// Delete removes the document. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error
}

// Store groups named collections behind one backend.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Kind() string
}

// Decode unmarshals a document body into a typed destination.
func Decode(doc Document, dest interface{}) error {
	return json.Unmarshal(doc.Data, dest)
}

// Encode builds a Document from a typed value carrying an id.
func Encode(id string, value interface{}) (Document, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Data: raw}, nil
}
