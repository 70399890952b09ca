package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
)

// NotificationRepository provides typed access to the notifications
// collection.
type NotificationRepository struct {
	col store.Collection
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(s store.Store) *NotificationRepository {
	return &NotificationRepository{col: s.Collection(store.CollectionNotifications)}
}

// ListForStudent returns a student's notifications, newest first.
func (r *NotificationRepository) ListForStudent(ctx context.Context, studentID string) ([]models.Notification, error) {
	docs, err := r.col.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]models.Notification, 0)
	for _, doc := range docs {
		var n models.Notification
		if err := store.Decode(doc, &n); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", doc.ID, err)
		}
		if n.StudentID == studentID {
			notifications = append(notifications, n)
		}
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].Timestamp > notifications[j].Timestamp
	})
	return notifications, nil
}

// Save persists one notification, assigning a UUID when no id was supplied.
func (r *NotificationRepository) Save(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	doc, err := store.Encode(n.ID, n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	if _, err := r.col.Put(ctx, doc); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	return nil
}
