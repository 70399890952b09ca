package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/jobs"
)

type notificationRepository interface {
	ListForStudent(ctx context.Context, studentID string) ([]models.Notification, error)
	Save(ctx context.Context, n *models.Notification) error
}

// NotificationService persists notifications and fans them out through the
// background job queue so attendance submission does not block on the writes.
type NotificationService struct {
	repo   notificationRepository
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService. Call Start before
// dispatching.
func NewNotificationService(repo notificationRepository, logger *zap.Logger, cfg jobs.QueueConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{repo: repo, logger: logger}
	cfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.handle, cfg)
	return s
}

// Start launches the queue workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// QueueDepth reports how many notification jobs are waiting for a worker.
func (s *NotificationService) QueueDepth() int {
	return s.queue.Depth()
}

// ListForStudent returns a student's notifications, newest first.
func (s *NotificationService) ListForStudent(ctx context.Context, studentID string) ([]models.Notification, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing studentId parameter")
	}
	notifications, err := s.repo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, nil
}

// Dispatch enqueues each notification for asynchronous persistence.
func (s *NotificationService) Dispatch(notifications []models.Notification) {
	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		job := jobs.Job{
			ID:      n.ID,
			Type:    "notification.save",
			Payload: n,
		}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue notification",
				zap.String("id", n.ID),
				zap.Error(err))
		}
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	n, ok := job.Payload.(models.Notification)
	if !ok {
		return fmt.Errorf("unexpected payload type %T", job.Payload)
	}
	if err := s.repo.Save(ctx, &n); err != nil {
		return fmt.Errorf("save notification %s: %w", n.ID, err)
	}
	return nil
}
