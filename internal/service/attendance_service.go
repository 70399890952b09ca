package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
	"github.com/attendease/attendease-api/pkg/export"
)

type attendanceRepository interface {
	List(ctx context.Context) ([]models.AttendanceReport, error)
	FindByID(ctx context.Context, id string) (*models.AttendanceReport, error)
	Save(ctx context.Context, report *models.AttendanceReport) error
}

type notificationDispatcher interface {
	Dispatch(notifications []models.Notification)
}

type statsInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// SubmitAttendanceRequest carries one report and the notifications the client
// generated for the absentees.
type SubmitAttendanceRequest struct {
	Report        *models.AttendanceReport `json:"report" validate:"required"`
	Notifications []models.Notification    `json:"notifications"`
}

// AttendanceService implements attendance report use cases.
type AttendanceService struct {
	repo          attendanceRepository
	notifications notificationDispatcher
	stats         statsInvalidator
	exporter      *export.PDFExporter
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, notifications notificationDispatcher, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{
		repo:          repo,
		notifications: notifications,
		exporter:      export.NewPDFExporter(),
		validator:     validate,
		logger:        logger,
	}
}

// SetStatsInvalidator wires dashboard cache invalidation for submitted
// reports. Optional; without it cached stats simply age out.
func (s *AttendanceService) SetStatsInvalidator(inv statsInvalidator) {
	s.stats = inv
}

// List returns every submitted report.
func (s *AttendanceService) List(ctx context.Context) ([]models.AttendanceReport, error) {
	reports, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance reports")
	}
	return reports, nil
}

// Get returns one report by id.
func (s *AttendanceService) Get(ctx context.Context, id string) (*models.AttendanceReport, error) {
	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report")
	}
	return report, nil
}

// Submit persists a report and fans out the accompanying notifications. The
// report must arrive with its own id; the attendance entries are a snapshot
// taken by the client at submission time.
func (s *AttendanceService) Submit(ctx context.Context, req SubmitAttendanceRequest) (*models.AttendanceReport, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report data")
	}
	if req.Report.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid report data")
	}

	if err := s.repo.Save(ctx, req.Report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance report")
	}

	if len(req.Notifications) > 0 && s.notifications != nil {
		s.notifications.Dispatch(req.Notifications)
	}

	if s.stats != nil {
		for _, entry := range req.Report.Attendance {
			s.stats.Invalidate(ctx, entry.StudentID)
		}
	}

	s.logger.Info("attendance report submitted",
		zap.String("id", req.Report.ID),
		zap.String("courseCode", req.Report.CourseCode),
		zap.Int("entries", len(req.Report.Attendance)),
		zap.Int("notifications", len(req.Notifications)))
	return req.Report, nil
}

// ExportPDF renders a report's roster snapshot as a tabular PDF.
func (s *AttendanceService) ExportPDF(ctx context.Context, id string) ([]byte, string, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Roll Number", "Name", "Status"}
	rows := make([]map[string]string, 0, len(report.Attendance))
	for _, entry := range report.Attendance {
		status := "Present"
		if !entry.IsPresent {
			status = "Absent"
		}
		rows = append(rows, map[string]string{
			"Roll Number": entry.RollNumber,
			"Name":        entry.StudentName,
			"Status":      status,
		})
	}

	title := fmt.Sprintf("%s %s - %s %s", report.CourseCode, report.Class, report.Date, report.TimeSlot)
	data, err := s.exporter.Render(export.Dataset{Headers: headers, Rows: rows}, title)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("attendance-%s-%s.pdf", report.CourseCode, report.Date)
	return data, filename, nil
}
