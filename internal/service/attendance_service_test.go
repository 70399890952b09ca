package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type fakeAttendanceRepo struct {
	reports []models.AttendanceReport
}

func (f *fakeAttendanceRepo) List(context.Context) ([]models.AttendanceReport, error) {
	out := make([]models.AttendanceReport, len(f.reports))
	copy(out, f.reports)
	return out, nil
}

func (f *fakeAttendanceRepo) FindByID(_ context.Context, id string) (*models.AttendanceReport, error) {
	for i := range f.reports {
		if f.reports[i].ID == id {
			r := f.reports[i]
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeAttendanceRepo) Save(_ context.Context, report *models.AttendanceReport) error {
	f.reports = append(f.reports, *report)
	return nil
}

type fakeDispatcher struct {
	dispatched []models.Notification
}

func (f *fakeDispatcher) Dispatch(notifications []models.Notification) {
	f.dispatched = append(f.dispatched, notifications...)
}

type fakeInvalidator struct {
	userIDs []string
}

func (f *fakeInvalidator) Invalidate(_ context.Context, userID string) {
	f.userIDs = append(f.userIDs, userID)
}

func sampleReport() *models.AttendanceReport {
	return &models.AttendanceReport{
		ID:         "report-1",
		CourseID:   "course-1",
		CourseName: "Data Structures",
		CourseCode: "CS201",
		Class:      "CS-A",
		Date:       "2025-09-01",
		TimeSlot:   "09:00-10:00",
		Attendance: []models.AttendanceEntry{
			{StudentID: "s1", StudentName: "Asha", RollNumber: "01", IsPresent: true},
			{StudentID: "s2", StudentName: "Ravi", RollNumber: "02", IsPresent: false},
			{StudentID: "s3", StudentName: "Meena", RollNumber: "03", IsPresent: true},
		},
	}
}

func TestAttendanceServiceSubmit(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	dispatcher := &fakeDispatcher{}
	svc := NewAttendanceService(repo, dispatcher, nil, nil)

	report, err := svc.Submit(context.Background(), SubmitAttendanceRequest{
		Report: sampleReport(),
		Notifications: []models.Notification{
			{StudentID: "s2", Message: "You were marked absent in Data Structures"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "report-1", report.ID)
	assert.Len(t, repo.reports, 1)
	assert.Len(t, dispatcher.dispatched, 1)
}

func TestAttendanceServiceSubmitInvalidatesStudentStats(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	inv := &fakeInvalidator{}
	svc := NewAttendanceService(repo, &fakeDispatcher{}, nil, nil)
	svc.SetStatsInvalidator(inv)

	_, err := svc.Submit(context.Background(), SubmitAttendanceRequest{Report: sampleReport()})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, inv.userIDs)
}

func TestAttendanceServiceSubmitRequiresReportID(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeDispatcher{}, nil, nil)

	report := sampleReport()
	report.ID = ""
	_, err := svc.Submit(context.Background(), SubmitAttendanceRequest{Report: report})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestAttendanceServiceSubmitRequiresReport(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeDispatcher{}, nil, nil)

	_, err := svc.Submit(context.Background(), SubmitAttendanceRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestAttendanceServiceGetNotFound(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeDispatcher{}, nil, nil)

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestAttendanceServiceExportPDF(t *testing.T) {
	repo := &fakeAttendanceRepo{reports: []models.AttendanceReport{*sampleReport()}}
	svc := NewAttendanceService(repo, &fakeDispatcher{}, nil, nil)

	data, filename, err := svc.ExportPDF(context.Background(), "report-1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "attendance-CS201-2025-09-01.pdf", filename)
	// PDF header
	assert.Equal(t, "%PDF", string(data[:4]))
}
