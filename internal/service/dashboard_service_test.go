package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type fakeCourseRepo struct {
	courses []models.Course
}

func (f *fakeCourseRepo) List(context.Context) ([]models.Course, error) {
	out := make([]models.Course, len(f.courses))
	copy(out, f.courses)
	return out, nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == id {
			c := f.courses[i]
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	f.courses = append(f.courses, *course)
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error {
	for i := range f.courses {
		if f.courses[i].ID == id {
			f.courses = append(f.courses[:i], f.courses[i+1:]...)
			return nil
		}
	}
	return nil
}

func dashboardFixtures() (*fakeUserRepo, *fakeCourseRepo, *fakeAttendanceRepo) {
	users := &fakeUserRepo{users: []models.User{
		{ID: "f1", Name: "Dr. Rao", Role: models.RoleFaculty, Department: "Computer Science"},
		{ID: "s1", Name: "Asha", Role: models.RoleStudent, Class: "CS-A"},
		{ID: "s2", Name: "Ravi", Role: models.RoleStudent, Class: "CS-A"},
		{ID: "s3", Name: "Meena", Role: models.RoleStudent, Class: "EE-A"},
	}}
	courses := &fakeCourseRepo{courses: []models.Course{
		{ID: "c1", Name: "Data Structures", CourseCode: "CS201", FacultyID: "f1", Classes: []string{"CS-A"}, Type: models.CourseTheory},
		{ID: "c2", Name: "OS Lab", CourseCode: "CS202L", FacultyID: "f1", Classes: []string{"CS-A"}, Type: models.CoursePractical},
		{ID: "c3", Name: "Circuits", CourseCode: "EE101", FacultyID: "f2", Classes: []string{"EE-A"}, Type: models.CourseTheory},
	}}
	attendance := &fakeAttendanceRepo{reports: []models.AttendanceReport{
		{
			ID: "r1", CourseID: "c1", CourseName: "Data Structures", Date: "2025-09-01",
			Attendance: []models.AttendanceEntry{
				{StudentID: "s1", IsPresent: true},
				{StudentID: "s2", IsPresent: false},
			},
		},
		{
			ID: "r2", CourseID: "c1", CourseName: "Data Structures", Date: "2025-09-03",
			Attendance: []models.AttendanceEntry{
				{StudentID: "s1", IsPresent: false},
				{StudentID: "s2", IsPresent: true},
			},
		},
		{
			ID: "r3", CourseID: "c2", CourseName: "OS Lab", Date: "2025-09-02",
			Attendance: []models.AttendanceEntry{
				{StudentID: "s1", IsPresent: true},
			},
		},
	}}
	return users, courses, attendance
}

func newDashboardService(t *testing.T) *DashboardService {
	t.Helper()
	users, courses, attendance := dashboardFixtures()
	return NewDashboardService(users, courses, attendance, nil, 0, nil)
}

func TestDashboardServiceFacultyStats(t *testing.T) {
	svc := newDashboardService(t)

	result, cached, err := svc.Stats(context.Background(), "f1", models.RoleFaculty)
	require.NoError(t, err)
	assert.False(t, cached)

	stats := result.(*models.FacultyStats)
	assert.Equal(t, 2, stats.TotalCourses)
	assert.Equal(t, 1, stats.TheoryCourses)
	assert.Equal(t, 1, stats.PracticalCourses)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 1, stats.TotalClasses)
	assert.Equal(t, 3, stats.AttendanceReports)
	assert.Equal(t, "Computer Science", stats.Department)
}

func TestDashboardServiceStudentStats(t *testing.T) {
	svc := newDashboardService(t)

	result, _, err := svc.Stats(context.Background(), "s1", models.RoleStudent)
	require.NoError(t, err)

	stats := result.(*models.StudentStats)
	assert.Equal(t, 2, stats.CoursesEnrolled)
	assert.Equal(t, 3, stats.TotalAttendanceRecords)
	assert.Equal(t, 2, stats.PresentCount)
	assert.InDelta(t, 66.7, stats.OverallAttendance, 0.01)

	require.Len(t, stats.CourseWiseAttendance, 2)
	ds := stats.CourseWiseAttendance[0]
	assert.Equal(t, "c1", ds.CourseID)
	assert.Equal(t, 1, ds.PresentCount)
	assert.Equal(t, 2, ds.TotalCount)
	assert.InDelta(t, 50.0, ds.Attendance, 0.01)

	require.NotNil(t, stats.LastAbsent)
	assert.Equal(t, "Data Structures", stats.LastAbsent.CourseName)
	assert.Equal(t, "2025-09-03", stats.LastAbsent.Date)
}

func TestDashboardServiceStudentWithoutRecords(t *testing.T) {
	svc := newDashboardService(t)

	result, _, err := svc.Stats(context.Background(), "s3", models.RoleStudent)
	require.NoError(t, err)

	stats := result.(*models.StudentStats)
	assert.Zero(t, stats.OverallAttendance)
	assert.Zero(t, stats.TotalAttendanceRecords)
	assert.Nil(t, stats.LastAbsent)
	assert.Equal(t, 1, stats.CoursesEnrolled)
}

func TestDashboardServiceUnknownStudent(t *testing.T) {
	svc := newDashboardService(t)

	_, _, err := svc.Stats(context.Background(), "ghost", models.RoleStudent)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestDashboardServiceInvalidRole(t *testing.T) {
	svc := newDashboardService(t)

	_, _, err := svc.Stats(context.Background(), "f1", models.Role("janitor"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestDashboardServiceRequiresUserID(t *testing.T) {
	svc := newDashboardService(t)

	_, _, err := svc.Stats(context.Background(), "", models.RoleFaculty)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}
