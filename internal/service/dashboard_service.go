package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

// studentRecord is one attendance entry joined back to its report context.
type studentRecord struct {
	courseID   string
	courseName string
	date       string
	isPresent  bool
}

// DashboardService computes role-specific dashboard aggregates, caching the
// results in Redis when available.
type DashboardService struct {
	users      userRepository
	courses    courseRepository
	attendance attendanceRepository
	cache      *CacheService
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(users userRepository, courses courseRepository, attendance attendanceRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		users:      users,
		courses:    courses,
		attendance: attendance,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Stats computes the dashboard aggregate for the given user and role. The
// second return value reports whether the result came from cache.
func (s *DashboardService) Stats(ctx context.Context, userID string, role models.Role) (interface{}, bool, error) {
	if userID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "missing userId parameter")
	}

	switch role {
	case models.RoleFaculty:
		var cached models.FacultyStats
		key := s.cacheKey(userID, role)
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, true, nil
		}
		stats, err := s.facultyStats(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if err := s.cache.Set(ctx, key, stats, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard stats", zap.String("key", key), zap.Error(err))
		}
		return stats, false, nil
	case models.RoleStudent:
		var cached models.StudentStats
		key := s.cacheKey(userID, role)
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, true, nil
		}
		stats, err := s.studentStats(ctx, userID)
		if err != nil {
			return nil, false, err
		}
		if err := s.cache.Set(ctx, key, stats, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache dashboard stats", zap.String("key", key), zap.Error(err))
		}
		return stats, false, nil
	default:
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "invalid role")
	}
}

// Invalidate drops the cached aggregates for a user.
func (s *DashboardService) Invalidate(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, s.cacheKey(userID, models.RoleFaculty))
	s.cache.Invalidate(ctx, s.cacheKey(userID, models.RoleStudent))
}

func (s *DashboardService) cacheKey(userID string, role models.Role) string {
	return fmt.Sprintf("dashboard:stats:%s:%s", role, userID)
}

func (s *DashboardService) facultyStats(ctx context.Context, userID string) (*models.FacultyStats, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch stats")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch stats")
	}
	reports, err := s.attendance.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch stats")
	}

	stats := &models.FacultyStats{Role: models.RoleFaculty, Department: "N/A"}
	classSet := make(map[string]bool)
	taught := make(map[string]bool)
	for _, c := range courses {
		if c.FacultyID != userID {
			continue
		}
		stats.TotalCourses++
		switch c.Type {
		case models.CourseTheory:
			stats.TheoryCourses++
		case models.CoursePractical:
			stats.PracticalCourses++
		}
		taught[c.ID] = true
		for _, class := range c.Classes {
			classSet[class] = true
		}
	}
	stats.TotalClasses = len(classSet)

	for _, u := range users {
		if u.ID == userID && u.Department != "" {
			stats.Department = u.Department
		}
		if u.Role == models.RoleStudent && classSet[u.Class] {
			stats.TotalStudents++
		}
	}

	for _, r := range reports {
		if taught[r.CourseID] {
			stats.AttendanceReports++
		}
	}
	return stats, nil
}

func (s *DashboardService) studentStats(ctx context.Context, userID string) (*models.StudentStats, error) {
	student, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch stats")
	}

	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch stats")
	}
	reports, err := s.attendance.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch stats")
	}

	var enrolled []models.Course
	for _, c := range courses {
		if c.TaughtTo(student.Class) {
			enrolled = append(enrolled, c)
		}
	}

	var records []studentRecord
	for _, r := range reports {
		for _, entry := range r.Attendance {
			if entry.StudentID == userID {
				records = append(records, studentRecord{
					courseID:   r.CourseID,
					courseName: r.CourseName,
					date:       r.Date,
					isPresent:  entry.IsPresent,
				})
			}
		}
	}

	present := 0
	for _, rec := range records {
		if rec.isPresent {
			present++
		}
	}
	overall := 0.0
	if len(records) > 0 {
		overall = roundOneDecimal(float64(present) / float64(len(records)) * 100)
	}

	courseWise := make([]models.CourseAttendance, 0, len(enrolled))
	for _, c := range enrolled {
		entry := models.CourseAttendance{
			CourseID:   c.ID,
			CourseName: c.Name,
			CourseCode: c.CourseCode,
		}
		for _, rec := range records {
			if rec.courseID != c.ID {
				continue
			}
			entry.TotalCount++
			if rec.isPresent {
				entry.PresentCount++
			}
		}
		if entry.TotalCount > 0 {
			entry.Attendance = float64(entry.PresentCount) / float64(entry.TotalCount) * 100
		}
		courseWise = append(courseWise, entry)
	}

	var absences []studentRecord
	for _, rec := range records {
		if !rec.isPresent {
			absences = append(absences, rec)
		}
	}
	sort.Slice(absences, func(i, j int) bool {
		return absences[i].date > absences[j].date
	})
	var lastAbsent *models.LastAbsence
	if len(absences) > 0 {
		lastAbsent = &models.LastAbsence{
			CourseName: absences[0].courseName,
			Date:       absences[0].date,
		}
	}

	return &models.StudentStats{
		Role:                   models.RoleStudent,
		OverallAttendance:      overall,
		CoursesEnrolled:        len(enrolled),
		TotalAttendanceRecords: len(records),
		PresentCount:           present,
		CourseWiseAttendance:   courseWise,
		LastAbsent:             lastAbsent,
	}, nil
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
