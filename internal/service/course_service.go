package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CreateCourseRequest registers a new course.
type CreateCourseRequest struct {
	Name          string            `json:"name" validate:"required"`
	CourseCode    string            `json:"courseCode" validate:"required"`
	FacultyID     string            `json:"facultyId" validate:"required"`
	Classes       []string          `json:"classes" validate:"required,min=1"`
	TotalLectures int               `json:"totalLectures"`
	Description   string            `json:"description"`
	Type          models.CourseType `json:"type" validate:"required"`
}

// CourseService implements course management use cases.
type CourseService struct {
	repo      courseRepository
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, users userRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CourseService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns a single course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch course")
	}
	return course, nil
}

// Create registers a new course, resolving the faculty display name from the
// referenced user record.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course type must be Theory or Practical")
	}

	faculty, err := s.users.FindByID(ctx, req.FacultyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown faculty")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve faculty")
	}

	course := models.Course{
		Name:          req.Name,
		CourseCode:    req.CourseCode,
		FacultyID:     faculty.ID,
		FacultyName:   faculty.Name,
		Classes:       req.Classes,
		TotalLectures: req.TotalLectures,
		Description:   req.Description,
		Type:          req.Type,
	}
	if err := s.repo.Create(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.logger.Info("course created",
		zap.String("id", course.ID),
		zap.String("courseCode", course.CourseCode))
	return &course, nil
}

// ListForFaculty returns the courses taught by a faculty member.
func (s *CourseService) ListForFaculty(ctx context.Context, facultyID string) ([]models.Course, error) {
	courses, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.FacultyID == facultyID {
			out = append(out, c)
		}
	}
	return out, nil
}

// Delete removes a course. Historical attendance reports that reference the
// course survive the delete.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("id", id))
	return nil
}
