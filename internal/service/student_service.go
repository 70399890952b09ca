package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

const (
	importedDepartment = "Imported"
	importedAvatarURL  = "https://placehold.co/100x100.png"
)

// ImportStudent is one row of a bulk class import.
type ImportStudent struct {
	Name       string `json:"name" validate:"required"`
	RollNumber string `json:"rollNumber" validate:"required"`
}

// ImportStudentsRequest bulk-imports students into a class.
type ImportStudentsRequest struct {
	ClassName string          `json:"className" validate:"required"`
	Students  []ImportStudent `json:"students" validate:"required,min=1,dive"`
}

// ImportResult reports how many rows were added versus skipped as duplicates.
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// StudentService implements roster use cases over the user records.
type StudentService struct {
	users     userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(users userRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{users: users, validator: validate, logger: logger}
}

// ListByClass returns the roster projection of every student in a class.
func (s *StudentService) ListByClass(ctx context.Context, class string) ([]models.Student, error) {
	if class == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing class parameter")
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	students := make([]models.Student, 0)
	for _, u := range users {
		if u.Role == models.RoleStudent && u.Class == class {
			students = append(students, models.StudentProjection(u))
		}
	}
	return students, nil
}

// Import adds the given students to a class as new student users, skipping
// rows whose roll number already exists in that class.
func (s *StudentService) Import(ctx context.Context, req ImportStudentsRequest) (*ImportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import payload")
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	existing := make(map[string]bool)
	for _, u := range users {
		if u.Role == models.RoleStudent && u.Class == req.ClassName {
			existing[u.RollNumber] = true
		}
	}

	result := &ImportResult{}
	for _, row := range req.Students {
		if existing[row.RollNumber] {
			result.Skipped++
			continue
		}
		user := models.User{
			Name:       row.Name,
			RollNumber: row.RollNumber,
			Email:      importEmail(row.Name, row.RollNumber),
			Role:       models.RoleStudent,
			Class:      req.ClassName,
			Department: importedDepartment,
			AvatarURL:  importedAvatarURL,
		}
		if err := s.users.Create(ctx, &user); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import student")
		}
		existing[row.RollNumber] = true
		result.Added++
	}

	s.logger.Info("students imported",
		zap.String("class", req.ClassName),
		zap.Int("added", result.Added),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// importEmail derives a placeholder address for imported students who have no
// real account yet.
func importEmail(name, rollNumber string) string {
	slug := strings.ReplaceAll(strings.ToLower(name), " ", ".")
	return fmt.Sprintf("%s.%s@example.com", slug, rollNumber)
}
