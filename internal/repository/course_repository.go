package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
)

// CourseRepository provides typed access to the courses collection.
type CourseRepository struct {
	col store.Collection
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(s store.Store) *CourseRepository {
	return &CourseRepository{col: s.Collection(store.CollectionCourses)}
}

// List returns every course.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	docs, err := r.col.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	courses := make([]models.Course, 0, len(docs))
	for _, doc := range docs {
		var course models.Course
		if err := store.Decode(doc, &course); err != nil {
			return nil, fmt.Errorf("decode course %s: %w", doc.ID, err)
		}
		courses = append(courses, course)
	}
	return courses, nil
}

// FindByID returns a course by identifier or store.ErrNotFound.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	doc, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var course models.Course
	if err := store.Decode(*doc, &course); err != nil {
		return nil, fmt.Errorf("decode course %s: %w", id, err)
	}
	return &course, nil
}

// Create persists a new course, assigning a UUID when no id was supplied.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	doc, err := store.Encode(course.ID, course)
	if err != nil {
		return fmt.Errorf("encode course: %w", err)
	}
	if _, err := r.col.Put(ctx, doc); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Delete removes a course. Attendance reports referencing the course are
// deliberately left in place.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	return nil
}
