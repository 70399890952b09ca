package repository

import (
	"context"
	"fmt"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
)

// AttendanceRepository provides typed access to the attendanceReports
// collection.
type AttendanceRepository struct {
	col store.Collection
}

// NewAttendanceRepository creates a new instance of AttendanceRepository.
func NewAttendanceRepository(s store.Store) *AttendanceRepository {
	return &AttendanceRepository{col: s.Collection(store.CollectionAttendanceReports)}
}

// List returns every submitted report.
func (r *AttendanceRepository) List(ctx context.Context) ([]models.AttendanceReport, error) {
	docs, err := r.col.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list attendance reports: %w", err)
	}

	reports := make([]models.AttendanceReport, 0, len(docs))
	for _, doc := range docs {
		var report models.AttendanceReport
		if err := store.Decode(doc, &report); err != nil {
			return nil, fmt.Errorf("decode attendance report %s: %w", doc.ID, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// FindByID returns one report or store.ErrNotFound.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceReport, error) {
	doc, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var report models.AttendanceReport
	if err := store.Decode(*doc, &report); err != nil {
		return nil, fmt.Errorf("decode attendance report %s: %w", id, err)
	}
	return &report, nil
}

// Save persists a report under its own id (reports arrive with ids minted by
// the submitting client).
func (r *AttendanceRepository) Save(ctx context.Context, report *models.AttendanceReport) error {
	doc, err := store.Encode(report.ID, report)
	if err != nil {
		return fmt.Errorf("encode attendance report: %w", err)
	}
	if _, err := r.col.Put(ctx, doc); err != nil {
		return fmt.Errorf("save attendance report: %w", err)
	}
	return nil
}
