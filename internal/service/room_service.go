package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

type roomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) error
	ListBookings(ctx context.Context) ([]models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
}

// CreateRoomRequest registers a new room listing.
type CreateRoomRequest struct {
	Name         string   `json:"name" validate:"required"`
	Type         string   `json:"type" validate:"required"`
	Price        float64  `json:"price" validate:"required,gt=0"`
	Amenities    []string `json:"amenities"`
	MaxOccupancy int      `json:"maxOccupancy" validate:"required,gt=0"`
	Availability bool     `json:"availability"`
	Image        string   `json:"image"`
	Description  string   `json:"description"`
}

// CreateBookingRequest books a room for a guest.
type CreateBookingRequest struct {
	RoomID    string `json:"roomId" validate:"required"`
	GuestName string `json:"guestName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	CheckIn   string `json:"checkIn" validate:"required"`
	CheckOut  string `json:"checkOut" validate:"required"`
	Guests    int    `json:"guests" validate:"required,gt=0"`
}

// RoomService implements hotel room and booking use cases.
type RoomService struct {
	repo      roomRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRoomService constructs a RoomService.
func NewRoomService(repo roomRepository, validate *validator.Validate, logger *zap.Logger) *RoomService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &RoomService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns every room.
func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// Get returns one room by id.
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch room")
	}
	return room, nil
}

// Create registers a new room listing.
func (s *RoomService) Create(ctx context.Context, req CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}

	room := models.Room{
		Name:         req.Name,
		Type:         req.Type,
		Price:        req.Price,
		Amenities:    req.Amenities,
		MaxOccupancy: req.MaxOccupancy,
		Availability: req.Availability,
		Image:        req.Image,
		Description:  req.Description,
		CreatedAt:    s.now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.Create(ctx, &room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}

	s.logger.Info("room created", zap.String("id", room.ID), zap.String("name", room.Name))
	return &room, nil
}

// Delete removes a room listing.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete room")
	}
	s.logger.Info("room deleted", zap.String("id", id))
	return nil
}

// ListBookings returns every booking.
func (s *RoomService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.repo.ListBookings(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}

// CreateBooking books a room, verifying the room exists first.
func (s *RoomService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	if _, err := s.Get(ctx, req.RoomID); err != nil {
		return nil, err
	}

	booking := models.Booking{
		RoomID:    req.RoomID,
		GuestName: req.GuestName,
		Email:     req.Email,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		Guests:    req.Guests,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.CreateBooking(ctx, &booking); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	s.logger.Info("booking created",
		zap.String("id", booking.ID),
		zap.String("roomId", booking.RoomID))
	return &booking, nil
}
