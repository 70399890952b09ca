package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/store"
)

// RoomRepository provides typed access to the rooms and bookings collections.
type RoomRepository struct {
	rooms    store.Collection
	bookings store.Collection
}

// NewRoomRepository creates a new instance of RoomRepository.
func NewRoomRepository(s store.Store) *RoomRepository {
	return &RoomRepository{
		rooms:    s.Collection(store.CollectionRooms),
		bookings: s.Collection(store.CollectionBookings),
	}
}

// List returns every room.
func (r *RoomRepository) List(ctx context.Context) ([]models.Room, error) {
	docs, err := r.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms := make([]models.Room, 0, len(docs))
	for _, doc := range docs {
		var room models.Room
		if err := store.Decode(doc, &room); err != nil {
			return nil, fmt.Errorf("decode room %s: %w", doc.ID, err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// FindByID returns one room or store.ErrNotFound.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*models.Room, error) {
	doc, err := r.rooms.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var room models.Room
	if err := store.Decode(*doc, &room); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", id, err)
	}
	return &room, nil
}

// Create persists a new room, assigning a UUID when no id was supplied.
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	doc, err := store.Encode(room.ID, room)
	if err != nil {
		return fmt.Errorf("encode room: %w", err)
	}
	if _, err := r.rooms.Put(ctx, doc); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// Delete removes a room.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	if err := r.rooms.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete room %s: %w", id, err)
	}
	return nil
}

// ListBookings returns every booking.
func (r *RoomRepository) ListBookings(ctx context.Context) ([]models.Booking, error) {
	docs, err := r.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	bookings := make([]models.Booking, 0, len(docs))
	for _, doc := range docs {
		var booking models.Booking
		if err := store.Decode(doc, &booking); err != nil {
			return nil, fmt.Errorf("decode booking %s: %w", doc.ID, err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

// CreateBooking persists a new booking, assigning a UUID when no id was
// supplied.
func (r *RoomRepository) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	doc, err := store.Encode(booking.ID, booking)
	if err != nil {
		return fmt.Errorf("encode booking: %w", err)
	}
	if _, err := r.bookings.Put(ctx, doc); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}
