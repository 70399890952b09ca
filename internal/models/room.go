package models

// Room is a hotel room listed on the marketing site.
type Room struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Price        float64  `json:"price"`
	Amenities    []string `json:"amenities"`
	MaxOccupancy int      `json:"maxOccupancy"`
	Availability bool     `json:"availability"`
	Image        string   `json:"image,omitempty"`
	Description  string   `json:"description,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

// Booking pairs a guest with a room and date range.
type Booking struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	GuestName string `json:"guestName"`
	Email     string `json:"email"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Guests    int    `json:"guests"`
	CreatedAt string `json:"createdAt,omitempty"`
}
