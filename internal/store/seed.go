package store

// seedDatabase returns the initial contents of a fresh flat-file store. The
// attendance collections start empty; the hotel side ships with a small room
// catalogue so the marketing pages render out of the box.
func seedDatabase() fileDatabase {
	return fileDatabase{
		CollectionUsers:             {},
		CollectionCourses:           {},
		CollectionAttendance:        {},
		CollectionCourseStudents:    {},
		CollectionAttendanceReports: {},
		CollectionNotifications:     {},
		CollectionRooms: {
			{
				"id":           "1",
				"name":         "Deluxe Suite",
				"type":         "Deluxe",
				"price":        2500,
				"amenities":    []interface{}{"AC", "WiFi", "TV", "Breakfast"},
				"maxOccupancy": 3,
				"availability": true,
				"description":  "Experience the ultimate comfort in our Deluxe Suite.",
			},
			{
				"id":           "2",
				"name":         "Standard AC Room",
				"type":         "AC",
				"price":        1800,
				"amenities":    []interface{}{"AC", "WiFi", "TV"},
				"maxOccupancy": 2,
				"availability": true,
				"description":  "Comfortable AC room for a pleasant stay.",
			},
			{
				"id":           "3",
				"name":         "Budget Non-AC",
				"type":         "Non-AC",
				"price":        1200,
				"amenities":    []interface{}{"WiFi", "TV"},
				"maxOccupancy": 2,
				"availability": true,
				"description":  "Affordable accommodation with essential amenities.",
			},
		},
		CollectionBookings: {},
	}
}
