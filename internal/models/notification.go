package models

// Notification is one message addressed to one student, generated when an
// attendance report is submitted.
type Notification struct {
	ID        string `json:"id"`
	StudentID string `json:"studentId"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	IsRead    bool   `json:"isRead"`
}
