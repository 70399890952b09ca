package models

// AttendanceRecord marks one student's presence for one course on one date.
type AttendanceRecord struct {
	ID        string `json:"id"`
	CourseID  string `json:"courseId"`
	StudentID string `json:"studentId"`
	Date      string `json:"date"`
	IsPresent bool   `json:"isPresent"`
	Class     string `json:"class"`
}

// AttendanceEntry is one per-student row embedded in a report. It is a
// point-in-time copy taken at submission; later roster edits do not rewrite
// historical reports.
type AttendanceEntry struct {
	StudentID   string `json:"studentId"`
	StudentName string `json:"studentName"`
	RollNumber  string `json:"rollNumber"`
	IsPresent   bool   `json:"isPresent"`
}

// AttendanceReport is one submitted lecture session with its full roster
// presence snapshot.
type AttendanceReport struct {
	ID         string            `json:"id"`
	CourseID   string            `json:"courseId"`
	CourseName string            `json:"courseName"`
	CourseCode string            `json:"courseCode"`
	Class      string            `json:"class"`
	Date       string            `json:"date"`
	TimeSlot   string            `json:"timeSlot"`
	Attendance []AttendanceEntry `json:"attendance"`
}

// AbsentEntries returns the entries marked absent.
func (r AttendanceReport) AbsentEntries() []AttendanceEntry {
	var absent []AttendanceEntry
	for _, entry := range r.Attendance {
		if !entry.IsPresent {
			absent = append(absent, entry)
		}
	}
	return absent
}
