package models

// FacultyStats aggregates a faculty member's dashboard numbers.
type FacultyStats struct {
	Role              Role   `json:"role"`
	TotalCourses      int    `json:"totalCourses"`
	TheoryCourses     int    `json:"theoryCourses"`
	PracticalCourses  int    `json:"practicalCourses"`
	TotalStudents     int    `json:"totalStudents"`
	TotalClasses      int    `json:"totalClasses"`
	AttendanceReports int    `json:"attendanceReports"`
	Department        string `json:"department"`
}

// CourseAttendance is a per-course attendance percentage for one student.
type CourseAttendance struct {
	CourseID     string  `json:"courseId"`
	CourseName   string  `json:"courseName"`
	CourseCode   string  `json:"courseCode"`
	Attendance   float64 `json:"attendance"`
	PresentCount int     `json:"presentCount"`
	TotalCount   int     `json:"totalCount"`
}

// LastAbsence identifies the most recent lecture a student missed.
type LastAbsence struct {
	CourseName string `json:"courseName"`
	Date       string `json:"date"`
}

// StudentStats aggregates a student's dashboard numbers.
type StudentStats struct {
	Role                   Role               `json:"role"`
	OverallAttendance      float64            `json:"overallAttendance"`
	CoursesEnrolled        int                `json:"coursesEnrolled"`
	TotalAttendanceRecords int                `json:"totalAttendanceRecords"`
	PresentCount           int                `json:"presentCount"`
	CourseWiseAttendance   []CourseAttendance `json:"courseWiseAttendance"`
	LastAbsent             *LastAbsence       `json:"lastAbsent"`
}
