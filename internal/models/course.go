package models

// CourseType distinguishes theory from practical courses.
type CourseType string

const (
	CourseTheory    CourseType = "Theory"
	CoursePractical CourseType = "Practical"
)

// Valid reports whether the course type is supported.
func (t CourseType) Valid() bool {
	return t == CourseTheory || t == CoursePractical
}

// Course is taught by one faculty member to one or more classes.
type Course struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	CourseCode    string     `json:"courseCode"`
	FacultyID     string     `json:"facultyId"`
	FacultyName   string     `json:"facultyName"`
	Classes       []string   `json:"classes"`
	TotalLectures int        `json:"totalLectures"`
	Description   string     `json:"description"`
	Type          CourseType `json:"type"`
}

// TaughtTo reports whether the course is taught to the given class.
func (c Course) TaughtTo(class string) bool {
	for _, cls := range c.Classes {
		if cls == class {
			return true
		}
	}
	return false
}
