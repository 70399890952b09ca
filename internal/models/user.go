package models

// Role enumerates the user roles known to the attendance app.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role is a supported value.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is an application user. The id is the identity-provider UID when the
// account was created through the provider, otherwise a server-generated
// UUID. Password is only ever populated transiently by legacy fallback
// records and is stripped before any response leaves the API.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	Role         Role   `json:"role"`
	Department   string `json:"department,omitempty"`
	Class        string `json:"class,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	RollNumber   string `json:"rollNumber,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// Sanitized returns a copy safe for serialisation.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// Student is the projection of a student User used by rosters.
type Student struct {
	ID         string `json:"id"`
	RollNumber string `json:"rollNumber"`
	Name       string `json:"name"`
	Class      string `json:"class"`
}

// StudentProjection maps a student user onto the roster shape.
func StudentProjection(u User) Student {
	class := u.Class
	if class == "" {
		class = "N/A"
	}
	return Student{
		ID:         u.ID,
		RollNumber: u.RollNumber,
		Name:       u.Name,
		Class:      class,
	}
}
