package model

// User is the profile returned by the marketplace backend after authentication.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserType  string `json:"user_type,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// DisplayName joins first and last name, falling back to the email.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// Tokens is the credential pair issued by the backend on login.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// StudentProfile is the student's own profile as stored by the backend.
type StudentProfile struct {
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Age                string `json:"age"`
	QualificationLevel string `json:"qualification_level"`
	Avatar             string `json:"avatar,omitempty"`
}
