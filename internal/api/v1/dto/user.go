package dto

import "coursefinder/internal/model"

// LoginDTO is used for email and password sign-in
type LoginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterDTO is used for account creation
type RegisterDTO struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	UserType        string `json:"user_type,omitempty" validate:"omitempty,oneof=student institute"`
}

// GoogleSignInDTO carries the ID token from the Google popup
type GoogleSignInDTO struct {
	IDToken string `json:"id_token" validate:"required"`
}

// ZScoreUpdateDTO sets or clears the Z-Score kept in the session
type ZScoreUpdateDTO struct {
	ZScore *float64 `json:"z_score" validate:"omitempty,gte=-4,lte=4"`
}

// UserResponseDTO is the signed-in user
type UserResponseDTO struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	UserType    string `json:"user_type,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// SessionResponseDTO is returned after login and by the session endpoints
type SessionResponseDTO struct {
	Token     string          `json:"token,omitempty"`
	User      UserResponseDTO `json:"user"`
	ZScore    *float64        `json:"z_score,omitempty"`
	ExpiresAt int64           `json:"expires_at"`
}

// MessageDTO is a plain acknowledgement
type MessageDTO struct {
	Message string `json:"message"`
}

// ProfileResponseDTO is the student's own profile
type ProfileResponseDTO struct {
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Age                string `json:"age"`
	QualificationLevel string `json:"qualification_level"`
	Avatar             string `json:"avatar,omitempty"`
}

func NewUserResponse(u model.User) UserResponseDTO {
	return UserResponseDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		UserType:    u.UserType,
		PhotoURL:    u.PhotoURL,
	}
}
