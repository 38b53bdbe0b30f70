package models

import "time"

// Profile is the 1:1 record behind an authenticated identity.
type Profile struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	SelectedYear     int       `json:"selected_year"`
	SecurityQuestion string    `json:"security_question,omitempty"`
	SecurityAnswer   string    `json:"-"`
	Password         string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FullName         string `json:"full_name"`
	SelectedYear     int    `json:"selected_year"`
	SecurityQuestion string `json:"security_question"`
	SecurityAnswer   string `json:"security_answer"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries partial profile edits; nil fields are left as-is.
type UpdateProfileRequest struct {
	FullName         *string `json:"full_name,omitempty"`
	SelectedYear     *int    `json:"selected_year,omitempty"`
	SecurityQuestion *string `json:"security_question,omitempty"`
	SecurityAnswer   *string `json:"security_answer,omitempty"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Answer      string `json:"answer"`
	NewPassword string `json:"new_password"`
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
