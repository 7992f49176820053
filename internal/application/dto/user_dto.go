package dto

import "time"

// RegisterRequest entrada para registro (auth). SecretCode solo se exige para Admin y Manager.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	SecretCode string `json:"secretCode,omitempty"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT; la usa también el registro.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
