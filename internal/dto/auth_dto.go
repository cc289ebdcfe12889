package dto

import (
	"time"

	"github.com/jupiter-hub/jupiter-go-api/internal/models"
	"github.com/jupiter-hub/jupiter-go-api/pkg/token"
)

// RegisterRequest creates a new user account. StudentID is required for the
// STUDENT role and forbidden otherwise.
type RegisterRequest struct {
	Email     string      `json:"email" validate:"required,email"`
	Password  string      `json:"password" validate:"required,min=8,max=72"`
	FirstName string      `json:"first_name" validate:"required,max=50"`
	LastName  string      `json:"last_name" validate:"required,max=50"`
	Role      models.Role `json:"role" validate:"required,oneof=ADMIN HR STUDENT"`
	StudentID *uint       `json:"student_id,omitempty"`
}

// LoginRequest authenticates by email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// UpdateProfileRequest changes the mutable profile fields.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=50"`
}

// UserResponse is the account shape returned by auth endpoints. StudentID is
// present only for STUDENT accounts.
type UserResponse struct {
	ID          uint        `json:"id"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	Role        models.Role `json:"role"`
	StudentID   *uint       `json:"student_id,omitempty"`
	IsActive    bool        `json:"is_active"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// NewUserResponse maps a user model into the response shape.
func NewUserResponse(user models.User) UserResponse {
	response := UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
	if user.Role == models.RoleStudent {
		response.StudentID = user.StudentID
	}
	return response
}

// SessionResponse bundles the account and its freshly issued tokens.
type SessionResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// NewSessionResponse builds a session payload from a user and token pair.
func NewSessionResponse(user models.User, pair token.Pair) SessionResponse {
	return SessionResponse{
		User:         NewUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
