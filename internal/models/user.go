package models

import "time"

// Role identifies the capability level of a user account.
type Role string

// Roles recognised by the API.
const (
	RoleAdmin   Role = "ADMIN"
	RoleHR      Role = "HR"
	RoleStudent Role = "STUDENT"
)

// Valid reports whether the role is one of the recognised values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleStudent:
		return true
	}
	return false
}

// Elevated reports whether the role is exempt from student self-scoping.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleHR
}

// User is an authenticatable account. STUDENT accounts carry a link to
// exactly one Student row; the link is unique in both directions.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FirstName    string     `gorm:"size:50;not null" json:"first_name"`
	LastName     string     `gorm:"size:50;not null" json:"last_name"`
	Role         Role       `gorm:"size:20;not null" json:"role"`
	StudentID    *uint      `gorm:"uniqueIndex" json:"student_id,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	RefreshToken string     `gorm:"size:512" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullName joins the first and last name for display and reviewer stamps.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
