package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Platform roles. Role gates the HTTP surface: students apply, teachers own
// projects, admins see everything.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// User is a registered platform account.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository abstracts persistence concerns from the domain layer.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
}

// TokenGenerator abstracts token creation (e.g., JWT) so use cases stay
// framework-agnostic.
type TokenGenerator interface {
	Generate(ctx context.Context, user User) (string, error)
}

// ValidRole reports whether role is one of the platform roles.
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}
