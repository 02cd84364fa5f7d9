package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UseCase describes authentication and registration behavior.
type UseCase interface {
	Register(ctx context.Context, email, password, name, role string) (Result, error)
	Login(ctx context.Context, email, password string) (Result, error)
}

type Result struct {
	User  User
	Token string
}

type service struct {
	repo   UserRepository
	tokens TokenGenerator
}

// NewService returns the default implementation of UseCase.
func NewService(repo UserRepository, tokens TokenGenerator) UseCase {
	return &service{repo: repo, tokens: tokens}
}

func (s *service) Register(ctx context.Context, email, password, name, role string) (Result, error) {
	if email == "" || password == "" {
		return Result{}, ErrInvalidCredentials
	}
	if role == "" {
		role = RoleStudent
	}
	if !ValidRole(role) {
		return Result{}, ErrInvalidRole
	}

	// If user exists, fail fast (best-effort check; the unique index is the
	// real guarantee).
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Result{}, ErrUserAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Result{}, err
	}

	user := User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(passwordHash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return Result{}, err
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return Result{}, err
	}
	return Result{User: user, Token: token}, nil
}

func (s *service) Login(ctx context.Context, email, password string) (Result, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Result{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Result{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return Result{}, err
	}
	return Result{User: user, Token: token}, nil
}
