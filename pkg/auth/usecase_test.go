package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memUserRepo struct {
	byEmail map[string]User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: map[string]User{}}
}

func (r *memUserRepo) Create(_ context.Context, user User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrUserAlreadyExists
	}
	r.byEmail[user.Email] = user
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

type staticTokens struct{}

func (staticTokens) Generate(_ context.Context, _ User) (string, error) {
	return "token", nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newMemUserRepo(), staticTokens{})

	reg, err := svc.Register(context.Background(), "a@uni.edu", "secret", "Ana", RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, RoleTeacher, reg.User.Role)
	assert.Equal(t, "token", reg.Token)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reg.User.PasswordHash), []byte("secret")))

	login, err := svc.Login(context.Background(), "a@uni.edu", "secret")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestRegisterDefaultsToStudentRole(t *testing.T) {
	svc := NewService(newMemUserRepo(), staticTokens{})

	res, err := svc.Register(context.Background(), "s@uni.edu", "pw", "Sam", "")
	require.NoError(t, err)
	assert.Equal(t, RoleStudent, res.User.Role)
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMemUserRepo(), staticTokens{})

	_, err := svc.Register(context.Background(), "x@uni.edu", "pw", "X", "superuser")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newMemUserRepo(), staticTokens{})

	_, err := svc.Register(context.Background(), "a@uni.edu", "pw", "A", RoleStudent)
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "a@uni.edu", "pw2", "A2", RoleStudent)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newMemUserRepo(), staticTokens{})

	_, err := svc.Register(context.Background(), "a@uni.edu", "right", "A", RoleStudent)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@uni.edu", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@uni.edu", "right")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
