package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlog/routine-server/internal/domain"
	"fitlog/routine-server/internal/repository"
)

type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (uuid.UUID, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

const testJWTSecret = "test-secret"

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret, time.Hour)

	user, err := svc.Register(ctx, "Sam", "sam@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "hunter22", user.PasswordHash)

	_, err = svc.Register(ctx, "Sam Again", "sam@example.com", "other")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	token, loggedIn, err := svc.Login(ctx, "sam@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	// The token must carry the user id as the uid claim.
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["uid"])
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret, time.Hour)

	_, err := svc.Register(ctx, "Sam", "sam@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "sam@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRegister_Validation(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret, time.Hour)
	_, err := svc.Register(context.Background(), "", "a@b.c", "pw")
	assert.Error(t, err)
	_, err = svc.Register(context.Background(), "A", "", "pw")
	assert.Error(t, err)
	_, err = svc.Register(context.Background(), "A", "a@b.c", "")
	assert.Error(t, err)
}
