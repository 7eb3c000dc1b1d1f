package service

import (
	"context"
	"testing"
	"time"

	"restaurant-rag/internal/dto"
	"restaurant-rag/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) (*AuthService, *auth.JWTManager, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(env.db, env.db, jwtManager, testLogger), jwtManager, env
}

func TestAuth_RegisterLoginRefresh(t *testing.T) {
	ctx := context.Background()
	svc, jwtManager, env := newTestAuth(t)

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		RestaurantID: env.restaurant.ID,
		Email:        "  Caja@LaFonda.co ",
		Password:     "arepas-2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "caja@lafonda.co", registered.Operator.Email)
	assert.Equal(t, env.restaurant.ID, registered.Operator.RestaurantID)
	assert.Equal(t, int64(3600), registered.ExpiresIn)

	claims, err := jwtManager.ValidateToken(registered.AccessToken, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, env.restaurant.ID, claims.RestaurantID)
	assert.Equal(t, registered.Operator.ID, claims.OperatorID)

	_, err = svc.Register(ctx, &dto.RegisterRequest{RestaurantID: env.restaurant.ID, Email: "caja@lafonda.co", Password: "otra-clave-1"})
	assert.ErrorIs(t, err, ErrOperatorExists)

	loggedIn, err := svc.Login(ctx, &dto.LoginRequest{Email: "CAJA@lafonda.co", Password: "arepas-2024"})
	require.NoError(t, err)
	assert.Equal(t, registered.Operator.ID, loggedIn.Operator.ID)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "caja@lafonda.co", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nadie@lafonda.co", Password: "arepas-2024"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	refreshed, err := svc.RefreshToken(ctx, loggedIn.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken(ctx, loggedIn.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, env := newTestAuth(t)

	_, err := svc.Register(ctx, &dto.RegisterRequest{RestaurantID: env.restaurant.ID, Email: "a@b.co", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, &dto.RegisterRequest{RestaurantID: 9999, Email: "a@b.co", Password: "long-enough"})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}
