package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/attendease/attendease-api/internal/models"
	appErrors "github.com/attendease/attendease-api/pkg/errors"
)

const testSecret = "test-secret"

func testAuthService(repo authUserRepository) *AuthService {
	return NewAuthService(repo, nil, nil, AuthConfig{
		TokenSecret: testSecret,
		TokenExpiry: time.Hour,
		Issuer:      "attendease",
	})
}

func signedToken(t *testing.T, subject, email string) string {
	t.Helper()
	claims := models.IdentityClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestAuthServiceLoginResolvesByUID(t *testing.T) {
	repo := &fakeUserRepo{users: []models.User{
		{ID: "uid-1", Name: "Asha", Email: "asha@example.com", Password: "legacy", Role: models.RoleStudent},
	}}
	svc := testAuthService(repo)

	user, err := svc.Login(context.Background(), LoginRequest{Token: signedToken(t, "uid-1", "asha@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", user.ID)
	assert.Empty(t, user.Password)
}

func TestAuthServiceLoginFallsBackToEmail(t *testing.T) {
	repo := &fakeUserRepo{users: []models.User{
		{ID: "legacy-1", Name: "Asha", Email: "asha@example.com", Role: models.RoleStudent},
	}}
	svc := testAuthService(repo)

	user, err := svc.Login(context.Background(), LoginRequest{Token: signedToken(t, "uid-unknown", "asha@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "legacy-1", user.ID)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := testAuthService(&fakeUserRepo{})

	_, err := svc.Login(context.Background(), LoginRequest{Token: signedToken(t, "uid-ghost", "ghost@example.com")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceLoginInvalidToken(t *testing.T) {
	svc := testAuthService(&fakeUserRepo{})

	_, err := svc.Login(context.Background(), LoginRequest{Token: "not-a-jwt"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTokenRejectsWrongSecret(t *testing.T) {
	svc := testAuthService(&fakeUserRepo{})

	claims := models.IdentityClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "uid-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestAuthServiceAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(&fakeUserRepo{}, nil, nil, AuthConfig{
		TokenSecret:       testSecret,
		TokenExpiry:       time.Hour,
		Issuer:            "attendease",
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	})

	resp, err := svc.AdminLogin(context.Background(), AdminLoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceAdminLoginWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(&fakeUserRepo{}, nil, nil, AuthConfig{
		TokenSecret:       testSecret,
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	})

	_, err = svc.AdminLogin(context.Background(), AdminLoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceAdminLoginNotConfigured(t *testing.T) {
	svc := testAuthService(&fakeUserRepo{})

	_, err := svc.AdminLogin(context.Background(), AdminLoginRequest{Username: "admin", Password: "anything"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Status, appErrors.FromError(err).Status)
}
