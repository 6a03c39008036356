package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hotelops/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                testSecret,
		Issuer:                "hotelops-identity",
		AccessTokenExpiration: 15 * time.Minute,
	})
}

func signClaims(t *testing.T, claims *Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    "hotelops-identity",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: uuid.NewString(),
		Role:   RoleCashier,
	}
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, expiresAt, err := svc.Issue(userID, "aziza", RoleManager)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "aziza", claims.Username)
	assert.Equal(t, RoleManager, claims.Role)
	assert.NotEmpty(t, claims.ID)

	parsed, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestJWTService_Validate(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		wantErr error
	}{
		{
			name: "expired",
			token: func(t *testing.T) string {
				c := validClaims()
				c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
				return signClaims(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "not yet valid",
			token: func(t *testing.T) string {
				c := validClaims()
				c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
				return signClaims(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrTokenNotYetValid,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return signClaims(t, validClaims(), jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong algorithm",
			token: func(t *testing.T) string {
				return signClaims(t, validClaims(), jwt.SigningMethodHS512, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Issuer = "someone-else"
				return signClaims(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing user id",
			token: func(t *testing.T) string {
				c := validClaims()
				c.UserID = ""
				return signClaims(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrMissingUserID,
		},
		{
			name: "user id not a uuid",
			token: func(t *testing.T) string {
				c := validClaims()
				c.UserID = "42"
				return signClaims(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrInvalidClaims,
		},
		{
			name: "unknown role",
			token: func(t *testing.T) string {
				c := validClaims()
				c.Role = "housekeeping"
				return signClaims(t, c, jwt.SigningMethodHS256, []byte(testSecret))
			},
			wantErr: ErrUnknownRole,
		},
		{
			name:    "garbage",
			token:   func(*testing.T) string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestJWTService_EmptyIssuerSkipsIssuerCheck(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: testSecret, AccessTokenExpiration: time.Minute})
	c := validClaims()
	c.Issuer = "anything"

	_, err := svc.Validate(signClaims(t, c, jwt.SigningMethodHS256, []byte(testSecret)))
	assert.NoError(t, err)
}

func TestClaims_HasRole(t *testing.T) {
	c := &Claims{Role: RoleCashier}
	assert.True(t, c.HasRole(RoleCashier))
	assert.True(t, c.HasRole(RoleManager, RoleCashier))
	assert.False(t, c.HasRole(RoleManager))
	assert.False(t, c.HasRole())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleCashier.IsValid())
	assert.True(t, RoleManager.IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("admin").IsValid())
}
