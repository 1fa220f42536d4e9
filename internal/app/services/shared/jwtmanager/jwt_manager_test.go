package jwtmanager

import (
	"context"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/models"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManager(t *testing.T, secret, issuer string) *JWTManager {
	t.Helper()
	cfg := &config.InternalConfig{JWT: config.AppJWT{Secret: secret, Issuer: issuer, ExpiryInMinutes: 5}}
	jm, err := NewJWTManager(cfg, zap.NewNop())
	require.NoError(t, err)
	return jm
}

func TestNewJWTManager_EmptySecret(t *testing.T) {
	_, err := NewJWTManager(&config.InternalConfig{}, zap.NewNop())
	assert.Error(t, err)
}

func TestCreateAndVerifyToken(t *testing.T) {
	ctx := context.Background()
	jm := newManager(t, "s3cret", "mentorship-identity")

	out, err := jm.CreateToken(ctx, &CreateTokenInput{Subject: "mentor-1", Role: models.ActorRoleMentor})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)

	verified, err := jm.VerifyToken(ctx, &VerifyTokenInput{Token: out.Token})
	require.NoError(t, err)
	assert.True(t, verified.Valid)
	assert.Equal(t, models.Actor{ID: "mentor-1", Role: models.ActorRoleMentor}, verified.Actor)
}

func TestVerifyToken_Rejections(t *testing.T) {
	ctx := context.Background()
	jm := newManager(t, "s3cret", "mentorship-identity")

	sign := func(claims ActorClaims, secret string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	valid := func() ActorClaims {
		return ActorClaims{
			Role: "mentee",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "mentee-1",
				Issuer:    "mentorship-identity",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	badRole := valid()
	badRole.Role = "superuser"
	noSubject := valid()
	noSubject.Subject = ""

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(valid(), "other")},
		{"expired", sign(expired, "s3cret")},
		{"wrong issuer", sign(wrongIssuer, "s3cret")},
		{"unknown role", sign(badRole, "s3cret")},
		{"missing subject", sign(noSubject, "s3cret")},
		{"garbage", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := jm.VerifyToken(ctx, &VerifyTokenInput{Token: tt.token})
			require.NoError(t, err)
			assert.False(t, out.Valid)
		})
	}

	t.Run("empty token is an error", func(t *testing.T) {
		_, err := jm.VerifyToken(ctx, &VerifyTokenInput{Token: " "})
		assert.Error(t, err)
	})
}

func TestCreateToken_RejectsUnknownRole(t *testing.T) {
	jm := newManager(t, "s3cret", "")
	_, err := jm.CreateToken(context.Background(), &CreateTokenInput{Subject: "x", Role: "guest"})
	assert.Error(t, err)
}
