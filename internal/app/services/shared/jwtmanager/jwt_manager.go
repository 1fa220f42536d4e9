package jwtmanager

import (
	"context"
	"fmt"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/utils"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// ActorClaims is the token body issued by the identity service. The subject is the user id.
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager verifies bearer tokens and mints them for ops tooling.
type JWTManager struct {
	log    *zap.Logger
	secret []byte
	issuer string
	ttl    time.Duration
}

type CreateTokenInput struct {
	Subject string
	Role    models.ActorRole
}

type CreateTokenOutput struct {
	Token     string
	ExpiresAt time.Time
}

type VerifyTokenInput struct {
	Token string
}

type VerifyTokenOutput struct {
	Valid bool
	Actor models.Actor
}

// NewJWTManager signs with HS256 using InternalConfig.JWT.Secret.
func NewJWTManager(cfg *config.InternalConfig, log *zap.Logger) (*JWTManager, error) {
	secret := strings.TrimSpace(cfg.JWT.Secret)
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	ttl := time.Duration(cfg.JWT.ExpiryInMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &JWTManager{
		log:    log,
		secret: []byte(secret),
		issuer: cfg.JWT.Issuer,
		ttl:    ttl,
	}, nil
}

func (j *JWTManager) CreateToken(ctx context.Context, in *CreateTokenInput) (*CreateTokenOutput, error) {
	requestID := utils.RequestIDFromContext(ctx)
	j.log.Info("JWTManager.CreateToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if in == nil || strings.TrimSpace(in.Subject) == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if !validRole(string(in.Role)) {
		return nil, fmt.Errorf("unsupported role: %s", in.Role)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(j.ttl)
	claims := ActorClaims{
		Role: string(in.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   in.Subject,
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return nil, err
	}
	return &CreateTokenOutput{Token: signed, ExpiresAt: expiresAt}, nil
}

// VerifyToken reports Valid=false with a nil error for a token that is well formed
// input but fails signature, expiry, issuer or role checks.
func (j *JWTManager) VerifyToken(ctx context.Context, in *VerifyTokenInput) (*VerifyTokenOutput, error) {
	requestID := utils.RequestIDFromContext(ctx)
	j.log.Debug("JWTManager.VerifyToken called", zap.String(constvars.LoggingRequestIDKey, requestID))

	if in == nil || strings.TrimSpace(in.Token) == "" {
		return &VerifyTokenOutput{Valid: false}, fmt.Errorf("token is required")
	}

	claims := new(ActorClaims)
	parsed, err := jwt.ParseWithClaims(in.Token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil || !parsed.Valid {
		j.log.Debug("JWTManager.VerifyToken rejected token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return &VerifyTokenOutput{Valid: false}, nil
	}

	if j.issuer != "" && !claims.VerifyIssuer(j.issuer, true) {
		return &VerifyTokenOutput{Valid: false}, nil
	}
	if claims.Subject == "" || !validRole(claims.Role) {
		return &VerifyTokenOutput{Valid: false}, nil
	}

	return &VerifyTokenOutput{
		Valid: true,
		Actor: models.Actor{ID: claims.Subject, Role: models.ActorRole(claims.Role)},
	}, nil
}

func validRole(role string) bool {
	switch models.ActorRole(role) {
	case models.ActorRoleMentor, models.ActorRoleMentee, models.ActorRoleAdmin:
		return true
	}
	return false
}
