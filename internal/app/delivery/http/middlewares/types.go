package middlewares

import (
	"context"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/shared/jwtmanager"
	"mentorship-service/internal/app/services/shared/ratelimiter"
	"mentorship-service/internal/pkg/constvars"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	VerifyToken(ctx context.Context, in *jwtmanager.VerifyTokenInput) (*jwtmanager.VerifyTokenOutput, error)
}

type ActionLimiter interface {
	Allow(ctx context.Context, in *ratelimiter.AllowInput) (*ratelimiter.AllowOutput, error)
}

type Middlewares struct {
	Log            *zap.Logger
	InternalConfig *config.InternalConfig
	Enforcer       *casbin.Enforcer
	TokenVerifier  TokenVerifier
	// ActionLimiter is optional; ActionQuota is a no-op without it.
	ActionLimiter ActionLimiter
}

func NewMiddlewares(logger *zap.Logger, internalConfig *config.InternalConfig, enforcer *casbin.Enforcer, tokenVerifier TokenVerifier) *Middlewares {
	return &Middlewares{
		Log:            logger,
		InternalConfig: internalConfig,
		Enforcer:       enforcer,
		TokenVerifier:  tokenVerifier,
	}
}

// ActorFromContext returns the caller attached by Authenticate.
func ActorFromContext(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(constvars.CONTEXT_ACTOR_KEY).(models.Actor)
	return actor, ok
}

func ContextWithActor(ctx context.Context, actor models.Actor) context.Context {
	return context.WithValue(ctx, constvars.CONTEXT_ACTOR_KEY, actor)
}
