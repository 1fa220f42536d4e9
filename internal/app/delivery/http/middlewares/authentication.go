package middlewares

import (
	"errors"
	"mentorship-service/internal/app/services/shared/jwtmanager"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// Authenticate resolves the bearer token into an actor and stores it in the request context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.RequestIDFromContext(r.Context())

		header := r.Header.Get(constvars.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			m.Log.Info("Authorization header missing or malformed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		out, err := m.TokenVerifier.VerifyToken(r.Context(), &jwtmanager.VerifyTokenInput{Token: token})
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(err))
			return
		}
		if !out.Valid {
			m.Log.Info("Rejected invalid or expired token",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(errors.New("token verification failed")))
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), out.Actor)))
	})
}
