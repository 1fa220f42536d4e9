package middlewares

import (
	"fmt"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Authorize checks the actor role against the casbin policy for the request method and
// the path relative to the versioned API prefix, e.g. "/sessions/:id/cancel".
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.RequestIDFromContext(r.Context())

		actor, ok := ActorFromContext(r.Context())
		if !ok {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(nil))
			return
		}

		path := m.relativePath(r.URL.Path)
		allowed, err := m.Enforcer.Enforce(string(actor.Role), r.Method, path)
		if err != nil {
			m.Log.Error("Policy evaluation failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerProcess(err))
			return
		}
		if !allowed {
			m.Log.Info("Access denied by policy",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingActorIDKey, actor.ID),
				zap.String(constvars.LoggingActorRoleKey, string(actor.Role)),
				zap.String(constvars.LoggingMethodKey, r.Method),
				zap.String(constvars.LoggingEndpointKey, path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrAccessDenied(fmt.Errorf("%s %s %s", actor.Role, r.Method, path)))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middlewares) relativePath(path string) string {
	prefix := fmt.Sprintf("/%s/%s", m.InternalConfig.App.EndpointPrefix, m.InternalConfig.App.Version)
	if rest := strings.TrimPrefix(path, prefix); rest != path {
		if rest == "" {
			return "/"
		}
		return rest
	}
	return path
}
