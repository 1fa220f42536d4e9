package middlewares

import (
	"mentorship-service/internal/app/services/shared/ratelimiter"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ActionQuota limits how often one actor may hit the wrapped route. It must run after
// Authenticate. Quota checks fail open when the limiter backend is unavailable.
func (m *Middlewares) ActionQuota(group string, quota int, window time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m.ActionLimiter == nil || quota <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			out, err := m.ActionLimiter.Allow(r.Context(), &ratelimiter.AllowInput{
				Group:   group,
				ActorID: actor.ID,
				Window:  window,
				Quota:   quota,
			})
			if err != nil {
				m.Log.Warn("Middlewares.ActionQuota limiter unavailable",
					zap.String(constvars.LoggingRequestIDKey, utils.RequestIDFromContext(r.Context())),
					zap.String("group", group),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !out.Allowed {
				retryAfter := int(out.RetryAfter.Round(time.Second) / time.Second)
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set(constvars.HeaderRetryAfter, strconv.Itoa(retryAfter))
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests(actor.ID))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
