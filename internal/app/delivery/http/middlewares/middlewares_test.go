package middlewares

import (
	"context"
	"io"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/shared/jwtmanager"
	"mentorship-service/internal/app/services/shared/ratelimiter"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testConfig() *config.InternalConfig {
	return &config.InternalConfig{
		App: config.App{EndpointPrefix: "api", Version: "v1", MaxRequests: 100, RequestBodyLimitInMegabyte: 1},
		JWT: config.AppJWT{Secret: "test-secret", Issuer: "mentorship-identity", ExpiryInMinutes: 5},
	}
}

func newTestMiddlewares(t *testing.T) (*Middlewares, *jwtmanager.JWTManager) {
	t.Helper()
	cfg := testConfig()
	jm, err := jwtmanager.NewJWTManager(cfg, zap.NewNop())
	require.NoError(t, err)
	enforcer, err := casbin.NewEnforcer("../../../../../resources/rbac_model.conf", "../../../../../resources/rbac_policy.csv")
	require.NoError(t, err)
	return NewMiddlewares(zap.NewNop(), cfg, enforcer, jm), jm
}

func tokenFor(t *testing.T, jm *jwtmanager.JWTManager, id string, role models.ActorRole) string {
	t.Helper()
	out, err := jm.CreateToken(context.Background(), &jwtmanager.CreateTokenInput{Subject: id, Role: role})
	require.NoError(t, err)
	return out.Token
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestIDMiddleware(t *testing.T) {
	m, _ := newTestMiddlewares(t)

	var seen string
	var fromClient bool
	handler := m.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.RequestIDFromContext(r.Context())
		fromClient, _ = r.Context().Value(constvars.CONTEXT_IS_CLIENT_REQUEST_ID_KEY).(bool)
	}))

	t.Run("keeps the client request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, "client-abc")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-abc", seen)
		assert.True(t, fromClient)
		assert.Equal(t, "client-abc", rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("generates one when absent", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.True(t, strings.HasPrefix(seen, constvars.REQUEST_ID_PREFIX))
		assert.False(t, fromClient)
		assert.Equal(t, seen, rr.Header().Get(constvars.HeaderXRequestID))
	})

	t.Run("replaces an oversized client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderXRequestID, strings.Repeat("x", maxClientRequestIDLength+1))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, strings.HasPrefix(seen, constvars.REQUEST_ID_PREFIX))
		assert.False(t, fromClient)
	})
}

func TestLogging(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	core, logs := observer.New(zapcore.DebugLevel)
	m.Log = zap.New(core)

	handler := m.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nope"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/x", nil)
	req = req.WithContext(utils.ContextWithRequestID(req.Context(), "req-1"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	completed := logs.FilterMessage("API request completed").All()
	require.Len(t, completed, 1)
	assert.Equal(t, zapcore.WarnLevel, completed[0].Level)
	fields := completed[0].ContextMap()
	assert.Equal(t, int64(404), fields[constvars.LoggingStatusCodeKey])
	assert.Equal(t, int64(4), fields["response_bytes"])
	assert.Equal(t, "req-1", fields[constvars.LoggingRequestIDKey])
}

func TestErrorHandler(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	handler := m.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal", decodeError(t, rr)["kind"])
}

func TestAuthenticate(t *testing.T) {
	m, jm := newTestMiddlewares(t)

	var actor models.Actor
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, _ = ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("not a bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Basic abc")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer not.a.token")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "unauthorized", decodeError(t, rr)["kind"])
	})

	t.Run("valid token attaches the actor", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+tokenFor(t, jm, "mentor-1", models.ActorRoleMentor))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, models.Actor{ID: "mentor-1", Role: models.ActorRoleMentor}, actor)
	})
}

func TestAuthorize(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	handler := m.Authorize(okHandler)

	tests := []struct {
		name   string
		role   models.ActorRole
		method string
		path   string
		want   int
	}{
		{"mentee books", models.ActorRoleMentee, http.MethodPost, "/api/v1/sessions", http.StatusOK},
		{"mentor cannot book", models.ActorRoleMentor, http.MethodPost, "/api/v1/sessions", http.StatusForbidden},
		{"mentor publishes a slot", models.ActorRoleMentor, http.MethodPost, "/api/v1/slots", http.StatusOK},
		{"mentee reads slots", models.ActorRoleMentee, http.MethodGet, "/api/v1/mentors/m-1/slots", http.StatusOK},
		{"mentee approves reschedule", models.ActorRoleMentee, http.MethodPost, "/api/v1/reschedules/r-1/approve", http.StatusOK},
		{"admin rejects reschedule", models.ActorRoleAdmin, http.MethodPost, "/api/v1/reschedules/r-1/reject", http.StatusOK},
		{"unknown reschedule verb", models.ActorRoleAdmin, http.MethodPost, "/api/v1/reschedules/r-1/delete", http.StatusForbidden},
		{"admin refunds", models.ActorRoleAdmin, http.MethodPost, "/api/v1/payments/p-1/refund", http.StatusOK},
		{"mentee cannot refund", models.ActorRoleMentee, http.MethodPost, "/api/v1/payments/p-1/refund", http.StatusForbidden},
		{"mentor requests payout", models.ActorRoleMentor, http.MethodPost, "/api/v1/mentors/m-1/payouts", http.StatusOK},
		{"mentor lists payouts", models.ActorRoleMentor, http.MethodGet, "/api/v1/mentors/m-1/payouts", http.StatusOK},
		{"admin cannot request payout", models.ActorRoleAdmin, http.MethodPost, "/api/v1/mentors/m-1/payouts", http.StatusForbidden},
		{"only admin processes payouts", models.ActorRoleMentor, http.MethodPost, "/api/v1/payouts/po-1/process", http.StatusForbidden},
		{"mentee opens dispute", models.ActorRoleMentee, http.MethodPost, "/api/v1/disputes", http.StatusOK},
		{"admin resolves dispute", models.ActorRoleAdmin, http.MethodPost, "/api/v1/disputes/d-1/resolve", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req = req.WithContext(ContextWithActor(req.Context(), models.Actor{ID: "u-1", Role: tt.role}))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}

	t.Run("no actor in context", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(zap.NewNop(), 1, 2, time.Minute)
	rl.now = func() time.Time { return now }
	handler := rl.Limit(okHandler)

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/card", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"), "other clients keep their own bucket")

	now = now.Add(30 * time.Second)
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1003"), "still blocked")

	now = now.Add(31 * time.Second)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1004"))
}

func TestBodyBuffer(t *testing.T) {
	m, _ := newTestMiddlewares(t)

	var raw []byte
	var reread []byte
	handler := m.BodyBuffer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = RawBodyFromContext(r.Context())
		reread, _ = io.ReadAll(r.Body)
	}))

	payload := `{"id":"evt_1","amount":50}`
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)))

	assert.Equal(t, payload, string(raw))
	assert.Equal(t, payload, string(reread))
}

func TestRelativePath(t *testing.T) {
	m, _ := newTestMiddlewares(t)
	assert.Equal(t, "/sessions/s-1", m.relativePath("/api/v1/sessions/s-1"))
	assert.Equal(t, "/", m.relativePath("/api/v1"))
	assert.Equal(t, "/health", m.relativePath("/health"))
}

type stubActionLimiter struct {
	out   *ratelimiter.AllowOutput
	err   error
	calls []*ratelimiter.AllowInput
}

func (s *stubActionLimiter) Allow(ctx context.Context, in *ratelimiter.AllowInput) (*ratelimiter.AllowOutput, error) {
	s.calls = append(s.calls, in)
	return s.out, s.err
}

func TestActionQuota(t *testing.T) {
	actor := models.Actor{ID: "mentor-1", Role: models.ActorRoleMentor}
	serve := func(m *Middlewares, withActor bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/disputes", nil)
		if withActor {
			req = req.WithContext(ContextWithActor(req.Context(), actor))
		}
		rr := httptest.NewRecorder()
		m.ActionQuota("dispute-create", 3, time.Hour)(okHandler).ServeHTTP(rr, req)
		return rr
	}

	t.Run("no limiter configured", func(t *testing.T) {
		m, _ := newTestMiddlewares(t)
		assert.Equal(t, http.StatusOK, serve(m, true).Code)
	})

	t.Run("counts the authenticated actor", func(t *testing.T) {
		m, _ := newTestMiddlewares(t)
		limiter := &stubActionLimiter{out: &ratelimiter.AllowOutput{Allowed: true}}
		m.ActionLimiter = limiter

		assert.Equal(t, http.StatusOK, serve(m, true).Code)
		require.Len(t, limiter.calls, 1)
		assert.Equal(t, "dispute-create", limiter.calls[0].Group)
		assert.Equal(t, "mentor-1", limiter.calls[0].ActorID)
		assert.Equal(t, 3, limiter.calls[0].Quota)
	})

	t.Run("over quota", func(t *testing.T) {
		m, _ := newTestMiddlewares(t)
		m.ActionLimiter = &stubActionLimiter{out: &ratelimiter.AllowOutput{Allowed: false, RetryAfter: 90 * time.Second}}

		rr := serve(m, true)
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "90", rr.Header().Get(constvars.HeaderRetryAfter))
		assert.Equal(t, "rate_limited", decodeError(t, rr)["kind"])
	})

	t.Run("limiter failure lets the request through", func(t *testing.T) {
		m, _ := newTestMiddlewares(t)
		m.ActionLimiter = &stubActionLimiter{err: assert.AnError}
		assert.Equal(t, http.StatusOK, serve(m, true).Code)
	})

	t.Run("anonymous requests are not counted", func(t *testing.T) {
		m, _ := newTestMiddlewares(t)
		limiter := &stubActionLimiter{out: &ratelimiter.AllowOutput{Allowed: false}}
		m.ActionLimiter = limiter
		assert.Equal(t, http.StatusOK, serve(m, false).Code)
		assert.Empty(t, limiter.calls)
	})
}
