package routers

import (
	"bytes"
	"context"
	"mentorship-service/internal/app/delivery/http/controllers"
	"mentorship-service/internal/app/delivery/http/middlewares"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/core/coretest"
	"mentorship-service/internal/app/services/shared/jwtmanager"
	"mentorship-service/internal/app/services/shared/ratelimiter"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/testutil"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	h      *coretest.Harness
	router *chi.Mux
	tokens map[string]string
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	h := coretest.New(t)
	h.Config.App.EndpointPrefix = "api"
	h.Config.App.Version = "v1"
	h.Config.App.MaxRequests = 1000
	h.Config.App.RequestBodyLimitInMegabyte = 2
	h.Config.JWT.Secret = "router-test-secret"
	h.Config.JWT.ExpiryInMinutes = 10
	h.Config.Payout.RequestQuotaPerDay = 2

	logger := zap.NewNop()
	jm, err := jwtmanager.NewJWTManager(h.Config, logger)
	require.NoError(t, err)
	enforcer, err := casbin.NewEnforcer("../../../../../resources/rbac_model.conf", "../../../../../resources/rbac_policy.csv")
	require.NoError(t, err)

	m := middlewares.NewMiddlewares(logger, h.Config, enforcer, jm)
	m.ActionLimiter = ratelimiter.NewActionLimiter(h.Redis, logger)
	router := chi.NewRouter()
	SetupRoutes(router, h.Config, m, WebhookLimiter(m), Controllers{
		Slot:       &controllers.SlotController{Log: logger, SlotUsecase: h.Slots, Clock: h.Clock},
		Session:    &controllers.SessionController{Log: logger, BookingUsecase: h.Bookings, CancellationUsecase: h.Cancellations},
		Reschedule: &controllers.RescheduleController{Log: logger, RescheduleUsecase: h.Reschedules},
		Payment:    &controllers.PaymentController{Log: logger, PaymentUsecase: h.Payments},
		Webhook:    &controllers.WebhookController{Log: logger, PaymentUsecase: h.Payments},
		Balance:    &controllers.BalanceController{Log: logger, BalanceUsecase: h.Balances},
		Dispute: &controllers.DisputeController{
			Log:               logger,
			DisputeUsecase:    h.Disputes,
			Clock:             h.Clock,
			MaxUploadBytes:    1 << 20,
			EvidenceURLExpiry: 30 * time.Minute,
		},
	})

	tokens := map[string]string{}
	for _, actor := range []models.Actor{coretest.Mentor(), coretest.Mentee(), coretest.Other(), coretest.Admin()} {
		out, err := jm.CreateToken(context.Background(), &jwtmanager.CreateTokenInput{Subject: actor.ID, Role: actor.Role})
		require.NoError(t, err)
		tokens[actor.ID] = out.Token
	}
	return &apiFixture{h: h, router: router, tokens: tokens}
}

func (f *apiFixture) do(t *testing.T, actorID, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	return f.serve(t, actorID, req)
}

func (f *apiFixture) serve(t *testing.T, actorID string, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if actorID != "" {
		req.Header.Set(constvars.HeaderAuthorization, "Bearer "+f.tokens[actorID])
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr, env
}

func decodeData(t *testing.T, env envelope, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, target))
}

func TestSlotRoutes(t *testing.T) {
	f := newAPIFixture(t)
	start := coretest.Epoch.Add(72 * time.Hour)

	rr, env := f.do(t, coretest.MentorID, http.MethodPost, "/slots", map[string]interface{}{
		"start_time":       start.Format(time.RFC3339),
		"duration_minutes": 30,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var slot models.TimeSlot
	decodeData(t, env, &slot)
	assert.Equal(t, coretest.MentorID, slot.MentorID)

	rr, env = f.do(t, coretest.MenteeID, http.MethodGet, "/mentors/"+coretest.MentorID+"/slots", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var slots []models.TimeSlot
	decodeData(t, env, &slots)
	require.Len(t, slots, 1)
	assert.Equal(t, slot.ID, slots[0].ID)

	t.Run("rejects an unsupported duration before reaching the usecase", func(t *testing.T) {
		rr, env := f.do(t, coretest.MentorID, http.MethodPost, "/slots", map[string]interface{}{
			"start_time":       start.Add(4 * time.Hour).Format(time.RFC3339),
			"duration_minutes": 45,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "validation", env.Kind)
	})

	t.Run("mentees cannot publish slots", func(t *testing.T) {
		rr, _ := f.do(t, coretest.MenteeID, http.MethodPost, "/slots", map[string]interface{}{
			"start_time":       start.Add(8 * time.Hour).Format(time.RFC3339),
			"duration_minutes": 30,
		})
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("bad time range", func(t *testing.T) {
		rr, _ := f.do(t, coretest.MenteeID, http.MethodGet, "/mentors/"+coretest.MentorID+"/slots?from=yesterday", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("requires a bearer token", func(t *testing.T) {
		rr, _ := f.do(t, "", http.MethodGet, "/mentors/"+coretest.MentorID+"/slots", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestBookingPaymentAndCancellationRoutes(t *testing.T) {
	f := newAPIFixture(t)
	slot := f.h.PublishSlot(t, 72*time.Hour)

	rr, _ := f.do(t, coretest.MentorID, http.MethodPost, "/sessions", map[string]string{"slot_id": slot.ID})
	assert.Equal(t, http.StatusForbidden, rr.Code, "mentors do not book")

	rr, env := f.do(t, coretest.MenteeID, http.MethodPost, "/sessions", map[string]string{"slot_id": slot.ID})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var session models.Session
	decodeData(t, env, &session)
	assert.Equal(t, models.SessionStatusPending, session.Status)

	rr, _ = f.do(t, coretest.OtherID, http.MethodPost, "/sessions", map[string]string{"slot_id": slot.ID})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr, _ = f.do(t, coretest.OtherID, http.MethodGet, "/sessions/"+session.ID, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, env = f.do(t, coretest.MenteeID, http.MethodPost, "/payments/intents", map[string]string{
		"session_id": session.ID,
		"provider":   "card",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var intent struct {
		PaymentID string `json:"payment_id"`
		IntentID  string `json:"intent_id"`
	}
	decodeData(t, env, &intent)
	require.NotEmpty(t, intent.IntentID)

	webhook := func(provider, signature string, payload []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/"+provider, bytes.NewReader(payload))
		req.Header.Set(constvars.HeaderCardSignature, signature)
		rr, _ := f.serve(t, "", req)
		return rr
	}

	payload := f.h.Card.CallbackPayload("evt-http-1", intent.IntentID, models.PaymentStatusCaptured)
	assert.Equal(t, http.StatusUnauthorized, webhook("card", "forged", payload).Code)
	assert.Equal(t, models.SessionStatusPending, f.h.Store.Session(session.ID).Status)
	assert.Equal(t, http.StatusBadRequest, webhook("barter", testutil.FakeWebhookSignature, payload).Code)

	assert.Equal(t, http.StatusOK, webhook("card", testutil.FakeWebhookSignature, payload).Code)
	assert.Equal(t, models.SessionStatusConfirmed, f.h.Store.Session(session.ID).Status)

	unknown := f.h.Card.CallbackPayload("evt-http-2", "pi_unknown", models.PaymentStatusCaptured)
	assert.Equal(t, http.StatusOK, webhook("card", testutil.FakeWebhookSignature, unknown).Code, "reconciliation failures are acknowledged")

	rr, env = f.do(t, coretest.MenteeID, http.MethodPost, "/sessions/"+session.ID+"/cancel", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var record models.CancelRecord
	decodeData(t, env, &record)
	testutil.AssertMoney(t, "100", record.RefundPercentage)
	assert.Equal(t, models.SessionStatusCancelled, f.h.Store.Session(session.ID).Status)

	rr, env = f.do(t, coretest.MenteeID, http.MethodPost, "/sessions/"+session.ID+"/cancel", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "conflict", env.Kind)
}

func TestConfirmPaymentRoute(t *testing.T) {
	f := newAPIFixture(t)
	session := f.h.Book(t, 72*time.Hour)
	intent, err := f.h.Payments.CreateIntent(coretest.Ctx(), coretest.Mentee(), session.ID, models.PaymentProviderCard)
	require.NoError(t, err)
	f.h.Card.Capture(intent.IntentID)

	rr, _ := f.do(t, coretest.MenteeID, http.MethodPost, "/payments/confirm", map[string]string{"intent_id": intent.IntentID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = f.do(t, coretest.MenteeID, http.MethodPost, "/payments/confirm", map[string]string{"provider": "wallet", "intent_id": intent.IntentID})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, env := f.do(t, coretest.MenteeID, http.MethodPost, "/payments/confirm", map[string]string{"provider": "card", "intent_id": intent.IntentID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var confirmed models.Session
	decodeData(t, env, &confirmed)
	assert.Equal(t, models.SessionStatusConfirmed, confirmed.Status)
}

func TestRefundRoute(t *testing.T) {
	f := newAPIFixture(t)
	_, payment := f.h.Confirmed(t, 72*time.Hour)

	rr, _ := f.do(t, coretest.MenteeID, http.MethodPost, "/payments/"+payment.ID+"/refund", map[string]string{"percentage": "50"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, env := f.do(t, coretest.AdminID, http.MethodPost, "/payments/"+payment.ID+"/refund", map[string]string{"percentage": "101"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "validation", env.Kind)

	rr, env = f.do(t, coretest.AdminID, http.MethodPost, "/payments/"+payment.ID+"/refund", map[string]string{"percentage": "50"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var refunded models.Payment
	decodeData(t, env, &refunded)
	testutil.AssertMoney(t, "25", refunded.RefundAmount)
}

func TestRescheduleRoutes(t *testing.T) {
	f := newAPIFixture(t)
	session, _ := f.h.Confirmed(t, 72*time.Hour)
	newStart := session.StartTime.Add(48 * time.Hour)

	rr, env := f.do(t, coretest.MenteeID, http.MethodPost, "/sessions/"+session.ID+"/reschedules", map[string]string{
		"new_start": newStart.Format(time.RFC3339),
		"reason":    "travel",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var request models.RescheduleRequest
	decodeData(t, env, &request)

	rr, _ = f.do(t, coretest.MenteeID, http.MethodPost, "/reschedules/"+request.ID+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code, "the requester cannot approve their own request")

	rr, env = f.do(t, coretest.MentorID, http.MethodPost, "/reschedules/"+request.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, env, &request)
	assert.Equal(t, models.RescheduleStatusApproved, request.Status)
	assert.True(t, f.h.Store.Session(session.ID).StartTime.Equal(newStart))
}

func TestBalanceAndPayoutRoutes(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.h.Balances.InitializeBalance(coretest.Ctx(), coretest.MentorID))

	rr, _ := f.do(t, coretest.MentorID, http.MethodGet, "/mentors/"+coretest.MentorID+"/balance", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = f.do(t, coretest.MentorID, http.MethodGet, "/mentors/"+coretest.OtherID+"/balance", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = f.do(t, coretest.AdminID, http.MethodGet, "/mentors/"+coretest.MentorID+"/balance", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := f.do(t, coretest.MentorID, http.MethodPost, "/mentors/"+coretest.MentorID+"/payouts", map[string]string{"amount": "10"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, "business_rule", env.Kind)

	rr, _ = f.do(t, coretest.MentorID, http.MethodPost, "/mentors/"+coretest.MentorID+"/payouts", map[string]string{"amount": "10"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	rr, env = f.do(t, coretest.MentorID, http.MethodPost, "/mentors/"+coretest.MentorID+"/payouts", map[string]string{"amount": "10"})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code, "daily payout request quota")
	assert.Equal(t, "rate_limited", env.Kind)
	assert.NotEmpty(t, rr.Header().Get(constvars.HeaderRetryAfter))

	rr, _ = f.do(t, coretest.MentorID, http.MethodGet, "/mentors/"+coretest.MentorID+"/payouts", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = f.do(t, coretest.MentorID, http.MethodPost, "/payouts/"+coretest.OtherID+"/process", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = f.do(t, coretest.AdminID, http.MethodPost, "/payouts/"+coretest.OtherID+"/process", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, _ = f.do(t, coretest.AdminID, http.MethodPost, "/payouts/not-a-uuid/process", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDisputeRoutes(t *testing.T) {
	f := newAPIFixture(t)
	session, _ := f.h.Completed(t)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("session_id", session.ID))
	require.NoError(t, form.WriteField("reason", "mentor did not show up"))
	part, err := form.CreateFormFile("evidence", "screenshot.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG fake image"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/disputes", &body)
	req.Header.Set(constvars.HeaderContentType, form.FormDataContentType())
	rr, env := f.serve(t, coretest.MenteeID, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var dispute models.Dispute
	decodeData(t, env, &dispute)
	require.Len(t, dispute.EvidenceKeys, 1)
	key := dispute.EvidenceKeys[0]
	assert.Equal(t, "disputes/"+dispute.ID+"/screenshot.png", key)
	assert.Contains(t, f.h.Evidence.Objects, key)

	rr, env = f.do(t, coretest.MenteeID, http.MethodGet, "/disputes/"+dispute.ID+"/evidence-url?object_key="+key, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var link struct {
		URL string `json:"url"`
	}
	decodeData(t, env, &link)
	assert.True(t, strings.HasSuffix(link.URL, "?expires=1800"))

	rr, _ = f.do(t, coretest.MenteeID, http.MethodGet, "/disputes/"+dispute.ID+"/evidence-url", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, _ = f.do(t, coretest.MentorID, http.MethodGet, "/disputes/"+dispute.ID+"/evidence-url?object_key="+key, nil)
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr, _ = f.do(t, coretest.OtherID, http.MethodGet, "/disputes/"+dispute.ID+"/evidence-url?object_key="+key, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, _ = f.do(t, coretest.MenteeID, http.MethodPost, "/disputes/"+dispute.ID+"/resolve", map[string]string{
		"decision":   "reject",
		"resolution": "no evidence of a missed session",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, env = f.do(t, coretest.AdminID, http.MethodPost, "/disputes/"+dispute.ID+"/resolve", map[string]string{
		"decision":   "reject",
		"resolution": "no evidence of a missed session",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, env, &dispute)
	assert.Equal(t, models.DisputeStatusRejected, dispute.Status)
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newAPIFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/mentors/"+coretest.MentorID+"/slots", nil)
	req.Header.Set(constvars.HeaderXRequestID, "trace-123")
	rr, _ := f.serve(t, coretest.MenteeID, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "trace-123", rr.Header().Get(constvars.HeaderXRequestID))
}
