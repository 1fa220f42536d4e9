// Package coretest wires every lifecycle usecase over an in-memory store for tests.
package coretest

import (
	"context"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/app/services/core/balances"
	"mentorship-service/internal/app/services/core/bookings"
	"mentorship-service/internal/app/services/core/cancellations"
	"mentorship-service/internal/app/services/core/disputes"
	"mentorship-service/internal/app/services/core/payments"
	"mentorship-service/internal/app/services/core/reschedules"
	"mentorship-service/internal/app/services/core/scheduler"
	"mentorship-service/internal/app/services/core/slots"
	"mentorship-service/internal/app/services/shared/paymentprovider"
	"mentorship-service/internal/app/services/shared/videolink"
	"mentorship-service/internal/pkg/dto/requests"
	"mentorship-service/internal/pkg/testutil"
	"mentorship-service/internal/pkg/utils"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Epoch is the harness clock's starting instant, a Monday morning.
var Epoch = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

const (
	MentorID  = "6c1f4a38-5a4e-4d43-9a54-1f0f8f6a0b01"
	MenteeID  = "9b2e7c51-0f3d-4c1a-8e8a-3a4b5c6d7e02"
	OtherID   = "2d4f6a8c-1b3d-4e5f-9a7b-8c9d0e1f2a03"
	AdminID   = "f0e1d2c3-b4a5-4968-8776-655443322104"
	WalletFX  = 15000
	MentorFee = 50
)

type Harness struct {
	Store         *testutil.MemStore
	Clock         *testutil.FakeClock
	Card          *testutil.FakeProvider
	Wallet        *testutil.FakeProvider
	Notifications *testutil.FakeNotificationService
	Evidence      *testutil.FakeEvidenceStorage
	PayoutGateway *testutil.FakePayoutGateway
	Redis         *testutil.FakeRedis
	Archive       *testutil.FakeArchive
	RetryQueue    *testutil.FakeRetryQueue
	Config        *config.InternalConfig

	Slots         contracts.SlotUsecase
	Bookings      contracts.BookingUsecase
	Payments      contracts.PaymentUsecase
	Cancellations contracts.CancellationUsecase
	Reschedules   contracts.RescheduleUsecase
	Balances      contracts.BalanceUsecase
	Disputes      contracts.DisputeUsecase
	Dispatcher    contracts.JobDispatcher
	Worker        *scheduler.Worker
}

// Config mirrors the service defaults.
func Config() *config.InternalConfig {
	return &config.InternalConfig{
		App:     config.App{Currency: "USD"},
		Booking: config.AppBooking{AdvanceNoticeInHours: 24, PaymentTimeoutInMinutes: 15, AutoCompleteGraceInMinutes: 60},
		Payment: config.AppPayment{CommissionRate: "0.15", ConfirmHoldInHours: 72},
		Cancellation: config.AppCancel{
			FullRefundNoticeInHours:    48,
			PartialRefundNoticeInHours: 24,
			PartialRefundPercentage:    50,
		},
		Reschedule: config.AppResched{AutoRejectInHours: 48},
		Balance:    config.AppBalance{HoldingPeriodInDays: 3, ReleaseRetryInHours: 24},
		Dispute:    config.AppDispute{WindowInDays: 3, EvidenceMaxSizeInMB: 1, EvidenceURLExpiryInMinutes: 30},
		Scheduler: config.AppScheduler{
			CronSpec:              "@every 30s",
			BatchSize:             50,
			MaxAttempts:           3,
			RetryBackoffInSeconds: 60,
			StaleAfterInMinutes:   10,
		},
		Webhook:   config.AppWebhook{MaxQueue: 20, ThrottleRetry: 3, TickIntervalInSeconds: 30, DedupeTTLInHours: 24},
		VideoLink: config.AppVideoLink{BaseUrl: "https://meet.test"},
	}
}

func New(t *testing.T) *Harness {
	t.Helper()
	logger := zap.NewNop()
	h := &Harness{
		Store:         testutil.NewMemStore(),
		Clock:         testutil.NewFakeClock(Epoch),
		Card:          testutil.NewFakeProvider(models.PaymentProviderCard, "USD", decimal.NewFromInt(1)),
		Wallet:        testutil.NewFakeProvider(models.PaymentProviderWallet, "IDR", decimal.NewFromInt(WalletFX)),
		Notifications: &testutil.FakeNotificationService{},
		Evidence:      &testutil.FakeEvidenceStorage{},
		PayoutGateway: &testutil.FakePayoutGateway{},
		Redis:         testutil.NewFakeRedis(),
		Archive:       &testutil.FakeArchive{},
		RetryQueue:    &testutil.FakeRetryQueue{},
		Config:        Config(),
	}
	h.Wallet.CaptureMins = 60

	registry := paymentprovider.NewRegistry(h.Card, h.Wallet)
	jobs := scheduler.NewSchedulerService(h.Clock, logger)

	h.Slots = slots.NewSlotUsecase(h.Store, h.Clock, logger)
	h.Balances = balances.NewBalanceUsecase(h.Store, jobs, h.PayoutGateway, h.Notifications, h.Clock, h.Config, logger)
	h.Bookings = bookings.NewBookingUsecase(h.Store, h.Slots, h.Balances, jobs, h.Clock, h.Config, logger)
	h.Payments = payments.NewPaymentUsecase(h.Store, registry, h.Slots, h.Balances, jobs,
		videolink.NewPlaceholderGenerator(h.Config.VideoLink.BaseUrl), h.Notifications,
		h.Redis, h.Archive, h.RetryQueue, h.Clock, h.Config, logger)
	h.Cancellations = cancellations.NewCancellationUsecase(h.Store, h.Slots, h.Payments, h.Notifications, h.Clock, h.Config, logger)
	h.Reschedules = reschedules.NewRescheduleUsecase(h.Store, h.Slots, jobs, h.Notifications, h.Clock, h.Config, logger)
	h.Disputes = disputes.NewDisputeUsecase(h.Store, h.Payments, h.Balances, h.Evidence, h.Notifications, h.Clock, h.Config, logger)

	h.Dispatcher = scheduler.NewDispatcher()
	scheduler.RegisterLifecycleHandlers(h.Dispatcher, h.Bookings, h.Payments, h.Reschedules, h.Balances)
	h.Worker = scheduler.NewWorker(logger, h.Config, &testutil.FakeLocker{}, h.Store, h.Dispatcher, h.Clock)

	h.Store.SeedMentor(models.Mentor{
		ID:       MentorID,
		Name:     "Ada Mentor",
		Rate30:   decimal.NewFromInt(MentorFee),
		Rate60:   decimal.NewFromInt(90),
		Currency: "USD",
	})
	return h
}

func Ctx() context.Context {
	return utils.ContextWithRequestID(context.Background(), "test-request")
}

func Mentor() models.Actor { return models.Actor{ID: MentorID, Role: models.ActorRoleMentor} }
func Mentee() models.Actor { return models.Actor{ID: MenteeID, Role: models.ActorRoleMentee} }
func Other() models.Actor  { return models.Actor{ID: OtherID, Role: models.ActorRoleMentee} }
func Admin() models.Actor  { return models.Actor{ID: AdminID, Role: models.ActorRoleAdmin} }

// PublishSlot creates a 30 minute slot for the harness mentor starting after the given offset from now.
func (h *Harness) PublishSlot(t *testing.T, after time.Duration) *models.TimeSlot {
	t.Helper()
	slot, err := h.Slots.CreateSlot(Ctx(), Mentor(), &requests.CreateSlot{
		StartTime:       h.Clock.Now().Add(after),
		DurationMinutes: models.SessionDurationShort,
	})
	require.NoError(t, err)
	return slot
}

// Book publishes a slot starting after the offset and books it for the harness mentee.
func (h *Harness) Book(t *testing.T, after time.Duration) *models.Session {
	t.Helper()
	slot := h.PublishSlot(t, after)
	session, err := h.Bookings.BookSession(Ctx(), MenteeID, slot.ID)
	require.NoError(t, err)
	return session
}

// Pay attaches a card intent to the session and delivers a captured webhook for it.
func (h *Harness) Pay(t *testing.T, sessionID string) *models.Payment {
	t.Helper()
	intent, err := h.Payments.CreateIntent(Ctx(), Mentee(), sessionID, models.PaymentProviderCard)
	require.NoError(t, err)
	payload := h.Card.CallbackPayload("evt-"+intent.IntentID, intent.IntentID, models.PaymentStatusCaptured)
	require.NoError(t, h.Payments.HandleWebhook(Ctx(), models.PaymentProviderCard, payload, testutil.FakeWebhookSignature))
	payment := h.Store.Payment(intent.PaymentID)
	return &payment
}

// Confirmed books and pays a session that starts after the offset.
func (h *Harness) Confirmed(t *testing.T, after time.Duration) (*models.Session, *models.Payment) {
	t.Helper()
	session := h.Book(t, after)
	payment := h.Pay(t, session.ID)
	confirmed := h.Store.Session(session.ID)
	require.Equal(t, models.SessionStatusConfirmed, confirmed.Status)
	return &confirmed, payment
}

// Completed confirms a session and completes it through its auto-complete job.
func (h *Harness) Completed(t *testing.T) (*models.Session, *models.Payment) {
	t.Helper()
	session, _ := h.Confirmed(t, 72*time.Hour)
	h.RunJobsAt(session.EndTime.Add(time.Duration(h.Config.Booking.AutoCompleteGraceInMinutes) * time.Minute))
	completed := h.Store.Session(session.ID)
	require.Equal(t, models.SessionStatusCompleted, completed.Status)
	payment := h.Store.Payment(*completed.PaymentID)
	return &completed, &payment
}

// RunJobsAt moves the clock to at and runs due jobs until none are left.
func (h *Harness) RunJobsAt(at time.Time) int {
	h.Clock.Set(at)
	total := 0
	for i := 0; i < 20; i++ {
		n := h.Worker.RunDue(Ctx())
		if n == 0 {
			break
		}
		total += n
	}
	return total
}
