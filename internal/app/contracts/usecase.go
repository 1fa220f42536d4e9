package contracts

import (
	"context"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/dto/requests"
	"mentorship-service/internal/pkg/dto/responses"
	"time"

	"github.com/shopspring/decimal"
)

type SlotUsecase interface {
	CreateSlot(ctx context.Context, actor models.Actor, request *requests.CreateSlot) (*models.TimeSlot, error)
	ListAvailableSlots(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error)
	// Reserve and Release run inside the caller's transaction.
	Reserve(ctx context.Context, tx Store, slot *models.TimeSlot, sessionID string) error
	Release(ctx context.Context, tx Store, slotID string) error
}

type BookingUsecase interface {
	BookSession(ctx context.Context, menteeID, slotID string) (*models.Session, error)
	GetSession(ctx context.Context, actor models.Actor, sessionID string) (*models.Session, error)
	CompleteSession(ctx context.Context, actor models.Actor, sessionID string) (*models.Session, error)
	HandlePaymentTimeout(ctx context.Context, sessionID string) error
	HandleAutoComplete(ctx context.Context, sessionID string) error
}

type PaymentUsecase interface {
	CreateIntent(ctx context.Context, actor models.Actor, sessionID string, provider models.PaymentProvider) (*responses.PaymentIntent, error)
	HandleWebhook(ctx context.Context, provider models.PaymentProvider, payload []byte, signature string) error
	ReplayWebhook(ctx context.Context, message models.WebhookRetryMessage) error
	ConfirmPayment(ctx context.Context, provider models.PaymentProvider, intentID string) (*models.Session, error)
	RefundPayment(ctx context.Context, paymentID string, percentage decimal.Decimal) (*models.Payment, error)
	// ProcessRefund and ProcessRefundAmount run inside the caller's transaction.
	ProcessRefund(ctx context.Context, tx Store, payment *models.Payment, percentage decimal.Decimal) error
	ProcessRefundAmount(ctx context.Context, tx Store, payment *models.Payment, amount decimal.Decimal) error
	CheckAndCancelPayment(ctx context.Context, paymentID string) error
}

type CancellationUsecase interface {
	CancelSession(ctx context.Context, actor models.Actor, sessionID, reason string) (*models.CancelRecord, error)
}

type RescheduleUsecase interface {
	RequestReschedule(ctx context.Context, actor models.Actor, sessionID string, newStart time.Time, reason string) (*models.RescheduleRequest, error)
	Approve(ctx context.Context, actor models.Actor, rescheduleID string) (*models.RescheduleRequest, error)
	Reject(ctx context.Context, actor models.Actor, rescheduleID string) (*models.RescheduleRequest, error)
	HandleAutoResolve(ctx context.Context, rescheduleID string) error
}

type BalanceUsecase interface {
	InitializeBalance(ctx context.Context, mentorID string) error
	GetBalance(ctx context.Context, mentorID string) (*models.MentorBalance, error)
	// OnSessionCompleted and DeductForRefund run inside the caller's transaction.
	OnSessionCompleted(ctx context.Context, tx Store, sessionID string) error
	DeductForRefund(ctx context.Context, tx Store, payment *models.Payment, refundAmount decimal.Decimal) (decimal.Decimal, models.BalanceBucket, error)
	ReleaseFunds(ctx context.Context, paymentID string) error
	RequestPayout(ctx context.Context, mentorID string, amount decimal.Decimal) (*models.Payout, error)
	ListPayouts(ctx context.Context, mentorID string) ([]models.Payout, error)
	ProcessPayout(ctx context.Context, payoutID string) (*models.Payout, error)
	CancelPayout(ctx context.Context, actor models.Actor, payoutID string) (*models.Payout, error)
}

type DisputeUsecase interface {
	CreateDispute(ctx context.Context, actor models.Actor, sessionID, reason string, evidence []models.EvidenceFile) (*models.Dispute, error)
	ResolveDispute(ctx context.Context, adminID, disputeID string, decision models.DisputeDecision, resolution string, refundAmount decimal.Decimal) (*models.Dispute, error)
	GetEvidenceURL(ctx context.Context, actor models.Actor, disputeID, objectKey string) (string, error)
}
