package contracts

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/models"
	"time"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories run inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Finders return (nil, nil) when no row matches. ForUpdate variants take a row lock
// that is held until the enclosing transaction ends.

type MentorRepository interface {
	FindByID(ctx context.Context, mentorID string) (*models.Mentor, error)
}

type TimeSlotRepository interface {
	FindByID(ctx context.Context, slotID string) (*models.TimeSlot, error)
	FindByIDForUpdate(ctx context.Context, slotID string) (*models.TimeSlot, error)
	FindAvailableByMentorID(ctx context.Context, mentorID string, from, to time.Time) ([]models.TimeSlot, error)
	HasOverlap(ctx context.Context, mentorID string, start, end time.Time, excludeSlotID string) (bool, error)
	Create(ctx context.Context, slot *models.TimeSlot) error
	Update(ctx context.Context, slot *models.TimeSlot) error
}

type SessionRepository interface {
	FindByID(ctx context.Context, sessionID string) (*models.Session, error)
	FindByIDForUpdate(ctx context.Context, sessionID string) (*models.Session, error)
	HasMenteeOverlap(ctx context.Context, menteeID string, start, end time.Time, excludeSessionID string) (bool, error)
	HasMentorOverlap(ctx context.Context, mentorID string, start, end time.Time, excludeSessionID string) (bool, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
}

type PaymentRepository interface {
	FindByID(ctx context.Context, paymentID string) (*models.Payment, error)
	FindByIDForUpdate(ctx context.Context, paymentID string) (*models.Payment, error)
	FindByIntentIDForUpdate(ctx context.Context, provider models.PaymentProvider, intentID string) (*models.Payment, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
}

type CancelRecordRepository interface {
	Create(ctx context.Context, record *models.CancelRecord) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.CancelRecord, error)
}

type RescheduleRequestRepository interface {
	FindByID(ctx context.Context, rescheduleID string) (*models.RescheduleRequest, error)
	FindByIDForUpdate(ctx context.Context, rescheduleID string) (*models.RescheduleRequest, error)
	FindPendingBySessionID(ctx context.Context, sessionID string) (*models.RescheduleRequest, error)
	Create(ctx context.Context, request *models.RescheduleRequest) error
	Update(ctx context.Context, request *models.RescheduleRequest) error
}

type MentorBalanceRepository interface {
	// CreateIfAbsent inserts a zero balance and reports whether a row was created.
	CreateIfAbsent(ctx context.Context, mentorID string, now time.Time) (bool, error)
	FindByMentorID(ctx context.Context, mentorID string) (*models.MentorBalance, error)
	FindByMentorIDForUpdate(ctx context.Context, mentorID string) (*models.MentorBalance, error)
	Update(ctx context.Context, balance *models.MentorBalance) error
}

type PayoutRepository interface {
	FindByID(ctx context.Context, payoutID string) (*models.Payout, error)
	FindByIDForUpdate(ctx context.Context, payoutID string) (*models.Payout, error)
	FindByMentorID(ctx context.Context, mentorID string) ([]models.Payout, error)
	Create(ctx context.Context, payout *models.Payout) error
	Update(ctx context.Context, payout *models.Payout) error
}

type DisputeRepository interface {
	FindByID(ctx context.Context, disputeID string) (*models.Dispute, error)
	FindByIDForUpdate(ctx context.Context, disputeID string) (*models.Dispute, error)
	FindBySessionID(ctx context.Context, sessionID string) (*models.Dispute, error)
	Create(ctx context.Context, dispute *models.Dispute) error
	Update(ctx context.Context, dispute *models.Dispute) error
}

type ScheduledJobRepository interface {
	Create(ctx context.Context, job *models.ScheduledJob) error
	// ClaimDue marks up to limit due jobs as running and returns them. Jobs stuck in
	// running since before staleBefore are reclaimed.
	ClaimDue(ctx context.Context, now, staleBefore time.Time, limit int) ([]models.ScheduledJob, error)
	Update(ctx context.Context, job *models.ScheduledJob) error
}

// Store groups the repositories bound to one connection or transaction.
type Store interface {
	Mentors() MentorRepository
	Slots() TimeSlotRepository
	Sessions() SessionRepository
	Payments() PaymentRepository
	CancelRecords() CancelRecordRepository
	Reschedules() RescheduleRequestRepository
	Balances() MentorBalanceRepository
	Payouts() PayoutRepository
	Disputes() DisputeRepository
	Jobs() ScheduledJobRepository
	// AdvisoryLock serializes transactions that touch the same key until commit or rollback.
	AdvisoryLock(ctx context.Context, key string) error
}

// UnitOfWork runs fn against a transactional Store. Any error returned by fn rolls back every write.
type UnitOfWork interface {
	Store() Store
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
