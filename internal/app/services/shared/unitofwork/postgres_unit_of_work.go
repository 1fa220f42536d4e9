package unitofwork

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/services/core/balances"
	"mentorship-service/internal/app/services/core/bookings"
	"mentorship-service/internal/app/services/core/cancellations"
	"mentorship-service/internal/app/services/core/disputes"
	"mentorship-service/internal/app/services/core/mentors"
	"mentorship-service/internal/app/services/core/payments"
	"mentorship-service/internal/app/services/core/reschedules"
	"mentorship-service/internal/app/services/core/scheduler"
	"mentorship-service/internal/app/services/core/slots"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"

	"go.uber.org/zap"
)

type postgresStore struct {
	db            contracts.DBTX
	mentors       contracts.MentorRepository
	slots         contracts.TimeSlotRepository
	sessions      contracts.SessionRepository
	payments      contracts.PaymentRepository
	cancelRecords contracts.CancelRecordRepository
	reschedules   contracts.RescheduleRequestRepository
	balances      contracts.MentorBalanceRepository
	payouts       contracts.PayoutRepository
	disputes      contracts.DisputeRepository
	jobs          contracts.ScheduledJobRepository
}

func newPostgresStore(db contracts.DBTX) *postgresStore {
	return &postgresStore{
		db:            db,
		mentors:       mentors.NewMentorPostgresRepository(db),
		slots:         slots.NewTimeSlotPostgresRepository(db),
		sessions:      bookings.NewSessionPostgresRepository(db),
		payments:      payments.NewPaymentPostgresRepository(db),
		cancelRecords: cancellations.NewCancelRecordPostgresRepository(db),
		reschedules:   reschedules.NewRescheduleRequestPostgresRepository(db),
		balances:      balances.NewMentorBalancePostgresRepository(db),
		payouts:       balances.NewPayoutPostgresRepository(db),
		disputes:      disputes.NewDisputePostgresRepository(db),
		jobs:          scheduler.NewScheduledJobPostgresRepository(db),
	}
}

func (s *postgresStore) Mentors() contracts.MentorRepository                { return s.mentors }
func (s *postgresStore) Slots() contracts.TimeSlotRepository                { return s.slots }
func (s *postgresStore) Sessions() contracts.SessionRepository              { return s.sessions }
func (s *postgresStore) Payments() contracts.PaymentRepository              { return s.payments }
func (s *postgresStore) CancelRecords() contracts.CancelRecordRepository    { return s.cancelRecords }
func (s *postgresStore) Reschedules() contracts.RescheduleRequestRepository { return s.reschedules }
func (s *postgresStore) Balances() contracts.MentorBalanceRepository        { return s.balances }
func (s *postgresStore) Payouts() contracts.PayoutRepository                { return s.payouts }
func (s *postgresStore) Disputes() contracts.DisputeRepository              { return s.disputes }
func (s *postgresStore) Jobs() contracts.ScheduledJobRepository             { return s.jobs }

func (s *postgresStore) AdvisoryLock(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, queries.AcquireAdvisoryTransactionLock, key); err != nil {
		return exceptions.ErrPostgresDBFindData(err)
	}
	return nil
}

type postgresUnitOfWork struct {
	DB    *sql.DB
	Log   *zap.Logger
	store *postgresStore
}

func NewPostgresUnitOfWork(db *sql.DB, logger *zap.Logger) contracts.UnitOfWork {
	return &postgresUnitOfWork{
		DB:    db,
		Log:   logger,
		store: newPostgresStore(db),
	}
}

// Store returns repositories bound to the pool, outside any transaction.
func (u *postgresUnitOfWork) Store() contracts.Store {
	return u.store
}

func (u *postgresUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx contracts.Store) error) (err error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	sqlTx, err := u.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		u.Log.Error("postgresUnitOfWork.WithinTransaction error beginning transaction",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrPostgresDBBeginTx(err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				u.Log.Error("postgresUnitOfWork.WithinTransaction error rolling back",
					zap.String(constvars.LoggingRequestIDKey, requestID),
					zap.Error(rbErr),
				)
			}
		}
	}()

	if err = fn(ctx, newPostgresStore(sqlTx)); err != nil {
		return err
	}

	if err = sqlTx.Commit(); err != nil {
		u.Log.Error("postgresUnitOfWork.WithinTransaction error committing transaction",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return exceptions.ErrPostgresDBCommitTx(err)
	}
	return nil
}
