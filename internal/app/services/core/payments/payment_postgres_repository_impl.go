package payments

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
)

type paymentPostgresRepository struct {
	DB contracts.DBTX
}

func NewPaymentPostgresRepository(db contracts.DBTX) contracts.PaymentRepository {
	return &paymentPostgresRepository{
		DB: db,
	}
}

func (repo *paymentPostgresRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Payment, error) {
	var payment models.Payment
	err := repo.DB.QueryRowContext(ctx, query, args...).Scan(
		&payment.ID,
		&payment.SessionID,
		&payment.Provider,
		&payment.ProviderIntentID,
		&payment.ProviderTransactionID,
		&payment.CapturedAmount,
		&payment.CapturedCurrency,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.CommissionRate,
		&payment.MentorAmount,
		&payment.MentorDeduction,
		&payment.RefundAmount,
		&payment.RefundPercentage,
		&payment.FailureReason,
		&payment.PaidAt,
		&payment.ReleaseAt,
		&payment.ReleasedAt,
		&payment.RefundedAt,
		&payment.CancelledAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &payment, nil
}

func (repo *paymentPostgresRepository) FindByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	return repo.findOne(ctx, queries.GetPaymentByID, paymentID)
}

func (repo *paymentPostgresRepository) FindByIDForUpdate(ctx context.Context, paymentID string) (*models.Payment, error) {
	return repo.findOne(ctx, queries.GetPaymentByIDForUpdate, paymentID)
}

func (repo *paymentPostgresRepository) FindByIntentIDForUpdate(ctx context.Context, provider models.PaymentProvider, intentID string) (*models.Payment, error) {
	return repo.findOne(ctx, queries.GetPaymentByIntentIDForUpdate, provider, intentID)
}

func (repo *paymentPostgresRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	return repo.findOne(ctx, queries.GetPaymentBySessionID, sessionID)
}

func (repo *paymentPostgresRepository) Create(ctx context.Context, payment *models.Payment) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertPayment,
		payment.ID,
		payment.SessionID,
		payment.Provider,
		payment.ProviderIntentID,
		payment.ProviderTransactionID,
		payment.CapturedAmount,
		payment.CapturedCurrency,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CommissionRate,
		payment.MentorAmount,
		payment.MentorDeduction,
		payment.RefundAmount,
		payment.RefundPercentage,
		payment.FailureReason,
		payment.PaidAt,
		payment.ReleaseAt,
		payment.ReleasedAt,
		payment.RefundedAt,
		payment.CancelledAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *paymentPostgresRepository) Update(ctx context.Context, payment *models.Payment) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdatePayment,
		payment.ProviderTransactionID,
		payment.CapturedAmount,
		payment.CapturedCurrency,
		payment.Status,
		payment.MentorAmount,
		payment.MentorDeduction,
		payment.RefundAmount,
		payment.RefundPercentage,
		payment.FailureReason,
		payment.PaidAt,
		payment.ReleaseAt,
		payment.ReleasedAt,
		payment.RefundedAt,
		payment.CancelledAt,
		payment.UpdatedAt,
		payment.ID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
