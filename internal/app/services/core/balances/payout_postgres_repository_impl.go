package balances

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
)

type payoutPostgresRepository struct {
	DB contracts.DBTX
}

func NewPayoutPostgresRepository(db contracts.DBTX) contracts.PayoutRepository {
	return &payoutPostgresRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayout(row rowScanner) (*models.Payout, error) {
	var payout models.Payout
	err := row.Scan(
		&payout.ID,
		&payout.MentorID,
		&payout.Amount,
		&payout.Status,
		&payout.ProviderReference,
		&payout.FailureReason,
		&payout.ProcessedAt,
		&payout.CreatedAt,
		&payout.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (repo *payoutPostgresRepository) findOne(ctx context.Context, query, payoutID string) (*models.Payout, error) {
	payout, err := scanPayout(repo.DB.QueryRowContext(ctx, query, payoutID))
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return payout, nil
}

func (repo *payoutPostgresRepository) FindByID(ctx context.Context, payoutID string) (*models.Payout, error) {
	return repo.findOne(ctx, queries.GetPayoutByID, payoutID)
}

func (repo *payoutPostgresRepository) FindByIDForUpdate(ctx context.Context, payoutID string) (*models.Payout, error) {
	return repo.findOne(ctx, queries.GetPayoutByIDForUpdate, payoutID)
}

func (repo *payoutPostgresRepository) FindByMentorID(ctx context.Context, mentorID string) ([]models.Payout, error) {
	rows, err := repo.DB.QueryContext(ctx, queries.GetPayoutsByMentorID, mentorID)
	if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	defer rows.Close()

	var payouts []models.Payout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, exceptions.ErrPostgresDBIterateDataset(err)
		}
		payouts = append(payouts, *payout)
	}

	if err := rows.Err(); err != nil {
		return nil, exceptions.ErrPostgresDBIterateDataset(err)
	}
	return payouts, nil
}

func (repo *payoutPostgresRepository) Create(ctx context.Context, payout *models.Payout) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertPayout,
		payout.ID,
		payout.MentorID,
		payout.Amount,
		payout.Status,
		payout.ProviderReference,
		payout.FailureReason,
		payout.ProcessedAt,
		payout.CreatedAt,
		payout.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *payoutPostgresRepository) Update(ctx context.Context, payout *models.Payout) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdatePayout,
		payout.Status,
		payout.ProviderReference,
		payout.FailureReason,
		payout.ProcessedAt,
		payout.UpdatedAt,
		payout.ID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
