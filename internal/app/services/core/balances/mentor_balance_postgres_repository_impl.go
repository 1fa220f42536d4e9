package balances

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
	"time"
)

type mentorBalancePostgresRepository struct {
	DB contracts.DBTX
}

func NewMentorBalancePostgresRepository(db contracts.DBTX) contracts.MentorBalanceRepository {
	return &mentorBalancePostgresRepository{
		DB: db,
	}
}

func (repo *mentorBalancePostgresRepository) CreateIfAbsent(ctx context.Context, mentorID string, now time.Time) (bool, error) {
	result, err := repo.DB.ExecContext(ctx, queries.InsertMentorBalanceIfAbsent, mentorID, now)
	if err != nil {
		return false, exceptions.ErrPostgresDBInsertData(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, exceptions.ErrPostgresDBInsertData(err)
	}
	return affected > 0, nil
}

func (repo *mentorBalancePostgresRepository) findOne(ctx context.Context, query, mentorID string) (*models.MentorBalance, error) {
	var balance models.MentorBalance
	err := repo.DB.QueryRowContext(ctx, query, mentorID).Scan(
		&balance.MentorID,
		&balance.PendingBalance,
		&balance.AvailableBalance,
		&balance.TotalEarnings,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &balance, nil
}

func (repo *mentorBalancePostgresRepository) FindByMentorID(ctx context.Context, mentorID string) (*models.MentorBalance, error) {
	return repo.findOne(ctx, queries.GetMentorBalanceByMentorID, mentorID)
}

func (repo *mentorBalancePostgresRepository) FindByMentorIDForUpdate(ctx context.Context, mentorID string) (*models.MentorBalance, error) {
	return repo.findOne(ctx, queries.GetMentorBalanceByMentorIDForUpdate, mentorID)
}

func (repo *mentorBalancePostgresRepository) Update(ctx context.Context, balance *models.MentorBalance) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdateMentorBalance,
		balance.PendingBalance,
		balance.AvailableBalance,
		balance.TotalEarnings,
		balance.UpdatedAt,
		balance.MentorID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
