package cancellations

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
)

type cancelRecordPostgresRepository struct {
	DB contracts.DBTX
}

func NewCancelRecordPostgresRepository(db contracts.DBTX) contracts.CancelRecordRepository {
	return &cancelRecordPostgresRepository{
		DB: db,
	}
}

func (repo *cancelRecordPostgresRepository) Create(ctx context.Context, record *models.CancelRecord) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertCancelRecord,
		record.ID,
		record.SessionID,
		record.CancelledBy,
		record.CancelledByID,
		record.Reason,
		record.HoursUntilStart,
		record.RefundPercentage,
		record.RefundAmount,
		record.RefundStatus,
		record.CreatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *cancelRecordPostgresRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.CancelRecord, error) {
	var record models.CancelRecord
	err := repo.DB.QueryRowContext(ctx, queries.GetCancelRecordBySessionID, sessionID).Scan(
		&record.ID,
		&record.SessionID,
		&record.CancelledBy,
		&record.CancelledByID,
		&record.Reason,
		&record.HoursUntilStart,
		&record.RefundPercentage,
		&record.RefundAmount,
		&record.RefundStatus,
		&record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &record, nil
}
