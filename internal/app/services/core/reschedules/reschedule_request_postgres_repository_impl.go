package reschedules

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"
)

type rescheduleRequestPostgresRepository struct {
	DB contracts.DBTX
}

func NewRescheduleRequestPostgresRepository(db contracts.DBTX) contracts.RescheduleRequestRepository {
	return &rescheduleRequestPostgresRepository{
		DB: db,
	}
}

func (repo *rescheduleRequestPostgresRepository) findOne(ctx context.Context, query, id string) (*models.RescheduleRequest, error) {
	var request models.RescheduleRequest
	err := repo.DB.QueryRowContext(ctx, query, id).Scan(
		&request.ID,
		&request.SessionID,
		&request.OriginalStart,
		&request.RequestedStart,
		&request.RequestedBy,
		&request.RequestedByID,
		&request.Reason,
		&request.Status,
		&request.ResolvedByID,
		&request.ResolvedAt,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &request, nil
}

func (repo *rescheduleRequestPostgresRepository) FindByID(ctx context.Context, rescheduleID string) (*models.RescheduleRequest, error) {
	return repo.findOne(ctx, queries.GetRescheduleRequestByID, rescheduleID)
}

func (repo *rescheduleRequestPostgresRepository) FindByIDForUpdate(ctx context.Context, rescheduleID string) (*models.RescheduleRequest, error) {
	return repo.findOne(ctx, queries.GetRescheduleRequestByIDForUpdate, rescheduleID)
}

func (repo *rescheduleRequestPostgresRepository) FindPendingBySessionID(ctx context.Context, sessionID string) (*models.RescheduleRequest, error) {
	return repo.findOne(ctx, queries.GetPendingRescheduleRequestBySessionID, sessionID)
}

func (repo *rescheduleRequestPostgresRepository) Create(ctx context.Context, request *models.RescheduleRequest) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertRescheduleRequest,
		request.ID,
		request.SessionID,
		request.OriginalStart,
		request.RequestedStart,
		request.RequestedBy,
		request.RequestedByID,
		request.Reason,
		request.Status,
		request.ResolvedByID,
		request.ResolvedAt,
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *rescheduleRequestPostgresRepository) Update(ctx context.Context, request *models.RescheduleRequest) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdateRescheduleRequest,
		request.Status,
		request.ResolvedByID,
		request.ResolvedAt,
		request.UpdatedAt,
		request.ID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}
