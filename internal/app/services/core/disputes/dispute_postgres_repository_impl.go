package disputes

import (
	"context"
	"database/sql"
	"mentorship-service/internal/app/contracts"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/queries"

	"github.com/lib/pq"
)

type disputePostgresRepository struct {
	DB contracts.DBTX
}

func NewDisputePostgresRepository(db contracts.DBTX) contracts.DisputeRepository {
	return &disputePostgresRepository{
		DB: db,
	}
}

func (repo *disputePostgresRepository) findOne(ctx context.Context, query, id string) (*models.Dispute, error) {
	var dispute models.Dispute
	err := repo.DB.QueryRowContext(ctx, query, id).Scan(
		&dispute.ID,
		&dispute.SessionID,
		&dispute.MenteeID,
		&dispute.Reason,
		&dispute.Status,
		&dispute.Resolution,
		&dispute.RefundAmount,
		&dispute.BalanceDeduction,
		&dispute.DeductedFrom,
		pq.Array(&dispute.EvidenceKeys),
		&dispute.ResolvedByID,
		&dispute.ResolvedAt,
		&dispute.CreatedAt,
		&dispute.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, exceptions.ErrPostgresDBFindData(err)
	}
	return &dispute, nil
}

func (repo *disputePostgresRepository) FindByID(ctx context.Context, disputeID string) (*models.Dispute, error) {
	return repo.findOne(ctx, queries.GetDisputeByID, disputeID)
}

func (repo *disputePostgresRepository) FindByIDForUpdate(ctx context.Context, disputeID string) (*models.Dispute, error) {
	return repo.findOne(ctx, queries.GetDisputeByIDForUpdate, disputeID)
}

func (repo *disputePostgresRepository) FindBySessionID(ctx context.Context, sessionID string) (*models.Dispute, error) {
	return repo.findOne(ctx, queries.GetDisputeBySessionID, sessionID)
}

func (repo *disputePostgresRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	_, err := repo.DB.ExecContext(ctx, queries.InsertDispute,
		dispute.ID,
		dispute.SessionID,
		dispute.MenteeID,
		dispute.Reason,
		dispute.Status,
		dispute.Resolution,
		dispute.RefundAmount,
		dispute.BalanceDeduction,
		dispute.DeductedFrom,
		pq.Array(evidenceKeys(dispute)),
		dispute.ResolvedByID,
		dispute.ResolvedAt,
		dispute.CreatedAt,
		dispute.UpdatedAt,
	)
	if err != nil {
		return exceptions.ErrPostgresDBInsertData(err)
	}
	return nil
}

func (repo *disputePostgresRepository) Update(ctx context.Context, dispute *models.Dispute) error {
	_, err := repo.DB.ExecContext(ctx, queries.UpdateDispute,
		dispute.Status,
		dispute.Resolution,
		dispute.RefundAmount,
		dispute.BalanceDeduction,
		dispute.DeductedFrom,
		pq.Array(evidenceKeys(dispute)),
		dispute.ResolvedByID,
		dispute.ResolvedAt,
		dispute.UpdatedAt,
		dispute.ID,
	)
	if err != nil {
		return exceptions.ErrPostgresDBUpdateData(err)
	}
	return nil
}

// evidence_keys is NOT NULL and pq encodes a nil slice as NULL.
func evidenceKeys(dispute *models.Dispute) []string {
	if dispute.EvidenceKeys == nil {
		return []string{}
	}
	return dispute.EvidenceKeys
}
