package queries

const disputeColumns = `id, session_id, mentee_id, reason, status, resolution, refund_amount, balance_deduction,
	deducted_from, evidence_keys, resolved_by_id, resolved_at, created_at, updated_at`

const (
	GetDisputeByID = `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`

	GetDisputeByIDForUpdate = `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1 FOR UPDATE`

	GetDisputeBySessionID = `SELECT ` + disputeColumns + ` FROM disputes WHERE session_id = $1`

	InsertDispute = `
		INSERT INTO disputes (` + disputeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	UpdateDispute = `
		UPDATE disputes
		SET status = $1, resolution = $2, refund_amount = $3, balance_deduction = $4, deducted_from = $5,
			evidence_keys = $6, resolved_by_id = $7, resolved_at = $8, updated_at = $9
		WHERE id = $10
	`
)
