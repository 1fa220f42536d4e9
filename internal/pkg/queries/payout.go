package queries

const payoutColumns = `id, mentor_id, amount, status, provider_reference, failure_reason, processed_at, created_at, updated_at`

const (
	GetPayoutByID = `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	GetPayoutByIDForUpdate = `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1 FOR UPDATE`

	GetPayoutsByMentorID = `SELECT ` + payoutColumns + ` FROM payouts WHERE mentor_id = $1 ORDER BY created_at DESC`

	InsertPayout = `
		INSERT INTO payouts (` + payoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	UpdatePayout = `
		UPDATE payouts
		SET status = $1, provider_reference = $2, failure_reason = $3, processed_at = $4, updated_at = $5
		WHERE id = $6
	`
)
