package queries

const (
	InsertCancelRecord = `
		INSERT INTO cancel_records (id, session_id, cancelled_by, cancelled_by_id, reason, hours_until_start,
			refund_percentage, refund_amount, refund_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	GetCancelRecordBySessionID = `
		SELECT id, session_id, cancelled_by, cancelled_by_id, reason, hours_until_start,
			refund_percentage, refund_amount, refund_status, created_at
		FROM cancel_records
		WHERE session_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
)
