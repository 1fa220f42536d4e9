package queries

const rescheduleColumns = `id, session_id, original_start, requested_start, requested_by, requested_by_id, reason,
	status, resolved_by_id, resolved_at, created_at, updated_at`

const (
	GetRescheduleRequestByID = `SELECT ` + rescheduleColumns + ` FROM reschedule_requests WHERE id = $1`

	GetRescheduleRequestByIDForUpdate = `SELECT ` + rescheduleColumns + ` FROM reschedule_requests WHERE id = $1 FOR UPDATE`

	GetPendingRescheduleRequestBySessionID = `
		SELECT ` + rescheduleColumns + `
		FROM reschedule_requests
		WHERE session_id = $1 AND status = 'pending'
	`

	InsertRescheduleRequest = `
		INSERT INTO reschedule_requests (` + rescheduleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	UpdateRescheduleRequest = `
		UPDATE reschedule_requests
		SET status = $1, resolved_by_id = $2, resolved_at = $3, updated_at = $4
		WHERE id = $5
	`
)
