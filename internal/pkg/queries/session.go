package queries

const sessionColumns = `id, mentor_id, mentee_id, start_time, end_time, duration_minutes, price, currency, status,
	payment_id, time_slot_id, video_link, cancellation_reason, cancelled_at, completed_at, created_at, updated_at`

const (
	GetSessionByID = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	GetSessionByIDForUpdate = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 FOR UPDATE`

	HasMenteeOverlappingSession = `
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE mentee_id = $1
			  AND status IN ('pending', 'confirmed', 'pending_reschedule')
			  AND start_time < $3 AND end_time > $2
			  AND id::text <> $4
		)
	`

	HasMentorOverlappingSession = `
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE mentor_id = $1
			  AND status IN ('pending', 'confirmed', 'pending_reschedule')
			  AND start_time < $3 AND end_time > $2
			  AND id::text <> $4
		)
	`

	InsertSession = `
		INSERT INTO sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	UpdateSession = `
		UPDATE sessions
		SET start_time = $1, end_time = $2, status = $3, payment_id = $4, time_slot_id = $5, video_link = $6,
			cancellation_reason = $7, cancelled_at = $8, completed_at = $9, updated_at = $10
		WHERE id = $11
	`
)
