package queries

const timeSlotColumns = `id, mentor_id, start_time, duration_minutes, is_booked, session_id, created_at, updated_at`

const (
	GetTimeSlotByID = `SELECT ` + timeSlotColumns + ` FROM time_slots WHERE id = $1`

	GetTimeSlotByIDForUpdate = `SELECT ` + timeSlotColumns + ` FROM time_slots WHERE id = $1 FOR UPDATE`

	GetAvailableTimeSlotsByMentorID = `
		SELECT ` + timeSlotColumns + `
		FROM time_slots
		WHERE mentor_id = $1 AND is_booked = FALSE AND start_time >= $2 AND start_time < $3
		ORDER BY start_time ASC
	`

	// excluded slot id may be empty
	HasOverlappingTimeSlot = `
		SELECT EXISTS (
			SELECT 1 FROM time_slots
			WHERE mentor_id = $1
			  AND start_time < $3
			  AND start_time + make_interval(mins => duration_minutes) > $2
			  AND id::text <> $4
		)
	`

	InsertTimeSlot = `
		INSERT INTO time_slots (id, mentor_id, start_time, duration_minutes, is_booked, session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	UpdateTimeSlot = `
		UPDATE time_slots
		SET start_time = $1, duration_minutes = $2, is_booked = $3, session_id = $4, updated_at = $5
		WHERE id = $6
	`
)
