package queries

const (
	GetMentorByID = `
		SELECT id, name, rate_30, rate_60, currency, created_at, updated_at
		FROM mentors
		WHERE id = $1
	`
)
