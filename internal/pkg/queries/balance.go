package queries

const (
	InsertMentorBalanceIfAbsent = `
		INSERT INTO mentor_balances (mentor_id, pending_balance, available_balance, total_earnings, created_at, updated_at)
		VALUES ($1, 0, 0, 0, $2, $2)
		ON CONFLICT (mentor_id) DO NOTHING
	`

	GetMentorBalanceByMentorID = `
		SELECT mentor_id, pending_balance, available_balance, total_earnings, created_at, updated_at
		FROM mentor_balances
		WHERE mentor_id = $1
	`

	GetMentorBalanceByMentorIDForUpdate = GetMentorBalanceByMentorID + ` FOR UPDATE`

	UpdateMentorBalance = `
		UPDATE mentor_balances
		SET pending_balance = $1, available_balance = $2, total_earnings = $3, updated_at = $4
		WHERE mentor_id = $5
	`
)
