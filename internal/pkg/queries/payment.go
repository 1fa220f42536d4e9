package queries

const paymentColumns = `id, session_id, provider, provider_intent_id, provider_transaction_id,
	captured_amount, captured_currency, amount, currency, status,
	commission_rate, mentor_amount, mentor_deduction, refund_amount, refund_percentage, failure_reason,
	paid_at, release_at, released_at, refunded_at, cancelled_at, created_at, updated_at`

const (
	GetPaymentByID = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	GetPaymentByIDForUpdate = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`

	GetPaymentByIntentIDForUpdate = `SELECT ` + paymentColumns + ` FROM payments WHERE provider = $1 AND provider_intent_id = $2 FOR UPDATE`

	GetPaymentBySessionID = `SELECT ` + paymentColumns + ` FROM payments WHERE session_id = $1`

	InsertPayment = `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	UpdatePayment = `
		UPDATE payments
		SET provider_transaction_id = $1, captured_amount = $2, captured_currency = $3, status = $4,
			mentor_amount = $5, mentor_deduction = $6, refund_amount = $7, refund_percentage = $8,
			failure_reason = $9, paid_at = $10, release_at = $11, released_at = $12, refunded_at = $13,
			cancelled_at = $14, updated_at = $15
		WHERE id = $16
	`
)
