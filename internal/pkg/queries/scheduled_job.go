package queries

const (
	InsertScheduledJob = `
		INSERT INTO scheduled_jobs (id, operation, entity_id, run_at, status, attempts, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	// Claims pending jobs that are due and running jobs whose worker went away.
	ClaimDueScheduledJobs = `
		UPDATE scheduled_jobs
		SET status = 'running', attempts = attempts + 1, updated_at = $1
		WHERE id IN (
			SELECT id FROM scheduled_jobs
			WHERE (status = 'pending' AND run_at <= $1)
			   OR (status = 'running' AND updated_at < $2)
			ORDER BY run_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, operation, entity_id, run_at, status, attempts, last_error, created_at, updated_at
	`

	UpdateScheduledJob = `
		UPDATE scheduled_jobs
		SET run_at = $1, status = $2, attempts = $3, last_error = $4, updated_at = $5
		WHERE id = $6
	`
)

const (
	AcquireAdvisoryTransactionLock = `SELECT pg_advisory_xact_lock(hashtext($1))`
)
