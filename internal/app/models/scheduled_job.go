package models

import "time"

type JobOperation string

const (
	JobSessionPaymentTimeout JobOperation = "session.payment_timeout"
	JobPaymentCaptureTimeout JobOperation = "payment.capture_timeout"
	JobSessionAutoComplete   JobOperation = "session.auto_complete"
	JobRescheduleAutoResolve JobOperation = "reschedule.auto_resolve"
	JobBalanceRelease        JobOperation = "balance.release"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusDone    JobStatus = "done"
	JobStatusDead    JobStatus = "dead"
)

// ScheduledJob is a durable one-shot invocation of Operation against EntityID at RunAt.
type ScheduledJob struct {
	ID        string       `json:"id"`
	Operation JobOperation `json:"operation"`
	EntityID  string       `json:"entity_id"`
	RunAt     time.Time    `json:"run_at"`
	Status    JobStatus    `json:"status"`
	Attempts  int          `json:"attempts"`
	LastError string       `json:"last_error,omitempty"`
	TimeModel
}
