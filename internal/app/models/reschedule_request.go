package models

import "time"

type RescheduleStatus string

const (
	RescheduleStatusPending  RescheduleStatus = "pending"
	RescheduleStatusApproved RescheduleStatus = "approved"
	RescheduleStatusRejected RescheduleStatus = "rejected"
)

type RescheduleRequest struct {
	ID             string           `json:"id"`
	SessionID      string           `json:"session_id"`
	OriginalStart  time.Time        `json:"original_start"`
	RequestedStart time.Time        `json:"requested_start"`
	RequestedBy    ActorRole        `json:"requested_by"`
	RequestedByID  string           `json:"requested_by_id"`
	Reason         string           `json:"reason,omitempty"`
	Status         RescheduleStatus `json:"status"`
	ResolvedByID   *string          `json:"resolved_by_id,omitempty"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
	TimeModel
}
