package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SessionStatus string

const (
	SessionStatusPending           SessionStatus = "pending"
	SessionStatusConfirmed         SessionStatus = "confirmed"
	SessionStatusPendingReschedule SessionStatus = "pending_reschedule"
	SessionStatusCompleted         SessionStatus = "completed"
	SessionStatusCancelled         SessionStatus = "cancelled"
)

// ActiveSessionStatuses are the statuses that occupy a participant's calendar.
var ActiveSessionStatuses = []SessionStatus{
	SessionStatusPending,
	SessionStatusConfirmed,
	SessionStatusPendingReschedule,
}

const (
	CancellationReasonPaymentTimeout = "payment timeout"
)

type Session struct {
	ID                 string          `json:"id"`
	MentorID           string          `json:"mentor_id"`
	MenteeID           string          `json:"mentee_id"`
	StartTime          time.Time       `json:"start_time"`
	EndTime            time.Time       `json:"end_time"`
	DurationMinutes    int             `json:"duration_minutes"`
	Price              decimal.Decimal `json:"price"`
	Currency           string          `json:"currency"`
	Status             SessionStatus   `json:"status"`
	PaymentID          *string         `json:"payment_id,omitempty"`
	TimeSlotID         *string         `json:"time_slot_id,omitempty"`
	VideoLink          string          `json:"video_link,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	TimeModel
}

func (s *Session) IsParticipant(userID string) bool {
	return s.MentorID == userID || s.MenteeID == userID
}

// CanAct reports whether the actor may mutate the session as a participant or admin.
func (s *Session) CanAct(actor Actor) bool {
	switch actor.Role {
	case ActorRoleAdmin:
		return true
	case ActorRoleMentor:
		return s.MentorID == actor.ID
	case ActorRoleMentee:
		return s.MenteeID == actor.ID
	default:
		return false
	}
}

func (s *Session) IsActive() bool {
	for _, status := range ActiveSessionStatuses {
		if s.Status == status {
			return true
		}
	}
	return false
}

// Cancel moves the session to cancelled and detaches it from its slot. The caller frees the slot.
func (s *Session) Cancel(reason string, now time.Time) {
	s.Status = SessionStatusCancelled
	s.CancellationReason = reason
	s.CancelledAt = &now
	s.TimeSlotID = nil
	s.SetUpdatedAt(now)
}
