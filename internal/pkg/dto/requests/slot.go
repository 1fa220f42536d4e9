package requests

import "time"

type CreateSlot struct {
	MentorID        string    `json:"mentor_id" validate:"omitempty,uuid"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,oneof=30 60"`
}
