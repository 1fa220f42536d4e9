package models

import "time"

type TimeSlot struct {
	ID              string    `json:"id"`
	MentorID        string    `json:"mentor_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	IsBooked        bool      `json:"is_booked"`
	SessionID       *string   `json:"session_id,omitempty"`
	TimeModel
}

func (s *TimeSlot) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// Book marks the slot as owned by sessionID. Booked and SessionID always change together.
func (s *TimeSlot) Book(sessionID string) {
	s.IsBooked = true
	s.SessionID = &sessionID
}

func (s *TimeSlot) Free() {
	s.IsBooked = false
	s.SessionID = nil
}
