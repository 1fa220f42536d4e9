package requests

import "time"

type BookSession struct {
	SlotID string `json:"slot_id" validate:"required,uuid"`
}

type CancelSession struct {
	Reason string `json:"reason" validate:"max=500"`
}

type RequestReschedule struct {
	NewStart time.Time `json:"new_start" validate:"required"`
	Reason   string    `json:"reason" validate:"max=500"`
}
