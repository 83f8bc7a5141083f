package messaging

import "time"

// CheckOutEvent is the JSON payload published after a successful
// check-out, consumed by the email worker.
type CheckOutEvent struct {
	RecordID     string    `json:"recordId"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	TotalHours   float64   `json:"totalHours"`
	ClockOutTime time.Time `json:"clockOutTime"`
}
