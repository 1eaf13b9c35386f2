package models

import "time"

// WaitlistEntry is a signup-interest record: an email and when it arrived.
type WaitlistEntry struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
