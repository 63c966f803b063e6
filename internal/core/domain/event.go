package domain

import "time"

// AuthEventType is a provider session-lifecycle notification.
type AuthEventType string

const (
	EventSignedIn       AuthEventType = "signed_in"
	EventSignedOut      AuthEventType = "signed_out"
	EventTokenRefreshed AuthEventType = "token_refreshed"
)

// AuthEvent is keyed by browser session ID.
type AuthEvent struct {
	Type      AuthEventType `json:"type"`
	SessionID string        `json:"session_id"`
	UserID    string        `json:"user_id,omitempty"`
	At        time.Time     `json:"at"`
}

// AuthAuditEntry is one row of the auth audit trail.
type AuthAuditEntry struct {
	SessionID string
	UserID    string
	Email     string
	Action    string
	Outcome   string
	Detail    string
	At        time.Time
}
