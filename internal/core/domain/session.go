package domain

import "time"

// Role is the arena role a user picks at sign-up.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleSpectator   Role = "spectator"
)

// ParseRole normalises a stored role. Anything unknown is a spectator.
func ParseRole(s string) Role {
	if Role(s) == RoleParticipant {
		return RoleParticipant
	}
	return RoleSpectator
}

// ProviderUser is the identity reported by the external auth provider.
type ProviderUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role,omitempty"`
}

// ProviderSession is the auth-provider session backing one browser session.
type ProviderSession struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         ProviderUser `json:"user"`
}

// ExpiresWithin reports whether the access token expires inside d.
func (s *ProviderSession) ExpiresWithin(now time.Time, d time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(d).Before(s.ExpiresAt)
}

// Session is the identity the store exposes to views.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	AccessToken string `json:"-"`
}

// NoticeKind distinguishes the two transient notification types.
type NoticeKind string

const (
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
)

// Notice is the single-slot notification. The zero value is empty.
type Notice struct {
	Kind    NoticeKind `json:"kind,omitempty"`
	Message string     `json:"message,omitempty"`
}

func (n Notice) Empty() bool { return n.Message == "" }

// AuthState is an immutable snapshot of a session store.
type AuthState struct {
	Session   *Session `json:"session"`
	Profile   Profile  `json:"profile"`
	Loading   bool     `json:"loading"`
	HasLoaded bool     `json:"has_loaded"`
	Notice    Notice   `json:"notice"`
}

// LastError returns the pending error message, if any.
func (s AuthState) LastError() string {
	if s.Notice.Kind == NoticeError {
		return s.Notice.Message
	}
	return ""
}

// LastSuccess returns the pending success message, if any.
func (s AuthState) LastSuccess() string {
	if s.Notice.Kind == NoticeSuccess {
		return s.Notice.Message
	}
	return ""
}
