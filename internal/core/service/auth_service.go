package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trackshift/arena-web/internal/core/domain"
	"github.com/trackshift/arena-web/internal/core/ports"
)

// User-facing copy for auth outcomes.
const (
	msgLoginSuccess       = "Login successful! Redirecting..."
	msgLoginFailed        = "Login failed. Please try again."
	msgLoginUnconfirmed   = "Login failed. Please check your email inbox and click the confirmation link first."
	msgLoginInvalid       = "Invalid email or password. Please try again."
	msgSignupSuccess      = "Account created! Please check your email to confirm your account. Redirecting to login..."
	msgSignupFailed       = "Signup failed"
	msgSignupExists       = "This email is already registered. Please sign in instead."
	msgSignupDatabase     = "A database error occurred while creating your account. Please try again later."
	msgCredentialsMissing = "Please enter your email and password."
)

// AuthService runs the sign-in, sign-up and sign-out flows against the auth
// provider and reports the outcome through the session's notice slot.
type AuthService struct {
	reg      *Registry
	provider ports.AuthProvider
	audit    ports.AuditRepository
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// NewAuthService wires an AuthService. audit may be nil.
func NewAuthService(reg *Registry, provider ports.AuthProvider, audit ports.AuditRepository, log zerolog.Logger) *AuthService {
	return &AuthService{
		reg:      reg,
		provider: provider,
		audit:    audit,
		log:      log.With().Str("component", "auth_service").Logger(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Login signs in with email and password. On success the provider session
// is persisted under a fresh browser-session ID, the pre-login session is
// retired, and a signed_in event is published; profile enrichment happens
// off that event. The new ID and its store are returned so the caller can
// re-issue the cookie. On failure the returned error wraps a domain
// sentinel and the user-facing text is already in the old store's notice
// slot.
func (s *AuthService) Login(ctx context.Context, sessionID, email, password string) (string, *Store, error) {
	store := s.reg.Store(sessionID)
	store.ClearMessages()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		store.SetError(msgCredentialsMissing)
		return "", nil, domain.NewFormError(msgCredentialsMissing)
	}

	sess, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		msg, cause := loginFailure(err)
		s.log.Warn().Err(err).Str("email", email).Msg("login failed")
		s.record(ctx, sessionID, "", email, "login", "failure", err.Error())
		store.SetError(msg)
		return "", nil, fmt.Errorf("login: %w", cause)
	}

	newID := s.newID()
	if err := s.reg.Save(ctx, newID, sess); err != nil {
		store.SetError(msgLoginFailed)
		return "", nil, fmt.Errorf("login: save session: %w", err)
	}
	if err := s.reg.Retire(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Msg("failed to retire pre-login session")
	}

	store = s.reg.Store(newID)
	store.BeginCheck()
	if err := s.reg.publish(ctx, domain.EventSignedIn, newID, sess.User.ID); err != nil {
		// Without the event nobody enriches the profile, so do it inline.
		s.log.Warn().Err(err).Msg("publish signed_in failed, fetching profile inline")
		store.FetchProfile(ctx)
	}

	s.record(ctx, newID, sess.User.ID, email, "login", "success", "")
	store.SetSuccess(msgLoginSuccess)
	return newID, store, nil
}

// Register creates a provider account carrying name and role metadata. The
// user still has to confirm their email before signing in.
func (s *AuthService) Register(ctx context.Context, sessionID string, in ports.SignUpInput) error {
	store := s.reg.Store(sessionID)
	store.ClearMessages()

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		store.SetError(msgCredentialsMissing)
		return domain.NewFormError(msgCredentialsMissing)
	}
	if in.Role != domain.RoleSpectator {
		in.Role = domain.RoleParticipant
	}

	user, err := s.provider.SignUp(ctx, in)
	if err != nil {
		msg, cause := signupFailure(err)
		s.log.Warn().Err(err).Str("email", in.Email).Msg("signup failed")
		s.record(ctx, sessionID, "", in.Email, "signup", "failure", err.Error())
		store.SetError(msg)
		return fmt.Errorf("signup: %w", cause)
	}

	s.record(ctx, sessionID, user.ID, in.Email, "signup", "success", string(in.Role))
	store.SetSuccess(msgSignupSuccess)
	return nil
}

// Logout ends the session everywhere: provider, persisted tokens, this
// instance's store, and, through the signed_out event, other instances.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	store := s.reg.Store(sessionID)
	userID := ""
	if st := store.Snapshot(); st.Session != nil {
		userID = st.Session.UserID
	}

	err := store.Logout(ctx)
	if pubErr := s.reg.publish(ctx, domain.EventSignedOut, sessionID, userID); pubErr != nil {
		s.log.Warn().Err(pubErr).Msg("publish signed_out failed")
	}

	outcome := "success"
	detail := ""
	if err != nil {
		outcome = "partial"
		detail = err.Error()
	}
	s.record(ctx, sessionID, userID, "", "logout", outcome, detail)
	return err
}

func (s *AuthService) record(ctx context.Context, sessionID, userID, email, action, outcome, detail string) {
	if s.audit == nil {
		return
	}
	entry := domain.AuthAuditEntry{
		SessionID: sessionID,
		UserID:    userID,
		Email:     email,
		Action:    action,
		Outcome:   outcome,
		Detail:    detail,
		At:        s.now().UTC(),
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("failed to write auth audit entry")
	}
}

// loginFailure maps provider text onto copy and a sentinel.
func loginFailure(err error) (string, error) {
	text := providerText(err)
	switch {
	case strings.Contains(text, "Email not confirmed"):
		return msgLoginUnconfirmed, domain.ErrEmailNotConfirmed
	case strings.Contains(text, "Invalid login credentials"):
		return msgLoginInvalid, domain.ErrInvalidCredentials
	default:
		return msgLoginFailed, err
	}
}

func signupFailure(err error) (string, error) {
	text := providerText(err)
	switch {
	case strings.Contains(text, "User already registered"):
		return msgSignupExists, domain.ErrUserExists
	case strings.Contains(text, "Database error saving new user"):
		return msgSignupDatabase, err
	case text != "":
		return text, err
	default:
		return msgSignupFailed, err
	}
}

func providerText(err error) string {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return ""
}
