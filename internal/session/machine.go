// Package session owns the authentication state machine: it issues commands
// to the identity provider and folds their outcomes into a single observable
// SessionState value.
package session

import (
	"context"
	"log/slog"
	"sync/atomic"

	"alumnihub/internal/domain"
	"alumnihub/internal/identity"
	"alumnihub/internal/watch"
)

// User-facing messages carried by error states.
const (
	msgEmptyCredentials   = "Email or password can't be empty"
	msgSomethingWentWrong = "Something went wrong"
	msgDisplayNameFailed  = "Failed to update display name"
	msgEmailNotVerified   = "Email not verified. Please verify to activate account."
	msgNoUserLoggedIn     = "No user logged in"
	msgVerificationFailed = "Failed to send verification email"
	msgResetFailed        = "An error occurred"
)

// IdentityClient is the slice of the identity provider the machine needs.
type IdentityClient interface {
	CreateAccount(ctx context.Context, email, password string) (domain.Session, error)
	SignIn(ctx context.Context, email, password string) (domain.Session, error)
	SignInWithIDToken(ctx context.Context, provider, rawIDToken string) (domain.Session, error)
	SignOut()
	CurrentSession() (domain.Session, bool)
	SendVerificationEmail(ctx context.Context, sess domain.Session) error
	SendPasswordReset(ctx context.Context, email string) error
	UpdateDisplayName(ctx context.Context, sess domain.Session, name string) (domain.Session, error)
}

// VerifyTokenFunc locally verifies an externally issued ID token against an
// expected audience before it is exchanged with the provider.
type VerifyTokenFunc func(ctx context.Context, tokenString, expectedAud string) (*identity.ExternalTokenClaims, error)

// Machine publishes exactly one SessionState at a time. Commands may be
// issued concurrently; each transition carries the token of the command that
// produced it, and outcomes of superseded commands are discarded rather than
// applied out of order. SignOut always supersedes everything in flight.
type Machine struct {
	identity IdentityClient
	logger   *slog.Logger
	state    *watch.Value[domain.SessionState]
	seq      atomic.Uint64

	GoogleWebClientID   string
	AppleServiceID      string
	VerifyGoogleIDToken VerifyTokenFunc
	VerifyAppleIDToken  VerifyTokenFunc
}

// NewMachine builds the machine and computes the initial state from the
// ambient session: absent or unverified reads as Unauthenticated.
func NewMachine(idc IdentityClient, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Machine{
		identity: idc,
		logger:   logger,
		state:    watch.NewValue(domain.Unauthenticated()),
	}
	m.checkStatus()
	return m
}

func (m *Machine) State() domain.SessionState { return m.state.Get() }

func (m *Machine) Watch(ctx context.Context) <-chan domain.SessionState {
	return m.state.Watch(ctx)
}

// CurrentSession exposes the ambient session for collaborators that need the
// acting identity (profile fetches, posting ownership).
func (m *Machine) CurrentSession() (domain.Session, bool) {
	return m.identity.CurrentSession()
}

func (m *Machine) SignUp(ctx context.Context, email, password, displayName string) {
	if email == "" || password == "" {
		m.state.Set(domain.ErrorState(msgEmptyCredentials))
		return
	}

	tok := m.begin()
	m.publish(tok, domain.Loading())

	sess, err := m.identity.CreateAccount(ctx, email, password)
	if err != nil {
		m.logger.Info("sign up failed", "err", err)
		m.publish(tok, domain.ErrorState(domain.ProviderMessage(err, msgSomethingWentWrong)))
		return
	}

	if _, err := m.identity.UpdateDisplayName(ctx, sess, displayName); err != nil {
		m.logger.Info("display name update failed", "user_id", sess.ID, "err", err)
		m.publish(tok, domain.ErrorState(msgDisplayNameFailed))
		return
	}

	m.logger.Info("account created", "user_id", sess.ID)
	m.publish(tok, domain.Authenticated())
}

func (m *Machine) SignIn(ctx context.Context, email, password string) {
	if email == "" || password == "" {
		m.state.Set(domain.ErrorState(msgEmptyCredentials))
		return
	}

	tok := m.begin()
	m.publish(tok, domain.Loading())

	sess, err := m.identity.SignIn(ctx, email, password)
	if err != nil {
		m.logger.Info("sign in failed", "err", err)
		m.publish(tok, domain.ErrorState(domain.ProviderMessage(err, msgSomethingWentWrong)))
		return
	}

	if !sess.EmailVerified {
		m.publish(tok, domain.ErrorState(msgEmailNotVerified))
		return
	}

	m.logger.Info("signed in", "user_id", sess.ID)
	m.publish(tok, domain.Authenticated())
}

func (m *Machine) SignInWithGoogle(ctx context.Context, rawIDToken string) {
	m.signInExternal(ctx, identity.ProviderGoogle, rawIDToken, m.VerifyGoogleIDToken, m.GoogleWebClientID)
}

func (m *Machine) SignInWithApple(ctx context.Context, rawIDToken string) {
	m.signInExternal(ctx, identity.ProviderApple, rawIDToken, m.VerifyAppleIDToken, m.AppleServiceID)
}

func (m *Machine) signInExternal(ctx context.Context, provider, rawIDToken string, verify VerifyTokenFunc, aud string) {
	tok := m.begin()
	m.publish(tok, domain.Loading())

	if verify != nil {
		if _, err := verify(ctx, rawIDToken, aud); err != nil {
			m.logger.Info("external token rejected", "provider", provider, "err", err)
			m.publish(tok, domain.ErrorState(msgSomethingWentWrong))
			return
		}
	}

	sess, err := m.identity.SignInWithIDToken(ctx, provider, rawIDToken)
	if err != nil {
		m.logger.Info("external sign in failed", "provider", provider, "err", err)
		m.publish(tok, domain.ErrorState(domain.ProviderMessage(err, msgSomethingWentWrong)))
		return
	}

	m.logger.Info("signed in", "provider", provider, "user_id", sess.ID)
	m.publish(tok, domain.Authenticated())
}

// SendVerificationEmail requires an active session, which may be unverified:
// that is exactly the account a verification email is for.
func (m *Machine) SendVerificationEmail(ctx context.Context) {
	sess, ok := m.identity.CurrentSession()
	if !ok {
		m.state.Set(domain.ErrorState(msgNoUserLoggedIn))
		return
	}

	tok := m.begin()
	if err := m.identity.SendVerificationEmail(ctx, sess); err != nil {
		m.logger.Info("verification email failed", "user_id", sess.ID, "err", err)
		m.publish(tok, domain.ErrorState(msgVerificationFailed))
		return
	}
	m.publish(tok, domain.VerificationEmailSent())
}

func (m *Machine) ResetPassword(ctx context.Context, email string) {
	tok := m.begin()
	if err := m.identity.SendPasswordReset(ctx, email); err != nil {
		m.logger.Info("password reset failed", "err", err)
		m.publish(tok, domain.ErrorState(domain.ProviderMessage(err, msgResetFailed)))
		return
	}
	m.publish(tok, domain.ResetPasswordSent())
}

// SignOut clears the session unconditionally. It has no failure path and
// always wins over commands still in flight.
func (m *Machine) SignOut() {
	m.identity.SignOut()
	m.begin()
	m.state.Set(domain.Unauthenticated())
}

func (m *Machine) checkStatus() {
	sess, ok := m.identity.CurrentSession()
	if ok && sess.EmailVerified {
		m.state.Set(domain.Authenticated())
		return
	}
	m.state.Set(domain.Unauthenticated())
}

// begin registers a new command and returns its token. publish applies a
// transition only while its command is still the latest, so a slow callback
// cannot clobber the outcome of a newer command.
func (m *Machine) begin() uint64 { return m.seq.Add(1) }

func (m *Machine) publish(tok uint64, st domain.SessionState) {
	if m.seq.Load() != tok {
		return
	}
	m.state.Set(st)
}
