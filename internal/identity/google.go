// Package identity implements the identity-provider client: email/password
// accounts, federated sign-in, verification and password-reset mail, all
// delegated to the Google Identity Toolkit REST API.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"alumnihub/internal/domain"

	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

// GoogleClient talks to the identity toolkit and keeps the ambient session:
// the one account this process is signed in as, surviving restarts through an
// optional encrypted token cache.
type GoogleClient struct {
	svc    *identitytoolkit.Service
	cache  *TokenCache
	logger *slog.Logger

	mu      sync.Mutex
	current *domain.Session
}

func NewGoogleClient(ctx context.Context, apiKey string, cache *TokenCache, logger *slog.Logger) (*GoogleClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("identity api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	svc, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("init identity toolkit: %w", err)
	}
	return &GoogleClient{svc: svc, cache: cache, logger: logger}, nil
}

// Restore loads the cached session token, if any, and validates it against
// the provider. A missing, undecryptable, or rejected token reads as "no
// ambient session" rather than an error: the user simply signs in again.
func (c *GoogleClient) Restore(ctx context.Context) {
	if c.cache == nil {
		return
	}
	token, ok, err := c.cache.Load()
	if err != nil {
		c.logger.Warn("session cache unreadable", "err", err)
		return
	}
	if !ok {
		return
	}
	sess, err := c.lookup(ctx, token)
	if err != nil {
		c.logger.Info("cached session rejected", "err", err)
		_ = c.cache.Clear()
		return
	}
	c.setCurrent(sess)
	c.logger.Info("session restored", "user_id", sess.ID)
}

func (c *GoogleClient) CreateAccount(ctx context.Context, email, password string) (domain.Session, error) {
	resp, err := c.svc.Relyingparty.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:    email,
		Password: password,
	}).Context(ctx).Do()
	if err != nil {
		return domain.Session{}, wrapProviderError("create account", err)
	}
	sess := domain.Session{
		ID:          resp.LocalId,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Token:       resp.IdToken,
	}
	c.setCurrent(sess)
	return sess, nil
}

func (c *GoogleClient) SignIn(ctx context.Context, email, password string) (domain.Session, error) {
	resp, err := c.svc.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return domain.Session{}, wrapProviderError("sign in", err)
	}
	// VerifyPassword does not report the verification flag; look it up so
	// callers can gate on it.
	sess, err := c.lookup(ctx, resp.IdToken)
	if err != nil {
		return domain.Session{}, err
	}
	c.setCurrent(sess)
	return sess, nil
}

// SignInWithIDToken exchanges an externally issued ID token (Google or Apple
// sign-in) for a provider session. provider is the issuer domain, e.g.
// "google.com" or "apple.com".
func (c *GoogleClient) SignInWithIDToken(ctx context.Context, provider, rawIDToken string) (domain.Session, error) {
	post := url.Values{}
	post.Set("id_token", rawIDToken)
	post.Set("providerId", provider)
	resp, err := c.svc.Relyingparty.VerifyAssertion(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyAssertionRequest{
		PostBody:          post.Encode(),
		RequestUri:        "http://localhost",
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return domain.Session{}, wrapProviderError("federated sign in", err)
	}
	sess := domain.Session{
		ID:            resp.LocalId,
		Email:         strings.ToLower(resp.Email),
		DisplayName:   resp.DisplayName,
		EmailVerified: resp.EmailVerified,
		Token:         resp.IdToken,
	}
	c.setCurrent(sess)
	return sess, nil
}

// SignOut clears the ambient session. It never fails: a stale cache file is
// logged and forgotten.
func (c *GoogleClient) SignOut() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
	if c.cache != nil {
		if err := c.cache.Clear(); err != nil {
			c.logger.Warn("session cache clear failed", "err", err)
		}
	}
}

func (c *GoogleClient) CurrentSession() (domain.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return domain.Session{}, false
	}
	return *c.current, true
}

func (c *GoogleClient) SendVerificationEmail(ctx context.Context, sess domain.Session) error {
	_, err := c.svc.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "VERIFY_EMAIL",
		IdToken:     sess.Token,
	}).Context(ctx).Do()
	if err != nil {
		return wrapProviderError("send verification email", err)
	}
	return nil
}

func (c *GoogleClient) SendPasswordReset(ctx context.Context, email string) error {
	_, err := c.svc.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return wrapProviderError("send password reset", err)
	}
	return nil
}

func (c *GoogleClient) UpdateDisplayName(ctx context.Context, sess domain.Session, name string) (domain.Session, error) {
	resp, err := c.svc.Relyingparty.SetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
		IdToken:           sess.Token,
		DisplayName:       name,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return domain.Session{}, wrapProviderError("update display name", err)
	}
	sess.DisplayName = resp.DisplayName
	if resp.IdToken != "" {
		sess.Token = resp.IdToken
	}
	c.setCurrent(sess)
	return sess, nil
}

func (c *GoogleClient) setCurrent(sess domain.Session) {
	c.mu.Lock()
	c.current = &sess
	c.mu.Unlock()
	if c.cache != nil {
		if err := c.cache.Save(sess.Token); err != nil {
			c.logger.Warn("session cache write failed", "err", err)
		}
	}
}

// lookup resolves a provider token into a full session, including the
// email-verified flag.
func (c *GoogleClient) lookup(ctx context.Context, token string) (domain.Session, error) {
	resp, err := c.svc.Relyingparty.GetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
		IdToken: token,
	}).Context(ctx).Do()
	if err != nil {
		return domain.Session{}, wrapProviderError("account lookup", err)
	}
	if len(resp.Users) == 0 {
		return domain.Session{}, &domain.ProviderError{Err: errors.New("account lookup: no user")}
	}
	u := resp.Users[0]
	return domain.Session{
		ID:            u.LocalId,
		Email:         strings.ToLower(u.Email),
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
		Token:         token,
	}, nil
}

func wrapProviderError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &domain.ProviderError{Message: gerr.Message, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return &domain.ProviderError{Err: fmt.Errorf("%s: %w", op, err)}
}
