package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	applevalidator "github.com/HendrickPhan/go-verify-apple-id-token/validator"
	"google.golang.org/api/idtoken"
)

// ProviderGoogle and ProviderApple are the issuer domains the identity
// toolkit expects for federated sign-in.
const (
	ProviderGoogle = "google.com"
	ProviderApple  = "apple.com"
)

type ExternalTokenClaims struct {
	Issuer  string
	Subject string
	Email   string
}

// VerifyGoogleIDToken checks a Google-issued ID token locally before it is
// exchanged with the identity provider, so an obviously forged or misdirected
// token never leaves the process.
func VerifyGoogleIDToken(ctx context.Context, tokenString, expectedAud string) (*ExternalTokenClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, errors.New("missing id token")
	}
	if strings.TrimSpace(expectedAud) == "" {
		return nil, errors.New("missing google client id")
	}

	payload, err := idtoken.Validate(ctx, tokenString, expectedAud)
	if err != nil {
		return nil, err
	}
	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return nil, fmt.Errorf("unexpected issuer: %s", payload.Issuer)
	}

	email := ""
	if raw, ok := payload.Claims["email"]; ok {
		if v, ok := raw.(string); ok {
			email = v
		}
	}

	return &ExternalTokenClaims{
		Issuer:  payload.Issuer,
		Subject: payload.Subject,
		Email:   strings.TrimSpace(strings.ToLower(email)),
	}, nil
}

// VerifyAppleIDToken is the Apple counterpart of VerifyGoogleIDToken.
func VerifyAppleIDToken(ctx context.Context, tokenString, expectedAud string) (*ExternalTokenClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, errors.New("missing id token")
	}
	if strings.TrimSpace(expectedAud) == "" {
		return nil, errors.New("missing apple service id")
	}

	client := applevalidator.NewClient()
	idTok, err := client.VerifyIdToken(expectedAud, tokenString)
	if err != nil {
		return nil, err
	}
	if idTok.Iss != "https://appleid.apple.com" {
		return nil, fmt.Errorf("unexpected issuer: %s", idTok.Iss)
	}

	_ = ctx
	return &ExternalTokenClaims{
		Issuer:  idTok.Iss,
		Subject: idTok.Sub,
		Email:   strings.TrimSpace(strings.ToLower(idTok.Email)),
	}, nil
}
