package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendrickPhan/go-verify-apple-id-token/validator"
	"google.golang.org/api/idtoken"
)

const (
	googleIssuer      = "accounts.google.com"
	googleIssuerHTTPS = "https://accounts.google.com"
	appleIssuer       = "https://appleid.apple.com"
)

// ExternalTokenClaims are the fields this system needs from a verified
// third-party ID token.
type ExternalTokenClaims struct {
	Issuer  string
	Subject string
	Email   string
}

// VerifyGoogleIDToken checks the token's signature against Google's
// published keys and that it was minted for expectedAud.
func VerifyGoogleIDToken(ctx context.Context, tokenString, expectedAud string) (*ExternalTokenClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, errors.New("empty id token")
	}
	if strings.TrimSpace(expectedAud) == "" {
		return nil, errors.New("google client id not configured")
	}

	payload, err := idtoken.Validate(ctx, tokenString, expectedAud)
	if err != nil {
		return nil, fmt.Errorf("validate google id token: %w", err)
	}
	if payload.Issuer != googleIssuer && payload.Issuer != googleIssuerHTTPS {
		return nil, fmt.Errorf("google id token from unexpected issuer %q", payload.Issuer)
	}

	email, _ := payload.Claims["email"].(string)
	return &ExternalTokenClaims{
		Issuer:  payload.Issuer,
		Subject: payload.Subject,
		Email:   normalizeEmail(email),
	}, nil
}

// VerifyAppleIDToken checks a Sign in with Apple token against Apple's
// published keys and that it was minted for expectedAud.
func VerifyAppleIDToken(ctx context.Context, tokenString, expectedAud string) (*ExternalTokenClaims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, errors.New("empty id token")
	}
	if strings.TrimSpace(expectedAud) == "" {
		return nil, errors.New("apple service id not configured")
	}
	_ = ctx

	tok, err := validator.NewClient().VerifyIdToken(expectedAud, tokenString)
	if err != nil {
		return nil, fmt.Errorf("validate apple id token: %w", err)
	}
	if tok.Iss != appleIssuer {
		return nil, fmt.Errorf("apple id token from unexpected issuer %q", tok.Iss)
	}

	return &ExternalTokenClaims{
		Issuer:  tok.Iss,
		Subject: tok.Sub,
		Email:   normalizeEmail(tok.Email),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
