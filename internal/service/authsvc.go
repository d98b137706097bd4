package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"neuralserver/internal/auth"
	"neuralserver/internal/domain"
)

type UsersStore interface {
	CreateUser(ctx context.Context, p domain.NewUser) (domain.User, error)
	GetUserByToken(ctx context.Context, token string) (domain.User, error)
	GetUserByHandle(ctx context.Context, handle string) (domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error)
	NameExists(ctx context.Context, name string) (bool, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	TouchLastSeen(ctx context.Context, userID string, when time.Time) error
	GrantAdmin(ctx context.Context, userID string) error
	GetUserByExternalAccount(ctx context.Context, provider, providerID string) (domain.User, error)
	LinkExternalAccount(ctx context.Context, userID, provider, providerID, email string) error
}

// TokenVerifier checks an external identity token against an expected
// audience and returns its claims.
type TokenVerifier func(ctx context.Context, tokenString, expectedAud string) (*auth.ExternalTokenClaims, error)

const tokenAttempts = 5

type AuthService struct {
	Users           UsersStore
	TokenPrefix     string
	GuestNamePrefix string
	IsAdminName     func(name string) bool
	GoogleClientID  string
	AppleServiceID  string
	VerifyGoogle    TokenVerifier
	VerifyApple     TokenVerifier
	Now             func() time.Time
}

func (s *AuthService) Register(ctx context.Context, name, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, domain.NewValidationError(map[string]string{"name": "required"})
	}

	// Guest names are throwaway identities and may collide.
	guest := s.GuestNamePrefix != "" && strings.HasPrefix(name, s.GuestNamePrefix)
	if !guest {
		taken, err := s.Users.NameExists(ctx, name)
		if err != nil {
			return domain.User{}, err
		}
		if taken {
			return domain.User{}, domain.ErrNameTaken
		}
	}

	handle, err := s.deriveHandle(ctx, name)
	if err != nil {
		return domain.User{}, err
	}

	token, err := s.newUniqueToken(ctx)
	if err != nil {
		return domain.User{}, err
	}

	var passwordHash string
	if password != "" {
		passwordHash, err = auth.HashPassword(password)
		if err != nil {
			return domain.User{}, err
		}
	}

	admin := s.IsAdminName != nil && s.IsAdminName(name)

	return s.Users.CreateUser(ctx, domain.NewUser{
		Name:         name,
		Handle:       handle,
		AccessToken:  token,
		PasswordHash: passwordHash,
		Avatar:       randomAvatarURL(),
		Verified:     admin,
		Admin:        admin,
	})
}

// deriveHandle lower-cases the display name, replaces spaces with
// underscores and probes numeric suffixes until the handle is unused.
func (s *AuthService) deriveHandle(ctx context.Context, name string) (string, error) {
	base := "@" + strings.ReplaceAll(strings.ToLower(name), " ", "_")
	handle := base
	for i := 1; ; i++ {
		taken, err := s.Users.HandleExists(ctx, handle)
		if err != nil {
			return "", err
		}
		if !taken {
			return handle, nil
		}
		handle = base + strconv.Itoa(i)
	}
}

func (s *AuthService) newUniqueToken(ctx context.Context) (string, error) {
	for i := 0; i < tokenAttempts; i++ {
		token, err := auth.NewAccessToken(s.TokenPrefix)
		if err != nil {
			return "", err
		}
		taken, err := s.Users.TokenExists(ctx, token)
		if err != nil {
			return "", err
		}
		if !taken {
			return token, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique access token after %d attempts", tokenAttempts)
}

func randomAvatarURL() string {
	return fmt.Sprintf("https://i.pravatar.cc/150?img=%d", rand.IntN(70)+1)
}

// LoginWithToken resolves the bearer token alone. Failures are reported
// uniformly so callers cannot probe which part was wrong.
func (s *AuthService) LoginWithToken(ctx context.Context, token string) (domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	u, err := s.Users.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	return s.afterLogin(ctx, u)
}

func (s *AuthService) LoginWithPassword(ctx context.Context, login, password string) (domain.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	u, err := s.Users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return s.afterLogin(ctx, u.User)
}

// afterLogin applies the allow-list grant and stamps activity. The grant
// runs on every login so names added to the list pick up their flags
// without re-registering.
func (s *AuthService) afterLogin(ctx context.Context, u domain.User) (domain.User, error) {
	if !u.Admin && s.IsAdminName != nil && s.IsAdminName(u.Name) {
		if err := s.Users.GrantAdmin(ctx, u.ID); err != nil {
			return domain.User{}, err
		}
		u.Admin = true
		u.Verified = true
	}

	_ = s.Users.TouchLastSeen(ctx, u.ID, s.now())
	return u, nil
}

// Authenticate resolves the bearer token on an authenticated request and
// best-effort stamps last_seen.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	u, err := s.Users.GetUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauthorized
		}
		return domain.User{}, err
	}

	_ = s.Users.TouchLastSeen(ctx, u.ID, s.now())
	return u, nil
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (domain.User, error) {
	if s.GoogleClientID == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	verify := s.VerifyGoogle
	if verify == nil {
		verify = auth.VerifyGoogleIDToken
	}
	claims, err := verify(ctx, idToken, s.GoogleClientID)
	if err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return s.loginExternal(ctx, "google", claims)
}

func (s *AuthService) LoginWithApple(ctx context.Context, idToken string) (domain.User, error) {
	if s.AppleServiceID == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	verify := s.VerifyApple
	if verify == nil {
		verify = auth.VerifyAppleIDToken
	}
	claims, err := verify(ctx, idToken, s.AppleServiceID)
	if err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return s.loginExternal(ctx, "apple", claims)
}

// loginExternal finds the linked account or registers a fresh user named
// after the email local-part, then links the account to it.
func (s *AuthService) loginExternal(ctx context.Context, provider string, claims *auth.ExternalTokenClaims) (domain.User, error) {
	u, err := s.Users.GetUserByExternalAccount(ctx, provider, claims.Subject)
	if err == nil {
		return s.afterLogin(ctx, u)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, err
	}

	name := externalDisplayName(claims.Email, provider)
	for {
		u, err = s.Register(ctx, name, "")
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrNameTaken) {
			name = name + strconv.Itoa(rand.IntN(1000))
			continue
		}
		return domain.User{}, err
	}

	if err := s.Users.LinkExternalAccount(ctx, u.ID, provider, claims.Subject, claims.Email); err != nil {
		return domain.User{}, err
	}
	return s.afterLogin(ctx, u)
}

func externalDisplayName(email, provider string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return provider + "_user"
	}
	return local
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
