package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neuralserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

const userColumns = `id, name, handle, access_token, avatar, bio, status_text, is_verified, is_admin, last_seen, created_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u        domain.User
		idUUID   pgtype.UUID
		lastSeen pgtype.Timestamptz
	)
	err := row.Scan(
		&idUUID,
		&u.Name,
		&u.Handle,
		&u.AccessToken,
		&u.Avatar,
		&u.Bio,
		&u.StatusText,
		&u.Verified,
		&u.Admin,
		&lastSeen,
		&u.CreatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = uuidOrEmpty(idUUID)
	u.LastSeen = timestamptzPtr(lastSeen)
	return u, nil
}

func (s *UsersStore) CreateUser(ctx context.Context, p domain.NewUser) (domain.User, error) {
	const q = `
		INSERT INTO users (name, handle, access_token, password_hash, avatar, is_verified, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q,
		p.Name, p.Handle, p.AccessToken, nullIfEmpty(p.PasswordHash), p.Avatar, p.Verified, p.Admin,
	))
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "users_name_uq" {
			return domain.User{}, domain.ErrNameTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByToken(ctx context.Context, token string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE access_token = $1`
	u, err := scanUser(s.pool.QueryRow(ctx, q, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by token: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByHandle(ctx context.Context, handle string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE handle = $1`
	u, err := scanUser(s.pool.QueryRow(ctx, q, handle))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by handle: %w", err)
	}
	return u, nil
}

// GetUserByLogin resolves a login name against handle (with or without
// the @ prefix) and then display name, preferring exact handle matches.
func (s *UsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	const q = `
		SELECT ` + userColumns + `, password_hash
		FROM users
		WHERE handle = $1 OR handle = '@' || $1 OR name = $1
		ORDER BY (handle = $1) DESC, (handle = '@' || $1) DESC
		LIMIT 1
	`

	var (
		u        domain.UserWithPassword
		idUUID   pgtype.UUID
		lastSeen pgtype.Timestamptz
		pwHash   pgtype.Text
	)
	err := s.pool.QueryRow(ctx, q, login).Scan(
		&idUUID,
		&u.Name,
		&u.Handle,
		&u.AccessToken,
		&u.Avatar,
		&u.Bio,
		&u.StatusText,
		&u.Verified,
		&u.Admin,
		&lastSeen,
		&u.CreatedAt,
		&pwHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by login: %w", err)
	}
	u.ID = uuidOrEmpty(idUUID)
	u.LastSeen = timestamptzPtr(lastSeen)
	u.PasswordHash = textOrEmpty(pwHash)
	return u, nil
}

func (s *UsersStore) NameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("name exists: %w", err)
	}
	return exists, nil
}

func (s *UsersStore) HandleExists(ctx context.Context, handle string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE handle = $1)`, handle).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("handle exists: %w", err)
	}
	return exists, nil
}

func (s *UsersStore) TokenExists(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE access_token = $1)`, token).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("token exists: %w", err)
	}
	return exists, nil
}

// TouchLastSeen is fired on every authenticated request; callers treat
// failures as best-effort.
func (s *UsersStore) TouchLastSeen(ctx context.Context, userID string, when time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET last_seen = $2 WHERE id = $1`, userID, when)
	if err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return nil
}

func (s *UsersStore) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	const q = `
		UPDATE users
		SET bio = COALESCE($2, bio),
		    avatar = COALESCE($3, avatar),
		    status_text = COALESCE($4, status_text)
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, q, userID, upd.Bio, upd.Avatar, upd.Status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// ToggleVerified flips the verified flag and returns the new value.
func (s *UsersStore) ToggleVerified(ctx context.Context, userID string) (bool, error) {
	var verified bool
	err := s.pool.QueryRow(ctx,
		`UPDATE users SET is_verified = NOT is_verified WHERE id = $1 RETURNING is_verified`,
		userID,
	).Scan(&verified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("toggle verified: %w", err)
	}
	return verified, nil
}

// GrantAdmin marks a user admin and verified. Used when a display name
// on the admin allow-list registers or logs in.
func (s *UsersStore) GrantAdmin(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET is_admin = true, is_verified = true WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("grant admin: %w", err)
	}
	return nil
}

func (s *UsersStore) SearchUsers(ctx context.Context, query string, limit int) ([]domain.UserSummary, error) {
	const q = `
		SELECT id, name, handle, avatar
		FROM users
		WHERE name ILIKE '%' || $1 || '%' OR handle ILIKE '%' || $1 || '%'
		ORDER BY name ASC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, q, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		var idUUID pgtype.UUID
		var u domain.UserSummary
		if err := rows.Scan(&idUUID, &u.Name, &u.Handle, &u.Avatar); err != nil {
			return nil, fmt.Errorf("scan user summary: %w", err)
		}
		u.ID = uuidOrEmpty(idUUID)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return out, nil
}

func (s *UsersStore) GetUserByExternalAccount(ctx context.Context, provider, providerID string) (domain.User, error) {
	const q = `
		SELECT u.id, u.name, u.handle, u.access_token, u.avatar, u.bio, u.status_text,
		       u.is_verified, u.is_admin, u.last_seen, u.created_at
		FROM users u
		JOIN external_accounts ea ON ea.user_id = u.id
		WHERE ea.provider = $1 AND ea.provider_id = $2
	`
	u, err := scanUser(s.pool.QueryRow(ctx, q, provider, providerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by external account: %w", err)
	}
	return u, nil
}

func (s *UsersStore) LinkExternalAccount(ctx context.Context, userID, provider, providerID, email string) error {
	const q = `
		INSERT INTO external_accounts (user_id, provider, provider_id, email)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.pool.Exec(ctx, q, userID, provider, providerID, nullIfEmpty(email))
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "external_accounts_provider_uq" {
			return domain.ErrExternalAccountExists
		}
		return fmt.Errorf("link external account: %w", err)
	}
	return nil
}
