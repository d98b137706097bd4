package postgres

import (
	"context"
	"errors"
	"fmt"

	"neuralserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FriendshipsStore persists friend requests and accepted friendships.
// A friendship is a single canonical row with user_a < user_b, so edge
// creation and removal are inherently symmetric.
type FriendshipsStore struct {
	pool *pgxpool.Pool
}

func NewFriendshipsStore(pool *pgxpool.Pool) *FriendshipsStore {
	return &FriendshipsStore{pool: pool}
}

func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// CreateRequest inserts a pending request. A duplicate ordered pair is
// reported as created=false, not an error, so callers stay idempotent.
func (s *FriendshipsStore) CreateRequest(ctx context.Context, senderID, receiverID string) (bool, error) {
	const q = `
		INSERT INTO friend_requests (sender_id, receiver_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT friend_requests_pair_uq DO NOTHING
	`
	ct, err := s.pool.Exec(ctx, q, senderID, receiverID)
	if err != nil {
		return false, fmt.Errorf("create friend request: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Accept deletes the request and materializes the friendship in one
// transaction; a crash or a concurrent accept never leaves one without
// the other.
func (s *FriendshipsStore) Accept(ctx context.Context, requestID, receiverID string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var senderU pgtype.UUID
	err = tx.QueryRow(ctx, `
		DELETE FROM friend_requests
		WHERE id = $1 AND receiver_id = $2
		RETURNING sender_id
	`, requestID, receiverID).Scan(&senderU)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("accept: delete request: %w", err)
	}

	a, b := orderPair(uuidOrEmpty(senderU), receiverID)
	_, err = tx.Exec(ctx, `
		INSERT INTO friends (user_a, user_b)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT friends_pair_uq DO NOTHING
	`, a, b)
	if err != nil {
		return fmt.Errorf("accept: insert friendship: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("accept: commit: %w", err)
	}
	return nil
}

func (s *FriendshipsStore) Reject(ctx context.Context, requestID, receiverID string) error {
	ct, err := s.pool.Exec(ctx, `
		DELETE FROM friend_requests
		WHERE id = $1 AND receiver_id = $2
	`, requestID, receiverID)
	if err != nil {
		return fmt.Errorf("reject friend request: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RemoveFriendship deletes the canonical edge. Removing a non-existent
// edge is a no-op.
func (s *FriendshipsStore) RemoveFriendship(ctx context.Context, userA, userB string) error {
	a, b := orderPair(userA, userB)
	_, err := s.pool.Exec(ctx, `DELETE FROM friends WHERE user_a = $1 AND user_b = $2`, a, b)
	if err != nil {
		return fmt.Errorf("remove friendship: %w", err)
	}
	return nil
}

func (s *FriendshipsStore) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	a, b := orderPair(userA, userB)
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM friends WHERE user_a = $1 AND user_b = $2)`,
		a, b,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("are friends: %w", err)
	}
	return exists, nil
}

// Status derives the relationship of subject as seen by viewer with a
// single round trip.
func (s *FriendshipsStore) Status(ctx context.Context, viewerID, subjectID string) (domain.FriendStatus, error) {
	a, b := orderPair(viewerID, subjectID)

	const q = `
		SELECT
			EXISTS (SELECT 1 FROM friends WHERE user_a = $1 AND user_b = $2),
			EXISTS (SELECT 1 FROM friend_requests WHERE sender_id = $3 AND receiver_id = $4),
			EXISTS (SELECT 1 FROM friend_requests WHERE sender_id = $4 AND receiver_id = $3)
	`

	var friends, sent, received bool
	err := s.pool.QueryRow(ctx, q, a, b, viewerID, subjectID).Scan(&friends, &sent, &received)
	if err != nil {
		return domain.FriendStatusNone, fmt.Errorf("friend status: %w", err)
	}

	switch {
	case friends:
		return domain.FriendStatusFriends, nil
	case sent:
		return domain.FriendStatusPendingSent, nil
	case received:
		return domain.FriendStatusPendingReceived, nil
	default:
		return domain.FriendStatusNone, nil
	}
}

// PendingBetween reports whether a request exists in either direction.
func (s *FriendshipsStore) PendingBetween(ctx context.Context, userA, userB string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM friend_requests
			WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		)
	`, userA, userB).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pending between: %w", err)
	}
	return exists, nil
}

func (s *FriendshipsStore) ListIncoming(ctx context.Context, userID string) ([]domain.IncomingRequest, error) {
	const q = `
		SELECT fr.id, u.name, u.handle, u.avatar
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.receiver_id = $1
		ORDER BY fr.created_at ASC
	`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	defer rows.Close()

	var out []domain.IncomingRequest
	for rows.Next() {
		var idUUID pgtype.UUID
		var r domain.IncomingRequest
		if err := rows.Scan(&idUUID, &r.SenderName, &r.SenderHandle, &r.SenderAvatar); err != nil {
			return nil, fmt.Errorf("scan incoming request: %w", err)
		}
		r.RequestID = uuidOrEmpty(idUUID)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	return out, nil
}

func (s *FriendshipsStore) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	const q = `
		SELECT u.id, u.name, u.handle, u.avatar
		FROM friends f
		JOIN users u ON u.id = CASE WHEN f.user_a = $1 THEN f.user_b ELSE f.user_a END
		WHERE f.user_a = $1 OR f.user_b = $1
		ORDER BY u.name ASC
	`

	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		var idUUID pgtype.UUID
		var u domain.UserSummary
		if err := rows.Scan(&idUUID, &u.Name, &u.Handle, &u.Avatar); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		u.ID = uuidOrEmpty(idUUID)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return out, nil
}

func (s *FriendshipsStore) CountFriends(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM friends WHERE user_a = $1 OR user_b = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count friends: %w", err)
	}
	return n, nil
}
