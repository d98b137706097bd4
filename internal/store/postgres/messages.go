package postgres

import (
	"context"
	"errors"
	"fmt"

	"neuralserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessagesStore struct {
	pool *pgxpool.Pool
}

func NewMessagesStore(pool *pgxpool.Pool) *MessagesStore {
	return &MessagesStore{pool: pool}
}

func (s *MessagesStore) CreateMessage(ctx context.Context, senderID string, recipientID *string, text string) (domain.Message, error) {
	const q = `
		INSERT INTO messages (sender_id, recipient_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	var idUUID pgtype.UUID
	m := domain.Message{SenderID: senderID, RecipientID: recipientID, Text: text}
	err := s.pool.QueryRow(ctx, q, senderID, recipientID, text).Scan(&idUUID, &m.CreatedAt)
	if err != nil {
		var pgerr *pgconn.PgError
		if (errors.As(err, &pgerr) && pgerr.Code == "23503") || isBadUUID(err) {
			return domain.Message{}, domain.ErrNotFound
		}
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	m.ID = uuidOrEmpty(idUUID)
	return m, nil
}

const messageViewColumns = `m.id, m.sender_id, u.name, u.avatar, m.text, m.created_at`

func (s *MessagesStore) queryViews(ctx context.Context, viewerID, q string, args ...any) ([]domain.MessageView, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []domain.MessageView
	for rows.Next() {
		var msgU, senderU pgtype.UUID
		var v domain.MessageView
		if err := rows.Scan(&msgU, &senderU, &v.SenderName, &v.SenderAvatar, &v.Text, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		v.ID = uuidOrEmpty(msgU)
		v.SenderID = uuidOrEmpty(senderU)
		v.IsOwn = v.SenderID == viewerID
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return out, nil
}

// ListBetween returns the full conversation between two users in both
// directions, oldest first.
func (s *MessagesStore) ListBetween(ctx context.Context, userID, partnerID string) ([]domain.MessageView, error) {
	q := `
		SELECT ` + messageViewColumns + `
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
		   OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.created_at ASC
	`
	return s.queryViews(ctx, userID, q, userID, partnerID)
}

// ListBroadcast returns the newest messages on the shared channel,
// capped at limit, in ascending order.
func (s *MessagesStore) ListBroadcast(ctx context.Context, viewerID string, limit int) ([]domain.MessageView, error) {
	q := `
		SELECT ` + messageViewColumns + `
		FROM (
			SELECT id, sender_id, text, created_at
			FROM messages
			WHERE recipient_id IS NULL
			ORDER BY created_at DESC
			LIMIT $1
		) m
		JOIN users u ON u.id = m.sender_id
		ORDER BY m.created_at ASC
	`
	return s.queryViews(ctx, viewerID, q, limit)
}

func (s *MessagesStore) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	const q = `SELECT id, sender_id, recipient_id, text, created_at FROM messages WHERE id = $1`

	var msgU, senderU, recipU pgtype.UUID
	var m domain.Message
	err := s.pool.QueryRow(ctx, q, id).Scan(&msgU, &senderU, &recipU, &m.Text, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isBadUUID(err) {
			return domain.Message{}, domain.ErrNotFound
		}
		return domain.Message{}, fmt.Errorf("get message: %w", err)
	}
	m.ID = uuidOrEmpty(msgU)
	m.SenderID = uuidOrEmpty(senderU)
	m.RecipientID = uuidPtr(recipU)
	return m, nil
}

func (s *MessagesStore) DeleteMessage(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
