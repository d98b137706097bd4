package postgres

import (
	"context"
	"fmt"

	"neuralserver/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TracksStore struct {
	pool *pgxpool.Pool
}

func NewTracksStore(pool *pgxpool.Pool) *TracksStore {
	return &TracksStore{pool: pool}
}

// ListTracks returns the whole catalog, oldest first, with the
// viewer-relative like flag.
func (s *TracksStore) ListTracks(ctx context.Context, viewerID string) ([]domain.TrackView, error) {
	const q = `
		SELECT t.id, t.title, t.artist, t.url, t.cover, t.genre,
			EXISTS (SELECT 1 FROM track_likes tl WHERE tl.track_id = t.id AND tl.user_id = $1) AS is_liked
		FROM tracks t
		ORDER BY t.created_at ASC
	`

	rows, err := s.pool.Query(ctx, q, nullIfEmpty(viewerID))
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var out []domain.TrackView
	for rows.Next() {
		var idUUID pgtype.UUID
		var v domain.TrackView
		if err := rows.Scan(&idUUID, &v.Title, &v.Artist, &v.URL, &v.Cover, &v.Genre, &v.IsLiked); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		v.ID = uuidOrEmpty(idUUID)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	return out, nil
}

func (s *TracksStore) CreateTrack(ctx context.Context, p domain.NewTrack) (domain.Track, error) {
	const q = `
		INSERT INTO tracks (title, artist, url, cover, genre, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	var idUUID pgtype.UUID
	t := domain.Track{
		Title:   p.Title,
		Artist:  p.Artist,
		URL:     p.URL,
		Cover:   p.Cover,
		Genre:   p.Genre,
		AddedBy: p.AddedBy,
	}
	err := s.pool.QueryRow(ctx, q, p.Title, p.Artist, p.URL, p.Cover, p.Genre, p.AddedBy).
		Scan(&idUUID, &t.CreatedAt)
	if err != nil {
		return domain.Track{}, fmt.Errorf("create track: %w", err)
	}
	t.ID = uuidOrEmpty(idUUID)
	return t, nil
}

// ToggleLike flips the (user, track) like and reports the new state.
func (s *TracksStore) ToggleLike(ctx context.Context, userID, trackID string) (bool, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tracks WHERE id = $1)`, trackID).Scan(&exists); err != nil {
		if isBadUUID(err) {
			return false, domain.ErrNotFound
		}
		return false, fmt.Errorf("toggle track like: lookup: %w", err)
	}
	if !exists {
		return false, domain.ErrNotFound
	}

	ct, err := tx.Exec(ctx, `DELETE FROM track_likes WHERE user_id = $1 AND track_id = $2`, userID, trackID)
	if err != nil {
		return false, fmt.Errorf("toggle track like: delete: %w", err)
	}

	liked := false
	if ct.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO track_likes (user_id, track_id)
			VALUES ($1, $2)
			ON CONFLICT ON CONSTRAINT track_likes_pair_uq DO NOTHING
		`, userID, trackID)
		if err != nil {
			return false, fmt.Errorf("toggle track like: insert: %w", err)
		}
		liked = true
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("toggle track like: commit: %w", err)
	}
	return liked, nil
}

func (s *TracksStore) CountTracks(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM tracks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tracks: %w", err)
	}
	return n, nil
}
