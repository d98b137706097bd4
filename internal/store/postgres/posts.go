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

type PostsStore struct {
	pool *pgxpool.Pool
}

func NewPostsStore(pool *pgxpool.Pool) *PostsStore {
	return &PostsStore{pool: pool}
}

func (s *PostsStore) CreatePost(ctx context.Context, authorID, content, imageURL string) (string, error) {
	const q = `
		INSERT INTO posts (author_id, content, image_url)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var idUUID pgtype.UUID
	err := s.pool.QueryRow(ctx, q, authorID, content, nullIfEmpty(imageURL)).Scan(&idUUID)
	if err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	return uuidOrEmpty(idUUID), nil
}

// postViewColumns projects a post together with its author card and the
// viewer-relative engagement state. $1 is the viewer (nullable); like
// counts are always recomputed from the like rows.
const postViewColumns = `
	p.id, p.content, p.image_url, p.created_at,
	u.id, u.name, u.handle, u.avatar, u.bio, u.status_text, u.is_verified, u.is_admin, u.last_seen,
	(SELECT count(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes,
	EXISTS (SELECT 1 FROM post_likes pl WHERE pl.post_id = p.id AND pl.user_id = $1) AS is_liked,
	(SELECT count(*) FROM post_likes pl JOIN posts ap ON ap.id = pl.post_id WHERE ap.author_id = u.id) AS author_reputation,
	(SELECT count(*) FROM posts ap WHERE ap.author_id = u.id) AS author_posts,
	(SELECT count(*) FROM friends f WHERE f.user_a = u.id OR f.user_b = u.id) AS author_friends
`

func scanPostView(rows pgx.Rows) (domain.PostView, error) {
	var (
		v              domain.PostView
		postU, authorU pgtype.UUID
		imageURL       pgtype.Text
		lastSeen       pgtype.Timestamptz
	)
	err := rows.Scan(
		&postU,
		&v.Content,
		&imageURL,
		&v.CreatedAt,
		&authorU,
		&v.Author.Name,
		&v.Author.Handle,
		&v.Author.Avatar,
		&v.Author.Bio,
		&v.Author.Status,
		&v.Author.Verified,
		&v.Author.Admin,
		&lastSeen,
		&v.Likes,
		&v.IsLiked,
		&v.Author.Reputation,
		&v.Author.PostsCount,
		&v.Author.FriendsCount,
	)
	if err != nil {
		return domain.PostView{}, fmt.Errorf("scan post: %w", err)
	}
	v.ID = uuidOrEmpty(postU)
	v.Author.ID = uuidOrEmpty(authorU)
	v.ImageURL = textOrEmpty(imageURL)
	v.Author.FriendStatus = domain.FriendStatusNone
	v.Comments = []domain.CommentView{}
	return v, nil
}

func (s *PostsStore) queryPostViews(ctx context.Context, q string, args ...any) ([]domain.PostView, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var out []domain.PostView
	for rows.Next() {
		v, err := scanPostView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if err := s.attachComments(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostsStore) attachComments(ctx context.Context, posts []domain.PostView) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	byID := make(map[string]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = i
	}

	const q = `
		SELECT c.id, c.post_id, c.content, u.name, u.handle, u.avatar
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ANY($1::uuid[])
		ORDER BY c.created_at ASC
	`

	rows, err := s.pool.Query(ctx, q, ids)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var commentU, postU pgtype.UUID
		var c domain.CommentView
		if err := rows.Scan(&commentU, &postU, &c.Content, &c.Author, &c.Handle, &c.Avatar); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		c.ID = uuidOrEmpty(commentU)
		if i, ok := byID[uuidOrEmpty(postU)]; ok {
			posts[i].Comments = append(posts[i].Comments, c)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list comments: %w", err)
	}
	return nil
}

// ListFeed returns every post, newest first, projected for the viewer.
func (s *PostsStore) ListFeed(ctx context.Context, viewerID string) ([]domain.PostView, error) {
	q := `SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC`
	return s.queryPostViews(ctx, q, nullIfEmpty(viewerID))
}

func (s *PostsStore) ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]domain.PostView, error) {
	q := `SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $2
		ORDER BY p.created_at DESC`
	return s.queryPostViews(ctx, q, nullIfEmpty(viewerID), authorID)
}

// ListLikedPosts returns the posts a user liked most recently.
func (s *PostsStore) ListLikedPosts(ctx context.Context, userID, viewerID string, limit int) ([]domain.PostView, error) {
	q := `SELECT ` + postViewColumns + `
		FROM post_likes l
		JOIN posts p ON p.id = l.post_id
		JOIN users u ON u.id = p.author_id
		WHERE l.user_id = $2
		ORDER BY l.created_at DESC
		LIMIT $3`
	return s.queryPostViews(ctx, q, nullIfEmpty(viewerID), userID, limit)
}

func (s *PostsStore) GetPostView(ctx context.Context, postID, viewerID string) (domain.PostView, error) {
	q := `SELECT ` + postViewColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $2`
	views, err := s.queryPostViews(ctx, q, nullIfEmpty(viewerID), postID)
	if err != nil {
		if isBadUUID(err) {
			return domain.PostView{}, domain.ErrNotFound
		}
		return domain.PostView{}, err
	}
	if len(views) == 0 {
		return domain.PostView{}, domain.ErrNotFound
	}
	return views[0], nil
}

// ToggleLike flips the (user, post) like inside one transaction. The
// unique pair constraint keeps concurrent identical toggles from ever
// producing two like rows; the count is taken inside the same tx.
func (s *PostsStore) ToggleLike(ctx context.Context, userID, postID string) (domain.LikeResult, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return domain.LikeResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		if isBadUUID(err) {
			return domain.LikeResult{}, domain.ErrNotFound
		}
		return domain.LikeResult{}, fmt.Errorf("toggle like: lookup post: %w", err)
	}
	if !exists {
		return domain.LikeResult{}, domain.ErrNotFound
	}

	ct, err := tx.Exec(ctx, `DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return domain.LikeResult{}, fmt.Errorf("toggle like: delete: %w", err)
	}

	liked := false
	if ct.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO post_likes (user_id, post_id)
			VALUES ($1, $2)
			ON CONFLICT ON CONSTRAINT post_likes_pair_uq DO NOTHING
		`, userID, postID)
		if err != nil {
			return domain.LikeResult{}, fmt.Errorf("toggle like: insert: %w", err)
		}
		liked = true
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count); err != nil {
		return domain.LikeResult{}, fmt.Errorf("toggle like: count: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.LikeResult{}, fmt.Errorf("toggle like: commit: %w", err)
	}

	return domain.LikeResult{Likes: count, IsLiked: liked}, nil
}

func (s *PostsStore) AddComment(ctx context.Context, authorID, postID, content string) (domain.CommentView, error) {
	const q = `
		INSERT INTO comments (post_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var idUUID pgtype.UUID
	err := s.pool.QueryRow(ctx, q, postID, authorID, content).Scan(&idUUID)
	if err != nil {
		var pgerr *pgconn.PgError
		if (errors.As(err, &pgerr) && pgerr.Code == "23503") || isBadUUID(err) {
			return domain.CommentView{}, domain.ErrNotFound
		}
		return domain.CommentView{}, fmt.Errorf("add comment: %w", err)
	}

	var c domain.CommentView
	c.ID = uuidOrEmpty(idUUID)
	c.Content = content

	err = s.pool.QueryRow(ctx, `SELECT name, handle, avatar FROM users WHERE id = $1`, authorID).
		Scan(&c.Author, &c.Handle, &c.Avatar)
	if err != nil {
		return domain.CommentView{}, fmt.Errorf("add comment: author: %w", err)
	}
	return c, nil
}

func (s *PostsStore) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM posts WHERE author_id = $1`, authorID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// Reputation is the sum of likes across a user's posts, computed live.
func (s *PostsStore) Reputation(ctx context.Context, userID string) (int, error) {
	const q = `
		SELECT count(*)
		FROM post_likes pl
		JOIN posts p ON p.id = pl.post_id
		WHERE p.author_id = $1
	`
	var n int
	if err := s.pool.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("reputation: %w", err)
	}
	return n, nil
}
