package domain

import "time"

type Post struct {
	ID        string
	AuthorID  string
	Content   string
	ImageURL  string
	CreatedAt time.Time
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

// CommentView is a comment with its author byline resolved.
type CommentView struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Handle  string `json:"handle"`
	Avatar  string `json:"avatar"`
}

// PostView is the outward projection of a post for one viewer. Likes and
// IsLiked are recomputed from the like rows on every read.
type PostView struct {
	ID        string        `json:"id"`
	Author    UserCard      `json:"author"`
	Content   string        `json:"content"`
	ImageURL  string        `json:"imageUrl,omitempty"`
	CreatedAt time.Time     `json:"timestamp"`
	Likes     int           `json:"likes"`
	IsLiked   bool          `json:"isLiked"`
	Comments  []CommentView `json:"comments"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Likes   int  `json:"likes"`
	IsLiked bool `json:"isLiked"`
}
