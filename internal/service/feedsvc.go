package service

import (
	"context"
	"strings"

	"neuralserver/internal/domain"
)

type PostsStore interface {
	CreatePost(ctx context.Context, authorID, content, imageURL string) (string, error)
	ListFeed(ctx context.Context, viewerID string) ([]domain.PostView, error)
	ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]domain.PostView, error)
	ListLikedPosts(ctx context.Context, userID, viewerID string, limit int) ([]domain.PostView, error)
	GetPostView(ctx context.Context, postID, viewerID string) (domain.PostView, error)
	ToggleLike(ctx context.Context, userID, postID string) (domain.LikeResult, error)
	AddComment(ctx context.Context, authorID, postID, content string) (domain.CommentView, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	Reputation(ctx context.Context, userID string) (int, error)
}

type FeedService struct {
	Posts PostsStore
}

func (s *FeedService) CreatePost(ctx context.Context, authorID, content, imageURL string) (domain.PostView, error) {
	if strings.TrimSpace(content) == "" {
		return domain.PostView{}, domain.NewValidationError(map[string]string{"content": "required"})
	}

	postID, err := s.Posts.CreatePost(ctx, authorID, content, imageURL)
	if err != nil {
		return domain.PostView{}, err
	}
	return s.Posts.GetPostView(ctx, postID, authorID)
}

func (s *FeedService) ListFeed(ctx context.Context, viewerID string) ([]domain.PostView, error) {
	posts, err := s.Posts.ListFeed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.PostView{}
	}
	return posts, nil
}

func (s *FeedService) ToggleLike(ctx context.Context, userID, postID string) (domain.LikeResult, error) {
	return s.Posts.ToggleLike(ctx, userID, postID)
}

func (s *FeedService) AddComment(ctx context.Context, authorID, postID, content string) (domain.CommentView, error) {
	if strings.TrimSpace(content) == "" {
		return domain.CommentView{}, domain.NewValidationError(map[string]string{"content": "required"})
	}
	return s.Posts.AddComment(ctx, authorID, postID, content)
}
