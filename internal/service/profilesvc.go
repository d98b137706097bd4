package service

import (
	"context"
	"strings"

	"neuralserver/internal/domain"
)

type ProfileUsersStore interface {
	GetUserByHandle(ctx context.Context, handle string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error)
	ToggleVerified(ctx context.Context, userID string) (bool, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]domain.UserSummary, error)
}

const (
	searchLimit     = 10
	likedPostsLimit = 5
)

type ProfilesService struct {
	Users       ProfileUsersStore
	Posts       PostsStore
	Friendships FriendshipsStore
}

// Card projects a user for API responses as seen by viewerID, which
// may be empty.
func (s *ProfilesService) Card(ctx context.Context, u domain.User, viewerID string) (domain.UserCard, error) {
	card := domain.UserCard{
		ID:           u.ID,
		Name:         u.Name,
		Handle:       u.Handle,
		Avatar:       u.Avatar,
		Bio:          u.Bio,
		Status:       u.StatusText,
		Verified:     u.Verified,
		Admin:        u.Admin,
		LastSeen:     u.LastSeen,
		FriendStatus: domain.FriendStatusNone,
	}

	var err error
	if card.Reputation, err = s.Posts.Reputation(ctx, u.ID); err != nil {
		return domain.UserCard{}, err
	}
	if card.PostsCount, err = s.Posts.CountByAuthor(ctx, u.ID); err != nil {
		return domain.UserCard{}, err
	}
	if card.FriendsCount, err = s.Friendships.CountFriends(ctx, u.ID); err != nil {
		return domain.UserCard{}, err
	}

	if viewerID != "" && viewerID != u.ID {
		if card.FriendStatus, err = s.Friendships.Status(ctx, viewerID, u.ID); err != nil {
			return domain.UserCard{}, err
		}
	}
	return card, nil
}

// GetProfile assembles a user's public page as seen by viewerID, which
// may be empty for anonymous viewers.
func (s *ProfilesService) GetProfile(ctx context.Context, viewerID, handle string) (domain.Profile, error) {
	target, err := lookupByHandle(ctx, s.Users, handle)
	if err != nil {
		return domain.Profile{}, err
	}

	card, err := s.Card(ctx, target, viewerID)
	if err != nil {
		return domain.Profile{}, err
	}

	posts, err := s.Posts.ListPostsByAuthor(ctx, target.ID, viewerID)
	if err != nil {
		return domain.Profile{}, err
	}
	liked, err := s.Posts.ListLikedPosts(ctx, target.ID, viewerID, likedPostsLimit)
	if err != nil {
		return domain.Profile{}, err
	}
	friends, err := s.Friendships.ListFriends(ctx, target.ID)
	if err != nil {
		return domain.Profile{}, err
	}

	if posts == nil {
		posts = []domain.PostView{}
	}
	if liked == nil {
		liked = []domain.PostView{}
	}
	if friends == nil {
		friends = []domain.UserSummary{}
	}

	return domain.Profile{
		UserCard:   card,
		Posts:      posts,
		LikedPosts: liked,
		Friends:    friends,
	}, nil
}

// UpdateProfile applies a partial edit to the caller's own profile and
// returns the refreshed card.
func (s *ProfilesService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.UserCard, error) {
	u, err := s.Users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return domain.UserCard{}, err
	}
	return s.Card(ctx, u, "")
}

func (s *ProfilesService) Search(ctx context.Context, query string) ([]domain.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.UserSummary{}, nil
	}
	users, err := s.Users.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.UserSummary{}
	}
	return users, nil
}

// VerifyToggle flips the verified flag on the target. Only admins may
// call it.
func (s *ProfilesService) VerifyToggle(ctx context.Context, acting domain.User, targetHandle string) (bool, error) {
	if !acting.Admin {
		return false, domain.ErrForbidden
	}
	target, err := lookupByHandle(ctx, s.Users, targetHandle)
	if err != nil {
		return false, err
	}
	return s.Users.ToggleVerified(ctx, target.ID)
}
