package service

import (
	"context"
	"errors"
	"strings"

	"neuralserver/internal/domain"
)

type FriendshipsStore interface {
	CreateRequest(ctx context.Context, senderID, receiverID string) (bool, error)
	Accept(ctx context.Context, requestID, receiverID string) error
	Reject(ctx context.Context, requestID, receiverID string) error
	RemoveFriendship(ctx context.Context, userA, userB string) error
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
	Status(ctx context.Context, viewerID, subjectID string) (domain.FriendStatus, error)
	PendingBetween(ctx context.Context, userA, userB string) (bool, error)
	ListIncoming(ctx context.Context, userID string) ([]domain.IncomingRequest, error)
	ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error)
	CountFriends(ctx context.Context, userID string) (int, error)
}

// handleResolver is the slice of the users store needed to turn a
// handle into a user.
type handleResolver interface {
	GetUserByHandle(ctx context.Context, handle string) (domain.User, error)
}

type FriendsService struct {
	Users       UsersStore
	Friendships FriendshipsStore
}

// lookupByHandle resolves a handle with or without its leading "@".
func lookupByHandle(ctx context.Context, users handleResolver, handle string) (domain.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.User{}, domain.ErrNotFound
	}
	u, err := users.GetUserByHandle(ctx, handle)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return u, err
	}
	if strings.HasPrefix(handle, "@") {
		return domain.User{}, domain.ErrNotFound
	}
	return users.GetUserByHandle(ctx, "@"+handle)
}

// SendRequest is idempotent: resending against an existing friendship or
// a pending request in either direction reports the current status
// without creating anything.
func (s *FriendsService) SendRequest(ctx context.Context, senderID, targetHandle string) (domain.FriendStatus, error) {
	target, err := lookupByHandle(ctx, s.Users, targetHandle)
	if err != nil {
		return "", err
	}
	if target.ID == senderID {
		return "", domain.NewValidationError(map[string]string{"handle": "cannot add yourself"})
	}

	friends, err := s.Friendships.AreFriends(ctx, senderID, target.ID)
	if err != nil {
		return "", err
	}
	if friends {
		return domain.FriendStatusFriends, nil
	}

	pending, err := s.Friendships.PendingBetween(ctx, senderID, target.ID)
	if err != nil {
		return "", err
	}
	if pending {
		return domain.FriendStatusPendingSent, nil
	}

	if _, err := s.Friendships.CreateRequest(ctx, senderID, target.ID); err != nil {
		return "", err
	}
	return domain.FriendStatusPendingSent, nil
}

func (s *FriendsService) Respond(ctx context.Context, responderID, requestID string, action domain.RespondAction) error {
	switch action {
	case domain.RespondAccept:
		return s.Friendships.Accept(ctx, requestID, responderID)
	case domain.RespondReject:
		return s.Friendships.Reject(ctx, requestID, responderID)
	default:
		return domain.NewValidationError(map[string]string{"action": "must be accept or reject"})
	}
}

// RemoveFriend deletes the friendship edge. Removing someone who is not
// a friend succeeds as a no-op.
func (s *FriendsService) RemoveFriend(ctx context.Context, userID, targetHandle string) error {
	target, err := lookupByHandle(ctx, s.Users, targetHandle)
	if err != nil {
		return err
	}
	return s.Friendships.RemoveFriendship(ctx, userID, target.ID)
}

func (s *FriendsService) ListIncoming(ctx context.Context, userID string) ([]domain.IncomingRequest, error) {
	reqs, err := s.Friendships.ListIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	if reqs == nil {
		reqs = []domain.IncomingRequest{}
	}
	return reqs, nil
}

func (s *FriendsService) Status(ctx context.Context, viewerID, subjectID string) (domain.FriendStatus, error) {
	if viewerID == "" || viewerID == subjectID {
		return domain.FriendStatusNone, nil
	}
	return s.Friendships.Status(ctx, viewerID, subjectID)
}
