package httpapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"neuralserver/internal/domain"
)

// Stub stores shared by the handler tests. Each call falls through to a
// per-test func field; an unset field fails the test.

type stubUsersStore struct {
	t *testing.T

	createUserFunc          func(context.Context, domain.NewUser) (domain.User, error)
	getUserByTokenFunc      func(context.Context, string) (domain.User, error)
	getUserByHandleFunc     func(context.Context, string) (domain.User, error)
	getUserByLoginFunc      func(context.Context, string) (domain.UserWithPassword, error)
	nameExistsFunc          func(context.Context, string) (bool, error)
	handleExistsFunc        func(context.Context, string) (bool, error)
	tokenExistsFunc         func(context.Context, string) (bool, error)
	touchLastSeenFunc       func(context.Context, string, time.Time) error
	grantAdminFunc          func(context.Context, string) error
	getUserByExternalFunc   func(context.Context, string, string) (domain.User, error)
	linkExternalAccountFunc func(context.Context, string, string, string, string) error
	updateProfileFunc       func(context.Context, string, domain.ProfileUpdate) (domain.User, error)
	toggleVerifiedFunc      func(context.Context, string) (bool, error)
	searchUsersFunc         func(context.Context, string, int) ([]domain.UserSummary, error)
}

func (s *stubUsersStore) CreateUser(ctx context.Context, p domain.NewUser) (domain.User, error) {
	if s.createUserFunc != nil {
		return s.createUserFunc(ctx, p)
	}
	s.t.Fatalf("CreateUser called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubUsersStore) GetUserByToken(ctx context.Context, token string) (domain.User, error) {
	if s.getUserByTokenFunc != nil {
		return s.getUserByTokenFunc(ctx, token)
	}
	s.t.Fatalf("GetUserByToken called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubUsersStore) GetUserByHandle(ctx context.Context, handle string) (domain.User, error) {
	if s.getUserByHandleFunc != nil {
		return s.getUserByHandleFunc(ctx, handle)
	}
	s.t.Fatalf("GetUserByHandle called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubUsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	if s.getUserByLoginFunc != nil {
		return s.getUserByLoginFunc(ctx, login)
	}
	s.t.Fatalf("GetUserByLogin called unexpectedly")
	return domain.UserWithPassword{}, errors.New("unexpected call")
}

func (s *stubUsersStore) NameExists(ctx context.Context, name string) (bool, error) {
	if s.nameExistsFunc != nil {
		return s.nameExistsFunc(ctx, name)
	}
	s.t.Fatalf("NameExists called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubUsersStore) HandleExists(ctx context.Context, handle string) (bool, error) {
	if s.handleExistsFunc != nil {
		return s.handleExistsFunc(ctx, handle)
	}
	s.t.Fatalf("HandleExists called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubUsersStore) TokenExists(ctx context.Context, token string) (bool, error) {
	if s.tokenExistsFunc != nil {
		return s.tokenExistsFunc(ctx, token)
	}
	s.t.Fatalf("TokenExists called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubUsersStore) TouchLastSeen(ctx context.Context, userID string, when time.Time) error {
	if s.touchLastSeenFunc != nil {
		return s.touchLastSeenFunc(ctx, userID, when)
	}
	s.t.Fatalf("TouchLastSeen called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubUsersStore) GrantAdmin(ctx context.Context, userID string) error {
	if s.grantAdminFunc != nil {
		return s.grantAdminFunc(ctx, userID)
	}
	s.t.Fatalf("GrantAdmin called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubUsersStore) GetUserByExternalAccount(ctx context.Context, provider, providerID string) (domain.User, error) {
	if s.getUserByExternalFunc != nil {
		return s.getUserByExternalFunc(ctx, provider, providerID)
	}
	s.t.Fatalf("GetUserByExternalAccount called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubUsersStore) LinkExternalAccount(ctx context.Context, userID, provider, providerID, email string) error {
	if s.linkExternalAccountFunc != nil {
		return s.linkExternalAccountFunc(ctx, userID, provider, providerID, email)
	}
	s.t.Fatalf("LinkExternalAccount called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubUsersStore) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (domain.User, error) {
	if s.updateProfileFunc != nil {
		return s.updateProfileFunc(ctx, userID, upd)
	}
	s.t.Fatalf("UpdateProfile called unexpectedly")
	return domain.User{}, errors.New("unexpected call")
}

func (s *stubUsersStore) ToggleVerified(ctx context.Context, userID string) (bool, error) {
	if s.toggleVerifiedFunc != nil {
		return s.toggleVerifiedFunc(ctx, userID)
	}
	s.t.Fatalf("ToggleVerified called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubUsersStore) SearchUsers(ctx context.Context, query string, limit int) ([]domain.UserSummary, error) {
	if s.searchUsersFunc != nil {
		return s.searchUsersFunc(ctx, query, limit)
	}
	s.t.Fatalf("SearchUsers called unexpectedly")
	return nil, errors.New("unexpected call")
}

type stubFriendshipsStore struct {
	t *testing.T

	createRequestFunc    func(context.Context, string, string) (bool, error)
	acceptFunc           func(context.Context, string, string) error
	rejectFunc           func(context.Context, string, string) error
	removeFriendshipFunc func(context.Context, string, string) error
	areFriendsFunc       func(context.Context, string, string) (bool, error)
	statusFunc           func(context.Context, string, string) (domain.FriendStatus, error)
	pendingBetweenFunc   func(context.Context, string, string) (bool, error)
	listIncomingFunc     func(context.Context, string) ([]domain.IncomingRequest, error)
	listFriendsFunc      func(context.Context, string) ([]domain.UserSummary, error)
	countFriendsFunc     func(context.Context, string) (int, error)
}

func (s *stubFriendshipsStore) CreateRequest(ctx context.Context, senderID, receiverID string) (bool, error) {
	if s.createRequestFunc != nil {
		return s.createRequestFunc(ctx, senderID, receiverID)
	}
	s.t.Fatalf("CreateRequest called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubFriendshipsStore) Accept(ctx context.Context, requestID, receiverID string) error {
	if s.acceptFunc != nil {
		return s.acceptFunc(ctx, requestID, receiverID)
	}
	s.t.Fatalf("Accept called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubFriendshipsStore) Reject(ctx context.Context, requestID, receiverID string) error {
	if s.rejectFunc != nil {
		return s.rejectFunc(ctx, requestID, receiverID)
	}
	s.t.Fatalf("Reject called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubFriendshipsStore) RemoveFriendship(ctx context.Context, userA, userB string) error {
	if s.removeFriendshipFunc != nil {
		return s.removeFriendshipFunc(ctx, userA, userB)
	}
	s.t.Fatalf("RemoveFriendship called unexpectedly")
	return errors.New("unexpected call")
}

func (s *stubFriendshipsStore) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	if s.areFriendsFunc != nil {
		return s.areFriendsFunc(ctx, userA, userB)
	}
	s.t.Fatalf("AreFriends called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubFriendshipsStore) Status(ctx context.Context, viewerID, subjectID string) (domain.FriendStatus, error) {
	if s.statusFunc != nil {
		return s.statusFunc(ctx, viewerID, subjectID)
	}
	s.t.Fatalf("Status called unexpectedly")
	return domain.FriendStatusNone, errors.New("unexpected call")
}

func (s *stubFriendshipsStore) PendingBetween(ctx context.Context, userA, userB string) (bool, error) {
	if s.pendingBetweenFunc != nil {
		return s.pendingBetweenFunc(ctx, userA, userB)
	}
	s.t.Fatalf("PendingBetween called unexpectedly")
	return false, errors.New("unexpected call")
}

func (s *stubFriendshipsStore) ListIncoming(ctx context.Context, userID string) ([]domain.IncomingRequest, error) {
	if s.listIncomingFunc != nil {
		return s.listIncomingFunc(ctx, userID)
	}
	s.t.Fatalf("ListIncoming called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubFriendshipsStore) ListFriends(ctx context.Context, userID string) ([]domain.UserSummary, error) {
	if s.listFriendsFunc != nil {
		return s.listFriendsFunc(ctx, userID)
	}
	s.t.Fatalf("ListFriends called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubFriendshipsStore) CountFriends(ctx context.Context, userID string) (int, error) {
	if s.countFriendsFunc != nil {
		return s.countFriendsFunc(ctx, userID)
	}
	s.t.Fatalf("CountFriends called unexpectedly")
	return 0, errors.New("unexpected call")
}

type stubMessagesStore struct {
	t *testing.T

	createMessageFunc func(context.Context, string, *string, string) (domain.Message, error)
	listBetweenFunc   func(context.Context, string, string) ([]domain.MessageView, error)
	listBroadcastFunc func(context.Context, string, int) ([]domain.MessageView, error)
	getMessageFunc    func(context.Context, string) (domain.Message, error)
	deleteMessageFunc func(context.Context, string) error
}

func (s *stubMessagesStore) CreateMessage(ctx context.Context, senderID string, recipientID *string, text string) (domain.Message, error) {
	if s.createMessageFunc != nil {
		return s.createMessageFunc(ctx, senderID, recipientID, text)
	}
	s.t.Fatalf("CreateMessage called unexpectedly")
	return domain.Message{}, errors.New("unexpected call")
}

func (s *stubMessagesStore) ListBetween(ctx context.Context, userID, partnerID string) ([]domain.MessageView, error) {
	if s.listBetweenFunc != nil {
		return s.listBetweenFunc(ctx, userID, partnerID)
	}
	s.t.Fatalf("ListBetween called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubMessagesStore) ListBroadcast(ctx context.Context, viewerID string, limit int) ([]domain.MessageView, error) {
	if s.listBroadcastFunc != nil {
		return s.listBroadcastFunc(ctx, viewerID, limit)
	}
	s.t.Fatalf("ListBroadcast called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubMessagesStore) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	if s.getMessageFunc != nil {
		return s.getMessageFunc(ctx, id)
	}
	s.t.Fatalf("GetMessage called unexpectedly")
	return domain.Message{}, errors.New("unexpected call")
}

func (s *stubMessagesStore) DeleteMessage(ctx context.Context, id string) error {
	if s.deleteMessageFunc != nil {
		return s.deleteMessageFunc(ctx, id)
	}
	s.t.Fatalf("DeleteMessage called unexpectedly")
	return errors.New("unexpected call")
}

type stubPostsStore struct {
	t *testing.T

	createPostFunc        func(context.Context, string, string, string) (string, error)
	listFeedFunc          func(context.Context, string) ([]domain.PostView, error)
	listPostsByAuthorFunc func(context.Context, string, string) ([]domain.PostView, error)
	listLikedPostsFunc    func(context.Context, string, string, int) ([]domain.PostView, error)
	getPostViewFunc       func(context.Context, string, string) (domain.PostView, error)
	toggleLikeFunc        func(context.Context, string, string) (domain.LikeResult, error)
	addCommentFunc        func(context.Context, string, string, string) (domain.CommentView, error)
	countByAuthorFunc     func(context.Context, string) (int, error)
	reputationFunc        func(context.Context, string) (int, error)
}

func (s *stubPostsStore) CreatePost(ctx context.Context, authorID, content, imageURL string) (string, error) {
	if s.createPostFunc != nil {
		return s.createPostFunc(ctx, authorID, content, imageURL)
	}
	s.t.Fatalf("CreatePost called unexpectedly")
	return "", errors.New("unexpected call")
}

func (s *stubPostsStore) ListFeed(ctx context.Context, viewerID string) ([]domain.PostView, error) {
	if s.listFeedFunc != nil {
		return s.listFeedFunc(ctx, viewerID)
	}
	s.t.Fatalf("ListFeed called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubPostsStore) ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]domain.PostView, error) {
	if s.listPostsByAuthorFunc != nil {
		return s.listPostsByAuthorFunc(ctx, authorID, viewerID)
	}
	s.t.Fatalf("ListPostsByAuthor called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubPostsStore) ListLikedPosts(ctx context.Context, userID, viewerID string, limit int) ([]domain.PostView, error) {
	if s.listLikedPostsFunc != nil {
		return s.listLikedPostsFunc(ctx, userID, viewerID, limit)
	}
	s.t.Fatalf("ListLikedPosts called unexpectedly")
	return nil, errors.New("unexpected call")
}

func (s *stubPostsStore) GetPostView(ctx context.Context, postID, viewerID string) (domain.PostView, error) {
	if s.getPostViewFunc != nil {
		return s.getPostViewFunc(ctx, postID, viewerID)
	}
	s.t.Fatalf("GetPostView called unexpectedly")
	return domain.PostView{}, errors.New("unexpected call")
}

func (s *stubPostsStore) ToggleLike(ctx context.Context, userID, postID string) (domain.LikeResult, error) {
	if s.toggleLikeFunc != nil {
		return s.toggleLikeFunc(ctx, userID, postID)
	}
	s.t.Fatalf("ToggleLike called unexpectedly")
	return domain.LikeResult{}, errors.New("unexpected call")
}

func (s *stubPostsStore) AddComment(ctx context.Context, authorID, postID, content string) (domain.CommentView, error) {
	if s.addCommentFunc != nil {
		return s.addCommentFunc(ctx, authorID, postID, content)
	}
	s.t.Fatalf("AddComment called unexpectedly")
	return domain.CommentView{}, errors.New("unexpected call")
}

func (s *stubPostsStore) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	if s.countByAuthorFunc != nil {
		return s.countByAuthorFunc(ctx, authorID)
	}
	s.t.Fatalf("CountByAuthor called unexpectedly")
	return 0, errors.New("unexpected call")
}

func (s *stubPostsStore) Reputation(ctx context.Context, userID string) (int, error) {
	if s.reputationFunc != nil {
		return s.reputationFunc(ctx, userID)
	}
	s.t.Fatalf("Reputation called unexpectedly")
	return 0, errors.New("unexpected call")
}
