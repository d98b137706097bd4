package domain

// FriendStatus is the derived relationship between a viewer and a
// subject, computed from the friends and friend_requests tables on read.
type FriendStatus string

const (
	FriendStatusNone            FriendStatus = "none"
	FriendStatusFriends         FriendStatus = "friends"
	FriendStatusPendingSent     FriendStatus = "pending_sent"
	FriendStatusPendingReceived FriendStatus = "pending_received"
)

// IncomingRequest is an inbound friend request with the sender resolved
// for display.
type IncomingRequest struct {
	RequestID    string `json:"requestId"`
	SenderName   string `json:"senderName"`
	SenderHandle string `json:"senderHandle"`
	SenderAvatar string `json:"senderAvatar"`
}

type RespondAction string

const (
	RespondAccept RespondAction = "accept"
	RespondReject RespondAction = "reject"
)
