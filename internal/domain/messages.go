package domain

import "time"

// Message is a chat message. A nil RecipientID marks a broadcast message
// on the shared channel.
type Message struct {
	ID          string
	SenderID    string
	RecipientID *string
	Text        string
	CreatedAt   time.Time
}

// MessageView is a message projected for one viewer.
type MessageView struct {
	ID           string    `json:"id"`
	SenderID     string    `json:"senderId"`
	SenderName   string    `json:"senderName"`
	SenderAvatar string    `json:"senderAvatar"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"timestamp"`
	IsOwn        bool      `json:"isOwn"`
}
