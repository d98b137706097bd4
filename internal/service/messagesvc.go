package service

import (
	"context"
	"strings"

	"neuralserver/internal/domain"
)

type MessagesStore interface {
	CreateMessage(ctx context.Context, senderID string, recipientID *string, text string) (domain.Message, error)
	ListBetween(ctx context.Context, userID, partnerID string) ([]domain.MessageView, error)
	ListBroadcast(ctx context.Context, viewerID string, limit int) ([]domain.MessageView, error)
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	DeleteMessage(ctx context.Context, id string) error
}

// broadcastLimit caps how much of the shared channel a single listing
// returns.
const broadcastLimit = 100

type MessagesService struct {
	Messages MessagesStore
}

// Send stores a message from sender. A nil recipient publishes it on the
// shared channel.
func (s *MessagesService) Send(ctx context.Context, sender domain.User, text string, recipientID *string) (domain.MessageView, error) {
	if strings.TrimSpace(text) == "" {
		return domain.MessageView{}, domain.NewValidationError(map[string]string{"text": "required"})
	}
	if recipientID != nil && *recipientID == "" {
		recipientID = nil
	}

	m, err := s.Messages.CreateMessage(ctx, sender.ID, recipientID, text)
	if err != nil {
		return domain.MessageView{}, err
	}

	return domain.MessageView{
		ID:           m.ID,
		SenderID:     sender.ID,
		SenderName:   sender.Name,
		SenderAvatar: sender.Avatar,
		Text:         m.Text,
		CreatedAt:    m.CreatedAt,
		IsOwn:        true,
	}, nil
}

// ListConversation returns the 1:1 history with partnerID, or the shared
// channel when partnerID is empty.
func (s *MessagesService) ListConversation(ctx context.Context, userID, partnerID string) ([]domain.MessageView, error) {
	var (
		msgs []domain.MessageView
		err  error
	)
	if partnerID == "" {
		msgs, err = s.Messages.ListBroadcast(ctx, userID, broadcastLimit)
	} else {
		msgs, err = s.Messages.ListBetween(ctx, userID, partnerID)
	}
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.MessageView{}
	}
	return msgs, nil
}

// Delete removes a message. Only the sender may delete it.
func (s *MessagesService) Delete(ctx context.Context, userID, messageID string) error {
	m, err := s.Messages.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != userID {
		return domain.ErrForbidden
	}
	return s.Messages.DeleteMessage(ctx, messageID)
}
