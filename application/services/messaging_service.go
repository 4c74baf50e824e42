package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/messaging"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// MessagingService owns direct-message conversations. Pairs are stored in
// canonical order so a conversation between two users is a single row no
// matter who opened it.
type MessagingService struct {
	conversations ports.ConversationRepository
	messages      ports.MessageRepository
	profiles      ports.ProfileRepository
	logger        *zap.Logger
}

// NewMessagingService creates a messaging service.
func NewMessagingService(
	conversations ports.ConversationRepository,
	messages ports.MessageRepository,
	profiles ports.ProfileRepository,
	logger *zap.Logger,
) *MessagingService {
	return &MessagingService{
		conversations: conversations,
		messages:      messages,
		profiles:      profiles,
		logger:        logger,
	}
}

// ConversationParty is the compact other-participant view.
type ConversationParty struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// ConversationView is one conversation in the caller's inbox.
type ConversationView struct {
	ID          string             `json:"id"`
	OtherUser   ConversationParty  `json:"other_user"`
	LastMessage *messaging.Message `json:"last_message"`
	UnreadCount int64              `json:"unread_count"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ListConversations returns the caller's conversations, most recently
// updated first, each with the other participant, the latest message and
// the caller's unread count.
func (s *MessagingService) ListConversations(ctx context.Context, userID string) ([]ConversationView, error) {
	conversations, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(conversations))
	for i := range conversations {
		conv := conversations[i]
		view := ConversationView{
			ID:        conv.ID,
			OtherUser: s.partyView(ctx, conv.OtherParty(userID)),
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		}
		if latest, err := s.messages.Latest(ctx, conv.ID); err == nil {
			view.LastMessage = latest
		}
		if unread, err := s.messages.CountUnread(ctx, conv.ID, userID); err == nil {
			view.UnreadCount = unread
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *MessagingService) partyView(ctx context.Context, userID string) ConversationParty {
	party := ConversationParty{ID: userID}
	if p, err := s.profiles.GetByID(ctx, userID); err == nil {
		party.Name = p.FullName
		party.ProfilePictureURL = p.ProfilePictureURL
	}
	return party
}

// OpenedConversation is the result of opening a chat with another user.
type OpenedConversation struct {
	ID        string            `json:"id"`
	OtherUser ConversationParty `json:"other_user"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// GetOrCreateConversation returns the conversation with another user,
// creating it when none exists yet.
func (s *MessagingService) GetOrCreateConversation(ctx context.Context, userID, otherUserID string) (*OpenedConversation, error) {
	if userID == otherUserID {
		return nil, errors.NewValidationError("Cannot create conversation with yourself")
	}

	user1ID, user2ID := messaging.CanonicalPair(userID, otherUserID)
	conv, err := s.conversations.GetByPair(ctx, user1ID, user2ID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv, err = s.conversations.Create(ctx, user1ID, user2ID)
		if err != nil {
			return nil, err
		}
	}

	return &OpenedConversation{
		ID:        conv.ID,
		OtherUser: s.partyView(ctx, otherUserID),
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}, nil
}

// ListMessages returns a conversation's messages in ascending order and
// marks the caller's incoming messages as read.
func (s *MessagingService) ListMessages(ctx context.Context, userID, conversationID string, limit, offset int) ([]messaging.Message, error) {
	if err := s.requireParty(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msgs, err := s.messages.List(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := s.messages.MarkRead(ctx, conversationID, userID); err != nil {
		s.logger.Warn("Failed to mark messages read",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}
	return msgs, nil
}

// SendMessage appends a message to a conversation the caller participates in.
func (s *MessagingService) SendMessage(ctx context.Context, userID, conversationID, content string) (*messaging.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.NewValidationError("Message content is required")
	}

	if err := s.requireParty(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	return s.messages.Create(ctx, &messaging.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Content:        content,
	})
}

// MarkConversationRead flags every incoming message in a conversation as read.
func (s *MessagingService) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	if err := s.requireParty(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.messages.MarkRead(ctx, conversationID, userID)
}

// UnreadCount sums unread incoming messages across all of the caller's
// conversations.
func (s *MessagingService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	conversations, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, conv := range conversations {
		count, err := s.messages.CountUnread(ctx, conv.ID, userID)
		if err != nil {
			return 0, err
		}
		total += count
	}
	return total, nil
}

func (s *MessagingService) requireParty(ctx context.Context, userID, conversationID string) error {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParty(userID) {
		return errors.NewForbiddenError("Unauthorized")
	}
	return nil
}
