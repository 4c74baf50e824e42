package supabase

import (
	"context"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aurelia-hq/aurelia-backend/domain/messaging"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const messagesTable = "messages"

// MessageRepository persists messages in the external store.
type MessageRepository struct {
	client *supa.Client
}

// NewMessageRepository creates a Supabase-backed message repository.
func NewMessageRepository(client *supa.Client) *MessageRepository {
	return &MessageRepository{client: client}
}

// List returns a conversation's messages, oldest first.
func (r *MessageRepository) List(ctx context.Context, conversationID string, limit, offset int) ([]messaging.Message, error) {
	data, _, err := r.client.From(messagesTable).
		Select("*", "", false).
		Eq("conversation_id", conversationID).
		Order("created_at", ascending).
		Range(offset, offset+limit-1, "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("listing messages", err)
	}
	return decodeRows[messaging.Message](data)
}

// Latest returns the most recent message in a conversation, or nil when empty.
func (r *MessageRepository) Latest(ctx context.Context, conversationID string) (*messaging.Message, error) {
	data, _, err := r.client.From(messagesTable).
		Select("*", "", false).
		Eq("conversation_id", conversationID).
		Order("created_at", descending).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("fetching latest message", err)
	}
	return decodeFirst[messaging.Message](data)
}

// Create inserts a message.
func (r *MessageRepository) Create(ctx context.Context, m *messaging.Message) (*messaging.Message, error) {
	row := map[string]interface{}{
		"conversation_id": m.ConversationID,
		"sender_id":       m.SenderID,
		"content":         m.Content,
		"is_read":         m.IsRead,
	}

	data, _, err := r.client.From(messagesTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("creating message", err)
	}

	created, err := decodeFirst[messaging.Message](data)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.NewInternalError("message insert returned no row")
	}
	return created, nil
}

// MarkRead flags messages sent to readerID in the conversation as read.
func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, readerID string) error {
	_, _, err := r.client.From(messagesTable).
		Update(map[string]interface{}{"is_read": true}, "minimal", "").
		Eq("conversation_id", conversationID).
		Neq("sender_id", readerID).
		Eq("is_read", "false").
		Execute()
	if err != nil {
		return errors.NewExternalError("marking messages read", err)
	}
	return nil
}

// CountUnread returns the number of unread messages sent to readerID in the conversation.
func (r *MessageRepository) CountUnread(ctx context.Context, conversationID, readerID string) (int64, error) {
	_, count, err := r.client.From(messagesTable).
		Select("id", "exact", false).
		Eq("conversation_id", conversationID).
		Neq("sender_id", readerID).
		Eq("is_read", "false").
		Execute()
	if err != nil {
		return 0, errors.NewExternalError("counting unread messages", err)
	}
	return count, nil
}
