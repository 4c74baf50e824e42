package supabase

import (
	"context"
	"fmt"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aurelia-hq/aurelia-backend/domain/messaging"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const conversationsTable = "conversations"

// ConversationRepository persists conversations in the external store.
type ConversationRepository struct {
	client *supa.Client
}

// NewConversationRepository creates a Supabase-backed conversation repository.
func NewConversationRepository(client *supa.Client) *ConversationRepository {
	return &ConversationRepository{client: client}
}

// ListForUser returns conversations involving userID, most recently updated first.
func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]messaging.Conversation, error) {
	data, _, err := r.client.From(conversationsTable).
		Select("*", "", false).
		Or(fmt.Sprintf("user1_id.eq.%s,user2_id.eq.%s", userID, userID), "").
		Order("updated_at", descending).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("listing conversations", err)
	}
	return decodeRows[messaging.Conversation](data)
}

// GetByPair returns the conversation between the canonical pair, or nil when absent.
func (r *ConversationRepository) GetByPair(ctx context.Context, user1ID, user2ID string) (*messaging.Conversation, error) {
	data, _, err := r.client.From(conversationsTable).
		Select("*", "", false).
		Eq("user1_id", user1ID).
		Eq("user2_id", user2ID).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("fetching conversation", err)
	}
	return decodeFirst[messaging.Conversation](data)
}

// Create inserts a conversation for the canonical pair.
func (r *ConversationRepository) Create(ctx context.Context, user1ID, user2ID string) (*messaging.Conversation, error) {
	row := map[string]interface{}{
		"user1_id": user1ID,
		"user2_id": user2ID,
	}

	data, _, err := r.client.From(conversationsTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("creating conversation", err)
	}

	created, err := decodeFirst[messaging.Conversation](data)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.NewInternalError("conversation insert returned no row")
	}
	return created, nil
}

// GetByID returns a conversation by id.
func (r *ConversationRepository) GetByID(ctx context.Context, conversationID string) (*messaging.Conversation, error) {
	data, _, err := r.client.From(conversationsTable).
		Select("*", "", false).
		Eq("id", conversationID).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("fetching conversation", err)
	}

	conv, err := decodeFirst[messaging.Conversation](data)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, errors.NewNotFoundError("Conversation")
	}
	return conv, nil
}
