package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-hq/aurelia-backend/domain/messaging"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// ConversationRepository is an in-memory ports.ConversationRepository.
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]messaging.Conversation
}

// NewConversationRepository creates an empty in-memory conversation repository.
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{conversations: make(map[string]messaging.Conversation)}
}

func (r *ConversationRepository) ListForUser(ctx context.Context, userID string) ([]messaging.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []messaging.Conversation
	for _, c := range r.conversations {
		if c.HasParty(userID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *ConversationRepository) GetByPair(ctx context.Context, user1ID, user2ID string) (*messaging.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.conversations {
		if c.User1ID == user1ID && c.User2ID == user2ID {
			conv := c
			return &conv, nil
		}
	}
	return nil, nil
}

func (r *ConversationRepository) Create(ctx context.Context, user1ID, user2ID string) (*messaging.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	c := messaging.Conversation{
		ID:        uuid.New().String(),
		User1ID:   user1ID,
		User2ID:   user2ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.conversations[c.ID] = c
	return &c, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*messaging.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conversations[id]
	if !ok {
		return nil, errors.NewNotFoundError("Conversation")
	}
	return &c, nil
}

// MessageRepository is an in-memory ports.MessageRepository.
type MessageRepository struct {
	mu       sync.RWMutex
	messages []messaging.Message
}

// NewMessageRepository creates an empty in-memory message repository.
func NewMessageRepository() *MessageRepository {
	return &MessageRepository{}
}

func (r *MessageRepository) List(ctx context.Context, conversationID string, limit, offset int) ([]messaging.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []messaging.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	if offset >= len(out) {
		return []messaging.Message{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MessageRepository) Latest(ctx context.Context, conversationID string) (*messaging.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *messaging.Message
	for i := range r.messages {
		m := r.messages[i]
		if m.ConversationID != conversationID {
			continue
		}
		if latest == nil || m.CreatedAt.After(latest.CreatedAt) {
			latest = &m
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (r *MessageRepository) Create(ctx context.Context, m *messaging.Message) (*messaging.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *m
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.messages = append(r.messages, stored)
	return &stored, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, conversationID, senderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		m := &r.messages[i]
		if m.ConversationID == conversationID && m.SenderID != senderID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *MessageRepository) CountUnread(ctx context.Context, conversationID, senderID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID && m.SenderID != senderID && !m.IsRead {
			count++
		}
	}
	return count, nil
}
