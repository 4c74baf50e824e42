// Package messaging holds direct-message conversations and messages.
package messaging

import "time"

// Conversation is the single row for an unordered pair of users. User ids
// are stored in canonical order so (X, Y) and (Y, X) resolve to one row.
type Conversation struct {
	ID        string    `json:"id"`
	User1ID   string    `json:"user1_id"`
	User2ID   string    `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanonicalPair orders two user ids so the lower id is always first.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// OtherParty returns the participant that is not userID.
func (c *Conversation) OtherParty(userID string) string {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// HasParty reports whether userID is a participant of the conversation.
func (c *Conversation) HasParty(userID string) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// Message belongs to a conversation, ordered by creation time within it.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}
