package ports

import (
	"context"

	"github.com/aurelia-hq/aurelia-backend/domain/insight"
	"github.com/aurelia-hq/aurelia-backend/domain/messaging"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
	"github.com/aurelia-hq/aurelia-backend/domain/social"
)

// ProfileFilter holds the structured search criteria for profiles.
type ProfileFilter struct {
	Industry     string
	Location     string
	School       string
	CareerStatus string
	Skills       []string
}

// IsZero reports whether no structured criteria are set.
func (f ProfileFilter) IsZero() bool {
	return f.Industry == "" && f.Location == "" && f.School == "" &&
		f.CareerStatus == "" && len(f.Skills) == 0
}

// SimilarityMatch is a row id paired with its vector similarity score.
type SimilarityMatch struct {
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// ProfileRepository defines the interface for profile persistence.
// The external store owns the rows; implementations only delegate.
type ProfileRepository interface {
	// GetByID retrieves a profile by its id
	GetByID(ctx context.Context, id string) (*profile.Profile, error)

	// GetByIDs retrieves profiles for a set of ids, preserving no
	// particular order
	GetByIDs(ctx context.Context, ids []string) ([]profile.Profile, error)

	// Create inserts a new profile row
	Create(ctx context.Context, p *profile.Profile) (*profile.Profile, error)

	// Update applies a partial update and returns the stored row
	Update(ctx context.Context, id string, fields map[string]interface{}) (*profile.Profile, error)

	// UpdateEmbedding stores a new embedding vector for a profile
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error

	// Delete removes a profile row
	Delete(ctx context.Context, id string) error

	// Search returns profiles matching the structured criteria
	Search(ctx context.Context, filter ProfileFilter) ([]profile.Profile, error)

	// ListOthers returns up to limit profiles excluding the given id
	ListOthers(ctx context.Context, excludeID string, limit int) ([]profile.Profile, error)

	// MatchByEmbedding runs the server-side similarity search procedure
	MatchByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]SimilarityMatch, error)
}

// FollowRepository defines the interface for follow edge persistence.
type FollowRepository interface {
	// Exists reports whether follower already follows following
	Exists(ctx context.Context, followerID, followingID string) (bool, error)

	// Create inserts a follow edge
	Create(ctx context.Context, followerID, followingID string) (*social.Follow, error)

	// Delete removes a follow edge, reporting whether one existed
	Delete(ctx context.Context, followerID, followingID string) (bool, error)

	// ListFollowers returns edges pointing at userID
	ListFollowers(ctx context.Context, userID string) ([]social.Follow, error)

	// ListFollowing returns edges originating from userID
	ListFollowing(ctx context.Context, userID string) ([]social.Follow, error)

	// CountFollowers returns the number of followers of userID
	CountFollowers(ctx context.Context, userID string) (int64, error)

	// CountFollowing returns the number of users userID follows
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

// NotificationRepository defines the interface for notification persistence.
type NotificationRepository interface {
	// List returns the recipient's notifications, newest first
	List(ctx context.Context, userID string, limit, offset int) ([]social.Notification, error)

	// Create inserts a notification
	Create(ctx context.Context, n *social.Notification) error

	// Delete removes a single notification owned by userID, reporting
	// whether one existed
	Delete(ctx context.Context, id, userID string) (bool, error)

	// DeleteAll removes every notification of userID, returning the count
	DeleteAll(ctx context.Context, userID string) (int, error)

	// MarkAllRead flags every notification of userID as read
	MarkAllRead(ctx context.Context, userID string) error
}

// ConversationRepository defines the interface for conversation persistence.
type ConversationRepository interface {
	// ListForUser returns conversations userID participates in, most
	// recently updated first
	ListForUser(ctx context.Context, userID string) ([]messaging.Conversation, error)

	// GetByPair looks up the conversation for a canonical user pair,
	// returning nil when none exists
	GetByPair(ctx context.Context, user1ID, user2ID string) (*messaging.Conversation, error)

	// Create inserts a conversation row for a canonical user pair
	Create(ctx context.Context, user1ID, user2ID string) (*messaging.Conversation, error)

	// GetByID retrieves a conversation by its id
	GetByID(ctx context.Context, id string) (*messaging.Conversation, error)
}

// MessageRepository defines the interface for message persistence.
type MessageRepository interface {
	// List returns messages of a conversation in ascending creation order
	List(ctx context.Context, conversationID string, limit, offset int) ([]messaging.Message, error)

	// Latest returns the newest message of a conversation, nil when empty
	Latest(ctx context.Context, conversationID string) (*messaging.Message, error)

	// Create inserts a message
	Create(ctx context.Context, m *messaging.Message) (*messaging.Message, error)

	// MarkRead flags messages not sent by senderID as read
	MarkRead(ctx context.Context, conversationID, senderID string) error

	// CountUnread counts unread messages not sent by senderID
	CountUnread(ctx context.Context, conversationID, senderID string) (int64, error)
}

// InsightRepository defines the interface for insight and like persistence.
type InsightRepository interface {
	// ListByAuthors returns insights authored by any of the given users,
	// newest first, capped at limit
	ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]insight.Insight, error)

	// ListByAuthor returns a single author's insights, newest first
	ListByAuthor(ctx context.Context, userID string) ([]insight.Insight, error)

	// GetByID retrieves an insight by its id
	GetByID(ctx context.Context, id string) (*insight.Insight, error)

	// Create inserts an insight
	Create(ctx context.Context, in *insight.Insight) (*insight.Insight, error)

	// Update applies a partial update and returns the stored row
	Update(ctx context.Context, id string, fields map[string]interface{}) (*insight.Insight, error)

	// UpdateEmbedding stores a new embedding vector for an insight
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error

	// Delete removes an insight row
	Delete(ctx context.Context, id string) error

	// SearchText returns insights whose title or content contains the
	// query, case-insensitively
	SearchText(ctx context.Context, query string) ([]insight.Insight, error)

	// MatchByEmbedding runs the server-side similarity search procedure
	MatchByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]SimilarityMatch, error)

	// LikeExists reports whether userID already liked the insight
	LikeExists(ctx context.Context, insightID, userID string) (bool, error)

	// AddLike inserts a like edge
	AddLike(ctx context.Context, insightID, userID string) error

	// RemoveLike deletes a like edge; removing an absent like is a no-op
	RemoveLike(ctx context.Context, insightID, userID string) error

	// CountLikes returns the number of likes on an insight
	CountLikes(ctx context.Context, insightID string) (int64, error)
}
