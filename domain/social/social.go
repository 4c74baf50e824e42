// Package social holds the follow graph and notification records.
package social

import "time"

// Follow is a directed edge in the follow graph. Edges are unique per
// (follower, following) pair and never self-referencing.
type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notification types.
const (
	NotificationTypeFollow = "follow"
)

// Notification belongs to a recipient and is created as a side effect of
// other actions, such as gaining a follower.
type Notification struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	Message       string    `json:"message"`
	RelatedUserID string    `json:"related_user_id,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}
