// Package insight holds member-authored posts and their like edges.
package insight

import "time"

// Insight is a short post authored by a member, optionally linking out.
type Insight struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	LinkURL   string    `json:"link_url,omitempty"`
	LinkTitle string    `json:"link_title,omitempty"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Like is a unique (user, insight) edge.
type Like struct {
	ID        string    `json:"id"`
	InsightID string    `json:"insight_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
