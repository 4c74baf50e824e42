package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/insight"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// InsightRepository is an in-memory ports.InsightRepository.
type InsightRepository struct {
	mu       sync.RWMutex
	insights map[string]insight.Insight
	likes    map[string]insight.Like

	// SimilarityMatches is returned verbatim by MatchByEmbedding,
	// letting tests script the vector search.
	SimilarityMatches []ports.SimilarityMatch
}

// NewInsightRepository creates an empty in-memory insight repository.
func NewInsightRepository() *InsightRepository {
	return &InsightRepository{
		insights: make(map[string]insight.Insight),
		likes:    make(map[string]insight.Like),
	}
}

func likeKey(insightID, userID string) string {
	return insightID + "/" + userID
}

func (r *InsightRepository) ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]insight.Insight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}

	var out []insight.Insight
	for _, in := range r.insights {
		if authors[in.UserID] {
			out = append(out, in)
		}
	}
	sortInsights(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *InsightRepository) ListByAuthor(ctx context.Context, userID string) ([]insight.Insight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []insight.Insight
	for _, in := range r.insights {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	sortInsights(out)
	return out, nil
}

func (r *InsightRepository) GetByID(ctx context.Context, id string) (*insight.Insight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	in, ok := r.insights[id]
	if !ok {
		return nil, errors.NewNotFoundError("Insight")
	}
	return &in, nil
}

func (r *InsightRepository) Create(ctx context.Context, in *insight.Insight) (*insight.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *in
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.insights[stored.ID] = stored
	return &stored, nil
}

func (r *InsightRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*insight.Insight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.insights[id]
	if !ok {
		return nil, errors.NewNotFoundError("Insight")
	}

	for column, value := range fields {
		s, _ := value.(string)
		switch column {
		case "title":
			in.Title = s
		case "content":
			in.Content = s
		case "link_url":
			in.LinkURL = s
		case "link_title":
			in.LinkTitle = s
		}
	}
	in.UpdatedAt = time.Now().UTC()
	r.insights[id] = in
	return &in, nil
}

func (r *InsightRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, ok := r.insights[id]
	if !ok {
		return errors.NewNotFoundError("Insight")
	}
	in.Embedding = embedding
	r.insights[id] = in
	return nil
}

func (r *InsightRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.insights, id)
	for key, like := range r.likes {
		if like.InsightID == id {
			delete(r.likes, key)
		}
	}
	return nil
}

func (r *InsightRepository) SearchText(ctx context.Context, query string) ([]insight.Insight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	var out []insight.Insight
	for _, in := range r.insights {
		if strings.Contains(strings.ToLower(in.Title), needle) ||
			strings.Contains(strings.ToLower(in.Content), needle) {
			out = append(out, in)
		}
	}
	sortInsights(out)
	return out, nil
}

func (r *InsightRepository) MatchByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]ports.SimilarityMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.SimilarityMatches
	if count > 0 && len(matches) > count {
		matches = matches[:count]
	}
	return matches, nil
}

func (r *InsightRepository) LikeExists(ctx context.Context, insightID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.likes[likeKey(insightID, userID)]
	return ok, nil
}

func (r *InsightRepository) AddLike(ctx context.Context, insightID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.likes[likeKey(insightID, userID)] = insight.Like{
		ID:        uuid.New().String(),
		InsightID: insightID,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (r *InsightRepository) RemoveLike(ctx context.Context, insightID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.likes, likeKey(insightID, userID))
	return nil
}

func (r *InsightRepository) CountLikes(ctx context.Context, insightID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, like := range r.likes {
		if like.InsightID == insightID {
			count++
		}
	}
	return count, nil
}

func sortInsights(insights []insight.Insight) {
	sort.Slice(insights, func(i, j int) bool {
		if insights[i].CreatedAt.Equal(insights[j].CreatedAt) {
			return insights[i].ID < insights[j].ID
		}
		return insights[i].CreatedAt.After(insights[j].CreatedAt)
	})
}
