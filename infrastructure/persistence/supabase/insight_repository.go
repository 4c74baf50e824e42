package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	supa "github.com/supabase-community/supabase-go"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/insight"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const (
	insightsTable     = "insights"
	insightLikesTable = "insight_likes"

	// Embedding stays out of the column list; the vector type does not
	// round-trip through the REST layer as a float slice.
	insightColumns = "id,user_id,title,content,link_url,link_title,created_at,updated_at"
)

// InsightRepository persists insights and their likes in the external store.
type InsightRepository struct {
	client *supa.Client
}

// NewInsightRepository creates a Supabase-backed insight repository.
func NewInsightRepository(client *supa.Client) *InsightRepository {
	return &InsightRepository{client: client}
}

// ListByAuthors returns insights authored by any of the given users, newest first.
func (r *InsightRepository) ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]insight.Insight, error) {
	if len(authorIDs) == 0 {
		return []insight.Insight{}, nil
	}

	data, _, err := r.client.From(insightsTable).
		Select(insightColumns, "", false).
		In("user_id", authorIDs).
		Order("created_at", descending).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("listing insights", err)
	}
	return decodeRows[insight.Insight](data)
}

// ListByAuthor returns a single author's insights, newest first.
func (r *InsightRepository) ListByAuthor(ctx context.Context, userID string) ([]insight.Insight, error) {
	data, _, err := r.client.From(insightsTable).
		Select(insightColumns, "", false).
		Eq("user_id", userID).
		Order("created_at", descending).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("listing insights", err)
	}
	return decodeRows[insight.Insight](data)
}

// GetByID retrieves an insight by its id.
func (r *InsightRepository) GetByID(ctx context.Context, id string) (*insight.Insight, error) {
	data, _, err := r.client.From(insightsTable).
		Select(insightColumns, "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("fetching insight", err)
	}

	in, err := decodeFirst[insight.Insight](data)
	if err != nil {
		return nil, err
	}
	if in == nil {
		return nil, errors.NewNotFoundError("Insight")
	}
	return in, nil
}

// Create inserts an insight.
func (r *InsightRepository) Create(ctx context.Context, in *insight.Insight) (*insight.Insight, error) {
	row := map[string]interface{}{
		"user_id": in.UserID,
		"title":   in.Title,
		"content": in.Content,
	}
	if in.LinkURL != "" {
		row["link_url"] = in.LinkURL
	}
	if in.LinkTitle != "" {
		row["link_title"] = in.LinkTitle
	}

	data, _, err := r.client.From(insightsTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("creating insight", err)
	}

	created, err := decodeFirst[insight.Insight](data)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.NewInternalError("insight insert returned no row")
	}
	return created, nil
}

// Update applies a partial update and returns the stored row.
func (r *InsightRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*insight.Insight, error) {
	data, _, err := r.client.From(insightsTable).
		Update(fields, "representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("updating insight", err)
	}

	updated, err := decodeFirst[insight.Insight](data)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errors.NewNotFoundError("Insight")
	}
	return updated, nil
}

// UpdateEmbedding stores a new embedding vector for an insight.
func (r *InsightRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	_, _, err := r.client.From(insightsTable).
		Update(map[string]interface{}{"embedding": embedding}, "minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return errors.NewExternalError("updating insight embedding", err)
	}
	return nil
}

// Delete removes an insight row.
func (r *InsightRepository) Delete(ctx context.Context, id string) error {
	_, _, err := r.client.From(insightsTable).
		Delete("minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return errors.NewExternalError("deleting insight", err)
	}
	return nil
}

// ilikePattern builds the wildcard pattern interpolated into the or-filter.
// Percent signs and commas are stripped: the former are wildcards, the
// latter are the or-filter's condition separator.
func ilikePattern(query string) string {
	cleaned := strings.NewReplacer("%", "", ",", "").Replace(query)
	return "%" + cleaned + "%"
}

// SearchText returns insights whose title or content contains the query.
func (r *InsightRepository) SearchText(ctx context.Context, query string) ([]insight.Insight, error) {
	pattern := ilikePattern(query)

	data, _, err := r.client.From(insightsTable).
		Select(insightColumns, "", false).
		Or(fmt.Sprintf("title.ilike.%s,content.ilike.%s", pattern, pattern), "").
		Order("created_at", descending).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("searching insights", err)
	}
	return decodeRows[insight.Insight](data)
}

// MatchByEmbedding runs the server-side similarity search procedure.
func (r *InsightRepository) MatchByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]ports.SimilarityMatch, error) {
	result := r.client.Rpc("match_insights", "", map[string]interface{}{
		"query_embedding": embedding,
		"match_threshold": threshold,
		"match_count":     count,
	})
	if result == "" {
		return nil, errors.NewExternalError("match_insights procedure failed", nil)
	}

	var matches []ports.SimilarityMatch
	if err := json.Unmarshal([]byte(result), &matches); err != nil {
		return nil, errors.Wrapf(err, "supabase: decoding %s result", "match_insights")
	}
	return matches, nil
}

// LikeExists reports whether userID already liked the insight.
func (r *InsightRepository) LikeExists(ctx context.Context, insightID, userID string) (bool, error) {
	data, _, err := r.client.From(insightLikesTable).
		Select("id", "", false).
		Eq("insight_id", insightID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return false, errors.NewExternalError("checking like", err)
	}

	rows, err := decodeRows[insight.Like](data)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// AddLike inserts a like edge.
func (r *InsightRepository) AddLike(ctx context.Context, insightID, userID string) error {
	row := map[string]interface{}{
		"insight_id": insightID,
		"user_id":    userID,
	}

	_, _, err := r.client.From(insightLikesTable).
		Insert(row, false, "", "minimal", "").
		Execute()
	if err != nil {
		return errors.NewExternalError("adding like", err)
	}
	return nil
}

// RemoveLike deletes a like edge. Removing an absent like is a no-op.
func (r *InsightRepository) RemoveLike(ctx context.Context, insightID, userID string) error {
	_, _, err := r.client.From(insightLikesTable).
		Delete("minimal", "").
		Eq("insight_id", insightID).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return errors.NewExternalError("removing like", err)
	}
	return nil
}

// CountLikes returns the number of likes on an insight.
func (r *InsightRepository) CountLikes(ctx context.Context, insightID string) (int64, error) {
	_, count, err := r.client.From(insightLikesTable).
		Select("id", "exact", false).
		Eq("insight_id", insightID).
		Execute()
	if err != nil {
		return 0, errors.NewExternalError("counting likes", err)
	}
	return count, nil
}
