package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/application/search"
	"github.com/aurelia-hq/aurelia-backend/domain/insight"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const feedLimit = 50

// InsightService owns member posts, their likes and the insight feed.
type InsightService struct {
	insights ports.InsightRepository
	follows  ports.FollowRepository
	profiles ports.ProfileRepository

	embeddings *EmbeddingService
	reranker   *search.Reranker
	logger     *zap.Logger
}

// NewInsightService creates an insight service.
func NewInsightService(
	insights ports.InsightRepository,
	follows ports.FollowRepository,
	profiles ports.ProfileRepository,
	embeddings *EmbeddingService,
	reranker *search.Reranker,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		insights:   insights,
		follows:    follows,
		profiles:   profiles,
		embeddings: embeddings,
		reranker:   reranker,
		logger:     logger,
	}
}

// AuthorSummary is the compact author view attached to feed entries.
type AuthorSummary struct {
	FullName          string `json:"full_name"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
}

// InsightView is an insight enriched with its author and like state.
type InsightView struct {
	insight.Insight
	Profile     *AuthorSummary `json:"profile,omitempty"`
	LikesCount  int64          `json:"likes_count"`
	LikedByUser bool           `json:"liked_by_user"`
}

// Feed returns recent insights from the users the caller follows.
func (s *InsightService) Feed(ctx context.Context, userID string) ([]InsightView, error) {
	following, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []InsightView{}, nil
	}

	authorIDs := make([]string, len(following))
	for i, f := range following {
		authorIDs[i] = f.FollowingID
	}

	insights, err := s.insights.ListByAuthors(ctx, authorIDs, feedLimit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, insights, userID, true), nil
}

// enrich attaches like counts, the viewer's like state and, when withAuthor
// is set, the author summary.
func (s *InsightService) enrich(ctx context.Context, insights []insight.Insight, viewerID string, withAuthor bool) []InsightView {
	views := make([]InsightView, 0, len(insights))
	for i := range insights {
		in := insights[i]
		view := InsightView{Insight: in}

		if withAuthor {
			if p, err := s.profiles.GetByID(ctx, in.UserID); err == nil {
				view.Profile = &AuthorSummary{
					FullName:          p.FullName,
					ProfilePictureURL: p.ProfilePictureURL,
				}
			}
		}
		if count, err := s.insights.CountLikes(ctx, in.ID); err == nil {
			view.LikesCount = count
		}
		if viewerID != "" {
			if liked, err := s.insights.LikeExists(ctx, in.ID, viewerID); err == nil {
				view.LikedByUser = liked
			}
		}
		views = append(views, view)
	}
	return views
}

// Create inserts a new insight. The embedding is stored best-effort.
func (s *InsightService) Create(ctx context.Context, userID, title, content, linkURL, linkTitle string) (*insight.Insight, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, errors.NewValidationError("Title and content are required")
	}

	created, err := s.insights.Create(ctx, &insight.Insight{
		UserID:    userID,
		Title:     title,
		Content:   content,
		LinkURL:   linkURL,
		LinkTitle: linkTitle,
	})
	if err != nil {
		return nil, err
	}

	s.refreshEmbedding(ctx, created)
	return created, nil
}

// Get returns a single insight with its like state. viewerID may be empty
// for anonymous reads.
func (s *InsightService) Get(ctx context.Context, viewerID, insightID string) (*InsightView, error) {
	in, err := s.insights.GetByID(ctx, insightID)
	if err != nil {
		return nil, err
	}

	views := s.enrich(ctx, []insight.Insight{*in}, viewerID, false)
	return &views[0], nil
}

// Update applies a partial update to an insight the caller owns.
func (s *InsightService) Update(ctx context.Context, userID, insightID string, fields map[string]interface{}) (*insight.Insight, error) {
	if err := s.requireOwner(ctx, userID, insightID); err != nil {
		return nil, err
	}

	updated, err := s.insights.Update(ctx, insightID, fields)
	if err != nil {
		return nil, err
	}

	s.refreshEmbedding(ctx, updated)
	return updated, nil
}

// Delete removes an insight the caller owns.
func (s *InsightService) Delete(ctx context.Context, userID, insightID string) error {
	if err := s.requireOwner(ctx, userID, insightID); err != nil {
		return err
	}
	return s.insights.Delete(ctx, insightID)
}

// ByUser returns a member's insights with like info. viewerID may be empty.
func (s *InsightService) ByUser(ctx context.Context, viewerID, authorID string) ([]InsightView, error) {
	insights, err := s.insights.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, insights, viewerID, false), nil
}

// Like records a like, rejecting duplicates, and returns the new count.
func (s *InsightService) Like(ctx context.Context, userID, insightID string) (int64, error) {
	if _, err := s.insights.GetByID(ctx, insightID); err != nil {
		return 0, err
	}

	liked, err := s.insights.LikeExists(ctx, insightID, userID)
	if err != nil {
		return 0, err
	}
	if liked {
		return 0, errors.NewValidationError("Already liked")
	}

	if err := s.insights.AddLike(ctx, insightID, userID); err != nil {
		return 0, err
	}
	return s.insights.CountLikes(ctx, insightID)
}

// Unlike removes a like. Unliking something never liked is a no-op.
func (s *InsightService) Unlike(ctx context.Context, userID, insightID string) (int64, error) {
	if err := s.insights.RemoveLike(ctx, insightID, userID); err != nil {
		return 0, err
	}
	return s.insights.CountLikes(ctx, insightID)
}

// Search finds insights matching a free-text query, semantically when the
// embedding path is available and by substring otherwise.
func (s *InsightService) Search(ctx context.Context, viewerID, query string) ([]InsightView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []InsightView{}, nil
	}

	if matches, ok := s.semanticSearch(ctx, query); ok {
		return s.enrich(ctx, matches, viewerID, true), nil
	}

	insights, err := s.insights.SearchText(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, insights, viewerID, true), nil
}

// semanticSearch returns insights ordered by similarity to the query. The
// second return value is false when the semantic path was unavailable.
func (s *InsightService) semanticSearch(ctx context.Context, query string) ([]insight.Insight, bool) {
	matches, ok := s.reranker.Match(ctx, query, s.insights)
	if !ok {
		return nil, false
	}

	ordered := make([]insight.Insight, 0, len(matches))
	for _, m := range matches {
		if in, err := s.insights.GetByID(ctx, m.ID); err == nil {
			ordered = append(ordered, *in)
		}
	}
	return ordered, true
}

// requireOwner returns 404 for a missing insight and 403 when the caller
// does not own it.
func (s *InsightService) requireOwner(ctx context.Context, userID, insightID string) error {
	in, err := s.insights.GetByID(ctx, insightID)
	if err != nil {
		return err
	}
	if in.UserID != userID {
		return errors.NewForbiddenError("Unauthorized")
	}
	return nil
}

// refreshEmbedding recomputes and stores the insight embedding. Failures
// are logged and swallowed.
func (s *InsightService) refreshEmbedding(ctx context.Context, in *insight.Insight) {
	vector := s.embeddings.EmbedInsight(ctx, in)
	if vector == nil {
		return
	}
	if err := s.insights.UpdateEmbedding(ctx, in.ID, vector); err != nil {
		s.logger.Warn("Failed to store insight embedding",
			zap.String("insight_id", in.ID),
			zap.Error(err),
		)
	}
}
