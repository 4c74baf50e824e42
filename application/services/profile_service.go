package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/application/recommend"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// ProfileService owns profile CRUD and profile recommendations. Embeddings
// are regenerated best-effort on every write; a missing model credential or
// a model failure never fails the write itself.
type ProfileService struct {
	profiles   ports.ProfileRepository
	follows    ports.FollowRepository
	embeddings *EmbeddingService
	ranker     recommend.Ranker
	logger     *zap.Logger
}

// NewProfileService creates a profile service.
func NewProfileService(
	profiles ports.ProfileRepository,
	follows ports.FollowRepository,
	embeddings *EmbeddingService,
	ranker recommend.Ranker,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		follows:    follows,
		embeddings: embeddings,
		ranker:     ranker,
		logger:     logger,
	}
}

// Get returns the caller's own profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	return s.profiles.GetByID(ctx, userID)
}

// Create inserts a profile whose id is the caller's identity.
func (s *ProfileService) Create(ctx context.Context, userID string, p *profile.Profile) (*profile.Profile, error) {
	p.ID = userID

	created, err := s.profiles.Create(ctx, p)
	if err != nil {
		return nil, err
	}

	s.refreshEmbedding(ctx, created)
	return created, nil
}

// Update applies a partial update to the caller's profile.
func (s *ProfileService) Update(ctx context.Context, userID string, fields map[string]interface{}) (*profile.Profile, error) {
	if len(fields) == 0 {
		return nil, errors.NewValidationError("No fields to update")
	}

	updated, err := s.profiles.Update(ctx, userID, fields)
	if err != nil {
		return nil, err
	}

	s.refreshEmbedding(ctx, updated)
	return updated, nil
}

// Delete removes the caller's profile.
func (s *ProfileService) Delete(ctx context.Context, userID string) error {
	return s.profiles.Delete(ctx, userID)
}

// PublicView is another member's profile enriched with follow counts.
type PublicView struct {
	Profile        *profile.Profile `json:"profile"`
	FollowersCount int64            `json:"followers_count"`
	FollowingCount int64            `json:"following_count"`
	IsFollowing    bool             `json:"is_following"`
}

// GetPublic returns another member's profile with follow counts and whether
// the viewer already follows them.
func (s *ProfileService) GetPublic(ctx context.Context, viewerID, profileID string) (*PublicView, error) {
	p, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	view := &PublicView{Profile: p}
	if count, err := s.follows.CountFollowers(ctx, profileID); err == nil {
		view.FollowersCount = count
	}
	if count, err := s.follows.CountFollowing(ctx, profileID); err == nil {
		view.FollowingCount = count
	}
	if viewerID != "" && viewerID != profileID {
		if following, err := s.follows.Exists(ctx, viewerID, profileID); err == nil {
			view.IsFollowing = following
		}
	}
	return view, nil
}

// RecommendedProfile is a profile plus the reason it was suggested.
type RecommendedProfile struct {
	profile.Profile
	RecommendationReason string `json:"recommendation_reason"`
}

// Recommend returns up to limit profiles the caller may want to follow,
// each with a short reason.
func (s *ProfileService) Recommend(ctx context.Context, userID string, limit int) ([]RecommendedProfile, error) {
	user, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.profiles.ListOthers(ctx, userID, recommend.MaxCandidates)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []RecommendedProfile{}, nil
	}
	if len(candidates) > recommend.MaxReasonedCandidates {
		candidates = candidates[:recommend.MaxReasonedCandidates]
	}

	recommendations, err := s.ranker.Rank(ctx, user, candidates, limit)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]profile.Profile, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	out := make([]RecommendedProfile, 0, len(recommendations))
	for _, rec := range recommendations {
		p, ok := byID[rec.ID]
		if !ok {
			continue
		}
		out = append(out, RecommendedProfile{Profile: p, RecommendationReason: rec.Reason})
	}
	return out, nil
}

// refreshEmbedding recomputes and stores the profile embedding. Failures
// are logged and swallowed.
func (s *ProfileService) refreshEmbedding(ctx context.Context, p *profile.Profile) {
	vector := s.embeddings.EmbedProfile(ctx, p)
	if vector == nil {
		return
	}
	if err := s.profiles.UpdateEmbedding(ctx, p.ID, vector); err != nil {
		s.logger.Warn("Failed to store profile embedding",
			zap.String("profile_id", p.ID),
			zap.Error(err),
		)
	}
}
