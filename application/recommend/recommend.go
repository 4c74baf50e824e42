// Package recommend ranks candidate profiles for a user, preferring the
// external model and falling back to the deterministic matching heuristic
// whenever the model is absent, errors, or returns unusable output.
package recommend

import (
	"context"

	"github.com/aurelia-hq/aurelia-backend/domain/matching"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

// Candidate caps for ranking prompts.
const (
	MaxCandidates         = 50
	MaxReasonedCandidates = 30
)

// Recommendation is a ranked candidate id with a short justification.
type Recommendation struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Ranker orders a bounded candidate list for a user.
type Ranker interface {
	Rank(ctx context.Context, user *profile.Profile, candidates []profile.Profile, limit int) ([]Recommendation, error)
}

// HeuristicRanker is the deterministic ranking strategy built on the
// matching score. The sort is stable, so equal scores keep arrival order.
type HeuristicRanker struct{}

// NewHeuristicRanker creates the deterministic fallback ranker.
func NewHeuristicRanker() *HeuristicRanker {
	return &HeuristicRanker{}
}

// Rank never fails.
func (r *HeuristicRanker) Rank(_ context.Context, user *profile.Profile, candidates []profile.Profile, limit int) ([]Recommendation, error) {
	ranked := matching.Rank(user, candidates)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	recs := make([]Recommendation, len(ranked))
	for i := range ranked {
		recs[i] = Recommendation{
			ID:     ranked[i].ID,
			Reason: matching.Reason(user, &ranked[i]),
		}
	}
	return recs, nil
}

// fallbackRanker tries the remote ranker first and degrades to the
// heuristic on any failure.
type fallbackRanker struct {
	remote    Ranker
	heuristic Ranker
}

// NewRanker composes the remote and heuristic rankers. The returned ranker
// never fails: it degrades to the heuristic instead.
func NewRanker(remote, heuristic Ranker) Ranker {
	return &fallbackRanker{remote: remote, heuristic: heuristic}
}

func (r *fallbackRanker) Rank(ctx context.Context, user *profile.Profile, candidates []profile.Profile, limit int) ([]Recommendation, error) {
	if r.remote != nil {
		if recs, err := r.remote.Rank(ctx, user, candidates, limit); err == nil && len(recs) > 0 {
			return recs, nil
		}
	}
	return r.heuristic.Rank(ctx, user, candidates, limit)
}
