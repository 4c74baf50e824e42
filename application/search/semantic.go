package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
)

const (
	similarityThreshold = 0.3
	maxSimilarityCount  = 50
)

// SimilarityMatcher is the server-side similarity search procedure over
// stored vectors. Both the profile and insight repositories provide it.
type SimilarityMatcher interface {
	MatchByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]ports.SimilarityMatch, error)
}

// Reranker orders an already-filtered id set by semantic similarity to a
// search phrase. When embedding or matching fails the caller degrades to
// substring matching.
type Reranker struct {
	embedder ports.Embedder
	logger   *zap.Logger
}

// NewReranker creates a semantic reranker.
func NewReranker(embedder ports.Embedder, logger *zap.Logger) *Reranker {
	return &Reranker{embedder: embedder, logger: logger}
}

// Match embeds the query and runs the similarity procedure, returning ids
// ordered by descending similarity. The second return value is false when
// the semantic path was unavailable.
func (r *Reranker) Match(ctx context.Context, query string, matcher SimilarityMatcher) ([]ports.SimilarityMatch, bool) {
	if r.embedder == nil || !r.embedder.Configured() {
		return nil, false
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil || len(embedding) == 0 {
		r.logger.Debug("semantic match unavailable, degrading to substring match",
			zap.Error(err))
		return nil, false
	}

	matches, err := matcher.MatchByEmbedding(ctx, embedding, similarityThreshold, maxSimilarityCount)
	if err != nil {
		r.logger.Debug("similarity search procedure failed, degrading to substring match",
			zap.Error(err))
		return nil, false
	}
	return matches, true
}

// Rerank embeds the query, runs the similarity procedure and intersects the
// returned ids with the filtered set, ordered by descending similarity.
// The second return value is false when the semantic path was unavailable.
func (r *Reranker) Rerank(ctx context.Context, query string, filteredIDs []string, matcher SimilarityMatcher) ([]string, bool) {
	matches, ok := r.Match(ctx, query, matcher)
	if !ok {
		return nil, false
	}

	allowed := make(map[string]struct{}, len(filteredIDs))
	for _, id := range filteredIDs {
		allowed[id] = struct{}{}
	}

	// Matches arrive ordered by descending similarity from the procedure;
	// keep that order through the intersection.
	var ordered []string
	for _, m := range matches {
		if _, ok := allowed[m.ID]; ok {
			ordered = append(ordered, m.ID)
		}
	}

	return ordered, true
}
