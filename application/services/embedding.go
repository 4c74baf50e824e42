// Package services holds application services shared across handlers.
package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/insight"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

// EmbeddingService derives embedding vectors for profiles and insights.
// It is strictly best-effort: any failure (missing credential, empty text,
// network error, malformed response) yields a nil vector, never an error.
type EmbeddingService struct {
	embedder ports.Embedder
	logger   *zap.Logger
}

// NewEmbeddingService creates an embedding service.
func NewEmbeddingService(embedder ports.Embedder, logger *zap.Logger) *EmbeddingService {
	return &EmbeddingService{embedder: embedder, logger: logger}
}

// EmbedText vectorizes arbitrary text. Empty or whitespace-only input
// short-circuits without a network call.
func (s *EmbeddingService) EmbedText(ctx context.Context, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if s.embedder == nil || !s.embedder.Configured() {
		return nil
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		s.logger.Debug("embedding generation failed", zap.Error(err))
		return nil
	}
	return vector
}

// EmbedProfile vectorizes a profile's weighted pseudo-document.
func (s *EmbeddingService) EmbedProfile(ctx context.Context, p *profile.Profile) []float32 {
	return s.EmbedText(ctx, ProfileText(p))
}

// EmbedInsight vectorizes an insight's title and content.
func (s *EmbeddingService) EmbedInsight(ctx context.Context, in *insight.Insight) []float32 {
	return s.EmbedText(ctx, InsightText(in))
}

// ProfileText renders a profile into the pseudo-document fed to the
// embedding model. The discriminating fields (location, industry, school,
// career status) are repeated with varied phrasing to bias the embedding
// space toward them; bio and skills are mentioned once. The exact wording
// and repetition counts are load-bearing for embedding parity with stored
// vectors, so keep them in sync with any re-embedding migration.
func ProfileText(p *profile.Profile) string {
	var parts []string

	if p.FullName != "" {
		parts = append(parts, fmt.Sprintf("Name: %s", p.FullName))
	}

	if p.Location != "" {
		parts = append(parts,
			fmt.Sprintf("Location: %s", p.Location),
			fmt.Sprintf("Based in %s", p.Location),
			fmt.Sprintf("From %s", p.Location),
			fmt.Sprintf("Lives in %s", p.Location),
			fmt.Sprintf("%s resident", p.Location),
		)
	}

	if industry := p.EffectiveIndustry(); industry != "" {
		parts = append(parts,
			fmt.Sprintf("Industry: %s", industry),
			fmt.Sprintf("Works in %s", industry),
			fmt.Sprintf("%s professional", industry),
			fmt.Sprintf("Career in %s", industry),
			fmt.Sprintf("Job: %s", industry),
		)
	}

	if p.CurrentSchool != "" {
		parts = append(parts,
			fmt.Sprintf("School: %s", p.CurrentSchool),
			fmt.Sprintf("Studies at %s", p.CurrentSchool),
			fmt.Sprintf("Attends %s", p.CurrentSchool),
			fmt.Sprintf("%s student", p.CurrentSchool),
			fmt.Sprintf("College: %s", p.CurrentSchool),
		)
	}

	if p.CareerStatus != "" {
		label := p.CareerStatus.Label()
		parts = append(parts,
			fmt.Sprintf("Career Status: %s", label),
			fmt.Sprintf("Status: %s", label),
		)
		switch p.CareerStatus {
		case profile.StatusInIndustry:
			parts = append(parts, "Currently employed in industry", "Working professional")
		case profile.StatusSeekingOpportunities:
			parts = append(parts, "Looking for job opportunities", "Open to new opportunities")
		case profile.StatusStudent:
			parts = append(parts, "Currently studying", "Full-time student")
		case profile.StatusCareerBreak:
			parts = append(parts, "On career break", "Taking time off")
		}
	}

	if p.Bio != "" {
		parts = append(parts, fmt.Sprintf("Bio: %s", p.Bio))
	}

	if len(p.Skills) > 0 {
		parts = append(parts, fmt.Sprintf("Skills: %s", strings.Join(p.Skills, ", ")))
	}

	return strings.Join(parts, ". ")
}

// InsightText renders an insight into the text fed to the embedding model.
func InsightText(in *insight.Insight) string {
	var parts []string
	if in.Title != "" {
		parts = append(parts, in.Title)
	}
	if in.Content != "" {
		parts = append(parts, in.Content)
	}
	return strings.Join(parts, ". ")
}
