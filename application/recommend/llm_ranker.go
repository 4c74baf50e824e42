package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/application/search"
	"github.com/aurelia-hq/aurelia-backend/domain/matching"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

const (
	rankerTemperature = 0
	rankerMaxTokens   = 600
)

// LLMRanker orders candidates via the external model's chat endpoint.
// Every returned id is validated against the candidate set; unknown ids
// are discarded and an empty validated result is treated as failure so the
// composing ranker falls back to the heuristic.
type LLMRanker struct {
	chat     ports.ChatCompleter
	jsonMode bool
	logger   *zap.Logger
}

// NewLLMRanker creates a model-backed ranker.
func NewLLMRanker(chat ports.ChatCompleter, jsonMode bool, logger *zap.Logger) *LLMRanker {
	return &LLMRanker{chat: chat, jsonMode: jsonMode, logger: logger}
}

// rankingResponse accepts both response shapes the prompt allows: a list
// of {id, reason} pairs or a bare ranked id list.
type rankingResponse struct {
	Rankings  []Recommendation `json:"rankings"`
	RankedIDs []string         `json:"ranked_ids"`
}

// Rank sends summarized profiles to the model and parses the ranked result.
func (r *LLMRanker) Rank(ctx context.Context, user *profile.Profile, candidates []profile.Profile, limit int) ([]Recommendation, error) {
	if r.chat == nil || !r.chat.Configured() {
		return nil, fmt.Errorf("ranker: model not configured")
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	prompt, err := buildRankerPrompt(user, candidates)
	if err != nil {
		return nil, err
	}

	content, err := r.chat.Complete(ctx, ports.ChatRequest{
		Messages: []ports.ChatMessage{
			{Role: "system", Content: "Return only JSON. No extra text."},
			{Role: "user", Content: prompt},
		},
		Temperature: rankerTemperature,
		MaxTokens:   rankerMaxTokens,
		JSONMode:    r.jsonMode,
	})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("ranker: empty model response")
	}

	var parsed rankingResponse
	if err := search.DecodeLooseJSON(content, &parsed); err != nil {
		return nil, fmt.Errorf("ranker: unparseable model response: %w", err)
	}

	recs := parsed.Rankings
	if len(recs) == 0 {
		for _, id := range parsed.RankedIDs {
			recs = append(recs, Recommendation{ID: id})
		}
	}

	byID := make(map[string]*profile.Profile, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	var validated []Recommendation
	for _, rec := range recs {
		candidate, known := byID[rec.ID]
		if !known {
			continue
		}
		if rec.Reason == "" {
			rec.Reason = matching.Reason(user, candidate)
		}
		validated = append(validated, rec)
	}
	if len(validated) == 0 {
		return nil, fmt.Errorf("ranker: no valid candidate ids in model response")
	}

	if limit > 0 && len(validated) > limit {
		validated = validated[:limit]
	}
	return validated, nil
}

// buildRankerPrompt renders user and candidate summaries into the ranking
// prompt.
func buildRankerPrompt(user *profile.Profile, candidates []profile.Profile) (string, error) {
	userSummary, err := json.Marshal(profile.Summarize(user))
	if err != nil {
		return "", fmt.Errorf("ranker: encoding user summary: %w", err)
	}

	summaries := make([]profile.Summary, len(candidates))
	for i := range candidates {
		summaries[i] = profile.Summarize(&candidates[i])
	}
	candidateSummaries, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("ranker: encoding candidate summaries: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are ranking professional profiles for a user. Return ONLY valid JSON.\n\n")
	b.WriteString("Return format:\n")
	b.WriteString("{\"rankings\": [{\"id\": \"id1\", \"reason\": \"short reason\"}]}\n\n")
	b.WriteString("Rank by best overall match considering location, school, industry, career_status, and skills.\n")
	b.WriteString("If ties, prefer same industry and overlapping skills.\n")
	b.WriteString("Keep each reason under 15 words.\n\n")
	b.WriteString("User profile:\n")
	b.Write(userSummary)
	b.WriteString("\n\nCandidate profiles:\n")
	b.Write(candidateSummaries)
	b.WriteString("\n\nJSON:")

	return b.String(), nil
}
