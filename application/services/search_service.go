package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/application/search"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
)

// SearchService runs profile search: structured filtering first, then a
// semantic re-rank of the remaining set when a free-text query is present.
// The free-text query also feeds the query parser, whose extracted filters
// fill in whatever the caller left blank.
type SearchService struct {
	profiles ports.ProfileRepository
	parser   search.QueryParser
	reranker *search.Reranker
	logger   *zap.Logger
}

// NewSearchService creates a profile search service.
func NewSearchService(
	profiles ports.ProfileRepository,
	parser search.QueryParser,
	reranker *search.Reranker,
	logger *zap.Logger,
) *SearchService {
	return &SearchService{
		profiles: profiles,
		parser:   parser,
		reranker: reranker,
		logger:   logger,
	}
}

// SearchProfiles applies the merged filters, excluding the caller from the
// results. Explicit filters win over parsed ones.
func (s *SearchService) SearchProfiles(ctx context.Context, userID, query string, explicit ports.ProfileFilter) ([]profile.Profile, error) {
	filter := explicit
	textQuery := strings.TrimSpace(query)

	if textQuery != "" {
		parsed, _ := s.parser.Parse(ctx, textQuery)
		mergeFilters(&filter, parsed)
		if parsed.TextQuery != "" {
			textQuery = parsed.TextQuery
		}
	}

	profiles, err := s.profiles.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	profiles = excludeProfile(profiles, userID)

	if textQuery == "" || len(profiles) == 0 {
		return profiles, nil
	}

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}

	if ordered, ok := s.reranker.Rerank(ctx, textQuery, ids, s.profiles); ok {
		return intersectProfiles(profiles, ordered), nil
	}
	return substringFilter(profiles, textQuery), nil
}

// mergeFilters fills blank explicit fields from the parsed record.
func mergeFilters(filter *ports.ProfileFilter, parsed search.Filters) {
	if filter.Industry == "" {
		filter.Industry = parsed.Industry
	}
	if filter.Location == "" {
		filter.Location = parsed.Location
	}
	if filter.School == "" {
		filter.School = parsed.School
	}
	if filter.CareerStatus == "" {
		filter.CareerStatus = parsed.CareerStatus
	}
	if len(filter.Skills) == 0 {
		filter.Skills = parsed.Skills
	}
}

func excludeProfile(profiles []profile.Profile, id string) []profile.Profile {
	out := profiles[:0]
	for _, p := range profiles {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// intersectProfiles keeps only the semantically matched profiles, in the
// given similarity order. Filtered profiles outside the match set are
// dropped.
func intersectProfiles(profiles []profile.Profile, orderedIDs []string) []profile.Profile {
	byID := make(map[string]profile.Profile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	seen := make(map[string]bool, len(orderedIDs))
	out := make([]profile.Profile, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if p, ok := byID[id]; ok && !seen[id] {
			out = append(out, p)
			seen[id] = true
		}
	}
	return out
}

// substringFilter keeps profiles whose text fields contain the query,
// case-insensitively. Used when the semantic path is unavailable.
func substringFilter(profiles []profile.Profile, query string) []profile.Profile {
	needle := strings.ToLower(query)
	out := make([]profile.Profile, 0, len(profiles))
	for _, p := range profiles {
		if profileContains(&p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func profileContains(p *profile.Profile, needle string) bool {
	fields := []string{
		p.FullName,
		p.Bio,
		p.Location,
		p.EffectiveIndustry(),
		p.CurrentSchool,
		p.CareerStatus.Label(),
	}
	fields = append(fields, p.Skills...)
	fields = append(fields, p.LookingFor...)

	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
