// Package memory provides in-memory repository implementations used by
// tests and local development without an external store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// ProfileRepository is an in-memory ports.ProfileRepository.
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile

	// SimilarityMatches is returned verbatim by MatchByEmbedding,
	// letting tests script the vector search.
	SimilarityMatches []ports.SimilarityMatch
}

// NewProfileRepository creates an empty in-memory profile repository.
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]profile.Profile)}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.NewNotFoundError("Profile")
	}
	return &p, nil
}

func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]profile.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, exists := r.profiles[p.ID]; exists {
		return nil, errors.NewConflictError("Profile already exists")
	}

	stored := *p
	stored.CreatedAt = time.Now().UTC()
	stored.UpdatedAt = stored.CreatedAt
	r.profiles[stored.ID] = stored
	return &stored, nil
}

func (r *ProfileRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*profile.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, errors.NewNotFoundError("Profile")
	}

	for column, value := range fields {
		applyProfileField(&p, column, value)
	}
	p.UpdatedAt = time.Now().UTC()
	r.profiles[id] = p
	return &p, nil
}

func applyProfileField(p *profile.Profile, column string, value interface{}) {
	switch column {
	case "full_name":
		p.FullName, _ = value.(string)
	case "bio":
		p.Bio, _ = value.(string)
	case "location":
		p.Location, _ = value.(string)
	case "industry":
		p.Industry, _ = value.(string)
	case "custom_industry":
		p.CustomIndustry, _ = value.(string)
	case "current_school":
		p.CurrentSchool, _ = value.(string)
	case "career_status":
		if s, ok := value.(string); ok {
			p.CareerStatus = profile.CareerStatus(s)
		}
	case "skills":
		if skills, ok := value.([]string); ok {
			p.Skills = skills
		}
	case "looking_for":
		if looking, ok := value.([]string); ok {
			p.LookingFor = looking
		}
	case "profile_picture_url":
		p.ProfilePictureURL, _ = value.(string)
	}
}

func (r *ProfileRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return errors.NewNotFoundError("Profile")
	}
	p.Embedding = embedding
	r.profiles[id] = p
	return nil
}

func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.profiles, id)
	return nil
}

func (r *ProfileRepository) Search(ctx context.Context, filter ports.ProfileFilter) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []profile.Profile
	for _, p := range r.profiles {
		if matchesFilter(p, filter) {
			out = append(out, p)
		}
	}
	sortByID(out)
	return out, nil
}

func matchesFilter(p profile.Profile, f ports.ProfileFilter) bool {
	if f.Industry != "" && p.Industry != f.Industry {
		return false
	}
	if f.Location != "" && !containsFold(p.Location, f.Location) {
		return false
	}
	if f.School != "" && !containsFold(p.CurrentSchool, f.School) {
		return false
	}
	if f.CareerStatus != "" && string(p.CareerStatus) != f.CareerStatus {
		return false
	}
	for _, want := range f.Skills {
		if !hasSkill(p.Skills, want) {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func hasSkill(skills []string, want string) bool {
	for _, s := range skills {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

func (r *ProfileRepository) ListOthers(ctx context.Context, excludeID string, limit int) ([]profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []profile.Profile
	for _, p := range r.profiles {
		if p.ID == excludeID {
			continue
		}
		out = append(out, p)
	}
	sortByID(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProfileRepository) MatchByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]ports.SimilarityMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.SimilarityMatches
	if count > 0 && len(matches) > count {
		matches = matches[:count]
	}
	return matches, nil
}

// sortByID keeps map iteration order out of results.
func sortByID(profiles []profile.Profile) {
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
}
