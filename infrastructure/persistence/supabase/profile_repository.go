package supabase

import (
	"context"
	"encoding/json"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const profilesTable = "profiles"

// profileColumns excludes the embedding vector, which PostgREST serializes
// as an opaque string and which no read path needs.
const profileColumns = "id, full_name, email, bio, location, industry, custom_industry, current_school, career_status, skills, looking_for, profile_picture_url, created_at, updated_at"

// ProfileRepository persists profiles in the external store.
type ProfileRepository struct {
	client *supa.Client
}

// NewProfileRepository creates a Supabase-backed profile repository.
func NewProfileRepository(client *supa.Client) *ProfileRepository {
	return &ProfileRepository{client: client}
}

// GetByID retrieves a profile by its id.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	data, _, err := r.client.From(profilesTable).
		Select(profileColumns, "", false).
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("fetching profile", err)
	}

	row, err := decodeFirst[profile.Profile](data)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.NewNotFoundError("Profile")
	}
	return row, nil
}

// GetByIDs retrieves profiles for a set of ids.
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]profile.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	data, _, err := r.client.From(profilesTable).
		Select(profileColumns, "", false).
		In("id", ids).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("fetching profiles", err)
	}
	return decodeRows[profile.Profile](data)
}

// Create inserts a new profile row.
func (r *ProfileRepository) Create(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	row := map[string]interface{}{
		"id":        p.ID,
		"full_name": p.FullName,
	}
	setIfPresent(row, "email", p.Email)
	setIfPresent(row, "bio", p.Bio)
	setIfPresent(row, "location", p.Location)
	setIfPresent(row, "industry", p.Industry)
	setIfPresent(row, "custom_industry", p.CustomIndustry)
	setIfPresent(row, "current_school", p.CurrentSchool)
	setIfPresent(row, "career_status", string(p.CareerStatus))
	if p.Skills != nil {
		row["skills"] = p.Skills
	}
	if p.LookingFor != nil {
		row["looking_for"] = p.LookingFor
	}
	setIfPresent(row, "profile_picture_url", p.ProfilePictureURL)

	data, _, err := r.client.From(profilesTable).
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("creating profile", err)
	}

	created, err := decodeFirst[profile.Profile](data)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, errors.NewInternalError("profile insert returned no row")
	}
	return created, nil
}

// Update applies a partial update and returns the stored row.
func (r *ProfileRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*profile.Profile, error) {
	data, _, err := r.client.From(profilesTable).
		Update(fields, "representation", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("updating profile", err)
	}

	updated, err := decodeFirst[profile.Profile](data)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, errors.NewNotFoundError("Profile")
	}
	return updated, nil
}

// UpdateEmbedding stores a new embedding vector for a profile.
func (r *ProfileRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	_, _, err := r.client.From(profilesTable).
		Update(map[string]interface{}{"embedding": embedding}, "minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return errors.NewExternalError("updating profile embedding", err)
	}
	return nil
}

// Delete removes a profile row.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	_, _, err := r.client.From(profilesTable).
		Delete("minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return errors.NewExternalError("deleting profile", err)
	}
	return nil
}

// Search returns profiles matching the structured criteria.
func (r *ProfileRepository) Search(ctx context.Context, filter ports.ProfileFilter) ([]profile.Profile, error) {
	query := r.client.From(profilesTable).Select(profileColumns, "", false)

	if filter.Industry != "" {
		query = query.Eq("industry", filter.Industry)
	}
	if filter.Location != "" {
		query = query.Ilike("location", "%"+filter.Location+"%")
	}
	if filter.School != "" {
		query = query.Ilike("current_school", "%"+filter.School+"%")
	}
	if filter.CareerStatus != "" {
		query = query.Eq("career_status", filter.CareerStatus)
	}
	if len(filter.Skills) > 0 {
		query = query.Contains("skills", filter.Skills)
	}

	data, _, err := query.Execute()
	if err != nil {
		return nil, errors.NewExternalError("searching profiles", err)
	}
	return decodeRows[profile.Profile](data)
}

// ListOthers returns up to limit profiles excluding the given id.
func (r *ProfileRepository) ListOthers(ctx context.Context, excludeID string, limit int) ([]profile.Profile, error) {
	data, _, err := r.client.From(profilesTable).
		Select(profileColumns, "", false).
		Neq("id", excludeID).
		Limit(limit, "").
		Execute()
	if err != nil {
		return nil, errors.NewExternalError("listing profiles", err)
	}
	return decodeRows[profile.Profile](data)
}

// MatchByEmbedding runs the match_profiles similarity procedure.
func (r *ProfileRepository) MatchByEmbedding(ctx context.Context, embedding []float32, threshold float64, count int) ([]ports.SimilarityMatch, error) {
	result := r.client.Rpc("match_profiles", "", map[string]interface{}{
		"query_embedding": embedding,
		"match_threshold": threshold,
		"match_count":     count,
	})
	if result == "" {
		return nil, errors.NewExternalError("match_profiles procedure failed", nil)
	}

	var matches []ports.SimilarityMatch
	if err := json.Unmarshal([]byte(result), &matches); err != nil {
		return nil, errors.Wrapf(err, "supabase: decoding %s result", "match_profiles")
	}
	return matches, nil
}

// setIfPresent adds a column to the row only when the value is non-empty,
// so creates do not clobber defaults.
func setIfPresent(row map[string]interface{}, column, value string) {
	if value != "" {
		row[column] = value
	}
}

// descending orders by newest first.
var descending = &postgrest.OrderOpts{Ascending: false}

// ascending orders by oldest first.
var ascending = &postgrest.OrderOpts{Ascending: true}
