package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/application/ports"
	"github.com/aurelia-hq/aurelia-backend/application/services"
	"github.com/aurelia-hq/aurelia-backend/domain/profile"
	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
	"github.com/aurelia-hq/aurelia-backend/pkg/common"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
	"github.com/aurelia-hq/aurelia-backend/pkg/utils"
)

const (
	defaultRecommendLimit = 5
	maxRecommendLimit     = 20
)

// ProfileHandler handles profile CRUD, search and recommendations.
type ProfileHandler struct {
	profiles *services.ProfileService
	search   *services.SearchService
	errors   *errors.ErrorHandler
	logger   *zap.Logger
}

// NewProfileHandler creates a profile handler.
func NewProfileHandler(
	profiles *services.ProfileService,
	search *services.SearchService,
	errorHandler *errors.ErrorHandler,
	logger *zap.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		search:   search,
		errors:   errorHandler,
		logger:   logger,
	}
}

// CreateProfileRequest is the body for POST /api/profile.
type CreateProfileRequest struct {
	FullName          string   `json:"full_name" validate:"required,max=200"`
	Email             string   `json:"email,omitempty" validate:"omitempty,email"`
	Bio               string   `json:"bio,omitempty"`
	Location          string   `json:"location,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	CustomIndustry    string   `json:"custom_industry,omitempty"`
	CurrentSchool     string   `json:"current_school,omitempty"`
	CareerStatus      string   `json:"career_status,omitempty" validate:"omitempty,oneof=in_industry seeking_opportunities student career_break"`
	Skills            []string `json:"skills,omitempty"`
	LookingFor        []string `json:"looking_for,omitempty"`
	ProfilePictureURL string   `json:"profile_picture_url,omitempty"`
}

// Get handles GET /api/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	p, err := h.profiles.Get(r.Context(), identity.ID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, p)
}

// Create handles POST /api/profile
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateProfileRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.profiles.Create(r.Context(), identity.ID, &profile.Profile{
		FullName:          req.FullName,
		Email:             req.Email,
		Bio:               req.Bio,
		Location:          req.Location,
		Industry:          req.Industry,
		CustomIndustry:    req.CustomIndustry,
		CurrentSchool:     req.CurrentSchool,
		CareerStatus:      profile.CareerStatus(req.CareerStatus),
		Skills:            req.Skills,
		LookingFor:        req.LookingFor,
		ProfilePictureURL: req.ProfilePictureURL,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, created)
}

// profileColumns lists the columns a partial update may touch.
var profileColumns = map[string]bool{
	"full_name":           true,
	"email":               true,
	"bio":                 true,
	"location":            true,
	"industry":            true,
	"custom_industry":     true,
	"current_school":      true,
	"career_status":       true,
	"skills":              true,
	"looking_for":         true,
	"profile_picture_url": true,
}

// Update handles PUT /api/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var body map[string]interface{}
	if err := common.ParseJSONBody(r, &body, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := make(map[string]interface{}, len(body))
	for column, value := range body {
		if !profileColumns[column] {
			continue
		}
		if column == "skills" || column == "looking_for" {
			fields[column] = toStringSlice(value)
			continue
		}
		fields[column] = value
	}

	updated, err := h.profiles.Update(r.Context(), identity.ID, fields)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/profile
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.profiles.Delete(r.Context(), identity.ID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Profile deleted successfully")
}

// Search handles GET /api/profile/search
func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	query := r.URL.Query()
	filter := ports.ProfileFilter{
		Industry:     query.Get("industry"),
		Location:     query.Get("location"),
		School:       query.Get("school"),
		CareerStatus: query.Get("career_status"),
		Skills:       query["skills"],
	}

	results, err := h.search.SearchProfiles(r.Context(), identity.ID, query.Get("q"), filter)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if results == nil {
		results = []profile.Profile{}
	}
	common.RespondJSON(w, http.StatusOK, results)
}

// Recommendations handles GET /api/profile/recommendations
func (h *ProfileHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page := common.ParsePage(r, defaultRecommendLimit, maxRecommendLimit)
	recommendations, err := h.profiles.Recommend(r.Context(), identity.ID, page.Limit)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, recommendations)
}

// GetByID handles GET /api/profile/{profileID}
func (h *ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	profileID := chi.URLParam(r, "profileID")
	view, err := h.profiles.GetPublic(r.Context(), identity.ID, profileID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// toStringSlice converts a decoded JSON array into a string slice,
// dropping non-string entries.
func toStringSlice(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
