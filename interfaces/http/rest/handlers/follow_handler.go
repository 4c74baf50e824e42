package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurelia-hq/aurelia-backend/application/services"
	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
	"github.com/aurelia-hq/aurelia-backend/pkg/common"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// FollowHandler handles the follow graph endpoints.
type FollowHandler struct {
	social *services.SocialService
	errors *errors.ErrorHandler
}

// NewFollowHandler creates a follow handler.
func NewFollowHandler(social *services.SocialService, errorHandler *errors.ErrorHandler) *FollowHandler {
	return &FollowHandler{social: social, errors: errorHandler}
}

// Follow handles POST /api/follows/follow/{userID}
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	follow, err := h.social.Follow(r.Context(), identity.ID, chi.URLParam(r, "userID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Successfully followed user",
		"follow":  follow,
	})
}

// Unfollow handles DELETE /api/follows/unfollow/{userID}
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.social.Unfollow(r.Context(), identity.ID, chi.URLParam(r, "userID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Successfully unfollowed user")
}

// Followers handles GET /api/follows/followers/{userID}
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	entries, err := h.social.Followers(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"followers": entries,
		"count":     len(entries),
	})
}

// Following handles GET /api/follows/following/{userID}
func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	entries, err := h.social.Following(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"following": entries,
		"count":     len(entries),
	})
}

// IsFollowing handles GET /api/follows/is-following/{userID}
func (h *FollowHandler) IsFollowing(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	following, err := h.social.IsFollowing(r.Context(), identity.ID, chi.URLParam(r, "userID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]bool{"is_following": following})
}

// Stats handles GET /api/follows/stats/{userID}
func (h *FollowHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.social.Stats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, stats)
}
