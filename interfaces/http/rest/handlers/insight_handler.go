package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurelia-hq/aurelia-backend/application/services"
	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
	"github.com/aurelia-hq/aurelia-backend/pkg/common"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

// InsightHandler handles the insight and like endpoints.
type InsightHandler struct {
	insights *services.InsightService
	errors   *errors.ErrorHandler
}

// NewInsightHandler creates an insight handler.
func NewInsightHandler(insights *services.InsightService, errorHandler *errors.ErrorHandler) *InsightHandler {
	return &InsightHandler{insights: insights, errors: errorHandler}
}

// Feed handles GET /api/insights/feed
func (h *InsightHandler) Feed(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	feed, err := h.insights.Feed(r.Context(), identity.ID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, feed)
}

// CreateInsightRequest is the body for POST /api/insights.
type CreateInsightRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	LinkURL   string `json:"link_url,omitempty"`
	LinkTitle string `json:"link_title,omitempty"`
}

// Create handles POST /api/insights
func (h *InsightHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req CreateInsightRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.insights.Create(r.Context(), identity.ID, req.Title, req.Content, req.LinkURL, req.LinkTitle)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/insights/{insightID}. The route is public; a valid
// token only adds the viewer's like state.
func (h *InsightHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if identity, err := auth.GetIdentityFromContext(r.Context()); err == nil {
		viewerID = identity.ID
	}

	view, err := h.insights.Get(r.Context(), viewerID, chi.URLParam(r, "insightID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, view)
}

// insightColumns lists the columns a partial update may touch.
var insightColumns = map[string]bool{
	"title":      true,
	"content":    true,
	"link_url":   true,
	"link_title": true,
}

// Update handles PUT /api/insights/{insightID}
func (h *InsightHandler) Update(w http.ResponseWriter, r *http.Request) {
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
		if insightColumns[column] {
			fields[column] = value
		}
	}

	updated, err := h.insights.Update(r.Context(), identity.ID, chi.URLParam(r, "insightID"), fields)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/insights/{insightID}
func (h *InsightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.insights.Delete(r.Context(), identity.ID, chi.URLParam(r, "insightID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Insight deleted successfully")
}

// ByUser handles GET /api/users/{userID}/insights. Public with optional
// token for like state.
func (h *InsightHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	viewerID := ""
	if identity, err := auth.GetIdentityFromContext(r.Context()); err == nil {
		viewerID = identity.ID
	}

	insights, err := h.insights.ByUser(r.Context(), viewerID, chi.URLParam(r, "userID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, insights)
}

// Like handles POST /api/insights/{insightID}/like
func (h *InsightHandler) Like(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	count, err := h.insights.Like(r.Context(), identity.ID, chi.URLParam(r, "insightID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Insight liked successfully",
		"likes_count": count,
	})
}

// Unlike handles DELETE /api/insights/{insightID}/unlike
func (h *InsightHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	count, err := h.insights.Unlike(r.Context(), identity.ID, chi.URLParam(r, "insightID"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Insight unliked successfully",
		"likes_count": count,
	})
}

// Search handles GET /api/insights/search
func (h *InsightHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	results, err := h.insights.Search(r.Context(), identity.ID, r.URL.Query().Get("q"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, results)
}
