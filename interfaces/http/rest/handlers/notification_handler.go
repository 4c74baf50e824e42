package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurelia-hq/aurelia-backend/application/services"
	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
	"github.com/aurelia-hq/aurelia-backend/pkg/common"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

// NotificationHandler handles the notification endpoints.
type NotificationHandler struct {
	social *services.SocialService
	errors *errors.ErrorHandler
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(social *services.SocialService, errorHandler *errors.ErrorHandler) *NotificationHandler {
	return &NotificationHandler{social: social, errors: errorHandler}
}

// List handles GET /api/notifications/
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page := common.ParsePage(r, defaultNotificationLimit, maxNotificationLimit)
	notifications, err := h.social.Notifications(r.Context(), identity.ID, page.Limit, page.Offset)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// Delete handles DELETE /api/notifications/{notificationID}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.social.DeleteNotification(r.Context(), identity.ID, chi.URLParam(r, "notificationID")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Notification deleted")
}

// ClearAll handles DELETE /api/notifications/clear-all
func (h *NotificationHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	deleted, err := h.social.ClearNotifications(r.Context(), identity.ID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "All notifications cleared",
		"deleted_count": deleted,
	})
}

// MarkAllRead handles POST /api/notifications/mark-all-read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.social.MarkNotificationsRead(r.Context(), identity.ID); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "All notifications marked as read")
}
