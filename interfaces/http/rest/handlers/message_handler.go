package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aurelia-hq/aurelia-backend/application/services"
	"github.com/aurelia-hq/aurelia-backend/domain/messaging"
	"github.com/aurelia-hq/aurelia-backend/pkg/auth"
	"github.com/aurelia-hq/aurelia-backend/pkg/common"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// MessageHandler handles the direct-messaging endpoints.
type MessageHandler struct {
	messaging *services.MessagingService
	errors    *errors.ErrorHandler
}

// NewMessageHandler creates a message handler.
func NewMessageHandler(messaging *services.MessagingService, errorHandler *errors.ErrorHandler) *MessageHandler {
	return &MessageHandler{messaging: messaging, errors: errorHandler}
}

// ListConversations handles GET /api/messages/conversations
func (h *MessageHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	conversations, err := h.messaging.ListConversations(r.Context(), identity.ID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"conversations": conversations})
}

// OpenConversation handles GET /api/messages/conversations/{otherUserID}
func (h *MessageHandler) OpenConversation(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	conversation, err := h.messaging.GetOrCreateConversation(r.Context(), identity.ID, chi.URLParam(r, "id"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"conversation": conversation})
}

// ListMessages handles GET /api/messages/conversations/{conversationID}/messages
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	page := common.ParsePage(r, defaultMessageLimit, maxMessageLimit)
	messages, err := h.messaging.ListMessages(r.Context(), identity.ID, chi.URLParam(r, "id"), page.Limit, page.Offset)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if messages == nil {
		messages = []messaging.Message{}
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

// SendMessageRequest is the body for POST .../messages.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage handles POST /api/messages/conversations/{conversationID}/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var req SendMessageRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message, err := h.messaging.SendMessage(r.Context(), identity.ID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{"message": message})
}

// MarkRead handles POST /api/messages/conversations/{conversationID}/mark-read
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	if err := h.messaging.MarkConversationRead(r.Context(), identity.ID, chi.URLParam(r, "id")); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondMessage(w, http.StatusOK, "Messages marked as read")
}

// UnreadCount handles GET /api/messages/unread-count
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.GetIdentityFromContext(r.Context())
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	count, err := h.messaging.UnreadCount(r.Context(), identity.ID)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int64{"unread_count": count})
}
