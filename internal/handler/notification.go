package handler

import (
	"net/http"

	"github.com/talentloop/talentloop/internal/ctxkeys"
	"github.com/talentloop/talentloop/internal/service"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.notificationService.Inbox(*actor, unreadOnly)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor := ctxkeys.Actor(r.Context())

	err := h.notificationService.MarkRead(*actor, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
