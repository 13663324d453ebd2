package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/usecase"
)

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	notifications notificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications notificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns notifications, optionally only unread ones with ?unread=true.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("unread") == "true")
}

// ListUnread returns unread notifications.
func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request, unreadOnly bool) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	ns, err := h.notifications.List(r.Context(), usecase.ListNotificationsInput{
		AccountID:  p.AccountID,
		UnreadOnly: unreadOnly,
		Limit:      parseIntQuery(r, "limit", 50),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.NotificationsFromDomain(ns))
}

// CountUnread returns the number of unread notifications.
func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	count, err := h.notifications.CountUnread(r.Context(), p.AccountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.CountResponse{Count: count})
}

// MarkRead marks one notification read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	n, err := h.notifications.MarkRead(r.Context(), p.AccountID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.NotificationFromDomain(n))
}

// MarkAllRead marks all of the caller's notifications read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	count, err := h.notifications.MarkAllRead(r.Context(), p.AccountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.CountResponse{Count: count})
}
