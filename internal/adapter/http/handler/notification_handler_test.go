package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

type notificationServiceStub struct {
	lastList usecase.ListNotificationsInput
	items    []*domain.Notification
	unread   int64
	markErr  error
}

func (s *notificationServiceStub) List(_ context.Context, input usecase.ListNotificationsInput) ([]*domain.Notification, error) {
	s.lastList = input
	return s.items, nil
}

func (s *notificationServiceStub) CountUnread(context.Context, string) (int64, error) {
	return s.unread, nil
}

func (s *notificationServiceStub) MarkRead(_ context.Context, accountID, id string) (*domain.Notification, error) {
	if s.markErr != nil {
		return nil, s.markErr
	}
	n := domain.NewDepositNotification(id, accountID, "tx-1", domain.MustMoney("5"), fixedNow)
	n.MarkRead(fixedNow)
	return n, nil
}

func (s *notificationServiceStub) MarkAllRead(context.Context, string) (int64, error) {
	return s.unread, nil
}

func newNotificationRouter(h *NotificationHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/notifications", h.List)
	r.Get("/notifications/unread", h.ListUnread)
	r.Get("/notifications/unread/count", h.CountUnread)
	r.Put("/notifications/{id}/read", h.MarkRead)
	r.Put("/notifications/read-all", h.MarkAllRead)
	return r
}

func TestNotificationHandler_List(t *testing.T) {
	svc := &notificationServiceStub{items: []*domain.Notification{
		domain.NewDepositNotification("n-1", "acc-1", "tx-1", domain.MustMoney("25.5"), fixedNow),
	}}
	router := newNotificationRouter(NewNotificationHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/notifications/unread?limit=5", nil), "acc-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !svc.lastList.UnreadOnly || svc.lastList.Limit != 5 || svc.lastList.AccountID != "acc-1" {
		t.Fatalf("unexpected list input %+v", svc.lastList)
	}

	var resp []dto.NotificationResponse
	decodeEnvelope(t, rec, &resp)
	if len(resp) != 1 || resp[0].Message != "$25.50 has been added to your wallet" {
		t.Fatalf("unexpected notifications %+v", resp)
	}
}

func TestNotificationHandler_CountAndMark(t *testing.T) {
	svc := &notificationServiceStub{unread: 3}
	router := newNotificationRouter(NewNotificationHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodGet, "/notifications/unread/count", nil), "acc-1"))

	var count dto.CountResponse
	decodeEnvelope(t, rec, &count)
	if count.Count != 3 {
		t.Fatalf("expected 3 unread, got %d", count.Count)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPut, "/notifications/n-7/read", nil), "acc-1"))

	var n dto.NotificationResponse
	decodeEnvelope(t, rec, &n)
	if n.ID != "n-7" || !n.Read {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestNotificationHandler_MarkRead_ForeignNotification(t *testing.T) {
	svc := &notificationServiceStub{markErr: domain.ErrNotificationNotFound}
	router := newNotificationRouter(NewNotificationHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authed(httptest.NewRequest(http.MethodPut, "/notifications/n-9/read", nil), "acc-1"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
