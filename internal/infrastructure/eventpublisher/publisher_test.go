package eventpublisher

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
)

func TestDispatchPublishesAndMarks(t *testing.T) {
	repo := &stubNotificationRepo{
		pending: []*domain.Notification{{ID: "n-1", AccountID: "acc-1"}},
	}
	pub := &stubPublisher{}
	d := newTestDispatcher(repo, pub)

	if err := d.dispatch(context.Background()); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one published notification, got %d", len(pub.published))
	}
	if len(repo.delivered) != 1 || repo.delivered[0] != "n-1" {
		t.Fatalf("expected notification to be marked delivered, got %#v", repo.delivered)
	}
}

func TestDispatchContinuesOnPublishError(t *testing.T) {
	repo := &stubNotificationRepo{
		pending: []*domain.Notification{
			{ID: "n-1", AccountID: "acc-1"},
			{ID: "n-2", AccountID: "acc-2"},
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"n-1": errors.New("fail")},
	}
	obs := &stubObserver{}
	d := newTestDispatcher(repo, pub)
	d.observer = obs

	if err := d.dispatch(context.Background()); err != nil {
		t.Fatalf("dispatch returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != "n-2" {
		t.Fatalf("expected only n-2 to be published, got %#v", pub.published)
	}
	if len(repo.delivered) != 1 || repo.delivered[0] != "n-2" {
		t.Fatalf("expected only n-2 to be marked, got %#v", repo.delivered)
	}
	if pub.attempts["n-1"] != 2 {
		t.Fatalf("expected n-1 to be attempted twice, got %d", pub.attempts["n-1"])
	}
	if obs.failures != 1 || obs.successes != 1 {
		t.Fatalf("expected one failure and one success, got %+v", obs)
	}
}

func TestDispatchRetriesTransientPublishError(t *testing.T) {
	repo := &stubNotificationRepo{
		pending: []*domain.Notification{{ID: "n-1", AccountID: "acc-1"}},
	}
	pub := &stubPublisher{failFirst: map[string]int{"n-1": 1}}
	d := newTestDispatcher(repo, pub)

	if err := d.dispatch(context.Background()); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if len(repo.delivered) != 1 {
		t.Fatalf("expected delivery after retry, got %#v", repo.delivered)
	}
}

func TestDispatchFetchError(t *testing.T) {
	repo := &stubNotificationRepo{fetchErr: errors.New("db down")}
	d := newTestDispatcher(repo, &stubPublisher{})

	if err := d.dispatch(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubNotificationRepo{}
	pub := &stubPublisher{}
	d := newTestDispatcher(repo, pub)
	d.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(zerolog.New(&buf))

	n := domain.NewDepositNotification("n-1", "acc-1", "e-1", domain.MustMoney("5"), time.Now())
	if err := pub.Publish(context.Background(), n); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if !strings.Contains(buf.String(), `"notification_id":"n-1"`) {
		t.Fatalf("expected notification in log, got %q", buf.String())
	}
}

func newTestDispatcher(repo *stubNotificationRepo, pub *stubPublisher) *Dispatcher {
	return NewDispatcher(Config{
		NotificationRepo: repo,
		Publisher:        pub,
		Logger:           zerolog.Nop(),
		BatchSize:        10,
		Interval:         5 * time.Millisecond,
		MaxAttempts:      2,
	})
}

type stubNotificationRepo struct {
	mu        sync.Mutex
	pending   []*domain.Notification
	delivered []string
	fetchErr  error
}

func (s *stubNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return nil
}

func (s *stubNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return nil, domain.ErrNotificationNotFound
}

func (s *stubNotificationRepo) ListByAccount(ctx context.Context, accountID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	return nil, nil
}

func (s *stubNotificationRepo) CountUnread(ctx context.Context, accountID string) (int64, error) {
	return 0, nil
}

func (s *stubNotificationRepo) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	return nil
}

func (s *stubNotificationRepo) MarkAllRead(ctx context.Context, accountID string, readAt time.Time) (int64, error) {
	return 0, nil
}

func (s *stubNotificationRepo) GetUndelivered(ctx context.Context, limit int) ([]*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.pending) <= limit {
		return append([]*domain.Notification(nil), s.pending...), nil
	}
	return append([]*domain.Notification(nil), s.pending[:limit]...), nil
}

func (s *stubNotificationRepo) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delivered = append(s.delivered, id)
	return nil
}

type stubPublisher struct {
	published  []*domain.Notification
	errorsByID map[string]error
	failFirst  map[string]int
	attempts   map[string]int
}

func (s *stubPublisher) Publish(ctx context.Context, n *domain.Notification) error {
	if s.attempts == nil {
		s.attempts = map[string]int{}
	}
	s.attempts[n.ID]++

	if err := s.errorsByID[n.ID]; err != nil {
		return err
	}
	if s.attempts[n.ID] <= s.failFirst[n.ID] {
		return errors.New("transient")
	}
	s.published = append(s.published, n)
	return nil
}

type stubObserver struct {
	successes int
	failures  int
}

func (s *stubObserver) ObserveDelivery(err error) {
	if err != nil {
		s.failures++
		return
	}
	s.successes++
}
