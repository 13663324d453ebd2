package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type checkerStub struct {
	name string
	err  error
}

func (c checkerStub) Name() string { return c.name }

func (c checkerStub) Check(context.Context) error { return c.err }

func TestHealthHandler(t *testing.T) {
	healthy := NewHealthHandler(checkerStub{name: "postgres"}, checkerStub{name: "redis"})

	rec := httptest.NewRecorder()
	healthy.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	healthy.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var status map[string]string
	decodeEnvelope(t, rec, &status)
	if status["postgres"] != "ok" || status["redis"] != "ok" {
		t.Fatalf("unexpected readiness %+v", status)
	}

	unhealthy := NewHealthHandler(checkerStub{name: "redis", err: errors.New("refused")})
	rec = httptest.NewRecorder()
	unhealthy.Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if msg := decodeEnvelope(t, rec, nil); msg != "redis unhealthy" {
		t.Fatalf("unexpected message %q", msg)
	}
}
