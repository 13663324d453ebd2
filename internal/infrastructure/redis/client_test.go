package redis

import (
	"context"
	"fmt"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
)

func TestNewClientSuccess(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	ctx := context.Background()
	client, err := NewClient(ctx, fmt.Sprintf("redis://%s", s.Addr()), zerolog.Nop())
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	if err := NewChecker(client).Check(ctx); err != nil {
		t.Fatalf("check failed: %v", err)
	}
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "://bad-url", zerolog.Nop())
	if err == nil {
		t.Fatalf("expected error for invalid URL")
	}
}

func TestNewClientPingFailure(t *testing.T) {
	s := miniredis.RunT(t)
	url := fmt.Sprintf("redis://%s", s.Addr())
	s.Close() // close before attempting to connect

	_, err := NewClient(context.Background(), url, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected ping error when server is down")
	}
}

func TestCheckerFailsWhenServerStops(t *testing.T) {
	s := miniredis.RunT(t)

	client, err := NewClient(context.Background(), fmt.Sprintf("redis://%s", s.Addr()), zerolog.Nop())
	if err != nil {
		t.Fatalf("expected client, got error: %v", err)
	}
	defer client.Close()

	checker := NewChecker(client)
	if checker.Name() != "redis" {
		t.Fatalf("unexpected name %q", checker.Name())
	}

	s.Close()
	if err := checker.Check(context.Background()); err == nil {
		t.Fatalf("expected check to fail after server stopped")
	}
}
