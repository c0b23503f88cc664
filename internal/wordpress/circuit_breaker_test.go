// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package wordpress

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

func TestCircuitBreaker_PassesThrough(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	cb := NewCircuitBreakerClient(api, BreakerSettings{})
	ctx := context.Background()

	page, err := cb.GetPosts(ctx, PostQuery{Page: 1, PerPage: 10})
	if err != nil || len(page.Posts) != 2 {
		t.Fatalf("GetPosts = %v, %v", page, err)
	}
	post, err := cb.GetPostBySlug(ctx, "two")
	if err != nil || post.ID != 2 {
		t.Fatalf("GetPostBySlug = %v, %v", post, err)
	}
	cats, err := cb.GetCategories(ctx)
	if err != nil || len(cats) != 1 {
		t.Fatalf("GetCategories = %v, %v", cats, err)
	}
	if err := cb.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if cb.State() != "closed" {
		t.Errorf("State = %s, want closed", cb.State())
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.setErr(errUpstream)
	cb := NewCircuitBreakerClient(api, BreakerSettings{Timeout: time.Hour})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if _, err := cb.GetPosts(ctx, PostQuery{}); !errors.Is(err, errUpstream) {
			t.Fatalf("call %d err = %v, want upstream error", i, err)
		}
	}
	if cb.State() != "open" {
		t.Fatalf("State = %s, want open after 10 failures", cb.State())
	}

	_, err := cb.GetPosts(ctx, PostQuery{})
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsOpen(err) {
		t.Errorf("err = %v, want open state rejection", err)
	}
	if api.count("posts") != 10 {
		t.Errorf("upstream calls = %d, want 10 (rejected call must not reach upstream)", api.count("posts"))
	}
}

func TestCircuitBreaker_StaysClosedBelowMinimum(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.setErr(errUpstream)
	cb := NewCircuitBreakerClient(api, BreakerSettings{})

	for i := 0; i < 9; i++ {
		_, _ = cb.GetCategories(context.Background())
	}
	if cb.State() != "closed" {
		t.Errorf("State = %s, want closed below 10 requests", cb.State())
	}
}

func TestCircuitBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	cb := NewCircuitBreakerClient(api, BreakerSettings{})

	for i := 0; i < 20; i++ {
		if _, err := cb.GetPostBySlug(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	}
	if cb.State() != "closed" {
		t.Errorf("State = %s, want closed: not-found is not an outage", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Parallel()
	api := newFakeAPI()
	api.setErr(errUpstream)
	cb := NewCircuitBreakerClient(api, BreakerSettings{Timeout: 20 * time.Millisecond, MinRequests: 2})

	for i := 0; i < 2; i++ {
		_, _ = cb.GetPosts(context.Background(), PostQuery{})
	}
	if cb.State() != "open" {
		t.Fatalf("State = %s, want open", cb.State())
	}

	api.setErr(nil)
	time.Sleep(40 * time.Millisecond)

	for i := 0; i < 3; i++ {
		if _, err := cb.GetPosts(context.Background(), PostQuery{}); err != nil {
			t.Fatalf("probe %d: %v", i, err)
		}
	}
	if cb.State() != "closed" {
		t.Errorf("State = %s, want closed after successful probes", cb.State())
	}
}

func TestStateConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state gobreaker.State
		str   string
		val   float64
	}{
		{gobreaker.StateClosed, "closed", 0},
		{gobreaker.StateHalfOpen, "half-open", 1},
		{gobreaker.StateOpen, "open", 2},
		{gobreaker.State(42), "unknown", -1},
	}
	for _, tt := range tests {
		if got := stateToString(tt.state); got != tt.str {
			t.Errorf("stateToString(%v) = %s, want %s", tt.state, got, tt.str)
		}
		if got := stateToFloat(tt.state); got != tt.val {
			t.Errorf("stateToFloat(%v) = %v, want %v", tt.state, got, tt.val)
		}
	}
}

func TestCastResult(t *testing.T) {
	t.Parallel()

	if _, err := castResult[int]("not an int", nil); err == nil {
		t.Error("expected type mismatch error")
	}
	n := 3
	got, err := castResult[int](&n, nil)
	if err != nil || *got != 3 {
		t.Errorf("castResult = %v, %v", got, err)
	}
	if _, err := castResult[int](nil, errUpstream); !errors.Is(err, errUpstream) {
		t.Errorf("err = %v, want passthrough", err)
	}
}
