// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/pressfeed/internal/feed"
	"github.com/tomtom215/pressfeed/internal/models"
	"github.com/tomtom215/pressfeed/internal/websocket"
)

// stubService runs until canceled, failing its first fails starts.
type stubService struct {
	name   string
	fails  int32
	starts atomic.Int32
}

func (s *stubService) Serve(ctx context.Context) error {
	if n := s.starts.Add(1); n <= s.fails {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	t.Parallel()

	tree, err := NewSupervisorTree(quietLogger(), TreeConfig{FailureBackoff: time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree: %v", err)
	}
	if tree.Root() == nil {
		t.Fatal("root supervisor is nil")
	}

	def := DefaultTreeConfig()
	if tree.config.FailureThreshold != def.FailureThreshold || tree.config.FailureDecay != def.FailureDecay {
		t.Errorf("config = %+v", tree.config)
	}
	if tree.config.FailureBackoff != time.Second {
		t.Errorf("FailureBackoff = %v, explicit value overwritten", tree.config.FailureBackoff)
	}
	if tree.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", tree.config.ShutdownTimeout)
	}
}

func TestSupervisorTree_StartsEveryLayer(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	data := &stubService{name: "data"}
	fd := &stubService{name: "feed"}
	api := &stubService{name: "api"}
	tree.AddDataService(data)
	tree.AddFeedService(fd)
	tree.AddAPIService(api)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for data.starts.Load() == 0 || fd.starts.Load() == 0 || api.starts.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("starts: data=%d feed=%d api=%d", data.starts.Load(), fd.starts.Load(), api.starts.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tree did not stop")
	}
}

func TestSupervisorTree_RestartsFailingService(t *testing.T) {
	t.Parallel()

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	failing := &stubService{name: "failing", fails: 2}
	stable := &stubService{name: "stable"}
	tree.AddFeedService(failing)
	tree.AddAPIService(stable)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	errCh := tree.ServeBackground(ctx)

	for failing.starts.Load() < 3 {
		select {
		case <-ctx.Done():
			t.Fatalf("failing service started %d times, want 3", failing.starts.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
	if stable.starts.Load() != 1 {
		t.Errorf("stable service started %d times, want 1", stable.starts.Load())
	}
	cancel()
	<-errCh
}

func TestSupervisorTree_RunsRegistryAndHub(t *testing.T) {
	t.Parallel()

	src := feed.SourceFunc(func(context.Context, int, int, *int) ([]models.Post, error) {
		return []models.Post{{ID: 1, Slug: "uno"}}, nil
	})
	reg := feed.NewRegistry(src, feed.RegistryConfig{
		IdleTTL:       20 * time.Millisecond,
		SweepInterval: 10 * time.Millisecond,
	})
	hub := websocket.NewHub(websocket.HubConfig{})
	reg.SetListener(hub.Notify, hub.SessionClosed)

	tree, _ := NewSupervisorTree(quietLogger(), TreeConfig{ShutdownTimeout: time.Second})
	tree.AddFeedService(reg)
	tree.AddFeedService(hub)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)
	defer func() {
		cancel()
		<-errCh
	}()

	if _, err := reg.Create(context.Background(), nil); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// the supervised sweeper expires the idle session
	deadline := time.Now().Add(2 * time.Second)
	for reg.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("idle session not swept, Len() = %d", reg.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
