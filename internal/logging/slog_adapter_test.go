// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferedSlog(level zerolog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(level)
	return slog.New(NewSlogHandlerWithLogger(zl)), &buf
}

func TestSlogHandler_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		log   func(l *slog.Logger)
		level string
	}{
		{"info", func(l *slog.Logger) { l.Info("m") }, `"level":"info"`},
		{"warn", func(l *slog.Logger) { l.Warn("m") }, `"level":"warn"`},
		{"error", func(l *slog.Logger) { l.Error("m") }, `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, buf := newBufferedSlog(zerolog.TraceLevel)
			tt.log(l)
			if !strings.Contains(buf.String(), tt.level) {
				t.Errorf("expected %s, got: %s", tt.level, buf.String())
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.New(nil).Level(zerolog.WarnLevel))
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestSlogHandler_Attributes(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedSlog(zerolog.TraceLevel)
	l = l.With("service", "http-server")
	l.Info("service started",
		"restarts", 2,
		"healthy", true,
		"backoff", 15*time.Second,
	)

	out := buf.String()
	for _, want := range []string{`"service":"http-server"`, `"restarts":2`, `"healthy":true`, `"message":"service started"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in output, got: %s", want, out)
		}
	}
}

func TestSlogHandler_Groups(t *testing.T) {
	t.Parallel()

	l, buf := newBufferedSlog(zerolog.TraceLevel)
	l.WithGroup("supervisor").WithGroup("api").Info("x", "name", "layer")

	if !strings.Contains(buf.String(), `"supervisor.api.name":"layer"`) {
		t.Errorf("expected grouped key, got: %s", buf.String())
	}

	l2, buf2 := newBufferedSlog(zerolog.TraceLevel)
	l2.Info("y", slog.Group("event", slog.String("kind", "restart")))
	if !strings.Contains(buf2.String(), `"event.kind":"restart"`) {
		t.Errorf("expected inline group key, got: %s", buf2.String())
	}
}

func TestSlogHandler_EmptyGroupIsNoop(t *testing.T) {
	t.Parallel()

	h := NewSlogHandlerWithLogger(zerolog.Nop())
	if h.WithGroup("") != h {
		t.Error("WithGroup(\"\") should return the same handler")
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   slog.Level
		want zerolog.Level
	}{
		{slog.LevelDebug - 4, zerolog.TraceLevel},
		{slog.LevelDebug, zerolog.DebugLevel},
		{slog.LevelInfo, zerolog.InfoLevel},
		{slog.LevelWarn, zerolog.WarnLevel},
		{slog.LevelError, zerolog.ErrorLevel},
		{slog.LevelError + 4, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := slogToZerologLevel(tt.in); got != tt.want {
			t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewSlogLogger(t *testing.T) {
	if NewSlogLogger() == nil {
		t.Fatal("expected non-nil slog logger")
	}
}
