// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tomtom215/pressfeed/internal/logging"
)

func newWrap(w http.ResponseWriter, r *http.Request) chimiddleware.WrapResponseWriter {
	return chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prevLogger := logging.Logger()
	prevLevel := logging.GetLevel()
	var buf bytes.Buffer
	logging.SetLogger(logging.NewTestLogger(&buf))
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		logging.SetLogger(prevLogger)
		zerolog.SetGlobalLevel(prevLevel)
	})
	return &buf
}

func TestAccessLog_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, `"level":"debug"`},
		{http.StatusNotFound, `"level":"warn"`},
		{http.StatusBadGateway, `"level":"error"`},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := captureLogs(t)

			r := chi.NewRouter()
			r.Use(AccessLog())
			r.Get("/api/v1/posts/{slug}", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/hola", nil)
			req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-42"))
			r.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			for _, want := range []string{
				tt.level,
				`"route":"/api/v1/posts/{slug}"`,
				`"path":"/api/v1/posts/hola"`,
				`"request_id":"req-42"`,
				`"bytes":4`,
			} {
				if !strings.Contains(out, want) {
					t.Errorf("missing %s in %s", want, out)
				}
			}
		})
	}
}

func TestAccessLog_SkipsPaths(t *testing.T) {
	buf := captureLogs(t)

	r := chi.NewRouter()
	r.Use(AccessLog("/metrics"))
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {})
	r.Get("/other", func(w http.ResponseWriter, _ *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if buf.Len() != 0 {
		t.Fatalf("skipped path was logged: %s", buf.String())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))
	if !strings.Contains(buf.String(), `"path":"/other"`) {
		t.Errorf("expected /other to be logged, got %s", buf.String())
	}
}
