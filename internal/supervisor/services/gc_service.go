// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
)

// defaultGCInterval is used when no interval is configured.
const defaultGCInterval = 10 * time.Minute

// GarbageCollector is satisfied by *store.Store.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCService reclaims space in the snapshot store's value log on a fixed
// interval. GC errors are logged and counted; they never stop the service.
type StoreGCService struct {
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewStoreGCService runs gc every interval. A non-positive interval uses 10m.
func NewStoreGCService(gc GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = defaultGCInterval
	}
	return &StoreGCService{
		store:    gc,
		interval: interval,
		logger:   logging.WithComponent("store-gc"),
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *StoreGCService) runOnce() {
	start := time.Now()
	if err := s.store.RunGC(); err != nil {
		metrics.StoreGCRuns.WithLabelValues("error").Inc()
		s.logger.Warn().Err(err).Msg("Snapshot store GC failed")
		return
	}
	metrics.StoreGCRuns.WithLabelValues("ok").Inc()
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("Snapshot store GC completed")
}

// String implements fmt.Stringer for supervisor logging.
func (s *StoreGCService) String() string {
	return "store-gc"
}
