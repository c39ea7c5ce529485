// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/konkandarshan/konkan/internal/geoip"
	"github.com/konkandarshan/konkan/internal/service"
)

// Job schedules.
const (
	retentionSchedule   = "0 3 * * *"  // daily at 03:00
	reindexSchedule     = "0 4 * * 0"  // weekly, Sunday 04:00
	geoipReloadSchedule = "30 4 * * 3" // weekly, Wednesday 04:30
)

// JobInfo is the public view of a scheduled job, shown on the admin
// dashboard.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	NextRun     time.Time
}

// Scheduler runs the retention, search reindex and geoip reload jobs
// on cron schedules.
type Scheduler struct {
	cron          *cron.Cron
	logger        *slog.Logger
	events        *service.EventService
	views         *service.ViewService
	search        *service.SearchService
	geo           *geoip.Lookup
	retentionDays int

	mu       sync.Mutex
	lastRuns map[string]time.Time
	entries  map[string]cron.EntryID
}

// New creates a scheduler. retentionDays bounds how long event and view
// rows are kept. geo may be nil when country lookups are disabled.
func New(events *service.EventService, views *service.ViewService, search *service.SearchService, geo *geoip.Lookup, retentionDays int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		logger:        logger,
		events:        events,
		views:         views,
		search:        search,
		geo:           geo,
		retentionDays: retentionDays,
		lastRuns:      make(map[string]time.Time),
		entries:       make(map[string]cron.EntryID),
	}
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	if err := s.addJob("retention", retentionSchedule, func() {
		if err := s.RunRetention(context.Background()); err != nil {
			s.logger.Error("retention job failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if err := s.addJob("search_reindex", reindexSchedule, func() {
		if err := s.RunReindex(context.Background()); err != nil {
			s.logger.Error("search reindex job failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if s.geo != nil {
		if err := s.addJob("geoip_reload", geoipReloadSchedule, func() {
			if err := s.geo.Reload(); err != nil {
				s.logger.Warn("geoip reload failed", "error", err)
			}
		}); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		"jobs", len(s.cron.Entries()),
		"retention_days", s.retentionDays)
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) addJob(name, schedule string, fn func()) error {
	id, err := s.cron.AddFunc(schedule, func() {
		s.mu.Lock()
		s.lastRuns[name] = time.Now()
		s.mu.Unlock()
		fn()
	})
	if err != nil {
		return fmt.Errorf("failed to register %s job: %w", name, err)
	}
	s.mu.Lock()
	s.entries[name] = id
	s.mu.Unlock()
	return nil
}

// RunRetention deletes event and view rows older than the retention
// window. Exposed so the admin dashboard can trigger it manually.
func (s *Scheduler) RunRetention(ctx context.Context) error {
	if s.retentionDays <= 0 {
		s.logger.Info("retention disabled, skipping")
		return nil
	}

	olderThan := time.Duration(s.retentionDays) * 24 * time.Hour

	eventsDeleted, err := s.events.DeleteOldEvents(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("failed to prune events: %w", err)
	}

	viewsDeleted, err := s.views.DeleteOldViews(ctx, olderThan)
	if err != nil {
		return fmt.Errorf("failed to prune view rows: %w", err)
	}

	s.logger.Info("retention job finished",
		"events_deleted", eventsDeleted,
		"views_deleted", viewsDeleted,
		"retention_days", s.retentionDays)

	if eventsDeleted > 0 || viewsDeleted > 0 {
		if err := s.events.LogSystemEvent(ctx, "info", "Retention job pruned old rows", nil, "", map[string]any{
			"events_deleted": eventsDeleted,
			"views_deleted":  viewsDeleted,
			"retention_days": s.retentionDays,
		}); err != nil {
			s.logger.Warn("failed to log retention event", "error", err)
		}
	}
	return nil
}

// RunReindex rebuilds the blog search index. Covers rows written outside
// the triggers, such as seeding.
func (s *Scheduler) RunReindex(ctx context.Context) error {
	if err := s.search.RebuildIndex(ctx); err != nil {
		return fmt.Errorf("failed to rebuild search index: %w", err)
	}
	s.logger.Info("search index rebuilt")
	return nil
}

// Jobs returns the registered jobs with their last and next run times.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	descriptions := map[string]string{
		"retention":      "Prune old event log and blog view rows",
		"search_reindex": "Rebuild the blog search index",
		"geoip_reload":   "Pick up an updated GeoLite2 country database",
	}
	schedules := map[string]string{
		"retention":      retentionSchedule,
		"search_reindex": reindexSchedule,
		"geoip_reload":   geoipReloadSchedule,
	}

	var jobs []JobInfo
	for name, id := range s.entries {
		entry := s.cron.Entry(id)
		jobs = append(jobs, JobInfo{
			Name:        name,
			Description: descriptions[name],
			Schedule:    schedules[name],
			LastRun:     s.lastRuns[name],
			NextRun:     entry.Next,
		})
	}
	return jobs
}
