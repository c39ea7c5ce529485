// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/konkandarshan/konkan/internal/middleware"
	"github.com/konkandarshan/konkan/internal/render"
	"github.com/konkandarshan/konkan/internal/scheduler"
)

// SchedulerHandler shows the maintenance jobs page.
type SchedulerHandler struct {
	renderer  *render.Renderer
	scheduler *scheduler.Scheduler
}

// NewSchedulerHandler creates a new SchedulerHandler. sched may be nil
// when the scheduler is disabled.
func NewSchedulerHandler(renderer *render.Renderer, sched *scheduler.Scheduler) *SchedulerHandler {
	return &SchedulerHandler{
		renderer:  renderer,
		scheduler: sched,
	}
}

// jobsData is the jobs page payload.
type jobsData struct {
	Jobs    []scheduler.JobInfo
	Enabled bool
}

// Show renders the list of scheduled maintenance jobs with their last
// and next run times.
func (h *SchedulerHandler) Show(w http.ResponseWriter, r *http.Request) {
	data := jobsData{Enabled: h.scheduler != nil}
	if h.scheduler != nil {
		data.Jobs = h.scheduler.Jobs()
	}
	if err := h.renderer.Render(w, r, "admin/jobs", render.TemplateData{
		Title: "Scheduled Jobs",
		User:  middleware.GetUser(r),
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render jobs page", "error", err)
	}
}
