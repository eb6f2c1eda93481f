// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

// Scheduler is the frame scheduler (component F): it coalesces repeated
// redraw/damage requests into at-most-one pending idle callback each,
// tracks the constant_redraw and output_inhibit reference counts, and
// holds whatever custom full-frame renderer the host has installed.
type Scheduler struct {
	loop   EventLoop
	output Output

	constantRedraw int
	outputInhibit  int

	idleRedrawSource IdleSource
	idleDamageSource IdleSource

	customRenderer CustomRenderer

	// onStartRendering is invoked when output_inhibit returns to 0; the
	// manager wires this to force full damage and emit "start-rendering".
	onStartRendering func()

	// onDamageRefresh is invoked by the deferred idle callback that
	// ResetRenderer queues; the manager wires this to force full damage
	// so the scene repaints once the custom renderer is gone.
	onDamageRefresh func()
}

// NewScheduler builds a scheduler bound to loop and output.
// constantRedrawDefault seeds the constant_redraw counter at 0 or 1.
func NewScheduler(loop EventLoop, output Output, constantRedrawDefault bool, onStartRendering, onDamageRefresh func()) *Scheduler {
	s := &Scheduler{loop: loop, output: output, onStartRendering: onStartRendering, onDamageRefresh: onDamageRefresh}
	if constantRedrawDefault {
		s.constantRedraw = 1
	}
	return s
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ScheduleRedraw queues an idle callback that requests a frame, unless
// one is already pending.
func (s *Scheduler) ScheduleRedraw() {
	if s.idleRedrawSource != nil {
		return
	}
	s.idleRedrawSource = s.loop.AddIdle(func() {
		s.idleRedrawSource = nil
		s.output.ScheduleFrame()
	})
}

// ScheduleRepaint requests a frame event directly, the same request
// [Accumulator] makes on every damage call.
func (s *Scheduler) ScheduleRepaint() {
	s.output.ScheduleFrame()
}

// scheduleDamageRefresh queues an idle callback invoking onDamageRefresh,
// unless one is already pending. This is the second of the two
// at-most-one-in-flight idle sources.
func (s *Scheduler) scheduleDamageRefresh() {
	if s.idleDamageSource != nil {
		return
	}
	s.idleDamageSource = s.loop.AddIdle(func() {
		s.idleDamageSource = nil
		if s.onDamageRefresh != nil {
			s.onDamageRefresh()
		}
	})
}

// AutoRedraw increments or decrements constant_redraw, clamped at 0.
// Crossing 0 -> 1 schedules a redraw immediately.
func (s *Scheduler) AutoRedraw(enable bool) {
	before := s.constantRedraw
	if enable {
		s.constantRedraw = clampNonNegative(s.constantRedraw + 1)
	} else {
		s.constantRedraw = clampNonNegative(s.constantRedraw - 1)
	}
	if before == 0 && s.constantRedraw > 0 {
		s.ScheduleRedraw()
	}
}

// ConstantRedraw reports the current constant_redraw counter.
func (s *Scheduler) ConstantRedraw() int {
	return s.constantRedraw
}

// AddInhibit increments or decrements output_inhibit, clamped at 0. On
// return to 0, onStartRendering runs (the manager forces full damage and
// emits "start-rendering" from there).
func (s *Scheduler) AddInhibit(enable bool) {
	before := s.outputInhibit
	if enable {
		s.outputInhibit = clampNonNegative(s.outputInhibit + 1)
	} else {
		s.outputInhibit = clampNonNegative(s.outputInhibit - 1)
	}
	if before > 0 && s.outputInhibit == 0 && s.onStartRendering != nil {
		s.onStartRendering()
	}
}

// OutputInhibit reports the current output_inhibit counter.
func (s *Scheduler) OutputInhibit() int {
	return s.outputInhibit
}

// Inhibited reports whether rendering is currently suppressed.
func (s *Scheduler) Inhibited() bool {
	return s.outputInhibit > 0
}

// SetRenderer installs a custom full-frame renderer, replacing the
// workspace-stream path until ResetRenderer is called.
func (s *Scheduler) SetRenderer(hook CustomRenderer) {
	s.customRenderer = hook
}

// Renderer returns the currently installed custom renderer, or nil if
// none is set.
func (s *Scheduler) Renderer() CustomRenderer {
	return s.customRenderer
}

// ResetRenderer clears any custom renderer and idle-schedules a full
// damage so the workspace-stream path repaints the scene from scratch.
func (s *Scheduler) ResetRenderer() {
	s.customRenderer = nil
	s.scheduleDamageRefresh()
}

// MaybeRescheduleAfterPostPaint re-schedules a redraw if constant_redraw
// is still active; called once per frame from post_paint.
func (s *Scheduler) MaybeRescheduleAfterPostPaint() {
	if s.constantRedraw > 0 {
		s.ScheduleRedraw()
	}
}
