// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import (
	"time"

	"github.com/gogpu/wsrender/render"
)

// WSCoord addresses one cell of the fixed vwidth x vheight workspace
// grid.
type WSCoord struct {
	VX, VY int
}

// LayerMask selects which scene-graph layers a workspace query should
// consider. Layers are ordered back-to-front; Middle carries ordinary
// application windows, Below/Above carry panels, backgrounds and
// overlays that paint on every workspace regardless of which one is
// current.
type LayerMask uint32

const (
	LayerBackground LayerMask = 1 << iota
	LayerBelow
	LayerMiddle
	LayerAbove
	LayerOverlay

	LayerAll     = LayerBackground | LayerBelow | LayerMiddle | LayerAbove | LayerOverlay
	LayerOutside = LayerBackground | LayerBelow | LayerAbove | LayerOverlay
)

// IdleSource identifies a queued idle callback so it can be cancelled.
type IdleSource interface{}

// Output is the physical display device a [Manager] drives. Owned and
// implemented by the host compositor.
type Output interface {
	Size() (width, height int)
	Scale() float64
	Transform() render.Transform
	ScheduleFrame()
	TransformedResolution() (width, height int)
}

// DamageManager is the host's per-output damage tracker, bridged into
// [Accumulator].
type DamageManager interface {
	// MakeCurrent returns the damage accumulated by the host since the
	// last swap, unioned into out. ok is false if the output cannot
	// currently produce a frame (e.g. it is being destroyed).
	MakeCurrent(out *Region) (needsSwap bool, ok bool)
	AddBox(b Box)
	Add(r *Region)
	SwapBuffers(ts time.Time, swapDamage *Region) error
}

// EventLoop schedules at-most-once idle work, used by [Scheduler] to
// coalesce repeated schedule_redraw calls into a single pending
// callback.
type EventLoop interface {
	AddIdle(fn func()) IdleSource
	Remove(src IdleSource)
}

// WorkspaceManager is the scene graph's view directory.
type WorkspaceManager interface {
	CurrentWorkspace() (cx, cy int)
	// ViewsOnWorkspace returns the views pinned to ws, filtered by mask.
	// When reverse is false the order is front-to-back (as used for
	// occlusion culling); reverse yields back-to-front (draw order).
	ViewsOnWorkspace(ws WSCoord, mask LayerMask, reverse bool) []View
	ForEachView(fn func(View), mask LayerMask)
}

// Role values distinguish ordinary application windows from shell
// surfaces (panels, backgrounds, docks) whose geometry is already
// output-local rather than workspace-relative.
const (
	RoleToplevel      = "toplevel"
	RoleDesktopWidget = "desktop-widget"
)

// View is one window/panel/overlay in the scene graph.
type View interface {
	IsMapped() bool
	IsVisible() bool
	HasTransformer() bool
	Role() string
	BoundingBox() Box
	ForEachSurface(fn func(Surface))

	// RenderSnapshot draws this view's cached contents (used when it has
	// a transformer attached, or is unmapped but kept alive as a
	// snapshot by a plugin) into fb, redrawing only damage.
	RenderSnapshot(damage *Region, fb *render.FramebufferResource)
}

// Surface is one renderable buffer belonging to a [View] (the toplevel
// surface or one of its subsurfaces).
type Surface interface {
	IsMapped() bool
	OutputGeometry() Box
	Alpha() float64
	SubtractOpaque(r *Region, x, y int)
	RenderFB(damage *Region, fb *render.FramebufferResource)
	SendFrameDone(now time.Time)
}

// CustomRenderer replaces the workspace-stream path for one output
// when installed via [Scheduler.SetRenderer]. It draws directly into
// the target framebuffer; it cannot yet declare its own repaint region,
// so every paint that uses one is treated as fully damaged.
type CustomRenderer func(fb *render.FramebufferResource)
