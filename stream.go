// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import (
	"fmt"

	"github.com/gogpu/wsrender/render"
)

// scaledStreamRenderingEnabled gates the scale-aware repaint path in
// [Stream.Update]. It mirrors a disabled guard carried over from the
// source this design was distilled from: the contract (scaleX, scaleY
// arguments, the per-stream scale fields) is kept so a future renderer
// can turn it on, but no workspace stream is actually rendered at
// anything but 1x today.
const scaledStreamRenderingEnabled = false

var blackOpaque = [4]float32{0, 0, 0, 1}

// Stream is one cell of the workspace-stream grid (component C): it
// caches one virtual workspace's rendered contents in a single
// framebuffer, updated incrementally from accumulated damage.
type Stream struct {
	ws             WSCoord
	buffer         *render.FramebufferResource
	running        bool
	scaleX, scaleY float64

	// OnStreamPre and OnStreamPost, if set, are invoked around the
	// per-frame render pass with the damage about to be drawn and the
	// framebuffer it's drawn into.
	OnStreamPre  func(ws WSCoord, damage *Region, fb *render.FramebufferResource)
	OnStreamPost func(ws WSCoord, fb *render.FramebufferResource)
}

// Running reports whether the stream is the active ("current") one.
func (s *Stream) Running() bool {
	return s.running
}

// Buffer returns the stream's backing framebuffer resource.
func (s *Stream) Buffer() *render.FramebufferResource {
	return s.buffer
}

// Start marks the stream running, resets its scale to 1x1, forces a
// full repaint of the workspace, and performs the first update.
//
// frameSnapshot is the current paint's per-frame damage (see
// [Accumulator.GetWSDamage]); it may be nil when Start is called
// outside of a Paint, e.g. at manager construction, in which case the
// forced repaint only takes effect on the next real frame.
func (s *Stream) Start(acc *Accumulator, cx, cy int, outGeom render.Geometry, wsMgr WorkspaceManager, gpu render.GPUContext, frameSnapshot *Region) error {
	s.running = true
	s.scaleX, s.scaleY = 1, 1

	w, h := acc.OutputSize()
	full := Box{X: 0, Y: 0, W: w, H: h}
	acc.DamageRect(full)
	if frameSnapshot != nil {
		frameSnapshot.Union(full)
	}

	return s.Update(1, 1, acc, cx, cy, outGeom, wsMgr, gpu, frameSnapshot)
}

// Stop marks the stream dormant. Its framebuffer is retained as a cache
// and is not released here.
func (s *Stream) Stop() {
	s.running = false
}

// streamRecord is one surface (or whole-view snapshot) scheduled for
// drawing in a single Update call.
type streamRecord struct {
	view     View
	surface  Surface
	box      Box
	damage   *Region
	snapshot bool
}

// Update recomputes this stream's damage and re-renders every surface
// that overlaps it, performing front-to-back occlusion culling and
// back-to-front drawing.
//
// frameSnapshot is the current paint's per-frame damage, as captured
// by MakeCurrent before the output rect was subtracted back out of the
// accumulator's own running region; see [Accumulator.GetWSDamage].
func (s *Stream) Update(scaleX, scaleY float64, acc *Accumulator, cx, cy int, outGeom render.Geometry, wsMgr WorkspaceManager, gpu render.GPUContext, frameSnapshot *Region) error {
	dx := outGeom.X + (s.ws.VX-cx)*outGeom.W
	dy := outGeom.Y + (s.ws.VY-cy)*outGeom.H

	wsDamage := NewRegion()
	acc.GetWSDamage(s.ws, cx, cy, frameSnapshot, wsDamage)

	scaleChanged := scaleX != s.scaleX || scaleY != s.scaleY
	if scaleChanged && scaledStreamRenderingEnabled {
		w, h := acc.OutputSize()
		wsDamage.Union(Box{X: 0, Y: 0, W: w, H: h})
	}

	if wsDamage.Empty() {
		return nil
	}

	w, h := acc.OutputSize()
	if err := s.buffer.Allocate(w, h); err != nil {
		return fmt.Errorf("wsrender: stream %+v: allocating buffer: %w", s.ws, err)
	}

	if s.OnStreamPre != nil {
		s.OnStreamPre(s.ws, wsDamage, s.buffer)
	}

	views := wsMgr.ViewsOnWorkspace(s.ws, LayerAll, false)
	records := buildStreamRecords(views, dx, dy, wsDamage)

	fb, _ := s.buffer.IDs()
	for _, rec := range records {
		for _, r := range rec.damage.Rects() {
			gpu.Clear(fb, blackOpaque, &r)
		}
	}

	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec.snapshot {
			rec.view.RenderSnapshot(rec.damage, s.buffer)
		} else {
			rec.surface.RenderFB(rec.damage, s.buffer)
		}
	}

	if s.OnStreamPost != nil {
		s.OnStreamPost(s.ws, s.buffer)
	}

	s.scaleX, s.scaleY = scaleX, scaleY
	return nil
}

// buildStreamRecords performs the occlusion pass described for
// component C: iterating views front-to-back, culling already-opaque
// area from the working damage copy and stopping once nothing remains.
func buildStreamRecords(views []View, dx, dy int, wsDamage *Region) []streamRecord {
	working := wsDamage.Clone()
	var records []streamRecord

	for _, v := range views {
		if working.Empty() {
			break
		}

		offX, offY := dx, dy
		if isShellOrPanel(v) {
			offX, offY = 0, 0
		}

		if v.HasTransformer() || !v.IsMapped() {
			bbox := v.BoundingBox().Translate(offX, offY)
			dmg := working.IntersectBox(bbox)
			if !dmg.Empty() {
				records = append(records, streamRecord{view: v, box: bbox, damage: dmg, snapshot: true})
			}
			continue
		}

		v.ForEachSurface(func(sf Surface) {
			if !sf.IsMapped() {
				return
			}
			geom := sf.OutputGeometry().Translate(offX, offY)
			dmg := working.IntersectBox(geom)
			if !dmg.Empty() {
				records = append(records, streamRecord{view: v, surface: sf, box: geom, damage: dmg})
			}
			if sf.Alpha() >= 0.999 {
				sf.SubtractOpaque(working, offX, offY)
			}
		})
	}

	return records
}

func isShellOrPanel(v View) bool {
	return v.Role() != RoleToplevel
}

// StreamGrid is the fixed vwidth x vheight table of workspace streams
// (design note: "stream grid as a flat addressed table"). It is
// allocated once, at manager construction, and never resized.
type StreamGrid struct {
	w, h    int
	streams []*Stream
}

// NewStreamGrid allocates a w x h grid of dormant streams, each with an
// unallocated backing framebuffer.
func NewStreamGrid(w, h int, ctx render.GPUContext) *StreamGrid {
	g := &StreamGrid{w: w, h: h, streams: make([]*Stream, w*h)}
	for vy := 0; vy < h; vy++ {
		for vx := 0; vx < w; vx++ {
			g.streams[vy*w+vx] = &Stream{
				ws:     WSCoord{VX: vx, VY: vy},
				buffer: render.NewFramebufferResource(ctx, fmt.Sprintf("stream-%d-%d", vx, vy)),
				scaleX: 1, scaleY: 1,
			}
		}
	}
	return g
}

// Size returns the grid's fixed dimensions.
func (g *StreamGrid) Size() (int, int) {
	return g.w, g.h
}

// At returns the stream for ws. It panics if ws is outside the grid,
// since the grid dimensions are fixed and any caller supplying an
// out-of-range workspace coordinate has a bug.
func (g *StreamGrid) At(ws WSCoord) *Stream {
	if ws.VX < 0 || ws.VX >= g.w || ws.VY < 0 || ws.VY >= g.h {
		panic(fmt.Sprintf("wsrender: workspace %+v outside %dx%d grid", ws, g.w, g.h))
	}
	return g.streams[ws.VY*g.w+ws.VX]
}
