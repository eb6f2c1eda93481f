// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import "time"

// Accumulator is the per-output damage accumulator (component A): it
// bridges the region algebra in [Region] to the host's [DamageManager]
// and keeps the single "frame damage" region that every paint drains.
type Accumulator struct {
	frameDamage   *Region
	output        Output
	dm            DamageManager
	noDamageTrack func() bool
}

// NewAccumulator builds an accumulator bound to output and dm.
// noDamageTrack is polled on every MakeCurrent and may be nil, in which
// case damage tracking is always active; pass a closure over a live
// [RenderConfig] to let WatchConfig toggle it at runtime.
func NewAccumulator(output Output, dm DamageManager, noDamageTrack func() bool) *Accumulator {
	return &Accumulator{
		frameDamage:   NewRegion(),
		output:        output,
		dm:            dm,
		noDamageTrack: noDamageTrack,
	}
}

// DamageRect unions box into the frame damage and the host's damage
// manager, then requests a frame.
func (a *Accumulator) DamageRect(box Box) {
	a.frameDamage.Union(box)
	a.dm.AddBox(box)
	a.output.ScheduleFrame()
}

// DamageRegion unions region into the frame damage and the host's
// damage manager. A nil region means "the whole output".
func (a *Accumulator) DamageRegion(region *Region) {
	if region == nil {
		w, h := a.output.Size()
		whole := Box{X: 0, Y: 0, W: w, H: h}
		a.frameDamage.Union(whole)
		a.dm.AddBox(whole)
	} else {
		a.frameDamage.UnionRegion(region)
		a.dm.Add(region)
	}
	a.output.ScheduleFrame()
}

// MakeCurrent asks the display for the damage accumulated since the
// last swap, unions it into outDamage along with any internally tracked
// damage clipped to the output rect, and subtracts the output rect from
// the internal frame damage so it doesn't re-accumulate next frame.
//
// If the no_damage_track flag is active, the full output rect is
// unioned into outDamage and needsSwap is forced true, so every frame
// repaints in full regardless of what actually changed.
func (a *Accumulator) MakeCurrent(outDamage *Region) (ok, needsSwap bool) {
	needsSwap, ok = a.dm.MakeCurrent(outDamage)
	if !ok {
		return false, false
	}

	w, h := a.output.Size()
	outputBox := Box{X: 0, Y: 0, W: w, H: h}

	outDamage.UnionRegion(a.frameDamage.IntersectBox(outputBox))

	if a.noDamageTrack != nil && a.noDamageTrack() {
		outDamage.Union(outputBox)
		needsSwap = true
	}

	a.frameDamage.Subtract(outputBox)
	return true, needsSwap
}

// SwapBuffers hands the swap region to the display and clears the
// frame damage.
func (a *Accumulator) SwapBuffers(ts time.Time, swapDamage *Region) error {
	err := a.dm.SwapBuffers(ts, swapDamage)
	a.frameDamage.Clear()
	return err
}

// GetWSDamage returns (by union into out) the subset of frameSnapshot
// that falls within workspace ws, translated into that workspace's
// local coordinates. cx, cy is the current workspace.
//
// frameSnapshot is the per-paint damage captured by MakeCurrent for
// this frame — not the accumulator's own running region, which
// MakeCurrent has already had the output rect subtracted from by the
// time a workspace stream asks for its damage. A nil frameSnapshot
// yields no damage.
func (a *Accumulator) GetWSDamage(ws WSCoord, cx, cy int, frameSnapshot *Region, out *Region) {
	if frameSnapshot == nil {
		return
	}
	sw, sh := a.output.Size()
	wsRect := Box{
		X: (ws.VX - cx) * sw,
		Y: (ws.VY - cy) * sh,
		W: sw,
		H: sh,
	}
	clipped := frameSnapshot.IntersectBox(wsRect)
	clipped.Translate((cx-ws.VX)*sw, (cy-ws.VY)*sh)
	out.UnionRegion(clipped)
}

// FrameDamage returns the live frame-damage region. Callers must treat
// it as read-only except through Accumulator's own methods.
func (a *Accumulator) FrameDamage() *Region {
	return a.frameDamage
}

// OutputSize returns the bound output's current pixel size.
func (a *Accumulator) OutputSize() (int, int) {
	return a.output.Size()
}
