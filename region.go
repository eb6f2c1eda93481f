// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import "github.com/gogpu/wsrender/render"

// Box is an axis-aligned integer rectangle in output-pixel space.
// Alias for render.Box so callers never need to import the render
// subpackage just to build damage boxes.
type Box = render.Box

// Region is a pixman-style union of axis-aligned integer rectangles in
// output pixel space. The rectangle list is kept non-overlapping at all
// times by construction — every mutating method re-derives its pieces
// via rectangle subtraction rather than appending overlapping boxes and
// coalescing later.
type Region struct {
	rects []Box
}

// NewRegion returns an empty region.
func NewRegion() *Region {
	return &Region{}
}

// NewRegionFromBox returns a region containing exactly box (a no-op if
// box is empty).
func NewRegionFromBox(box Box) *Region {
	r := &Region{}
	r.Union(box)
	return r
}

// Empty reports whether the region covers zero area.
func (r *Region) Empty() bool {
	return len(r.rects) == 0
}

// Rects returns the region's rectangles. The returned slice must not be
// modified or retained past the next mutating call.
func (r *Region) Rects() []Box {
	return r.rects
}

// Clear empties the region.
func (r *Region) Clear() {
	r.rects = r.rects[:0]
}

// Clone returns an independent copy of r.
func (r *Region) Clone() *Region {
	out := &Region{rects: make([]Box, len(r.rects))}
	copy(out.rects, r.rects)
	return out
}

// Union adds box to the region.
func (r *Region) Union(box Box) {
	if box.Empty() {
		return
	}
	pieces := []Box{box}
	for _, existing := range r.rects {
		pieces = subtractBoxFromAll(pieces, existing)
		if len(pieces) == 0 {
			return
		}
	}
	r.rects = append(r.rects, pieces...)
}

// UnionRegion adds every rectangle of other to r.
func (r *Region) UnionRegion(other *Region) {
	if other == nil {
		return
	}
	for _, b := range other.rects {
		r.Union(b)
	}
}

// Subtract removes box from the region. [Accumulator.MakeCurrent] uses
// it so damage already handed to the display doesn't re-accumulate.
func (r *Region) Subtract(box Box) {
	if box.Empty() || len(r.rects) == 0 {
		return
	}
	var out []Box
	for _, existing := range r.rects {
		out = append(out, subtractBoxFromBox(existing, box)...)
	}
	r.rects = out
}

// SubtractRegion removes every rectangle of other from r.
func (r *Region) SubtractRegion(other *Region) {
	if other == nil {
		return
	}
	for _, b := range other.rects {
		r.Subtract(b)
	}
}

// IntersectBox returns a new region equal to r ∩ box.
func (r *Region) IntersectBox(box Box) *Region {
	out := &Region{}
	if box.Empty() {
		return out
	}
	for _, existing := range r.rects {
		if inter, ok := existing.Intersect(box); ok {
			out.rects = append(out.rects, inter)
		}
	}
	return out
}

// IntersectRegion returns a new region equal to r ∩ other. Because both
// operands are non-overlapping partitions, the pairwise intersections
// are automatically non-overlapping too — no extra normalization needed.
func (r *Region) IntersectRegion(other *Region) *Region {
	out := &Region{}
	if other == nil {
		return out
	}
	for _, a := range r.rects {
		for _, b := range other.rects {
			if inter, ok := a.Intersect(b); ok {
				out.rects = append(out.rects, inter)
			}
		}
	}
	return out
}

// Translate shifts every rectangle in the region by (dx, dy), in place.
func (r *Region) Translate(dx, dy int) {
	for i := range r.rects {
		r.rects[i] = r.rects[i].Translate(dx, dy)
	}
}

// Contains reports whether box lies entirely within the region.
func (r *Region) Contains(box Box) bool {
	remaining := []Box{box}
	for _, existing := range r.rects {
		remaining = subtractBoxFromAll(remaining, existing)
		if len(remaining) == 0 {
			return true
		}
	}
	return false
}

// SelfCheck verifies the non-overlap invariant this type is supposed to
// maintain internally; it exists for tests and assertions, not for use
// on any hot path.
func (r *Region) SelfCheck() error {
	for i := 0; i < len(r.rects); i++ {
		for j := i + 1; j < len(r.rects); j++ {
			if _, ok := r.rects[i].Intersect(r.rects[j]); ok {
				return errOverlappingRects(i, j)
			}
		}
		if r.rects[i].Empty() {
			return errEmptyRect(i)
		}
	}
	return nil
}

// subtractBoxFromBox splits a into the pieces not covered by sub,
// returning up to 4 non-overlapping rectangles (the classic
// rectangle-minus-rectangle decomposition: top strip, bottom strip,
// left strip, right strip around the intersection).
func subtractBoxFromBox(a, sub Box) []Box {
	inter, ok := a.Intersect(sub)
	if !ok {
		return []Box{a}
	}
	var out []Box
	if inter.Y > a.Y {
		out = append(out, Box{X: a.X, Y: a.Y, W: a.W, H: inter.Y - a.Y})
	}
	if bottom := a.Y + a.H; inter.Y+inter.H < bottom {
		out = append(out, Box{X: a.X, Y: inter.Y + inter.H, W: a.W, H: bottom - (inter.Y + inter.H)})
	}
	if inter.X > a.X {
		out = append(out, Box{X: a.X, Y: inter.Y, W: inter.X - a.X, H: inter.H})
	}
	if right := a.X + a.W; inter.X+inter.W < right {
		out = append(out, Box{X: inter.X + inter.W, Y: inter.Y, W: right - (inter.X + inter.W), H: inter.H})
	}
	return out
}

// subtractBoxFromAll subtracts sub from every box in boxes, concatenating
// the resulting pieces.
func subtractBoxFromAll(boxes []Box, sub Box) []Box {
	var out []Box
	for _, b := range boxes {
		out = append(out, subtractBoxFromBox(b, sub)...)
	}
	return out
}
