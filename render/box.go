// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// Box is an axis-aligned integer rectangle in output-pixel space: the
// unit damage is expressed and accumulated in.
type Box struct {
	X, Y, W, H int
}

// Empty reports whether the box covers zero area.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Contains reports whether other lies entirely within b.
func (b Box) Contains(other Box) bool {
	if other.Empty() {
		return true
	}
	if b.Empty() {
		return false
	}
	return other.X >= b.X && other.Y >= b.Y &&
		other.X+other.W <= b.X+b.W && other.Y+other.H <= b.Y+b.H
}

// Intersect returns the overlap of b and other, and whether it is non-empty.
func (b Box) Intersect(other Box) (Box, bool) {
	x1 := max(b.X, other.X)
	y1 := max(b.Y, other.Y)
	x2 := min(b.X+b.W, other.X+other.W)
	y2 := min(b.Y+b.H, other.Y+other.H)
	if x2 <= x1 || y2 <= y1 {
		return Box{}, false
	}
	return Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, true
}

// Translate returns b shifted by (dx, dy).
func (b Box) Translate(dx, dy int) Box {
	return Box{X: b.X + dx, Y: b.Y + dy, W: b.W, H: b.H}
}
