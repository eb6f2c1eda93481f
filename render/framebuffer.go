// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "fmt"

// Transform is one of the eight dihedral-group transforms an output can
// apply to its scanout buffer (rotation plus optional flip), mirroring
// the transform enum an output exposes.
type Transform int

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// Geometry is a rectangle in the output's relative coordinate space
// (the space workspace offsets are expressed in).
type Geometry struct {
	X, Y, W, H int
}

// FrameBufferDescriptor is what renderers receive as the paint target:
// everything needed to project into the right space and bind the right
// GPU objects.
type FrameBufferDescriptor struct {
	// Geometry is the output's relative geometry.
	Geometry Geometry

	// Transform is the output transform in effect.
	Transform Transform

	// Matrix is the 4x4, row-major projection matrix derived from Transform.
	Matrix [16]float32

	// ViewportW, ViewportH are the raw output pixel size (ignoring scale).
	ViewportW, ViewportH int

	// FB, Tex are the bound GPU object ids. Both zero means "the
	// display's own framebuffer", which is what an unallocated resource
	// reports (see FramebufferResource.IsAllocated).
	FB  FramebufferID
	Tex TextureID
}

// FramebufferResource owns one GPU color texture + framebuffer object
// pair and its current size.
//
// Invariant: FB == 0 && Tex == 0 iff the resource is unallocated. Allocate
// is idempotent for an identical size and reallocates on any change.
type FramebufferResource struct {
	fb     FramebufferID
	tex    TextureID
	w, h   int
	ctx    GPUContext
	label  string
}

// NewFramebufferResource creates an unallocated resource. ctx is the
// GPUContext used to actually create/destroy GPU objects; label is used
// for debug naming only.
func NewFramebufferResource(ctx GPUContext, label string) *FramebufferResource {
	return &FramebufferResource{ctx: ctx, label: label}
}

// IsAllocated reports whether this resource currently owns GPU objects.
func (r *FramebufferResource) IsAllocated() bool {
	return r.fb != 0 || r.tex != 0
}

// Size returns the framebuffer's current pixel dimensions.
func (r *FramebufferResource) Size() (int, int) {
	return r.w, r.h
}

// IDs returns the current (fb, tex) pair. Both are zero when unallocated
// or when this resource represents the display's own buffer (see
// [FramebufferResource.Reset]).
func (r *FramebufferResource) IDs() (FramebufferID, TextureID) {
	return r.fb, r.tex
}

// Allocate creates the texture+fbo if unallocated, or resizes them if
// w/h changed. Calling Allocate again with the same size is a no-op
// (allocate(w,h) is idempotent for an identical size).
func (r *FramebufferResource) Allocate(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("render: invalid framebuffer size %dx%d", w, h)
	}
	if r.IsAllocated() && r.w == w && r.h == h {
		return nil
	}
	if r.IsAllocated() {
		r.ctx.ReleaseTexture(r.fb, r.tex)
	}
	fb, tex, err := r.ctx.AllocateTexture(w, h, r.label)
	if err != nil {
		return fmt.Errorf("render: allocate %q %dx%d: %w", r.label, w, h, err)
	}
	r.fb, r.tex, r.w, r.h = fb, tex, w, h
	return nil
}

// Release deletes the texture+fbo and returns the resource to the
// unallocated state.
func (r *FramebufferResource) Release() {
	if r.IsAllocated() {
		r.ctx.ReleaseTexture(r.fb, r.tex)
	}
	r.fb, r.tex, r.w, r.h = 0, 0, 0, 0
}

// Reset drops the resource's ownership of its GPU objects without
// freeing them, for transferring ownership elsewhere.
func (r *FramebufferResource) Reset() {
	r.fb, r.tex, r.w, r.h = 0, 0, 0, 0
}

// Descriptor builds the FrameBufferDescriptor renderers consume, given
// the output's relative geometry, transform and raw pixel viewport.
func (r *FramebufferResource) Descriptor(geom Geometry, transform Transform, viewportW, viewportH int) FrameBufferDescriptor {
	return FrameBufferDescriptor{
		Geometry:   geom,
		Transform:  transform,
		Matrix:     TransformMatrix(transform),
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		FB:         r.fb,
		Tex:        r.tex,
	}
}

// TransformMatrix derives the 4x4 row-major projection matrix for one
// of the eight output transforms. Row-major so callers can index it as
// m[row*4+col].
func TransformMatrix(t Transform) [16]float32 {
	identity := [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	rot90 := [16]float32{
		0, -1, 0, 0,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	rot180 := [16]float32{
		-1, 0, 0, 0,
		0, -1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	rot270 := [16]float32{
		0, 1, 0, 0,
		-1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
	flip := [16]float32{
		-1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}

	switch t {
	case TransformNormal:
		return identity
	case Transform90:
		return rot90
	case Transform180:
		return rot180
	case Transform270:
		return rot270
	case TransformFlipped:
		return flip
	case TransformFlipped90:
		return mulMat4(rot90, flip)
	case TransformFlipped180:
		return mulMat4(rot180, flip)
	case TransformFlipped270:
		return mulMat4(rot270, flip)
	default:
		return identity
	}
}

// mulMat4 multiplies two row-major 4x4 matrices, a*b.
func mulMat4(a, b [16]float32) [16]float32 {
	var out [16]float32
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[row*4+k] * b[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}
