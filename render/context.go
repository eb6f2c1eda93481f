// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

// TextureID is an opaque handle to a GPU texture, assigned by whatever
// GPUContext implementation backs the manager. The render manager never
// interprets the bits; it only ever compares a TextureID against the
// zero value to test "unallocated" / "this is the display's own buffer".
type TextureID uint64

// FramebufferID is an opaque handle to a GPU framebuffer object, with the
// same zero-value convention as TextureID.
type FramebufferID uint64

// GPUContext is the low-level GPU/GL context the render manager binds
// through to do actual drawing: bind/unbind the output, bracket a
// frame's work with render begin/end, clear a target, and allocate or
// release the textures backing a [FramebufferResource].
//
// All framebuffer allocation happens between RenderBegin/RenderEnd — the
// render manager promises its callers that buffer mutation happens
// inside a bound context.
type GPUContext interface {
	// BindOutput makes this output's GPU context current.
	BindOutput()

	// UnbindOutput releases the current GPU context.
	UnbindOutput()

	// RenderBegin must be called before any GPU resource allocation or
	// drawing for this output's frame.
	RenderBegin()

	// RenderEnd must be called after all drawing for this output's frame.
	RenderEnd()

	// Clear fills fb with color, optionally scissored to box (nil means
	// the whole framebuffer). fb == 0 targets the display's own buffer.
	Clear(fb FramebufferID, color [4]float32, scissor *Box)

	// AllocateTexture creates a color texture + framebuffer object pair
	// sized w x h, returning their opaque ids.
	AllocateTexture(w, h int, label string) (FramebufferID, TextureID, error)

	// ReleaseTexture destroys a previously-allocated (fb, tex) pair.
	ReleaseTexture(fb FramebufferID, tex TextureID)
}
