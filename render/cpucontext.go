// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// CPUContext is a software [GPUContext] backed by *image.RGBA, used for
// headless operation and by this module's own tests. It never touches a
// real GPU.
type CPUContext struct {
	textures map[TextureID]*image.RGBA
	next     uint64
	bound    bool
}

// NewCPUContext creates an empty software context.
func NewCPUContext() *CPUContext {
	return &CPUContext{textures: make(map[TextureID]*image.RGBA)}
}

// BindOutput marks the context as current. CPUContext has nothing to
// actually bind to, so this only records the binding state.
func (c *CPUContext) BindOutput() { c.bound = true }

// UnbindOutput releases the current binding.
func (c *CPUContext) UnbindOutput() { c.bound = false }

// RenderBegin is a no-op for the software context: there is no command
// buffer to open.
func (c *CPUContext) RenderBegin() {}

// RenderEnd is a no-op for the software context.
func (c *CPUContext) RenderEnd() {}

// AllocateTexture creates a new *image.RGBA of size w x h and returns a
// fresh (fb, tex) pair; fb and tex always share the same numeric id.
func (c *CPUContext) AllocateTexture(w, h int, label string) (FramebufferID, TextureID, error) {
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("render: cpucontext: invalid size %dx%d for %q", w, h, label)
	}
	c.next++
	id := TextureID(c.next)
	c.textures[id] = image.NewRGBA(image.Rect(0, 0, w, h))
	return FramebufferID(id), id, nil
}

// ReleaseTexture frees the backing image for tex.
func (c *CPUContext) ReleaseTexture(fb FramebufferID, tex TextureID) {
	delete(c.textures, tex)
}

// Image returns the backing *image.RGBA for tex, or nil if tex is
// unknown or is the zero (display) id — callers that need to inspect
// the display's own buffer should keep their own handle to it.
func (c *CPUContext) Image(tex TextureID) *image.RGBA {
	return c.textures[tex]
}

// Clear fills fb with color, scissored to box if non-nil.
func (c *CPUContext) Clear(fb FramebufferID, col [4]float32, scissor *Box) {
	img := c.textures[TextureID(fb)]
	if img == nil {
		return
	}
	fillColor := color.RGBA{
		R: uint8(clamp01(col[0]) * 255),
		G: uint8(clamp01(col[1]) * 255),
		B: uint8(clamp01(col[2]) * 255),
		A: uint8(clamp01(col[3]) * 255),
	}
	rect := img.Bounds()
	if scissor != nil {
		rect = image.Rect(scissor.X, scissor.Y, scissor.X+scissor.W, scissor.Y+scissor.H).Intersect(rect)
	}
	draw.Draw(img, rect, &image.Uniform{C: fillColor}, image.Point{}, draw.Src)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ensure CPUContext implements GPUContext.
var _ GPUContext = (*CPUContext)(nil)
