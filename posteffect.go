// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import (
	"fmt"

	"github.com/gogpu/wsrender/render"
)

// PostEffectHook is one full-screen GPU pass in the post-effect chain.
// It reads src and draws into dst.
type PostEffectHook func(src, dst render.FrameBufferDescriptor)

type postEffectEntry struct {
	hook     PostEffectHook
	resource *render.FramebufferResource
	toRemove bool
}

// PostEffectHandle identifies one post-effect entry for later removal
// with [PostEffectChain.RemPost]. It is opaque and comparable only to
// itself.
type PostEffectHandle struct {
	entry *postEffectEntry
}

// PostEffectChain is the ordered pipeline of user-supplied GPU passes
// that runs between the scene render and the buffer swap (component D).
// Its core invariant — the last entry's buffer is always the zero-id
// display slot — is maintained by keeping every non-terminal entry's
// [render.FramebufferResource] allocated and the terminal one
// unallocated, rather than by a separate tagged enum: an unallocated
// FramebufferResource already carries the (0,0) sentinel.
type PostEffectChain struct {
	ctx     render.GPUContext
	entries []*postEffectEntry
	seq     int
}

// NewPostEffectChain returns an empty chain bound to ctx.
func NewPostEffectChain(ctx render.GPUContext) *PostEffectChain {
	return &PostEffectChain{ctx: ctx}
}

// Len reports the number of active entries (entries pending removal are
// still counted until the next CleanupPostHooks).
func (c *PostEffectChain) Len() int {
	return len(c.entries)
}

// HasActive reports whether any post-effect pass is installed.
func (c *PostEffectChain) HasActive() bool {
	return len(c.entries) > 0
}

// AddPost appends hook to the chain. The previously-last entry (if any)
// is promoted from the display sentinel to a real buffer sized to
// outW x outH, restoring the terminal invariant on the new last entry.
func (c *PostEffectChain) AddPost(hook PostEffectHook, outW, outH int) (PostEffectHandle, error) {
	if len(c.entries) > 0 {
		prev := c.entries[len(c.entries)-1]
		prev.resource.Reset()
		if err := prev.resource.Allocate(outW, outH); err != nil {
			return PostEffectHandle{}, fmt.Errorf("wsrender: post-effect chain: promoting predecessor buffer: %w", err)
		}
	}
	c.seq++
	entry := &postEffectEntry{
		hook:     hook,
		resource: render.NewFramebufferResource(c.ctx, fmt.Sprintf("post-effect-%d", c.seq)),
	}
	c.entries = append(c.entries, entry)
	return PostEffectHandle{entry: entry}, nil
}

// RemPost marks the entry identified by h for removal. The actual
// removal is deferred to the next CleanupPostHooks call so the chain
// stays stable mid-frame. Removing an unknown or already-removed handle
// is a no-op.
func (c *PostEffectChain) RemPost(h PostEffectHandle) {
	if h.entry == nil {
		return
	}
	h.entry.toRemove = true
}

// CleanupPostHooks drops every entry marked for removal. If any entry
// was actually removed and the chain is non-empty afterward, the new
// last entry's buffer is released and reverts to the display sentinel,
// restoring the terminal invariant.
func (c *PostEffectChain) CleanupPostHooks() {
	removed := false
	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.toRemove {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	c.entries = kept

	if removed && len(c.entries) > 0 {
		c.entries[len(c.entries)-1].resource.Release()
	}
}

// TerminalIsDisplay reports whether the chain's current last entry (if
// any) is the zero-id display sentinel, as required by the terminal
// invariant. An empty chain trivially satisfies it.
func (c *PostEffectChain) TerminalIsDisplay() bool {
	if len(c.entries) == 0 {
		return true
	}
	last := c.entries[len(c.entries)-1]
	fb, tex := last.resource.IDs()
	return fb == 0 && tex == 0
}

// Execute runs the chain: the first pass reads source, each subsequent
// pass reads the previous pass's buffer, and the last pass writes to
// display. Non-terminal buffers are (re)allocated to outW x outH before
// use, matching whatever the output's current pixel size is.
func (c *PostEffectChain) Execute(source, display render.FrameBufferDescriptor, outW, outH int) error {
	cur := source
	for i, e := range c.entries {
		var dst render.FrameBufferDescriptor
		if i == len(c.entries)-1 {
			dst = display
		} else {
			if err := e.resource.Allocate(outW, outH); err != nil {
				return fmt.Errorf("wsrender: post-effect chain: allocating pass %d buffer: %w", i, err)
			}
			dst = e.resource.Descriptor(render.Geometry{W: outW, H: outH}, render.TransformNormal, outW, outH)
		}
		e.hook(cur, dst)
		cur = dst
	}
	return nil
}
