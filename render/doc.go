// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render provides the GPU resource layer a per-output render
// manager allocates and binds through: the [GPUContext] seam, the
// framebuffer resource (color texture + framebuffer object pair), and a
// CPU software context usable when no GPU is present.
//
// # Key Principle
//
// This package RECEIVES a GPU context from the host compositor, it does
// NOT create its own. The manager built on top (package wsrender) never
// talks to the GPU/GL context directly; it only ever goes through
// [GPUContext].
//
// # Core Types
//
//   - GPUContext: the bind/render-bracket/allocate seam implemented by
//     the host, or by [CPUContext] for headless operation.
//   - FramebufferResource: owns one (fb, tex) pair and its current size,
//     reallocating on resize via allocate/release/reset.
//   - CPUContext: a software GPUContext backed by *image.RGBA, used for
//     headless operation and by this module's own tests.
//
// # Thread Safety
//
// None of these types are safe for concurrent use. The render manager
// that owns them runs single-threaded on the display-server's event
// loop; no internal locking is used anywhere in this package.
package render
