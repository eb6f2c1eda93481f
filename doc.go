// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wsrender implements the per-output render manager of a
// compositing window system: the subsystem that, for a single display
// device, turns damage reports and a scene of surfaces into timed GPU
// frames.
//
// # Scope
//
// In scope: damage region algebra ([Region], [Accumulator]), workspace
// stream rendering ([Stream]), the post-effect framebuffer chain
// ([PostEffectChain]), frame scheduling ([Scheduler]), occlusion-aware
// front-to-back surface culling (inside [Stream.Update]), and the
// lifecycle of the GPU framebuffers involved (render.FramebufferResource).
//
// Out of scope, referenced only through the interfaces in contracts.go:
// the display-server event loop, the GPU/GL context, the scene graph
// (views, surfaces, layers, subsurfaces, transformers), input and
// drag-icon management, plugin loading, and configuration file format
// beyond the few settings this package reads (see config.go).
//
// # Usage
//
//	mgr, err := wsrender.NewManager(output, damageMgr, loop, gpu, wsManager, cfg)
//	if err != nil {
//		return err
//	}
//	output.OnFrame(mgr.Paint)
//
// One [Manager] per display; multi-display composition is handled by
// running one of these per output, not by anything inside this package.
//
// # Thread Safety
//
// Render-manager operations all run on the single display-server event
// loop thread; none of the types in this package use internal locking.
// SetLogger and WatchConfig are the only exceptions, since they may be
// driven from other goroutines.
package wsrender
