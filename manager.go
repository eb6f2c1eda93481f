// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import (
	"fmt"
	"time"

	"github.com/gogpu/wsrender/render"
)

// Manager is the per-output render manager (component G): it owns the
// damage accumulator, the workspace-stream grid, the post-effect chain,
// the effect hook registry and the frame scheduler, and orchestrates all
// of them on every Paint call.
//
// One Manager exists per display; it is not safe for concurrent use,
// matching the rest of this package.
type Manager struct {
	output  Output
	gpu     render.GPUContext
	wsMgr   WorkspaceManager
	cfg     RenderConfig
	outGeom render.Geometry

	acc           *Accumulator
	defaultBuffer *render.FramebufferResource
	streams       *StreamGrid
	currentStream *Stream
	chain         *PostEffectChain
	hooks         *EffectHookRegistry
	sched         *Scheduler

	// RenderCursors, if set, draws software cursors into target,
	// redrawing only swapDamage. There is no cursor-layer collaborator
	// in the external contract, so hosts that need cursor compositing
	// wire it in here instead.
	RenderCursors func(target *render.FramebufferResource, swapDamage *Region)

	// OnWorkspaceStreamPre and OnWorkspaceStreamPost mirror the
	// "workspace-stream-pre"/"workspace-stream-post" signals.
	OnWorkspaceStreamPre  func(ws WSCoord, damage *Region, fb *render.FramebufferResource)
	OnWorkspaceStreamPost func(ws WSCoord, fb *render.FramebufferResource)

	// OnStartRendering mirrors the "start-rendering" signal, fired when
	// output_inhibit returns to zero.
	OnStartRendering func()
}

// NewManager builds a render manager for one output. The workspace grid
// is sized from cfg.GridWidth x cfg.GridHeight and allocated once; both
// must be positive.
func NewManager(output Output, dm DamageManager, loop EventLoop, gpu render.GPUContext, wsMgr WorkspaceManager, cfg RenderConfig) (*Manager, error) {
	if cfg.GridWidth <= 0 || cfg.GridHeight <= 0 {
		return nil, fmt.Errorf("wsrender: grid dimensions must be positive, got %dx%d", cfg.GridWidth, cfg.GridHeight)
	}

	w, h := output.Size()

	m := &Manager{
		output:        output,
		gpu:           gpu,
		wsMgr:         wsMgr,
		cfg:           cfg,
		outGeom:       render.Geometry{X: 0, Y: 0, W: w, H: h},
		defaultBuffer: render.NewFramebufferResource(gpu, "default"),
		streams:       NewStreamGrid(cfg.GridWidth, cfg.GridHeight, gpu),
		chain:         NewPostEffectChain(gpu),
		hooks:         NewEffectHookRegistry(),
	}
	m.acc = NewAccumulator(output, dm, func() bool { return m.cfg.NoDamageTrack })
	m.sched = NewScheduler(loop, output, cfg.ConstantRedrawDefault, m.handleStartRendering, m.handleDamageRefresh)

	sw, sh := m.streams.Size()
	for vy := 0; vy < sh; vy++ {
		for vx := 0; vx < sw; vx++ {
			s := m.streams.At(WSCoord{VX: vx, VY: vy})
			s.OnStreamPre = func(ws WSCoord, damage *Region, fb *render.FramebufferResource) {
				if m.OnWorkspaceStreamPre != nil {
					m.OnWorkspaceStreamPre(ws, damage, fb)
				}
			}
			s.OnStreamPost = func(ws WSCoord, fb *render.FramebufferResource) {
				if m.OnWorkspaceStreamPost != nil {
					m.OnWorkspaceStreamPost(ws, fb)
				}
			}
		}
	}

	cx, cy := wsMgr.CurrentWorkspace()
	m.currentStream = m.streams.At(WSCoord{VX: cx, VY: cy})

	gpu.BindOutput()
	gpu.RenderBegin()
	startErr := m.currentStream.Start(m.acc, cx, cy, m.outGeom, wsMgr, gpu, nil)
	gpu.RenderEnd()
	gpu.UnbindOutput()
	if startErr != nil {
		return nil, fmt.Errorf("wsrender: starting initial workspace stream: %w", startErr)
	}

	return m, nil
}

// SetOutputGeometry updates the output's relative geometry used to
// compute workspace offsets. Hosts that track a global output layout
// should call this whenever the output moves within it.
func (m *Manager) SetOutputGeometry(g render.Geometry) {
	m.outGeom = g
}

// SetConfig replaces the live configuration, e.g. from a [WatchConfig]
// callback.
func (m *Manager) SetConfig(cfg RenderConfig) {
	m.cfg = cfg
}

func (m *Manager) handleStartRendering() {
	w, h := m.acc.OutputSize()
	m.acc.DamageRect(Box{X: 0, Y: 0, W: w, H: h})
	if m.OnStartRendering != nil {
		m.OnStartRendering()
	}
}

func (m *Manager) handleDamageRefresh() {
	w, h := m.acc.OutputSize()
	m.acc.DamageRect(Box{X: 0, Y: 0, W: w, H: h})
}

// Damage unions box into the frame damage.
func (m *Manager) Damage(box Box) {
	m.acc.DamageRect(box)
}

// DamageRegion unions region into the frame damage. A nil region means
// the whole output.
func (m *Manager) DamageRegion(region *Region) {
	m.acc.DamageRegion(region)
}

// AddEffect registers hook at phase.
func (m *Manager) AddEffect(hook EffectHook, phase EffectPhase) EffectHandle {
	return m.hooks.AddEffect(hook, phase)
}

// RemEffect removes a previously registered effect hook.
func (m *Manager) RemEffect(h EffectHandle) {
	m.hooks.RemEffect(h)
}

// AddPost appends a post-effect pass to the chain.
func (m *Manager) AddPost(hook PostEffectHook) (PostEffectHandle, error) {
	w, h := m.acc.OutputSize()
	m.gpu.BindOutput()
	m.gpu.RenderBegin()
	handle, err := m.chain.AddPost(hook, w, h)
	m.gpu.RenderEnd()
	m.gpu.UnbindOutput()
	return handle, err
}

// RemPost marks a post-effect pass for removal at the next frame
// boundary.
func (m *Manager) RemPost(h PostEffectHandle) {
	m.chain.RemPost(h)
}

// SetRenderer installs a custom full-frame renderer.
func (m *Manager) SetRenderer(hook CustomRenderer) {
	m.sched.SetRenderer(hook)
}

// ResetRenderer clears the custom renderer and forces a full repaint.
func (m *Manager) ResetRenderer() {
	m.sched.ResetRenderer()
}

// AutoRedraw adjusts the constant_redraw reference count.
func (m *Manager) AutoRedraw(enable bool) {
	m.sched.AutoRedraw(enable)
}

// AddInhibit adjusts the output_inhibit reference count.
func (m *Manager) AddInhibit(enable bool) {
	m.sched.AddInhibit(enable)
}

// GetTargetFramebuffer returns the descriptor of whatever framebuffer
// currently holds (or will hold) the scene: the current workspace
// stream's buffer, or the default buffer when a custom renderer is
// installed.
func (m *Manager) GetTargetFramebuffer() render.FrameBufferDescriptor {
	w, h := m.acc.OutputSize()
	if m.sched.Renderer() != nil {
		return m.defaultBuffer.Descriptor(m.outGeom, m.output.Transform(), w, h)
	}
	if m.currentStream != nil {
		return m.currentStream.Buffer().Descriptor(m.outGeom, m.output.Transform(), w, h)
	}
	return m.defaultBuffer.Descriptor(m.outGeom, m.output.Transform(), w, h)
}

// Paint runs one full frame: the 16-step orchestration triggered by the
// output's frame event.
func (m *Manager) Paint() error {
	tStart := time.Now()

	m.chain.CleanupPostHooks()

	frameDamage := NewRegion()

	m.hooks.Run(PhasePre)

	ok, needsSwap := m.acc.MakeCurrent(frameDamage)
	if !ok {
		return nil
	}

	if !needsSwap && m.sched.ConstantRedraw() == 0 {
		m.hooks.Run(PhasePost)
		return nil
	}

	m.gpu.BindOutput()
	m.gpu.RenderBegin()

	outW, outH := m.acc.OutputSize()
	if err := m.defaultBuffer.Allocate(outW, outH); err != nil {
		m.gpu.RenderEnd()
		m.gpu.UnbindOutput()
		return fmt.Errorf("wsrender: allocating default buffer: %w", err)
	}

	swapDamage := NewRegion()
	fullOutput := Box{X: 0, Y: 0, W: outW, H: outH}

	if m.cfg.DamageDebug {
		swapDamage.Union(fullOutput)
		defaultFB, _ := m.defaultBuffer.IDs()
		m.gpu.Clear(defaultFB, m.cfg.DamageDebugColor, nil)
	}

	var sceneBuffer *render.FramebufferResource
	if renderer := m.sched.Renderer(); renderer != nil {
		renderer(m.defaultBuffer)
		swapDamage.Union(fullOutput)
		sceneBuffer = m.defaultBuffer
	} else {
		intersected := frameDamage.IntersectBox(fullOutput)
		if !intersected.Empty() {
			swapDamage.UnionRegion(intersected)
		}

		cx, cy := m.wsMgr.CurrentWorkspace()
		target := m.streams.At(WSCoord{VX: cx, VY: cy})
		if target != m.currentStream {
			if m.currentStream != nil {
				m.currentStream.Stop()
			}
			if err := target.Start(m.acc, cx, cy, m.outGeom, m.wsMgr, m.gpu, frameDamage); err != nil {
				Logger().Error("wsrender: starting workspace stream failed", "error", err)
			}
			m.currentStream = target
		} else if err := target.Update(1, 1, m.acc, cx, cy, m.outGeom, m.wsMgr, m.gpu, frameDamage); err != nil {
			Logger().Error("wsrender: updating workspace stream failed", "error", err)
		}
		sceneBuffer = target.Buffer()
	}

	m.hooks.Run(PhaseOverlay)

	if m.chain.HasActive() {
		swapDamage.Union(fullOutput)
	}

	if m.RenderCursors != nil {
		m.RenderCursors(sceneBuffer, swapDamage)
	}

	if m.chain.HasActive() {
		source := sceneBuffer.Descriptor(m.outGeom, m.output.Transform(), outW, outH)
		display := render.FrameBufferDescriptor{
			Geometry:  m.outGeom,
			Transform: m.output.Transform(),
			Matrix:    render.TransformMatrix(m.output.Transform()),
			ViewportW: outW,
			ViewportH: outH,
		}
		if err := m.chain.Execute(source, display, outW, outH); err != nil {
			Logger().Error("wsrender: post-effect chain execution failed", "error", err)
		}
	}

	if m.sched.Inhibited() {
		m.gpu.Clear(0, [4]float32{0, 0, 0, 1}, nil)
	}

	m.gpu.RenderEnd()
	m.gpu.UnbindOutput()

	if err := m.acc.SwapBuffers(tStart, swapDamage); err != nil {
		Logger().Error("wsrender: swap buffers failed", "error", err)
	}

	m.postPaint(tStart)
	return nil
}

// postPaint runs the per-frame cleanup, the post effect phase, any
// constant-redraw rescheduling, and frame_done notifications.
func (m *Manager) postPaint(now time.Time) {
	m.chain.CleanupPostHooks()
	m.hooks.Run(PhasePost)

	m.sched.MaybeRescheduleAfterPostPaint()

	if renderer := m.sched.Renderer(); renderer != nil {
		m.wsMgr.ForEachView(func(v View) {
			if v.IsMapped() {
				notifyFrameDone(v, now)
			}
		}, LayerAll)
		return
	}

	cx, cy := m.wsMgr.CurrentWorkspace()
	for _, v := range m.wsMgr.ViewsOnWorkspace(WSCoord{VX: cx, VY: cy}, LayerMiddle, false) {
		if v.IsMapped() {
			notifyFrameDone(v, now)
		}
	}
	m.wsMgr.ForEachView(func(v View) {
		if v.IsMapped() {
			notifyFrameDone(v, now)
		}
	}, LayerOutside)
}

func notifyFrameDone(v View, now time.Time) {
	v.ForEachSurface(func(sf Surface) {
		sf.SendFrameDone(now)
	})
}
