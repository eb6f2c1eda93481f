// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

// EffectPhase names one of the three points in a frame at which effect
// hooks run.
type EffectPhase int

const (
	// PhasePre runs before any scene rendering.
	PhasePre EffectPhase = iota
	// PhaseOverlay runs after the scene, before software cursors.
	PhaseOverlay
	// PhasePost runs after the buffer swap.
	PhasePost

	numEffectPhases = int(PhasePost) + 1
)

// EffectHook is a no-argument callback run at one frame phase.
type EffectHook func()

type effectEntry struct {
	hook  EffectHook
	phase EffectPhase
}

// EffectHandle identifies one registered hook for later removal with
// [EffectHookRegistry.RemEffect].
type EffectHandle struct {
	entry *effectEntry
}

// EffectHookRegistry holds the three ordered phase lists (component E).
// Hooks within a phase run in insertion order. Each Run takes a snapshot
// of the phase's list before iterating, so a hook that adds or removes
// effects during its own phase never disturbs the traversal already in
// progress.
type EffectHookRegistry struct {
	phases [numEffectPhases][]*effectEntry
}

// NewEffectHookRegistry returns an empty registry.
func NewEffectHookRegistry() *EffectHookRegistry {
	return &EffectHookRegistry{}
}

// AddEffect appends hook to phase's list. Registering the same callback
// twice is accepted; both invocations happen in insertion order.
func (r *EffectHookRegistry) AddEffect(hook EffectHook, phase EffectPhase) EffectHandle {
	e := &effectEntry{hook: hook, phase: phase}
	r.phases[phase] = append(r.phases[phase], e)
	return EffectHandle{entry: e}
}

// RemEffect removes the hook identified by h. Removing an unknown or
// already-removed handle is a no-op.
func (r *EffectHookRegistry) RemEffect(h EffectHandle) {
	if h.entry == nil {
		return
	}
	list := r.phases[h.entry.phase]
	for i, e := range list {
		if e == h.entry {
			r.phases[h.entry.phase] = append(list[:i:i], list[i+1:]...)
			h.entry = nil
			return
		}
	}
}

// Run invokes every hook currently registered for phase, in insertion
// order, against a snapshot taken before the first call.
func (r *EffectHookRegistry) Run(phase EffectPhase) {
	list := r.phases[phase]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*effectEntry, len(list))
	copy(snapshot, list)
	for _, e := range snapshot {
		e.hook()
	}
}

// Len reports the number of hooks currently registered for phase.
func (r *EffectHookRegistry) Len(phase EffectPhase) int {
	return len(r.phases[phase])
}
