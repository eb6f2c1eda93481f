// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import "testing"

func TestEffectHookRegistryInsertionOrder(t *testing.T) {
	r := NewEffectHookRegistry()
	var order []int
	r.AddEffect(func() { order = append(order, 1) }, PhasePre)
	r.AddEffect(func() { order = append(order, 2) }, PhasePre)
	r.AddEffect(func() { order = append(order, 3) }, PhasePre)

	r.Run(PhasePre)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("order = %v, want [1 2 3]", order)
	}
}

func TestEffectHookRegistryPhaseIsolation(t *testing.T) {
	r := NewEffectHookRegistry()
	ran := map[EffectPhase]int{}
	r.AddEffect(func() { ran[PhasePre]++ }, PhasePre)
	r.AddEffect(func() { ran[PhaseOverlay]++ }, PhaseOverlay)
	r.AddEffect(func() { ran[PhasePost]++ }, PhasePost)

	r.Run(PhasePre)
	if ran[PhasePre] != 1 || ran[PhaseOverlay] != 0 || ran[PhasePost] != 0 {
		t.Fatalf("running PhasePre ran other phases too: %v", ran)
	}
}

func TestEffectHookRegistryRemEffect(t *testing.T) {
	r := NewEffectHookRegistry()
	calls := 0
	h := r.AddEffect(func() { calls++ }, PhasePost)
	r.RemEffect(h)
	r.Run(PhasePost)
	if calls != 0 {
		t.Fatalf("removed hook still ran, calls = %d", calls)
	}
	if r.Len(PhasePost) != 0 {
		t.Fatalf("Len(PhasePost) = %d, want 0", r.Len(PhasePost))
	}
}

func TestEffectHookRegistrySnapshotDuringIteration(t *testing.T) {
	r := NewEffectHookRegistry()
	var secondRan bool
	var firstRunCount int

	var h2 EffectHandle
	h2Runs := 0
	h1 := r.AddEffect(func() {
		firstRunCount++
		// Mutates the phase list mid-iteration: adds a new hook and
		// removes the second one. Neither should affect this Run.
		r.AddEffect(func() { secondRan = true }, PhasePre)
		r.RemEffect(h2)
	}, PhasePre)
	_ = h1
	h2 = r.AddEffect(func() { h2Runs++ }, PhasePre)

	r.Run(PhasePre)

	if firstRunCount != 1 {
		t.Fatalf("first hook ran %d times, want 1", firstRunCount)
	}
	if h2Runs != 1 {
		t.Fatalf("h2 ran %d times, want 1: removing it mid-Run must not change that Run's snapshot", h2Runs)
	}
	if secondRan {
		t.Fatal("hook added during iteration should not run in the same Run call")
	}
	if r.Len(PhasePre) != 2 {
		t.Fatalf("after Run, registry should reflect the mutations: Len = %d, want 2", r.Len(PhasePre))
	}
}

func TestEffectHookRegistryRemUnknownIsNoop(t *testing.T) {
	r := NewEffectHookRegistry()
	r.RemEffect(EffectHandle{})
	r.AddEffect(func() {}, PhasePre)
	r.RemEffect(EffectHandle{})
	if r.Len(PhasePre) != 1 {
		t.Fatalf("Len(PhasePre) = %d, want 1", r.Len(PhasePre))
	}
}
