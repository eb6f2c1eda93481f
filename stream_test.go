// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wsrender

import (
	"testing"
	"time"

	"github.com/gogpu/wsrender/render"
)

type fakeSurface struct {
	geom   Box
	alpha  float64
	mapped bool
	drawn  []Box
	opaque Box // opaque sub-rectangle, in surface-local coords; zero value means none
}

func (f *fakeSurface) IsMapped() bool      { return f.mapped }
func (f *fakeSurface) OutputGeometry() Box { return f.geom }
func (f *fakeSurface) Alpha() float64      { return f.alpha }
func (f *fakeSurface) SendFrameDone(time.Time) {}

func (f *fakeSurface) SubtractOpaque(r *Region, x, y int) {
	r.Subtract(f.opaque.Translate(f.geom.X+x, f.geom.Y+y))
}

func (f *fakeSurface) RenderFB(damage *Region, fb *render.FramebufferResource) {
	f.drawn = append(f.drawn, damage.Rects()...)
}

type fakeView struct {
	name        string
	mapped      bool
	transformer bool
	role        string
	bbox        Box
	surfaces    []*fakeSurface
	snapDrawn   bool
}

func (f *fakeView) IsMapped() bool        { return f.mapped }
func (f *fakeView) IsVisible() bool       { return true }
func (f *fakeView) HasTransformer() bool  { return f.transformer }
func (f *fakeView) Role() string {
	if f.role == "" {
		return RoleToplevel
	}
	return f.role
}
func (f *fakeView) BoundingBox() Box { return f.bbox }
func (f *fakeView) ForEachSurface(fn func(Surface)) {
	for _, sf := range f.surfaces {
		fn(sf)
	}
}
func (f *fakeView) RenderSnapshot(damage *Region, fb *render.FramebufferResource) {
	f.snapDrawn = true
}

func TestBuildStreamRecordsOcclusionCorrectness(t *testing.T) {
	// A (front, opaque, covers everything), B (middle, opaque), C (back).
	a := &fakeSurface{geom: Box{X: 0, Y: 0, W: 100, H: 100}, alpha: 1, mapped: true, opaque: Box{X: 0, Y: 0, W: 100, H: 100}}
	b := &fakeSurface{geom: Box{X: 10, Y: 10, W: 50, H: 50}, alpha: 1, mapped: true, opaque: Box{X: 0, Y: 0, W: 50, H: 50}}
	c := &fakeSurface{geom: Box{X: 20, Y: 20, W: 10, H: 10}, alpha: 1, mapped: true, opaque: Box{X: 0, Y: 0, W: 10, H: 10}}

	viewA := &fakeView{name: "A", mapped: true, surfaces: []*fakeSurface{a}}
	viewB := &fakeView{name: "B", mapped: true, surfaces: []*fakeSurface{b}}
	viewC := &fakeView{name: "C", mapped: true, surfaces: []*fakeSurface{c}}

	damage := NewRegionFromBox(Box{X: 0, Y: 0, W: 100, H: 100})
	records := buildStreamRecords([]View{viewA, viewB, viewC}, 0, 0, damage)

	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1 (only A should survive occlusion)", len(records))
	}
	if records[0].surface != Surface(a) {
		t.Fatalf("surviving record should be A's surface")
	}
}

func TestBuildStreamRecordsReverseDrawOrder(t *testing.T) {
	a := &fakeSurface{geom: Box{X: 0, Y: 0, W: 10, H: 10}, alpha: 0, mapped: true}
	b := &fakeSurface{geom: Box{X: 20, Y: 0, W: 10, H: 10}, alpha: 0, mapped: true}
	c := &fakeSurface{geom: Box{X: 40, Y: 0, W: 10, H: 10}, alpha: 0, mapped: true}

	viewA := &fakeView{name: "A", mapped: true, surfaces: []*fakeSurface{a}}
	viewB := &fakeView{name: "B", mapped: true, surfaces: []*fakeSurface{b}}
	viewC := &fakeView{name: "C", mapped: true, surfaces: []*fakeSurface{c}}

	damage := NewRegionFromBox(Box{X: 0, Y: 0, W: 100, H: 100})
	records := buildStreamRecords([]View{viewA, viewB, viewC}, 0, 0, damage)
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3 (none are opaque, nothing culled)", len(records))
	}

	var drawOrder []Surface
	for i := len(records) - 1; i >= 0; i-- {
		drawOrder = append(drawOrder, records[i].surface)
	}
	want := []Surface{c, b, a}
	for i := range want {
		if drawOrder[i] != want[i] {
			t.Fatalf("draw order[%d] = %v, want %v (expected C,B,A)", i, drawOrder[i], want[i])
		}
	}
}

func TestBuildStreamRecordsDiscardsEmptyDamage(t *testing.T) {
	outside := &fakeSurface{geom: Box{X: 500, Y: 500, W: 10, H: 10}, alpha: 0, mapped: true}
	view := &fakeView{mapped: true, surfaces: []*fakeSurface{outside}}

	damage := NewRegionFromBox(Box{X: 0, Y: 0, W: 100, H: 100})
	records := buildStreamRecords([]View{view}, 0, 0, damage)
	if len(records) != 0 {
		t.Fatalf("len(records) = %d, want 0 (surface wholly outside damage)", len(records))
	}
}

func TestBuildStreamRecordsSnapshotForUnmappedOrTransformed(t *testing.T) {
	transformed := &fakeView{mapped: true, transformer: true, bbox: Box{X: 0, Y: 0, W: 20, H: 20}}
	unmapped := &fakeView{mapped: false, bbox: Box{X: 30, Y: 0, W: 20, H: 20}}

	damage := NewRegionFromBox(Box{X: 0, Y: 0, W: 100, H: 100})
	records := buildStreamRecords([]View{transformed, unmapped}, 0, 0, damage)
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	for _, r := range records {
		if !r.snapshot {
			t.Fatal("transformed/unmapped views should produce snapshot records")
		}
	}
}

func TestStreamGridDimensions(t *testing.T) {
	ctx := render.NewCPUContext()
	grid := NewStreamGrid(3, 2, ctx)
	w, h := grid.Size()
	if w != 3 || h != 2 {
		t.Fatalf("Size() = %d,%d want 3,2", w, h)
	}
	for vy := 0; vy < 2; vy++ {
		for vx := 0; vx < 3; vx++ {
			s := grid.At(WSCoord{VX: vx, VY: vy})
			if s == nil {
				t.Fatalf("stream at (%d,%d) is nil", vx, vy)
			}
			if s.Running() {
				t.Fatalf("stream at (%d,%d) should start dormant", vx, vy)
			}
		}
	}
}
