/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manip

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"layoutbounds/internal/vector"
)

type recorder struct{ updates []Update }

func (r *recorder) BoundsChanged(u Update) { r.updates = append(r.updates, u) }

func frameAt(x, y float64, down bool) Frame {
	return Frame{
		Pointer: mgl64.Vec2{x, y},
		Down:    down,
		Box:     vector.B(200, 200, 0, 100, 100, 0),
		Frames:  vector.IdentityFrames,
		Camera:  vector.NewOrthoCamera(800, 600),
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestToolDragLifecycle(t *testing.T) {
	rec := &recorder{}
	tool := NewTool(DefaultOptions(), nil, rec)

	u := tool.Tick(frameAt(400, 400, false))
	if u.State != StateIdle || u.Event != EventNone {
		t.Fatalf("far pointer: %+v", u)
	}
	u = tool.Tick(frameAt(250.5, 200, false))
	if u.State != StateHovering || u.Handle != vector.Dir(1, 0, 0) || u.Cursor != CursorResizeHorizontal {
		t.Fatalf("hover: %+v", u)
	}
	u = tool.Tick(frameAt(250.5, 200, true))
	if u.State != StateDragging || u.Event != EventStarted {
		t.Fatalf("press: %+v", u)
	}
	s := tool.Session()
	if s == nil || !near(s.StartHit.X(), 250.5) || !near(s.StartHit.Y(), 200) {
		t.Fatalf("unexpected session %+v", s)
	}

	u = tool.Tick(frameAt(253.5, 200, true))
	if u.Event != EventUpdated || !near(u.Box.Size.X(), 103) || !near(u.Box.Size.Y(), 100) || !near(u.Box.Center.X(), 201.5) {
		t.Fatalf("drag: %+v", u)
	}
	dragged := u.Box

	u = tool.Tick(frameAt(253.5, 200, false))
	if u.Event != EventStopped || u.State != StateIdle || u.Box != dragged {
		t.Fatalf("release: %+v", u)
	}
	if tool.State() != StateIdle || tool.Session() != nil {
		t.Fatalf("tool should be idle after release")
	}
	if len(rec.updates) != 2 || rec.updates[0].Event != EventUpdated || rec.updates[1].Event != EventStopped {
		t.Fatalf("observer saw %+v", rec.updates)
	}
}

func TestToolIgnoresFrameBoxWhileDragging(t *testing.T) {
	tool := NewTool(DefaultOptions(), nil, nil)
	tool.Tick(frameAt(250.5, 200, false))
	tool.Tick(frameAt(250.5, 200, true))
	f := frameAt(253.5, 200, true)
	f.Box = vector.B(0, 0, 0, 1, 1, 0)
	u := tool.Tick(f)
	if !near(u.Box.Size.X(), 103) {
		t.Fatalf("drag must work from the snapshot, got %+v", u.Box)
	}
}

func TestToolAspectLock(t *testing.T) {
	tool := NewTool(DefaultOptions(), nil, nil)
	tool.Tick(frameAt(250.5, 200, false))
	tool.Tick(frameAt(250.5, 200, true))
	f := frameAt(253.5, 200, true)
	f.LockAspect = true
	u := tool.Tick(f)
	if !near(u.Box.Size.X(), 103) || !near(u.Box.Size.Y(), 103) {
		t.Fatalf("locked drag: %+v", u.Box)
	}

	opts := DefaultOptions()
	opts.AspectLocked = true
	tool = NewTool(opts, nil, nil)
	tool.Tick(frameAt(250.5, 200, false))
	tool.Tick(frameAt(250.5, 200, true))
	u = tool.Tick(frameAt(253.5, 200, true))
	if !near(u.Box.Size.Y(), 103) {
		t.Fatalf("default-locked drag: %+v", u.Box)
	}
}

func TestToolSnapsToSibling(t *testing.T) {
	opts := DefaultOptions()
	opts.SnapThreshold = 3
	tool := NewTool(opts, walls(wall{"sibling", vector.X, 255}), nil)
	tool.Tick(frameAt(250.5, 200, false))
	tool.Tick(frameAt(250.5, 200, true))

	u := tool.Tick(frameAt(253.5, 200, true))
	if !u.Snapped || u.HitID != "sibling" || !near(u.Box.Max().X(), 255) {
		t.Fatalf("expected a snap onto 255: %+v", u)
	}

	f := frameAt(253.5, 200, true)
	f.LockAspect = true
	u = tool.Tick(f)
	if !u.Snapped || !near(u.Box.Size.X(), 105) || !near(u.Box.Size.Y(), 105) {
		t.Fatalf("locked snap should re-fit the aspect: %+v", u.Box)
	}

	f = frameAt(253.5, 200, true)
	f.DisableSnap = true
	u = tool.Tick(f)
	if u.Snapped || !near(u.Box.Size.X(), 103) {
		t.Fatalf("snap modifier ignored: %+v", u)
	}

	// 6px short of the sibling is outside the threshold
	u = tool.Tick(frameAt(249.5, 200, true))
	if u.Snapped {
		t.Fatalf("unexpected snap: %+v", u)
	}
}

func TestToolCancelDiscardsSession(t *testing.T) {
	rec := &recorder{}
	tool := NewTool(DefaultOptions(), nil, rec)
	tool.Tick(frameAt(250.5, 200, false))
	tool.Tick(frameAt(250.5, 200, true))
	tool.Cancel()
	if tool.State() != StateIdle || tool.Session() != nil {
		t.Fatalf("cancel must reset the tool")
	}
	// still holding the button: no drag restarts and nothing is emitted
	for _, x := range []float64{253.5, 251} {
		u := tool.Tick(frameAt(x, 200, true))
		if u.Event != EventNone || u.State == StateDragging {
			t.Fatalf("after cancel: %+v", u)
		}
	}
	tool.Tick(frameAt(251, 200, false))
	if len(rec.updates) != 0 {
		t.Fatalf("observer must not hear from a cancelled drag: %+v", rec.updates)
	}
	// a fresh press starts a new drag
	if u := tool.Tick(frameAt(251, 200, true)); u.Event != EventStarted {
		t.Fatalf("new press: %+v", u)
	}
}

func TestToolPressAwayFromHandles(t *testing.T) {
	tool := NewTool(DefaultOptions(), nil, nil)
	u := tool.Tick(frameAt(400, 400, true))
	if u.State != StateIdle || tool.Session() != nil {
		t.Fatalf("press in empty space must not drag: %+v", u)
	}
	// moving onto a handle with the button held does not start a drag either
	u = tool.Tick(frameAt(250.5, 200, true))
	if u.State != StateHovering || u.Event != EventNone {
		t.Fatalf("held button over handle: %+v", u)
	}
}

func TestToolMoveHandle(t *testing.T) {
	tool := NewTool(DefaultOptions(), nil, nil)
	if u := tool.Tick(frameAt(210, 200, true)); u.Event != EventStarted || !u.Handle.IsMove() || u.Cursor != CursorMove {
		t.Fatalf("press inside: %+v", u)
	}
	u := tool.Tick(frameAt(220, 230, true))
	if !near(u.Box.Center.X(), 210) || !near(u.Box.Center.Y(), 230) || !near(u.Box.Size.X(), 100) {
		t.Fatalf("move: %+v", u.Box)
	}

	f := frameAt(240, 205, true)
	f.SnapDirection = true
	u = tool.Tick(f)
	if !near(u.Box.Center.X(), 230) || !near(u.Box.Center.Y(), 200) {
		t.Fatalf("direction snapped move: %+v", u.Box)
	}
}

func TestToolReadsBoxFromLayout(t *testing.T) {
	layout := NewStaticLayout(vector.B(200, 200, 0, 100, 100, 0), vector.IdentityFrames)
	if layout.LayoutVersion() != 1 {
		t.Fatalf("fresh layout version = %d", layout.LayoutVersion())
	}
	frame := func(x float64, down bool) Frame {
		return Frame{Pointer: mgl64.Vec2{x, 200}, Down: down, Camera: vector.NewOrthoCamera(800, 600)}.WithLayout(layout)
	}

	tool := NewTool(DefaultOptions(), nil, nil)
	tool.Tick(frame(250.5, true))
	if s := tool.Session(); s == nil || s.LayoutVersion != 1 {
		t.Fatalf("session should record the layout version: %+v", s)
	}
	tool.Tick(frame(260.5, true))
	u := tool.Tick(frame(260.5, false))
	layout.Set(u.Box)
	layout.Set(u.Box)
	if layout.LayoutVersion() != 2 {
		t.Fatalf("Set bumps the version once per change, got %d", layout.LayoutVersion())
	}

	// the committed right edge is now at 260
	if u := tool.Tick(frame(260.5, true)); u.Event != EventStarted || u.Handle != vector.Dir(1, 0, 0) {
		t.Fatalf("drag from the committed layout: %+v", u)
	}
	layout.Set(vector.B(0, 0, 0, 10, 10, 0))
	if u := tool.Tick(frame(270.5, true)); !near(u.Box.Size.X(), 120) {
		t.Fatalf("a layout change mid-drag must not disturb the snapshot: %+v", u.Box)
	}
	if tool.Session().LayoutVersion != 3 {
		t.Fatalf("session should follow the layout version")
	}
}

func TestToolLockedCornerSnapKeepsNearestEdge(t *testing.T) {
	frame := func(x, y float64, down bool) Frame {
		return Frame{
			Pointer: mgl64.Vec2{x, y},
			Down:    down,
			Box:     vector.B(100, 100, 0, 20, 10, 0),
			Frames:  vector.IdentityFrames,
			Camera:  vector.NewOrthoCamera(800, 600),
		}
	}
	finder := walls(wall{"x", vector.X, 113}, wall{"y", vector.Y, 107})

	// unlocked, both edges land on their walls
	tool := NewTool(DefaultOptions(), finder, nil)
	if u := tool.Tick(frame(110, 105, true)); u.Handle != vector.Dir(1, 1, 0) {
		t.Fatalf("press on the corner: %+v", u)
	}
	u := tool.Tick(frame(112, 106, true))
	if len(u.Hits) != 2 || !near(u.Box.Max().X(), 113) || !near(u.Box.Max().Y(), 107) {
		t.Fatalf("free corner snap: %+v", u)
	}

	opts := DefaultOptions()
	opts.AspectLocked = true
	tool = NewTool(opts, finder, nil)
	tool.Tick(frame(110, 105, true))
	u = tool.Tick(frame(112, 106, true))
	// both walls are 1px off; x comes first, drives the 2:1 re-fit and y comes off its wall
	if !u.Snapped || u.HitID != "x" {
		t.Fatalf("locked corner snap: %+v", u)
	}
	if !near(u.Box.Max().X(), 113) || !near(u.Box.Size.X(), 23) || !near(u.Box.Size.Y(), 11.5) {
		t.Fatalf("re-fit box: %+v", u.Box)
	}
	if len(u.Hits) != 1 || u.Hits[0].Axis != vector.X {
		t.Fatalf("only the edge still on its wall may be reported: %+v", u.Hits)
	}
}

func TestToolSelectionPicksDragSpace(t *testing.T) {
	cases := []struct {
		name      string
		selection []vector.Transform
		want      vector.AxisMask
	}{
		{"alone", nil, vector.AxesXY},
		{"rotated in plane", []vector.Transform{vector.TRS(mgl64.Vec3{300, 0, 0}, 0.5, mgl64.Vec3{1, 1, 1})}, vector.AxesXY},
		{"tilted", []vector.Transform{vector.NewTransform(mgl64.HomogRotate3DX(math.Pi / 4))}, vector.AxesAll},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tool := NewTool(DefaultOptions(), nil, nil)
			f := frameAt(250.5, 200, true)
			f.Selection = c.selection
			if u := tool.Tick(f); u.Event != EventStarted || u.Handle != vector.Dir(1, 0, 0) {
				t.Fatalf("press: %+v", u)
			}
			s := tool.Session()
			if s.Axes != c.want {
				t.Fatalf("axes = %v, want %v", s.Axes, c.want)
			}
			// both planes face the ortho camera here, so the drag itself is unchanged
			u := tool.Tick(frameAt(253.5, 200, true))
			if !near(u.Box.Size.X(), 103) || !near(u.Box.Size.Z(), 0) {
				t.Fatalf("drag: %+v", u.Box)
			}
		})
	}
}
