/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manip

import (
	"errors"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	applog "layoutbounds/internal/log"
	"layoutbounds/internal/vector"
)

// State is the drag state machine's state.
type State int

const (
	StateIdle State = iota
	StateHovering
	StateDragging
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHovering:
		return "hovering"
	case StateDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Event tells the host what a tick did.
type Event int

const (
	EventNone Event = iota
	EventStarted
	EventUpdated
	EventStopped
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventStarted:
		return "started"
	case EventUpdated:
		return "updated"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Frame is the host input for one tick.
type Frame struct {
	// Pointer is in screen pixels, origin bottom-left.
	Pointer mgl64.Vec2
	Down    bool
	// Modifiers.
	LockAspect    bool
	SnapDirection bool
	DisableSnap   bool

	// Box is the current box in its local space. It is only read while not
	// dragging; a running drag works from its snapshot.
	Box    vector.Box
	Frames vector.Frames
	Camera vector.Camera
	// Axes limits the manipulation. Zero means XY for a flat box whose
	// selection shares its plane, and all axes otherwise.
	Axes vector.AxisMask
	// Selection holds the local-to-world transforms of the other selected boxes.
	Selection []vector.Transform
	// LayoutVersion is the version of the Layout Box came from, 0 if none.
	LayoutVersion uint64
}

// Update is the result of one tick.
type Update struct {
	State  State
	Event  Event
	Box    vector.Box
	Handle vector.HandleDirection
	Cursor Cursor
	// Snapped and HitID report the edge the box was pulled onto, for guide drawing.
	Snapped bool
	HitID   string
	Hits    []AxisHit
}

// Observer receives the boxes a drag produces.
type Observer interface {
	BoundsChanged(u Update)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(u Update)

func (f ObserverFunc) BoundsChanged(u Update) { f(u) }

// Options configures a Tool.
type Options struct {
	Pick PickOptions
	// SnapEnabled turns edge snapping on; it also needs an EdgeFinder.
	SnapEnabled   bool
	SnapThreshold float64
	// DirectionTolerance is used for direction-snapped moves.
	DirectionTolerance float64
	// AspectLocked is the default aspect lock for new drags.
	AspectLocked bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Pick:               DefaultPickOptions(),
		SnapEnabled:        true,
		SnapThreshold:      DefaultSnapThreshold,
		DirectionTolerance: 30,
	}
}

var errNoPlaneHit = errors.New("pointer ray misses the drag plane")

// Tool is the drag state machine. It is driven by Tick once per frame from a
// single goroutine.
type Tool struct {
	opts     Options
	finder   EdgeFinder
	observer Observer
	log      *slog.Logger

	state    State
	session  *DragSession
	cursor   Cursor
	last     Update
	prevDown bool
}

// NewTool creates an idle tool. finder and observer may be nil.
func NewTool(opts Options, finder EdgeFinder, observer Observer) *Tool {
	return &Tool{
		opts:     opts,
		finder:   finder,
		observer: observer,
		log:      applog.WithComponent("manip"),
	}
}

func (t *Tool) State() State { return t.state }

// Session returns the running drag, or nil.
func (t *Tool) Session() *DragSession { return t.session }

// Tick advances the state machine by one frame.
func (t *Tool) Tick(f Frame) Update {
	pressed := f.Down && !t.prevDown
	t.prevDown = f.Down

	if t.state == StateDragging {
		if !f.Down {
			return t.stop()
		}
		if v := t.session.LayoutVersion; v != 0 && f.LayoutVersion != 0 && f.LayoutVersion != v {
			t.log.Debug("layout changed under a running drag", slog.Uint64("from", v), slog.Uint64("to", f.LayoutVersion))
			t.session.LayoutVersion = f.LayoutVersion
		}
		return t.drag(f)
	}

	axes := f.Axes
	if axes == vector.AxesNone {
		axes = defaultAxes(f)
	}
	view := vector.View{Camera: f.Camera, Frames: f.Frames}
	p := PickHandle(f.Pointer, f.Box, axes, view, t.opts.Pick)
	if !p.Hovered {
		t.setState(StateIdle)
		return Update{State: StateIdle, Box: f.Box}
	}
	t.setState(StateHovering)
	if !pressed {
		return Update{State: StateHovering, Box: f.Box, Handle: p.Direction, Cursor: p.Cursor}
	}

	s, err := t.begin(f, axes, p)
	if err != nil {
		t.log.Debug("drag not started", slog.String("handle", p.Direction.String()), slog.Any("err", err))
		return Update{State: StateHovering, Box: f.Box, Handle: p.Direction, Cursor: p.Cursor}
	}
	t.session = s
	t.cursor = p.Cursor
	t.setState(StateDragging)
	t.log.Debug("drag started",
		slog.String("handle", s.Direction.String()),
		slog.String("axes", s.Axes.String()),
		slog.Bool("aspect_locked", s.AspectLocked))
	t.last = Update{State: StateDragging, Event: EventStarted, Box: s.Start, Handle: s.Direction, Cursor: p.Cursor}
	return t.last
}

// Cancel drops a running drag without emitting anything. The pointer has to
// be released and pressed again before the next drag can start.
func (t *Tool) Cancel() {
	if t.session != nil {
		t.log.Debug("drag cancelled", slog.String("handle", t.session.Direction.String()))
	}
	t.session = nil
	t.last = Update{}
	t.setState(StateIdle)
}

func (t *Tool) setState(s State) {
	if t.state != s {
		t.log.Debug("state", slog.String("from", t.state.String()), slog.String("to", s.String()))
		t.state = s
	}
}

// begin captures the session. The drag plane runs through the box centre and
// faces along the box normal for planar drags, towards the camera otherwise.
func (t *Tool) begin(f Frame, axes vector.AxisMask, p Pick) (*DragSession, error) {
	s := NewSession(f.Box, f.Frames, p.Direction, axes, t.opts.AspectLocked)
	s.PointerDown = f.Pointer
	s.LayoutVersion = f.LayoutVersion

	ray, err := f.Camera.ScreenRay(f.Pointer)
	if err != nil {
		return nil, err
	}
	center := f.Frames.Point(f.Box.Center, vector.SpaceLocal, vector.SpaceWorld)
	plane := vector.Plane{Point: center, Normal: planeNormal(f, axes)}
	hit, ok := plane.Intersect(ray)
	if !ok {
		plane.Normal = f.Camera.Forward().Mul(-1)
		if hit, ok = plane.Intersect(ray); !ok {
			return nil, errNoPlaneHit
		}
	}
	s.Plane = plane
	s.StartHit = hit
	return s, nil
}

// CoplanarTolerance is the 1-cos slack under which selected boxes count as
// sharing a plane.
const CoplanarTolerance = 1e-6

// defaultAxes keeps a flat box planar unless the selection around it leaves
// its plane, in which case the drag falls back to world space on all axes.
func defaultAxes(f Frame) vector.AxisMask {
	if len(f.Selection) > 0 {
		ts := append([]vector.Transform{f.Frames.LocalToWorld()}, f.Selection...)
		if vector.SelectionSpace(ts, CoplanarTolerance) == vector.SpaceWorld {
			return vector.AxesAll
		}
	}
	if f.Box.IsFlat() {
		return vector.AxesXY
	}
	return vector.AxesAll
}

func planeNormal(f Frame, axes vector.AxisMask) mgl64.Vec3 {
	if axes.Count() == 2 {
		l2w := f.Frames.LocalToWorld()
		a := axes.Axes()
		n := l2w.Axis(a[0]).Cross(l2w.Axis(a[1]))
		if n.Len() > 0 {
			return n.Normalize()
		}
	}
	return f.Camera.Forward().Mul(-1)
}

func (t *Tool) drag(f Frame) Update {
	s := t.session
	idle := t.last
	idle.Event = EventNone

	ray, err := f.Camera.ScreenRay(f.Pointer)
	if err != nil {
		t.log.Debug("pointer ray failed", slog.Any("err", err))
		return idle
	}
	hit, ok := s.Plane.Intersect(ray)
	if !ok {
		return idle
	}

	locked := f.LockAspect || s.AspectLocked
	box := Resize(s, ResizeInput{
		Delta:         s.Delta(hit),
		LockAspect:    f.LockAspect,
		SnapDirection: f.SnapDirection,
		Tolerance:     t.opts.DirectionTolerance,
	})
	u := Update{State: StateDragging, Event: EventUpdated, Box: box, Handle: s.Direction, Cursor: t.cursor}

	if t.finder != nil && t.opts.SnapEnabled && !f.DisableSnap && !s.Direction.IsMove() {
		r := Resolver{View: vector.View{Camera: f.Camera, Frames: s.Frames}, Threshold: t.opts.SnapThreshold}
		res := r.TrySnap(box, s.Direction, t.finder)
		if res.Snapped && locked {
			res = res.LockAspect(s.Start, s.Direction, s.Axes)
		}
		if res.Snapped {
			u.Box = res.Box
			u.Snapped = true
			u.HitID = res.HitID
			u.Hits = res.Hits
		}
	}

	t.last = u
	t.notify(u)
	return u
}

func (t *Tool) stop() Update {
	u := t.last
	u.State = StateIdle
	u.Event = EventStopped
	t.log.Debug("drag committed",
		slog.String("handle", u.Handle.String()),
		slog.Any("size", u.Box.Size),
		slog.Bool("snapped", u.Snapped),
		slog.String("hit", u.HitID))
	t.session = nil
	t.last = Update{}
	t.setState(StateIdle)
	t.notify(u)
	return u
}

func (t *Tool) notify(u Update) {
	if t.observer != nil {
		t.observer.BoundsChanged(u)
	}
}
