/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package scenario

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	applog "layoutbounds/internal/log"
	"layoutbounds/internal/manip"
	"layoutbounds/internal/spatial"
	"layoutbounds/internal/vector"
)

// reportPlaces is the number of decimals frame reports keep.
const reportPlaces = 6

// FrameReport is what one replayed frame produced. Center and Size are
// rounded to reportPlaces decimals.
type FrameReport struct {
	Index   int        `json:"index"`
	State   string     `json:"state"`
	Event   string     `json:"event"`
	Handle  string     `json:"handle,omitempty"`
	Cursor  string     `json:"cursor"`
	Center  mgl64.Vec3 `json:"center"`
	Size    mgl64.Vec3 `json:"size"`
	Snapped bool       `json:"snapped,omitempty"`
	HitID   string     `json:"hit,omitempty"`
}

// Report is the outcome of a replay. Committed holds the box of the last
// finished drag, if any.
type Report struct {
	Name      string        `json:"name,omitempty"`
	Frames    []FrameReport `json:"frames"`
	Committed *vector.Box   `json:"committed,omitempty"`
	HitID     string        `json:"hit,omitempty"`
	Failures  []string      `json:"failures,omitempty"`
}

// Settings are the configured defaults a scenario's options override.
type Settings struct {
	Tool manip.Options
	// Reach widens sibling queries, see spatial.Index.
	Reach float64
}

// DefaultSettings returns the tool defaults with no reach.
func DefaultSettings() Settings { return Settings{Tool: manip.DefaultOptions()} }

// Passed reports whether every expectation held.
func (r *Report) Passed() bool { return len(r.Failures) == 0 }

// ToolOptions merges the scenario overrides into base.
func (sc *Scenario) ToolOptions(base manip.Options) manip.Options {
	o := sc.Options
	if o.HoverRadius != nil {
		base.Pick.HoverRadius = *o.HoverRadius
	}
	if o.CornerRadius != nil {
		base.Pick.CornerRadius = *o.CornerRadius
	}
	if o.SnapEnabled != nil {
		base.SnapEnabled = *o.SnapEnabled
	}
	if o.SnapThreshold != nil {
		base.SnapThreshold = *o.SnapThreshold
	}
	if o.DirectionTolerance != nil {
		base.DirectionTolerance = *o.DirectionTolerance
		base.Pick.CursorTolerance = *o.DirectionTolerance
	}
	if o.AspectLocked != nil {
		base.AspectLocked = *o.AspectLocked
	}
	return base
}

// Run replays every frame through a fresh tool. The box a drag commits
// becomes the box of the following frames, as a host would apply it.
func Run(sc *Scenario, set Settings) (*Report, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: nil scenario", ErrInvalid)
	}
	l := applog.WithOperation(applog.WithComponent("scenario"), "run")

	ix := spatial.New()
	ix.Reach = set.Reach
	if sc.Options.Reach != nil {
		ix.Reach = *sc.Options.Reach
	}
	for _, s := range sc.Siblings {
		ix.Add(s.ID, s.Box())
	}
	if sc.Box.ID != "" {
		ix.Exclude(sc.Box.ID)
	}

	rep := &Report{Name: sc.Name, Frames: make([]FrameReport, 0, len(sc.Frames))}
	tool := manip.NewTool(sc.ToolOptions(set.Tool), ix, manip.ObserverFunc(func(u manip.Update) {
		if u.Event != manip.EventStopped {
			return
		}
		b := u.Box
		rep.Committed = &b
		rep.HitID = u.HitID
	}))

	layout := manip.NewStaticLayout(sc.Box.Box(), sc.WorldFrames())
	camera := sc.BuildCamera()
	axes := sc.AxisMask()
	selection := sc.SelectionTransforms()
	for i, in := range sc.Frames {
		if in.Cancel {
			tool.Cancel()
		}
		f := manip.Frame{
			Pointer:       mgl64.Vec2{in.X, in.Y},
			Down:          in.Down,
			LockAspect:    in.LockAspect,
			SnapDirection: in.SnapDirection,
			DisableSnap:   in.DisableSnap,
			Camera:        camera,
			Axes:          axes,
			Selection:     selection,
		}
		u := tool.Tick(f.WithLayout(layout))
		if u.Event == manip.EventStopped {
			layout.Set(u.Box)
		}
		fr := FrameReport{
			Index:   i,
			State:   u.State.String(),
			Event:   u.Event.String(),
			Cursor:  u.Cursor.String(),
			Center:  vector.RoundVec(u.Box.Center, reportPlaces),
			Size:    vector.RoundVec(u.Box.Size, reportPlaces),
			Snapped: u.Snapped,
			HitID:   u.HitID,
		}
		if u.State != manip.StateIdle || u.Event != manip.EventNone {
			fr.Handle = u.Handle.String()
		}
		rep.Frames = append(rep.Frames, fr)
	}

	rep.Failures = sc.check(rep)
	l.Info("scenario replayed",
		slog.String("name", sc.Name),
		slog.Int("frames", len(rep.Frames)),
		slog.Bool("committed", rep.Committed != nil),
		slog.Int("failures", len(rep.Failures)))
	return rep, nil
}

func (sc *Scenario) check(rep *Report) []string {
	e := sc.Expect
	if e == nil {
		return nil
	}
	tol := e.Tolerance
	if tol == 0 {
		tol = 1e-6
	}
	if rep.Committed == nil {
		return []string{"no drag was committed"}
	}
	var out []string
	if e.Center != nil && !closeTo(*e.Center, rep.Committed.Center, tol) {
		out = append(out, fmt.Sprintf("center = %v, want %v", rep.Committed.Center, *e.Center))
	}
	if e.Size != nil && !closeTo(*e.Size, rep.Committed.Size, tol) {
		out = append(out, fmt.Sprintf("size = %v, want %v", rep.Committed.Size, *e.Size))
	}
	if e.Hit != "" && e.Hit != rep.HitID {
		out = append(out, fmt.Sprintf("hit = %q, want %q", rep.HitID, e.Hit))
	}
	return out
}

func closeTo(a, b mgl64.Vec3, tol float64) bool {
	for i := 0; i < 3; i++ {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
