/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package manip implements the interactive side of bounds editing: picking a
// handle under the pointer, resizing a box from a drag delta, snapping the
// moving edge onto neighbouring boxes and the per-frame drag state machine
// tying these together. Everything here is synchronous and allocation-light;
// a host drives it once per rendered frame.
package manip

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"layoutbounds/internal/vector"
)

// Projector maps a point of the box's local space to screen pixels.
// vector.View satisfies it.
type Projector interface {
	ToScreen(local mgl64.Vec3) mgl64.Vec2
}

// Cursor is the pointer shape a host should show for a pick.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorMove
	CursorResizeHorizontal
	CursorResizeVertical
	CursorResizeUpRight
	CursorResizeUpLeft
)

func (c Cursor) String() string {
	switch c {
	case CursorMove:
		return "move"
	case CursorResizeHorizontal:
		return "resize-horizontal"
	case CursorResizeVertical:
		return "resize-vertical"
	case CursorResizeUpRight:
		return "resize-up-right"
	case CursorResizeUpLeft:
		return "resize-up-left"
	default:
		return "default"
	}
}

// PickOptions holds the screen-space radii used for hover detection.
type PickOptions struct {
	// HoverRadius is the largest pixel distance at which a handle counts as hovered.
	HoverRadius float64
	// CornerRadius turns an edge pick into a corner pick when the pointer is
	// this close to the corner. Keep it below half the smallest expected box side.
	CornerRadius float64
	// CursorTolerance is the direction snapping tolerance (degrees) used to pick the cursor.
	CursorTolerance float64
}

// DefaultPickOptions returns the radii used when nothing is configured.
func DefaultPickOptions() PickOptions {
	return PickOptions{HoverRadius: 8, CornerRadius: 4, CursorTolerance: 30}
}

// Pick is the result of hover detection.
type Pick struct {
	// Hovered is false when no handle is within reach; Direction is then zero
	// and must not be read as the move handle.
	Hovered   bool
	Direction vector.HandleDirection
	// Distance is the pixel distance from the pointer to the picked handle.
	Distance float64
	Cursor   Cursor
	// Axes are the axes a drag of this handle may change.
	Axes vector.AxisMask
}

// PickHandle finds the handle of box nearest to pointer.
//
// With one or two active axes the box is treated as a rectangle in the plane
// of those axes and the nearest boundary segment wins; the corner replaces the
// edge when the pointer is within CornerRadius of it. With three axes the 26
// face, edge and corner handle points are tested instead.
//
// The move handle wins when the pointer is at least as close to the centre as
// to the nearest handle, or when it is inside the box and away from every edge.
func PickHandle(pointer mgl64.Vec2, box vector.Box, mask vector.AxisMask, proj Projector, opts PickOptions) Pick {
	if mask == vector.AxesNone || proj == nil {
		return Pick{}
	}
	var c candidate
	if mask.Count() == 3 {
		c = pickPoint(pointer, box, proj)
	} else {
		c = pickRect(pointer, box, mask, proj, opts)
	}
	center := proj.ToScreen(box.Center)
	dCenter := pointer.Sub(center).Len()

	if dCenter <= c.dist || (c.inside && c.dist > opts.HoverRadius) {
		hovered := c.inside || dCenter <= opts.HoverRadius
		p := Pick{Hovered: hovered, Distance: dCenter, Axes: mask}
		if hovered {
			p.Cursor = CursorMove
		}
		return p
	}
	if c.dist > opts.HoverRadius || c.dir.IsMove() {
		return Pick{Distance: c.dist}
	}
	return Pick{
		Hovered:   true,
		Direction: c.dir,
		Distance:  c.dist,
		Cursor:    cursorFor(c.at.Sub(center), opts.CursorTolerance),
		Axes:      c.dir.Mask() & mask,
	}
}

// candidate is the nearest resize handle found by one of the pick modes.
type candidate struct {
	dir    vector.HandleDirection
	dist   float64
	at     mgl64.Vec2 // screen position of the handle, used for the cursor
	inside bool
}

// planeAxes returns the two box axes spanning the pick rectangle.
func planeAxes(mask vector.AxisMask) (u, v int) {
	axes := mask.Axes()
	if len(axes) >= 2 {
		return axes[0], axes[1]
	}
	u = axes[0]
	switch u {
	case vector.X:
		v = vector.Y
	default:
		v = vector.X
	}
	return u, v
}

func pickRect(pointer mgl64.Vec2, box vector.Box, mask vector.AxisMask, proj Projector, opts PickOptions) candidate {
	u, v := planeAxes(mask)
	lo, hi := box.Min(), box.Max()

	// corners counter-clockwise in (u, v): (lo,lo) (hi,lo) (hi,hi) (lo,hi)
	signs := [4][2]int{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	var screen [4]mgl64.Vec2
	for i, s := range signs {
		p := box.Center
		p[u] = bound(s[0], lo[u], hi[u])
		p[v] = bound(s[1], lo[v], hi[v])
		screen[i] = proj.ToScreen(p)
	}

	best := candidate{dist: math.Inf(1)}
	for i := 0; i < 4; i++ {
		a, b := screen[i], screen[(i+1)%4]
		// segment i shares the sign its endpoints agree on
		var dir vector.HandleDirection
		if signs[i][0] == signs[(i+1)%4][0] {
			dir[u] = signs[i][0]
		} else {
			dir[v] = signs[i][1]
		}
		if !mask.Has(u) && dir[u] != 0 || !mask.Has(v) && dir[v] != 0 {
			continue
		}
		q := closestOnSegment(pointer, a, b)
		if d := pointer.Sub(q).Len(); d < best.dist {
			best = candidate{dir: dir, dist: d, at: a.Add(b).Mul(0.5)}
		}
	}

	if mask.Has(u) && mask.Has(v) {
		for i, s := range signs {
			d := pointer.Sub(screen[i]).Len()
			if d <= opts.CornerRadius {
				var dir vector.HandleDirection
				dir[u], dir[v] = s[0], s[1]
				best = candidate{dir: dir, dist: d, at: screen[i]}
				break
			}
		}
	}
	best.inside = insideQuad(pointer, screen)
	return best
}

// pointHandles lists the 26 handle directions, faces first, then edges, then
// corners, so that coinciding handles of a flat box resolve to the simplest one.
var pointHandles = func() []vector.HandleDirection {
	out := make([]vector.HandleDirection, 0, 26)
	for n := 1; n <= 3; n++ {
		for x := -1; x <= 1; x++ {
			for y := -1; y <= 1; y++ {
				for z := -1; z <= 1; z++ {
					d := vector.Dir(x, y, z)
					if d.Mask().Count() == n {
						out = append(out, d)
					}
				}
			}
		}
	}
	return out
}()

func pickPoint(pointer mgl64.Vec2, box vector.Box, proj Projector) candidate {
	best := candidate{dist: math.Inf(1)}
	half := box.Size.Mul(0.5)
	lo := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for _, d := range pointHandles {
		dv := d.Vec3()
		p := box.Center.Add(mgl64.Vec3{dv[0] * half[0], dv[1] * half[1], dv[2] * half[2]})
		s := proj.ToScreen(p)
		for i := 0; i < 2; i++ {
			lo[i] = math.Min(lo[i], s[i])
			hi[i] = math.Max(hi[i], s[i])
		}
		if dist := pointer.Sub(s).Len(); dist < best.dist {
			best = candidate{dir: d, dist: dist, at: s}
		}
	}
	best.inside = pointer[0] >= lo[0] && pointer[0] <= hi[0] && pointer[1] >= lo[1] && pointer[1] <= hi[1]
	return best
}

// cursorFor snaps the centre-to-handle screen vector and names the matching cursor.
func cursorFor(v mgl64.Vec2, tol float64) Cursor {
	if v.Len() == 0 {
		return CursorDefault
	}
	s := vector.SnapDirection2D(v, tol)
	switch {
	case s[1] == 0:
		return CursorResizeHorizontal
	case s[0] == 0:
		return CursorResizeVertical
	case s[0]*s[1] > 0:
		return CursorResizeUpRight
	default:
		return CursorResizeUpLeft
	}
}

func bound(s int, lo, hi float64) float64 {
	if s < 0 {
		return lo
	}
	return hi
}

func closestOnSegment(p, a, b mgl64.Vec2) mgl64.Vec2 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return a.Add(ab.Mul(t))
}

// insideQuad reports whether p lies inside the convex quad q, whichever its winding.
func insideQuad(p mgl64.Vec2, q [4]mgl64.Vec2) bool {
	var pos, neg bool
	for i := 0; i < 4; i++ {
		a, b := q[i], q[(i+1)%4]
		cross := (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
		if cross > 0 {
			pos = true
		} else if cross < 0 {
			neg = true
		}
		if pos && neg {
			return false
		}
	}
	return true
}
