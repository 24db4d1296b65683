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

	"github.com/go-gl/mathgl/mgl64"

	"layoutbounds/internal/vector"
)

// ResizeInput is one frame's worth of drag input.
type ResizeInput struct {
	// Delta is the pointer movement since drag start, in world space.
	Delta mgl64.Vec3
	// LockAspect is the aspect modifier; it is ORed with the session default.
	LockAspect bool
	// SnapDirection restricts a move to the compass directions.
	SnapDirection bool
	// Tolerance is the direction snapping tolerance in degrees.
	Tolerance float64
}

// Resize computes the box for the current frame of a drag.
//
// The move handle translates the centre along the session axes. Any other
// handle moves the max bound (positive direction) or min bound (negative
// direction) of each of its axes; a bound is never dragged past the opposite
// one, so sizes bottom out at zero. With the aspect lock engaged the result is
// re-fitted by MaintainAspect.
func Resize(s *DragSession, in ResizeInput) vector.Box {
	start := s.Start
	d := s.localDelta(in.Delta)
	if !finiteVec(d) {
		return start
	}

	if s.Direction.IsMove() {
		var m mgl64.Vec3
		for _, axis := range s.Axes.Axes() {
			m[axis] = d[axis]
		}
		if in.SnapDirection && m.Len() > 0 {
			dir := vector.SnapDirection3D(m, in.Tolerance)
			m = dir.Mul(m.Dot(dir))
		}
		out := start
		out.Center = out.Center.Add(m)
		return out
	}

	candidate := moveBounds(start, s.Direction, d)
	if in.LockAspect || s.AspectLocked {
		return MaintainAspect(start, candidate, s.Direction, s.Axes, vector.AxesNone)
	}
	return candidate
}

func moveBounds(start vector.Box, dir vector.HandleDirection, d mgl64.Vec3) vector.Box {
	out := start
	lo, hi := start.Min(), start.Max()
	for axis := 0; axis < 3; axis++ {
		switch dir[axis] {
		case 1:
			out = out.WithBounds(axis, lo[axis], math.Max(hi[axis]+d[axis], lo[axis]))
		case -1:
			out = out.WithBounds(axis, math.Min(lo[axis]+d[axis], hi[axis]), hi[axis])
		}
	}
	return out
}

// MaintainAspect scales every axis in axes by one relative factor so that the
// proportions of start are kept.
//
// The factor is the relative size change of candidate with the largest
// magnitude among the driving axes: drivers when non-empty, otherwise the axes
// of dir. Axes with zero starting size contribute nothing and stay zero. The
// centre moves towards dir by half the size change, which keeps the opposite
// bound fixed on the handle's axes and grows the others symmetrically.
func MaintainAspect(start, candidate vector.Box, dir vector.HandleDirection, axes, drivers vector.AxisMask) vector.Box {
	if drivers == vector.AxesNone {
		drivers = dir.Mask()
	}
	scalar := 0.0
	for _, axis := range drivers.Axes() {
		if start.Size[axis] == 0 {
			continue
		}
		r := (candidate.Size[axis] - start.Size[axis]) / start.Size[axis]
		if math.Abs(r) > math.Abs(scalar) {
			scalar = r
		}
	}

	out := start
	for _, axis := range axes.Axes() {
		if start.Size[axis] == 0 {
			continue
		}
		size := math.Max(start.Size[axis]*(1+scalar), 0)
		out.Size[axis] = size
		out.Center[axis] = start.Center[axis] + float64(dir[axis])*(size-start.Size[axis])/2
	}
	return out
}

func finiteVec(v mgl64.Vec3) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
