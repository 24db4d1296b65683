/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manip

import (
	"github.com/go-gl/mathgl/mgl64"

	"layoutbounds/internal/vector"
)

// DragSession is the snapshot taken when a drag starts. Every frame of the
// drag is computed from it, never from the previous frame's output.
type DragSession struct {
	Start  vector.Box
	Frames vector.Frames
	// Direction is the dragged handle, already restricted to Axes.
	Direction vector.HandleDirection
	Axes      vector.AxisMask
	// AspectLocked makes every frame behave as if the aspect modifier were held.
	AspectLocked bool

	// Plane is the world-space drag plane and StartHit the pointer's hit on it
	// at pointer-down. Both are zero for sessions built without a pointer.
	Plane       vector.Plane
	StartHit    mgl64.Vec3
	PointerDown mgl64.Vec2
	// LayoutVersion is the layout version the drag started from, 0 if unknown.
	LayoutVersion uint64
}

// NewSession snapshots a drag of handle dir on box start.
func NewSession(start vector.Box, frames vector.Frames, dir vector.HandleDirection, axes vector.AxisMask, aspectLocked bool) *DragSession {
	return &DragSession{
		Start:        start,
		Frames:       frames,
		Direction:    dir.Restrict(axes),
		Axes:         axes,
		AspectLocked: aspectLocked,
	}
}

// Delta returns the world-space pointer movement for a hit on the drag plane.
func (s *DragSession) Delta(hit mgl64.Vec3) mgl64.Vec3 { return hit.Sub(s.StartHit) }

// localDelta brings a world delta into the box's local space at drag start.
func (s *DragSession) localDelta(world mgl64.Vec3) mgl64.Vec3 {
	return s.Frames.Vector(world, vector.SpaceWorld, vector.SpaceLocal)
}
