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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layoutbounds/internal/vector"
)

func assertVec(t *testing.T, want, got mgl64.Vec3, msg string) {
	t.Helper()
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want[i], got[i], 1e-9, "%s: component %d of %v", msg, i, got)
	}
}

func TestResizeRightEdgeUnlocked(t *testing.T) {
	s := NewSession(vector.B(0, 0, 0, 10, 10, 0), vector.IdentityFrames, vector.Dir(1, 0, 0), vector.AxesXY, false)
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{3, 0, 0}})
	assertVec(t, mgl64.Vec3{13, 10, 0}, got.Size, "size")
	assertVec(t, mgl64.Vec3{1.5, 0, 0}, got.Center, "center")
}

func TestResizeRightEdgeLocked(t *testing.T) {
	s := NewSession(vector.B(0, 0, 0, 10, 10, 0), vector.IdentityFrames, vector.Dir(1, 0, 0), vector.AxesXY, false)
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{3, 0, 0}, LockAspect: true})
	assertVec(t, mgl64.Vec3{13, 13, 0}, got.Size, "size")
	// X keeps its left bound, Y grows around the centre
	assertVec(t, mgl64.Vec3{1.5, 0, 0}, got.Center, "center")
	assert.InDelta(t, -5, got.Min().X(), 1e-9)

	// the session default engages the lock without the modifier
	s.AspectLocked = true
	again := Resize(s, ResizeInput{Delta: mgl64.Vec3{3, 0, 0}})
	assertVec(t, got.Size, again.Size, "session lock")
}

func TestResizeLeftEdgeNeverCrosses(t *testing.T) {
	s := NewSession(vector.B(0, 0, 0, 10, 10, 0), vector.IdentityFrames, vector.Dir(-1, 0, 0), vector.AxesXY, false)
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{15, 0, 0}})
	assert.Equal(t, 0.0, got.Size.X())
	assert.InDelta(t, 5, got.Center.X(), 1e-12, "the right bound holds")

	locked := Resize(s, ResizeInput{Delta: mgl64.Vec3{15, 0, 0}, LockAspect: true})
	for i := 0; i < 3; i++ {
		assert.GreaterOrEqual(t, locked.Size[i], 0.0)
	}
}

func TestResizeCornerLockedUsesLargestRelativeChange(t *testing.T) {
	s := NewSession(vector.B(0, 0, 0, 20, 10, 0), vector.IdentityFrames, vector.Dir(1, 1, 0), vector.AxesXY, true)
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{2, 4, 0}})
	// X changes by 10%, Y by 40%: Y drives
	assertVec(t, mgl64.Vec3{28, 14, 0}, got.Size, "size")
	assertVec(t, mgl64.Vec3{4, 2, 0}, got.Center, "center")
}

func TestResizeLockedKeepsRatios(t *testing.T) {
	start := vector.B(3, -2, 0, 16, 9, 0)
	dirs := []vector.HandleDirection{
		vector.Dir(1, 0, 0), vector.Dir(-1, 0, 0), vector.Dir(0, 1, 0),
		vector.Dir(1, 1, 0), vector.Dir(-1, 1, 0), vector.Dir(-1, -1, 0),
	}
	for _, dir := range dirs {
		s := NewSession(start, vector.IdentityFrames, dir, vector.AxesXY, true)
		for dx := -7.0; dx <= 7; dx += 3.5 {
			for dy := -4.0; dy <= 4; dy += 2 {
				got := Resize(s, ResizeInput{Delta: mgl64.Vec3{dx, dy, 0}})
				require.GreaterOrEqual(t, got.Size.X(), 0.0)
				require.GreaterOrEqual(t, got.Size.Y(), 0.0)
				assert.Equal(t, 0.0, got.Size.Z(), "flat boxes stay flat")
				if got.Size.Y() > 1e-9 {
					assert.InDelta(t, 16.0/9.0, got.Size.X()/got.Size.Y(), 1e-9, "dir %v delta (%v,%v)", dir, dx, dy)
				}
			}
		}
	}
}

func TestResizeDegenerateAxis(t *testing.T) {
	s := NewSession(vector.B(0, 0, 0, 0, 10, 0), vector.IdentityFrames, vector.Dir(1, 1, 0), vector.AxesXY, true)
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{5, 1, 0}})
	assert.False(t, math.IsNaN(got.Size.X()) || math.IsInf(got.Size.X(), 0))
	assert.Equal(t, 0.0, got.Size.X(), "a zero axis stays zero under the lock")
	assert.InDelta(t, 11, got.Size.Y(), 1e-9)
}

func TestResizeRecomputesFromSnapshot(t *testing.T) {
	s := NewSession(vector.B(0, 0, 0, 10, 10, 0), vector.IdentityFrames, vector.Dir(1, 0, 0), vector.AxesXY, false)
	_ = Resize(s, ResizeInput{Delta: mgl64.Vec3{7, 0, 0}})
	_ = Resize(s, ResizeInput{Delta: mgl64.Vec3{-2, 0, 0}})
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{3, 0, 0}})
	assertVec(t, mgl64.Vec3{13, 10, 0}, got.Size, "size")
	assert.Equal(t, vector.B(0, 0, 0, 10, 10, 0), s.Start, "the snapshot is never written")
}

func TestResizeMove(t *testing.T) {
	s := NewSession(vector.B(1, 1, 0, 4, 4, 0), vector.IdentityFrames, vector.Dir(0, 0, 0), vector.AxesXY, false)
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{3, 4, 9}})
	assertVec(t, mgl64.Vec3{4, 5, 0}, got.Center, "Z is outside the session axes")
	assertVec(t, mgl64.Vec3{4, 4, 0}, got.Size, "size")

	snapped := Resize(s, ResizeInput{Delta: mgl64.Vec3{5, 1, 0}, SnapDirection: true, Tolerance: 30})
	assertVec(t, mgl64.Vec3{6, 1, 0}, snapped.Center, "direction snapped move")
}

func TestResizeUsesLocalFrame(t *testing.T) {
	frames := vector.Frames{LocalToParent: vector.TRS(mgl64.Vec3{40, 0, 0}, 0, mgl64.Vec3{2, 2, 1})}
	s := NewSession(vector.B(0, 0, 0, 10, 10, 0), frames, vector.Dir(1, 0, 0), vector.AxesXY, false)
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{6, 0, 0}})
	assertVec(t, mgl64.Vec3{13, 10, 0}, got.Size, "six world units are three local units")

	rot := vector.Frames{LocalToParent: vector.TRS(mgl64.Vec3{}, math.Pi/2, mgl64.Vec3{1, 1, 1})}
	s = NewSession(vector.B(0, 0, 0, 10, 10, 0), rot, vector.Dir(1, 0, 0), vector.AxesXY, false)
	got = Resize(s, ResizeInput{Delta: mgl64.Vec3{0, 3, 0}})
	assertVec(t, mgl64.Vec3{13, 10, 0}, got.Size, "local X points along world Y")
}

func TestResizeIgnoresNonFiniteDelta(t *testing.T) {
	s := NewSession(vector.B(0, 0, 0, 10, 10, 0), vector.IdentityFrames, vector.Dir(1, 0, 0), vector.AxesXY, false)
	got := Resize(s, ResizeInput{Delta: mgl64.Vec3{math.NaN(), 0, 0}})
	assert.Equal(t, s.Start, got)
}

func TestMaintainAspectWithDriver(t *testing.T) {
	start := vector.B(0, 0, 0, 10, 20, 0)
	// +20% on X, +40% on Y
	candidate := start.WithBounds(vector.X, -5, 7)
	candidate = candidate.WithBounds(vector.Y, -10, 18)
	got := MaintainAspect(start, candidate, vector.Dir(1, 1, 0), vector.AxesXY, vector.AxisX)
	assertVec(t, mgl64.Vec3{12, 24, 0}, got.Size, "X drives")
	assert.InDelta(t, 7, got.Max().X(), 1e-9)
}
