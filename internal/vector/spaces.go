/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Coordinate spaces: moving boxes, points and rays between local, parent and world.

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Space names a coordinate frame.
type Space int

const (
	SpaceLocal Space = iota
	SpaceParent
	SpaceWorld
)

func (s Space) String() string {
	switch s {
	case SpaceLocal:
		return "local"
	case SpaceParent:
		return "parent"
	case SpaceWorld:
		return "world"
	default:
		return "unknown"
	}
}

// Transform is an affine matrix with its inverse.
type Transform struct {
	Matrix  mgl64.Mat4
	Inverse mgl64.Mat4
}

// IdentityTransform maps every space onto itself.
var IdentityTransform = Transform{Matrix: mgl64.Ident4(), Inverse: mgl64.Ident4()}

// NewTransform computes the inverse of m. A singular m yields a zero inverse,
// matching mgl64.Mat4.Inv.
func NewTransform(m mgl64.Mat4) Transform {
	return Transform{Matrix: m, Inverse: m.Inv()}
}

// TRS composes translation, rotation about Z (radians) and scale.
func TRS(t mgl64.Vec3, rotZ float64, s mgl64.Vec3) Transform {
	m := mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(mgl64.HomogRotate3DZ(rotZ)).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
	return NewTransform(m)
}

// Then returns the transform applying t first and next second.
func (t Transform) Then(next Transform) Transform {
	return Transform{Matrix: next.Matrix.Mul4(t.Matrix), Inverse: t.Inverse.Mul4(next.Inverse)}
}

func (t Transform) Point(p mgl64.Vec3) mgl64.Vec3 { return mgl64.TransformCoordinate(p, t.Matrix) }
func (t Transform) InversePoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, t.Inverse)
}
func (t Transform) Vector(v mgl64.Vec3) mgl64.Vec3 { return mgl64.TransformNormal(v, t.Matrix) }
func (t Transform) InverseVector(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformNormal(v, t.Inverse)
}

// Axis returns the unit world direction of a local axis.
func (t Transform) Axis(axis int) mgl64.Vec3 {
	v := t.Matrix.Col(axis).Vec3()
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}

// Forward is the normalised local Z axis, i.e. the normal of a flat box.
func (t Transform) Forward() mgl64.Vec3 { return t.Axis(Z) }

// TransformBounds transforms the corners of b by m and returns the axis-aligned
// box enclosing them.
//
// The result is not rotation preserving: transforming a box by a rotation and
// back yields a box that encloses the original and is usually larger. Callers
// that need stable sizes must keep the local box and transform separately.
func TransformBounds(b Box, m mgl64.Mat4) Box {
	var corners [8]mgl64.Vec3
	n := b.Corners(&corners)
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < n; i++ {
		p := mgl64.TransformCoordinate(corners[i], m)
		for a := 0; a < 3; a++ {
			lo[a] = math.Min(lo[a], p[a])
			hi[a] = math.Max(hi[a], p[a])
		}
	}
	return BoxFromMinMax(lo, hi)
}

// AreCoplanar reports whether the two local spaces share the same forward axis
// within tol (1 - cos of the allowed angle).
func AreCoplanar(a, b mgl64.Mat4, tol float64) bool {
	fa := a.Col(Z).Vec3()
	fb := b.Col(Z).Vec3()
	if fa.Len() == 0 || fb.Len() == 0 {
		return false
	}
	return fa.Normalize().Dot(fb.Normalize()) >= 1-tol
}

// SelectionSpace decides whether a multi-selection can be manipulated as 2D
// boxes in their shared plane (SpaceLocal) or must fall back to world space.
func SelectionSpace(ts []Transform, tol float64) Space {
	if len(ts) <= 1 {
		return SpaceLocal
	}
	for _, t := range ts[1:] {
		if !AreCoplanar(ts[0].Matrix, t.Matrix, tol) {
			return SpaceWorld
		}
	}
	return SpaceLocal
}

// Frames chains local -> parent -> world.
type Frames struct {
	LocalToParent Transform
	ParentToWorld Transform
}

// IdentityFrames has every space coincide.
var IdentityFrames = Frames{LocalToParent: IdentityTransform, ParentToWorld: IdentityTransform}

// LocalToWorld returns the combined transform.
func (f Frames) LocalToWorld() Transform {
	f = f.orIdentity()
	return f.LocalToParent.Then(f.ParentToWorld)
}

// orIdentity lets the zero Frames value mean "all spaces coincide".
func (f Frames) orIdentity() Frames {
	var zero mgl64.Mat4
	if f.LocalToParent.Matrix == zero {
		f.LocalToParent = IdentityTransform
	}
	if f.ParentToWorld.Matrix == zero {
		f.ParentToWorld = IdentityTransform
	}
	return f
}

// Matrix returns the matrix taking coordinates from one space to another.
func (f Frames) Matrix(from, to Space) mgl64.Mat4 {
	return f.fromWorld(to).Mul4(f.toWorld(from))
}

func (f Frames) toWorld(s Space) mgl64.Mat4 {
	f = f.orIdentity()
	switch s {
	case SpaceLocal:
		return f.ParentToWorld.Matrix.Mul4(f.LocalToParent.Matrix)
	case SpaceParent:
		return f.ParentToWorld.Matrix
	default:
		return mgl64.Ident4()
	}
}

func (f Frames) fromWorld(s Space) mgl64.Mat4 {
	f = f.orIdentity()
	switch s {
	case SpaceLocal:
		return f.LocalToParent.Inverse.Mul4(f.ParentToWorld.Inverse)
	case SpaceParent:
		return f.ParentToWorld.Inverse
	default:
		return mgl64.Ident4()
	}
}

func (f Frames) Point(p mgl64.Vec3, from, to Space) mgl64.Vec3 {
	if from == to {
		return p
	}
	return mgl64.TransformCoordinate(p, f.Matrix(from, to))
}

func (f Frames) Vector(v mgl64.Vec3, from, to Space) mgl64.Vec3 {
	if from == to {
		return v
	}
	return mgl64.TransformNormal(v, f.Matrix(from, to))
}

// Box re-encloses b in another space; see TransformBounds for the caveats.
func (f Frames) Box(b Box, from, to Space) Box {
	if from == to {
		return b
	}
	return TransformBounds(b, f.Matrix(from, to))
}

func (f Frames) Ray(r Ray, from, to Space) Ray {
	return Ray{Origin: f.Point(r.Origin, from, to), Direction: f.Vector(r.Direction, from, to)}
}
