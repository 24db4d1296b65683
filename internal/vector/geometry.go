/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Basic 3D box geometry for bounds manipulation.
// A Box with Size.Z() == 0 is a flattened 2D box; most routines treat it as a
// rectangle in the XY plane and only touch 4 corners.

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned bounding volume in some local space.
// All components of Size are non-negative.
type Box struct {
	Center mgl64.Vec3
	Size   mgl64.Vec3
}

// B builds a box from center and size components.
func B(cx, cy, cz, w, h, d float64) Box {
	return Box{Center: mgl64.Vec3{cx, cy, cz}, Size: mgl64.Vec3{w, h, d}}
}

// BoxFromMinMax returns the box spanning lo..hi. Swapped components are ordered.
func BoxFromMinMax(lo, hi mgl64.Vec3) Box {
	var b Box
	for i := 0; i < 3; i++ {
		a, c := lo[i], hi[i]
		if a > c {
			a, c = c, a
		}
		b.Center[i] = (a + c) / 2
		b.Size[i] = c - a
	}
	return b
}

func (b Box) Min() mgl64.Vec3 { return b.Center.Sub(b.Size.Mul(0.5)) }
func (b Box) Max() mgl64.Vec3 { return b.Center.Add(b.Size.Mul(0.5)) }

// IsFlat reports whether the box has no depth.
func (b Box) IsFlat() bool { return b.Size[2] == 0 }

// Corners writes the box corners into dst and returns how many were written:
// 4 for a flat box, 8 otherwise. dst is caller-owned so hot paths stay allocation free.
func (b Box) Corners(dst *[8]mgl64.Vec3) int {
	lo, hi := b.Min(), b.Max()
	n := 8
	if b.IsFlat() {
		n = 4
	}
	for i := 0; i < n; i++ {
		c := lo
		if i&1 != 0 {
			c[0] = hi[0]
		}
		if i&2 != 0 {
			c[1] = hi[1]
		}
		if i&4 != 0 {
			c[2] = hi[2]
		}
		dst[i] = c
	}
	return n
}

// Encloses reports whether o lies inside b, allowing eps slack per side.
func (b Box) Encloses(o Box, eps float64) bool {
	bl, bh := b.Min(), b.Max()
	ol, oh := o.Min(), o.Max()
	for i := 0; i < 3; i++ {
		if ol[i] < bl[i]-eps || oh[i] > bh[i]+eps {
			return false
		}
	}
	return true
}

// ClampSize returns b with negative size components replaced by 0.
func (b Box) ClampSize() Box {
	for i := 0; i < 3; i++ {
		if b.Size[i] < 0 || math.IsNaN(b.Size[i]) {
			b.Size[i] = 0
		}
	}
	return b
}

// WithBounds returns a box that keeps b on every axis except axis, which spans lo..hi.
func (b Box) WithBounds(axis int, lo, hi float64) Box {
	if lo > hi {
		lo, hi = hi, lo
	}
	b.Center[axis] = (lo + hi) / 2
	b.Size[axis] = hi - lo
	return b
}

// Axis indices.
const (
	X = 0
	Y = 1
	Z = 2
)

// AxisMask is a per-axis flag set describing which axes a manipulation may affect.
type AxisMask uint8

const (
	AxisX AxisMask = 1 << iota
	AxisY
	AxisZ

	AxesNone AxisMask = 0
	AxesXY            = AxisX | AxisY
	AxesAll           = AxisX | AxisY | AxisZ
)

// MaskFor returns the single-axis mask for an axis index.
func MaskFor(axis int) AxisMask { return AxisMask(1) << uint(axis) }

func (m AxisMask) Has(axis int) bool { return m&MaskFor(axis) != 0 }

// Count returns the number of flagged axes.
func (m AxisMask) Count() int {
	n := 0
	for i := 0; i < 3; i++ {
		if m.Has(i) {
			n++
		}
	}
	return n
}

// Axes lists the flagged axis indices in X, Y, Z order.
func (m AxisMask) Axes() []int {
	out := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		if m.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

func (m AxisMask) String() string {
	if m == AxesNone {
		return "none"
	}
	var b strings.Builder
	for i, n := range [3]string{"x", "y", "z"} {
		if m.Has(i) {
			b.WriteString(n)
		}
	}
	return b.String()
}

// HandleDirection identifies the dragged corner, edge or face of a box.
// Components are in {-1, 0, 1}; the zero direction is the move handle.
type HandleDirection [3]int

// Dir builds a direction, reducing every component to its sign.
func Dir(x, y, z int) HandleDirection {
	return HandleDirection{sign(x), sign(y), sign(z)}
}

func (d HandleDirection) IsMove() bool { return d == HandleDirection{} }

// Mask returns the axes with a non-zero component.
func (d HandleDirection) Mask() AxisMask {
	var m AxisMask
	for i := 0; i < 3; i++ {
		if d[i] != 0 {
			m |= MaskFor(i)
		}
	}
	return m
}

// Only returns d with every component except axis zeroed.
func (d HandleDirection) Only(axis int) HandleDirection {
	var o HandleDirection
	o[axis] = d[axis]
	return o
}

// Restrict zeroes the components not flagged in m.
func (d HandleDirection) Restrict(m AxisMask) HandleDirection {
	for i := 0; i < 3; i++ {
		if !m.Has(i) {
			d[i] = 0
		}
	}
	return d
}

func (d HandleDirection) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(d[0]), float64(d[1]), float64(d[2])}
}

// String names the handle, e.g. "right-bottom" or "move".
func (d HandleDirection) String() string {
	if d.IsMove() {
		return "move"
	}
	names := [3][2]string{{"left", "right"}, {"bottom", "top"}, {"back", "front"}}
	parts := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		switch d[i] {
		case -1:
			parts = append(parts, names[i][0])
		case 1:
			parts = append(parts, names[i][1])
		}
	}
	return strings.Join(parts, "-")
}

// Ray is an origin and a direction. Direction need not be normalised.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 { return r.Origin.Add(r.Direction.Mul(t)) }

// Plane is defined by a point and a normal.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// Intersect returns where r crosses p. Rays parallel to the plane miss.
// Unlike a picking ray, hits behind the origin are returned too: a drag may
// legitimately move the pointer to the far side of the start point.
func (p Plane) Intersect(r Ray) (mgl64.Vec3, bool) {
	denom := r.Direction.Dot(p.Normal)
	if math.Abs(denom) < 1e-12 {
		return mgl64.Vec3{}, false
	}
	t := p.Point.Sub(r.Origin).Dot(p.Normal) / denom
	return r.At(t), true
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func signf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// finite reports whether every component is a finite number.
func finite(v ...float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// FloatRound rounds v to n decimal places deterministically.
func FloatRound(v float64, places int) float64 {
	if places < 0 {
		return v
	}
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

// RoundVec rounds every component of v to n decimal places.
func RoundVec(v mgl64.Vec3, places int) mgl64.Vec3 {
	return mgl64.Vec3{FloatRound(v[0], places), FloatRound(v[1], places), FloatRound(v[2], places)}
}
