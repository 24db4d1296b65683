/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

// Compass snapping of drag directions.

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const invSqrt2 = 0.70710678118654752440084436210484903928483593768847

// compass lists the canonical directions clockwise from up, 45 degrees apart.
var compass = [8]mgl64.Vec2{
	{0, 1},
	{invSqrt2, invSqrt2},
	{1, 0},
	{invSqrt2, -invSqrt2},
	{0, -1},
	{-invSqrt2, -invSqrt2},
	{-1, 0},
	{-invSqrt2, invSqrt2},
}

// SnapDirection2D maps d onto the nearest of the 8 compass directions.
//
// The angle is measured clockwise from up (+Y). Straight directions own a zone
// of width 90-tol centred on them, diagonals a zone of width tol. Zones are
// half-open, so an angle on a boundary goes to the zone starting there.
// tol is clamped to [0, 90].
//
// d must not be the zero vector; a zero or non-finite d is returned unchanged.
func SnapDirection2D(d mgl64.Vec2, toleranceDeg float64) mgl64.Vec2 {
	if !finite(d[0], d[1]) || d.Len() == 0 {
		return d
	}
	return compass[compassIndex(d, toleranceDeg)]
}

// compassIndex returns the index into compass for d.
func compassIndex(d mgl64.Vec2, toleranceDeg float64) int {
	tol := mgl64.Clamp(toleranceDeg, 0, 90)
	straight := 90 - tol
	angle := mgl64.RadToDeg(math.Atan2(d[0], d[1]))
	// shift so that every quadrant starts at the lower edge of a straight zone
	a := math.Mod(angle+straight/2, 360)
	if a < 0 {
		a += 360
	}
	q := int(a / 90)
	if q > 3 {
		q = 3
	}
	if a-float64(q)*90 < straight {
		return 2 * q
	}
	return 2*q + 1
}

// SnapDirection3D snaps the XY, YZ and XZ projections of d independently and
// keeps a component only if every plane that sees it keeps it. Surviving
// components take the sign of d and the result is normalised, so the output is
// one of the 26 axis-aligned or diagonal unit directions.
//
// As with SnapDirection2D, a zero or non-finite d is returned unchanged.
func SnapDirection3D(d mgl64.Vec3, toleranceDeg float64) mgl64.Vec3 {
	if !finite(d[0], d[1], d[2]) || d.Len() == 0 {
		return d
	}
	keep := [3]bool{d[0] != 0, d[1] != 0, d[2] != 0}
	planes := [3][2]int{{X, Y}, {Y, Z}, {X, Z}}
	for _, p := range planes {
		u, v := d[p[0]], d[p[1]]
		if u == 0 && v == 0 {
			continue
		}
		s := SnapDirection2D(mgl64.Vec2{u, v}, toleranceDeg)
		if s[0] == 0 {
			keep[p[0]] = false
		}
		if s[1] == 0 {
			keep[p[1]] = false
		}
	}

	var out mgl64.Vec3
	kept := false
	for i := 0; i < 3; i++ {
		if keep[i] {
			out[i] = signf(d[i])
			kept = true
		}
	}
	if !kept {
		// planar votes can cancel out on exact ties; fall back to the dominant axis
		best := 0
		for i := 1; i < 3; i++ {
			if math.Abs(d[i]) > math.Abs(d[best]) {
				best = i
			}
		}
		out[best] = signf(d[best])
	}
	return out.Normalize()
}

// IsCompass reports whether v is one of the 8 canonical 2D directions.
func IsCompass(v mgl64.Vec2) bool {
	for _, c := range compass {
		if c.ApproxEqualThreshold(v, 1e-9) {
			return true
		}
	}
	return false
}
