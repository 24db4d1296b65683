/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSnapDirection2D_Cardinals(t *testing.T) {
	cases := []struct {
		in   mgl64.Vec2
		want mgl64.Vec2
	}{
		{mgl64.Vec2{0.1, 1}, mgl64.Vec2{0, 1}},
		{mgl64.Vec2{1, -0.2}, mgl64.Vec2{1, 0}},
		{mgl64.Vec2{-0.05, -3}, mgl64.Vec2{0, -1}},
		{mgl64.Vec2{-2, 0.3}, mgl64.Vec2{-1, 0}},
		{mgl64.Vec2{1, 1.1}, mgl64.Vec2{invSqrt2, invSqrt2}},
		{mgl64.Vec2{-1, -0.9}, mgl64.Vec2{-invSqrt2, -invSqrt2}},
	}
	for _, c := range cases {
		got := SnapDirection2D(c.in, 30)
		if !got.ApproxEqualThreshold(c.want, 1e-12) {
			t.Fatalf("SnapDirection2D(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestSnapDirection2D_ToleranceWidensDiagonals(t *testing.T) {
	// 25 degrees off up: straight with tol 30 (diagonal zone 30..60), diagonal with tol 60 (15..75)
	d := mgl64.Vec2{math.Sin(mgl64.DegToRad(25)), math.Cos(mgl64.DegToRad(25))}
	if got := SnapDirection2D(d, 30); got != (mgl64.Vec2{0, 1}) {
		t.Fatalf("tol 30: got %v", got)
	}
	if got := SnapDirection2D(d, 60); !got.ApproxEqualThreshold(mgl64.Vec2{invSqrt2, invSqrt2}, 1e-12) {
		t.Fatalf("tol 60: got %v", got)
	}
}

func TestSnapDirection2D_BoundaryGoesToUpperBin(t *testing.T) {
	// tol 30 puts the up/up-right boundary at 30 degrees
	got := SnapDirection2D(mgl64.Vec2{math.Sin(mgl64.DegToRad(30.0000001)), math.Cos(mgl64.DegToRad(30.0000001))}, 30)
	if !got.ApproxEqualThreshold(mgl64.Vec2{invSqrt2, invSqrt2}, 1e-12) {
		t.Fatalf("just past the boundary should be diagonal, got %v", got)
	}
	got = SnapDirection2D(mgl64.Vec2{math.Sin(mgl64.DegToRad(29.9999999)), math.Cos(mgl64.DegToRad(29.9999999))}, 30)
	if got != (mgl64.Vec2{0, 1}) {
		t.Fatalf("just before the boundary should be up, got %v", got)
	}
}

func TestSnapDirection2D_AlwaysCanonicalAndIdempotent(t *testing.T) {
	for _, tol := range []float64{0, 10, 30, 45, 80, 90} {
		for deg := 0.0; deg < 360; deg += 7.3 {
			d := mgl64.Vec2{math.Sin(mgl64.DegToRad(deg)), math.Cos(mgl64.DegToRad(deg))}.Mul(3.5)
			s := SnapDirection2D(d, tol)
			if !IsCompass(s) {
				t.Fatalf("tol=%v deg=%v: %v is not canonical", tol, deg, s)
			}
			if again := SnapDirection2D(s, tol); !again.ApproxEqualThreshold(s, 1e-12) {
				t.Fatalf("tol=%v deg=%v: not idempotent %v -> %v", tol, deg, s, again)
			}
		}
	}
}

func TestSnapDirection2D_ZeroIsReturnedUnchanged(t *testing.T) {
	if got := SnapDirection2D(mgl64.Vec2{}, 30); got != (mgl64.Vec2{}) {
		t.Fatalf("zero vector changed: %v", got)
	}
	nan := mgl64.Vec2{math.NaN(), 1}
	if got := SnapDirection2D(nan, 30); !math.IsNaN(got[0]) {
		t.Fatalf("non-finite input should pass through, got %v", got)
	}
}

func TestSnapDirection3D(t *testing.T) {
	cases := []struct {
		in   mgl64.Vec3
		want mgl64.Vec3
	}{
		{mgl64.Vec3{1, 0.1, 0.05}, mgl64.Vec3{1, 0, 0}},
		{mgl64.Vec3{1, 1, 0.02}, mgl64.Vec3{1, 1, 0}.Normalize()},
		{mgl64.Vec3{-1, 1.05, -0.98}, mgl64.Vec3{-1, 1, -1}.Normalize()},
		{mgl64.Vec3{0, 0, -4}, mgl64.Vec3{0, 0, -1}},
	}
	for _, c := range cases {
		got := SnapDirection3D(c.in, 30)
		if !got.ApproxEqualThreshold(c.want, 1e-12) {
			t.Fatalf("SnapDirection3D(%v) = %v, want %v", c.in, got, c.want)
		}
		if again := SnapDirection3D(got, 30); !again.ApproxEqualThreshold(got, 1e-12) {
			t.Fatalf("SnapDirection3D not idempotent for %v: %v", got, again)
		}
	}
	if got := SnapDirection3D(mgl64.Vec3{}, 30); got != (mgl64.Vec3{}) {
		t.Fatalf("zero vector changed: %v", got)
	}
}
