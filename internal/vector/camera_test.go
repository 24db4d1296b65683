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

func TestOrthoCameraMapsUnitsToPixels(t *testing.T) {
	cam := NewOrthoCamera(800, 600)
	s := cam.WorldToScreen(mgl64.Vec3{100, 50, 0})
	if math.Abs(s[0]-100) > 1e-9 || math.Abs(s[1]-50) > 1e-9 {
		t.Fatalf("unexpected screen position %v", s)
	}
	if d := cam.ScreenDistance(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 4, 0}); math.Abs(d-5) > 1e-9 {
		t.Fatalf("unexpected screen distance %v", d)
	}
}

func TestScreenRayHitsPointUnderCursor(t *testing.T) {
	cam := NewOrthoCamera(800, 600)
	r, err := cam.ScreenRay(mgl64.Vec2{120, 80})
	if err != nil {
		t.Fatalf("ScreenRay: %v", err)
	}
	hit, ok := Plane{Normal: mgl64.Vec3{0, 0, 1}}.Intersect(r)
	if !ok {
		t.Fatalf("expected the ray to cross z=0")
	}
	if math.Abs(hit[0]-120) > 1e-6 || math.Abs(hit[1]-80) > 1e-6 {
		t.Fatalf("unexpected hit %v", hit)
	}
}

func TestPerspectiveCameraForwardAndProjection(t *testing.T) {
	cam := NewPerspectiveCamera(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 60, 800, 600)
	f := cam.Forward()
	if math.Abs(f[2]+1) > 1e-9 {
		t.Fatalf("camera looking at origin from +Z should face -Z, got %v", f)
	}
	c := cam.WorldToScreen(mgl64.Vec3{})
	if math.Abs(c[0]-400) > 1e-6 || math.Abs(c[1]-300) > 1e-6 {
		t.Fatalf("origin should project to the viewport centre, got %v", c)
	}
	near := cam.WorldToScreen(mgl64.Vec3{1, 0, 5})
	far := cam.WorldToScreen(mgl64.Vec3{1, 0, -5})
	if near[0]-400 <= far[0]-400 {
		t.Fatalf("closer points should project further from centre: near=%v far=%v", near, far)
	}
}

func TestViewProjectsLocalPoints(t *testing.T) {
	v := View{
		Camera: NewOrthoCamera(800, 600),
		Frames: Frames{LocalToParent: TRS(mgl64.Vec3{200, 100, 0}, 0, mgl64.Vec3{2, 2, 1})},
	}
	s := v.ToScreen(mgl64.Vec3{5, 5, 0})
	if math.Abs(s[0]-210) > 1e-9 || math.Abs(s[1]-110) > 1e-9 {
		t.Fatalf("unexpected projection %v", s)
	}
}
