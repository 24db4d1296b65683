/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera carries the view/projection used for screen-space distances.
// Screen coordinates follow OpenGL window conventions: origin bottom-left, Y up.
type Camera struct {
	View       mgl64.Mat4
	Projection mgl64.Mat4
	// Viewport is x, y, width, height in pixels.
	Viewport [4]int
}

// NewOrthoCamera returns a camera looking down -Z where one world unit is one
// pixel and world (0,0) is the bottom-left of the viewport.
func NewOrthoCamera(width, height int) Camera {
	return Camera{
		View:       mgl64.Ident4(),
		Projection: mgl64.Ortho(0, float64(width), 0, float64(height), -1000, 1000),
		Viewport:   [4]int{0, 0, width, height},
	}
}

// NewPerspectiveCamera builds a look-at camera with a vertical field of view in degrees.
func NewPerspectiveCamera(eye, center, up mgl64.Vec3, fovyDeg float64, width, height int) Camera {
	aspect := 1.0
	if height > 0 {
		aspect = float64(width) / float64(height)
	}
	return Camera{
		View:       mgl64.LookAtV(eye, center, up),
		Projection: mgl64.Perspective(mgl64.DegToRad(fovyDeg), aspect, 0.1, 10000),
		Viewport:   [4]int{0, 0, width, height},
	}
}

// WorldToScreen projects a world point to pixel coordinates.
func (c Camera) WorldToScreen(p mgl64.Vec3) mgl64.Vec2 {
	v := c.Viewport
	w := mgl64.Project(p, c.View, c.Projection, v[0], v[1], v[2], v[3])
	return mgl64.Vec2{w[0], w[1]}
}

// ScreenDistance is the pixel distance between two projected world points.
func (c Camera) ScreenDistance(a, b mgl64.Vec3) float64 {
	return c.WorldToScreen(a).Sub(c.WorldToScreen(b)).Len()
}

// ScreenRay returns the world ray under a pixel, from the near to the far plane.
func (c Camera) ScreenRay(px mgl64.Vec2) (Ray, error) {
	v := c.Viewport
	near, err := mgl64.UnProject(mgl64.Vec3{px[0], px[1], 0}, c.View, c.Projection, v[0], v[1], v[2], v[3])
	if err != nil {
		return Ray{}, fmt.Errorf("unproject near: %w", err)
	}
	far, err := mgl64.UnProject(mgl64.Vec3{px[0], px[1], 1}, c.View, c.Projection, v[0], v[1], v[2], v[3])
	if err != nil {
		return Ray{}, fmt.Errorf("unproject far: %w", err)
	}
	return Ray{Origin: near, Direction: far.Sub(near)}, nil
}

// Forward is the world direction the camera looks along.
func (c Camera) Forward() mgl64.Vec3 {
	f := mgl64.TransformNormal(mgl64.Vec3{0, 0, -1}, c.View.Inv())
	if f.Len() == 0 {
		return mgl64.Vec3{0, 0, -1}
	}
	return f.Normalize()
}

// View projects points of a local space through a camera.
type View struct {
	Camera Camera
	Frames Frames
}

// ToScreen projects a local-space point to pixels.
func (v View) ToScreen(local mgl64.Vec3) mgl64.Vec2 {
	return v.Camera.WorldToScreen(v.Frames.Point(local, SpaceLocal, SpaceWorld))
}

// ToWorld maps a local point to world space.
func (v View) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return v.Frames.Point(local, SpaceLocal, SpaceWorld)
}
