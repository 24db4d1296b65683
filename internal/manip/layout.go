/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manip

import "layoutbounds/internal/vector"

// Layout is the read-only accessor a layout system exposes for a box it has
// computed. LayoutVersion changes whenever the computed bounds change.
type Layout interface {
	LayoutVersion() uint64
	LayoutBounds() (vector.Box, vector.Frames)
}

// WithLayout returns f with Box, Frames and LayoutVersion taken from l.
func (f Frame) WithLayout(l Layout) Frame {
	f.Box, f.Frames = l.LayoutBounds()
	f.LayoutVersion = l.LayoutVersion()
	return f
}

// StaticLayout is a Layout over a fixed box. Set replaces the box and bumps
// the version.
type StaticLayout struct {
	box     vector.Box
	frames  vector.Frames
	version uint64
}

func NewStaticLayout(box vector.Box, frames vector.Frames) *StaticLayout {
	return &StaticLayout{box: box, frames: frames, version: 1}
}

func (l *StaticLayout) LayoutVersion() uint64 { return l.version }

func (l *StaticLayout) LayoutBounds() (vector.Box, vector.Frames) { return l.box, l.frames }

func (l *StaticLayout) Set(box vector.Box) {
	if box == l.box {
		return
	}
	l.box = box
	l.version++
}
