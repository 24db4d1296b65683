/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package scenario reads recorded pointer sessions and replays them through
// the manipulation engine. Scenarios are JSON documents validated against an
// embedded schema before they are decoded.
package scenario

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	gojsonschema "github.com/xeipuuv/gojsonschema"

	"layoutbounds/internal/vector"
)

//go:embed schema.json
var schemaJSON []byte

// ErrInvalid is returned (wrapped) when a document does not match the schema.
var ErrInvalid = errors.New("invalid scenario")

// Schema returns the embedded JSON schema.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Camera struct {
	Kind   string      `json:"kind"`
	Eye    *mgl64.Vec3 `json:"eye,omitempty"`
	Center *mgl64.Vec3 `json:"center,omitempty"`
	Up     *mgl64.Vec3 `json:"up,omitempty"`
	Fovy   float64     `json:"fovy,omitempty"`
}

// Options override the tool configuration for one scenario. Nil fields keep
// the configured value.
type Options struct {
	HoverRadius        *float64 `json:"hover_radius,omitempty"`
	CornerRadius       *float64 `json:"corner_radius,omitempty"`
	SnapEnabled        *bool    `json:"snap_enabled,omitempty"`
	SnapThreshold      *float64 `json:"snap_threshold,omitempty"`
	DirectionTolerance *float64 `json:"direction_tolerance,omitempty"`
	AspectLocked       *bool    `json:"aspect_locked,omitempty"`
	Reach              *float64 `json:"reach,omitempty"`
}

type Box struct {
	ID     string     `json:"id,omitempty"`
	Center mgl64.Vec3 `json:"center"`
	Size   mgl64.Vec3 `json:"size"`
}

func (b Box) Box() vector.Box { return vector.Box{Center: b.Center, Size: b.Size} }

// Transform is translate, rotate about Z, rotate about X, then scale, applied
// to points right to left. Angles are in degrees.
type Transform struct {
	Translate mgl64.Vec3  `json:"translate"`
	RotateZ   float64     `json:"rotate_z"`
	RotateX   float64     `json:"rotate_x,omitempty"`
	Scale     *mgl64.Vec3 `json:"scale,omitempty"`
}

func (t *Transform) transform() vector.Transform {
	if t == nil {
		return vector.IdentityTransform
	}
	s := mgl64.Vec3{1, 1, 1}
	if t.Scale != nil {
		s = *t.Scale
	}
	if t.RotateX == 0 {
		return vector.TRS(t.Translate, mgl64.DegToRad(t.RotateZ), s)
	}
	m := mgl64.Translate3D(t.Translate[0], t.Translate[1], t.Translate[2]).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(t.RotateZ))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(t.RotateX))).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
	return vector.NewTransform(m)
}

// Input is one recorded frame.
type Input struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Down          bool    `json:"down"`
	LockAspect    bool    `json:"lock_aspect,omitempty"`
	SnapDirection bool    `json:"snap_direction,omitempty"`
	DisableSnap   bool    `json:"disable_snap,omitempty"`
	// Cancel aborts the running drag before the frame is ticked.
	Cancel bool `json:"cancel,omitempty"`
}

// Expect is the committed result a scenario asserts.
type Expect struct {
	Center    *mgl64.Vec3 `json:"center,omitempty"`
	Size      *mgl64.Vec3 `json:"size,omitempty"`
	Hit       string      `json:"hit,omitempty"`
	Tolerance float64     `json:"tolerance,omitempty"`
}

// Scenario is a decoded replay document.
type Scenario struct {
	Name          string     `json:"name,omitempty"`
	Viewport      Viewport   `json:"viewport"`
	Camera        *Camera    `json:"camera,omitempty"`
	Options       Options    `json:"options"`
	Box           Box        `json:"box"`
	LocalToParent *Transform `json:"local_to_parent,omitempty"`
	ParentToWorld *Transform `json:"parent_to_world,omitempty"`
	Axes          string     `json:"axes,omitempty"`
	Siblings      []Box      `json:"siblings,omitempty"`
	// Selection holds the local-to-world transforms of the other selected boxes.
	Selection []Transform `json:"selection,omitempty"`
	Frames    []Input     `json:"frames"`
	Expect    *Expect     `json:"expect,omitempty"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse validates data against the schema and decodes it.
func Parse(data []byte) (*Scenario, error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
	}
	var sc Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return &sc, nil
}

// WorldFrames returns the local-to-world chain of the manipulated box.
func (sc *Scenario) WorldFrames() vector.Frames {
	return vector.Frames{LocalToParent: sc.LocalToParent.transform(), ParentToWorld: sc.ParentToWorld.transform()}
}

// SelectionTransforms returns the transforms of the other selected boxes.
func (sc *Scenario) SelectionTransforms() []vector.Transform {
	if len(sc.Selection) == 0 {
		return nil
	}
	out := make([]vector.Transform, len(sc.Selection))
	for i := range sc.Selection {
		out[i] = sc.Selection[i].transform()
	}
	return out
}

// AxisMask parses Axes; an empty string leaves the choice to the tool.
func (sc *Scenario) AxisMask() vector.AxisMask {
	var m vector.AxisMask
	for i, c := range "xyz" {
		if strings.ContainsRune(sc.Axes, c) {
			m |= vector.MaskFor(i)
		}
	}
	return m
}

// BuildCamera returns the scenario camera, orthographic unless stated otherwise.
func (sc *Scenario) BuildCamera() vector.Camera {
	w, h := sc.Viewport.Width, sc.Viewport.Height
	if sc.Camera == nil || sc.Camera.Kind != "perspective" {
		return vector.NewOrthoCamera(w, h)
	}
	c := sc.Camera
	eye, center, up := mgl64.Vec3{0, 0, 1000}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}
	if c.Eye != nil {
		eye = *c.Eye
	}
	if c.Center != nil {
		center = *c.Center
	}
	if c.Up != nil {
		up = *c.Up
	}
	fovy := c.Fovy
	if fovy == 0 {
		fovy = 45
	}
	return vector.NewPerspectiveCamera(eye, center, up, fovy, w, h)
}
