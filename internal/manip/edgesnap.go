/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package manip

// Edge snapping: pulling the moving edge of a resized box onto the nearest
// edge of a neighbouring box when it is close enough on screen.

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"layoutbounds/internal/vector"
)

// DefaultSnapThreshold is the pixel distance used when Resolver.Threshold is not set.
const DefaultSnapThreshold = 6

// EdgeHit is a candidate edge found along a query ray.
type EdgeHit struct {
	Point mgl64.Vec3
	// ID correlates the hit with the box it came from.
	ID string
	// Space is the space Point is expressed in.
	Space vector.Space
}

// EdgeFinder looks up the nearest candidate edge along ray. dir is the
// single-axis handle direction being snapped. Implementations are called up to
// twice per axis per frame and must be cheap to repeat.
type EdgeFinder interface {
	NearestEdge(candidate vector.Box, dir vector.HandleDirection, ray vector.Ray) (EdgeHit, bool)
}

// EdgeFinderFunc adapts a function to EdgeFinder.
type EdgeFinderFunc func(candidate vector.Box, dir vector.HandleDirection, ray vector.Ray) (EdgeHit, bool)

func (f EdgeFinderFunc) NearestEdge(candidate vector.Box, dir vector.HandleDirection, ray vector.Ray) (EdgeHit, bool) {
	return f(candidate, dir, ray)
}

// AxisHit records the snap applied on one axis.
type AxisHit struct {
	Axis int
	Hit  EdgeHit
	// Distance is the screen distance in pixels between the edge and the hit.
	Distance float64
	// Value is the new local bound on Axis.
	Value float64
}

// SnapResult is the outcome of TrySnap. When Snapped is false Box equals the candidate.
type SnapResult struct {
	Snapped bool
	Box     vector.Box
	// HitID is the id of the nearest accepted hit over all axes.
	HitID string
	Hits  []AxisHit
}

// Mask returns the axes that snapped.
func (r SnapResult) Mask() vector.AxisMask {
	var m vector.AxisMask
	for _, h := range r.Hits {
		m |= vector.MaskFor(h.Axis)
	}
	return m
}

// Nearest returns the accepted hit with the smallest screen distance, the
// first in axis order on ties.
func (r SnapResult) Nearest() (AxisHit, bool) {
	if len(r.Hits) == 0 {
		return AxisHit{}, false
	}
	best := r.Hits[0]
	for _, h := range r.Hits[1:] {
		if h.Distance < best.Distance {
			best = h
		}
	}
	return best, true
}

// boundEpsilon is how far a re-fitted bound may drift from its hit and still
// count as snapped.
const boundEpsilon = 1e-7

// LockAspect re-fits a snapped result to the proportions of start. The nearest
// hit alone drives the scale so its edge stays exact; hits on other axes are
// kept only where the re-fitted bound still sits on them. The result is
// unsnapped if no hit survives.
func (r SnapResult) LockAspect(start vector.Box, dir vector.HandleDirection, axes vector.AxisMask) SnapResult {
	n, ok := r.Nearest()
	if !ok {
		return r
	}
	out := SnapResult{Box: MaintainAspect(start, r.Box, dir, axes, vector.MaskFor(n.Axis))}
	lo, hi := out.Box.Min(), out.Box.Max()
	bestDist := math.Inf(1)
	for _, h := range r.Hits {
		if math.Abs(bound(dir[h.Axis], lo[h.Axis], hi[h.Axis])-h.Value) > boundEpsilon {
			continue
		}
		out.Snapped = true
		out.Hits = append(out.Hits, h)
		if h.Distance < bestDist {
			bestDist = h.Distance
			out.HitID = h.Hit.ID
		}
	}
	return out
}

// Resolver decides whether a candidate box snaps onto neighbouring edges.
type Resolver struct {
	// View holds the camera and the frames the candidate box lives in.
	View vector.View
	// Threshold is the exclusive pixel distance below which a hit is accepted.
	Threshold float64
}

// TrySnap tests every active axis of dir. The moving edge's midpoint is cast
// outwards and inwards along the axis; of the hits closer than Threshold on
// screen the nearer one replaces the bound; on equal distances the outward hit
// wins. Axes without a valid hit are left untouched, so an unsnapped result
// returns candidate as is.
func (r Resolver) TrySnap(candidate vector.Box, dir vector.HandleDirection, q EdgeFinder) SnapResult {
	res := SnapResult{Box: candidate}
	if q == nil || dir.IsMove() {
		return res
	}
	threshold := r.Threshold
	if threshold <= 0 {
		threshold = DefaultSnapThreshold
	}
	frames := r.View.Frames

	bestDist := math.Inf(1)
	for _, axis := range dir.Mask().Axes() {
		side := dir[axis]
		lo, hi := res.Box.Min(), res.Box.Max()

		origin := candidate.Center
		origin[axis] = bound(side, lo[axis], hi[axis])
		worldOrigin := frames.Point(origin, vector.SpaceLocal, vector.SpaceWorld)

		var unit mgl64.Vec3
		unit[axis] = float64(side)
		outward := frames.Vector(unit, vector.SpaceLocal, vector.SpaceWorld)
		if outward.Len() == 0 {
			continue
		}
		outward = outward.Normalize()

		found := false
		var best AxisHit
		for _, d := range [2]mgl64.Vec3{outward, outward.Mul(-1)} {
			hit, ok := q.NearestEdge(candidate, dir.Only(axis), vector.Ray{Origin: worldOrigin, Direction: d})
			if !ok {
				continue
			}
			hitWorld := frames.Point(hit.Point, hit.Space, vector.SpaceWorld)
			dist := r.View.Camera.ScreenDistance(worldOrigin, hitWorld)
			// outward is tried first and keeps ties
			if !(dist < threshold) || (found && dist >= best.Distance) {
				continue
			}
			found = true
			best = AxisHit{
				Axis:     axis,
				Hit:      hit,
				Distance: dist,
				Value:    frames.Point(hit.Point, hit.Space, vector.SpaceLocal)[axis],
			}
		}
		if !found {
			continue
		}

		if side > 0 {
			res.Box = res.Box.WithBounds(axis, lo[axis], math.Max(best.Value, lo[axis]))
		} else {
			res.Box = res.Box.WithBounds(axis, math.Min(best.Value, hi[axis]), hi[axis])
		}
		res.Snapped = true
		res.Hits = append(res.Hits, best)
		if best.Distance < bestDist {
			bestDist = best.Distance
			res.HitID = best.Hit.ID
		}
	}
	return res
}
