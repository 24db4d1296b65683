/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package spatial keeps the world-space boxes that a manipulated box can snap
// to and answers nearest-edge queries against them with an R-tree.
package spatial

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"

	"layoutbounds/internal/manip"
	"layoutbounds/internal/vector"
)

// pad thickens stored and queried rectangles: rtreego treats touching
// rectangles as disjoint and flat boxes have no depth.
const pad = 1e-6

// DefaultMaxDistance is how far along a ray NearestEdge looks by default.
const DefaultMaxDistance = 1e4

var _ manip.EdgeFinder = (*Index)(nil)

type sibling struct {
	id   string
	box  vector.Box
	rect rtreego.Rect
}

func (s *sibling) Bounds() rtreego.Rect { return s.rect }

// Index is an R-tree of sibling boxes in world space.
type Index struct {
	tree    *rtreego.Rtree
	items   map[string]*sibling
	exclude map[string]struct{}

	// MaxDistance limits the query ray, in world units.
	MaxDistance float64
	// Reach widens the query across the ray so that edges of boxes the ray
	// passes beside still count. Zero only accepts boxes the ray crosses.
	Reach float64
}

// New returns an empty index.
func New() *Index {
	return &Index{
		tree:        rtreego.NewTree(3, 2, 8),
		items:       make(map[string]*sibling),
		exclude:     make(map[string]struct{}),
		MaxDistance: DefaultMaxDistance,
	}
}

// Add stores a world-space box and returns its id. An empty id gets a fresh
// UUID; an existing id is replaced.
func (ix *Index) Add(id string, box vector.Box) string {
	if id == "" {
		id = uuid.NewString()
	}
	ix.Remove(id)
	s := &sibling{id: id, box: box, rect: rectOf(box.Min(), box.Max(), pad)}
	ix.items[id] = s
	ix.tree.Insert(s)
	return id
}

// Remove deletes a box. It reports whether the id was present.
func (ix *Index) Remove(id string) bool {
	s, ok := ix.items[id]
	if !ok {
		return false
	}
	delete(ix.items, id)
	return ix.tree.Delete(s)
}

// Box returns the stored box for id.
func (ix *Index) Box(id string) (vector.Box, bool) {
	s, ok := ix.items[id]
	if !ok {
		return vector.Box{}, false
	}
	return s.box, true
}

func (ix *Index) Len() int { return ix.tree.Size() }

// IDs returns the stored ids in sorted order.
func (ix *Index) IDs() []string {
	out := make([]string, 0, len(ix.items))
	for id := range ix.items {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Exclude hides ids from queries, typically the box being manipulated. It
// replaces any earlier exclusion; call it without arguments to clear.
func (ix *Index) Exclude(ids ...string) {
	ix.exclude = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		ix.exclude[id] = struct{}{}
	}
}

// NearestEdge finds the closest sibling face plane crossed by ray, on the
// ray's dominant axis, within MaxDistance. A face the ray starts on counts,
// which keeps repeated snapping stable. Hits are in world space.
func (ix *Index) NearestEdge(_ vector.Box, _ vector.HandleDirection, ray vector.Ray) (manip.EdgeHit, bool) {
	if ray.Direction.Len() == 0 || ix.tree.Size() == 0 {
		return manip.EdgeHit{}, false
	}
	dir := ray.Direction.Normalize()
	axis := dominantAxis(dir)
	maxDist := ix.MaxDistance
	if maxDist <= 0 {
		maxDist = DefaultMaxDistance
	}

	end := ray.Origin.Add(dir.Mul(maxDist))
	lo, hi := ray.Origin, end
	for i := 0; i < 3; i++ {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}
	slab := rectOf(lo, hi, ix.Reach+pad)

	var (
		best  *sibling
		bestT = math.Inf(1)
		hit   manip.EdgeHit
	)
	for _, obj := range ix.tree.SearchIntersect(slab, ix.skipExcluded) {
		s := obj.(*sibling)
		bmin, bmax := s.box.Min(), s.box.Max()
		for _, plane := range [2]float64{bmin[axis], bmax[axis]} {
			t := (plane - ray.Origin[axis]) / dir[axis]
			if t < -pad || t > maxDist {
				continue
			}
			t = math.Max(t, 0)
			p := ray.Origin.Add(dir.Mul(t))
			p[axis] = plane
			if !ix.within(p, bmin, bmax, axis) {
				continue
			}
			if t < bestT || (t == bestT && best != nil && s.id < best.id) {
				best, bestT = s, t
				hit = manip.EdgeHit{Point: p, ID: s.id, Space: vector.SpaceWorld}
			}
		}
	}
	return hit, best != nil
}

func (ix *Index) skipExcluded(_ []rtreego.Spatial, obj rtreego.Spatial) (refuse, abort bool) {
	_, skip := ix.exclude[obj.(*sibling).id]
	return skip, false
}

// within checks p against the box extent on every axis but the ray's own.
func (ix *Index) within(p, lo, hi [3]float64, axis int) bool {
	tol := ix.Reach + pad
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if p[i] < lo[i]-tol || p[i] > hi[i]+tol {
			return false
		}
	}
	return true
}

func dominantAxis(d [3]float64) int {
	best := 0
	for i := 1; i < 3; i++ {
		if math.Abs(d[i]) > math.Abs(d[best]) {
			best = i
		}
	}
	return best
}

func rectOf(lo, hi [3]float64, grow float64) rtreego.Rect {
	a := rtreego.Point{lo[0] - grow, lo[1] - grow, lo[2] - grow}
	b := rtreego.Point{hi[0] + grow, hi[1] + grow, hi[2] + grow}
	// only fails on mismatched dimensions
	r, _ := rtreego.NewRectFromPoints(a, b)
	return r
}
