// SPDX-License-Identifier: MIT
//
// Package subgraph implements the two-flavor subgraph handle used by
// the refinement engine: an Intangible handle (an index plus a vertex
// subset, no materialized adjacency) and a Realized handle (an owned
// induced subgraph plus a hydrator mapping compact local ids back to
// the global graph's ids). Intangibles are cheap and travel on the
// worklist; a Realized is materialized only while its branch is being
// resolved.
package subgraph

import (
	"fmt"
	"sort"

	"github.com/hm01/cm/core"
)

// Intangible is a cheap handle: an index label plus the subset of
// original vertex ids in global graph G. It carries no adjacency.
type Intangible struct {
	Index  string
	Subset []string
}

// NewIntangible builds an Intangible over the given (unordered, unique)
// subset of original vertex ids.
func NewIntangible(index string, subset []string) *Intangible {
	cp := make([]string, len(subset))
	copy(cp, subset)

	return &Intangible{Index: index, Subset: cp}
}

// N returns the number of vertices in the handle.
func (i *Intangible) N() int {
	return len(i.Subset)
}

// Contains reports whether id is a member of the subset.
func (i *Intangible) Contains(id string) bool {
	for _, v := range i.Subset {
		if v == id {
			return true
		}
	}

	return false
}

// subsetMap materializes i.Subset as a membership set.
func (i *Intangible) subsetMap() map[string]bool {
	m := make(map[string]bool, len(i.Subset))
	for _, v := range i.Subset {
		m[v] = true
	}

	return m
}

// CountEdges counts edges of the global graph g with both endpoints in
// the handle's subset.
//
// Complexity: O(E_g).
func (i *Intangible) CountEdges(g *core.Graph) int {
	keep := i.subsetMap()
	n := 0
	for _, e := range g.Edges() {
		if keep[e.From] && keep[e.To] {
			n++
		}
	}

	return n
}

// InternalDegree returns the degree of vertex id restricted to edges
// landing inside the handle's subset.
func (i *Intangible) InternalDegree(id string, g *core.Graph) (int, error) {
	if !i.Contains(id) {
		return 0, fmt.Errorf("subgraph: InternalDegree: %q not in handle %s", id, i.Index)
	}
	d, err := g.InducedDegree(id, i.subsetMap())
	if err != nil {
		return 0, fmt.Errorf("subgraph: InternalDegree: %w", err)
	}

	return d, nil
}

// CountMcd returns the minimum internal degree over the handle's
// subset with respect to g (0 for an empty handle).
func (i *Intangible) CountMcd(g *core.Graph) (int, error) {
	if len(i.Subset) == 0 {
		return 0, nil
	}
	min := -1
	for _, id := range i.Subset {
		d, err := i.InternalDegree(id, g)
		if err != nil {
			return 0, err
		}
		if min == -1 || d < min {
			min = d
		}
	}

	return min, nil
}

// IsTreeLike reports whether the handle's internal edge count equals
// n-1: a cheap heuristic that deliberately does not verify acyclicity
// or connectivity.
func (i *Intangible) IsTreeLike(g *core.Graph) bool {
	n := i.N()
	if n == 0 {
		return false
	}

	return i.CountEdges(g) == n-1
}

// Realize materializes the handle into an owned induced subgraph with
// a compact "0".."n-1" relabeling and the hydrator inverting it.
func (i *Intangible) Realize(g *core.Graph) (*Realized, error) {
	keep := i.subsetMap()
	induced := core.InducedSubgraph(g, keep)
	compact, hydrator, err := induced.Compact()
	if err != nil {
		return nil, fmt.Errorf("subgraph: Realize(%s): %w", i.Index, err)
	}

	return &Realized{Index: i.Index, Graph: compact, Hydrator: hydrator}, nil
}

// Realized is an owned induced subgraph (its own compact adjacency)
// plus a hydrator mapping compact local ids "0".."n-1" to original
// global ids.
type Realized struct {
	Index    string
	Graph    *core.Graph
	Hydrator []string
}

// N returns the number of vertices.
func (r *Realized) N() int {
	return r.Graph.VertexCount()
}

// M returns the number of edges.
func (r *Realized) M() int {
	return r.Graph.EdgeCount()
}

// Mcd returns the memoized minimum core degree of the materialized
// adjacency.
func (r *Realized) Mcd() int {
	return r.Graph.Mcd()
}

// Degree returns the total degree of a compact local vertex id.
func (r *Realized) Degree(localID string) (int, error) {
	in, out, undirected, err := r.Graph.Degree(localID)
	if err != nil {
		return 0, fmt.Errorf("subgraph: Degree: %w", err)
	}

	return in + out + undirected, nil
}

// Neighbors returns the compact local ids adjacent to localID.
func (r *Realized) Neighbors(localID string) ([]string, error) {
	nbrs, err := r.Graph.NeighborIDs(localID)
	if err != nil {
		return nil, fmt.Errorf("subgraph: Neighbors: %w", err)
	}

	return nbrs, nil
}

// LocalIDs returns every compact local id currently present, sorted.
func (r *Realized) LocalIDs() []string {
	return r.Graph.Vertices()
}

// Hydrate maps a compact local id back to the original global id it
// was relabeled from.
func (r *Realized) Hydrate(localID string) (string, error) {
	idx, err := localIndex(localID)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(r.Hydrator) {
		return "", fmt.Errorf("subgraph: Hydrate: local id %q out of range for %s", localID, r.Index)
	}

	return r.Hydrator[idx], nil
}

// RemoveVertex removes a compact local vertex from the owned
// adjacency and invalidates the memoized Mcd.
func (r *Realized) RemoveVertex(localID string) error {
	if err := r.Graph.RemoveVertex(localID); err != nil {
		return fmt.Errorf("subgraph: RemoveVertex: %w", err)
	}
	r.Graph.InvalidateMcd()

	return nil
}

// ToIntangible re-intangibilizes the realized handle: its hydrated
// (original-id) vertex set under the same index. Realizing an
// intangible and converting back yields the same vertex set.
func (r *Realized) ToIntangible() *Intangible {
	locals := r.LocalIDs()
	subset := make([]string, 0, len(locals))
	for _, l := range locals {
		orig, err := r.Hydrate(l)
		if err != nil {
			continue
		}
		subset = append(subset, orig)
	}
	sort.Strings(subset)

	return NewIntangible(r.Index, subset)
}

// Split partitions the realized handle into two intangible children
// over original-id subsets light/heavy (a mincut result's two
// partitions, already hydrated back to global ids), suffixed "a" and
// "b" so child indices stay unique within a run.
func (r *Realized) Split(light, heavy []string) (a, b *Intangible) {
	a = NewIntangible(r.Index+"a", light)
	b = NewIntangible(r.Index+"b", heavy)

	return a, b
}

func localIndex(localID string) (int, error) {
	n := 0
	if localID == "" {
		return 0, fmt.Errorf("subgraph: empty local id")
	}
	for _, c := range localID {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("subgraph: non-compact local id %q", localID)
		}
		n = n*10 + int(c-'0')
	}

	return n, nil
}
