// File: view.go
// Role: Non-mutating graph views (cloning topology with altered properties).
// Determinism:
//   - Preserves vertex/edge IDs and directedness. No reordering guarantees beyond core rules.
// Concurrency:
//   - Read locks on source; result is a fresh graph instance.
// AI-HINT (file):
//   - Views do NOT mutate the input Graph.
//   - InducedSubgraph keeps only vertices in 'keep' and edges with both endpoints kept.

package core

import (
	"fmt"
	"strconv"
)

// configOptions reconstructs the GraphOption slice that would recreate
// g's construction-time flags, used by every view/clone/compaction
// routine in this package so the flag-copying logic lives in exactly
// one place.
func configOptions(g *Graph) []GraphOption {
	opts := []GraphOption{WithDirected(g.Directed())}
	if g.Weighted() {
		opts = append(opts, WithWeighted())
	}
	if g.Multigraph() {
		opts = append(opts, WithMultiEdges())
	}
	if g.Looped() {
		opts = append(opts, WithLoops())
	}
	if g.MixedEdges() {
		opts = append(opts, WithMixedEdges())
	}

	return opts
}

// Compact returns a new Graph whose vertex ids are the decimal strings
// "0".."n-1", assigned in ascending sorted order of g's original ids,
// together with the hydrator: hydrator[i] is the original id of
// compact vertex i. Edges are preserved with the same weights and
// directedness.
//
// Invariant: the hydrator is a bijection between {0..n-1} and g's
// vertex set.
//
// Complexity: O(V log V + E).
func (g *Graph) Compact() (compact *Graph, hydrator []string, err error) {
	// AI-HINT: deterministic relabeling — Vertices() is sorted, so a
	// given graph always compacts to the same "0".."n-1" assignment.
	original := g.Vertices() // already sorted ascending
	hydrator = make([]string, len(original))
	copy(hydrator, original)

	oldToNew := make(map[string]string, len(original))
	for i, old := range original {
		oldToNew[old] = strconv.Itoa(i)
	}

	compact = NewGraph(configOptions(g)...)

	for _, newID := range oldToNew {
		if addErr := compact.AddVertex(newID); addErr != nil {
			return nil, nil, fmt.Errorf("core: Compact: AddVertex(%s): %w", newID, addErr)
		}
	}

	seen := make(map[[2]string]bool, g.EdgeCount())
	for _, e := range g.Edges() {
		u, v := oldToNew[e.From], oldToNew[e.To]
		if !compact.Directed() {
			key := [2]string{u, v}
			if u > v {
				key = [2]string{v, u}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		if _, addErr := compact.AddEdge(u, v, e.Weight); addErr != nil {
			return nil, nil, fmt.Errorf("core: Compact: AddEdge(%s,%s): %w", u, v, addErr)
		}
	}

	return compact, hydrator, nil
}

// InducedSubgraph returns a new Graph induced by the set "keep" of vertex IDs:
// the result contains only vertices v where keep[v] is true, and all edges whose
// endpoints are both in keep. The input graph is not mutated.
//
// Complexity: O(V + E). Concurrency: read locks only on source.
func InducedSubgraph(g *Graph, keep map[string]bool) *Graph {
	// AI-HINT: Build problem-specific slices of the graph without side effects on 'g'.

	// Reuse the same configuration as g (including weighted flag).
	out := NewGraph(configOptions(g)...)

	// Copy only kept vertices.
	g.muVert.RLock()
	var id string
	var v *Vertex
	for id, v = range g.vertices {
		if keep[id] {
			out.vertices[id] = &Vertex{ID: v.ID, Metadata: v.Metadata}
			out.adjacencyList[id] = make(map[string]map[string]struct{})
		}
	}
	g.muVert.RUnlock()

	// Copy only edges whose endpoints are both kept; preserve ID and directedness.
	g.muEdgeAdj.RLock()
	var eid string
	var e, ne *Edge
	for eid, e = range g.edges {
		if !keep[e.From] || !keep[e.To] {
			continue
		}
		ne = &Edge{ID: eid, From: e.From, To: e.To, Weight: e.Weight, Directed: e.Directed}
		out.edges[eid] = ne
		ensureAdjacency(out, ne.From, ne.To)
		out.adjacencyList[ne.From][ne.To][eid] = struct{}{}
		if !ne.Directed && ne.From != ne.To {
			ensureAdjacency(out, ne.To, ne.From)
			out.adjacencyList[ne.To][ne.From][eid] = struct{}{}
		}
	}
	g.muEdgeAdj.RUnlock()

	return out
}
