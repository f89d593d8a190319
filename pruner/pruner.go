// SPDX-License-Identifier: MIT
//
// Package pruner implements the low-degree vertex peeling pass run
// before the mincut oracle: it cheaply removes vertices whose induced
// degree already falls at or below the current connectivity
// threshold, since such vertices would otherwise guarantee a small
// cut and be chopped off by the oracle one bisection at a time.
package pruner

import (
	"container/heap"

	"github.com/hm01/cm/requirement"
	"github.com/hm01/cm/subgraph"
)

// degreeItem is one entry in the min-priority queue: a vertex keyed
// by its current induced degree in the realized subgraph being
// pruned. index tracks its position in the heap for O(log n)
// heap.Fix calls after a neighbor's degree changes.
type degreeItem struct {
	vertex string
	degree int
	index  int
	dead   bool
}

type degreeHeap []*degreeItem

func (h degreeHeap) Len() int            { return len(h) }
func (h degreeHeap) Less(i, j int) bool  { return h[i].degree < h[j].degree }
func (h degreeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *degreeHeap) Push(x interface{}) {
	item := x.(*degreeItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *degreeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return item
}

// Prune peels low-degree vertices off a realized subgraph h, given
// the active connectivity requirement, clusterer gamma-applicability
// (k is only meaningful for the IKC clusterer), and k itself.
// Returns the number of vertices deleted.
//
// If h's current mcd already exceeds the threshold, no pruning is
// possible or needed. Otherwise, repeatedly pop the minimum-degree
// vertex; if its degree exceeds the threshold computed with that
// degree substituted for mcd, stop. Substituting the popped degree
// keeps the stop predicate monotone along the pop sequence, so the
// peel order is deterministic. The threshold is re-evaluated against
// the shrinking vertex count on every pop.
func Prune(h *subgraph.Realized, req requirement.Requirement, gammaApplicable bool, k int) int {
	mcd0 := h.Mcd()
	if float64(mcd0) > req.Threshold(h.N(), mcd0, gammaApplicable, k, -1) {
		return 0
	}

	items := make(map[string]*degreeItem)
	pq := make(degreeHeap, 0, h.N())
	for _, v := range h.LocalIDs() {
		d, err := h.Degree(v)
		if err != nil {
			continue
		}
		item := &degreeItem{vertex: v, degree: d}
		items[v] = item
		pq = append(pq, item)
	}
	heap.Init(&pq)

	deleted := 0
	for pq.Len() > 0 {
		top := pq[0]
		if float64(top.degree) > req.Threshold(h.N(), mcd0, gammaApplicable, k, top.degree) {
			break
		}
		heap.Pop(&pq)
		delete(items, top.vertex)

		neighbors, err := h.Neighbors(top.vertex)
		if err == nil {
			for _, nb := range neighbors {
				if item, ok := items[nb]; ok {
					item.degree--
					heap.Fix(&pq, item.index)
				}
			}
		}

		if err := h.RemoveVertex(top.vertex); err != nil {
			// The vertex was already accounted for in the heap; a removal
			// failure here indicates it vanished from h through some other
			// path (should not happen given single-threaded use) — stop
			// rather than risk an inconsistent degree sequence.
			break
		}
		deleted++
	}

	h.Graph.InvalidateMcd()

	return deleted
}
