// SPDX-License-Identifier: MIT
// Package: cm/builder
//
// impl_cycle.go — implementation of Cycle(n) and RingOfCliques(numCliques,
// cliqueSize) constructors. Both build ring topologies; RingOfCliques
// additionally fills each ring position with a complete subgraph, giving
// the "ring of cliques joined by bridges" fixture used to exercise
// connectivity refinement's split/accept decision on a cut that is valid
// (cut_size>0) yet exceeds the configured threshold.
//
// Contract:
//   • n ≥ 3 (else ErrTooFewVertices).
//   • Adds vertices via cfg.idFn in ascending index order (0..n-1).
//   • Emits edges in stable order i -> (i+1)%n for i=0..n-1.
//   • Weight policy: if g.Weighted() then cfg.weightFn(cfg.rng) else 0.
//   • Honors core mode flags (Directed/Loops/Multigraph) without silent degrade.
//   • Returns only sentinel errors; never panics at runtime.
//
// Complexity:
//   • Time: O(n) vertices + O(n) edges.
//   • Space: O(1) extra (iter vars only).
//
// Determinism:
//   • Deterministic IDs via cfg.idFn.
//   • Deterministic edge emission order by increasing i.
//   • Deterministic weights given fixed cfg.rng/weightFn.

package builder

import (
	"fmt"

	"github.com/hm01/cm/core"
)

// File-local constants (no magic numbers; stable method tags for context).
const (
	methodCycle   = "Cycle"
	minCycleNodes = 3

	methodRingOfCliques = "RingOfCliques"
	minRingCliques      = 3
	minRingCliqueSize   = 1
)

// Cycle returns a Constructor that builds an n-vertex simple cycle C_n.
func Cycle(n int) Constructor {
	// Return a closure capturing n; BuildGraph will pass (g,cfg).
	return func(g *core.Graph, cfg builderConfig) error {
		// Validate parameter domain early (fail fast, no work on invalid input).
		if n < minCycleNodes {
			// Provide deterministic context while preserving sentinel semantics.
			return fmt.Errorf("%s: n=%d < min=%d: %w", methodCycle, n, minCycleNodes, ErrTooFewVertices)
		}

		// Add n vertices with deterministic IDs produced by cfg.idFn.
		for i := 0; i < n; i++ {
			// Compute vertex ID for index i.
			id := cfg.idFn(i)
			// Insert vertex into the core graph (core enforces mode invariants).
			if err := g.AddVertex(id); err != nil {
				// Wrap the core error with method context and return.
				return fmt.Errorf("%s: AddVertex(%s): %w", methodCycle, id, err)
			}
		}

		// Precompute whether weights are observed by the core graph.
		useWeight := g.Weighted()

		// Emit edges in ascending i; for i==n-1, connect to 0 to close the ring.
		for i := 0; i < n; i++ {
			// Compute ordered pair (u,v) for the ring step.
			uID := cfg.idFn(i)
			vID := cfg.idFn((i + 1) % n)

			// Choose edge weight based on graph weighting policy.
			var w int64
			if useWeight {
				// Call configured generator; determinism depends on rng seed.
				w = cfg.weightFn(cfg.rng)
			} else {
				// Unweighted policy → zero weight (ignored by core).
				w = 0
			}

			// Add the ring edge; core handles directed/undirected per its flags.
			if _, err := g.AddEdge(uID, vID, w); err != nil {
				// Wrap and return immediately on first failure (no partial cleanup).
				return fmt.Errorf("%s: AddEdge(%s→%s, w=%d): %w", methodCycle, uID, vID, w, err)
			}
		}

		// Success: cycle fully constructed.
		return nil
	}
}

// RingOfCliques returns a Constructor that builds numCliques complete
// subgraphs K_cliqueSize, arranged in a ring where clique c's last vertex
// is bridged by a single edge to clique (c+1)%numCliques's first vertex.
// Each clique is thus incident to exactly two bridge edges: removing it
// from the ring severs a cut of size 2 regardless of cliqueSize.
func RingOfCliques(numCliques, cliqueSize int) Constructor {
	// The returned closure captures (numCliques, cliqueSize); BuildGraph
	// supplies (g, cfg).
	return func(g *core.Graph, cfg builderConfig) error {
		if numCliques < minRingCliques {
			return fmt.Errorf("%s: numCliques=%d < min=%d: %w",
				methodRingOfCliques, numCliques, minRingCliques, ErrTooFewVertices)
		}
		if cliqueSize < minRingCliqueSize {
			return fmt.Errorf("%s: cliqueSize=%d < min=%d: %w",
				methodRingOfCliques, cliqueSize, minRingCliqueSize, ErrTooFewVertices)
		}

		// Add vertices clique-by-clique, in ascending global index order.
		ids := make([][]string, numCliques)
		for c := 0; c < numCliques; c++ {
			ids[c] = make([]string, cliqueSize)
			for i := 0; i < cliqueSize; i++ {
				id := cfg.idFn(c*cliqueSize + i)
				ids[c][i] = id
				if err := g.AddVertex(id); err != nil {
					return fmt.Errorf("%s: AddVertex(%s): %w", methodRingOfCliques, id, err)
				}
			}
		}

		useWeight := g.Weighted()

		// Fill each ring position with a complete subgraph.
		for c := 0; c < numCliques; c++ {
			for i := 0; i < cliqueSize; i++ {
				for j := i + 1; j < cliqueSize; j++ {
					var w int64
					if useWeight {
						w = cfg.weightFn(cfg.rng)
					}
					if _, err := g.AddEdge(ids[c][i], ids[c][j], w); err != nil {
						return fmt.Errorf("%s: AddEdge(%s→%s, w=%d): %w",
							methodRingOfCliques, ids[c][i], ids[c][j], w, err)
					}
				}
			}
		}

		// Bridge each clique to the next, closing the ring.
		for c := 0; c < numCliques; c++ {
			next := (c + 1) % numCliques
			u := ids[c][cliqueSize-1]
			v := ids[next][0]
			var w int64
			if useWeight {
				w = cfg.weightFn(cfg.rng)
			}
			if _, err := g.AddEdge(u, v, w); err != nil {
				return fmt.Errorf("%s: bridge AddEdge(%s→%s, w=%d): %w",
					methodRingOfCliques, u, v, w, err)
			}
		}

		// Success: ring of cliques fully constructed.
		return nil
	}
}
