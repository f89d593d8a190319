// SPDX-License-Identifier: MIT
//
// Package engine implements the refinement driver, algorithm-G: a
// LIFO worklist over intangible subgraph handles, each item filtered,
// pruned, mincut, split, or accepted until every surviving cluster
// satisfies the active connectivity requirement. The LIFO order makes
// the refinement depth-first, which only matters for reproducibility.
package engine

import (
	"context"
	"fmt"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/hm01/cm/clusterer"
	"github.com/hm01/cm/core"
	"github.com/hm01/cm/cutoracle"
	"github.com/hm01/cm/pruner"
	"github.com/hm01/cm/requirement"
	"github.com/hm01/cm/subgraph"
	"github.com/hm01/cm/tree"
)

// IgnoreFilter short-circuits refinement for clusters the caller
// wants passed through: a cluster accepted by this filter is appended
// to the outputs unchanged, without ever being realized, mincut, or
// recursed into.
type IgnoreFilter struct {
	IgnoreTrees       bool
	IgnoreSmallerThan int
}

// Accepts reports whether i should be passed through unchanged.
func (f IgnoreFilter) Accepts(i *subgraph.Intangible, global *core.Graph) bool {
	if f.IgnoreTrees && i.IsTreeLike(global) {
		return true
	}
	if f.IgnoreSmallerThan > 0 && i.N() < f.IgnoreSmallerThan {
		return true
	}

	return false
}

// Result bundles algorithm-G's return values: the accepted clusters,
// the node-to-cluster assignment, and the refinement hierarchy.
type Result struct {
	Outputs    []*subgraph.Intangible
	Membership map[string]string
	Tree       *tree.Tree
}

// AlgorithmG runs the recursive divide-and-filter refinement loop
// over the initial cluster list, using oracle for mincuts and c for
// re-clustering each bisected half, until every surviving cluster
// satisfies req or is filtered/pruned away.
func AlgorithmG(
	ctx context.Context,
	global *core.Graph,
	initial []*subgraph.Intangible,
	c clusterer.Clusterer,
	req requirement.Requirement,
	filter IgnoreFilter,
	oracle *cutoracle.Oracle,
	workDir string,
	logger hclog.Logger,
) (Result, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	t := tree.New("", global.VertexCount())
	nodes := map[string]*tree.Node{"": t.Root}
	for _, g := range initial {
		n := &tree.Node{Index: g.Index, NumNodes: g.N()}
		t.Root.AddChild(n)
		nodes[g.Index] = n
	}

	stack := make([]*subgraph.Intangible, len(initial))
	copy(stack, initial)

	var outputs []*subgraph.Intangible
	membership := make(map[string]string)

	logger.Info("starting algorithm-g", "queue_size", len(stack))

	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		updateMembership(i, membership)

		if i.N() <= 1 {
			continue
		}

		if filter.Accepts(i, global) {
			logger.Debug("filtered cluster", "index", i.Index)
			outputs = append(outputs, i)
			markExtant(nodes, i.Index)
			continue
		}

		h, err := i.Realize(global)
		if err != nil {
			return Result{}, fmt.Errorf("engine: AlgorithmG: realize %s: %w", i.Index, err)
		}
		treeNode, ok := nodes[i.Index]
		if !ok {
			return Result{}, fmt.Errorf("engine: AlgorithmG: missing tree node for %s", i.Index)
		}

		originalMcd := h.Mcd()
		numPruned := pruner.Prune(h, req, c.SupportsK(), c.K)
		if numPruned > 0 {
			treeNode.CutSize = intPtr(originalMcd)
			logger.Info("pruned cluster", "index", h.Index, "num_pruned", numPruned)

			h.Index = h.Index + "δ"
			prunedNode := &tree.Node{Index: h.Index, NumNodes: h.N()}
			treeNode.AddChild(prunedNode)
			nodes[h.Index] = prunedNode
			treeNode = prunedNode

			updateMembership(h.ToIntangible(), membership)
		}

		result, err := oracle.Mincut(ctx, h, workDir)
		if err != nil {
			return Result{}, fmt.Errorf("engine: AlgorithmG: mincut %s: %w", h.Index, err)
		}
		threshold := req.Threshold(h.N(), h.Mcd(), c.SupportsK(), c.K, -1)
		treeNode.CutSize = intPtr(result.CutSize)
		treeNode.ValidityThreshold = floatPtr(threshold)

		logger.Debug("mincut computed", "index", h.Index, "cut_size", result.CutSize, "threshold", threshold)

		if result.CutSize > 0 && float64(result.CutSize) <= threshold {
			a, b := h.Split(result.Light, result.Heavy)
			nodeA := &tree.Node{Index: a.Index, NumNodes: a.N()}
			nodeB := &tree.Node{Index: b.Index, NumNodes: b.N()}
			treeNode.AddChild(nodeA)
			treeNode.AddChild(nodeB)
			nodes[a.Index] = nodeA
			nodes[b.Index] = nodeB

			gA := core.InducedSubgraph(global, membersOf(a))
			gB := core.InducedSubgraph(global, membersOf(b))
			subA, err := c.ClusterWithoutSingletons(ctx, gA, a.Index, workDir)
			if err != nil {
				return Result{}, fmt.Errorf("engine: AlgorithmG: recluster %s: %w", a.Index, err)
			}
			subB, err := c.ClusterWithoutSingletons(ctx, gB, b.Index, workDir)
			if err != nil {
				return Result{}, fmt.Errorf("engine: AlgorithmG: recluster %s: %w", b.Index, err)
			}
			for _, sg := range subA {
				nodes[sg.Index] = nodeA.AddChild(&tree.Node{Index: sg.Index, NumNodes: sg.N()})
			}
			for _, sg := range subB {
				nodes[sg.Index] = nodeB.AddChild(&tree.Node{Index: sg.Index, NumNodes: sg.N()})
			}

			logger.Info("cluster split", "index", h.Index, "num_a_side", len(subA), "num_b_side", len(subB))

			stack = append(stack, subA...)
			stack = append(stack, subB...)
		} else {
			candidate := h.ToIntangible()
			mod := global.ModularityOf(membersOf(candidate), global.EdgeCount())
			if c.Kind == clusterer.IKC && mod <= 0 {
				logger.Info("cut valid but modularity non-positive, discarded", "index", h.Index, "modularity", mod)
				treeNode.Extant = false
			} else {
				outputs = append(outputs, candidate)
				treeNode.Extant = true
				logger.Info("cut valid, accepted", "index", h.Index)
			}
		}
	}

	return Result{Outputs: outputs, Membership: membership, Tree: t}, nil
}

func updateMembership(i *subgraph.Intangible, membership map[string]string) {
	for _, v := range i.Subset {
		membership[v] = i.Index
	}
}

func markExtant(nodes map[string]*tree.Node, index string) {
	if n, ok := nodes[index]; ok {
		n.Extant = true
	}
}

func membersOf(i *subgraph.Intangible) map[string]bool {
	m := make(map[string]bool, len(i.Subset))
	for _, v := range i.Subset {
		m[v] = true
	}

	return m
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
