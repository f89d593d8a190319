// SPDX-License-Identifier: MIT
//
// Package tree implements the refinement hierarchy: a rooted tree
// recording every split, prune, and terminal cluster produced by the
// refinement engine, so downstream analysis can attribute each output
// cluster to an ancestor in the original clustering.
package tree

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/xlab/treeprint"
)

// Node is one node of the hierarchy tree: the root corresponds to the
// global graph, its children are the initial clusters, inner nodes
// arise from prunes and bisections, and leaves marked Extant form the
// final output clustering.
type Node struct {
	Index             string   `json:"index"`
	NumNodes          int      `json:"num_nodes"`
	CutSize           *int     `json:"cut_size,omitempty"`
	ValidityThreshold *float64 `json:"validity_threshold,omitempty"`
	Extant            bool     `json:"extant"`
	Children          []*Node  `json:"children,omitempty"`
}

// AddChild appends child to n's children and returns it, so inserts
// can be chained.
func (n *Node) AddChild(child *Node) *Node {
	n.Children = append(n.Children, child)

	return child
}

// Tree is the rooted refinement hierarchy.
type Tree struct {
	Root *Node `json:"root"`
}

// New creates a Tree whose root annotates the global graph of size n.
func New(rootIndex string, n int) *Tree {
	return &Tree{Root: &Node{Index: rootIndex, NumNodes: n}}
}

// MarshalJSON serializes the tree to the hierarchical ".tree.json"
// output format.
func (t *Tree) MarshalJSON() ([]byte, error) {
	type alias Tree

	return json.Marshal((*alias)(t))
}

// WriteJSON writes the tree's indented JSON encoding to w, the
// payload of the "<output>.tree.json" file.
func (t *Tree) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(t)
}

// Render writes a human-readable indented tree view to w using
// treeprint, for the CLI's --verbose debug output.
func (t *Tree) Render(w io.Writer) error {
	root := treeprint.New()
	root.SetValue(describeNode(t.Root))
	populate(root, t.Root)
	_, err := fmt.Fprintln(w, root.String())

	return err
}

func populate(branch treeprint.Tree, n *Node) {
	for _, child := range n.Children {
		sub := branch.AddBranch(describeNode(child))
		populate(sub, child)
	}
}

func describeNode(n *Node) string {
	extant := ""
	if n.Extant {
		extant = " [extant]"
	}
	cut := ""
	if n.CutSize != nil {
		cut = fmt.Sprintf(" cut=%d", *n.CutSize)
	}

	return fmt.Sprintf("%s (n=%d)%s%s", n.Index, n.NumNodes, cut, extant)
}

// ExtantLeaves returns every node in the tree marked Extant. Each
// corresponds to exactly one cluster in the final output.
func (t *Tree) ExtantLeaves() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Extant {
			out = append(out, n)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(t.Root)

	return out
}
