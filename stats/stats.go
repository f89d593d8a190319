// SPDX-License-Identifier: MIT
//
// Package stats computes post-hoc statistics over the final output
// clusters and renders them as a plain-text summary table printed
// after a CLI run.
package stats

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/hm01/cm/core"
	"github.com/hm01/cm/subgraph"
)

// Summary is the aggregate over a set of output clusters: how many
// there are, how much of the global graph they cover, and the spread
// of their sizes.
type Summary struct {
	NumClusters  int
	TotalNodes   int
	TotalEdges   int
	NodeCoverage float64
	EdgeCoverage float64
	ClusterSizes []int
}

// Summarize computes a Summary over clusters with respect to global.
func Summarize(global *core.Graph, clusters []*subgraph.Intangible) Summary {
	var s Summary
	for _, c := range clusters {
		if c.N() == 0 {
			continue
		}
		s.NumClusters++
		s.TotalNodes += c.N()
		s.TotalEdges += c.CountEdges(global)
		s.ClusterSizes = append(s.ClusterSizes, c.N())
	}

	if n := global.VertexCount(); n > 0 {
		s.NodeCoverage = float64(s.TotalNodes) / float64(n)
	}
	if m := global.EdgeCount(); m > 0 {
		s.EdgeCoverage = float64(s.TotalEdges) / float64(m)
	}
	sort.Ints(s.ClusterSizes)

	return s
}

// sizeSummary renders "min-median-max" over a sorted slice.
func sizeSummary(sorted []int) string {
	if len(sorted) == 0 {
		return "-"
	}
	min := sorted[0]
	max := sorted[len(sorted)-1]
	median := sorted[len(sorted)/2]
	if len(sorted)%2 == 0 && len(sorted) > 1 {
		median = (sorted[len(sorted)/2-1] + sorted[len(sorted)/2]) / 2
	}

	return fmt.Sprintf("%d-%d-%d", min, median, max)
}

// WriteTable prints a plain-text summary table to w.
func (s Summary) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "num_clusters\t%d\n", s.NumClusters)
	fmt.Fprintf(tw, "total_nodes\t%d\n", s.TotalNodes)
	fmt.Fprintf(tw, "node_coverage\t%.4f\n", s.NodeCoverage)
	fmt.Fprintf(tw, "total_edges\t%d\n", s.TotalEdges)
	fmt.Fprintf(tw, "edge_coverage\t%.4f\n", s.EdgeCoverage)
	fmt.Fprintf(tw, "cluster_sizes\t%s\n", sizeSummary(s.ClusterSizes))

	return tw.Flush()
}
