// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/hm01/cm/clusterer"
	"github.com/hm01/cm/core"
	"github.com/hm01/cm/subgraph"
	"github.com/hm01/cm/tree"
)

// initialClustering obtains the first round of clusters: from an
// existing clustering file if --existing-clustering was given,
// otherwise by running the configured clusterer over the whole graph
// with singletons dropped.
func initialClustering(ctx context.Context, c clusterer.Clusterer, global *core.Graph, existingClusteringPath, workDir string) ([]*subgraph.Intangible, error) {
	if existingClusteringPath != "" {
		return c.FromExistingClustering(existingClusteringPath)
	}

	return c.ClusterWithoutSingletons(ctx, global, "", workDir)
}

// writeOutput writes whitespace-separated "node cluster_id" lines,
// one per node that received an assignment, sorted by node id for
// determinism.
func writeOutput(path string, membership map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing --output: %w", err)
	}
	defer f.Close()

	nodes := make([]string, 0, len(membership))
	for n := range membership {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	for _, n := range nodes {
		if _, err := fmt.Fprintf(f, "%s %s\n", n, membership[n]); err != nil {
			return fmt.Errorf("writing --output: %w", err)
		}
	}

	return nil
}

func writeTreeJSON(path string, t *tree.Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing tree json: %w", err)
	}
	defer f.Close()

	return t.WriteJSON(f)
}

func writeTreeText(path string, t *tree.Tree) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing tree text: %w", err)
	}
	defer f.Close()

	return t.Render(f)
}
