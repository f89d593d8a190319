// SPDX-License-Identifier: MIT
//
// Package clusterer adapts the two external community-detection tools
// behind one capability set: Cluster, ClusterWithoutSingletons,
// FromExistingClustering. The modularity/CPM family is an executable
// invoked over a compact-id edge list; the information-theoretic
// (IKC) family is a script run through a Python interpreter whose CSV
// output is parsed back into intangible subgraphs.
package clusterer

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/hm01/cm/cmcontext"
	"github.com/hm01/cm/core"
	"github.com/hm01/cm/subgraph"
)

// Kind tags which external tool a Clusterer delegates to.
type Kind int

const (
	// ModCPM delegates to the external community detector in CPM
	// quality mode, parameterized by Resolution.
	ModCPM Kind = iota
	// ModMod delegates to the external community detector in plain
	// modularity quality mode; it rejects a non-zero Resolution.
	ModMod
	// IKC delegates to the external information-theoretic k-core-style
	// clusterer, parameterized by K.
	IKC
)

func (k Kind) String() string {
	switch k {
	case ModCPM:
		return "modcpm"
	case ModMod:
		return "modmod"
	case IKC:
		return "ikc"
	default:
		return "unknown"
	}
}

// ErrResolutionNotSupported is returned when a non-zero Resolution is
// supplied to the ModMod quality mode, which has no resolution
// parameter.
var ErrResolutionNotSupported = errors.New("clusterer: modmod does not accept a resolution parameter")

// ErrToolFailed indicates the external clusterer subprocess exited
// non-zero or produced no usable output. Unlike a missing mincut
// output, this is fatal to the run.
var ErrToolFailed = errors.New("clusterer: external tool failed")

// ErrMissingParameter indicates a required parameter for the chosen
// clusterer kind was not supplied.
var ErrMissingParameter = errors.New("clusterer: missing required parameter")

// Clusterer is one struct tagged by Kind rather than an interface per
// tool: the three variants share every field but Resolution/K, and
// the operations that genuinely differ dispatch on the tag.
type Clusterer struct {
	Kind       Kind
	Resolution float64 // ModCPM only
	K          int     // IKC only
	ToolPath   string  // external executable (ModCPM/ModMod) or script (IKC)
	PythonPath string  // interpreter used to invoke IKC's ToolPath; defaults to "python"
	Logger     hclog.Logger
}

// SupportsK reports whether this clusterer kind gives gamma (k) terms
// in a connectivity requirement a meaning: only IKC does. Satisfies
// requirement.ClustererGammaCapable structurally.
func (c Clusterer) SupportsK() bool {
	return c.Kind == IKC
}

// Validate checks the parameter contract for the chosen Kind, before
// any work is attempted.
func (c Clusterer) Validate() error {
	switch c.Kind {
	case ModCPM:
		if c.ToolPath == "" {
			return fmt.Errorf("%w: modcpm requires --tool-path", ErrMissingParameter)
		}
	case ModMod:
		if c.Resolution != 0 {
			return ErrResolutionNotSupported
		}
		if c.ToolPath == "" {
			return fmt.Errorf("%w: modmod requires --tool-path", ErrMissingParameter)
		}
	case IKC:
		if c.K <= 0 {
			return fmt.Errorf("%w: ikc requires --k", ErrMissingParameter)
		}
		if c.ToolPath == "" {
			return fmt.Errorf("%w: ikc requires --tool-path", ErrMissingParameter)
		}
	default:
		return fmt.Errorf("clusterer: unknown kind %d", c.Kind)
	}

	return nil
}

func (c Clusterer) logger() hclog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return hclog.NewNullLogger()
}

// Cluster runs the configured external clusterer over g (a global or
// realized induced subgraph) and returns one Intangible per detected
// cluster, including singletons.
func (c Clusterer) Cluster(ctx context.Context, g *core.Graph, parentIndex, workDir string) ([]*subgraph.Intangible, error) {
	switch c.Kind {
	case ModCPM, ModMod:
		return c.clusterMod(ctx, g, parentIndex, workDir)
	case IKC:
		return c.clusterIKC(ctx, g, parentIndex, workDir)
	default:
		return nil, fmt.Errorf("clusterer: unknown kind %d", c.Kind)
	}
}

// ClusterWithoutSingletons filters Cluster's output down to clusters
// with more than one vertex.
func (c Clusterer) ClusterWithoutSingletons(ctx context.Context, g *core.Graph, parentIndex, workDir string) ([]*subgraph.Intangible, error) {
	all, err := c.Cluster(ctx, g, parentIndex, workDir)
	if err != nil {
		return nil, err
	}
	out := make([]*subgraph.Intangible, 0, len(all))
	for _, ig := range all {
		if ig.N() > 1 {
			out = append(out, ig)
		}
	}

	return out, nil
}

// clusterMod delegates to the external community-detection tool over
// a compact-id view of g. The subprocess is expected to write, to the
// path given after -o, one line per cluster: a space-separated list
// of the compact ids belonging to that cluster.
func (c Clusterer) clusterMod(ctx context.Context, g *core.Graph, parentIndex, workDir string) ([]*subgraph.Intangible, error) {
	compact, hydrator, err := g.Compact()
	if err != nil {
		return nil, fmt.Errorf("clusterer: clusterMod: %w", err)
	}

	edgelistPath := filepath.Join(workDir, cmcontext.ContentAddressedName(parentIndex, "modedgelist"))
	if err := writeFile(edgelistPath, func(w io.Writer) error { return core.WriteEdgeList(w, compact) }); err != nil {
		return nil, fmt.Errorf("clusterer: clusterMod: %w", err)
	}

	args := []string{edgelistPath}
	if c.Kind == ModCPM {
		args = append(args, "-g", strconv.FormatFloat(c.Resolution, 'g', -1, 64))
	} else {
		args = append(args, "-mod")
	}
	outPath := filepath.Join(workDir, cmcontext.ContentAddressedName(parentIndex, "modout"))
	args = append(args, "-o", outPath)

	cmd := exec.CommandContext(ctx, c.ToolPath, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	c.logger().Debug("invoking community detector", "kind", c.Kind, "args", args)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrToolFailed, err, stderr.String())
	}

	f, err := os.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: missing output %s: %s", ErrToolFailed, outPath, err)
	}
	defer f.Close()

	var clusters []*subgraph.Intangible
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		members := make([]string, 0, len(fields))
		for _, lid := range fields {
			idx, convErr := strconv.Atoi(lid)
			if convErr != nil || idx < 0 || idx >= len(hydrator) {
				return nil, fmt.Errorf("%w: bad local id %q in output", ErrToolFailed, lid)
			}
			members = append(members, hydrator[idx])
		}
		lineNo++
		clusters = append(clusters, subgraph.NewIntangible(fmt.Sprintf("%s%d", parentIndex, lineNo), members))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading output: %s", ErrToolFailed, err)
	}

	return clusters, nil
}

// clusterIKC writes the compact subgraph to a tab-delimited edge list
// in a per-cluster working directory, spawns "python <tool> -e
// <edge_list> -o <out_csv> -k <k>", and parses its CSV output
// (columns node,cluster,k,modularity).
func (c Clusterer) clusterIKC(ctx context.Context, g *core.Graph, parentIndex, workDir string) ([]*subgraph.Intangible, error) {
	compact, hydrator, err := g.Compact()
	if err != nil {
		return nil, fmt.Errorf("clusterer: clusterIKC: %w", err)
	}

	clusterDir := filepath.Join(workDir, cmcontext.ContentAddressedName(parentIndex, "ikc"))
	if err := os.MkdirAll(clusterDir, 0o755); err != nil {
		return nil, fmt.Errorf("clusterer: clusterIKC: mkdir %s: %w", clusterDir, err)
	}

	edgelistPath := filepath.Join(clusterDir, parentIndex+".local_mapping.edge_list")
	if err := writeFile(edgelistPath, func(w io.Writer) error { return core.WriteEdgeList(w, compact) }); err != nil {
		return nil, fmt.Errorf("clusterer: clusterIKC: %w", err)
	}

	outCSV := filepath.Join(clusterDir, parentIndex+".ikc_clustering.csv")
	python := c.PythonPath
	if python == "" {
		python = "python"
	}
	cmd := exec.CommandContext(ctx, python, c.ToolPath, "-e", edgelistPath, "-o", outCSV, "-k", strconv.Itoa(c.K))
	var stderr strings.Builder
	cmd.Stderr = &stderr
	c.logger().Debug("invoking ikc", "k", c.K, "edgelist", edgelistPath)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrToolFailed, err, stderr.String())
	}

	f, err := os.Open(outCSV)
	if err != nil {
		return nil, fmt.Errorf("%w: missing output %s: %s", ErrToolFailed, outCSV, err)
	}
	defer f.Close()

	return parseIKCOutput(f, parentIndex, hydrator)
}

// parseIKCOutput groups CSV rows (node,cluster,k,modularity) by
// cluster id and emits one Intangible per non-empty cluster, indexed
// by parentIndex concatenated with the local cluster number, in
// ascending cluster-id order for determinism.
func parseIKCOutput(r io.Reader, parentIndex string, hydrator []string) ([]*subgraph.Intangible, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	membersByCluster := make(map[string][]string)
	var order []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading ikc csv: %s", ErrToolFailed, err)
		}
		if len(row) < 2 {
			continue
		}
		nodeField, clusterID := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		localIdx, convErr := strconv.Atoi(nodeField)
		if convErr != nil || localIdx < 0 || localIdx >= len(hydrator) {
			return nil, fmt.Errorf("%w: bad node id %q in ikc csv", ErrToolFailed, nodeField)
		}
		if _, seen := membersByCluster[clusterID]; !seen {
			order = append(order, clusterID)
		}
		membersByCluster[clusterID] = append(membersByCluster[clusterID], hydrator[localIdx])
	}

	sort.Strings(order)
	clusters := make([]*subgraph.Intangible, 0, len(order))
	for _, cid := range order {
		members := membersByCluster[cid]
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, subgraph.NewIntangible(parentIndex+cid, members))
	}

	return clusters, nil
}

// FromExistingClustering reads a pre-computed clustering from disk
// instead of invoking the external tool: CSV "node_id,cluster_id" for
// IKC, whitespace-separated "node_id cluster_id" for the modularity
// family.
func (c Clusterer) FromExistingClustering(path string) ([]*subgraph.Intangible, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("clusterer: FromExistingClustering: %w", err)
	}
	defer f.Close()

	membersByCluster := make(map[string][]string)
	var order []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var nodeID, clusterID string
		if c.Kind == IKC {
			fields := strings.SplitN(line, ",", 2)
			if len(fields) != 2 {
				return nil, fmt.Errorf("clusterer: FromExistingClustering: malformed csv line %q", line)
			}
			nodeID, clusterID = strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
		} else {
			fields := strings.Fields(line)
			if len(fields) != 2 {
				return nil, fmt.Errorf("clusterer: FromExistingClustering: malformed line %q", line)
			}
			nodeID, clusterID = fields[0], fields[1]
		}
		if _, seen := membersByCluster[clusterID]; !seen {
			order = append(order, clusterID)
		}
		membersByCluster[clusterID] = append(membersByCluster[clusterID], nodeID)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("clusterer: FromExistingClustering: %w", err)
	}

	sort.Strings(order)
	clusters := make([]*subgraph.Intangible, 0, len(order))
	for _, cid := range order {
		clusters = append(clusters, subgraph.NewIntangible(cid, membersByCluster[cid]))
	}

	return clusters, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
