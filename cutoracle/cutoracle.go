// SPDX-License-Identifier: MIT
//
// Package cutoracle adapts the external minimum-cut executable behind
// one operation, Mincut: serialize the subgraph to a METIS file,
// invoke the tool as a subprocess, read back per-vertex 0/1 labels
// and the "cut=<n>" line from its stdout, and hydrate the two sides
// back to original vertex ids.
package cutoracle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"github.com/hm01/cm/cmcontext"
	"github.com/hm01/cm/core"
	"github.com/hm01/cm/subgraph"
)

// cutLineRE matches the oracle's final stdout line, e.g. "cut=3".
var cutLineRE = regexp.MustCompile(`cut=(\d+)`)

// ErrToolFailed indicates the oracle subprocess exited non-zero or
// its stdout did not contain a "cut=<n>" line. A merely missing
// labels file is not a failure: that is the "no valid cut" fallback
// documented on Mincut.
var ErrToolFailed = errors.New("cutoracle: external tool failed")

// Result is a mincut: two disjoint original-id vertex subsets whose
// union is the cluster, plus the crossing edge count.
type Result struct {
	Light   []string
	Heavy   []string
	CutSize int
}

// Oracle invokes the external mincut executable as a subprocess.
type Oracle struct {
	ExecPath string
	Logger   hclog.Logger
}

func (o *Oracle) logger() hclog.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return hclog.NewNullLogger()
}

// Mincut computes a mincut of the realized subgraph h by serializing
// it to a METIS file (compact local ids), invoking
// "<oracle> -b -s -o <cut_out> <metis_in> cactus", reading back the
// 0/1 label file, and hydrating local labels to original ids via
// h.Hydrator.
//
// If the expected output file is missing, this returns a zero-cut
// Result{nil, nil, 0} with a nil error — a "no valid cut" fallback
// that makes the refinement engine accept the current cluster rather
// than fail the run.
func (o *Oracle) Mincut(ctx context.Context, h *subgraph.Realized, workDir string) (Result, error) {
	// Re-compact before serializing: the pruner may have removed vertices
	// from h.Graph, leaving gaps in its local id space, and METIS requires
	// contiguous 1..n ids. locals[i] is the h.Graph id behind METIS row i+1.
	compact, locals, err := h.Graph.Compact()
	if err != nil {
		return Result{}, fmt.Errorf("cutoracle: Mincut: %w", err)
	}

	metisPath := filepath.Join(workDir, cmcontext.ContentAddressedName(h.Index, "metis"))
	if err := writeMETIS(metisPath, compact); err != nil {
		return Result{}, fmt.Errorf("cutoracle: Mincut: %w", err)
	}

	cutOutPath := filepath.Join(workDir, cmcontext.ContentAddressedName(h.Index, "metis.cut"))

	cmd := exec.CommandContext(ctx, o.ExecPath, "-b", "-s", "-o", cutOutPath, metisPath, "cactus")
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	o.logger().Debug("invoking mincut oracle", "index", h.Index, "n", h.N())
	runErr := cmd.Run()

	if _, statErr := os.Stat(cutOutPath); statErr != nil {
		// Missing output file: treated as "no valid cut" regardless of
		// the subprocess's own exit status.
		o.logger().Warn("mincut oracle produced no output, treating as no valid cut", "index", h.Index, "run_err", runErr)

		return Result{}, nil
	}
	if runErr != nil {
		return Result{}, fmt.Errorf("%w: %s: %s", ErrToolFailed, runErr, stderr.String())
	}

	cutSize, err := parseCutSize(stdout.String())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrToolFailed, err)
	}

	light, heavy, err := readLabels(cutOutPath, h, locals)
	if err != nil {
		return Result{}, fmt.Errorf("cutoracle: Mincut: %w", err)
	}

	return Result{Light: light, Heavy: heavy, CutSize: cutSize}, nil
}

func parseCutSize(stdout string) (int, error) {
	lines := strings.Split(strings.TrimRight(stdout, "\n"), "\n")
	if len(lines) == 0 {
		return 0, fmt.Errorf("empty stdout, expected a cut=<n> line")
	}
	last := lines[len(lines)-1]
	m := cutLineRE.FindStringSubmatch(last)
	if m == nil {
		return 0, fmt.Errorf("no cut=<n> found in last stdout line %q", last)
	}

	return strconv.Atoi(m[1])
}

// readLabels reads one 0/1 label per line (one line per METIS vertex,
// in ascending id order), maps each line back through locals to its
// h.Graph id, and hydrates that to the original global id.
func readLabels(path string, h *subgraph.Realized, locals []string) (light, heavy []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open labels: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	localID := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if localID >= len(locals) {
			return nil, nil, fmt.Errorf("labels line %d: more labels than vertices", localID)
		}
		label, convErr := strconv.Atoi(line)
		if convErr != nil {
			return nil, nil, fmt.Errorf("labels line %d: %w", localID, convErr)
		}
		orig, hydErr := h.Hydrate(locals[localID])
		if hydErr != nil {
			return nil, nil, fmt.Errorf("labels line %d: %w", localID, hydErr)
		}
		if label == 0 {
			light = append(light, orig)
		} else {
			heavy = append(heavy, orig)
		}
		localID++
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading labels: %w", err)
	}

	return light, heavy, nil
}

func writeMETIS(path string, g *core.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	if err := core.WriteMETIS(w, g); err != nil {
		return fmt.Errorf("write metis %s: %w", path, err)
	}

	return nil
}
