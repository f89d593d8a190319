// SPDX-License-Identifier: MIT
//
// The cm command line: a single cobra command that loads the input
// graph, obtains the initial clustering, runs the refinement engine,
// and writes the output assignment, hierarchy tree, and summary
// statistics.
package main

import (
	"context"
	"fmt"
	"os"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/hm01/cm/clusterer"
	"github.com/hm01/cm/cmcontext"
	"github.com/hm01/cm/core"
	"github.com/hm01/cm/cutoracle"
	"github.com/hm01/cm/engine"
	"github.com/hm01/cm/requirement"
	"github.com/hm01/cm/stats"
)

type flags struct {
	input              string
	clustererKind      string
	existingClustering string
	k                  int
	resolution         float64
	threshold          string
	workingDir         string
	ignoreTrees        bool
	ignoreSmallerThan  int
	output             string
	configPath         string
	oraclePath         string
	clustererToolPath  string
	pythonPath         string
	verbose            bool
	logLevel           string
}

func newRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "cm",
		Short: "Connectivity-Modifier: refine a clustering until every cluster meets an edge-connectivity requirement",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
		SilenceUsage: true,
	}

	flagset := cmd.Flags()
	flagset.StringVarP(&f.input, "input", "i", "", "path to the tab-separated input edge list (required)")
	flagset.StringVarP(&f.clustererKind, "clusterer", "c", "", "clusterer kind: modcpm|modmod|ikc (required)")
	flagset.StringVarP(&f.existingClustering, "existing-clustering", "e", "", "path to a pre-computed clustering, skipping the initial clustering pass")
	flagset.IntVarP(&f.k, "k", "k", -1, "k parameter, required for --clusterer=ikc")
	flagset.Float64VarP(&f.resolution, "resolution", "g", 0, "resolution parameter, for --clusterer=modcpm")
	flagset.StringVarP(&f.threshold, "threshold", "t", "", "connectivity requirement expression, e.g. \"1log10+2mcd\" (required)")
	flagset.StringVarP(&f.workingDir, "working-dir", "d", "", "working directory for files exchanged with external tools (defaults to <input>_working_dir)")
	flagset.BoolVarP(&f.ignoreTrees, "ignore-trees", "x", false, "accept tree-like clusters unchanged instead of bisecting them")
	flagset.IntVarP(&f.ignoreSmallerThan, "ignore-smaller-than", "s", 0, "accept clusters smaller than this size unchanged")
	flagset.StringVarP(&f.output, "output", "o", "", "path to write the output clustering (required)")
	flagset.StringVar(&f.configPath, "config", "", "path to a cm.config.json with executable paths, in place of --oracle-path/--tool-path/--python-path")
	flagset.StringVar(&f.oraclePath, "oracle-path", "", "path to the external mincut oracle executable (required unless --config is given)")
	flagset.StringVar(&f.clustererToolPath, "tool-path", "", "path to the external clusterer executable/script (required unless --config is given)")
	flagset.StringVar(&f.pythonPath, "python-path", "python", "interpreter used to invoke the ikc clusterer script")
	flagset.BoolVarP(&f.verbose, "verbose", "v", false, "also write a human-readable tree dump alongside <output>.tree.json")
	flagset.StringVar(&f.logLevel, "log-level", "", "log level (trace|debug|info|warn|error); overrides CM_LOG")

	for _, name := range []string{"input", "clusterer", "threshold", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newLogger(f *flags) hclog.Logger {
	level := f.logLevel
	if level == "" {
		level = os.Getenv("CM_LOG")
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:  "cm",
		Level: hclog.LevelFromString(level),
	})
}

func run(ctx context.Context, f *flags) error {
	logger := newLogger(f)

	tools, err := resolveToolConfig(f)
	if err != nil {
		return err
	}
	f.oraclePath = tools.OraclePath
	f.clustererToolPath = tools.ModPath
	f.pythonPath = tools.PythonPath

	c, err := buildClusterer(f, logger)
	if err != nil {
		return err
	}
	if c.Kind == clusterer.IKC {
		c.ToolPath = tools.IKCPath
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid clusterer configuration: %w", err)
	}

	req, err := requirement.Parse(f.threshold)
	if err != nil {
		return fmt.Errorf("invalid --threshold: %w", err)
	}
	if err := req.Validate(c); err != nil {
		return fmt.Errorf("invalid --threshold: %w", err)
	}

	workingDir := f.workingDir
	if workingDir == "" {
		workingDir = f.input + "_working_dir"
	}
	cctx := cmcontext.New(workingDir, false, tools)
	if err := cctx.Tools.VerifyExecutables(); err != nil {
		return fmt.Errorf("invalid tool configuration: %w", err)
	}
	if err := cctx.EnsureWorkingDir(); err != nil {
		return err
	}
	defer cctx.Cleanup()

	inFile, err := os.Open(f.input)
	if err != nil {
		return fmt.Errorf("reading --input: %w", err)
	}
	defer inFile.Close()

	global, err := core.FromEdgeList(inFile)
	if err != nil {
		return fmt.Errorf("parsing --input: %w", err)
	}
	logger.Info("loaded graph", "n", global.VertexCount(), "m", global.EdgeCount())

	clusters, err := initialClustering(ctx, c, global, f.existingClustering, cctx.WorkingDir)
	if err != nil {
		return err
	}
	logger.Info("initial clustering obtained", "num_clusters", len(clusters))

	oracle := &cutoracle.Oracle{ExecPath: f.oraclePath, Logger: logger.Named("cutoracle")}
	filter := engine.IgnoreFilter{IgnoreTrees: f.ignoreTrees, IgnoreSmallerThan: f.ignoreSmallerThan}

	result, err := engine.AlgorithmG(ctx, global, clusters, c, req, filter, oracle, cctx.WorkingDir, logger.Named("engine"))
	if err != nil {
		return fmt.Errorf("refinement failed: %w", err)
	}
	logger.Info("refinement complete", "num_output_clusters", len(result.Outputs))

	if err := writeOutput(f.output, result.Membership); err != nil {
		return err
	}
	if err := writeTreeJSON(f.output+".tree.json", result.Tree); err != nil {
		return err
	}
	if f.verbose {
		if err := writeTreeText(f.output+".tree.txt", result.Tree); err != nil {
			return err
		}
	}

	summary := stats.Summarize(global, result.Outputs)
	return summary.WriteTable(os.Stdout)
}

// resolveToolConfig builds the ToolConfig from --config if given,
// otherwise directly from the --oracle-path/--tool-path/--python-path
// flags. A missing config file is fatal at startup.
func resolveToolConfig(f *flags) (cmcontext.ToolConfig, error) {
	if f.configPath != "" {
		return cmcontext.LoadConfig(f.configPath)
	}
	if f.oraclePath == "" || f.clustererToolPath == "" {
		return cmcontext.ToolConfig{}, fmt.Errorf("--oracle-path and --tool-path are required unless --config is given")
	}

	return cmcontext.ToolConfig{
		OraclePath: f.oraclePath,
		IKCPath:    f.clustererToolPath,
		ModPath:    f.clustererToolPath,
		PythonPath: f.pythonPath,
	}, nil
}

func buildClusterer(f *flags, logger hclog.Logger) (clusterer.Clusterer, error) {
	c := clusterer.Clusterer{
		ToolPath:   f.clustererToolPath,
		PythonPath: f.pythonPath,
		Logger:     logger.Named("clusterer"),
	}
	switch f.clustererKind {
	case "modcpm":
		c.Kind = clusterer.ModCPM
		c.Resolution = f.resolution
	case "modmod":
		c.Kind = clusterer.ModMod
	case "ikc":
		c.Kind = clusterer.IKC
		c.K = f.k
	default:
		return clusterer.Clusterer{}, fmt.Errorf("unknown --clusterer %q (want modcpm|modmod|ikc)", f.clustererKind)
	}

	return c, nil
}
