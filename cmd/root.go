package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Placement selection
	placementPath string // YAML placement document
	presetName    string // named placement in the presets file
	presetsPath   string // presets file
	generator     string // matmul or random, when no document is given
	adjacency     string // overrides the placement's adjacency when set

	// Matmul generator
	rows   int  // PE grid rows
	cols   int  // PE grid cols
	dedupA bool // buffers hold only their own A tile
	dedupB bool // buffers hold only their own B tile

	// Random generator
	dims             []int // grid dims
	seed             int64 // seed for random placement
	randomItems      int   // distinct items
	sourceCells      int   // cells eligible to hold items
	sinkCells        int   // cells eligible to need items
	copiesPerItem    int   // sources per item
	consumersPerItem int   // sinks per item

	// Execution and output
	logLevel   string // Log verbosity level
	workers    int    // concurrent diffusions
	label      string // run label in reports
	outputDir  string // directory for CSV/JSON exports
	compress   bool   // zstd-compress the JSON summary
	dbPath     string // SQLite results index
	traceLevel string // diffusion phase tracing (none, phases)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "placement-sim",
	Short: "Evaluate data placements on a spatial grid by flooding each item from its sources to its sinks",
}

// runCmd diffuses every item of one placement and reports the result
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the diffusion sweep for one placement",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		spec, err := placementOptionsFromFlags(cmd).resolve()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Infof("Starting diffusion sweep: generator=%s workers=%d", spec.Generator, workers)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		outcome, err := executeRun(ctx, os.Stdout, spec, runOptionsFromFlags())
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if n := outcome.Summary.Failed; n > 0 {
			logrus.Warnf("%d item(s) have unreachable sinks", n)
		}
		logrus.Info("Sweep complete.")
	},
}

// validateCmd builds the topology without diffusing
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that a placement builds a valid topology",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		spec, err := placementOptionsFromFlags(cmd).resolve()
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := validatePlacement(os.Stdout, spec); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// compareCmd runs the matmul placement under every dedup variant
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the four A/B de-duplication variants of the matmul placement",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		opts := compareOptions{
			Rows: rows, Cols: cols, Adjacency: adjacency,
			Workers: workers, DBPath: dbPath,
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if _, err := compareVariants(ctx, os.Stdout, opts); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// historyCmd lists runs recorded in the results index
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List runs recorded in the results database",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if dbPath == "" {
			logrus.Fatalf("--db is required")
		}
		if err := printHistory(cmd.Context(), os.Stdout, dbPath); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPlacementFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&placementPath, "placement", "", "YAML placement document (overrides --preset and --generator)")
	cmd.Flags().StringVar(&presetName, "preset", "", "Named placement from the presets file")
	cmd.Flags().StringVar(&presetsPath, "presets-file", "presets.yaml", "Presets file")
	cmd.Flags().StringVar(&generator, "generator", "matmul", "Placement generator when no document is given (matmul, random)")

	cmd.Flags().IntSliceVar(&dims, "dims", []int{16, 16}, "Grid dims for the random generator")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random placement; overrides the document's seed when set")
	cmd.Flags().IntVar(&randomItems, "items", 64, "Distinct items for the random generator")
	cmd.Flags().IntVar(&sourceCells, "source-cells", 32, "Cells eligible to hold items")
	cmd.Flags().IntVar(&sinkCells, "sink-cells", 64, "Cells eligible to need items")
	cmd.Flags().IntVar(&copiesPerItem, "copies", 2, "Sources holding each item")
	cmd.Flags().IntVar(&consumersPerItem, "consumers", 4, "Sinks needing each item")

	cmd.Flags().BoolVar(&dedupA, "dedup-a", false, "Matmul: each buffer holds only its own A tile")
	cmd.Flags().BoolVar(&dedupB, "dedup-b", false, "Matmul: each buffer holds only its own B tile")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&adjacency, "adjacency", "", "Adjacency model (moore, von-neumann); empty keeps the placement's")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Concurrent diffusions (0 = one per CPU)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite results database; runs are recorded when set")
	rootCmd.PersistentFlags().IntVar(&rows, "rows", 4, "Matmul PE grid rows")
	rootCmd.PersistentFlags().IntVar(&cols, "cols", 4, "Matmul PE grid cols")

	addPlacementFlags(runCmd)
	runCmd.Flags().StringVar(&label, "label", "", "Run label (default derived from the placement)")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "Write items/heatmap/histogram CSVs and summary JSON here")
	runCmd.Flags().BoolVar(&compress, "compress", false, "zstd-compress the summary JSON")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Diffusion tracing (none, phases)")

	addPlacementFlags(validateCmd)

	rootCmd.AddCommand(runCmd, validateCmd, compareCmd, historyCmd)
}
