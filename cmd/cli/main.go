package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"goanova/adapters/excel"
	"goanova/adapters/report"
	"goanova/adapters/stats/fdist"
	"goanova/app"
	"goanova/internal/config"
	"goanova/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// .env is optional; log output goes to stderr so reports can be piped
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "goanova",
		Short:         "Analysis of variance tables for treatment/block experiments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	return rootCmd
}

type analyzeOptions struct {
	logLevel logging.Level
	block    bool
	format   string
	sheet    string
	workers  int
	output   string
}

func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	opts := analyzeOptions{
		logLevel: cfg.Log.Level,
		block:    cfg.Analysis.Block,
		format:   string(cfg.Report.Format),
		sheet:    cfg.Data.Sheet,
		workers:  cfg.Analysis.Workers,
	}

	cmd := &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Compute the ANOVA table for one or more matrices",
		Long: `Compute a one-way (or randomized block) analysis of variance.

Each input file holds one matrix: rows are treatments, columns are replicates
(or blocks with --block). A header row and a leading label column are skipped.
Supported inputs: .csv, .xlsx.

Defaults come from the environment (ANOVA_BLOCK, ANOVA_REPORT_FORMAT,
ANOVA_INPUT_SHEET, ANOVA_WORKERS) and may be placed in a .env file.

Example: goanova analyze yield.csv --block --format markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.output != "" {
				f, err := os.Create(opts.output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return runAnalyze(cmd.Context(), out, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.block, "block", opts.block, "Treat columns as blocks (randomized block design)")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "Report format: text|markdown|html|json")
	cmd.Flags().StringVar(&opts.sheet, "sheet", opts.sheet, "Worksheet to read from .xlsx files")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "Files analyzed concurrently")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to a file instead of stdout")

	return cmd
}

func runAnalyze(ctx context.Context, out io.Writer, files []string, opts analyzeOptions) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, opts.logLevel)
	reader := excel.NewDataReader(opts.sheet).WithLogger(logger)
	service := app.NewAnalysisService(reader, fdist.New(), opts.workers).WithLogger(logger)

	reqs := make([]app.AnalysisRequest, len(files))
	for i, f := range files {
		reqs[i] = app.AnalysisRequest{Source: f, Block: opts.block}
	}

	reports, err := service.AnalyzeAll(ctx, reqs)
	if err != nil {
		return err
	}

	for i, r := range reports {
		if i > 0 && format != report.FormatJSON {
			fmt.Fprintln(out)
		}
		if err := report.Render(out, r.Document(), format); err != nil {
			return fmt.Errorf("failed to render %s: %w", r.Source, err)
		}
	}
	return nil
}
