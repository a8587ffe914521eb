package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jocelynchengyang/correlationAnalysis/internal/app"
	"github.com/jocelynchengyang/correlationAnalysis/internal/services"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, diagnostic(err))
		os.Exit(1)
	}
}

// diagnostic formats a fatal error; input layout problems get their own prefix
func diagnostic(err error) string {
	if services.IsStructural(err) {
		return "Invalid input: " + err.Error()
	}
	return "Error: " + err.Error()
}

// newRootCommand creates the correlation command
func newRootCommand() *cobra.Command {
	opts := app.Options{}

	cmd := &cobra.Command{
		Use:   "correlation <input-file> [output-dir]",
		Short: "Compare two measurement methods with Pearson correlation and Bland-Altman analysis",
		Long: `Reads a spreadsheet of paired nerve measurements, computes Pearson r, p-value,
R² and Bland-Altman limits of agreement for every configured measurement, and writes
scatter and Bland-Altman plots, a summary CSV, a narrative report and a JSON dump.

The output directory defaults to correlation_results.`,
		Args:          cobra.RangeArgs(1, 2),
		Version:       app.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Input = args[0]
			if len(args) == 2 {
				opts.OutputDir = args[1]
			}
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")
	flags.StringArrayVar(&opts.Exclude, "exclude", nil, "patient ID to exclude (repeatable)")
	flags.IntVar(&opts.Workers, "workers", 0, "measurements analysed concurrently")
	flags.StringVar(&opts.MissingMarker, "missing-marker", "", "cell value marking a missing measurement")

	return cmd
}

func run(ctx context.Context, opts app.Options, out io.Writer) error {
	application, err := app.NewApplication(opts)
	if err != nil {
		return err
	}

	result, err := application.Run(ctx)
	if err != nil {
		return err
	}

	s := result.Summary
	fmt.Fprintf(out, "Analysed %d of %d measurements (%d skipped, %d undefined, %d significant)\n",
		s.Analyzed, s.Total, s.Skipped, s.Undefined, s.Significant)
	fmt.Fprintf(out, "Results saved to %s\n", application.OutputDir())
	return nil
}
