package exporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jocelynchengyang/correlationAnalysis/internal/agreement"
)

var (
	banner    = strings.Repeat("=", 70)
	tableRule = strings.Repeat("-", 85)
)

// WriteReport writes the narrative text report: summary table,
// interpretation guide, detailed results and skipped measurements.
func WriteReport(out io.Writer, report *Report) error {
	w := bufio.NewWriter(out)

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "PEARSON CORRELATION & BLAND-ALTMAN ANALYSIS")
	fmt.Fprintf(w, "Comparison: %s vs %s\n", report.MethodA, report.MethodB)
	if report.InputFile != "" {
		fmt.Fprintf(w, "Input file: %s\n", report.InputFile)
	}
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w)

	writeSummaryTable(w, report)
	writeGuide(w)
	writeDetails(w, report)
	writeSkipped(w, report)

	return w.Flush()
}

func writeSummaryTable(w io.Writer, report *Report) {
	fmt.Fprintln(w, "SUMMARY TABLE")
	fmt.Fprintln(w, tableRule)
	fmt.Fprintf(w, "%-25s %4s %8s %10s %-4s %8s %-20s\n", "Measurement", "n", "r", "p-value", "Sig", "R²", "Interpretation")
	fmt.Fprintln(w, tableRule)

	for _, e := range report.Entries {
		if e.Skipped() {
			continue
		}
		res := e.Result
		if !res.CorrelationDefined {
			fmt.Fprintf(w, "%-25s %4d %8s %10s %-4s %8s %-20s\n",
				e.Measurement.Label, res.N, "undef", "n/a", agreement.NotApplicable, "n/a", res.Interpretation())
			continue
		}
		fmt.Fprintf(w, "%-25s %4d %8.4f %10.6f %-4s %8.4f %-20s\n",
			e.Measurement.Label, res.N, res.R, res.PValue, res.Significance(), res.RSquared, res.Interpretation())
	}
}

func writeGuide(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "INTERPRETATION GUIDE")
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "Correlation strength (|r|):")
	fmt.Fprintln(w, "  0.00 - 0.19: Very weak")
	fmt.Fprintln(w, "  0.20 - 0.39: Weak")
	fmt.Fprintln(w, "  0.40 - 0.59: Moderate")
	fmt.Fprintln(w, "  0.60 - 0.79: Strong")
	fmt.Fprintln(w, "  0.80 - 1.00: Very strong")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Significance:")
	fmt.Fprintln(w, "  *** p < 0.001 (highly significant)")
	fmt.Fprintln(w, "  **  p < 0.01  (very significant)")
	fmt.Fprintln(w, "  *   p < 0.05  (significant)")
	fmt.Fprintln(w, "  ns  p ≥ 0.05  (not significant)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "R² = Proportion of variance explained (0 to 1)")
	fmt.Fprintln(w, "Differences are computed as method B minus method A.")
}

func writeDetails(w io.Writer, report *Report) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "DETAILED RESULTS")
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w)

	for _, e := range report.Entries {
		if e.Skipped() {
			continue
		}
		res := e.Result
		fmt.Fprintln(w, e.Measurement.Label)
		fmt.Fprintf(w, "  Sample size: %d\n", res.N)
		if res.CorrelationDefined {
			fmt.Fprintf(w, "  Pearson's r: %.4f\n", res.R)
			fmt.Fprintf(w, "  P-value: %.6f (%s)\n", res.PValue, res.Significance())
			fmt.Fprintf(w, "  R-squared: %.4f\n", res.RSquared)
			fmt.Fprintf(w, "  Interpretation: %s correlation\n", res.Interpretation())
		} else {
			fmt.Fprintln(w, "  Pearson's r: undefined (a method has zero variance)")
			fmt.Fprintln(w, "  P-value: n/a")
			fmt.Fprintln(w, "  R-squared: n/a")
		}
		fmt.Fprintf(w, "  Mean difference: %.4f\n", res.MeanDiff)
		fmt.Fprintf(w, "  SD of differences: %.4f\n", res.SDDiff)
		fmt.Fprintf(w, "  95%% Limits of agreement: %.4f to %.4f\n", res.LoALower, res.LoAUpper)
		if ex := e.Exclusions; ex.Total() > 0 {
			fmt.Fprintf(w, "  Rows excluded: %d (marker %d, missing %d, non-numeric %d, excluded patient %d, blank ID %d)\n",
				ex.Total(), ex.Sentinel, ex.Missing, ex.NonNumeric, ex.ExcludedPatient, ex.BlankID)
		}
		fmt.Fprintln(w)
	}
}

func writeSkipped(w io.Writer, report *Report) {
	var skipped []Entry
	for _, e := range report.Entries {
		if e.Skipped() {
			skipped = append(skipped, e)
		}
	}
	if len(skipped) == 0 {
		return
	}

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "SKIPPED MEASUREMENTS")
	fmt.Fprintln(w, banner)
	for _, e := range skipped {
		reason := e.Reason
		if reason == "" {
			reason = string(e.Status)
		}
		fmt.Fprintf(w, "  %s: %s\n", e.Measurement.Label, reason)
	}
}
