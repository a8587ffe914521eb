package exporter

// SummaryHeaders is the header row of the summary table
var SummaryHeaders = []string{
	"Measurement",
	"n",
	"r",
	"p_value",
	"r_squared",
	"interpretation",
	"mean_diff",
	"sd_diff",
	"loa_lower",
	"loa_upper",
	"status",
}

// SummaryRecords converts the report into one CSV row per measurement.
// Skipped measurements keep their row with empty numeric cells.
func SummaryRecords(report *Report) [][]string {
	records := make([][]string, 0, len(report.Entries))
	for _, e := range report.Entries {
		records = append(records, summaryRow(e))
	}
	return records
}

func summaryRow(e Entry) []string {
	if e.Skipped() {
		return []string{e.Measurement.Label, "", "", "", "", "", "", "", "", "", string(e.Status)}
	}
	res := e.Result
	interpretation := res.Interpretation()
	return []string{
		e.Measurement.Label,
		formatInt(res.N),
		formatFloat(res.R),
		formatFloat(res.PValue),
		formatFloat(res.RSquared),
		interpretation,
		formatFloat(res.MeanDiff),
		formatFloat(res.SDDiff),
		formatFloat(res.LoALower),
		formatFloat(res.LoAUpper),
		string(e.Status),
	}
}
