package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jocelynchengyang/correlationAnalysis/internal/dataprocessing"
	"github.com/jocelynchengyang/correlationAnalysis/internal/plot"
)

type jsonReport struct {
	Metadata jsonMetadata `json:"metadata"`
	Summary  jsonSummary  `json:"summary"`
	Entries  []jsonEntry  `json:"entries"`
}

type jsonMetadata struct {
	RunID       string    `json:"run_id"`
	InputFile   string    `json:"input_file"`
	MethodA     string    `json:"method_a"`
	MethodB     string    `json:"method_b"`
	GeneratedAt time.Time `json:"generated_at"`
}

type jsonSummary struct {
	Summary
	MeanR *float64 `json:"mean_r"`
	MinR  *float64 `json:"min_r"`
	MaxR  *float64 `json:"max_r"`
}

type jsonEntry struct {
	Key            string                    `json:"key"`
	Label          string                    `json:"label"`
	Status         Status                    `json:"status"`
	Reason         string                    `json:"reason,omitempty"`
	N              int                       `json:"n"`
	R              *float64                  `json:"r"`
	PValue         *float64                  `json:"p_value"`
	RSquared       *float64                  `json:"r_squared"`
	Significance   string                    `json:"significance,omitempty"`
	Interpretation string                    `json:"interpretation,omitempty"`
	Slope          *float64                  `json:"slope,omitempty"`
	Intercept      *float64                  `json:"intercept,omitempty"`
	MeanDiff       *float64                  `json:"mean_diff"`
	SDDiff         *float64                  `json:"sd_diff"`
	LoALower       *float64                  `json:"loa_lower"`
	LoAUpper       *float64                  `json:"loa_upper"`
	Exclusions     dataprocessing.Exclusions `json:"exclusions"`
	Plots          *plot.Files               `json:"plots,omitempty"`
}

// SaveToJSON writes the report with its metadata and summary as indented JSON.
// Undefined statistics are encoded as null.
func SaveToJSON(report *Report, outputPath string) error {
	summary := report.Summarize()
	doc := jsonReport{
		Metadata: jsonMetadata{
			RunID:       report.RunID,
			InputFile:   report.InputFile,
			MethodA:     report.MethodA,
			MethodB:     report.MethodB,
			GeneratedAt: report.GeneratedAt,
		},
		Summary: jsonSummary{
			Summary: summary,
			MeanR:   optional(summary.MeanR),
			MinR:    optional(summary.MinR),
			MaxR:    optional(summary.MaxR),
		},
		Entries: make([]jsonEntry, 0, len(report.Entries)),
	}

	for _, e := range report.Entries {
		je := jsonEntry{
			Key:        e.Measurement.Key,
			Label:      e.Measurement.Label,
			Status:     e.Status,
			Reason:     e.Reason,
			Exclusions: e.Exclusions,
		}
		if res := e.Result; res != nil {
			je.N = res.N
			je.R, je.PValue, je.RSquared = optional(res.R), optional(res.PValue), optional(res.RSquared)
			je.Significance = res.Significance()
			je.Interpretation = res.Interpretation()
			je.Slope, je.Intercept = optional(res.Slope), optional(res.Intercept)
			je.MeanDiff, je.SDDiff = optional(res.MeanDiff), optional(res.SDDiff)
			je.LoALower, je.LoAUpper = optional(res.LoALower), optional(res.LoAUpper)
			files := e.Files
			je.Plots = &files
		}
		doc.Entries = append(doc.Entries, je)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write JSON file: %w", err)
	}
	return nil
}
