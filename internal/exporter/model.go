package exporter

import (
	"math"
	"time"

	"github.com/jocelynchengyang/correlationAnalysis/internal/agreement"
	"github.com/jocelynchengyang/correlationAnalysis/internal/config"
	"github.com/jocelynchengyang/correlationAnalysis/internal/dataprocessing"
	"github.com/jocelynchengyang/correlationAnalysis/internal/plot"
)

// Status of one measurement in the report
type Status string

const (
	StatusAnalyzed     Status = "ok"
	StatusUndefined    Status = "correlation undefined"
	StatusInsufficient Status = "insufficient data"
)

// Entry is one measurement's outcome. Result is nil for skipped measurements.
type Entry struct {
	Measurement config.Measurement
	Status      Status
	Reason      string
	Result      *agreement.Result
	Exclusions  dataprocessing.Exclusions
	Files       plot.Files
}

// Skipped reports whether the measurement produced no statistics
func (e Entry) Skipped() bool {
	return e.Result == nil
}

// Report is the ordered list of entries, one per configured measurement
type Report struct {
	RunID       string
	InputFile   string
	MethodA     string
	MethodB     string
	GeneratedAt time.Time
	Entries     []Entry
}

// Summary aggregates the analysed entries
type Summary struct {
	Total       int     `json:"total"`
	Analyzed    int     `json:"analyzed"`
	Skipped     int     `json:"skipped"`
	Undefined   int     `json:"undefined"`
	Significant int     `json:"significant"`
	Strong      int     `json:"strong"`
	MeanR       float64 `json:"-"`
	MinR        float64 `json:"-"`
	MaxR        float64 `json:"-"`
}

// HasR reports whether at least one entry had a defined correlation
func (s Summary) HasR() bool {
	return s.Analyzed > s.Undefined
}

// Summarize counts outcomes and aggregates r over defined correlations
func (r *Report) Summarize() Summary {
	s := Summary{Total: len(r.Entries), MinR: math.NaN(), MaxR: math.NaN(), MeanR: math.NaN()}
	var sum float64
	var defined int
	for _, e := range r.Entries {
		if e.Skipped() {
			s.Skipped++
			continue
		}
		s.Analyzed++
		res := e.Result
		if !res.CorrelationDefined {
			s.Undefined++
			continue
		}
		if res.Significant() {
			s.Significant++
		}
		if res.IsStrong() {
			s.Strong++
		}
		if defined == 0 {
			s.MinR, s.MaxR = res.R, res.R
		}
		s.MinR = math.Min(s.MinR, res.R)
		s.MaxR = math.Max(s.MaxR, res.R)
		sum += res.R
		defined++
	}
	if defined > 0 {
		s.MeanR = sum / float64(defined)
	}
	return s
}
