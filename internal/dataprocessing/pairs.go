package dataprocessing

import (
	"math"
	"strconv"
	"strings"

	"github.com/jocelynchengyang/correlationAnalysis/internal/config"
	apperrors "github.com/jocelynchengyang/correlationAnalysis/internal/errors"
)

// DefaultMinPairs is the smallest sample the statistics engine accepts
const DefaultMinPairs = 3

// Pair is one patient's reading under both methods
type Pair struct {
	PatientID string  `json:"patient_id"`
	A         float64 `json:"a"`
	B         float64 `json:"b"`
}

// Exclusions counts the rows dropped while extracting pairs, by reason
type Exclusions struct {
	Sentinel        int `json:"sentinel"`
	Missing         int `json:"missing"`
	NonNumeric      int `json:"non_numeric"`
	ExcludedPatient int `json:"excluded_patient"`
	BlankID         int `json:"blank_id"`
}

// Total returns the number of dropped rows
func (e Exclusions) Total() int {
	return e.Sentinel + e.Missing + e.NonNumeric + e.ExcludedPatient + e.BlankID
}

// PairSet is the valid pairs of one measurement, in row order
type PairSet struct {
	Pairs      []Pair
	Exclusions Exclusions
}

// A returns the method A values
func (p PairSet) A() []float64 {
	out := make([]float64, len(p.Pairs))
	for i, pair := range p.Pairs {
		out[i] = pair.A
	}
	return out
}

// B returns the method B values
func (p PairSet) B() []float64 {
	out := make([]float64, len(p.Pairs))
	for i, pair := range p.Pairs {
		out[i] = pair.B
	}
	return out
}

// IDs returns the patient identifiers
func (p PairSet) IDs() []string {
	out := make([]string, len(p.Pairs))
	for i, pair := range p.Pairs {
		out[i] = pair.PatientID
	}
	return out
}

// ExtractOptions controls which rows count as valid pairs
type ExtractOptions struct {
	IDColumn      string
	MissingMarker string
	Excluded      map[string]struct{}
	MinPairs      int
}

// ExtractPairs walks the table in row order and keeps rows where both
// columns hold finite numbers and the patient is neither blank nor excluded.
// Fewer than MinPairs survivors returns the partial set with an error
// matching errors.ErrInsufficientData.
func ExtractPairs(t *Table, colA, colB string, opts ExtractOptions) (PairSet, error) {
	if err := t.RequireColumns(opts.IDColumn, colA, colB); err != nil {
		return PairSet{}, err
	}
	idIdx, _ := t.Column(opts.IDColumn)
	aIdx, _ := t.Column(colA)
	bIdx, _ := t.Column(colB)

	minPairs := opts.MinPairs
	if minPairs < DefaultMinPairs {
		minPairs = DefaultMinPairs
	}
	marker := strings.TrimSpace(opts.MissingMarker)

	var set PairSet
	for row := 0; row < t.Len(); row++ {
		id := config.NormalizeID(t.Cell(row, idIdx))
		if id == "" {
			set.Exclusions.BlankID++
			continue
		}
		if _, excluded := opts.Excluded[id]; excluded {
			set.Exclusions.ExcludedPatient++
			continue
		}

		rawA, rawB := t.Cell(row, aIdx), t.Cell(row, bIdx)
		switch {
		case isSentinel(rawA, marker) || isSentinel(rawB, marker):
			set.Exclusions.Sentinel++
			continue
		case rawA == "" || rawB == "":
			set.Exclusions.Missing++
			continue
		}

		a, okA := parseValue(rawA)
		b, okB := parseValue(rawB)
		if !okA || !okB {
			set.Exclusions.NonNumeric++
			continue
		}

		set.Pairs = append(set.Pairs, Pair{PatientID: id, A: a, B: b})
	}

	if len(set.Pairs) < minPairs {
		return set, &apperrors.InsufficientDataError{Have: len(set.Pairs), Need: minPairs}
	}
	return set, nil
}

func isSentinel(value, marker string) bool {
	return marker != "" && strings.EqualFold(value, marker)
}

// parseValue accepts finite decimal numbers only
func parseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
