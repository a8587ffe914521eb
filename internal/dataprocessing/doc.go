// Package dataprocessing reads the measurement spreadsheet and turns its
// columns into validated (method A, method B) pairs.
//
// # Architecture
//
// The package is organized into two components:
//
// 1. Loader: Reads one sheet of an .xlsx/.xlsm workbook or a CSV export into
// a Table. Blank headers become "Unnamed: <index>" and duplicates get a ".1",
// ".2" suffix, so every column is addressable by label.
// 2. ExtractPairs: Walks a Table in row order and keeps the rows where both
// method columns hold finite numbers. Rows are dropped, and counted, for the
// missing-value marker, blank or non-numeric cells, a blank patient ID or an
// excluded patient.
//
// # Usage
//
//	table, err := dataprocessing.NewLoader(logger).Load("Values.xlsx", dataprocessing.LoadOptions{SkipRows: 1})
//	if err != nil {
//	    return err // *errors.StructuralError
//	}
//	set, err := dataprocessing.ExtractPairs(table, "C5 whole cord", "Unnamed: 2", dataprocessing.ExtractOptions{
//	    IDColumn:      "Pt ID",
//	    MissingMarker: "x",
//	})
//
// # Error Handling
//
// Load and column lookups fail with *errors.StructuralError. ExtractPairs
// returns an error matching errors.ErrInsufficientData, alongside the partial
// pair set, when fewer than the minimum number of pairs survive.
//
// Legacy binary .xls files are not readable; save them as .xlsx first.
package dataprocessing
