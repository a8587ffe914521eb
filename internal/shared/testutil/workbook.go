package testutil

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is an in-memory worksheet fixture. Row cells may be strings or numbers;
// nil leaves the cell empty.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// PatientValues holds one patient's (method A, method B) cells per measurement
type PatientValues struct {
	ID     any
	Values [][2]any
}

// MeasurementSheet lays out a sheet the way the source workbook does: the ID
// column, then for each label a titled method A column followed by a method B
// column with a blank header. A sub-header row sits below the headers.
func MeasurementSheet(idColumn string, labels []string, patients []PatientValues) Sheet {
	headers := make([]string, 0, 1+2*len(labels))
	headers = append(headers, idColumn)
	sub := make([]any, 0, cap(headers))
	sub = append(sub, nil)
	for _, label := range labels {
		headers = append(headers, label, "")
		sub = append(sub, "Values.xls", "SCToolbox")
	}

	rows := [][]any{sub}
	for _, p := range patients {
		row := make([]any, 0, len(headers))
		row = append(row, p.ID)
		for i := range labels {
			if i < len(p.Values) {
				row = append(row, p.Values[i][0], p.Values[i][1])
			} else {
				row = append(row, nil, nil)
			}
		}
		rows = append(rows, row)
	}

	return Sheet{Name: "Sheet1", Headers: headers, Rows: rows}
}

// WriteWorkbook saves sheet as an .xlsx file under dir and returns its path
func WriteWorkbook(t *testing.T, dir, name string, sheet Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheet.Name
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if sheetName != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
			t.Fatalf("rename sheet: %v", err)
		}
	}

	for col, h := range sheet.Headers {
		if h == "" {
			continue
		}
		setCell(t, f, sheetName, col, 1, h)
	}
	for r, row := range sheet.Rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			setCell(t, f, sheetName, col, r+2, v)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func setCell(t *testing.T, f *excelize.File, sheet string, col, row int, v any) {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		t.Fatalf("cell name: %v", err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		t.Fatalf("set %s: %v", cell, err)
	}
}

// WriteCSV saves sheet as a .csv file under dir and returns its path
func WriteCSV(t *testing.T, dir, name string, sheet Sheet) string {
	t.Helper()

	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create csv: %v", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(sheet.Headers); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, row := range sheet.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				record[i] = fmt.Sprint(v)
			}
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush csv: %v", err)
	}
	return path
}
