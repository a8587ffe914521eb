package dataprocessing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/jocelynchengyang/correlationAnalysis/internal/errors"
	"github.com/jocelynchengyang/correlationAnalysis/internal/infrastructure"
)

const utf8BOM = "\ufeff"

// Table is a rectangular view of one worksheet. Headers come from the first
// row; Rows holds the data rows that follow it.
type Table struct {
	Path    string
	Sheet   string
	Headers []string
	Rows    [][]string

	index map[string]int
}

// LoadOptions selects the sheet and the number of data rows to drop
type LoadOptions struct {
	// Sheet is the worksheet name; empty means the first sheet. Ignored for CSV.
	Sheet string
	// SkipRows drops this many rows directly below the header row.
	SkipRows int
}

// Loader reads spreadsheets into Tables
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new loader
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: infrastructure.WithComponent(logger, "loader")}
}

// Load opens an .xlsx, .xlsm or .csv file and returns its first (or named)
// sheet as a Table. Every failure is a *errors.StructuralError.
func (l *Loader) Load(path string, opts LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewStructuralError("open input", path, err)
	}

	var (
		rows  [][]string
		sheet string
		err   error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		rows, sheet, err = readWorkbook(path, opts.Sheet)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, apperrors.NewStructuralError("unsupported input format", path,
			fmt.Errorf("extension %q is not one of .xlsx, .xlsm, .csv", ext))
	}
	if err != nil {
		var se *apperrors.StructuralError
		if errors.As(err, &se) {
			return nil, err
		}
		return nil, apperrors.NewStructuralError("read input", path, err)
	}

	t, err := newTable(path, sheet, rows, opts.SkipRows)
	if err != nil {
		return nil, err
	}

	l.logger.Info("Input loaded",
		slog.String("path", path),
		slog.String("sheet", sheet),
		slog.Int("columns", len(t.Headers)),
		slog.Int("rows", len(t.Rows)),
		slog.Int("skipped_rows", opts.SkipRows))

	return t, nil
}

func readWorkbook(path, sheet string) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", apperrors.NewStructuralError("workbook has no sheets", path, nil)
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, "", apperrors.NewStructuralError("sheet not found in", path, fmt.Errorf("sheet %q", sheet))
	}

	// Raw values keep numbers independent of the cell's display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, "", err
	}
	return rows, sheet, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows, nil
}

func newTable(path, sheet string, rows [][]string, skipRows int) (*Table, error) {
	if len(rows) == 0 {
		return nil, apperrors.NewStructuralError("empty sheet in", path, nil)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if width == 0 {
		return nil, apperrors.NewStructuralError("no header row in", path, nil)
	}

	t := &Table{
		Path:    path,
		Sheet:   sheet,
		Headers: buildHeaders(rows[0], width),
	}
	t.index = make(map[string]int, width)
	for i, h := range t.Headers {
		t.index[h] = i
	}

	// Blank rows go first so skipRows counts only rows that carry data
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if skipRows > 0 {
		t.Rows = t.Rows[min(skipRows, len(t.Rows)):]
	}

	return t, nil
}

// buildHeaders names blank headers "Unnamed: <index>" and suffixes repeats
// with ".1", ".2" so every label is unique.
func buildHeaders(raw []string, width int) []string {
	headers := make([]string, width)
	seen := make(map[string]int, width)
	for i := range headers {
		label := ""
		if i < len(raw) {
			label = strings.TrimSpace(raw[i])
		}
		if label == "" {
			label = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[label]; dup {
			seen[label] = n + 1
			label = label + "." + strconv.Itoa(n+1)
		} else {
			seen[label] = 0
		}
		headers[i] = label
	}
	return headers
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Column returns the zero-based index of label
func (t *Table) Column(label string) (int, bool) {
	i, ok := t.index[label]
	return i, ok
}

// RequireColumns fails with a structural error naming every absent label
func (t *Table) RequireColumns(labels ...string) error {
	var missing []string
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if _, ok := t.index[label]; ok || seen[label] {
			continue
		}
		seen[label] = true
		missing = append(missing, label)
	}
	if len(missing) > 0 {
		return apperrors.MissingColumnsError(t.Path, missing)
	}
	return nil
}

// Cell returns the trimmed value at row, col or "" for short rows
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}
