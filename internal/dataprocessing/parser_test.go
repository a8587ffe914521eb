package dataprocessing

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jocelynchengyang/correlationAnalysis/internal/errors"
	"github.com/jocelynchengyang/correlationAnalysis/internal/shared/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Load(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		opts          LoadOptions
		wantErr       bool
		errorContains string
		wantHeaders   []string
		wantRows      int
	}{
		{
			name: "workbook with blank method B headers and sub-header row",
			setupFunc: func(t *testing.T) string {
				sheet := testutil.MeasurementSheet("Pt ID", []string{"C5 whole cord", "C5 R hemicord"}, []testutil.PatientValues{
					{ID: 1, Values: [][2]any{{1.0, 1.1}, {2.0, 2.1}}},
					{ID: 2, Values: [][2]any{{3.0, 3.1}, {4.0, 4.1}}},
				})
				return testutil.WriteWorkbook(t, t.TempDir(), "values.xlsx", sheet)
			},
			opts:        LoadOptions{SkipRows: 1},
			wantHeaders: []string{"Pt ID", "C5 whole cord", "Unnamed: 2", "C5 R hemicord", "Unnamed: 4"},
			wantRows:    2,
		},
		{
			name: "workbook without skipping keeps the sub-header row",
			setupFunc: func(t *testing.T) string {
				sheet := testutil.MeasurementSheet("Pt ID", []string{"C5 whole cord"}, []testutil.PatientValues{
					{ID: 1, Values: [][2]any{{1.0, 1.1}}},
				})
				return testutil.WriteWorkbook(t, t.TempDir(), "values.xlsx", sheet)
			},
			wantHeaders: []string{"Pt ID", "C5 whole cord", "Unnamed: 2"},
			wantRows:    2,
		},
		{
			name: "blank spacer row before the sub-header is not counted as skipped",
			setupFunc: func(t *testing.T) string {
				return writeFile(t, "values.csv", "Pt ID,C5 whole cord,\n,,\nPt ID,Values,SCT\n1,0.5,0.6\n2,0.7,0.8\n")
			},
			opts:        LoadOptions{SkipRows: 1},
			wantHeaders: []string{"Pt ID", "C5 whole cord", "Unnamed: 2"},
			wantRows:    2,
		},
		{
			name: "named sheet",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteWorkbook(t, t.TempDir(), "values.xlsx", testutil.Sheet{
					Name:    "Cord",
					Headers: []string{"Pt ID", "A"},
					Rows:    [][]any{{1, 2.5}},
				})
			},
			opts:        LoadOptions{Sheet: "Cord"},
			wantHeaders: []string{"Pt ID", "A"},
			wantRows:    1,
		},
		{
			name: "csv with BOM, blank and duplicate headers",
			setupFunc: func(t *testing.T) string {
				return writeFile(t, "values.csv", "\ufeffPt ID,A,,A\n1,2,3,4\n\n2,5,6,7\n")
			},
			wantHeaders: []string{"Pt ID", "A", "Unnamed: 2", "A.1"},
			wantRows:    2,
		},
		{
			name: "skip rows beyond data leaves an empty table",
			setupFunc: func(t *testing.T) string {
				return writeFile(t, "values.csv", "Pt ID,A\n1,2\n")
			},
			opts:        LoadOptions{SkipRows: 5},
			wantHeaders: []string{"Pt ID", "A"},
			wantRows:    0,
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.xlsx")
			},
			wantErr:       true,
			errorContains: "open input",
		},
		{
			name: "legacy xls is unsupported",
			setupFunc: func(t *testing.T) string {
				return writeFile(t, "Values.xls", "not a workbook")
			},
			wantErr:       true,
			errorContains: "unsupported input format",
		},
		{
			name: "empty csv",
			setupFunc: func(t *testing.T) string {
				return writeFile(t, "values.csv", "")
			},
			wantErr:       true,
			errorContains: "empty sheet",
		},
		{
			name: "corrupt workbook",
			setupFunc: func(t *testing.T) string {
				return writeFile(t, "values.xlsx", "plain text")
			},
			wantErr:       true,
			errorContains: "read input",
		},
		{
			name: "unknown sheet",
			setupFunc: func(t *testing.T) string {
				return testutil.WriteWorkbook(t, t.TempDir(), "values.xlsx", testutil.Sheet{
					Headers: []string{"Pt ID"},
					Rows:    [][]any{{1}},
				})
			},
			opts:          LoadOptions{Sheet: "Missing"},
			wantErr:       true,
			errorContains: "sheet not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setupFunc(t)
			logger, _ := testutil.NewTestLogger(t)

			table, err := NewLoader(logger).Load(path, tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrStructural), "want structural error, got %v", err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantHeaders, table.Headers)
			assert.Equal(t, tt.wantRows, table.Len())
		})
	}
}

func TestLoader_MissingFileKeepsCause(t *testing.T) {
	_, err := NewLoader(nil).Load(filepath.Join(t.TempDir(), "absent.csv"), LoadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestTable_RequireColumns(t *testing.T) {
	table, err := NewLoader(nil).Load(writeFile(t, "values.csv", "Pt ID,A,\n1,2,3\n"), LoadOptions{})
	require.NoError(t, err)

	assert.NoError(t, table.RequireColumns("Pt ID", "A", "Unnamed: 2"))

	err = table.RequireColumns("Pt ID", "B", "Unnamed: 4", "B")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStructural))

	var se *apperrors.StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, []string{"B", "Unnamed: 4"}, se.Missing)
}

func TestTable_Cell(t *testing.T) {
	table, err := NewLoader(nil).Load(writeFile(t, "values.csv", "Pt ID,A,B\n1, 2 \n"), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "2", table.Cell(0, 1))
	assert.Equal(t, "", table.Cell(0, 2), "short row")
	assert.Equal(t, "", table.Cell(3, 0), "row out of range")
}
