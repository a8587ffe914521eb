package config

// Measurement identifies one nerve-level region and the two spreadsheet
// columns holding the method A and method B readings for it.
type Measurement struct {
	ColumnA string `yaml:"column_a" toml:"column_a" json:"column_a" validate:"required"`
	ColumnB string `yaml:"column_b" toml:"column_b" json:"column_b" validate:"required"`
	Key     string `yaml:"key" toml:"key" json:"key" validate:"required,excludesall=/\\:*?<>"`
	Label   string `yaml:"label" toml:"label" json:"label" validate:"required"`
}

// DefaultMeasurements returns the fixed set of 15 cord measurements.
// Method B columns have blank headers in the source workbook, so they are
// addressed by their zero-based column position.
func DefaultMeasurements() []Measurement {
	return []Measurement{
		{ColumnA: "C5 whole cord", ColumnB: "Unnamed: 2", Key: "C5_Whole", Label: "C5 Whole Cord"},
		{ColumnA: "C5 R hemicord", ColumnB: "Unnamed: 4", Key: "C5_Right", Label: "C5 Right Hemicord"},
		{ColumnA: "C5 L hemicord", ColumnB: "Unnamed: 6", Key: "C5_Left", Label: "C5 Left Hemicord"},
		{ColumnA: "C6 whole cord", ColumnB: "Unnamed: 8", Key: "C6_Whole", Label: "C6 Whole Cord"},
		{ColumnA: "C6 R hemicord", ColumnB: "Unnamed: 10", Key: "C6_Right", Label: "C6 Right Hemicord"},
		{ColumnA: "C6 L hemicord", ColumnB: "Unnamed: 12", Key: "C6_Left", Label: "C6 Left Hemicord"},
		{ColumnA: "C7 whole cord", ColumnB: "Unnamed: 14", Key: "C7_Whole", Label: "C7 Whole Cord"},
		{ColumnA: "C7 R hemicord", ColumnB: "Unnamed: 16", Key: "C7_Right", Label: "C7 Right Hemicord"},
		{ColumnA: "C7 L hemicord", ColumnB: "Unnamed: 18", Key: "C7_Left", Label: "C7 Left Hemicord"},
		{ColumnA: "C8 whole cord", ColumnB: "Unnamed: 20", Key: "C8_Whole", Label: "C8 Whole Cord"},
		{ColumnA: "C8 R hemicord", ColumnB: "Unnamed: 22", Key: "C8_Right", Label: "C8 Right Hemicord"},
		{ColumnA: "C8 L hemicord", ColumnB: "Unnamed: 24", Key: "C8_Left", Label: "C8 Left Hemicord"},
		{ColumnA: "T1 whole cord", ColumnB: "Unnamed: 26", Key: "T1_Whole", Label: "T1 Whole Cord"},
		{ColumnA: "T1 R hemicord", ColumnB: "Unnamed: 28", Key: "T1_Right", Label: "T1 Right Hemicord"},
		{ColumnA: "T1 L hemicord", ColumnB: "Unnamed: 30", Key: "T1_Left", Label: "T1 Left Hemicord"},
	}
}

// Columns returns every column label the measurements read from
func Columns(measurements []Measurement) []string {
	cols := make([]string, 0, len(measurements)*2)
	for _, m := range measurements {
		cols = append(cols, m.ColumnA, m.ColumnB)
	}
	return cols
}
