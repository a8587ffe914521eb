package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the two failure classes of a run
var (
	// ErrStructural marks fatal input problems: missing or unreadable files,
	// unsupported formats and unexpected column layouts.
	ErrStructural = errors.New("structural input error")

	// ErrInsufficientData marks a measurement with too few valid pairs.
	// It is recoverable: the measurement is skipped and the run continues.
	ErrInsufficientData = errors.New("insufficient data")
)

// StructuralError describes a fatal problem with the input spreadsheet
type StructuralError struct {
	Op      string   `json:"op"`
	Path    string   `json:"path,omitempty"`
	Missing []string `json:"missing,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface
func (e *StructuralError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing columns %s", quoteAll(e.Missing))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *StructuralError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStructural
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// NewStructuralError creates a structural error for op on path
func NewStructuralError(op, path string, err error) *StructuralError {
	return &StructuralError{Op: op, Path: path, Err: err}
}

// MissingColumnsError creates a structural error listing absent column labels
func MissingColumnsError(path string, missing []string) *StructuralError {
	return &StructuralError{Op: "unexpected column layout in", Path: path, Missing: missing}
}

// InsufficientDataError records how many valid pairs a measurement had
type InsufficientDataError struct {
	Have int `json:"have"`
	Need int `json:"need"`
}

// Error implements the error interface
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d valid pairs (need at least %d)", e.Have, e.Need)
}

// Is reports whether target is ErrInsufficientData
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// MeasurementError ties an error to the measurement that produced it
type MeasurementError struct {
	Key string
	Err error
}

// Error implements the error interface
func (e *MeasurementError) Error() string {
	return fmt.Sprintf("measurement %s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error
func (e *MeasurementError) Unwrap() error {
	return e.Err
}

// WrapMeasurement attaches a measurement key to err; nil stays nil
func WrapMeasurement(key string, err error) error {
	if err == nil {
		return nil
	}
	return &MeasurementError{Key: key, Err: err}
}

// IsRecoverable reports whether err only invalidates a single measurement
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func quoteAll(labels []string) string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	return strings.Join(quoted, ", ")
}
