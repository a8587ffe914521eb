package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/jocelynchengyang/correlationAnalysis/internal/errors"
	"github.com/jocelynchengyang/correlationAnalysis/internal/infrastructure"
)

// SupportedExtensions lists the input formats the loader can read
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// ErrLegacyWorkbook is returned for binary .xls files
var ErrLegacyWorkbook = errors.New("legacy .xls workbooks are not supported, save the file as .xlsx")

// FileValidator checks the run's input file and output directory before any work starts
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	return &FileValidator{
		logger: infrastructure.WithComponent(logger, "validation"),
	}
}

// ValidateInputFile checks that path is a readable spreadsheet in a supported
// format. Failures are structural errors.
func (v *FileValidator) ValidateInputFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return apperrors.NewStructuralError("invalid input", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xls" {
		v.logger.Error("Legacy Excel format",
			slog.String("file", path))
		return apperrors.NewStructuralError("unsupported input format", path, ErrLegacyWorkbook)
	}
	if !isSupported(ext) {
		v.logger.Error("Unsupported input format",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewStructuralError("unsupported input format", path,
			fmt.Errorf("extension %q, expected one of %s", ext, strings.Join(SupportedExtensions, ", ")))
	}

	// Excel lock files share the workbook's extension
	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Temporary Excel file",
			slog.String("file", path))
		return apperrors.NewStructuralError("invalid input", path, errors.New("temporary Excel lock file"))
	}

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.String("extension", ext))
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

func isSupported(ext string) bool {
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
