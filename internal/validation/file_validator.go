package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Workbook path errors
var (
	ErrNotWorkbook  = errors.New("not an .xlsx workbook")
	ErrTempWorkbook = errors.New("temporary Excel lock file")
	ErrIsDirectory  = errors.New("path is a directory")
	ErrNotWritable  = errors.New("directory is not writable")
)

// FileValidator checks workbook inputs and report output locations given on
// the command line.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateFile checks that path exists, is a regular file and can be opened.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s: %w", path, ErrIsDirectory)
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

// ValidateWorkbookFile checks that path is a readable .xlsx workbook and not
// an Excel lock file ("~$Data for Working.xlsx").
func (v *FileValidator) ValidateWorkbookFile(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Refusing temporary Excel file",
			slog.String("file", path))
		return fmt.Errorf("%s: %w", path, ErrTempWorkbook)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		v.logger.Error("File is not an Excel workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return fmt.Errorf("%s: %w", path, ErrNotWorkbook)
	}

	return v.ValidateFile(path)
}

// ValidateOutputDirectory ensures dir exists, creating it when needed, and
// that files can be created in it.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w: %v", dir, ErrNotWritable, err)
	}
	name := tmp.Name()
	tmp.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
