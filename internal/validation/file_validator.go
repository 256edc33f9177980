// Package validation checks report input and output files before any work
// is done on them.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotAFile is returned when an input path is missing or a directory
	ErrNotAFile = errors.New("not a readable file")
	// ErrUnsupportedExtension is returned for files that are not text exports
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	// ErrTemporaryFile is returned for office lock files such as ~$relatorio.csv
	ErrTemporaryFile = errors.New("temporary office file")
	// ErrFileTooLarge is returned when an input exceeds the configured limit
	ErrFileTooLarge = errors.New("file too large")
)

// TextExtensions are the extensions accepted for sales and order exports.
// An empty extension is accepted too.
var TextExtensions = []string{".txt", ".csv", ".tsv", ".text"}

// FileValidator validates report input and output files
type FileValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewFileValidator creates a file validator. maxBytes <= 0 disables the size check.
func NewFileValidator(logger *slog.Logger, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// ValidateName checks that name looks like a text export
func (v *FileValidator) ValidateName(name string) error {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Rejecting temporary office file", slog.String("file", name))
		return fmt.Errorf("%s: %w", base, ErrTemporaryFile)
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		return nil
	}
	for _, allowed := range TextExtensions {
		if ext == allowed {
			return nil
		}
	}

	v.logger.Warn("Rejecting file extension",
		slog.String("file", name),
		slog.String("extension", ext))
	return fmt.Errorf("%s (%s): %w", base, ext, ErrUnsupportedExtension)
}

// ValidateSize checks size against the configured limit
func (v *FileValidator) ValidateSize(name string, size int64) error {
	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("Rejecting oversized file",
			slog.String("file", name),
			slog.Int64("size", size),
			slog.Int64("limit", v.maxBytes))
		return fmt.Errorf("%s has %d bytes, limit is %d: %w", name, size, v.maxBytes, ErrFileTooLarge)
	}
	return nil
}

// ValidateInputFile checks that path is a readable text export within the size limit
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s does not exist: %w", path, ErrNotAFile)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory: %w", path, ErrNotAFile)
	}

	if err := v.ValidateName(path); err != nil {
		return err
	}
	if err := v.ValidateSize(path, info.Size()); err != nil {
		return err
	}

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the directory of path exists and is writable
func (v *FileValidator) ValidateOutputDirectory(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	tmp.Close()
	os.Remove(tmp.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
