package exporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// Format is an export file format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for unknown export formats
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat resolves a case-insensitive format name
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Filename builds an attachment name for a report
func (f Format) Filename(base string) string {
	return fmt.Sprintf("%s.%s", base, string(f))
}

// Exporter writes reports in any supported format
type Exporter struct {
	logger *slog.Logger
	csv    *CSVWriter
	xlsx   *XLSXWriter
}

// NewExporter creates an exporter
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		logger: logger.With(slog.String("component", "exporter")),
		csv:    NewCSVWriter(),
		xlsx:   NewXLSXWriter(),
	}
}

// Sales writes the sales report to w
func (e *Exporter) Sales(w io.Writer, format Format, report *domain.SalesReport) error {
	e.logger.Debug("exporting sales report",
		slog.String("format", string(format)),
		slog.Int("record_count", len(salesRecords(report))))

	switch format {
	case FormatCSV:
		return e.csv.WriteSales(w, report)
	case FormatXLSX:
		return e.xlsx.WriteSales(w, report)
	case FormatJSON:
		return writeJSON(w, SalesView(report))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// Timing writes the timing report to w
func (e *Exporter) Timing(w io.Writer, format Format, report *domain.TimingReport) error {
	e.logger.Debug("exporting timing report", slog.String("format", string(format)))

	switch format {
	case FormatCSV:
		return e.csv.WriteTiming(w, report)
	case FormatXLSX:
		return e.xlsx.WriteTiming(w, report)
	case FormatJSON:
		return writeJSON(w, TimingView(report))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteFile creates path (and its directory) and fills it with write
func (e *Exporter) WriteFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	e.logger.Info("report written", slog.String("file_path", path))
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func salesRecords(report *domain.SalesReport) []domain.LotRecord {
	if report == nil {
		return nil
	}
	return report.Records
}
