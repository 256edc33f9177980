package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Section titles shared by the CSV and XLSX renditions
const (
	SectionRecords     = "records"
	SectionLots        = "lots"
	SectionResolutions = "resolutions"
	SectionTotals      = "totals"
	SectionIntervals   = "intervals"
	SectionOrders      = "orders"
)

// section is a titled table
type section struct {
	title   string
	headers []string
	rows    [][]string
}

// CSVWriter writes report sections to a single CSV stream
type CSVWriter struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	Comma     rune
}

// NewCSVWriter creates a CSV writer that emits a BOM and comma separated fields
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{BOMPrefix: true, Comma: ','}
}

// WriteSales writes the sales report as titled sections separated by a blank line
func (w *CSVWriter) WriteSales(out io.Writer, report *domain.SalesReport) error {
	return w.writeSections(out, salesSections(report))
}

// WriteTiming writes the timing report intervals and orders
func (w *CSVWriter) WriteTiming(out io.Writer, report *domain.TimingReport) error {
	return w.writeSections(out, timingSections(report))
}

func (w *CSVWriter) writeSections(out io.Writer, sections []section) error {
	if w.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if w.Comma != 0 {
		writer.Comma = w.Comma
	}

	for i, s := range sections {
		if i > 0 {
			if err := writer.Write([]string{""}); err != nil {
				return fmt.Errorf("failed to write separator: %w", err)
			}
		}
		if err := writer.Write([]string{s.title}); err != nil {
			return fmt.Errorf("failed to write %s title: %w", s.title, err)
		}
		if err := writer.Write(s.headers); err != nil {
			return fmt.Errorf("failed to write %s headers: %w", s.title, err)
		}
		for j, row := range s.rows {
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write %s record %d: %w", s.title, j, err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

func salesSections(report *domain.SalesReport) []section {
	if report == nil {
		report = &domain.SalesReport{}
	}

	records := section{title: SectionRecords, headers: []string{"order_number", "resolution", "code", "lot"}}
	for _, r := range report.Records {
		records.rows = append(records.rows, []string{formatInt(r.OrderNumber), r.Resolution, r.Code, r.Lot})
	}

	lots := section{title: SectionLots, headers: []string{"lot", "photo_count", "orders", "percent", "allocated_amount"}}
	for _, l := range report.Lots {
		lots.rows = append(lots.rows, []string{
			l.Lot, formatInt(l.PhotoCount), formatInt(l.Orders), formatFloat(l.Percent), formatFloat(l.AllocatedAmount),
		})
	}

	resolutions := section{title: SectionResolutions, headers: []string{"resolution", "photo_count", "orders", "percent", "allocated_amount"}}
	for _, r := range report.Resolutions {
		resolutions.rows = append(resolutions.rows, []string{
			r.Resolution, formatInt(r.PhotoCount), formatInt(r.Orders), formatFloat(r.Percent), formatFloat(r.AllocatedAmount),
		})
	}

	t := report.Totals
	totals := section{
		title:   SectionTotals,
		headers: []string{"prefix", "total_photos", "distinct_orders", "mean_photos_per_order", "total_value", "lines_matched"},
		rows: [][]string{{
			report.Prefix,
			formatInt(t.TotalPhotos),
			formatInt(t.DistinctOrders),
			formatFloat(t.MeanPhotosPerOrder),
			formatFloat(t.TotalValue),
			formatInt(t.LinesMatched),
		}},
	}

	return []section{records, lots, resolutions, totals}
}

func timingSections(report *domain.TimingReport) []section {
	if report == nil {
		report = &domain.TimingReport{}
	}

	intervals := section{title: SectionIntervals, headers: []string{"interval", "lower_hours", "upper_hours", "count", "percent"}}
	for _, iv := range report.Intervals {
		intervals.rows = append(intervals.rows, []string{
			iv.Label, formatHours(iv.LowerHours), formatHours(iv.UpperHours), formatInt(iv.Count), formatFloat(iv.Percent),
		})
	}

	orders := section{title: SectionOrders, headers: []string{"order_id", "timestamp"}}
	for _, o := range report.Orders {
		orders.rows = append(orders.rows, []string{formatInt(o.OrderID), o.Timestamp.Format(time.RFC3339)})
	}

	return []section{intervals, orders}
}
