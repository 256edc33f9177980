package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// XLSXWriter renders reports as workbooks with one sheet per section
type XLSXWriter struct{}

// NewXLSXWriter creates a workbook writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// WriteSales writes a workbook with records, lots, resolutions and totals sheets
func (x *XLSXWriter) WriteSales(out io.Writer, report *domain.SalesReport) error {
	return x.write(out, salesSheets(report))
}

// WriteTiming writes a workbook with intervals and orders sheets
func (x *XLSXWriter) WriteTiming(out io.Writer, report *domain.TimingReport) error {
	return x.write(out, timingSheets(report))
}

// sheet holds typed cell values so numbers stay numeric in the workbook
type sheet struct {
	name    string
	headers []string
	rows    [][]interface{}
}

func (x *XLSXWriter) write(out io.Writer, sheets []sheet) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}

		if err := writeSheet(f, s, headerStyle); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	header := make([]interface{}, len(s.headers))
	for i, h := range s.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s headers: %w", s.name, err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(s.headers))
	if err != nil {
		return fmt.Errorf("failed to resolve %s columns: %w", s.name, err)
	}
	if err := f.SetCellStyle(s.name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style %s headers: %w", s.name, err)
	}

	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.name, i+1, err)
		}
	}

	if err := f.SetColWidth(s.name, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to size %s columns: %w", s.name, err)
	}
	return nil
}

func salesSheets(report *domain.SalesReport) []sheet {
	if report == nil {
		report = &domain.SalesReport{}
	}

	records := sheet{name: SectionRecords, headers: []string{"order_number", "resolution", "code", "lot"}}
	for _, r := range report.Records {
		records.rows = append(records.rows, []interface{}{r.OrderNumber, r.Resolution, r.Code, r.Lot})
	}

	lots := sheet{name: SectionLots, headers: []string{"lot", "photo_count", "orders", "percent", "allocated_amount"}}
	for _, l := range report.Lots {
		lots.rows = append(lots.rows, []interface{}{l.Lot, l.PhotoCount, l.Orders, Round2(l.Percent), Round2(l.AllocatedAmount)})
	}

	resolutions := sheet{name: SectionResolutions, headers: []string{"resolution", "photo_count", "orders", "percent", "allocated_amount"}}
	for _, r := range report.Resolutions {
		resolutions.rows = append(resolutions.rows, []interface{}{r.Resolution, r.PhotoCount, r.Orders, Round2(r.Percent), Round2(r.AllocatedAmount)})
	}

	t := report.Totals
	totals := sheet{
		name:    SectionTotals,
		headers: []string{"prefix", "total_photos", "distinct_orders", "mean_photos_per_order", "total_value", "lines_matched"},
		rows: [][]interface{}{{
			report.Prefix, t.TotalPhotos, t.DistinctOrders, Round2(t.MeanPhotosPerOrder), Round2(t.TotalValue), t.LinesMatched,
		}},
	}

	return []sheet{records, lots, resolutions, totals}
}

func timingSheets(report *domain.TimingReport) []sheet {
	if report == nil {
		report = &domain.TimingReport{}
	}

	intervals := sheet{name: SectionIntervals, headers: []string{"interval", "lower_hours", "upper_hours", "count", "percent"}}
	for _, iv := range report.Intervals {
		var upper interface{} = iv.UpperHours
		if iv.Unbounded() {
			upper = ""
		}
		intervals.rows = append(intervals.rows, []interface{}{iv.Label, iv.LowerHours, upper, iv.Count, Round2(iv.Percent)})
	}

	orders := sheet{name: SectionOrders, headers: []string{"order_id", "timestamp"}}
	for _, o := range report.Orders {
		orders.rows = append(orders.rows, []interface{}{o.OrderID, o.Timestamp})
	}

	return []sheet{intervals, orders}
}
