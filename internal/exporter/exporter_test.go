package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

func sampleSalesReport() *domain.SalesReport {
	rec := func(order int, res, code, lot string) domain.LotRecord {
		return domain.LotRecord{SaleRecord: domain.SaleRecord{OrderNumber: order, Resolution: res, Code: code}, Lot: lot}
	}
	return &domain.SalesReport{
		Prefix:    "LENSEVT",
		LotOffset: 7,
		Records: []domain.LotRecord{
			rec(3, "640x480 Pixels", "LENSEVT001", "0"),
			rec(5, "800x600 Pixels", "LENSEVT002", "0"),
			rec(9, "3000 Pixels", "LENSEVT1B2", "1"),
		},
		Lots: []domain.LotSummary{
			{Lot: "0", PhotoCount: 2, Orders: 2, Percent: 200.0 / 3, AllocatedAmount: 66.666666},
			{Lot: "1", PhotoCount: 1, Orders: 1, Percent: 100.0 / 3, AllocatedAmount: 33.333333},
		},
		Resolutions: []domain.ResolutionSummary{
			{Resolution: "3000 Pixels", PhotoCount: 1, Orders: 1, Percent: 100.0 / 3, AllocatedAmount: 33.333333},
		},
		Totals: domain.SalesTotals{TotalPhotos: 3, DistinctOrders: 3, MeanPhotosPerOrder: 1, TotalValue: 100, LinesMatched: 4},
	}
}

func sampleTimingReport() *domain.TimingReport {
	ref := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	return &domain.TimingReport{
		Reference: &ref,
		Orders:    []domain.OrderTimestamp{{OrderID: 3, Timestamp: ref.Add(210 * time.Minute), Line: 2}},
		Intervals: []domain.IntervalShare{
			{Label: "3 a 4h", LowerHours: 3, UpperHours: 4, Count: 1, Percent: 100},
			{Label: "72h+", LowerHours: 72, UpperHours: math.Inf(1)},
		},
		Bucketed: 1,
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.13},
		{-0.125, -0.13},
		{200.0 / 3, 66.67},
		{100.0 / 3, 33.33},
		{42, 42},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
}

func TestNumberFormatter(t *testing.T) {
	br := NewNumberFormatter("pt-BR")
	assert.Equal(t, "1.234,50", br.Decimal(1234.5))
	assert.Equal(t, "12.345", br.Int(12345))
	assert.Equal(t, "66,67%", br.Percent(200.0/3))

	us := NewNumberFormatter("en-US")
	assert.Equal(t, "1,234.50", us.Decimal(1234.5))

	assert.Equal(t, "en", NewNumberFormatter("not a locale!").Locale())
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM))
	r := csv.NewReader(bytes.NewReader(data[len(utf8BOM):]))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WriteSales(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().WriteSales(&buf, sampleSalesReport()))

	rows := readCSV(t, buf.Bytes())

	assert.Equal(t, []string{SectionRecords}, rows[0])
	assert.Equal(t, []string{"order_number", "resolution", "code", "lot"}, rows[1])
	assert.Equal(t, []string{"3", "640x480 Pixels", "LENSEVT001", "0"}, rows[2])

	assert.Contains(t, rows, []string{SectionLots})
	assert.Contains(t, rows, []string{"0", "2", "2", "66.67", "66.67"})
	assert.Contains(t, rows, []string{"1", "1", "1", "33.33", "33.33"})
	assert.Contains(t, rows, []string{SectionResolutions})
	assert.Contains(t, rows, []string{"LENSEVT", "3", "3", "1.00", "100.00", "4"})
}

func TestCSVWriter_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVWriter().WriteSales(&buf, nil))

	rows := readCSV(t, buf.Bytes())
	assert.Contains(t, rows, []string{SectionTotals})
	assert.Contains(t, rows, []string{"", "0", "0", "0.00", "0.00", "0"})
}

func TestCSVWriter_WriteTiming(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter()
	w.Comma = ';'
	require.NoError(t, w.WriteTiming(&buf, sampleTimingReport()))

	r := csv.NewReader(bytes.NewReader(buf.Bytes()[len(utf8BOM):]))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Contains(t, rows, []string{"3 a 4h", "3", "4", "1", "100.00"})
	assert.Contains(t, rows, []string{"72h+", "72", "", "0", "0.00"})
	assert.Contains(t, rows, []string{"3", "2024-03-15T13:30:00Z"})
}

func TestXLSXWriter_WriteSales(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().WriteSales(&buf, sampleSalesReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SectionRecords, SectionLots, SectionResolutions, SectionTotals}, f.GetSheetList())

	records, err := f.GetRows(SectionRecords)
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"9", "3000 Pixels", "LENSEVT1B2", "1"}, records[3])

	amount, err := f.GetCellValue(SectionLots, "E2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "66.67", amount)
}

func TestXLSXWriter_WriteTiming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().WriteTiming(&buf, sampleTimingReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SectionIntervals, SectionOrders}, f.GetSheetList())
	label, err := f.GetCellValue(SectionIntervals, "A3")
	require.NoError(t, err)
	assert.Equal(t, "72h+", label)
	upper, err := f.GetCellValue(SectionIntervals, "C3")
	require.NoError(t, err)
	assert.Empty(t, upper)
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"csv", "XLSX", " json "} {
		_, err := ParseFormat(name)
		assert.NoError(t, err, name)
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, "report.xlsx", FormatXLSX.Filename("report"))
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
}

func TestExporter_SalesJSONRoundsAmounts(t *testing.T) {
	report := sampleSalesReport()
	var buf bytes.Buffer
	require.NoError(t, NewExporter(nil).Sales(&buf, FormatJSON, report))

	var view domain.SalesReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &view))
	assert.Equal(t, 66.67, view.Lots[0].AllocatedAmount)
	assert.Equal(t, 33.33, view.Lots[1].Percent)

	// the source report keeps full precision
	assert.Equal(t, 66.666666, report.Lots[0].AllocatedAmount)
}

func TestExporter_UnsupportedFormat(t *testing.T) {
	err := NewExporter(nil).Sales(io.Discard, Format("pdf"), sampleSalesReport())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	err = NewExporter(nil).Timing(io.Discard, Format("pdf"), sampleTimingReport())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExporter_WriteFile(t *testing.T) {
	exp := NewExporter(nil)
	path := filepath.Join(t.TempDir(), "out", "timing.csv")

	err := exp.WriteFile(path, func(w io.Writer) error {
		return exp.Timing(w, FormatCSV, sampleTimingReport())
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "3 a 4h")
}

func TestTimingViewEncodesUnboundedAsNull(t *testing.T) {
	data, err := json.Marshal(TimingView(sampleTimingReport()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"upper_hours":null`)
	assert.Nil(t, TimingView(nil))
	assert.Nil(t, SalesView(nil))
}
