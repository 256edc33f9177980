package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/andrejarenkow/contagem-lote-foco/internal/exporter"
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	numberStyle   = cellStyle.Align(lipgloss.Right)
	borderStyle   = lipgloss.NewStyle().Faint(true)
	advisoryStyle = lipgloss.NewStyle().Faint(true)
)

// newTable builds a bordered table whose first column is text and the rest
// are right-aligned numbers
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		}).
		Headers(headers...)
}

func writeSalesTables(w io.Writer, report *domain.SalesReport, nf *exporter.NumberFormatter) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s (lot at position %d)\n\n",
		titleStyle.Render("Prefix"), report.Prefix, report.LotOffset)

	if !report.Empty() {
		lots := newTable("Lot", "Photos", "Orders", "Share", "Amount")
		for _, l := range report.Lots {
			lots.Row(l.Lot, nf.Int(l.PhotoCount), nf.Int(l.Orders), nf.Percent(l.Percent), nf.Decimal(l.AllocatedAmount))
		}
		b.WriteString(titleStyle.Render("Lots") + "\n" + lots.String() + "\n\n")

		resolutions := newTable("Resolution", "Photos", "Orders", "Share", "Amount")
		for _, r := range report.Resolutions {
			resolutions.Row(r.Resolution, nf.Int(r.PhotoCount), nf.Int(r.Orders), nf.Percent(r.Percent), nf.Decimal(r.AllocatedAmount))
		}
		b.WriteString(titleStyle.Render("Resolutions") + "\n" + resolutions.String() + "\n\n")
	}

	t := report.Totals
	totals := newTable("Total", "Value").
		Row("Photos", nf.Int(t.TotalPhotos)).
		Row("Distinct orders", nf.Int(t.DistinctOrders)).
		Row("Photos per order", nf.Decimal(t.MeanPhotosPerOrder)).
		Row("Total value", nf.Decimal(t.TotalValue)).
		Row("Lines matched", nf.Int(t.LinesMatched))
	b.WriteString(titleStyle.Render("Totals") + "\n" + totals.String() + "\n")

	writeAdvisories(&b, report.Advisories)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTimingTables(w io.Writer, report *domain.TimingReport, nf *exporter.NumberFormatter) error {
	var b strings.Builder

	if report.Reference != nil {
		fmt.Fprintf(&b, "%s %s\n\n", titleStyle.Render("Reference"), report.Reference.Format("02/01/2006 15:04:05"))
	}

	if len(report.Intervals) > 0 {
		intervals := newTable("Interval", "Orders", "Share")
		for _, s := range report.Intervals {
			intervals.Row(s.Label, nf.Int(s.Count), nf.Percent(s.Percent))
		}
		b.WriteString(titleStyle.Render("Release intervals") + "\n" + intervals.String() + "\n\n")
	}

	summary := newTable("Orders", "Count").
		Row("Parsed", nf.Int(len(report.Orders))).
		Row("Bucketed", nf.Int(report.Bucketed)).
		Row("Before release", nf.Int(report.BeforeRelease)).
		Row("Skipped", nf.Int(report.Skipped))
	b.WriteString(summary.String() + "\n")

	writeAdvisories(&b, report.Advisories)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeAdvisories(b *strings.Builder, advisories []domain.Advisory) {
	if len(advisories) == 0 {
		return
	}
	b.WriteString("\n")
	for _, a := range advisories {
		line := fmt.Sprintf("! %s: %s", a.Code, a.Message)
		b.WriteString(advisoryStyle.Render(line) + "\n")
	}
}
