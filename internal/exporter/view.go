package exporter

import (
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// SalesView returns a copy of the report with amounts and shares rounded to
// two decimals. The input report is not modified.
func SalesView(report *domain.SalesReport) *domain.SalesReport {
	if report == nil {
		return nil
	}

	view := *report
	view.Lots = make([]domain.LotSummary, len(report.Lots))
	for i, l := range report.Lots {
		l.Percent = Round2(l.Percent)
		l.AllocatedAmount = Round2(l.AllocatedAmount)
		view.Lots[i] = l
	}

	view.Resolutions = make([]domain.ResolutionSummary, len(report.Resolutions))
	for i, r := range report.Resolutions {
		r.Percent = Round2(r.Percent)
		r.AllocatedAmount = Round2(r.AllocatedAmount)
		view.Resolutions[i] = r
	}

	view.Totals.MeanPhotosPerOrder = Round2(report.Totals.MeanPhotosPerOrder)
	view.Totals.TotalValue = Round2(report.Totals.TotalValue)

	if view.Records == nil {
		view.Records = []domain.LotRecord{}
	}
	return &view
}

// TimingView returns a copy of the report with interval shares rounded
func TimingView(report *domain.TimingReport) *domain.TimingReport {
	if report == nil {
		return nil
	}

	view := *report
	if report.Intervals != nil {
		view.Intervals = make([]domain.IntervalShare, len(report.Intervals))
		for i, iv := range report.Intervals {
			iv.Percent = Round2(iv.Percent)
			view.Intervals[i] = iv
		}
	}
	if view.Orders == nil {
		view.Orders = []domain.OrderTimestamp{}
	}
	return &view
}
