package dataprocessing

import (
	"context"
	"log/slog"
	"sort"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// Summarizer groups lot records and computes shares of the grand total.
type Summarizer struct {
	logger *slog.Logger
}

// NewSummarizer creates a summarizer. A nil logger falls back to slog.Default.
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger}
}

// group accumulates one bucket of records.
type group struct {
	key    string
	count  int
	orders map[int]struct{}
}

func groupRecords(records []domain.LotRecord, keyOf func(domain.LotRecord) string) []*group {
	index := make(map[string]*group)
	var groups []*group

	for _, rec := range records {
		key := keyOf(rec)
		g, ok := index[key]
		if !ok {
			g = &group{key: key, orders: make(map[int]struct{})}
			index[key] = g
			groups = append(groups, g)
		}
		g.count++
		g.orders[rec.OrderNumber] = struct{}{}
	}

	return groups
}

// share returns the percentage (0-100) and the allocation of totalValue for
// count out of total. Both are zero when total is zero.
func share(count, total int, totalValue float64) (float64, float64) {
	if total == 0 {
		return 0, 0
	}
	ratio := float64(count) / float64(total)
	return ratio * 100, ratio * totalValue
}

// ByLot groups records by lot label, sorted by label.
// totalValue is allocated proportionally to each lot's photo count.
func (s *Summarizer) ByLot(ctx context.Context, records []domain.LotRecord, totalValue float64) []domain.LotSummary {
	groups := groupRecords(records, func(r domain.LotRecord) string { return r.Lot })

	summaries := make([]domain.LotSummary, 0, len(groups))
	for _, g := range groups {
		pct, amount := share(g.count, len(records), totalValue)
		summaries = append(summaries, domain.LotSummary{
			Lot:             g.key,
			PhotoCount:      g.count,
			Orders:          len(g.orders),
			Percent:         pct,
			AllocatedAmount: amount,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Lot < summaries[j].Lot
	})

	s.logger.DebugContext(ctx, "grouped records by lot",
		slog.Int("record_count", len(records)),
		slog.Int("lot_count", len(summaries)))

	return summaries
}

// ByResolution groups records by resolution label, largest group first.
func (s *Summarizer) ByResolution(ctx context.Context, records []domain.LotRecord, totalValue float64) []domain.ResolutionSummary {
	groups := groupRecords(records, func(r domain.LotRecord) string { return r.Resolution })

	summaries := make([]domain.ResolutionSummary, 0, len(groups))
	for _, g := range groups {
		pct, amount := share(g.count, len(records), totalValue)
		summaries = append(summaries, domain.ResolutionSummary{
			Resolution:      g.key,
			PhotoCount:      g.count,
			Orders:          len(g.orders),
			Percent:         pct,
			AllocatedAmount: amount,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].PhotoCount != summaries[j].PhotoCount {
			return summaries[i].PhotoCount > summaries[j].PhotoCount
		}
		return summaries[i].Resolution < summaries[j].Resolution
	})

	s.logger.DebugContext(ctx, "grouped records by resolution",
		slog.Int("record_count", len(records)),
		slog.Int("resolution_count", len(summaries)))

	return summaries
}

// Totals computes the scalar figures of a set of records.
func (s *Summarizer) Totals(records []domain.LotRecord, totalValue float64) domain.SalesTotals {
	orders := make(map[int]struct{}, len(records))
	for _, rec := range records {
		orders[rec.OrderNumber] = struct{}{}
	}

	totals := domain.SalesTotals{
		TotalPhotos:    len(records),
		DistinctOrders: len(orders),
		TotalValue:     totalValue,
	}
	if len(orders) > 0 {
		totals.MeanPhotosPerOrder = float64(len(records)) / float64(len(orders))
	}
	return totals
}
