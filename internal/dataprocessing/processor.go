package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// ErrMissingEventCode is returned when a sales request has no event code.
var ErrMissingEventCode = errors.New("event code is required")

// ErrInvalidTotalValue is returned for a total value that is negative, NaN or infinite.
var ErrInvalidTotalValue = errors.New("total value must be a finite number >= 0")

// Processor builds sales and timing reports from raw export text.
// It holds no per-request state and is safe for concurrent use.
type Processor struct {
	logger     *slog.Logger
	opts       Options
	summarizer *Summarizer
}

// NewProcessor creates a processor. Empty prefixes take their defaults; a zero
// TimezoneOffset is kept, so timestamps are read as UTC.
func NewProcessor(logger *slog.Logger, opts Options) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.OffsetPrefix == "" {
		opts.OffsetPrefix = defaults.OffsetPrefix
	}
	if opts.DefaultPhotographer == "" {
		opts.DefaultPhotographer = defaults.DefaultPhotographer
	}

	logger = logger.With(slog.String("component", "processor"))
	return &Processor{
		logger:     logger,
		opts:       opts,
		summarizer: NewSummarizer(logger),
	}
}

// Options returns the processor configuration.
func (p *Processor) Options() Options {
	return p.opts
}

// Prefix returns the filter prefix for a photographer and event code.
func (p *Processor) Prefix(photographerCode, eventCode string) string {
	if photographerCode == "" {
		photographerCode = p.opts.DefaultPhotographer
	}
	return photographerCode + eventCode
}

// BuildSales runs the sales pipeline: match, filter, derive lots, aggregate.
// An input without usable records yields an empty report with an advisory,
// not an error.
func (p *Processor) BuildSales(ctx context.Context, req SalesRequest) (*domain.SalesReport, error) {
	eventCode := strings.TrimSpace(req.EventCode)
	if eventCode == "" {
		return nil, ErrMissingEventCode
	}

	strict := p.opts.Strict
	if req.Strict != nil {
		strict = *req.Strict
	}
	var totalValue float64
	if req.TotalValue != nil {
		totalValue = *req.TotalValue
		if math.IsNaN(totalValue) || math.IsInf(totalValue, 0) || totalValue < 0 {
			return nil, fmt.Errorf("%w: got %v", ErrInvalidTotalValue, totalValue)
		}
	}

	prefix := p.Prefix(strings.TrimSpace(req.PhotographerCode), eventCode)
	offset := LotOffset(p.opts.OffsetPrefix, eventCode)

	report := &domain.SalesReport{
		Prefix:      prefix,
		LotOffset:   offset,
		Records:     []domain.LotRecord{},
		Lots:        []domain.LotSummary{},
		Resolutions: []domain.ResolutionSummary{},
	}

	matched, overflow := parseSales(req.Text)
	report.Totals.LinesMatched = len(matched)
	if overflow > 0 {
		p.logger.DebugContext(ctx, "skipped lines with out of range order numbers",
			slog.Int("count", overflow))
	}

	if len(matched) == 0 {
		p.logger.InfoContext(ctx, "no sales lines matched",
			slog.Int("input_bytes", len(req.Text)))
		report.Advisories = append(report.Advisories, domain.Advisory{
			Code:    domain.AdvisoryNoMatches,
			Message: "no line of the input matches the sales report format",
		})
		report.Totals.TotalValue = totalValue
		return report, nil
	}

	filtered := FilterByPrefix(matched, prefix)
	if len(filtered) == 0 {
		p.logger.InfoContext(ctx, "no sales lines carry the prefix",
			slog.String("prefix", prefix),
			slog.Int("lines_matched", len(matched)))
		report.Advisories = append(report.Advisories, domain.Advisory{
			Code:    domain.AdvisoryNoRecordsForPrefix,
			Message: fmt.Sprintf("no data found for code %s", prefix),
			Value:   prefix,
		})
		report.Totals.TotalValue = totalValue
		return report, nil
	}

	var malformed []*MalformedCodeError
	for _, rec := range filtered {
		lot, err := DeriveLot(rec.Code, offset)
		if err != nil {
			var mce *MalformedCodeError
			if errors.As(err, &mce) {
				mce.Line = rec.Line
				malformed = append(malformed, mce)
				continue
			}
			return nil, err
		}
		report.Records = append(report.Records, domain.LotRecord{SaleRecord: rec, Lot: lot})
	}

	if len(malformed) > 0 {
		if strict {
			p.logger.WarnContext(ctx, "rejecting batch with malformed codes",
				slog.Int("malformed_count", len(malformed)),
				slog.Int("offset", offset))
			return nil, &MalformedBatchError{Errors: malformed}
		}
		for _, mce := range malformed {
			p.logger.WarnContext(ctx, "skipping record with malformed code",
				slog.String("code", mce.Code),
				slog.Int("line", mce.Line),
				slog.Int("offset", offset))
			report.Advisories = append(report.Advisories, domain.Advisory{
				Code:    domain.AdvisoryMalformedCode,
				Message: mce.Error(),
				Line:    mce.Line,
				Value:   mce.Code,
			})
		}
	}

	report.Lots = p.summarizer.ByLot(ctx, report.Records, totalValue)
	report.Resolutions = p.summarizer.ByResolution(ctx, report.Records, totalValue)
	linesMatched := report.Totals.LinesMatched
	report.Totals = p.summarizer.Totals(report.Records, totalValue)
	report.Totals.LinesMatched = linesMatched

	p.logger.InfoContext(ctx, "sales report built",
		slog.String("prefix", prefix),
		slog.Int("lines_matched", linesMatched),
		slog.Int("records", len(report.Records)),
		slog.Int("lots", len(report.Lots)),
		slog.Int("malformed", len(malformed)))

	return report, nil
}

// BuildTiming runs the release timing pipeline: extract, restrict, bucket.
// Unparseable pairs are skipped with advisories.
func (p *Processor) BuildTiming(ctx context.Context, req TimingRequest) (*domain.TimingReport, error) {
	orders, advisories := ParseOrderTimestamps(req.Text, p.opts.TimezoneOffset)

	report := &domain.TimingReport{
		Orders:     orders,
		Skipped:    len(advisories),
		Advisories: advisories,
	}

	if req.RestrictTo != nil {
		before := len(report.Orders)
		report.Orders = RestrictToOrders(report.Orders, req.RestrictTo)
		p.logger.DebugContext(ctx, "restricted timestamps to sales orders",
			slog.Int("before", before),
			slog.Int("after", len(report.Orders)))
	}
	if report.Orders == nil {
		report.Orders = []domain.OrderTimestamp{}
	}

	if len(report.Orders) == 0 {
		report.Advisories = append(report.Advisories, domain.Advisory{
			Code:    domain.AdvisoryNoTimestamps,
			Message: "no order timestamp found in the input",
		})
	}

	if req.Reference == nil {
		report.Advisories = append(report.Advisories, domain.Advisory{
			Code:    domain.AdvisoryNoReference,
			Message: "a release reference time is required for the interval table",
		})
		return report, nil
	}

	ref := req.Reference.UTC()
	report.Reference = &ref
	report.Intervals, report.Bucketed, report.BeforeRelease = BucketByInterval(report.Orders, ref)

	if report.BeforeRelease > 0 {
		report.Advisories = append(report.Advisories, domain.Advisory{
			Code:    domain.AdvisoryBeforeRelease,
			Message: fmt.Sprintf("%d order(s) precede the release reference", report.BeforeRelease),
		})
	}

	p.logger.InfoContext(ctx, "timing report built",
		slog.Int("orders", len(report.Orders)),
		slog.Int("bucketed", report.Bucketed),
		slog.Int("before_release", report.BeforeRelease),
		slog.Int("skipped", report.Skipped))

	return report, nil
}
