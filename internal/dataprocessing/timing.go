package dataprocessing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// DefaultTimezoneOffset normalizes exported order times to the reference clock.
const DefaultTimezoneOffset = 3 * time.Hour

// Layouts of the order timestamp export and of release references.
const (
	OrderTimeLayout     = "02/01/2006 15:04"
	ReferenceTimeLayout = "02/01/2006 15:04:05"
)

var orderTimestampPattern = regexp.MustCompile(`(\d+)\s+(\d{2}/\d{2}/\d{4} \d{2}:\d{2})`)

// ErrInvalidReference is returned when a reference time cannot be parsed.
var ErrInvalidReference = errors.New("invalid reference time")

// Interval is a half-open elapsed time range [Lower, Upper) in hours.
type Interval struct {
	Label string
	Lower float64
	Upper float64
}

// Contains reports whether hours falls inside the interval.
func (iv Interval) Contains(hours float64) bool {
	return hours >= iv.Lower && hours < iv.Upper
}

// ReleaseIntervals returns the ordered release buckets. The slice is a fresh
// copy on every call.
func ReleaseIntervals() []Interval {
	return []Interval{
		{Label: "0 a 1h", Lower: 0, Upper: 1},
		{Label: "1 a 2h", Lower: 1, Upper: 2},
		{Label: "2 a 3h", Lower: 2, Upper: 3},
		{Label: "3 a 4h", Lower: 3, Upper: 4},
		{Label: "4 a 5h", Lower: 4, Upper: 5},
		{Label: "5 a 6h", Lower: 5, Upper: 6},
		{Label: "6 a 12h", Lower: 6, Upper: 12},
		{Label: "12 a 24h", Lower: 12, Upper: 24},
		{Label: "24 a 48h", Lower: 24, Upper: 48},
		{Label: "48 a 72h", Lower: 48, Upper: 72},
		{Label: "72h+", Lower: 72, Upper: math.Inf(1)},
	}
}

// ParseReference parses a release reference time. It accepts
// "DD/MM/YYYY HH:MM:SS", "DD/MM/YYYY HH:MM" and RFC 3339.
func ParseReference(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{ReferenceTimeLayout, OrderTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidReference, value)
}

// ParseOrderTimestamps extracts (order id, timestamp) pairs from text and
// shifts every timestamp by offset. Pairs whose date or id cannot be parsed
// are skipped and reported as advisories.
func ParseOrderTimestamps(text string, offset time.Duration) ([]domain.OrderTimestamp, []domain.Advisory) {
	var (
		orders     []domain.OrderTimestamp
		advisories []domain.Advisory
	)

	for i, line := range SplitLines(text) {
		for _, m := range orderTimestampPattern.FindAllStringSubmatch(line, -1) {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				advisories = append(advisories, domain.Advisory{
					Code:    domain.AdvisoryTimestampParse,
					Message: "order id out of range",
					Line:    i + 1,
					Value:   m[1],
				})
				continue
			}

			ts, err := time.Parse(OrderTimeLayout, m[2])
			if err != nil {
				advisories = append(advisories, domain.Advisory{
					Code:    domain.AdvisoryTimestampParse,
					Message: "invalid order date",
					Line:    i + 1,
					Value:   m[2],
				})
				continue
			}

			orders = append(orders, domain.OrderTimestamp{
				OrderID:   id,
				Timestamp: ts.Add(offset),
				Line:      i + 1,
			})
		}
	}

	return orders, advisories
}

// RestrictToOrders keeps the timestamps whose order id is in ids.
func RestrictToOrders(orders []domain.OrderTimestamp, ids map[int]struct{}) []domain.OrderTimestamp {
	kept := make([]domain.OrderTimestamp, 0, len(orders))
	for _, o := range orders {
		if _, ok := ids[o.OrderID]; ok {
			kept = append(kept, o)
		}
	}
	return kept
}

// ElapsedHours returns the hours between reference and ts.
func ElapsedHours(ts, reference time.Time) float64 {
	return ts.Sub(reference).Hours()
}

// BucketByInterval counts the orders of every release interval.
// Orders before the reference are not bucketed; their count is returned as
// beforeRelease. Percentages are over the bucketed orders.
func BucketByInterval(orders []domain.OrderTimestamp, reference time.Time) (shares []domain.IntervalShare, bucketed, beforeRelease int) {
	intervals := ReleaseIntervals()
	counts := make([]int, len(intervals))

	for _, o := range orders {
		hours := ElapsedHours(o.Timestamp, reference)
		if hours < 0 {
			beforeRelease++
			continue
		}
		for i, iv := range intervals {
			if iv.Contains(hours) {
				counts[i]++
				bucketed++
				break
			}
		}
	}

	shares = make([]domain.IntervalShare, len(intervals))
	for i, iv := range intervals {
		shares[i] = domain.IntervalShare{
			Label:      iv.Label,
			LowerHours: iv.Lower,
			UpperHours: iv.Upper,
			Count:      counts[i],
		}
		if bucketed > 0 {
			shares[i].Percent = float64(counts[i]) / float64(bucketed) * 100
		}
	}

	return shares, bucketed, beforeRelease
}
