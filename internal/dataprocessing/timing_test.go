package dataprocessing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

func mustReference(t *testing.T, value string) time.Time {
	t.Helper()
	ref, err := ParseReference(value)
	require.NoError(t, err)
	return ref
}

func TestParseReference(t *testing.T) {
	want := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	for _, value := range []string{"15/03/2024 10:00:00", "15/03/2024 10:00", "2024-03-15T10:00:00Z", " 15/03/2024 10:00:00 "} {
		got, err := ParseReference(value)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), value)
	}

	_, err := ParseReference("amanhã cedo")
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestParseOrderTimestamps(t *testing.T) {
	text := "Pedido Data\n1001 15/03/2024 10:30\n1002 31/02/2024 10:00\n1003 16/03/2024 23:15 1004 17/03/2024 00:05"

	orders, advisories := ParseOrderTimestamps(text, DefaultTimezoneOffset)

	require.Len(t, orders, 3)
	assert.Equal(t, 1001, orders[0].OrderID)
	assert.Equal(t, time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC), orders[0].Timestamp)
	assert.Equal(t, 2, orders[0].Line)
	assert.Equal(t, 1003, orders[1].OrderID)
	assert.Equal(t, time.Date(2024, 3, 17, 2, 15, 0, 0, time.UTC), orders[1].Timestamp)
	assert.Equal(t, 1004, orders[2].OrderID)

	require.Len(t, advisories, 1)
	assert.Equal(t, domain.AdvisoryTimestampParse, advisories[0].Code)
	assert.Equal(t, 3, advisories[0].Line)
	assert.Equal(t, "31/02/2024 10:00", advisories[0].Value)
}

func TestReleaseIntervals(t *testing.T) {
	intervals := ReleaseIntervals()
	require.Len(t, intervals, 11)
	assert.Equal(t, "0 a 1h", intervals[0].Label)
	assert.Equal(t, "72h+", intervals[10].Label)
	assert.True(t, math.IsInf(intervals[10].Upper, 1))

	for i := 1; i < len(intervals); i++ {
		assert.Equal(t, intervals[i-1].Upper, intervals[i].Lower, "intervals must be contiguous")
	}

	intervals[0].Label = "changed"
	assert.Equal(t, "0 a 1h", ReleaseIntervals()[0].Label)
}

func TestBucketByInterval(t *testing.T) {
	ref := mustReference(t, "15/03/2024 10:00:00")
	at := func(id int, hours float64) domain.OrderTimestamp {
		return domain.OrderTimestamp{OrderID: id, Timestamp: ref.Add(time.Duration(hours * float64(time.Hour)))}
	}

	orders := []domain.OrderTimestamp{
		at(1, 0),
		at(2, 0.99),
		at(3, 1),
		at(4, 3.5),
		at(5, 11.9),
		at(6, 72),
		at(7, 500),
		at(8, -0.5),
	}

	shares, bucketed, before := BucketByInterval(orders, ref)

	assert.Equal(t, 7, bucketed)
	assert.Equal(t, 1, before)
	require.Len(t, shares, 11)

	counts := map[string]int{}
	var total int
	var pct float64
	for _, s := range shares {
		counts[s.Label] = s.Count
		total += s.Count
		pct += s.Percent
	}
	assert.Equal(t, 2, counts["0 a 1h"])
	assert.Equal(t, 1, counts["1 a 2h"])
	assert.Equal(t, 1, counts["3 a 4h"])
	assert.Equal(t, 1, counts["6 a 12h"])
	assert.Equal(t, 2, counts["72h+"])
	assert.Equal(t, bucketed, total)
	assert.InDelta(t, 100.0, pct, 1e-9)
}

func TestBucketByIntervalScenario(t *testing.T) {
	ref := mustReference(t, "15/03/2024 10:00:00")
	orders, advisories := ParseOrderTimestamps("1001 15/03/2024 10:30", DefaultTimezoneOffset)
	require.Empty(t, advisories)
	require.Len(t, orders, 1)

	assert.InDelta(t, 3.5, ElapsedHours(orders[0].Timestamp, ref), 1e-9)

	shares, bucketed, _ := BucketByInterval(orders, ref)
	assert.Equal(t, 1, bucketed)
	for _, s := range shares {
		if s.Label == "3 a 4h" {
			assert.Equal(t, 1, s.Count)
			assert.Equal(t, 100.0, s.Percent)
		} else {
			assert.Zero(t, s.Count, s.Label)
		}
	}
}

func TestBucketByIntervalEmpty(t *testing.T) {
	shares, bucketed, before := BucketByInterval(nil, time.Now())
	assert.Len(t, shares, 11)
	assert.Zero(t, bucketed)
	assert.Zero(t, before)
	for _, s := range shares {
		assert.Zero(t, s.Percent)
	}
}

func TestRestrictToOrders(t *testing.T) {
	orders := []domain.OrderTimestamp{{OrderID: 1}, {OrderID: 2}, {OrderID: 3}}
	got := RestrictToOrders(orders, map[int]struct{}{1: {}, 3: {}})
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].OrderID)
	assert.Equal(t, 3, got[1].OrderID)
}
