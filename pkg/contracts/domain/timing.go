package domain

import (
	"encoding/json"
	"math"
	"time"
)

// OrderTimestamp is an order id paired with its purchase time.
// Timestamp is already shifted by the configured timezone offset.
type OrderTimestamp struct {
	OrderID   int       `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
	Line      int       `json:"line"`
}

// IntervalShare is one release interval bucket.
// The bucket covers [LowerHours, UpperHours); UpperHours is +Inf for the last one.
type IntervalShare struct {
	Label      string  `json:"label"`
	LowerHours float64 `json:"lower_hours"`
	UpperHours float64 `json:"upper_hours"`
	Count      int     `json:"count"`
	Percent    float64 `json:"percent"`
}

// Unbounded reports whether the interval has no upper limit.
func (s IntervalShare) Unbounded() bool {
	return math.IsInf(s.UpperHours, 1)
}

// MarshalJSON encodes an unbounded upper limit as null.
func (s IntervalShare) MarshalJSON() ([]byte, error) {
	type alias IntervalShare
	out := struct {
		alias
		UpperHours *float64 `json:"upper_hours"`
	}{alias: alias(s)}
	if !s.Unbounded() {
		upper := s.UpperHours
		out.UpperHours = &upper
	}
	return json.Marshal(out)
}

// TimingReport is the result of one release timing computation.
type TimingReport struct {
	Reference     *time.Time       `json:"reference,omitempty"`
	Orders        []OrderTimestamp `json:"orders"`
	Intervals     []IntervalShare  `json:"intervals,omitempty"`
	Bucketed      int              `json:"bucketed"`
	BeforeRelease int              `json:"before_release"`
	Skipped       int              `json:"skipped"`
	Advisories    []Advisory       `json:"advisories,omitempty"`
}
