package dataprocessing

import (
	"time"
)

// Options configures report building.
type Options struct {
	// OffsetPrefix precedes the event code in product codes; its length plus
	// the event code length is the lot offset.
	OffsetPrefix string

	// DefaultPhotographer is used when a request carries no photographer code.
	DefaultPhotographer string

	// TimezoneOffset is added to every parsed order timestamp.
	TimezoneOffset time.Duration

	// Strict fails the whole batch on a malformed code instead of skipping it.
	Strict bool
}

// DefaultOptions returns default processing options
func DefaultOptions() Options {
	return Options{
		OffsetPrefix:        DefaultOffsetPrefix,
		DefaultPhotographer: DefaultOffsetPrefix,
		TimezoneOffset:      DefaultTimezoneOffset,
		Strict:              false,
	}
}

// SalesRequest holds the inputs of one sales report computation.
type SalesRequest struct {
	Text             string
	PhotographerCode string
	EventCode        string

	// TotalValue is allocated across lots and resolutions when set.
	TotalValue *float64

	// Strict overrides Options.Strict when set.
	Strict *bool
}

// TimingRequest holds the inputs of one release timing computation.
type TimingRequest struct {
	Text string

	// Reference is the release time. Without it no interval table is built.
	Reference *time.Time

	// RestrictTo keeps only the listed order ids when non-nil.
	RestrictTo map[int]struct{}
}
