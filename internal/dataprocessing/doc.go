// Package dataprocessing turns raw sales report exports into lot and
// resolution tables, and order timestamp exports into release timing tables.
//
// # Architecture
//
// The package is organized into small pure components:
//
// 1. Line matcher: ParseSales extracts (order, resolution, code) triples
// 2. Record filter: FilterByPrefix keeps the codes of one photographer and event
// 3. Lot deriver: LotOffset and DeriveLot read the lot label from a code
// 4. Summarizer: groups records by lot or resolution and allocates a total value
// 5. Timing: ParseOrderTimestamps and BucketByInterval build the release table
//
// Processor wires them together and converts non-fatal conditions into
// advisories.
//
// # Usage
//
//	p := dataprocessing.NewProcessor(logger, dataprocessing.DefaultOptions())
//	report, err := p.BuildSales(ctx, dataprocessing.SalesRequest{
//	    Text:             text,
//	    PhotographerCode: "LENS",
//	    EventCode:        "240315",
//	})
//
// # Data Flow
//
//	text → ParseSales → FilterByPrefix → DeriveLot → Summarizer → SalesReport
//	text → ParseOrderTimestamps → RestrictToOrders → BucketByInterval → TimingReport
//
// # Error Handling
//
// An input without matching lines is not an error: the report is empty and
// carries a NO_MATCHES advisory. A code too short for lot derivation yields
// *MalformedCodeError; Options.Strict decides whether the record is skipped
// with an advisory or the batch fails with *MalformedBatchError.
//
// Every computation works on its own slices. Nothing is cached between calls.
package dataprocessing
