package domain

// SaleRecord is one line extracted from a sales report export.
//
// OrderNumber is the leading numeric column of the export ("Número de Pedidos").
// It doubles as the order identifier when sales are joined against the order
// timestamp report.
type SaleRecord struct {
	OrderNumber int    `json:"order_number" csv:"Pedido"`
	Resolution  string `json:"resolution" csv:"Resolucao"`
	Code        string `json:"code" csv:"Codigo"`
	Line        int    `json:"line" csv:"-"`
}

// LotRecord is a SaleRecord that carries the caller prefix, enriched with the
// lot label derived from its product code.
type LotRecord struct {
	SaleRecord
	Lot string `json:"lot" csv:"Lote"`
}

// LotSummary aggregates the records of one lot.
// Percent is in the 0-100 range. AllocatedAmount keeps full precision; it is
// rounded only when formatted for output.
type LotSummary struct {
	Lot             string  `json:"lot"`
	PhotoCount      int     `json:"photo_count"`
	Orders          int     `json:"orders"`
	Percent         float64 `json:"percent"`
	AllocatedAmount float64 `json:"allocated_amount"`
}

// ResolutionSummary aggregates the records of one resolution label.
type ResolutionSummary struct {
	Resolution      string  `json:"resolution"`
	PhotoCount      int     `json:"photo_count"`
	Orders          int     `json:"orders"`
	Percent         float64 `json:"percent"`
	AllocatedAmount float64 `json:"allocated_amount"`
}

// SalesTotals holds the scalar figures of a sales report.
type SalesTotals struct {
	TotalPhotos        int     `json:"total_photos"`
	DistinctOrders     int     `json:"distinct_orders"`
	MeanPhotosPerOrder float64 `json:"mean_photos_per_order"`
	TotalValue         float64 `json:"total_value"`
	LinesMatched       int     `json:"lines_matched"`
}

// SalesReport is the result of one sales report computation.
type SalesReport struct {
	Prefix      string              `json:"prefix"`
	LotOffset   int                 `json:"lot_offset"`
	Records     []LotRecord         `json:"records"`
	Lots        []LotSummary        `json:"lots"`
	Resolutions []ResolutionSummary `json:"resolutions"`
	Totals      SalesTotals         `json:"totals"`
	Advisories  []Advisory          `json:"advisories,omitempty"`
}

// Empty reports whether no record survived matching and filtering.
func (r *SalesReport) Empty() bool {
	return r == nil || len(r.Records) == 0
}

// OrderNumbers returns the distinct order numbers of the report records.
func (r *SalesReport) OrderNumbers() map[int]struct{} {
	orders := make(map[int]struct{})
	if r == nil {
		return orders
	}
	for _, rec := range r.Records {
		orders[rec.OrderNumber] = struct{}{}
	}
	return orders
}
