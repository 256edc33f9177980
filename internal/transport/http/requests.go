package http

import (
	"strings"
	"time"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/services"
)

// SalesRequestBody is the JSON body of a sales report request
type SalesRequestBody struct {
	Text             string   `json:"text" form:"text"`
	PhotographerCode string   `json:"photographer_code" form:"photographer_code" validate:"omitempty,max=64,eventcode"`
	EventCode        string   `json:"event_code" form:"event_code" validate:"required,max=64,eventcode"`
	TotalValue       *float64 `json:"total_value,omitempty" form:"total_value" validate:"omitempty,gte=0"`
	Strict           *bool    `json:"strict,omitempty" form:"strict"`
	Format           string   `json:"format,omitempty" form:"format" validate:"omitempty,exportformat"`
}

// ToRequest converts the body to a processor request
func (b SalesRequestBody) ToRequest() dataprocessing.SalesRequest {
	return dataprocessing.SalesRequest{
		Text:             b.Text,
		PhotographerCode: strings.TrimSpace(b.PhotographerCode),
		EventCode:        strings.TrimSpace(b.EventCode),
		TotalValue:       b.TotalValue,
		Strict:           b.Strict,
	}
}

// TimingRequestBody is the JSON body of a timing report request
type TimingRequestBody struct {
	Text             string `json:"text"`
	Reference        string `json:"reference,omitempty" validate:"omitempty,reftime"`
	RestrictToOrders []int  `json:"restrict_to_orders,omitempty" validate:"omitempty,dive,gte=0"`
}

// ToRequest converts the body to a processor request
func (b TimingRequestBody) ToRequest() (dataprocessing.TimingRequest, error) {
	req := dataprocessing.TimingRequest{Text: b.Text}

	if strings.TrimSpace(b.Reference) != "" {
		ref, err := dataprocessing.ParseReference(b.Reference)
		if err != nil {
			return req, err
		}
		req.Reference = timePtr(ref)
	}

	if b.RestrictToOrders != nil {
		req.RestrictTo = make(map[int]struct{}, len(b.RestrictToOrders))
		for _, id := range b.RestrictToOrders {
			req.RestrictTo[id] = struct{}{}
		}
	}
	return req, nil
}

// CombinedRequestBody is the JSON body of a combined report request
type CombinedRequestBody struct {
	Sales  *SalesRequestBody  `json:"sales,omitempty"`
	Timing *TimingRequestBody `json:"timing,omitempty"`
	Join   bool               `json:"join,omitempty"`
}

// ToRequest converts the body to a service request
func (b CombinedRequestBody) ToRequest() (services.CombinedRequest, error) {
	req := services.CombinedRequest{Join: b.Join}
	if b.Sales != nil {
		sales := b.Sales.ToRequest()
		req.Sales = &sales
	}
	if b.Timing != nil {
		timing, err := b.Timing.ToRequest()
		if err != nil {
			return req, err
		}
		req.Timing = &timing
	}
	return req, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
