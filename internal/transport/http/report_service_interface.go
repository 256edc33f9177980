package http

import (
	"context"
	"io"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/exporter"
	"github.com/andrejarenkow/contagem-lote-foco/internal/services"
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// ReportServiceInterface defines the report operations used by the handlers
type ReportServiceInterface interface {
	Sales(ctx context.Context, req dataprocessing.SalesRequest) (*domain.SalesReport, error)
	Timing(ctx context.Context, req dataprocessing.TimingRequest) (*domain.TimingReport, error)
	Combined(ctx context.Context, req services.CombinedRequest) (*services.CombinedReport, error)
	UploadSales(ctx context.Context, data []byte, req dataprocessing.SalesRequest) (*domain.SalesReport, error)
	ExportSales(ctx context.Context, w io.Writer, format exporter.Format, report *domain.SalesReport) error
}

var _ ReportServiceInterface = (*services.ReportService)(nil)
