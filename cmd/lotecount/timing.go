package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/services"
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

type timingOptions struct {
	file         string
	reference    string
	salesFile    string
	event        string
	photographer string
	output       outputOptions
}

func timingCmd(st *cliState) *cobra.Command {
	var opts timingOptions

	c := &cobra.Command{
		Use:   "timing",
		Short: "Bucket order timestamps by hours after the release",
		Example: `  lotecount timing --file pedidos.txt --reference "15/03/2024 10:00:00"
  lotecount timing --file pedidos.txt --reference "15/03/2024 10:00" --sales vendas.txt --event 240315`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := opts.output.resolve()
			if err != nil {
				return err
			}
			if err := opts.output.prepare(st.files); err != nil {
				return err
			}
			if opts.file == "-" && opts.salesFile == "-" {
				return errors.New("only one of --file and --sales can read stdin")
			}
			if opts.salesFile != "" && opts.event == "" {
				return errors.New("--sales needs --event")
			}

			svc := st.reportService()
			ctx := cmd.Context()

			timingReq := dataprocessing.TimingRequest{}
			if opts.reference != "" {
				ref, err := dataprocessing.ParseReference(opts.reference)
				if err != nil {
					return err
				}
				timingReq.Reference = &ref
			}

			data, err := st.readInput(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}
			var decoded *domain.Advisory
			timingReq.Text, decoded, err = svc.DecodeUpload(ctx, data)
			if err != nil {
				return err
			}

			req := services.CombinedRequest{Timing: &timingReq}
			if opts.salesFile != "" {
				salesData, err := st.readInput(cmd.InOrStdin(), opts.salesFile)
				if err != nil {
					return err
				}
				salesText, _, err := svc.DecodeUpload(ctx, salesData)
				if err != nil {
					return err
				}
				req.Sales = &dataprocessing.SalesRequest{
					Text:             salesText,
					PhotographerCode: opts.photographer,
					EventCode:        opts.event,
				}
				req.Join = true
			}

			out, err := svc.Combined(ctx, req)
			if err != nil {
				return err
			}
			report := out.Timing
			if decoded != nil {
				report.Advisories = append([]domain.Advisory{*decoded}, report.Advisories...)
			}

			return opts.output.emit(cmd.OutOrStdout(), st.exporter, func(w io.Writer) error {
				if format == "" {
					return writeTimingTables(w, report, st.numberFormatter())
				}
				return svc.ExportTiming(ctx, w, format, report)
			})
		},
	}

	c.Flags().StringVarP(&opts.file, "file", "f", "", "order timestamp export to read, - for stdin (required)")
	c.Flags().StringVarP(&opts.reference, "reference", "r", "", `release time, "DD/MM/YYYY HH:MM:SS" or "DD/MM/YYYY HH:MM"`)
	c.Flags().StringVar(&opts.salesFile, "sales", "", "sales export whose orders restrict the timing report")
	c.Flags().StringVarP(&opts.event, "event", "e", "", "event code of the --sales export")
	c.Flags().StringVarP(&opts.photographer, "photographer", "p", "", "photographer code of the --sales export")
	addOutputFlags(c, &opts.output)

	_ = c.MarkFlagRequired("file")
	return c
}

