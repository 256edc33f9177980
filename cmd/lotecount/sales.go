package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
)

type salesOptions struct {
	file         string
	event        string
	photographer string
	total        float64
	strict       bool
	output       outputOptions
}

func salesCmd(st *cliState) *cobra.Command {
	var opts salesOptions

	c := &cobra.Command{
		Use:   "sales",
		Short: "Count photos and orders per lot and resolution",
		Example: `  lotecount sales --file vendas.txt --event 240315 --total 1500
  cat vendas.txt | lotecount sales --file - --event 240315 --format csv --out lotes.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := opts.output.resolve()
			if err != nil {
				return err
			}
			if err := opts.output.prepare(st.files); err != nil {
				return err
			}

			data, err := st.readInput(cmd.InOrStdin(), opts.file)
			if err != nil {
				return err
			}

			req := dataprocessing.SalesRequest{
				PhotographerCode: opts.photographer,
				EventCode:        opts.event,
			}
			if cmd.Flags().Changed("total") {
				req.TotalValue = &opts.total
			}
			if cmd.Flags().Changed("strict") {
				req.Strict = &opts.strict
			}

			svc := st.reportService()
			report, err := svc.UploadSales(cmd.Context(), data, req)
			if err != nil {
				return err
			}

			return opts.output.emit(cmd.OutOrStdout(), st.exporter, func(w io.Writer) error {
				if format == "" {
					return writeSalesTables(w, report, st.numberFormatter())
				}
				return svc.ExportSales(cmd.Context(), w, format, report)
			})
		},
	}

	c.Flags().StringVarP(&opts.file, "file", "f", "", "sales export to read, - for stdin (required)")
	c.Flags().StringVarP(&opts.event, "event", "e", "", "event code (required)")
	c.Flags().StringVarP(&opts.photographer, "photographer", "p", "", "photographer code (defaults to the configured one)")
	c.Flags().Float64Var(&opts.total, "total", 0, "total sales value to allocate across lots")
	c.Flags().BoolVar(&opts.strict, "strict", false, "fail on product codes too short for the lot position")
	addOutputFlags(c, &opts.output)

	_ = c.MarkFlagRequired("file")
	_ = c.MarkFlagRequired("event")
	return c
}

func addOutputFlags(c *cobra.Command, o *outputOptions) {
	c.Flags().StringVar(&o.format, "format", formatTable, "output format: table|json|csv|xlsx")
	c.Flags().StringVarP(&o.out, "out", "o", "", "write to this file instead of stdout")
}
