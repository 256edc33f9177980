package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrejarenkow/contagem-lote-foco/internal/app"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
)

func serveCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP report server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := st.cfg.EnsureLogDir(); err != nil {
				return err
			}
			logger, err := infrastructure.InitializeLogger(st.cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			a, err := app.New(st.cfg, logger)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}
