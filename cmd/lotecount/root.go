package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrejarenkow/contagem-lote-foco/internal/app"
	"github.com/andrejarenkow/contagem-lote-foco/internal/config"
	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/exporter"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
	"github.com/andrejarenkow/contagem-lote-foco/internal/services"
	"github.com/andrejarenkow/contagem-lote-foco/internal/validation"
)

// cliState is shared by every subcommand once the root pre-run loaded it
type cliState struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *slog.Logger
	exporter *exporter.Exporter
	files    *validation.FileValidator
}

func newRootCmd() *cobra.Command {
	st := &cliState{}

	cmd := &cobra.Command{
		Use:          "lotecount",
		Short:        "Count photo sales per lot and order release timing",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.load(cmd.ErrOrStderr(), cmd.Flags().Changed("log-level"))
		},
	}

	cmd.PersistentFlags().StringVar(&st.configPath, "config", "", "config file (defaults to config.yaml lookup and LOTE_* env)")
	cmd.PersistentFlags().StringVar(&st.logLevel, "log-level", "warn", "log level: debug|info|warn|error")

	cmd.AddCommand(salesCmd(st), timingCmd(st), serveCmd(st), versionCmd())
	return cmd
}

func (s *cliState) load(stderr io.Writer, levelChanged bool) error {
	var err error
	if s.configPath != "" {
		s.cfg, err = config.LoadFile(s.configPath)
	} else {
		s.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if levelChanged {
		s.cfg.Logging.Level = s.logLevel
	}

	// Report output owns stdout; logs go to stderr only
	logging := s.cfg.Logging
	logging.Level = s.logLevel
	logging.Output = "console"
	s.logger, err = infrastructure.NewLogger(logging, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	s.exporter = exporter.NewExporter(s.logger)
	s.files = validation.NewFileValidator(s.logger, s.cfg.Report.MaxInputBytes)
	return nil
}

func (s *cliState) reportService() *services.ReportService {
	processor := dataprocessing.NewProcessor(s.logger, app.ProcessorOptions(s.cfg.Report))
	return services.NewReportService(processor, s.exporter, s.logger,
		services.WithInputLimits(s.cfg.Report.InputCharset, s.cfg.Report.MaxInputBytes))
}

func (s *cliState) numberFormatter() *exporter.NumberFormatter {
	return exporter.NewNumberFormatter(s.cfg.Report.Locale)
}

// readInput reads path, or stdin when path is "-"
func (s *cliState) readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	if err := s.files.ValidateInputFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
