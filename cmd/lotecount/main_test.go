package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/exporter"
	"github.com/andrejarenkow/contagem-lote-foco/internal/shared/testutil"
	"github.com/andrejarenkow/contagem-lote-foco/internal/validation"
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts"
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// runCLI executes the root command against a pt-BR config file
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("report:\n  locale: pt-BR\n"), 0o600))

	cmd := newRootCmd()
	var out, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSales_Table(t *testing.T) {
	file := writeFixture(t, "vendas.txt", testutil.SalesExport)

	out, err := runCLI(t, "", "sales", "--file", file, "--event", "EVT", "--total", "300")
	require.NoError(t, err)

	assert.Contains(t, out, "LENSEVT")
	assert.Contains(t, out, "Lots")
	assert.Contains(t, out, "Alta Resolução 3000 Pixels")
	assert.Contains(t, out, "150,00")
	assert.Contains(t, out, "50,00%")
}

func TestSales_JSONFromStdin(t *testing.T) {
	out, err := runCLI(t, testutil.SalesExport, "sales", "--file", "-", "--event", "EVT", "--format", "json")
	require.NoError(t, err)

	var report domain.SalesReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Records, 4)
	assert.Len(t, report.Lots, 2)
	assert.Equal(t, 7, report.LotOffset)
}

func TestSales_CSVFile(t *testing.T) {
	file := writeFixture(t, "vendas.txt", testutil.SalesExport)
	target := filepath.Join(t.TempDir(), "out", "lotes.csv")

	out, err := runCLI(t, "", "sales", "-f", file, "-e", "EVT", "--format", "csv", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\xEF\xBB\xBF")))
	assert.Contains(t, string(data), "LENSEVT1B2")
}

func TestSales_Windows1252Input(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String(testutil.SalesExport)
	require.NoError(t, err)

	out, err := runCLI(t, encoded, "sales", "--file", "-", "--event", "EVT")
	require.NoError(t, err)

	assert.Contains(t, out, "Alta Resolução 3000 Pixels")
	assert.Contains(t, out, domain.AdvisoryInputDecoded)
}

func TestSales_Errors(t *testing.T) {
	file := writeFixture(t, "vendas.txt", testutil.SalesExport)

	t.Run("xlsx needs out", func(t *testing.T) {
		_, err := runCLI(t, "", "sales", "--file", file, "--event", "EVT", "--format", "xlsx")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--out")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := runCLI(t, "", "sales", "--file", file, "--event", "EVT", "--format", "pdf")
		assert.True(t, errors.Is(err, exporter.ErrUnsupportedFormat))
	})

	t.Run("missing event", func(t *testing.T) {
		_, err := runCLI(t, "", "sales", "--file", file)
		assert.Error(t, err)
	})

	t.Run("spreadsheet input", func(t *testing.T) {
		xlsx := writeFixture(t, "vendas.xlsx", "PK")
		_, err := runCLI(t, "", "sales", "--file", xlsx, "--event", "EVT")
		assert.ErrorIs(t, err, validation.ErrUnsupportedExtension)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := runCLI(t, "", "sales", "--file", filepath.Join(t.TempDir(), "none.txt"), "--event", "EVT")
		assert.Error(t, err)
	})

	t.Run("strict malformed", func(t *testing.T) {
		_, err := runCLI(t, "7 Alta Resolução 3000 Pixels LEVT12\n",
			"sales", "--file", "-", "--event", "EVT", "--photographer", "L", "--strict")

		var batch *dataprocessing.MalformedBatchError
		require.True(t, errors.As(err, &batch), "got %v", err)
		assert.Len(t, batch.Errors, 1)
	})

	t.Run("negative total", func(t *testing.T) {
		_, err := runCLI(t, "", "sales", "--file", file, "--event", "EVT", "--total=-1")
		assert.ErrorIs(t, err, dataprocessing.ErrInvalidTotalValue)
	})
}

func TestTiming_JoinedJSON(t *testing.T) {
	orders := writeFixture(t, "pedidos.txt", testutil.TimingExport)
	sales := writeFixture(t, "vendas.txt", testutil.SalesExport)

	out, err := runCLI(t, "", "timing", "--file", orders, "--reference", testutil.TimingReference,
		"--sales", sales, "--event", "EVT", "--format", "json")
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report["orders"], 3)
	assert.NotEmpty(t, report["intervals"])
}

func TestTiming_Table(t *testing.T) {
	out, err := runCLI(t, testutil.TimingExport, "timing", "--file", "-", "--reference", testutil.TimingReference)
	require.NoError(t, err)

	assert.Contains(t, out, "Release intervals")
	assert.Contains(t, out, "15/03/2024 10:00:00")
	assert.Contains(t, out, domain.AdvisoryTimestampParse)
}

func TestTiming_Errors(t *testing.T) {
	t.Run("bad reference", func(t *testing.T) {
		_, err := runCLI(t, testutil.TimingExport, "timing", "--file", "-", "--reference", "amanha")
		assert.True(t, errors.Is(err, dataprocessing.ErrInvalidReference))
	})

	t.Run("two stdin inputs", func(t *testing.T) {
		_, err := runCLI(t, "", "timing", "--file", "-", "--sales", "-", "--event", "EVT")
		assert.Error(t, err)
	})

	t.Run("sales without event", func(t *testing.T) {
		sales := writeFixture(t, "vendas.txt", testutil.SalesExport)
		_, err := runCLI(t, testutil.TimingExport, "timing", "--file", "-", "--sales", sales)
		assert.Error(t, err)
	})
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, contracts.GetVersionString())
}
