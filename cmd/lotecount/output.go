package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/andrejarenkow/contagem-lote-foco/internal/exporter"
	"github.com/andrejarenkow/contagem-lote-foco/internal/validation"
)

const formatTable = "table"

// outputOptions selects how a report leaves the process
type outputOptions struct {
	format string
	out    string
}

// resolve returns the export format, or "" for terminal tables
func (o outputOptions) resolve() (exporter.Format, error) {
	name := strings.ToLower(strings.TrimSpace(o.format))
	if name == "" || name == formatTable {
		return "", nil
	}
	format, err := exporter.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("%w (expected table|json|csv|xlsx)", err)
	}
	if format == exporter.FormatXLSX && o.toStdout() {
		return "", fmt.Errorf("xlsx output needs --out")
	}
	return format, nil
}

func (o outputOptions) toStdout() bool {
	return o.out == "" || o.out == "-"
}

// prepare fails early when the --out directory cannot be written
func (o outputOptions) prepare(files *validation.FileValidator) error {
	if o.toStdout() {
		return nil
	}
	return files.ValidateOutputDirectory(o.out)
}

// emit runs write against stdout or the --out file
func (o outputOptions) emit(stdout io.Writer, exp *exporter.Exporter, write func(io.Writer) error) error {
	if o.toStdout() {
		return write(stdout)
	}
	return exp.WriteFile(o.out, write)
}
