package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// salesLinePattern matches "<order> <label ... N Pixels> <code>".
// The label accepts "Alta Resolução 3000 Pixels" as well as "ABC123 640x480 Pixels".
var salesLinePattern = regexp.MustCompile(`(\d+)\s+([\p{L}\p{N}_\s]+?(?:\d+x)?\d+\s+Pixels)\s+([\p{L}\p{N}_]+\d+)`)

// SplitLines splits text on newlines and drops a trailing carriage return.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ParseSales applies the sales line pattern to every line of text.
// Lines without a match are skipped. The result may be empty.
func ParseSales(text string) []domain.SaleRecord {
	records, _ := parseSales(text)
	return records
}

// parseSales also returns how many lines matched the pattern but carried an
// order number that does not fit an int.
func parseSales(text string) ([]domain.SaleRecord, int) {
	var (
		records  []domain.SaleRecord
		overflow int
	)

	for i, line := range SplitLines(text) {
		m := salesLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		order, err := strconv.Atoi(m[1])
		if err != nil {
			overflow++
			continue
		}

		records = append(records, domain.SaleRecord{
			OrderNumber: order,
			Resolution:  strings.TrimSpace(m[2]),
			Code:        m[3],
			Line:        i + 1,
		})
	}

	return records, overflow
}

// FilterByPrefix keeps the records whose code starts with prefix.
// The comparison is case-sensitive and byte-wise; order is preserved.
func FilterByPrefix(records []domain.SaleRecord, prefix string) []domain.SaleRecord {
	filtered := make([]domain.SaleRecord, 0, len(records))
	for _, rec := range records {
		if strings.HasPrefix(rec.Code, prefix) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}
