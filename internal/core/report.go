package core

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SkippedReportPath returns where the skipped-row report for inputPath goes:
// "<name> - skipped.csv" in the same directory.
func SkippedReportPath(inputPath string) string {
	base := filepath.Base(inputPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(inputPath), fmt.Sprintf("%s - skipped.csv", name))
}

// WriteSkippedReport writes the skipped rows of one run as CSV. The first
// two columns are the skip reason and the input line, followed by the
// original cells. Returns the report path.
func WriteSkippedReport(inputPath string, f Format, rows []SkippedRow) (string, error) {
	path := SkippedReportPath(inputPath)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create skipped report: %w", err)
	}

	w := csv.NewWriter(out)
	header := append([]string{"Status", "Line"}, f.ColumnNames()...)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, r := range rows {
		records = append(records, append([]string{r.Reason, strconv.Itoa(r.LineNumber)}, r.Data...))
	}

	if err := w.WriteAll(records); err != nil {
		out.Close()
		return "", fmt.Errorf("write skipped report: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close skipped report: %w", err)
	}
	return path, nil
}
