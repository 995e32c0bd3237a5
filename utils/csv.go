// utils/csv.go
package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// WriteCSV renders a fixed header plus one row per record. encoding/csv
// handles quoting of embedded commas and quotes.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReportFilename builds the download name for a CSV export, embedding the
// export scope and the current date.
func ReportFilename(scope string, now time.Time) string {
	return fmt.Sprintf("%s_report_%s.csv", scope, now.Format("2006-01-02"))
}
