package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf,
		[]string{"Name", "Email"},
		[][]string{
			{"Asha", "asha@example.com"},
			{"Binu", "binu@example.com"},
		})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email", lines[0])
	assert.Equal(t, "Asha,asha@example.com", lines[1])
}

func TestWriteCSVQuotesSpecialCharacters(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf,
		[]string{"Name", "Address"},
		[][]string{{`Asha "AK" Kumar`, "12, MG Road"}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Asha ""AK"" Kumar","12, MG Road"`, lines[1])
}

func TestWriteCSVEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"Name"}, nil))
	assert.Equal(t, "Name\n", buf.String())
}

func TestReportFilename(t *testing.T) {
	now := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "users_report_2026-02-03.csv", ReportFilename("users", now))
	assert.Equal(t, "orders_report_2026-02-03.csv", ReportFilename("orders", now))
}
