package backup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "Skipped", Outcome{}.String())
	assert.Equal(t, "Success", succeeded("").String())
	assert.Equal(t, "Success (3 files)", succeeded("3 files").String())
	assert.Equal(t, "Failed", failed("zip creation failed").String())
}

func TestRenderTable(t *testing.T) {
	statuses := []CompanyStatus{
		{
			Code: "COMP0001", FriendlyName: "Company A", Mapped: true,
			DataCopy: succeeded(""), Backup: succeeded("1 files"), LatestFile: "2025-01-06 22:00:00",
			Archive: succeeded(""),
		},
		{
			Code: "COMP0002", FriendlyName: "A Company With A Very Long Name", Mapped: true,
			DataCopy: succeeded(""), Backup: failed("backup folder missing"), LatestFile: NotAvailable,
			Archive: succeeded(""), Remarks: []string{"backup folder missing"},
		},
		{Code: "COMP9999", LatestFile: NotAvailable},
	}

	table := RenderTable(statuses)
	lines := strings.Split(table, "\n")
	require.Len(t, lines, 5)

	assert.True(t, strings.HasPrefix(lines[0], "Company"))
	assert.Contains(t, lines[0], "Data Copy")
	assert.Contains(t, lines[0], "Latest File")
	assert.NotContains(t, lines[1], " ")

	// Every column separator lines up with the header
	sep := strings.Index(lines[0], " | ")
	for _, line := range []string{lines[2], lines[3], lines[4]} {
		assert.Equal(t, sep, strings.Index(line, " | "), line)
	}
	assert.Equal(t, len("COMP0002 (A Company With A Very Long Name)"), sep)

	assert.Contains(t, lines[3], "backup folder missing")
	assert.True(t, strings.HasPrefix(lines[4], "COMP9999 "))
	assert.Equal(t, 3, strings.Count(lines[4], "Skipped"))
}

func TestRenderTable_MinimumWidths(t *testing.T) {
	table := RenderTable(nil)
	lines := strings.Split(table, "\n")
	require.Len(t, lines, 2)

	widths := strings.Split(lines[1], "-+-")
	require.Len(t, widths, len(columns))
	for i, w := range widths {
		assert.Equal(t, columns[i].minWidth, len(w), columns[i].title)
	}
}

func TestRenderTotals(t *testing.T) {
	out := RenderTotals(Totals{
		Total:    3,
		Skipped:  1,
		DataCopy: StepTotals{Success: 2},
		Backup:   StepTotals{Success: 1, Failed: 1},
		Archive:  StepTotals{Success: 2},
	})

	assert.Contains(t, out, "Companies processed : 3")
	assert.Contains(t, out, "Skipped (no mapping): 1")
	assert.Contains(t, out, "Backup collection   : 1 succeeded, 1 failed")
}
