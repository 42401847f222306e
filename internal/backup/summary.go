package backup

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Summary table columns with their minimum widths
var columns = []struct {
	title    string
	minWidth int
}{
	{"Company", 20},
	{"Data Copy", 10},
	{"Backup", 18},
	{"Latest File", 19},
	{"Zip", 10},
	{"Remarks", 10},
}

func row(s CompanyStatus) []string {
	return []string{
		s.Label(),
		s.DataCopy.String(),
		s.Backup.String(),
		s.LatestFile,
		s.Archive.String(),
		s.RemarkText(),
	}
}

// RenderTable renders one row per company. Each column is as wide as its
// longest cell but never narrower than its minimum.
func RenderTable(statuses []CompanyStatus) string {
	widths := make([]int, len(columns))
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.title
		widths[i] = max(c.minWidth, len(c.title))
	}

	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		cells := row(s)
		for i, cell := range cells {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
		rows = append(rows, cells)
	}

	var b strings.Builder
	writeRow(&b, header, widths)

	separator := make([]string, len(widths))
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}
	b.WriteString(strings.Join(separator, "-+-"))
	b.WriteString("\n")

	for _, cells := range rows {
		writeRow(&b, cells, widths)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		// fmt pads by rune count
		padded[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	b.WriteString(strings.TrimRight(strings.Join(padded, " | "), " "))
	b.WriteString("\n")
}

// RenderTotals renders the closing counters block.
func RenderTotals(t Totals) string {
	lines := []string{
		"Totals:",
		fmt.Sprintf("  Companies processed : %d", t.Total),
		fmt.Sprintf("  Skipped (no mapping): %d", t.Skipped),
		fmt.Sprintf("  Data copy           : %d succeeded, %d failed", t.DataCopy.Success, t.DataCopy.Failed),
		fmt.Sprintf("  Backup collection   : %d succeeded, %d failed", t.Backup.Success, t.Backup.Failed),
		fmt.Sprintf("  Zip creation        : %d succeeded, %d failed", t.Archive.Success, t.Archive.Failed),
	}
	return strings.Join(lines, "\n")
}
