package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	lines []string
}

func (r *recorder) WriteLine(line string) {
	r.lines = append(r.lines, line)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestRunLog_Text(t *testing.T) {
	ts := time.Date(2025, 1, 7, 2, 0, 0, 0, time.Local)
	rec := &recorder{}
	l := New(fixedClock(ts), rec)

	l.Begin()
	l.Logf("Processing %s", "COMP0001")
	l.Raw("table line 1\ntable line 2")
	l.End()

	want := strings.Join([]string{
		"========== Backup Run Started: 2025-01-07 02:00:00 ==========",
		"[02:00:00] Processing COMP0001",
		"table line 1",
		"table line 2",
		"========== Backup Run Completed: 2025-01-07 02:00:00 ==========",
	}, "\r\n")

	assert.Equal(t, want, l.Text())
	assert.Equal(t, l.Lines(), rec.lines)
}

func runText(i int) string {
	ts := time.Date(2025, 1, i, 2, 0, 0, 0, time.Local)
	l := New(fixedClock(ts))
	l.Begin()
	l.Logf("run %d", i)
	l.End()
	return l.Text()
}

func TestRotate_NoStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup_log.txt")

	require.NoError(t, Rotate(path, runText(1), 3))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, runText(1)+"\r\n", string(data))
}

func TestRotate_BlankStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup_log.txt")
	require.NoError(t, os.WriteFile(path, []byte("  \r\n\r\n"), 0o644))

	require.NoError(t, Rotate(path, runText(1), 3))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, runText(1)+"\r\n", string(data))
}

func TestRotate_KeepsThreeRunsNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup_log.txt")

	for i := 1; i <= 5; i++ {
		require.NoError(t, Rotate(path, runText(i), 3))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	store := string(data)

	runs := SplitRuns(store)
	require.Len(t, runs, 3)
	for i, run := range runs {
		n := 5 - i
		assert.Equal(t, 1, strings.Count(run, StartPrefix))
		assert.Contains(t, run, fmt.Sprintf("run %d", n))
	}
	assert.NotContains(t, store, "run 2")
	assert.True(t, strings.HasPrefix(store, StartPrefix))

	// Runs are separated by one blank line
	assert.Equal(t, runText(5)+"\r\n\r\n"+runText(4)+"\r\n\r\n"+runText(3)+"\r\n", store)
}

func TestRotate_KeepOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup_log.txt")
	require.NoError(t, Rotate(path, runText(1), 1))
	require.NoError(t, Rotate(path, runText(2), 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, SplitRuns(string(data)), 1)
	assert.Contains(t, string(data), "run 2")
}

func TestSplitRuns(t *testing.T) {
	store := "leftover text\r\n" + runText(2) + "\r\n\r\n\r\n" + runText(1) + "\r\n"

	runs := SplitRuns(store)
	require.Len(t, runs, 2)
	assert.Equal(t, runText(2), runs[0])
	assert.Equal(t, runText(1), runs[1])

	assert.Empty(t, SplitRuns("no banner here"))
}
