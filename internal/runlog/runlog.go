// Package runlog builds the text report of one backup run and keeps the
// on-disk log limited to the most recent runs.
package runlog

import (
	"fmt"
	"strings"
	"time"
)

const (
	// StartPrefix opens every run report and delimits runs in the store.
	StartPrefix = "========== Backup Run Started: "
	endPrefix   = "========== Backup Run Completed: "
	bannerTail  = " =========="

	TimeLayout  = "2006-01-02 15:04:05"
	clockLayout = "15:04:05"

	// CRLF line endings keep the log readable in Notepad.
	lineBreak = "\r\n"
)

// Sink receives every line as it is appended.
type Sink interface {
	WriteLine(line string)
}

// RunLog is the ordered text of one run.
type RunLog struct {
	lines []string
	now   func() time.Time
	sinks []Sink
}

func New(now func() time.Time, sinks ...Sink) *RunLog {
	if now == nil {
		now = time.Now
	}
	return &RunLog{now: now, sinks: sinks}
}

// StartBanner renders the banner that opens a run started at t.
func StartBanner(t time.Time) string {
	return StartPrefix + t.Format(TimeLayout) + bannerTail
}

func (l *RunLog) Begin() time.Time {
	t := l.now()
	l.Raw(StartBanner(t))
	return t
}

func (l *RunLog) End() time.Time {
	t := l.now()
	l.Raw(endPrefix + t.Format(TimeLayout) + bannerTail)
	return t
}

// Logf appends a clock-stamped line.
func (l *RunLog) Logf(format string, args ...any) {
	l.Raw(fmt.Sprintf("[%s] %s", l.now().Format(clockLayout), fmt.Sprintf(format, args...)))
}

// Raw appends line unchanged. Embedded newlines split it into several lines.
func (l *RunLog) Raw(line string) {
	for _, part := range strings.Split(strings.ReplaceAll(line, lineBreak, "\n"), "\n") {
		l.lines = append(l.lines, part)
		for _, s := range l.sinks {
			s.WriteLine(part)
		}
	}
}

func (l *RunLog) Lines() []string {
	return l.lines
}

// Text joins the lines with CRLF.
func (l *RunLog) Text() string {
	return strings.Join(l.lines, lineBreak)
}
