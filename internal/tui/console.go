package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

const (
	// ANSI color codes
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
)

// Status words highlighted on a terminal
var highlights = []struct {
	word  string
	color string
}{
	{"Success", colorGreen},
	{"Failed", colorRed},
	{"Skipped", colorYellow},
}

// Console mirrors run log lines to a writer, colorizing status words when
// the writer is a terminal.
type Console struct {
	writer io.Writer
	color  bool
	mu     sync.Mutex
}

// NewConsole creates a console on stdout
func NewConsole() *Console {
	return &Console{
		writer: os.Stdout,
		color:  IsTerminal(),
	}
}

// NewPlainConsole writes to w without colors
func NewPlainConsole(w io.Writer) *Console {
	return &Console{writer: w}
}

// IsTerminal checks if stdout is a terminal (TTY)
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// WriteLine prints a single log line
func (c *Console) WriteLine(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.color {
		line = colorize(line)
	}
	fmt.Fprintln(c.writer, line)
}

// Success prints a final message with a green checkmark on a terminal
func (c *Console) Success(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.color {
		message = strings.Replace(message, "✓", colorGreen+"✓"+colorReset, 1)
	}
	fmt.Fprintf(c.writer, "\n%s\n", message)
}

func colorize(line string) string {
	if strings.HasPrefix(line, "==========") {
		return colorCyan + line + colorReset
	}
	for _, h := range highlights {
		line = strings.ReplaceAll(line, h.word, h.color+h.word+colorReset)
	}
	return line
}
