package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Rotate stores runText in front of the existing log at path and keeps at
// most keep runs in total, newest first.
func Rotate(path, runText string, keep int) error {
	runText = strings.TrimRight(runText, " \t\r\n")

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading log: %w", err)
	}

	parts := []string{runText}
	if len(strings.TrimSpace(string(existing))) > 0 && keep > 1 {
		chunks := SplitRuns(string(existing))
		if len(chunks) > keep-1 {
			chunks = chunks[:keep-1]
		}
		parts = append(parts, chunks...)
	}

	return writeAtomic(path, strings.Join(parts, lineBreak+lineBreak)+lineBreak)
}

// SplitRuns cuts a log store into run reports. Every report starts with
// StartPrefix; text before the first banner is not a run and is dropped.
func SplitRuns(store string) []string {
	var chunks []string

	rest := store
	for {
		start := strings.Index(rest, StartPrefix)
		if start < 0 {
			return chunks
		}
		rest = rest[start:]

		next := strings.Index(rest[len(StartPrefix):], StartPrefix)
		chunk := rest
		if next >= 0 {
			chunk = rest[:len(StartPrefix)+next]
			rest = rest[len(StartPrefix)+next:]
		} else {
			rest = ""
		}

		if chunk = strings.TrimRight(chunk, " \t\r\n"); strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
}

// writeAtomic replaces path through a temp file in the same directory
func writeAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing log: %w", err)
	}

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing log: %w", err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing log: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing log: %w", err)
	}

	return nil
}
