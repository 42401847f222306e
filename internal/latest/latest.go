// Package latest picks the newest copy of every backup file found across
// the rotated subfolders of a backup root.
package latest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hinkolas/cobackup/internal/fsutil"
)

// ErrRootMissing is returned by Select when the backup root does not exist.
var ErrRootMissing = errors.New("backup root missing")

// Candidate is one physical file discovered below the backup root.
type Candidate struct {
	Name    string
	Path    string
	ModTime time.Time
}

// newer reports whether c should replace cur as the winner for its name.
// Equal timestamps resolve to the lexically smaller path.
func (c Candidate) newer(cur Candidate) bool {
	if c.ModTime.Equal(cur.ModTime) {
		return c.Path < cur.Path
	}
	return c.ModTime.After(cur.ModTime)
}

// Set maps a file name to its newest candidate.
type Set map[string]Candidate

// Select scans every subdirectory of root recursively. Files placed
// directly in root are ignored.
func Select(root string) (Set, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootMissing, root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("backup root %s is not a directory", root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading backup root: %w", err)
	}

	set := make(Set)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if err := set.scan(filepath.Join(root, entry.Name())); err != nil {
			return nil, err
		}
	}

	return set, nil
}

func (s Set) scan(dir string) error {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		s.Add(Candidate{Name: d.Name(), Path: path, ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return fmt.Errorf("directory walk failed: %w", err)
	}
	return nil
}

// Add offers c to the set, keeping it only if it beats the current winner.
func (s Set) Add(c Candidate) {
	cur, ok := s[c.Name]
	if !ok || c.newer(cur) {
		s[c.Name] = c
	}
}

// Files returns the winners sorted by name.
func (s Set) Files() []Candidate {
	files := make([]Candidate, 0, len(s))
	for _, c := range s {
		files = append(files, c)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files
}

// Latest returns the newest timestamp among the winners. ok is false for
// an empty set.
func (s Set) Latest() (latest time.Time, ok bool) {
	for _, c := range s {
		if !ok || c.ModTime.After(latest) {
			latest = c.ModTime
			ok = true
		}
	}
	return latest, ok
}

// CopyTo copies every winner into dest, overwriting files of the same name.
func (s Set) CopyTo(dest string) (int, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return 0, err
	}

	copied := 0
	for _, c := range s.Files() {
		if err := fsutil.CopyFile(c.Path, filepath.Join(dest, c.Name)); err != nil {
			return copied, fmt.Errorf("failed to copy %s: %w", c.Path, err)
		}
		copied++
	}

	return copied, nil
}
