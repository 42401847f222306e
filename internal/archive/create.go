package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Create writes every entry below root into a new archive at path.
// Entry names are relative to root. A partially written archive is
// removed when any entry fails.
func Create(path string, format Format, root string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}

	w, err := newWriter(file, format)
	if err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	defer func() {
		closeErr := errors.Join(w.Close(), file.Close())
		if err == nil && closeErr != nil {
			err = fmt.Errorf("failed to finalize archive: %w", closeErr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip root directory
		if p == root {
			return nil
		}

		relPath, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(relPath)

		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			err = w.AddDir(name, info)
		case d.Type().IsRegular():
			err = w.AddFile(name, info, p)
		default:
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		return nil
	})
}

// RemoveStale deletes the archives of a company from dir, matched by the
// `{code}_` prefix and a known archive extension. It returns the removed
// paths.
func RemoveStale(dir, code string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, code+"_") {
			continue
		}
		if _, ok := FormatOf(name); !ok {
			continue
		}

		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}

	return removed, nil
}

// List returns the archives in dir, optionally restricted to one company.
func List(dir, code string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var archives []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if _, ok := FormatOf(name); !ok {
			continue
		}
		if code != "" && !strings.HasPrefix(name, code+"_") {
			continue
		}
		archives = append(archives, filepath.Join(dir, name))
	}

	return archives, nil
}
