package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/pgzip"
)

// Extract unpacks archivePath into target, creating target if needed.
func Extract(archivePath, target string) error {
	format, ok := FormatOf(archivePath)
	if !ok {
		return fmt.Errorf("unknown archive type: %s", archivePath)
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	if format == FormatZip {
		return extractZip(archivePath, target)
	}
	return extractTarGz(archivePath, target)
}

// safeJoin resolves name below target and rejects paths escaping it
func safeJoin(target, name string) (string, error) {
	extractPath := filepath.Join(target, filepath.FromSlash(name))

	cleanPath := filepath.Clean(extractPath)
	cleanTarget := filepath.Clean(target)
	if !strings.HasPrefix(cleanPath, cleanTarget+string(filepath.Separator)) &&
		cleanPath != cleanTarget {
		return "", fmt.Errorf("illegal file path in archive: %s", name)
	}

	return cleanPath, nil
}

func extractZip(archivePath, target string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		extractPath, err := safeJoin(target, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(extractPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", extractPath, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(extractPath), 0o755); err != nil {
			return fmt.Errorf("failed to create parent directory: %w", err)
		}

		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		err = extractFile(rc, extractPath, f.Mode().Perm())
		rc.Close()
		if err != nil {
			return fmt.Errorf("failed to extract file %s: %w", extractPath, err)
		}
	}

	return nil
}

func extractTarGz(archivePath, target string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	gzipReader, err := pgzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			return fmt.Errorf("failed to read tar header: %w", err)
		}

		extractPath, err := safeJoin(target, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(extractPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", extractPath, err)
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(extractPath), 0o755); err != nil {
				return fmt.Errorf("failed to create parent directory: %w", err)
			}
			if err := extractFile(tarReader, extractPath, os.FileMode(header.Mode).Perm()); err != nil {
				return fmt.Errorf("failed to extract file %s: %w", extractPath, err)
			}
		}
	}

	return nil
}

// extractFile writes a single entry to path
func extractFile(r io.Reader, path string, mode os.FileMode) error {
	outFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, r)
	return err
}

// Entries lists the entry names stored in an archive.
func Entries(archivePath string) ([]string, error) {
	format, ok := FormatOf(archivePath)
	if !ok {
		return nil, fmt.Errorf("unknown archive type: %s", archivePath)
	}

	if format == FormatZip {
		reader, err := zip.OpenReader(archivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open archive: %w", err)
		}
		defer reader.Close()

		names := make([]string, 0, len(reader.File))
		for _, f := range reader.File {
			names = append(names, f.Name)
		}
		return names, nil
	}

	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer file.Close()

	gzipReader, err := pgzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var names []string
	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tar header: %w", err)
		}
		names = append(names, header.Name)
	}
}
