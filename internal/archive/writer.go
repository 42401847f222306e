package archive

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/pgzip"
)

// Writer adds entries to an archive. Names use forward slashes.
type Writer interface {
	AddDir(name string, info fs.FileInfo) error
	AddFile(name string, info fs.FileInfo, path string) error
	Close() error
}

func newWriter(file *os.File, format Format) (Writer, error) {
	switch format {
	case FormatZip:
		return newZipWriter(file), nil
	case FormatTarGz:
		return newTarGzWriter(file)
	default:
		_, err := ParseFormat(string(format))
		return nil, err
	}
}

// tarGzWriter wraps tar.Writer with parallel gzip compression
type tarGzWriter struct {
	tar  *tar.Writer
	gzip *pgzip.Writer
}

func newTarGzWriter(w io.Writer) (*tarGzWriter, error) {
	gzipWriter, err := pgzip.NewWriterLevel(w, pgzip.DefaultCompression)
	if err != nil {
		return nil, err
	}

	// 1MB blocks, use all CPU cores
	if err := gzipWriter.SetConcurrency(1<<20, runtime.NumCPU()); err != nil {
		return nil, err
	}

	return &tarGzWriter{
		tar:  tar.NewWriter(gzipWriter),
		gzip: gzipWriter,
	}, nil
}

func (w *tarGzWriter) header(name string, info fs.FileInfo) (*tar.Header, error) {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return nil, err
	}
	hdr.Name = name
	hdr.Format = tar.FormatPAX
	return hdr, nil
}

func (w *tarGzWriter) AddDir(name string, info fs.FileInfo) error {
	hdr, err := w.header(name+"/", info)
	if err != nil {
		return err
	}
	return w.tar.WriteHeader(hdr)
}

func (w *tarGzWriter) AddFile(name string, info fs.FileInfo, path string) error {
	hdr, err := w.header(name, info)
	if err != nil {
		return err
	}
	if err := w.tar.WriteHeader(hdr); err != nil {
		return err
	}
	return copyFileTo(w.tar, path)
}

func (w *tarGzWriter) Close() error {
	return errors.Join(
		w.tar.Close(),
		w.gzip.Close(),
	)
}

type zipWriter struct {
	zip *zip.Writer
}

func newZipWriter(w io.Writer) *zipWriter {
	return &zipWriter{zip: zip.NewWriter(w)}
}

func (w *zipWriter) AddDir(name string, info fs.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name + "/"
	_, err = w.zip.CreateHeader(hdr)
	return err
}

func (w *zipWriter) AddFile(name string, info fs.FileInfo, path string) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	entry, err := w.zip.CreateHeader(hdr)
	if err != nil {
		return err
	}
	return copyFileTo(entry, path)
}

func (w *zipWriter) Close() error {
	return w.zip.Close()
}

// copyFileTo copies a file's contents to the archive
func copyFileTo(w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(w, file)
	return err
}
