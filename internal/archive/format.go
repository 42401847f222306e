// Package archive writes and reads the per-company backup archives.
package archive

import (
	"fmt"
	"strings"
	"time"
)

// Format is the container format of an archive.
type Format string

const (
	FormatZip   Format = "zip"
	FormatTarGz Format = "tar.gz"
)

// TimestampLayout is the timestamp embedded in archive names.
const TimestampLayout = "2006-01-02_15-04-05"

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatZip, FormatTarGz:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported archive format %q", s)
	}
}

// Ext returns the file extension including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// FormatOf detects the format from a file name.
func FormatOf(name string) (Format, bool) {
	for _, f := range []Format{FormatZip, FormatTarGz} {
		if strings.HasSuffix(strings.ToLower(name), f.Ext()) {
			return f, true
		}
	}
	return "", false
}

// Name builds `{code}_{friendlyName}_{timestamp}.{ext}`. Two archives for
// the same company created within the same second share a name and the
// later one overwrites the earlier.
func Name(code, friendlyName string, ts time.Time, format Format) string {
	return fmt.Sprintf("%s_%s_%s%s", code, friendlyName, ts.Format(TimestampLayout), format.Ext())
}
