package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"sinkholegen/pkg/filtering"
)

const scratchSuffix = ".tmp"

// Result summarises one written output file.
type Result struct {
	Format string
	Path   string
	Lines  int
	Usage  string
}

// WriteHeader replaces path with a file holding only the format header.
func WriteHeader(fs afero.Fs, path string, format Format, timestamp string) error {
	if err := writeAtomic(fs, path, []byte(format.Header(timestamp))); err != nil {
		return fmt.Errorf("write %s header: %w", format.Name, err)
	}
	return nil
}

// Write renders entries below the header and replaces path in one rename, so
// readers never see a partially written body.
func Write(fs afero.Fs, path string, format Format, timestamp string, entries []filtering.Entry) (Result, error) {
	lines := RenderLines(format, entries)

	var b strings.Builder
	b.WriteString(format.Header(timestamp))
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if err := writeAtomic(fs, path, []byte(b.String())); err != nil {
		return Result{}, fmt.Errorf("write %s file: %w", format.Name, err)
	}

	return Result{
		Format: format.Name,
		Path:   path,
		Lines:  len(lines),
		Usage:  format.Usage(filepath.Base(path)),
	}, nil
}

func writeAtomic(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	scratch := path + scratchSuffix
	if err := afero.WriteFile(fs, scratch, data, 0o644); err != nil {
		_ = fs.Remove(scratch)
		return err
	}
	if err := fs.Rename(scratch, path); err != nil {
		_ = fs.Remove(scratch)
		return err
	}
	return nil
}
