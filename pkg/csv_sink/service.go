// Package csv_sink appends measurement rows to a CSV file. Every row is
// flushed before Append returns, so a crash loses at most the in-flight
// sample. The header is written exactly once, when the file is created or
// found empty.
package csv_sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/benchkit/power_analyzer_logger/pkg/logging"
)

type Writer struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

// Open opens (or creates) the destination for appending and writes the
// header if the file is new or empty.
func Open(path string, header []string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file %s: %w", path, err)
	}

	w := &Writer{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat output file %s: %w", path, err)
	}

	if info.Size() == 0 {
		logging.Info().Str("path", path).Msg("Output file is new or empty, writing header")
		if err := w.Append(header); err != nil {
			file.Close()
			return nil, err
		}
	}
	return w, nil
}

// Append writes one row and flushes it to disk.
func (w *Writer) Append(row []string) error {
	if err := w.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write row to %s: %w", w.path, err)
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", w.path, err)
	}
	return nil
}

func (w *Writer) Close() error {
	w.writer.Flush()
	return w.file.Close()
}
