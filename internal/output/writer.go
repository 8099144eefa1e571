package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

// Writer handles streaming NDJSON output to a file or io.Writer.
// Every record is flushed as soon as it is written so that a crash leaves a
// readable file behind.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	encoder   *json.Encoder
	count     int
	flushFunc func() error
	closeFunc func() error
}

// NewWriter creates a new NDJSON writer that writes to the specified output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		output:  w,
		encoder: newEncoder(w),
	}
}

// NewFileWriter creates a new NDJSON writer that writes to a file, truncating
// any existing content. Paths ending in ".gz" are gzip-compressed.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create output file")
	}

	if !strings.HasSuffix(filename, ".gz") {
		return &Writer{
			output:    file,
			encoder:   newEncoder(file),
			closeFunc: file.Close,
		}, nil
	}

	zw := gzip.NewWriter(file)
	return &Writer{
		output:    zw,
		encoder:   newEncoder(zw),
		flushFunc: zw.Flush,
		closeFunc: func() error {
			if err := zw.Close(); err != nil {
				_ = file.Close()
				return errors.Wrap(err, "failed to finish gzip stream")
			}
			return file.Close()
		},
	}, nil
}

func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// Write writes a single record as NDJSON.
// Each record is immediately flushed to the output.
func (w *Writer) Write(record any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(record); err != nil {
		return errors.Wrap(err, "failed to write record")
	}
	if w.flushFunc != nil {
		if err := w.flushFunc(); err != nil {
			return errors.Wrap(err, "failed to flush record")
		}
	}

	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		closeFunc := w.closeFunc
		w.closeFunc = nil
		return closeFunc()
	}
	return nil
}
