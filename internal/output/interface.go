package output

// RecordWriter is the sink used for transcripts and machine-readable command
// output. Implementations must be safe for concurrent use.
type RecordWriter interface {
	// Write writes a single record to the output.
	// The record should be immediately flushed to avoid memory accumulation.
	Write(record any) error

	// Close closes the underlying writer and releases any resources.
	Close() error
}
