// Package output writes NDJSON (Newline Delimited JSON) records.
//
// The same Writer backs the request transcript kept by the GraphQL client
// and the --json output of the pr command. Writes are serialised by a mutex
// and flushed per record; file writers whose name ends in ".gz" compress
// their output with gzip.
//
// Example usage:
//
//	w, err := output.NewFileWriter("transcript.ndjson.gz")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := w.Write(entry); err != nil {
//	    logger.Warn("transcript write failed", "error", err)
//	}
package output
