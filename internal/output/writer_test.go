package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Operation string `json:"operation"`
	Status    int    `json:"status"`
	Response  string `json:"response"`
}

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name    string
		records []entry
		want    []string
	}{
		{
			name:    "single record",
			records: []entry{{Operation: "Threads", Status: 200, Response: "{}"}},
			want:    []string{`{"operation":"Threads","status":200,"response":"{}"}`},
		},
		{
			name: "multiple records",
			records: []entry{
				{Operation: "Threads", Status: 200},
				{Operation: "Comments", Status: 502, Response: "<html>"},
			},
			want: []string{
				`{"operation":"Threads","status":200,"response":""}`,
				`{"operation":"Comments","status":502,"response":"<html>"}`,
			},
		},
		{
			name:    "empty records",
			records: []entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewWriter(&buf)

			for _, record := range tt.records {
				require.NoError(t, writer.Write(record))
			}
			assert.Equal(t, len(tt.records), writer.Count())

			out := strings.TrimSpace(buf.String())
			if len(tt.want) == 0 {
				assert.Empty(t, out)
				return
			}
			lines := strings.Split(out, "\n")
			require.Len(t, lines, len(tt.want))
			for i, line := range lines {
				assert.JSONEq(t, tt.want[i], line)
			}
		})
	}
}

func TestWriter_DoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	require.NoError(t, writer.Write(entry{Response: "<redacted>"}))
	assert.Contains(t, buf.String(), "<redacted>")
}

func TestWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	const goroutines, perGoroutine = 10, 100
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				assert.NoError(t, writer.Write(entry{Operation: "Concurrent", Status: id*perGoroutine + j}))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, goroutines*perGoroutine, writer.Count())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, goroutines*perGoroutine)
	for i, line := range lines {
		var e entry
		assert.NoErrorf(t, json.Unmarshal([]byte(line), &e), "line %d", i)
	}
}

func TestNewFileWriter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "transcript.ndjson")
	require.NoError(t, os.WriteFile(filename, []byte("stale\n"), 0o600))

	writer, err := NewFileWriter(filename)
	require.NoError(t, err)
	require.NoError(t, writer.Write(entry{Operation: "Issue", Status: 200}))
	require.NoError(t, writer.Close())

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.JSONEq(t, `{"operation":"Issue","status":200,"response":""}`, strings.TrimSpace(string(data)))
}

func TestNewFileWriter_Gzip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "transcript.ndjson.gz")

	writer, err := NewFileWriter(filename)
	require.NoError(t, err)
	require.NoError(t, writer.Write(entry{Operation: "Threads", Status: 200}))
	require.NoError(t, writer.Write(entry{Operation: "Comments", Status: 200}))
	require.NoError(t, writer.Close())

	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)

	var ops []string
	scanner := bufio.NewScanner(zr)
	for scanner.Scan() {
		var e entry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		ops = append(ops, e.Operation)
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, []string{"Threads", "Comments"}, ops)
}

func TestNewFileWriter_Error(t *testing.T) {
	_, err := NewFileWriter("/non/existent/path/test.ndjson")
	assert.Error(t, err)
}

func TestWriter_CloseTwice(t *testing.T) {
	writer, err := NewFileWriter(filepath.Join(t.TempDir(), "out.ndjson"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	assert.NoError(t, writer.Close())
}

func TestWriter_WriteError(t *testing.T) {
	writer := NewWriter(&bytes.Buffer{})
	assert.Error(t, writer.Write(make(chan int)))
	assert.Zero(t, writer.Count())
}
