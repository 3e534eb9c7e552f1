package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// OutputFormat selects the on-disk encoding a Sink writes.
type OutputFormat int

const (
	FormatCSV OutputFormat = iota
	FormatJSON
	FormatParquet
)

func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "csv":
		return FormatCSV, nil
	case "json", "jsonl":
		return FormatJSON, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return 0, BadParamsf("unknown output format %q", s)
	}
}

// String names the format, e.g. for dry-run/report display.
func (f OutputFormat) String() string { return f.extension() }

func (f OutputFormat) extension() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatParquet:
		return "parquet"
	default:
		return "bin"
	}
}

// Sink writes one finished DataFrame to a single output file. Each dataset
// partition produces exactly one file (spec.md §5: one file per Partition
// per Datatype, never appended to).
type Sink interface {
	Write(df DataFrame, schema Table, path string) error
}

// NewSink returns the Sink for the requested format. gzip wraps the
// underlying writer in a gzip.Writer (klauspost/compress, matching the
// teacher's compression stack) when enabled.
func NewSink(format OutputFormat, gz bool) (Sink, error) {
	switch format {
	case FormatCSV:
		return csvSink{gzip: gz}, nil
	case FormatJSON:
		return jsonSink{gzip: gz}, nil
	case FormatParquet:
		return parquetSink{}, nil
	default:
		return nil, BadParamsf("unsupported output format %d", int(format))
	}
}

// OutputPath builds the file path for one Partition's output file:
// <dir>/<network>__<datatype>__<identity>.<ext>[.gz] (spec.md §6).
func OutputPath(dir string, network string, d Datatype, identity string, format OutputFormat, gz bool) string {
	name := fmt.Sprintf("%s__%s__%s.%s", network, d.Name(), identity, format.extension())
	if gz {
		name += ".gz"
	}
	return filepath.Join(dir, name)
}

// Exists reports whether path is already present, used for the
// skip-if-exists classification in freeze.go.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func openSinkFile(path string, gz bool) (io.WriteCloser, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, CollectErrorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, CollectErrorf("creating output file %s: %w", path, err)
	}
	if !gz {
		return f, f.Close, nil
	}
	gw := gzip.NewWriter(f)
	closeBoth := func() error {
		if err := gw.Close(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return gw, closeBoth, nil
}

// formatScalar renders one row's value for column-oriented text sinks
// (CSV/JSON), applying BinaryEncoding to Binary columns per spec.md §5.
func formatScalar(s Series, row int, enc BinaryEncoding) any {
	switch s.Type {
	case ColBool:
		return s.Bool[row]
	case ColUInt32:
		return s.UInt32[row]
	case ColUInt64:
		return s.UInt64[row]
	case ColInt32:
		return s.Int32[row]
	case ColInt64:
		return s.Int64[row]
	case ColFloat64:
		return s.Float64[row]
	case ColString:
		return s.String[row]
	case ColBinary:
		b := s.Binary[row]
		if enc == EncodingHex {
			return hexEncode(b)
		}
		return b
	default:
		return nil
	}
}

func hexEncode(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 2+len(b)*2)
	out[0], out[1] = '0', 'x'
	for i, v := range b {
		out[2+i*2] = hexdigits[v>>4]
		out[2+i*2+1] = hexdigits[v&0x0f]
	}
	return string(out)
}
