package core

import (
	"encoding/csv"
	"fmt"
)

// csvSink writes a DataFrame as RFC 4180 CSV via encoding/csv, the only CSV
// writer available across the retrieval pack (spec.md §9 Open Question:
// no third-party CSV/Parquet encoder was found anywhere in the corpus, so
// this component is justified stdlib — see DESIGN.md).
type csvSink struct {
	gzip bool
}

func (s csvSink) Write(df DataFrame, schema Table, path string) error {
	w, closeFn, err := openSinkFile(path, s.gzip)
	if err != nil {
		return err
	}
	defer closeFn()

	cw := csv.NewWriter(w)
	header := make([]string, len(df.Columns))
	for i, col := range df.Columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		return CollectErrorf("writing csv header: %w", err)
	}

	row := make([]string, len(df.Columns))
	for r := 0; r < df.NRows; r++ {
		for c, col := range df.Columns {
			row[c] = csvCell(formatScalar(col, r, schema.BinaryEncoding))
		}
		if err := cw.Write(row); err != nil {
			return CollectErrorf("writing csv row %d: %w", r, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return CollectErrorf("flushing csv: %w", err)
	}
	return nil
}

func csvCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return hexEncode(t) // a selected binary column always carries an encoding in CSV/JSON (spec.md §9)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}
