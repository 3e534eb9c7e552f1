package core

import "encoding/json"

// jsonSink writes a DataFrame as newline-delimited JSON objects, one per
// row, via encoding/json (same stdlib justification as csvSink).
type jsonSink struct {
	gzip bool
}

func (s jsonSink) Write(df DataFrame, schema Table, path string) error {
	w, closeFn, err := openSinkFile(path, s.gzip)
	if err != nil {
		return err
	}
	defer closeFn()

	enc := json.NewEncoder(w)
	for r := 0; r < df.NRows; r++ {
		row := make(map[string]any, len(df.Columns))
		for _, col := range df.Columns {
			v := formatScalar(col, r, schema.BinaryEncoding)
			if b, ok := v.([]byte); ok {
				v = hexEncode(b)
			}
			row[col.Name] = v
		}
		if err := enc.Encode(row); err != nil {
			return CollectErrorf("writing json row %d: %w", r, err)
		}
	}
	return nil
}
