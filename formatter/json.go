package formatter

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

// JSON serializes t as an array of objects whose keys follow the column order.
func JSON(t *vessels.Table) ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('[')
	for r, row := range t.Rows {
		if r > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		for i, col := range t.Columns {
			if i > 0 {
				b.WriteByte(',')
			}
			key, err := json.Marshal(col.Name)
			if err != nil {
				return nil, err
			}
			b.Write(key)
			b.WriteByte(':')
			val, err := jsonValue(row[i])
			if err != nil {
				return nil, err
			}
			b.Write(val)
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return b.Bytes(), nil
}

func jsonValue(v any) ([]byte, error) {
	if tm, ok := v.(time.Time); ok {
		return json.Marshal(tm.Format(time.RFC3339))
	}
	return json.Marshal(v)
}
