package formatter

import (
	"bytes"
	"encoding/csv"

	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

// CSV serializes t with a header row of column names.
func CSV(t *vessels.Table) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(t.ColumnNames()); err != nil {
		return nil, err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			record[i] = cellText(v)
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
