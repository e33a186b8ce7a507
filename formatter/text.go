package formatter

import (
	"bytes"
	"strings"
	"text/tabwriter"

	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

// Text renders t as aligned, tab-separated columns with a header row.
func Text(t *vessels.Table) []byte {
	var b bytes.Buffer
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	_, _ = w.Write([]byte(strings.Join(t.ColumnNames(), "\t") + "\n"))
	cells := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, v := range row {
			cells[i] = oneLine(cellText(v))
		}
		_, _ = w.Write([]byte(strings.Join(cells, "\t") + "\n"))
	}
	_ = w.Flush()
	return b.Bytes()
}

func oneLine(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
}
