package formatter

import (
	"strings"

	"github.com/theoremus-urban-solutions/wsf-vessels/vessels"
)

// XML serializes t as <root><Row><Column>value</Column>...</Row></root>.
// Null cells are omitted. Column names that are not valid element names are
// written as <Field name="...">.
func XML(t *vessels.Table, root string) []byte {
	if !isXMLName(root) {
		root = "Table"
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(root)
	b.WriteString(">")
	for _, row := range t.Rows {
		b.WriteString("<Row>")
		for i, col := range t.Columns {
			if row[i] == nil {
				continue
			}
			writeXMLCell(&b, col.Name, cellText(row[i]))
		}
		b.WriteString("</Row>")
	}
	b.WriteString("</")
	b.WriteString(root)
	b.WriteString(">")
	return []byte(b.String())
}

func writeXMLCell(b *strings.Builder, name, value string) {
	if isXMLName(name) {
		b.WriteString("<")
		b.WriteString(name)
		b.WriteString(">")
		b.WriteString(xmlEscape(value))
		b.WriteString("</")
		b.WriteString(name)
		b.WriteString(">")
		return
	}
	b.WriteString(`<Field name="`)
	b.WriteString(xmlEscape(name))
	b.WriteString(`">`)
	b.WriteString(xmlEscape(value))
	b.WriteString("</Field>")
}

func isXMLName(s string) bool {
	if s == "" || strings.HasPrefix(strings.ToLower(s), "xml") {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r == '_':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlReplacer.Replace(s)
}
