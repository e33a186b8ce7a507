// Package formatter serializes vessels.Table results for output.
//
// This package is organized into:
// - json.go: JSON array of records, keys in column order
// - csv.go: CSV with a header row
// - xml.go: XML with proper escaping
// - text.go: aligned columns for terminals
//
// Every format renders cells the same way (see cell.go), so a datetime is
// RFC 3339 and a nested value is compact JSON, keys in payload order, whichever
// format is chosen.
package formatter
