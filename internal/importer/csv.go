package importer

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Row is one parsed CSV data line, keyed by the cleaned header tokens.
// Columns missing from a short row are present with empty values.
type Row map[string]string

// parseRows turns raw delimited text into ordered rows. The first
// non-blank logic is deliberately simple: line one is the header, every
// following non-blank line is data. Fields are comma-delimited; a
// double-quoted field may contain commas, and the quotes are stripped.
// Shape validation against a dialect is the interpreter's job.
func parseRows(raw string) []Row {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) == 0 {
		return nil
	}

	headers := splitLine(lines[0])
	for i, h := range headers {
		headers[i] = cleanCell(h)
	}

	var rows []Row
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitLine(line)
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				row[h] = cleanCell(fields[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// splitLine splits one CSV line on commas, honoring double quotes. Quote
// characters toggle quoted state and are dropped; no further escaping is
// supported.
func splitLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}

// cleanCell trims whitespace and any quotes the splitter left behind.
func cleanCell(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// headerLine returns the lower-cased first line of the file, used by the
// dialect pre-check before any row parsing happens.
func headerLine(raw string) string {
	line, _, _ := strings.Cut(raw, "\n")
	return strings.ToLower(strings.TrimSuffix(line, "\r"))
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune
// so a half-converted export cannot poison downstream string handling.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
