// Package bulkimport parses and validates operator-supplied CSV batches of
// categories before they are submitted to the connector in a single call.
package bulkimport

import "strings"

// Row is one parsed CSV data line, keyed by header name.
type Row map[string]string

// ParseResult carries the parsed rows together with the header order, which
// rendering needs to echo the file back in its original column order.
type ParseResult struct {
	Headers []string
	Rows    []Row
}

// Parse reads a CSV document with a mandatory header line. The format is
// deliberately minimal: fields are split on commas and trimmed, a row shorter
// than the header yields empty strings for the missing columns, and there is
// no quoting or escaping. Category codes and names never contain commas, and
// a quoted dialect would silently change what operators' existing files mean.
func Parse(text string) ParseResult {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var headers []string
	for _, h := range strings.Split(lines[0], ",") {
		headers = append(headers, strings.TrimSpace(h))
	}

	// Blank interior lines are kept as empty rows so that a row's index always
	// maps back to its line in the uploaded file.
	var rows []Row
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = strings.TrimSpace(values[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	return ParseResult{Headers: headers, Rows: rows}
}
