// Package export renders tabular reports into downloadable documents.
package export

import (
	"fmt"
	"strings"
)

// Field is a labelled scalar printed above the table.
type Field struct {
	Label string
	Value string
}

// Report is the format independent content of an export.
type Report struct {
	Title   string
	Summary []Field
	Headers []string
	Rows    [][]string
}

// Renderer encodes a report into a specific document format.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(report Report) ([]byte, error)
}

// ErrUnsupportedFormat is returned by ForFormat for unknown formats.
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

// ForFormat resolves a renderer by its short name ("csv" or "pdf").
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "csv":
		return NewCSVExporter(), nil
	case "pdf":
		return NewPDFExporter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func validate(report Report) error {
	if len(report.Headers) == 0 {
		return fmt.Errorf("report requires at least one header")
	}
	for i, row := range report.Rows {
		if len(row) != len(report.Headers) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(report.Headers))
		}
	}
	return nil
}
