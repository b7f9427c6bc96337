// Package report renders tabular customer histories as downloadable files.
package report

import (
	"fmt"
	"io"
	"strings"
)

// Format is an export file type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Table is a titled grid of text cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Write renders t to w in the given format.
func Write(w io.Writer, format Format, t Table) error {
	switch format {
	case FormatPDF:
		return WritePDF(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// FileName is the download name for a customer's export, "<customer>_data.<ext>".
// Path separators are replaced so the name is safe to write to disk.
func FileName(customerName string, format Format) string {
	name := strings.NewReplacer("/", "_", `\`, "_").Replace(customerName)
	return name + "_data." + string(format)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func columnCount(t Table) int {
	n := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}
