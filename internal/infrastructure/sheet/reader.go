// Package sheet turns CSV or XLSX attachments into numbered rows of cells.
package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// Row is one source line. Line is 1-based in the original file. Err is set
// when the tokenizer rejected the line; Cells is then empty.
type Row struct {
	Line  int
	Cells []string
	Err   error
}

// DetectFormat picks XLSX for a .xlsx name or a zip payload, CSV otherwise.
func DetectFormat(name string, data []byte) Format {
	if strings.EqualFold(filepath.Ext(strings.TrimSpace(name)), ".xlsx") || bytes.HasPrefix(data, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// Read tokenizes data in the given format.
func Read(data []byte, format Format) ([]Row, error) {
	switch format {
	case FormatXLSX:
		return ReadXLSX(bytes.NewReader(data))
	default:
		return ReadCSV(bytes.NewReader(data))
	}
}

// ReadCSV reads every record. Blank lines are dropped, records may have any
// number of fields and stray quotes inside fields are kept literally.
func ReadCSV(r io.Reader) ([]Row, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows := make([]Row, 0, 64)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rows = append(rows, Row{Line: parseErr.StartLine, Err: parseErr.Err})
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, Row{Line: line, Cells: record})
	}
}

// ReadXLSX reads the first sheet of a workbook. Entirely empty rows are dropped
// and every other row is padded to the widest row of the sheet.
func ReadXLSX(r io.Reader) ([]Row, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	// GetRows drops trailing empty cells; pad so a row with empty score
	// columns keeps the width it would have as CSV.
	width := 0
	for _, record := range records {
		width = max(width, len(record))
	}

	rows := make([]Row, 0, len(records))
	for idx, record := range records {
		if isBlank(record) {
			continue
		}
		rows = append(rows, Row{Line: idx + 1, Cells: padCells(record, width)})
	}
	return rows, nil
}

func padCells(cells []string, width int) []string {
	if len(cells) >= width {
		return cells
	}
	out := make([]string, width)
	copy(out, cells)
	return out
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
