package sheet

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadCSV_QuotedCommasAndLineNumbers(t *testing.T) {
	t.Parallel()

	data := "\xEF\xBB\xBFDivision,Team 1,,Team 2,Date,W1,W2,P1,P2\r\n" +
		"\r\n" +
		"B3,\"Dink, Inc\",v,Team Y,13-Jan-26,2,1,11,9\n" +
		"A,Net Ninjas,v,Lobsters,20-Jan-26,,,,\n"

	rows, err := ReadCSV(bytes.NewReader([]byte(data)))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(rows), rows)
	}
	if rows[0].Cells[0] != "Division" {
		t.Fatalf("expected bom stripped, got %q", rows[0].Cells[0])
	}
	if rows[1].Line != 3 || rows[1].Cells[1] != "Dink, Inc" || len(rows[1].Cells) != 9 {
		t.Fatalf("unexpected quoted row: %+v", rows[1])
	}
	if rows[2].Line != 4 {
		t.Fatalf("unexpected line for last row: %d", rows[2].Line)
	}
}

func TestReadCSV_VariableFieldCount(t *testing.T) {
	t.Parallel()

	rows, err := ReadCSV(bytes.NewReader([]byte("a,b\nc,d,e,f\n")))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 || len(rows[0].Cells) != 2 || len(rows[1].Cells) != 4 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestReadXLSX_FirstSheet(t *testing.T) {
	t.Parallel()

	book := excelize.NewFile()
	sheetName := book.GetSheetName(0)
	values := [][]any{
		{"Division A", "Net Ninjas", "v", "Lobsters", "13-Jan-26", 2, 1, 11, 9},
		{},
		{"B3", "Team X", "v", "Team Y", "20-Jan-26", 0, 2, 5, 22},
	}
	for idx, row := range values {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := book.SetSheetRow(sheetName, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	data := buf.Bytes()
	if DetectFormat("scores.bin", data) != FormatXLSX {
		t.Fatalf("expected zip payload detected as xlsx")
	}

	rows, err := Read(data, FormatXLSX)
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected blank row dropped, got %+v", rows)
	}
	if rows[1].Line != 3 || rows[1].Cells[0] != "B3" || rows[1].Cells[7] != "5" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestReadXLSX_PadsTrailingEmptyCells(t *testing.T) {
	t.Parallel()

	book := excelize.NewFile()
	sheetName := book.GetSheetName(0)
	full := []any{"Division A", "Net Ninjas", "v", "Lob Stars", "13-Jan-26", 2, 1, 11, 9}
	missingPoints := []any{"B3", "Team X", "v", "Team Y", "13-Jan-26", 2, 1}
	if err := book.SetSheetRow(sheetName, "A1", &full); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if err := book.SetSheetRow(sheetName, "A2", &missingPoints); err != nil {
		t.Fatalf("set row: %v", err)
	}
	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	rows, err := Read(buf.Bytes(), FormatXLSX)
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	second := rows[1]
	if len(second.Cells) != 9 {
		t.Fatalf("expected row padded to 9 cells, got %d: %+v", len(second.Cells), second.Cells)
	}
	if second.Cells[6] != "1" || second.Cells[7] != "" || second.Cells[8] != "" {
		t.Fatalf("unexpected padded cells: %+v", second.Cells)
	}
}

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	if DetectFormat("Scores.XLSX", nil) != FormatXLSX {
		t.Fatalf("expected xlsx by extension")
	}
	if DetectFormat("scores.csv", []byte("a,b")) != FormatCSV {
		t.Fatalf("expected csv")
	}
}
