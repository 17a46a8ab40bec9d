package usecase

import (
	"bytes"
	"strings"
	"testing"

	"github.com/riskibarqy/pickleball-league/internal/infrastructure/sheet"
	"github.com/xuri/excelize/v2"
)

func parseCSV(t *testing.T, text string) ([]MatchCandidate, []RowError) {
	t.Helper()

	rows, err := sheet.ReadCSV(strings.NewReader(text))
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return NewMatchRowParser().Parse(rows)
}

func TestMatchRowParser_SkipsUnplayedShortAndHeaderRows(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Division,Team 1,,Team 2,Date,Team 1 Wins,Team 2 Wins,Team 1 Points,Team 2 Points",
		"B3,Team X,v,Team Y,13-Jan-26,2,1,11,9",
		"B3,Team X,v,Team Y,13-Jan-26,,,10,12",
		"B3,Team X,v,Team Y",
		"",
		"Division A,Dink Dynasty,v,Kitchen Kings,13-Jan-2026,0,3,15,33",
	}, "\r\n")

	candidates, rowErrors := parseCSV(t, text)
	if len(rowErrors) != 0 {
		t.Fatalf("unexpected row errors: %+v", rowErrors)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 played rows, got %d: %+v", len(candidates), candidates)
	}

	first := candidates[0]
	if first.Line != 2 || first.Division != "B3" || first.Team1 != "Team X" || first.Team2 != "Team Y" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	if first.Date != "2026-01-13" || first.Team1Wins != 2 || first.Team2Wins != 1 || first.Team1PointsFor != 11 || first.Team2PointsFor != 9 {
		t.Fatalf("unexpected first candidate values: %+v", first)
	}
	if candidates[1].Line != 6 || candidates[1].Date != "2026-01-13" {
		t.Fatalf("unexpected second candidate: %+v", candidates[1])
	}
}

func TestMatchRowParser_TypedColumnsFailTheRow(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"A,One,v,Two,13-Jan-26,2,1,11,9",
		"A,One,v,Two,13-Jan-26,two,1,11,9",
		"A,One,v,Two,13-Jan-26,2,1,-4,9",
		"A,One,v,Two,31-Foo-26,2,1,11,9",
		"A,One,v,Two,13-Jan-26,2,1,,9",
		"A,,v,Two,13-Jan-26,2,1,11,9",
		"A,One,v,one,13-Jan-26,2,1,11,9",
	}, "\n")

	candidates, rowErrors := parseCSV(t, text)
	if len(candidates) != 1 {
		t.Fatalf("expected only the first row accepted, got %+v", candidates)
	}
	if len(rowErrors) != 6 {
		t.Fatalf("expected 6 row errors, got %d: %+v", len(rowErrors), rowErrors)
	}

	wantLines := []int{2, 3, 4, 5, 6, 7}
	for idx, rowErr := range rowErrors {
		if rowErr.Line != wantLines[idx] {
			t.Fatalf("row error %d on line %d, want %d", idx, rowErr.Line, wantLines[idx])
		}
	}
	if !strings.Contains(rowErrors[0].Message, "team1 wins") {
		t.Fatalf("expected non numeric message, got %q", rowErrors[0].Message)
	}
	if !strings.Contains(rowErrors[1].Message, "non-negative") {
		t.Fatalf("expected negative message, got %q", rowErrors[1].Message)
	}
	if got := rowErrors[0].String(); !strings.HasPrefix(got, "Row 2: ") {
		t.Fatalf("unexpected formatted error: %q", got)
	}
}

func TestMatchRowParser_XLSXRowMissingPointsIsRowError(t *testing.T) {
	t.Parallel()

	book := excelize.NewFile()
	sheetName := book.GetSheetName(0)
	played := []any{"B3", "Net Ninjas", "v", "Lob Stars", "13-Jan-26", 2, 1, 11, 9}
	missingPoints := []any{"B3", "Team X", "v", "Team Y", "13-Jan-26", 2, 1}
	if err := book.SetSheetRow(sheetName, "A1", &played); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if err := book.SetSheetRow(sheetName, "A2", &missingPoints); err != nil {
		t.Fatalf("set row: %v", err)
	}
	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	rows, err := sheet.Read(buf.Bytes(), sheet.FormatXLSX)
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	candidates, rowErrors := NewMatchRowParser().Parse(rows)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 accepted row, got %+v", candidates)
	}
	if len(rowErrors) != 1 || rowErrors[0].Line != 2 {
		t.Fatalf("expected row error on line 2, got %+v", rowErrors)
	}
	if !strings.Contains(rowErrors[0].Message, "team1 points") {
		t.Fatalf("expected missing points message, got %q", rowErrors[0].Message)
	}
}

func TestMatchRowParser_MalformedFirstRowIsNotHeader(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"B3,Team X,v,Team Y,13-Jan-26,abc,def,x,y",
		"B3,Team X,v,Team Y,20-Jan-26,2,1,11,9",
	}, "\n")

	candidates, rowErrors := parseCSV(t, text)
	if len(candidates) != 1 {
		t.Fatalf("expected second row accepted, got %+v", candidates)
	}
	if len(rowErrors) != 1 || rowErrors[0].Line != 1 {
		t.Fatalf("expected row error on line 1, got %+v", rowErrors)
	}
}

func TestMatchRowParser_QuotedNamesWithCommas(t *testing.T) {
	t.Parallel()

	candidates, rowErrors := parseCSV(t, `B3,"Dink, Drop & Roll",v,Team Y,13-Jan-26,2,0,22,10`+"\n")
	if len(rowErrors) != 0 || len(candidates) != 1 {
		t.Fatalf("unexpected parse result: %+v %+v", candidates, rowErrors)
	}
	if candidates[0].Team1 != "Dink, Drop & Roll" {
		t.Fatalf("unexpected team name: %q", candidates[0].Team1)
	}
}
