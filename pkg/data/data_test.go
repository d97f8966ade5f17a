package data

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unidoc/unioffice/spreadsheet"

	"github.com/matzehuels/advancecard/pkg/errors"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		header string
		want   Column
	}{
		{"Sales", Column{DisplayName: "Sales", Type: TypeOther}},
		{"Sales:numeric", Column{DisplayName: "Sales", Type: TypeNumeric}},
		{"Sales:numeric:main+condition", Column{DisplayName: "Sales", Type: TypeNumeric, Roles: Roles{Main: true, Condition: true}}},
		{"Growth:integer:progression:0.0 %", Column{DisplayName: "Growth", Type: TypeInteger, Format: "0.0 %", Roles: Roles{Progression: true}}},
		{"When:text::hh:mm", Column{DisplayName: "When", Type: TypeText, Format: "hh:mm"}},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseHeader(tt.header)
			if err != nil {
				t.Fatalf("ParseHeader() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseHeader() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseHeaderErrors(t *testing.T) {
	for _, header := range []string{"", ":numeric", "Sales:numeric:bogus"} {
		if _, err := ParseHeader(header); err == nil {
			t.Errorf("ParseHeader(%q) error = nil, want error", header)
		}
	}
}

func TestReadJSON(t *testing.T) {
	doc := `{
	  "columns": [
	    {"displayName": "Sales", "type": "numeric", "format": "#,0", "roles": {"mainMeasure": true}},
	    {"displayName": "Region", "type": "string"}
	  ],
	  "rows": [[1234567, "EMEA"]]
	}`

	tbl, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if len(tbl.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(tbl.Columns))
	}
	if tbl.Columns[1].Type != TypeText {
		t.Errorf("type alias not normalized: %q", tbl.Columns[1].Type)
	}
	if v, ok := tbl.Value(0, 0).(float64); !ok || v != 1234567 {
		t.Errorf("Value(0,0) = %#v, want float64 1234567", tbl.Value(0, 0))
	}
	if tbl.Value(0, 5) != nil || tbl.Value(3, 0) != nil {
		t.Error("out of range Value() should be nil")
	}
}

func TestReadCSV(t *testing.T) {
	src := "Sales:numeric:main,Growth:numeric:progression,Note:text\n1234567,-50,hello\n\n"

	tbl, err := ReadCSV(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(tbl.Rows) != 1 {
		t.Fatalf("rows = %d, want 1 (blank rows skipped)", len(tbl.Rows))
	}
	if got := tbl.Value(0, 1); got != -50.0 {
		t.Errorf("Value(0,1) = %#v, want -50", got)
	}
	if got := tbl.Value(0, 2); got != "hello" {
		t.Errorf("Value(0,2) = %#v, want hello", got)
	}
	if !tbl.Columns[1].Roles.Has(RoleProgression) {
		t.Error("Growth should carry the progression role")
	}
}

func TestReadCSVKeepsUnparsableNumbers(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("Sales:numeric:main\nn/a\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := tbl.Value(0, 0); got != "n/a" {
		t.Errorf("Value(0,0) = %#v, want raw string", got)
	}
}

func TestReadXLSX(t *testing.T) {
	wb := spreadsheet.New()
	sheet := wb.AddSheet()
	header := sheet.AddRow()
	header.AddCell().SetString("Sales:numeric:main")
	header.AddCell().SetString("Region:text")
	row := sheet.AddRow()
	row.AddCell().SetNumber(1234567)
	row.AddCell().SetString("EMEA")

	var buf bytes.Buffer
	if err := wb.Save(&buf); err != nil {
		t.Skipf("cannot build workbook fixture: %v", err)
	}

	tbl, err := ReadXLSX(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadXLSX() error = %v", err)
	}
	if got := tbl.Value(0, 0); got != 1234567.0 {
		t.Errorf("Value(0,0) = %#v, want 1234567", got)
	}
	if got := tbl.Value(0, 1); got != "EMEA" {
		t.Errorf("Value(0,1) = %#v, want EMEA", got)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "card.csv")
	if err := os.WriteFile(csvPath, []byte("Sales:numeric:main\n42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(csvPath)
	if err != nil {
		t.Fatalf("Load(csv) error = %v", err)
	}
	if tbl.Value(0, 0) != 42.0 {
		t.Errorf("Load(csv) value = %#v", tbl.Value(0, 0))
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	txt := filepath.Join(dir, "card.txt")
	_ = os.WriteFile(txt, []byte("x"), 0o644)
	if _, err := Load(txt); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Load(txt) error = %v, want INVALID_FORMAT", err)
	}
}

func TestTableValidate(t *testing.T) {
	bad := Table{Columns: []Column{{DisplayName: "A"}}, Rows: [][]any{{1.0, 2.0}}}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() = nil for row wider than columns")
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	in := Table{
		Columns: []Column{{DisplayName: "Sales", Type: TypeNumeric, Roles: Roles{Main: true}}},
		Rows:    [][]any{{12.5}},
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, in); err != nil {
		t.Fatal(err)
	}
	out, err := ReadJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if out.Value(0, 0) != 12.5 || !out.Columns[0].Roles.Main {
		t.Errorf("round trip lost data: %+v", out)
	}
}
