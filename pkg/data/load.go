package data

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"

	"github.com/matzehuels/advancecard/pkg/errors"
)

// Load reads a table from path, choosing the decoder from the extension
// (.json, .csv, .xlsx).
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Table{}, errors.New(errors.ErrCodeFileNotFound, "data file not found: %s", path)
	}
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeInvalidData, err, "open %s", path)
	}
	defer f.Close()

	var t Table
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		t, err = ReadJSON(f)
	case ".csv":
		t, err = ReadCSV(f)
	case ".xlsx":
		info, statErr := f.Stat()
		if statErr != nil {
			return Table{}, errors.Wrap(errors.ErrCodeInvalidData, statErr, "stat %s", path)
		}
		t, err = ReadXLSX(f, info.Size())
	default:
		return Table{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported data file extension %q (must be .json, .csv or .xlsx)", ext)
	}
	if err != nil {
		return Table{}, errors.Wrap(errors.ErrCodeInvalidData, err, "read %s", filepath.Base(path))
	}
	return t, nil
}

// ReadJSON decodes a table document.
func ReadJSON(r io.Reader) (Table, error) {
	var t Table
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&t); err != nil {
		return Table{}, fmt.Errorf("decode table: %w", err)
	}
	for i := range t.Columns {
		t.Columns[i].Type = ParseColumnType(string(t.Columns[i].Type))
	}
	for _, row := range t.Rows {
		for j, v := range row {
			if n, ok := v.(json.Number); ok {
				if f, err := n.Float64(); err == nil {
					row[j] = f
				}
			}
		}
	}
	return t, t.Validate()
}

// ReadCSV decodes a header row of column specs followed by data rows.
// See [ParseHeader] for the header cell syntax.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("csv is empty")
	}
	return fromRecords(records)
}

// ReadXLSX decodes the first sheet of a workbook. The first row holds column
// specs in the same syntax as CSV headers; the rows below hold data.
func ReadXLSX(r io.ReaderAt, size int64) (Table, error) {
	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return Table{}, fmt.Errorf("read workbook: %w", err)
	}

	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	var records [][]string
	for _, row := range sheets[0].Rows() {
		rowIdx := int(row.RowNumber()) - 1
		for rowIdx >= len(records) {
			records = append(records, nil)
		}
		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			colIdx := int(reference.ColumnToIndex(colName))
			for colIdx >= len(records[rowIdx]) {
				records[rowIdx] = append(records[rowIdx], "")
			}
			records[rowIdx][colIdx] = cellText(cell)
		}
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("sheet %q is empty", sheets[0].Name())
	}
	return fromRecords(records)
}

// cellText returns a number cell in its shortest round-tripping form so it
// parses back exactly; other cells return their string value.
func cellText(cell spreadsheet.Cell) string {
	if cell.IsNumber() {
		if f, err := cell.GetValueAsNumber(); err == nil {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
	}
	return cell.GetString()
}

func fromRecords(records [][]string) (Table, error) {
	var t Table
	for i, header := range records[0] {
		col, err := ParseHeader(header)
		if err != nil {
			return Table{}, fmt.Errorf("column %d: %w", i+1, err)
		}
		t.Columns = append(t.Columns, col)
	}
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]any, len(t.Columns))
		for j := range t.Columns {
			if j < len(rec) {
				row[j] = convert(rec[j], t.Columns[j].Type)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, t.Validate()
}

// ParseHeader parses a column header of the form
//
//	name[:type[:roles[:format]]]
//
// where roles is a '+' separated list such as "main+condition". The format
// part may itself contain colons.
func ParseHeader(header string) (Column, error) {
	parts := strings.SplitN(strings.TrimSpace(header), ":", 4)
	col := Column{DisplayName: strings.TrimSpace(parts[0]), Type: TypeOther}
	if col.DisplayName == "" {
		return Column{}, fmt.Errorf("empty column name in %q", header)
	}
	if len(parts) > 1 {
		col.Type = ParseColumnType(parts[1])
	}
	if len(parts) > 2 {
		roles, err := ParseRoles(parts[2])
		if err != nil {
			return Column{}, err
		}
		col.Roles = roles
	}
	if len(parts) > 3 {
		col.Format = parts[3]
	}
	return col, nil
}

func convert(s string, typ ColumnType) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if typ.IsNumeric() {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

func isBlank(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// WriteJSON encodes t as an indented table document.
func WriteJSON(w io.Writer, t Table) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
