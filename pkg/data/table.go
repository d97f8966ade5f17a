// Package data models the tabular input of a card and loads it from JSON,
// CSV and XLSX documents.
//
// A card reads a single row. Each column declares a display name, a value
// type, an optional format mask and the measure roles it plays:
//
//	{
//	  "columns": [
//	    {"displayName": "Sales", "type": "numeric", "format": "#,0", "roles": {"mainMeasure": true}},
//	    {"displayName": "Growth", "type": "numeric", "roles": {"progressionMeasure": true}}
//	  ],
//	  "rows": [[1234567, -50]]
//	}
package data

import (
	"fmt"
	"strings"
)

// ColumnType is the declared value type of a column.
type ColumnType string

// Supported column types.
const (
	TypeNumeric ColumnType = "numeric"
	TypeInteger ColumnType = "integer"
	TypeText    ColumnType = "text"
	TypeOther   ColumnType = "other"
)

// ParseColumnType maps a type name to a ColumnType. Unknown names map to
// TypeOther.
func ParseColumnType(s string) ColumnType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "numeric", "number", "decimal", "float", "double":
		return TypeNumeric
	case "integer", "int", "whole":
		return TypeInteger
	case "text", "string":
		return TypeText
	}
	return TypeOther
}

// IsNumeric reports whether the type is numeric or integer.
func (t ColumnType) IsNumeric() bool {
	return t == TypeNumeric || t == TypeInteger
}

// Role names a measure slot a column can fill.
type Role string

// Measure roles.
const (
	RoleMain        Role = "mainMeasure"
	RoleProgression Role = "progressionMeasure"
	RoleCondition   Role = "conditionMeasure"
)

// Roles records which measure roles a column plays.
type Roles struct {
	Main        bool `json:"mainMeasure,omitempty" bson:"mainMeasure,omitempty"`
	Progression bool `json:"progressionMeasure,omitempty" bson:"progressionMeasure,omitempty"`
	Condition   bool `json:"conditionMeasure,omitempty" bson:"conditionMeasure,omitempty"`
}

// Has reports whether r includes role.
func (r Roles) Has(role Role) bool {
	switch role {
	case RoleMain:
		return r.Main
	case RoleProgression:
		return r.Progression
	case RoleCondition:
		return r.Condition
	}
	return false
}

// ParseRoles parses a role list separated by '+', ',' or '|'. Short names
// (main, progression, condition) are accepted alongside the full names.
func ParseRoles(s string) (Roles, error) {
	var r Roles
	fields := strings.FieldsFunc(s, func(c rune) bool { return c == '+' || c == ',' || c == '|' })
	for _, f := range fields {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "main", "mainmeasure":
			r.Main = true
		case "progression", "progressionmeasure":
			r.Progression = true
		case "condition", "conditionmeasure":
			r.Condition = true
		case "":
		default:
			return Roles{}, fmt.Errorf("unknown measure role %q", f)
		}
	}
	return r, nil
}

// Column describes one input column.
type Column struct {
	DisplayName string     `json:"displayName" bson:"displayName"`
	Type        ColumnType `json:"type" bson:"type"`
	Format      string     `json:"format,omitempty" bson:"format,omitempty"`
	Roles       Roles      `json:"roles" bson:"roles"`
}

// Table is a set of columns and rows aligned with them by index.
type Table struct {
	Columns []Column `json:"columns" bson:"columns"`
	Rows    [][]any  `json:"rows" bson:"rows"`
}

// Value returns the cell at row, col or nil when either index is out of range.
func (t Table) Value(row, col int) any {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// Validate checks the structural consistency of the table.
func (t Table) Validate() error {
	for i, c := range t.Columns {
		if c.DisplayName == "" {
			return fmt.Errorf("column %d: display name is required", i)
		}
	}
	for i, r := range t.Rows {
		if len(r) > len(t.Columns) {
			return fmt.Errorf("row %d: %d values for %d columns", i, len(r), len(t.Columns))
		}
	}
	return nil
}
