// Package measure resolves the main, progression and condition measures of a
// card from the first row of its input table.
package measure

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/advancecard/pkg/data"
)

// Measure is one resolved value together with the column metadata needed to
// display it. Present is false when no column plays the role.
type Measure struct {
	Present     bool
	Raw         any
	DisplayName string
	IsText      bool
	Format      string
}

// Number returns the numeric value of Raw, or NaN when Raw is missing or not
// numeric. NaN never satisfies a condition rule.
func (m Measure) Number() float64 {
	return ToFloat(m.Raw)
}

// Measures holds the three resolved roles of one update.
type Measures struct {
	Main        Measure
	Progression Measure
	Condition   Measure
}

// Resolve scans the columns of t once and reads row 0.
//
// The condition value comes from a numeric or integer column flagged as the
// condition measure; without one it falls back to the main measure's raw
// value. The progression measure falls back to the main value with Present
// left false. An empty table yields all-absent measures.
func Resolve(t data.Table) Measures {
	var ms Measures
	if len(t.Rows) == 0 {
		return ms
	}

	for i, col := range t.Columns {
		v := t.Value(0, i)
		if col.Roles.Condition && col.Type.IsNumeric() {
			ms.Condition = fromColumn(col, v)
		}
		if col.Roles.Main {
			ms.Main = fromColumn(col, v)
		}
		if col.Roles.Progression {
			ms.Progression = fromColumn(col, v)
		}
	}

	if !ms.Condition.Present {
		ms.Condition = Measure{Raw: ms.Main.Raw}
	}
	if !ms.Progression.Present {
		ms.Progression = Measure{Raw: ms.Main.Raw}
	}
	return ms
}

func fromColumn(col data.Column, v any) Measure {
	return Measure{
		Present:     true,
		Raw:         v,
		DisplayName: col.DisplayName,
		IsText:      col.Type == data.TypeText,
		Format:      col.Format,
	}
}

// ToFloat converts a raw cell value to float64. Strings are parsed; anything
// else that is not a number yields NaN.
func ToFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return math.NaN()
}
