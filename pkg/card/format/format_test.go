package format

import (
	"fmt"
	"testing"

	"github.com/matzehuels/advancecard/pkg/card/measure"
)

func TestResolveScale(t *testing.T) {
	tests := []struct {
		value, unit, want float64
	}{
		{999, UnitAuto, 1},
		{1500, UnitAuto, 1e3},
		{2e6, UnitAuto, 1e6},
		{5e9, UnitAuto, 1e9},
		{3e12, UnitAuto, 1e12},
		{-1500, UnitAuto, 1e3},
		{2e6, UnitNone, 1},
		{2e6, UnitThousands, 1e3},
		{5, UnitBillions, 1e9},
		{2e6, 42, 1e6},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g/%g", tt.value, tt.unit), func(t *testing.T) {
			if got := ResolveScale(tt.value, tt.unit); got != tt.want {
				t.Errorf("ResolveScale() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestParseMask(t *testing.T) {
	tests := []struct {
		hint string
		want mask
	}{
		{"", mask{grouping: true, decimals: -1}},
		{"General", mask{grouping: true, decimals: -1}},
		{"#,0", mask{grouping: true, decimals: 0}},
		{"0.00", mask{decimals: 2}},
		{`\$#,0.0;(\$#,0.0)`, mask{prefix: "$", grouping: true, decimals: 1}},
		{"0.0 %", mask{suffix: " %", decimals: 1, percent: true}},
		{`#,0" units"`, mask{suffix: " units", grouping: true, decimals: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			if got := parseMask(tt.hint); got != tt.want {
				t.Errorf("parseMask(%q) = %+v, want %+v", tt.hint, got, tt.want)
			}
		})
	}
}

func TestAdapterFormat(t *testing.T) {
	a := NewAdapter(nil)
	tests := []struct {
		name      string
		value     float64
		hint      string
		unit      float64
		precision int
		want      string
	}{
		{"auto millions", 1234567, "", UnitAuto, 0, "1.23M"},
		{"auto thousands trims zeros", 1500, "", UnitAuto, 0, "1.5K"},
		{"auto small", 42, "", UnitAuto, 0, "42"},
		{"negative small", -50, "", UnitAuto, 0, "-50"},
		{"none grouped", 1234567, "#,0", UnitNone, 0, "1,234,567"},
		{"fixed precision", 1234567, "", UnitThousands, 2, "1,234.57K"},
		{"billions", 5e9, "", UnitAuto, 0, "5bn"},
		{"trillions", 3e12, "", UnitAuto, 1, "3.0T"},
		{"currency mask", 1250, `\$#,0`, UnitNone, 0, "$1,250"},
		{"negative currency", -1250, `\$#,0`, UnitNone, 0, "-$1,250"},
		{"percent", 0.256, "0.0 %", UnitNone, 0, "25.6 %"},
		{"mask decimals", 3.14159, "0.00", UnitNone, 0, "3.14"},
		{"tie rounds up", 2.5, "", UnitNone, 0, "3"},
		{"tie rounds up past even", 12.5, "", UnitNone, 0, "13"},
		{"negative tie away from zero", -2.5, "", UnitNone, 0, "-3"},
		{"tie at precision", 0.125, "", UnitNone, 2, "0.13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Format(tt.value, tt.hint, tt.unit, tt.precision); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdapterMeasure(t *testing.T) {
	a := NewAdapter(nil)

	t.Run("absolute before formatting", func(t *testing.T) {
		m := measure.Measure{Present: true, Raw: -50.0}
		if got := a.Measure(m, Options{Absolute: true}); got != "50" {
			t.Errorf("Measure() = %q, want 50", got)
		}
		if got := a.Measure(m, Options{}); got != "-50" {
			t.Errorf("Measure() = %q, want -50", got)
		}
	})

	t.Run("text bypasses formatting", func(t *testing.T) {
		m := measure.Measure{Present: true, Raw: "On track", IsText: true}
		if got := a.Measure(m, Options{Absolute: true, Precision: 2}); got != "On track" {
			t.Errorf("Measure() = %q, want raw text", got)
		}
	})

	t.Run("missing value", func(t *testing.T) {
		if got := a.Measure(measure.Measure{}, Options{}); got != "" {
			t.Errorf("Measure() = %q, want empty", got)
		}
	})
}

type recordingFormatter struct {
	scale     float64
	precision int
}

func (r *recordingFormatter) Format(value float64, hint string, scale float64, precision int) string {
	r.scale, r.precision = scale, precision
	return "x"
}

func TestAdapterDelegates(t *testing.T) {
	rec := &recordingFormatter{}
	a := NewAdapter(rec)
	a.Format(2e6, "", UnitAuto, 3)
	if rec.scale != 1e6 || rec.precision != 3 {
		t.Errorf("formatter got scale %g precision %d, want 1e6 and 3", rec.scale, rec.precision)
	}
}

func ExampleAdapter_Format() {
	a := NewAdapter(nil)
	fmt.Println(a.Format(1234567, "", UnitAuto, 0))
	fmt.Println(a.Format(1234567, "#,0", UnitNone, 0))
	// Output:
	// 1.23M
	// 1,234,567
}
