// Package format turns measure values into display text.
//
// The [Adapter] resolves the display unit (auto, none or a fixed scale),
// applies the absolute-value option and passes text measures through
// unchanged. The actual number rendering is delegated to a [Formatter]; the
// default [NumberFormatter] is built on golang.org/x/text.
package format

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/matzehuels/advancecard/pkg/card/measure"
)

// Formatter renders value divided by scale using the format hint of its
// column. precision > 0 fixes the number of decimals.
type Formatter interface {
	Format(value float64, hint string, scale float64, precision int) string
}

// significantDigits is used for scaled values when no precision is set.
const significantDigits = 3

// NumberFormatter is the default Formatter. It understands Excel style
// masks and prints unit suffixes K, M, bn and T.
type NumberFormatter struct {
	printer *message.Printer
}

// NewNumberFormatter returns a formatter using the separators of tag.
func NewNumberFormatter(tag language.Tag) *NumberFormatter {
	return &NumberFormatter{printer: message.NewPrinter(tag)}
}

// Format implements Formatter.
func (f *NumberFormatter) Format(value float64, hint string, scale float64, precision int) string {
	if math.IsNaN(value) {
		return "NaN"
	}
	if math.IsInf(value, 0) {
		if value < 0 {
			return "-Infinity"
		}
		return "Infinity"
	}
	if scale <= 0 {
		scale = 1
	}

	m := parseMask(hint)
	if m.percent {
		value *= 100
	}
	scaled := math.Abs(value) / scale

	minDecimals, decimals := 0, 0
	switch {
	case precision > 0:
		minDecimals, decimals = precision, precision
	case scale > 1:
		decimals = sigDecimals(scaled)
	case m.decimals >= 0:
		minDecimals, decimals = m.decimals, m.decimals
	}
	// number.Decimal rounds half to even; ties go away from zero here.
	scaled = roundHalfUp(scaled, decimals)

	opts := []number.Option{number.MinFractionDigits(minDecimals), number.MaxFractionDigits(decimals)}
	if !m.grouping {
		opts = append(opts, number.NoSeparator())
	}

	digits := f.printer.Sprintf("%v", number.Decimal(scaled, opts...))

	var b strings.Builder
	if value < 0 && !isZero(digits) {
		b.WriteByte('-')
	}
	b.WriteString(m.prefix)
	b.WriteString(digits)
	b.WriteString(UnitSuffix(scale))
	b.WriteString(m.suffix)
	return b.String()
}

// sigDecimals returns how many decimals keep significantDigits significant
// digits for v.
func sigDecimals(v float64) int {
	if v == 0 {
		return 0
	}
	intDigits := int(math.Floor(math.Log10(v))) + 1
	d := significantDigits - intDigits
	if d < 0 {
		return 0
	}
	return min(d, 9)
}

// roundHalfUp rounds a non-negative v to d decimals with ties away from zero.
func roundHalfUp(v float64, d int) float64 {
	p := math.Pow10(d)
	r := math.Round(v*p) / p
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return v
	}
	return r
}

func isZero(digits string) bool {
	return strings.Trim(digits, "0.,") == ""
}

// Default is the formatter used when none is supplied.
var Default Formatter = NewNumberFormatter(language.English)

// Adapter applies display-unit and measure-type rules around a Formatter.
type Adapter struct {
	formatter Formatter
}

// NewAdapter wraps f. A nil f selects Default.
func NewAdapter(f Formatter) *Adapter {
	if f == nil {
		f = Default
	}
	return &Adapter{formatter: f}
}

// Format renders value with the given display unit and precision.
func (a *Adapter) Format(value float64, hint string, unit float64, precision int) string {
	return a.formatter.Format(value, hint, ResolveScale(value, unit), precision)
}

// Options controls how a measure is formatted.
type Options struct {
	Unit      float64
	Precision int
	Absolute  bool
}

// Measure renders a resolved measure. Text measures are returned unchanged;
// numeric measures have the absolute-value option applied before formatting.
// A missing value renders as the empty string.
func (a *Adapter) Measure(m measure.Measure, opts Options) string {
	if m.Raw == nil {
		return ""
	}
	if m.IsText {
		return fmt.Sprint(m.Raw)
	}
	v := m.Number()
	if math.IsNaN(v) {
		return fmt.Sprint(m.Raw)
	}
	if opts.Absolute {
		v = math.Abs(v)
	}
	return a.Format(v, m.Format, opts.Unit, opts.Precision)
}
