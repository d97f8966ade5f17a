// Package style merges configured text styles with the outcome of condition
// evaluation.
package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/advancecard/pkg/card/condition"
)

// FontMultiplier converts point sizes to CSS pixels.
const FontMultiplier = 1.33333333333333

// Font weights and styles emitted on text elements.
const (
	WeightBold   = "bold"
	WeightNormal = "normal"
	StyleItalic  = "italic"
	StyleNormal  = "normal"
)

// Base is the configured look of one text element.
type Base struct {
	Color      string
	FontSize   float64 // points
	FontFamily string
	Bold       bool
	Italic     bool
}

// Final is the resolved look of a text element, ready to be drawn.
type Final struct {
	Color      string  `json:"color"`
	FontSizePx float64 `json:"fontSize"`
	FontFamily string  `json:"fontFamily"`
	FontWeight string  `json:"fontWeight"`
	FontStyle  string  `json:"fontStyle"`
}

// Bold reports whether the resolved weight is bold.
func (f Final) Bold() bool { return f.FontWeight == WeightBold }

// Italic reports whether the resolved style is italic.
func (f Final) Italic() bool { return f.FontStyle == StyleItalic }

// CSS renders f as an inline style declaration list.
func (f Final) CSS() string {
	var b strings.Builder
	if f.Color != "" {
		fmt.Fprintf(&b, "fill: %s; ", f.Color)
	}
	fmt.Fprintf(&b, "font-size: %spx; ", Num(f.FontSizePx))
	if f.FontFamily != "" {
		fmt.Fprintf(&b, "font-family: %s; ", f.FontFamily)
	}
	fmt.Fprintf(&b, "font-weight: %s; font-style: %s", f.FontWeight, f.FontStyle)
	return b.String()
}

// Num formats v for SVG and CSS output, rounded to three decimals.
func Num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Resolve returns the final style of an element. The matched rule's
// foreground replaces the base color only when conditional styling applies
// to the element, a rule matched, and that rule sets a foreground.
func Resolve(base Base, conditionEnabled bool, m condition.Match, matched bool) Final {
	f := Final{
		Color:      base.Color,
		FontSizePx: base.FontSize * FontMultiplier,
		FontFamily: base.FontFamily,
		FontWeight: WeightNormal,
		FontStyle:  StyleNormal,
	}
	if conditionEnabled && matched && m.Foreground != "" {
		f.Color = m.Foreground
	}
	if base.Bold {
		f.FontWeight = WeightBold
	}
	if base.Italic {
		f.FontStyle = StyleItalic
	}
	return f
}

// Label returns the text of a progression label: a matched non-empty custom
// label wins over the configured text.
func Label(m condition.Match, matched bool, configured string) string {
	if matched && m.CustomLabel != "" {
		return m.CustomLabel
	}
	return configured
}

// Prefix returns the progression prefix text: a matched non-empty custom
// prefix wins over the configured prefix.
func Prefix(m condition.Match, matched bool, configured string) string {
	if matched && m.CustomPrefix != "" {
		return m.CustomPrefix
	}
	return configured
}

// Background returns the card fill, overridden by the matched rule's
// background when conditional styling applies.
func Background(base string, conditionEnabled bool, m condition.Match, matched bool) string {
	if conditionEnabled && matched && m.Background != "" {
		return m.Background
	}
	return base
}

// Stroke types.
const (
	StrokeSolid  = "0"
	StrokeDashed = "1"
	StrokeDotted = "2"
)

// DashArray returns the SVG dash array for a stroke type. An explicit array
// wins; solid strokes have none.
func DashArray(strokeType, explicit string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	switch strokeType {
	case StrokeDashed:
		return "8 , 4"
	case StrokeDotted:
		return "2 , 4"
	}
	return ""
}
