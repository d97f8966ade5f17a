// Package condition evaluates the ordered conditional rules attached to a
// card measure.
//
// A rule set holds up to [MaxRules] slots. Only the first N slots are
// considered, slots without a threshold are skipped, and the first slot whose
// comparison holds wins:
//
//	rules := condition.Rules{
//	    {Comparator: condition.LessThan, Threshold: condition.Threshold(0), Foreground: "red"},
//	}
//	if m, ok := condition.Evaluate(-50, rules, 2); ok {
//	    fmt.Println(m.Slot, m.Foreground) // 1 red
//	}
package condition

import "math"

// MaxRules is the number of rule slots a measure can carry.
const MaxRules = 10

// Comparator is the relation tested between a value and a rule threshold.
type Comparator string

// Supported comparators.
const (
	GreaterThan    Comparator = ">"
	GreaterOrEqual Comparator = ">="
	Equal          Comparator = "="
	LessThan       Comparator = "<"
	LessOrEqual    Comparator = "<="
)

// Comparators lists the supported comparators in display order.
var Comparators = []Comparator{GreaterThan, GreaterOrEqual, Equal, LessThan, LessOrEqual}

// ParseComparator returns the comparator for s and whether it is supported.
func ParseComparator(s string) (Comparator, bool) {
	c := Comparator(s)
	return c, c.Valid()
}

// Valid reports whether c is one of the supported comparators.
func (c Comparator) Valid() bool {
	switch c {
	case GreaterThan, GreaterOrEqual, Equal, LessThan, LessOrEqual:
		return true
	}
	return false
}

// Compare reports whether value c threshold holds. Comparisons involving NaN
// are false, and so is any comparison with an unsupported comparator.
func (c Comparator) Compare(value, threshold float64) bool {
	if math.IsNaN(value) || math.IsNaN(threshold) {
		return false
	}
	switch c {
	case GreaterThan:
		return value > threshold
	case GreaterOrEqual:
		return value >= threshold
	case Equal:
		return value == threshold
	case LessThan:
		return value < threshold
	case LessOrEqual:
		return value <= threshold
	}
	return false
}

// Rule is one conditional slot. A nil Threshold makes the rule inert.
// CustomLabel and CustomPrefix are only meaningful for progression rules.
type Rule struct {
	Comparator   Comparator `json:"condition" toml:"condition" yaml:"condition"`
	Threshold    *float64   `json:"value,omitempty" toml:"value,omitempty" yaml:"value,omitempty"`
	Foreground   string     `json:"foregroundColor,omitempty" toml:"foregroundColor,omitempty" yaml:"foregroundColor,omitempty"`
	Background   string     `json:"backgroundColor,omitempty" toml:"backgroundColor,omitempty" yaml:"backgroundColor,omitempty"`
	CustomLabel  string     `json:"customLabel,omitempty" toml:"customLabel,omitempty" yaml:"customLabel,omitempty"`
	CustomPrefix string     `json:"customPrefix,omitempty" toml:"customPrefix,omitempty" yaml:"customPrefix,omitempty"`
}

// Threshold returns a pointer to v, for building rules in code.
func Threshold(v float64) *float64 {
	return &v
}

// Inert reports whether the rule has no threshold and can never match.
func (r Rule) Inert() bool {
	return r.Threshold == nil
}

// Matches reports whether value satisfies the rule.
func (r Rule) Matches(value float64) bool {
	if r.Inert() {
		return false
	}
	return r.Comparator.Compare(value, *r.Threshold)
}

// Rules is an ordered rule set. Index 0 is slot 1.
type Rules []Rule

// Match is the rule that fired and its 1-based slot number.
type Match struct {
	Rule
	Slot int
}

// ClampCount clamps the number of active slots to [1, MaxRules].
func ClampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxRules {
		return MaxRules
	}
	return n
}

// Evaluate returns the first of the first n rules matching value.
// n is clamped with [ClampCount]; slots beyond len(rules) are treated as inert.
func Evaluate(value float64, rules Rules, n int) (Match, bool) {
	n = ClampCount(n)
	for i := 0; i < n && i < len(rules); i++ {
		if rules[i].Matches(value) {
			return Match{Rule: rules[i], Slot: i + 1}, true
		}
	}
	return Match{}, false
}

// Padded returns a copy of rules with exactly MaxRules slots. Missing slots
// get the default comparator and no threshold; extra slots are dropped.
func (rs Rules) Padded() Rules {
	out := make(Rules, MaxRules)
	for i := range out {
		if i < len(rs) {
			out[i] = rs[i]
		}
		if out[i].Comparator == "" {
			out[i].Comparator = GreaterThan
		}
	}
	return out
}
