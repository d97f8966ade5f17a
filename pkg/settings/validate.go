package settings

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/advancecard/pkg/card/condition"
	"github.com/matzehuels/advancecard/pkg/card/format"
	"github.com/matzehuels/advancecard/pkg/card/style"
	"github.com/matzehuels/advancecard/pkg/errors"
)

// namedColors are the CSS color keywords accepted besides hex notation.
var namedColors = map[string]bool{
	"none": true, "transparent": true, "currentcolor": true,
	"black": true, "white": true, "gray": true, "grey": true, "silver": true,
	"red": true, "maroon": true, "orange": true, "yellow": true, "olive": true,
	"lime": true, "green": true, "teal": true, "aqua": true, "cyan": true,
	"blue": true, "navy": true, "purple": true, "fuchsia": true, "magenta": true,
	"pink": true, "brown": true, "gold": true,
}

// ValidColor reports whether s is a hex color or a known color keyword.
// The empty string means "unset" and is valid.
func ValidColor(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, "#") {
		_, err := colorful.Hex(s)
		return err == nil
	}
	return namedColors[strings.ToLower(s)]
}

// Validate reports every problem in s. Problems never stop a render: an
// unknown alignment places blocks at x = 0, an unknown comparator never
// matches, and an invalid color is passed through to the renderer.
func (s Settings) Validate() error {
	var p errors.Problems
	add := func(format string, args ...any) {
		p = append(p, errors.New(errors.ErrCodeInvalidConfig, format, args...))
	}

	switch s.General.Alignment {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		add("general.alignment: unknown alignment %q (must be left, center or right)", s.General.Alignment)
	}

	colors := []struct{ key, value string }{
		{"prefixSettings.color", s.Prefix.Color},
		{"postfixSettings.color", s.Postfix.Color},
		{"dataLabelSettings.color", s.DataLabel.Color},
		{"categoryLabelSettings.color", s.CategoryLabel.Color},
		{"progressionLabelSettings.color", s.ProgressionLabel.Color},
		{"progressionSettings.color", s.Progression.Color},
		{"backgroundSettings.backgroundColor", s.Background.BackgroundColor},
		{"strokeSettings.strokeColor", s.Stroke.Color},
	}
	for _, c := range colors {
		if !ValidColor(c.value) {
			add("%s: invalid color %q", c.key, c.value)
		}
	}

	validateRules := func(group string, rules condition.Rules) {
		for i, r := range rules {
			key := fmt.Sprintf("%s.rules[%d]", group, i)
			if !r.Comparator.Valid() {
				add("%s.condition: unknown comparator %q", key, r.Comparator)
			}
			if r.Threshold != nil && (math.IsNaN(*r.Threshold) || math.IsInf(*r.Threshold, 0)) {
				add("%s.value: threshold must be finite", key)
			}
			if !ValidColor(r.Foreground) {
				add("%s.foregroundColor: invalid color %q", key, r.Foreground)
			}
			if !ValidColor(r.Background) {
				add("%s.backgroundColor: invalid color %q", key, r.Background)
			}
		}
	}
	validateRules(GroupCondition, s.Condition.Rules)
	validateRules(GroupProgression, s.Progression.Rules)

	for _, u := range []struct {
		key  string
		unit float64
	}{
		{"dataLabelSettings.displayUnit", s.DataLabel.DisplayUnit},
		{"progressionSettings.displayUnit", s.Progression.DisplayUnit},
	} {
		if format.UnitName(u.unit) == "auto" && u.unit != format.UnitAuto {
			add("%s: unknown display unit %g, using auto", u.key, u.unit)
		}
	}

	switch s.Stroke.StrokeType {
	case style.StrokeSolid, style.StrokeDashed, style.StrokeDotted:
	default:
		add("strokeSettings.strokeType: unknown stroke type %q (must be 0, 1 or 2)", s.Stroke.StrokeType)
	}
	if s.Stroke.CornerRadius < 0 {
		add("strokeSettings.cornerRadius: must not be negative, got %g", s.Stroke.CornerRadius)
	}
	if s.DataLabel.DecimalPlaces < 0 || s.Progression.DecimalPlaces < 0 {
		add("decimalPlaces must not be negative")
	}

	return p.Err()
}
