package settings

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/matzehuels/advancecard/pkg/card/condition"
)

// Property is one named value of an instance.
type Property struct {
	Name  string
	Value any
}

// Properties is an ordered property list. It marshals to a JSON object
// whose keys keep their order.
type Properties []Property

// Get returns the value of the named property.
func (p Properties) Get(name string) (any, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Value, true
		}
	}
	return nil, false
}

// Map returns the properties as a map.
func (p Properties) Map() map[string]any {
	m := make(map[string]any, len(p))
	for _, prop := range p {
		m[prop.Name] = prop.Value
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(prop.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Instance is one block of properties shown for a settings group.
type Instance struct {
	Group      string     `json:"objectName"`
	Properties Properties `json:"properties"`
}

// Enumerate returns the property instances a host should display for group.
// Rule slots are listed only up to the clamped slot count, the progression
// prefix text only when the prefix is enabled, and progression rule slots
// only when progression conditions are enabled. Unknown groups yield nil.
func Enumerate(s Settings, group string) []Instance {
	one := func(props Properties) []Instance {
		return []Instance{{Group: group, Properties: props}}
	}

	switch group {
	case GroupGeneral:
		return one(Properties{
			{"alignment", s.General.Alignment},
			{"alignmentSpacing", s.General.AlignmentSpacing},
		})

	case GroupPrefix, GroupPostfix:
		f := s.Prefix
		if group == GroupPostfix {
			f = s.Postfix
		}
		return one(Properties{
			{"show", f.Show},
			{"text", nullable(f.Text)},
			{"color", f.Color},
			{"spacing", f.Spacing},
			{"fontSize", f.FontSize},
			{"fontFamily", f.FontFamily},
			{"isBold", f.Bold},
			{"isItalic", f.Italic},
		})

	case GroupDataLabel:
		d := s.DataLabel
		return one(Properties{
			{"color", d.Color},
			{"centerVertical", d.CenterVertical},
			{"displayUnit", d.DisplayUnit},
			{"decimalPlaces", d.DecimalPlaces},
			{"fontSize", d.FontSize},
			{"fontFamily", d.FontFamily},
			{"isBold", d.Bold},
			{"isItalic", d.Italic},
		})

	case GroupCategoryLabel:
		c := s.CategoryLabel
		return one(Properties{
			{"show", c.Show},
			{"customLabel", nullable(c.CustomLabel)},
			{"color", c.Color},
			{"fontSize", c.FontSize},
			{"fontFamily", c.FontFamily},
			{"isBold", c.Bold},
			{"isItalic", c.Italic},
		})

	case GroupProgressionLabel:
		p := s.ProgressionLabel
		return one(Properties{
			{"show", p.Show},
			{"customLabel", nullable(p.CustomLabel)},
			{"inlineBlock", p.InlineBlock},
			{"marginSpace", p.MarginSpace},
			{"color", p.Color},
			{"fontSize", p.FontSize},
			{"fontFamily", p.FontFamily},
			{"isBold", p.Bold},
			{"isItalic", p.Italic},
		})

	case GroupBackground:
		return one(Properties{
			{"show", s.Background.Show},
			{"backgroundColor", nullable(s.Background.BackgroundColor)},
		})

	case GroupStroke:
		st := s.Stroke
		return one(Properties{
			{"show", st.Show},
			{"strokeColor", nullable(st.Color)},
			{"strokeThickness", st.Thickness},
			{"cornerRadius", st.CornerRadius},
			{"strokeType", st.StrokeType},
			{"strokeArray", nullable(st.StrokeArray)},
			{"topLeft", st.TopLeft},
			{"topRight", st.TopRight},
			{"bottomLeft", st.BottomLeft},
			{"bottomRight", st.BottomRight},
			{"topLeftInward", st.TopLeftInward},
			{"topRightInward", st.TopRightInward},
			{"bottomLeftInward", st.BottomLeftInward},
			{"bottomRightInward", st.BottomRightInward},
		})

	case GroupCondition:
		c := s.Condition
		n := c.Count()
		out := one(Properties{
			{"show", c.Show},
			{"conditionNumbers", n},
			{"applyToDataLabel", c.ApplyToDataLabel},
			{"applyToCategoryLabel", c.ApplyToCategoryLabel},
			{"applyToPrefix", c.ApplyToPrefix},
			{"applyToPostfix", c.ApplyToPostfix},
		})
		for i := 1; i <= n; i++ {
			out = append(out, Instance{Group: group, Properties: slotProperties(c.Rules, i, false)})
		}
		return out

	case GroupProgression:
		p := s.Progression
		n := p.Count()
		out := one(Properties{
			{"useCondition", p.UseCondition},
			{"marginTop", p.MarginTop},
			{"applyTolabel", p.ApplyToLabel},
			{"displayAbsoluteValue", p.DisplayAbsoluteValue},
			{"usePrefix", p.UsePrefix},
		})
		if p.UsePrefix {
			out = append(out, Instance{Group: group, Properties: Properties{
				{"prefixText", nullable(p.PrefixText)},
			}})
		}
		out = append(out, Instance{Group: group, Properties: Properties{
			{"color", p.Color},
			{"displayUnit", p.DisplayUnit},
			{"decimalPlaces", p.DecimalPlaces},
			{"fontSize", p.FontSize},
			{"fontFamily", p.FontFamily},
			{"isBold", p.Bold},
			{"isItalic", p.Italic},
			{"conditionNumbers", n},
		}})
		if p.UseCondition {
			for i := 1; i <= n; i++ {
				out = append(out, Instance{Group: group, Properties: slotProperties(p.Rules, i, true)})
			}
		}
		return out

	case GroupAbout:
		a := DefaultAbout()
		return one(Properties{
			{"version", a.Version},
			{"helpUrl", a.HelpURL},
			{"helpMail", a.HelpMail},
		})
	}
	return nil
}

// slotProperties lists the properties of 1-based slot i, suffixed with i.
func slotProperties(rules condition.Rules, i int, progression bool) Properties {
	var r condition.Rule
	if i-1 < len(rules) {
		r = rules[i-1]
	}
	if r.Comparator == "" {
		r.Comparator = condition.GreaterThan
	}
	idx := strconv.Itoa(i)
	var threshold any
	if r.Threshold != nil {
		threshold = *r.Threshold
	}
	props := Properties{
		{"condition" + idx, string(r.Comparator)},
		{"value" + idx, threshold},
		{"foregroundColor" + idx, nullable(r.Foreground)},
		{"backgroundColor" + idx, nullable(r.Background)},
	}
	if progression {
		props = append(props,
			Property{"customLabel" + idx, nullable(r.CustomLabel)},
			Property{"customPrefix" + idx, nullable(r.CustomPrefix)},
		)
	}
	return props
}

// nullable maps unset strings to nil.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
