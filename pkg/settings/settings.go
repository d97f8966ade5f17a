// Package settings holds the configuration object model of a card: style
// groups for each text element, border and fill, the two condition rule sets
// and the general alignment.
//
// Settings are owned by the caller. Rendering never writes back into them;
// values derived at render time, such as the category label falling back to
// the column display name, are computed by the Effective* helpers.
//
// Settings files are TOML, YAML or JSON documents keyed by group name:
//
//	[general]
//	alignment = "left"
//
//	[conditionSettings]
//	show = true
//	conditionNumbers = 1
//
//	[[conditionSettings.rules]]
//	condition = "<"
//	value = 0
//	foregroundColor = "#d64550"
package settings

import (
	"github.com/matzehuels/advancecard/pkg/buildinfo"
	"github.com/matzehuels/advancecard/pkg/card/condition"
	"github.com/matzehuels/advancecard/pkg/card/shape"
	"github.com/matzehuels/advancecard/pkg/card/style"
)

// Group names as used in settings files and enumeration.
const (
	GroupGeneral          = "general"
	GroupPrefix           = "prefixSettings"
	GroupPostfix          = "postfixSettings"
	GroupDataLabel        = "dataLabelSettings"
	GroupCategoryLabel    = "categoryLabelSettings"
	GroupProgressionLabel = "progressionLabelSettings"
	GroupBackground       = "backgroundSettings"
	GroupStroke           = "strokeSettings"
	GroupCondition        = "conditionSettings"
	GroupProgression      = "progressionSettings"
	GroupAbout            = "aboutSettings"
)

// GroupNames lists every group in pane order.
var GroupNames = []string{
	GroupGeneral, GroupPrefix, GroupDataLabel, GroupPostfix, GroupCategoryLabel,
	GroupProgression, GroupProgressionLabel, GroupBackground, GroupStroke,
	GroupCondition, GroupAbout,
}

// Alignments.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// Default font stacks.
const (
	FontSegoe    = `"Segoe UI", wf_segoe-ui_normal, helvetica, arial, sans-serif`
	FontStandard = "wf_standard-font, helvetica, arial, sans-serif"
)

// Settings is the full configuration of one card.
type Settings struct {
	General          General          `json:"general" toml:"general" yaml:"general"`
	Prefix           FixLabel         `json:"prefixSettings" toml:"prefixSettings" yaml:"prefixSettings"`
	Postfix          FixLabel         `json:"postfixSettings" toml:"postfixSettings" yaml:"postfixSettings"`
	DataLabel        DataLabel        `json:"dataLabelSettings" toml:"dataLabelSettings" yaml:"dataLabelSettings"`
	CategoryLabel    CategoryLabel    `json:"categoryLabelSettings" toml:"categoryLabelSettings" yaml:"categoryLabelSettings"`
	ProgressionLabel ProgressionLabel `json:"progressionLabelSettings" toml:"progressionLabelSettings" yaml:"progressionLabelSettings"`
	Background       Fill             `json:"backgroundSettings" toml:"backgroundSettings" yaml:"backgroundSettings"`
	Stroke           Stroke           `json:"strokeSettings" toml:"strokeSettings" yaml:"strokeSettings"`
	Condition        Conditions       `json:"conditionSettings" toml:"conditionSettings" yaml:"conditionSettings"`
	Progression      Progression      `json:"progressionSettings" toml:"progressionSettings" yaml:"progressionSettings"`
	About            About            `json:"aboutSettings" toml:"aboutSettings" yaml:"aboutSettings"`
}

// General controls horizontal placement.
type General struct {
	Alignment        string  `json:"alignment" toml:"alignment" yaml:"alignment"`
	AlignmentSpacing float64 `json:"alignmentSpacing" toml:"alignmentSpacing" yaml:"alignmentSpacing"`
}

// FixLabel is a fixed prefix or postfix around the main value.
type FixLabel struct {
	Show       bool    `json:"show" toml:"show" yaml:"show"`
	Text       string  `json:"text" toml:"text" yaml:"text"`
	Color      string  `json:"color" toml:"color" yaml:"color"`
	Spacing    float64 `json:"spacing" toml:"spacing" yaml:"spacing"`
	FontSize   float64 `json:"fontSize" toml:"fontSize" yaml:"fontSize"`
	FontFamily string  `json:"fontFamily" toml:"fontFamily" yaml:"fontFamily"`
	Bold       bool    `json:"isBold" toml:"isBold" yaml:"isBold"`
	Italic     bool    `json:"isItalic" toml:"isItalic" yaml:"isItalic"`
}

// Base returns the text style of the label.
func (f FixLabel) Base() style.Base {
	return style.Base{Color: f.Color, FontSize: f.FontSize, FontFamily: f.FontFamily, Bold: f.Bold, Italic: f.Italic}
}

// DataLabel styles the main value.
type DataLabel struct {
	Color          string  `json:"color" toml:"color" yaml:"color"`
	CenterVertical bool    `json:"centerVertical" toml:"centerVertical" yaml:"centerVertical"`
	DisplayUnit    float64 `json:"displayUnit" toml:"displayUnit" yaml:"displayUnit"`
	DecimalPlaces  int     `json:"decimalPlaces" toml:"decimalPlaces" yaml:"decimalPlaces"`
	FontSize       float64 `json:"fontSize" toml:"fontSize" yaml:"fontSize"`
	FontFamily     string  `json:"fontFamily" toml:"fontFamily" yaml:"fontFamily"`
	Bold           bool    `json:"isBold" toml:"isBold" yaml:"isBold"`
	Italic         bool    `json:"isItalic" toml:"isItalic" yaml:"isItalic"`
}

// Base returns the text style of the main value.
func (d DataLabel) Base() style.Base {
	return style.Base{Color: d.Color, FontSize: d.FontSize, FontFamily: d.FontFamily, Bold: d.Bold, Italic: d.Italic}
}

// CategoryLabel styles the label under the main value.
type CategoryLabel struct {
	Show        bool    `json:"show" toml:"show" yaml:"show"`
	CustomLabel string  `json:"customLabel" toml:"customLabel" yaml:"customLabel"`
	Color       string  `json:"color" toml:"color" yaml:"color"`
	FontSize    float64 `json:"fontSize" toml:"fontSize" yaml:"fontSize"`
	FontFamily  string  `json:"fontFamily" toml:"fontFamily" yaml:"fontFamily"`
	Bold        bool    `json:"isBold" toml:"isBold" yaml:"isBold"`
	Italic      bool    `json:"isItalic" toml:"isItalic" yaml:"isItalic"`
}

// Base returns the text style of the category label.
func (c CategoryLabel) Base() style.Base {
	return style.Base{Color: c.Color, FontSize: c.FontSize, FontFamily: c.FontFamily, Bold: c.Bold, Italic: c.Italic}
}

// ProgressionLabel styles the label next to or under the progression value.
type ProgressionLabel struct {
	Show        bool    `json:"show" toml:"show" yaml:"show"`
	CustomLabel string  `json:"customLabel" toml:"customLabel" yaml:"customLabel"`
	InlineBlock bool    `json:"inlineBlock" toml:"inlineBlock" yaml:"inlineBlock"`
	MarginSpace float64 `json:"marginSpace" toml:"marginSpace" yaml:"marginSpace"`
	Color       string  `json:"color" toml:"color" yaml:"color"`
	FontSize    float64 `json:"fontSize" toml:"fontSize" yaml:"fontSize"`
	FontFamily  string  `json:"fontFamily" toml:"fontFamily" yaml:"fontFamily"`
	Bold        bool    `json:"isBold" toml:"isBold" yaml:"isBold"`
	Italic      bool    `json:"isItalic" toml:"isItalic" yaml:"isItalic"`
}

// Base returns the text style of the progression label.
func (p ProgressionLabel) Base() style.Base {
	return style.Base{Color: p.Color, FontSize: p.FontSize, FontFamily: p.FontFamily, Bold: p.Bold, Italic: p.Italic}
}

// Fill is the card background.
type Fill struct {
	Show            bool   `json:"show" toml:"show" yaml:"show"`
	BackgroundColor string `json:"backgroundColor" toml:"backgroundColor" yaml:"backgroundColor"`
}

// Stroke is the card border. StrokeType is "0" solid, "1" dashed, "2" dotted.
type Stroke struct {
	Show              bool    `json:"show" toml:"show" yaml:"show"`
	Color             string  `json:"strokeColor" toml:"strokeColor" yaml:"strokeColor"`
	Thickness         float64 `json:"strokeThickness" toml:"strokeThickness" yaml:"strokeThickness"`
	CornerRadius      float64 `json:"cornerRadius" toml:"cornerRadius" yaml:"cornerRadius"`
	StrokeType        string  `json:"strokeType" toml:"strokeType" yaml:"strokeType"`
	StrokeArray       string  `json:"strokeArray" toml:"strokeArray" yaml:"strokeArray"`
	TopLeft           bool    `json:"topLeft" toml:"topLeft" yaml:"topLeft"`
	TopRight          bool    `json:"topRight" toml:"topRight" yaml:"topRight"`
	BottomLeft        bool    `json:"bottomLeft" toml:"bottomLeft" yaml:"bottomLeft"`
	BottomRight       bool    `json:"bottomRight" toml:"bottomRight" yaml:"bottomRight"`
	TopLeftInward     bool    `json:"topLeftInward" toml:"topLeftInward" yaml:"topLeftInward"`
	TopRightInward    bool    `json:"topRightInward" toml:"topRightInward" yaml:"topRightInward"`
	BottomLeftInward  bool    `json:"bottomLeftInward" toml:"bottomLeftInward" yaml:"bottomLeftInward"`
	BottomRightInward bool    `json:"bottomRightInward" toml:"bottomRightInward" yaml:"bottomRightInward"`
}

// Rounded returns the per-corner rounding flags.
func (s Stroke) Rounded() shape.Corners {
	return shape.Corners{TopLeft: s.TopLeft, TopRight: s.TopRight, BottomLeft: s.BottomLeft, BottomRight: s.BottomRight}
}

// Inward returns the per-corner inward flags.
func (s Stroke) Inward() shape.Corners {
	return shape.Corners{
		TopLeft:     s.TopLeftInward,
		TopRight:    s.TopRightInward,
		BottomLeft:  s.BottomLeftInward,
		BottomRight: s.BottomRightInward,
	}
}

// Conditions is the rule set applied to the main card.
type Conditions struct {
	Show                 bool            `json:"show" toml:"show" yaml:"show"`
	ConditionNumbers     int             `json:"conditionNumbers" toml:"conditionNumbers" yaml:"conditionNumbers"`
	ApplyToDataLabel     bool            `json:"applyToDataLabel" toml:"applyToDataLabel" yaml:"applyToDataLabel"`
	ApplyToCategoryLabel bool            `json:"applyToCategoryLabel" toml:"applyToCategoryLabel" yaml:"applyToCategoryLabel"`
	ApplyToPrefix        bool            `json:"applyToPrefix" toml:"applyToPrefix" yaml:"applyToPrefix"`
	ApplyToPostfix       bool            `json:"applyToPostfix" toml:"applyToPostfix" yaml:"applyToPostfix"`
	Rules                condition.Rules `json:"rules" toml:"rules" yaml:"rules"`
}

// Count returns the clamped number of active slots.
func (c Conditions) Count() int {
	return condition.ClampCount(c.ConditionNumbers)
}

// Evaluate runs the rule set against value. It never matches when the rule
// set is switched off.
func (c Conditions) Evaluate(value float64) (condition.Match, bool) {
	if !c.Show {
		return condition.Match{}, false
	}
	return condition.Evaluate(value, c.Rules, c.ConditionNumbers)
}

// Progression configures the secondary value and its rule set.
type Progression struct {
	UseCondition         bool            `json:"useCondition" toml:"useCondition" yaml:"useCondition"`
	MarginTop            float64         `json:"marginTop" toml:"marginTop" yaml:"marginTop"`
	Color                string          `json:"color" toml:"color" yaml:"color"`
	DisplayUnit          float64         `json:"displayUnit" toml:"displayUnit" yaml:"displayUnit"`
	DecimalPlaces        int             `json:"decimalPlaces" toml:"decimalPlaces" yaml:"decimalPlaces"`
	FontSize             float64         `json:"fontSize" toml:"fontSize" yaml:"fontSize"`
	FontFamily           string          `json:"fontFamily" toml:"fontFamily" yaml:"fontFamily"`
	Bold                 bool            `json:"isBold" toml:"isBold" yaml:"isBold"`
	Italic               bool            `json:"isItalic" toml:"isItalic" yaml:"isItalic"`
	ApplyToLabel         bool            `json:"applyTolabel" toml:"applyTolabel" yaml:"applyTolabel"`
	DisplayAbsoluteValue bool            `json:"displayAbsoluteValue" toml:"displayAbsoluteValue" yaml:"displayAbsoluteValue"`
	UsePrefix            bool            `json:"usePrefix" toml:"usePrefix" yaml:"usePrefix"`
	PrefixText           string          `json:"prefixText" toml:"prefixText" yaml:"prefixText"`
	ConditionNumbers     int             `json:"conditionNumbers" toml:"conditionNumbers" yaml:"conditionNumbers"`
	Rules                condition.Rules `json:"rules" toml:"rules" yaml:"rules"`
}

// Base returns the text style of the progression value.
func (p Progression) Base() style.Base {
	return style.Base{Color: p.Color, FontSize: p.FontSize, FontFamily: p.FontFamily, Bold: p.Bold, Italic: p.Italic}
}

// Count returns the clamped number of active slots.
func (p Progression) Count() int {
	return condition.ClampCount(p.ConditionNumbers)
}

// Evaluate runs the progression rule set against value.
func (p Progression) Evaluate(value float64) (condition.Match, bool) {
	if !p.UseCondition {
		return condition.Match{}, false
	}
	return condition.Evaluate(value, p.Rules, p.ConditionNumbers)
}

// About is informational and read-only.
type About struct {
	Version  string `json:"version" toml:"version" yaml:"version"`
	HelpURL  string `json:"helpUrl" toml:"helpUrl" yaml:"helpUrl"`
	HelpMail string `json:"helpMail" toml:"helpMail" yaml:"helpMail"`
}

// Defaults returns the settings of a freshly inserted card.
func Defaults() Settings {
	fix := FixLabel{
		Color:      "#333333",
		Spacing:    4,
		FontSize:   16,
		FontFamily: FontSegoe,
	}
	return Settings{
		General: General{Alignment: AlignCenter, AlignmentSpacing: 10},
		Prefix:  fix,
		Postfix: fix,
		DataLabel: DataLabel{
			Color:      "#333333",
			FontSize:   27,
			FontFamily: FontStandard,
		},
		CategoryLabel: CategoryLabel{
			Show:       true,
			Color:      "#a6a6a6",
			FontSize:   12,
			FontFamily: FontSegoe,
		},
		ProgressionLabel: ProgressionLabel{
			Show:        true,
			MarginSpace: 10,
			Color:       "#a6a6a6",
			FontSize:    10,
			FontFamily:  FontSegoe,
		},
		Stroke: Stroke{
			Thickness:    2,
			CornerRadius: 15,
			StrokeType:   style.StrokeSolid,
		},
		Condition: Conditions{
			ConditionNumbers: 2,
			ApplyToDataLabel: true,
			Rules:            condition.Rules(nil).Padded(),
		},
		Progression: Progression{
			Color:            "#333333",
			FontSize:         27,
			FontFamily:       FontStandard,
			ConditionNumbers: 2,
			Rules:            condition.Rules(nil).Padded(),
		},
		About: DefaultAbout(),
	}
}

// DefaultAbout returns the about group derived from build information.
func DefaultAbout() About {
	return About{
		Version:  buildinfo.CardVersion(),
		HelpURL:  buildinfo.HelpURL,
		HelpMail: buildinfo.HelpMail,
	}
}

// Normalize pads both rule sets to the full slot count and refreshes the
// about group. It is applied after decoding so that partially specified
// files behave like the defaults.
func (s *Settings) Normalize() {
	s.Condition.Rules = s.Condition.Rules.Padded()
	s.Progression.Rules = s.Progression.Rules.Padded()
	s.About = DefaultAbout()
}

// EffectiveCategoryLabel returns the category label text: the custom label
// when set, otherwise the main column display name.
func (s Settings) EffectiveCategoryLabel(displayName string) string {
	if s.CategoryLabel.CustomLabel != "" {
		return s.CategoryLabel.CustomLabel
	}
	return displayName
}

// EffectiveProgressionLabel returns the configured progression label text:
// the custom label when set, otherwise the progression column display name.
func (s Settings) EffectiveProgressionLabel(displayName string) string {
	if s.ProgressionLabel.CustomLabel != "" {
		return s.ProgressionLabel.CustomLabel
	}
	return displayName
}

// BorderShown reports whether a fill or stroke is drawn around the card.
func (s Settings) BorderShown() bool {
	return s.Background.Show || s.Stroke.Show
}
