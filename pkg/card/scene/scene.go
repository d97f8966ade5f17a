// Package scene describes what a card draws: nested groups of styled text
// and an optional background outline.
//
// A scene is built once per update with every group at the origin. A
// rendering surface then measures the named groups, the layout engine turns
// those measurements into translations, and the scene is drawn again with the
// translations applied. Nothing is created or removed between the two passes.
package scene

import (
	"strings"

	"github.com/matzehuels/advancecard/pkg/card/shape"
	"github.com/matzehuels/advancecard/pkg/card/style"
)

// Group names a measurable group. The names double as SVG class attributes.
type Group string

// Groups of a card scene.
const (
	Card               Group = "cardGrp"
	Content            Group = "contentGrp"
	CategoryLabel      Group = "categoryLabelGrp"
	ProgressionCard    Group = "progressionCardGrp"
	ProgressionContent Group = "progressionContentGrp"
	ProgressionLabel   Group = "progressionLabelGrp"
)

// Groups lists all group names in drawing order.
var Groups = []Group{Card, Content, CategoryLabel, ProgressionCard, ProgressionContent, ProgressionLabel}

// Span classes.
const (
	ClassPrefix           = "prefixLabel"
	ClassDataLabel        = "dataLabel"
	ClassPostfix          = "postfixLabel"
	ClassCategoryLabel    = "categoryLabel"
	ClassProgressionValue = "progressionValue"
	ClassProgressionLabel = "progressionLabel"
)

// Span is a run of text in a single style. DX shifts the span right of the
// previous one.
type Span struct {
	Class string      `json:"class"`
	Text  string      `json:"text"`
	DX    float64     `json:"dx,omitempty"`
	Style style.Final `json:"style"`
}

// Text is a line of spans with an optional tooltip.
type Text struct {
	Spans []Span `json:"spans"`
	Title string `json:"title,omitempty"`
}

// Content returns the concatenated span texts.
func (t *Text) Content() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, s := range t.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Node is a group translated by (X, Y) relative to its parent.
type Node struct {
	Name     Group   `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     *Text   `json:"text,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Background is the card outline, translated by (X, Y).
type Background struct {
	Path        shape.Path `json:"-"`
	D           string     `json:"d"`
	X           float64    `json:"x"`
	Y           float64    `json:"y"`
	Fill        string     `json:"fill"`
	Stroke      string     `json:"stroke,omitempty"`
	StrokeWidth float64    `json:"strokeWidth,omitempty"`
	DashArray   string     `json:"dashArray,omitempty"`
}

// Scene is everything drawn for one card.
type Scene struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Background *Background `json:"background,omitempty"`
	Roots      []*Node     `json:"groups"`
}

// Walk visits every node depth first.
func (s *Scene) Walk(fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range s.Roots {
		visit(r, 0)
	}
}

// Find returns the node named g, or nil.
func (s *Scene) Find(g Group) *Node {
	var found *Node
	s.Walk(func(n *Node, _ int) {
		if found == nil && n.Name == g {
			found = n
		}
	})
	return found
}

// Translate sets the translation of group g. It reports whether the group
// exists.
func (s *Scene) Translate(g Group, x, y float64) bool {
	n := s.Find(g)
	if n == nil {
		return false
	}
	n.X, n.Y = x, y
	return true
}
