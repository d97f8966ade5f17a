package scene

import "github.com/matzehuels/advancecard/pkg/card/style"

// Box is an axis-aligned bounding box in the coordinate space of a group,
// excluding the group's own translation.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the box has no extent.
func (b Box) Empty() bool {
	return b.Width <= 0 && b.Height <= 0
}

// Translate returns b moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return b
}

// Union returns the smallest box containing b and o. Empty boxes are ignored.
func (b Box) Union(o Box) Box {
	if o.Empty() {
		return b
	}
	if b.Empty() {
		return o
	}
	x0, y0 := min(b.X, o.X), min(b.Y, o.Y)
	x1, y1 := max(b.X+b.Width, o.X+o.Width), max(b.Y+b.Height, o.Y+o.Height)
	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Boxes maps groups to their measured boxes.
type Boxes map[Group]Box

// Get returns the box of g, or the zero box when g was not measured.
func (b Boxes) Get(g Group) Box {
	return b[g]
}

// TextMetrics measures text on a particular rendering surface.
type TextMetrics interface {
	// Advance returns the horizontal advance of s drawn in st.
	Advance(s string, st style.Final) float64
	// VerticalMetrics returns the ascent and descent of st's font.
	VerticalMetrics(st style.Final) (ascent, descent float64)
}

// MeasureAll returns the box of every group in s using m. Surfaces that lay
// text out themselves only need to supply TextMetrics to get group boxes
// with the same semantics as a browser's getBBox.
func MeasureAll(s *Scene, m TextMetrics) Boxes {
	boxes := make(Boxes)
	s.Walk(func(n *Node, _ int) {
		boxes[n.Name] = MeasureNode(n, m)
	})
	return boxes
}

// MeasureNode returns the box of n in its own coordinate space: the union of
// its text and its translated children.
func MeasureNode(n *Node, m TextMetrics) Box {
	b := measureText(n.Text, m)
	for _, c := range n.Children {
		b = b.Union(MeasureNode(c, m).Translate(c.X, c.Y))
	}
	return b
}

// measureText lays spans out left to right from the origin on a shared
// baseline at y = 0.
func measureText(t *Text, m TextMetrics) Box {
	if t == nil {
		return Box{}
	}
	var x, ascent, descent float64
	drawn := false
	for _, sp := range t.Spans {
		x += sp.DX
		if sp.Text == "" {
			continue
		}
		drawn = true
		x += m.Advance(sp.Text, sp.Style)
		a, d := m.VerticalMetrics(sp.Style)
		ascent, descent = max(ascent, a), max(descent, d)
	}
	if !drawn {
		return Box{}
	}
	return Box{X: 0, Y: -ascent, Width: x, Height: ascent + descent}
}
