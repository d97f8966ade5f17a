// Package sink writes card scenes as SVG, JSON, PNG and PDF.
//
// The SVG output mirrors the DOM of the card visual: one group per named
// scene group, carrying the group name as its class and its translation as
// a transform. Browser surfaces measure the very same markup, so boxes read
// back from a browser match what the SVG renders.
package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/style"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	titles bool
	boxes  scene.Boxes
	font   string
}

// WithTitles emits <title> tooltips on text elements.
func WithTitles() SVGOption { return func(r *svgRenderer) { r.titles = true } }

// WithBoxes outlines the measured box of every group, for debugging layout.
func WithBoxes(b scene.Boxes) SVGOption { return func(r *svgRenderer) { r.boxes = b } }

// WithFontFamily sets a root font family, used for spans without their own.
func WithFontFamily(f string) SVGOption { return func(r *svgRenderer) { r.font = f } }

// RenderSVG renders the scene with its current translations.
func RenderSVG(s *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="card" viewBox="0 0 %s %s" width="%s" height="%s"`,
		style.Num(s.Width), style.Num(s.Height), style.Num(s.Width), style.Num(s.Height))
	if r.font != "" {
		fmt.Fprintf(&buf, ` font-family="%s"`, escapeXML(r.font))
	}
	buf.WriteString(">\n")

	if bg := s.Background; bg != nil {
		renderBackground(&buf, bg)
	}
	for _, n := range s.Roots {
		r.renderNode(&buf, n, 1)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBackground(buf *bytes.Buffer, bg *scene.Background) {
	fmt.Fprintf(buf, `  <path class="cardBackground" d="%s" transform="translate(%s,%s)" fill="%s"`,
		bg.D, style.Num(bg.X), style.Num(bg.Y), escapeXML(bg.Fill))
	if bg.Stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, escapeXML(bg.Stroke), style.Num(bg.StrokeWidth))
	}
	if bg.DashArray != "" {
		fmt.Fprintf(buf, ` stroke-dasharray="%s"`, escapeXML(bg.DashArray))
	}
	buf.WriteString("/>\n")
}

func (r *svgRenderer) renderNode(buf *bytes.Buffer, n *scene.Node, depth int) {
	indent := bytes.Repeat([]byte("  "), depth)
	buf.Write(indent)
	fmt.Fprintf(buf, `<g class="%s"`, n.Name)
	if n.X != 0 || n.Y != 0 {
		fmt.Fprintf(buf, ` transform="translate(%s,%s)"`, style.Num(n.X), style.Num(n.Y))
	}
	buf.WriteString(">\n")

	if n.Text != nil && len(n.Text.Spans) > 0 {
		buf.Write(indent)
		r.renderText(buf, n.Text)
	}
	for _, c := range n.Children {
		r.renderNode(buf, c, depth+1)
	}
	if b, ok := r.boxes[n.Name]; ok && !b.Empty() {
		buf.Write(indent)
		fmt.Fprintf(buf, `  <rect class="debugBox" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#ff00ff" stroke-width="0.5"/>`+"\n",
			style.Num(b.X), style.Num(b.Y), style.Num(b.Width), style.Num(b.Height))
	}

	buf.Write(indent)
	buf.WriteString("</g>\n")
}

func (r *svgRenderer) renderText(buf *bytes.Buffer, t *scene.Text) {
	buf.WriteString("  <text>")
	for _, sp := range t.Spans {
		fmt.Fprintf(buf, `<tspan class="%s"`, sp.Class)
		if sp.DX != 0 {
			fmt.Fprintf(buf, ` dx="%s"`, style.Num(sp.DX))
		}
		fmt.Fprintf(buf, ` style="%s">%s</tspan>`, escapeXML(sp.Style.CSS()), escapeXML(sp.Text))
	}
	if r.titles && t.Title != "" {
		fmt.Fprintf(buf, "<title>%s</title>", escapeXML(t.Title))
	}
	buf.WriteString("</text>\n")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
