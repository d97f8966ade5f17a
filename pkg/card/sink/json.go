package sink

import (
	"encoding/json"

	"github.com/matzehuels/advancecard/pkg/card/layout"
	"github.com/matzehuels/advancecard/pkg/card/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	placement *layout.Placement
	boxes     scene.Boxes
	surface   string
}

// WithJSONPlacement includes the computed placement and its diagnostics.
func WithJSONPlacement(p layout.Placement) JSONOption {
	return func(r *jsonRenderer) { r.placement = &p }
}

// WithJSONBoxes includes the measured group boxes.
func WithJSONBoxes(b scene.Boxes) JSONOption { return func(r *jsonRenderer) { r.boxes = b } }

// WithJSONSurface records the name of the surface that measured the scene.
func WithJSONSurface(name string) JSONOption { return func(r *jsonRenderer) { r.surface = name } }

type jsonOutput struct {
	Width      float64                   `json:"width"`
	Height     float64                   `json:"height"`
	Surface    string                    `json:"surface,omitempty"`
	Background *scene.Background         `json:"background,omitempty"`
	Groups     []*scene.Node             `json:"groups"`
	Placement  *layout.Placement         `json:"placement,omitempty"`
	Boxes      map[scene.Group]scene.Box `json:"boxes,omitempty"`
}

// RenderJSON exports the scene as a pretty-printed JSON document: every
// group with its translation, text spans and resolved styles, optionally
// with the placement and measured boxes that produced it.
func RenderJSON(s *scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	out := jsonOutput{
		Width:      s.Width,
		Height:     s.Height,
		Surface:    r.surface,
		Background: s.Background,
		Groups:     s.Roots,
		Placement:  r.placement,
		Boxes:      r.boxes,
	}
	if out.Groups == nil {
		out.Groups = []*scene.Node{}
	}
	return json.MarshalIndent(out, "", "  ")
}
