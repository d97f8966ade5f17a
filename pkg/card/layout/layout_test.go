package layout

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/shape"
	"github.com/matzehuels/advancecard/pkg/card/style"
)

// halfEm advances every rune by half the font size.
type halfEm struct{}

func (halfEm) Advance(s string, st style.Final) float64 {
	return float64(utf8.RuneCountInString(s)) * st.FontSizePx * 0.5
}

func (halfEm) VerticalMetrics(st style.Final) (float64, float64) {
	return st.FontSizePx * 0.8, st.FontSizePx * 0.2
}

type fakeMeasurer struct {
	calls int
	err   error
}

func (f *fakeMeasurer) Measure(_ context.Context, s *scene.Scene) (scene.Boxes, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return scene.MeasureAll(s, halfEm{}), nil
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func textNode(g scene.Group, text string, size float64) *scene.Node {
	return &scene.Node{Name: g, Text: &scene.Text{Spans: []scene.Span{{
		Text:  text,
		Style: style.Final{FontSizePx: size},
	}}}}
}

func baseBoxes() scene.Boxes {
	return scene.Boxes{
		scene.Content:       {Width: 100, Height: 30},
		scene.Card:          {Width: 100, Height: 50},
		scene.CategoryLabel: {Width: 40, Height: 12},
	}
}

func baseInput() Input {
	return Input{
		Width:              300,
		Height:             200,
		Alignment:          AlignCenter,
		Spacing:            10,
		MainPresent:        true,
		CategoryLabelShown: true,
	}
}

func TestComputeHorizontal(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Input)
		wantX  float64
		catX   float64
	}{
		{"center", func(*Input) {}, 100, 30},
		{"left", func(in *Input) { in.Alignment = AlignLeft }, 10, 0},
		{"left rounded border", func(in *Input) {
			in.Alignment = AlignLeft
			in.BorderShown = true
			in.CornerRadius = 15
			in.Rounded = shape.Corners{BottomLeft: true}
		}, 19, 0},
		{"left rounded without border", func(in *Input) {
			in.Alignment = AlignLeft
			in.CornerRadius = 15
			in.Rounded = shape.Corners{TopLeft: true}
		}, 10, 0},
		{"left border right corners only", func(in *Input) {
			in.Alignment = AlignLeft
			in.BorderShown = true
			in.CornerRadius = 15
			in.Rounded = shape.Corners{TopRight: true}
		}, 10, 0},
		{"right", func(in *Input) { in.Alignment = AlignRight }, 190, 60},
		{"right rounded border", func(in *Input) {
			in.Alignment = AlignRight
			in.BorderShown = true
			in.CornerRadius = 10
			in.Rounded = shape.Corners{TopRight: true}
		}, 184, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.modify(&in)
			p := Compute(in, baseBoxes())
			if !near(p.Card.X, tt.wantX) {
				t.Errorf("Card.X = %v, want %v", p.Card.X, tt.wantX)
			}
			if !near(p.CategoryLabel.X, tt.catX) {
				t.Errorf("CategoryLabel.X = %v, want %v", p.CategoryLabel.X, tt.catX)
			}
			if !near(p.CategoryLabel.Y, 18) {
				t.Errorf("CategoryLabel.Y = %v, want 18", p.CategoryLabel.Y)
			}
			if len(p.Diagnostics) != 0 {
				t.Errorf("Diagnostics = %v, want none", p.Diagnostics)
			}
		})
	}
}

func TestComputeUnknownAlignment(t *testing.T) {
	in := baseInput()
	in.Alignment = "diagonal"
	p := Compute(in, baseBoxes())

	if p.CategoryLabel.X != 0 {
		t.Errorf("CategoryLabel.X = %v, want 0", p.CategoryLabel.X)
	}
	if p.Card.X != 0 {
		t.Errorf("Card.X = %v, want 0", p.Card.X)
	}
	got := map[scene.Group]bool{}
	for _, d := range p.Diagnostics {
		got[d.Element] = true
	}
	if !got[scene.CategoryLabel] || !got[scene.Card] {
		t.Errorf("Diagnostics = %v, want category label and card", p.Diagnostics)
	}
	if got[scene.ProgressionLabel] {
		t.Errorf("Diagnostics = %v, progression label is not drawn", p.Diagnostics)
	}
}

func TestComputeVertical(t *testing.T) {
	boxes := baseBoxes()
	boxes[scene.ProgressionContent] = scene.Box{Width: 60, Height: 16}
	boxes[scene.ProgressionCard] = scene.Box{Width: 60, Height: 20}

	tests := []struct {
		name      string
		modify    func(*Input)
		cardY     float64
		progressY float64
	}{
		{"main only", func(*Input) {}, 100, 136},
		{"category hidden", func(in *Input) { in.CategoryLabelShown = false }, 115, 136},
		{"with progression", func(in *Input) {
			in.ProgressionPresent = true
			in.ProgressionLabelShown = true
		}, 90, 130},
		{"progression label hidden with margin", func(in *Input) {
			in.ProgressionPresent = true
			in.MarginTop = 4
		}, 90, 140},
		{"centered", func(in *Input) {
			in.CenterVertical = true
			in.ProgressionPresent = true
			in.ProgressionLabelShown = true
		}, 100, 150},
		{"centered without main", func(in *Input) {
			in.CenterVertical = true
			in.MainPresent = false
			in.ProgressionPresent = true
			in.ProgressionLabelShown = true
		}, 100, 100},
		{"centered category hidden", func(in *Input) {
			in.CenterVertical = true
			in.CategoryLabelShown = false
			in.ProgressionPresent = true
		}, 115, 156},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.modify(&in)
			p := Compute(in, boxes)
			if !near(p.Card.Y, tt.cardY) {
				t.Errorf("Card.Y = %v, want %v", p.Card.Y, tt.cardY)
			}
			if !near(p.Progression.Y, tt.progressY) {
				t.Errorf("Progression.Y = %v, want %v", p.Progression.Y, tt.progressY)
			}
		})
	}
}

func TestComputeProgressionLabel(t *testing.T) {
	boxes := scene.Boxes{
		scene.ProgressionContent: {Width: 60, Height: 16},
		scene.ProgressionCard:    {Width: 60, Height: 20},
		scene.ProgressionLabel:   {Width: 20, Height: 8},
	}
	in := baseInput()
	in.ProgressionPresent = true
	in.ProgressionLabelShown = true

	t.Run("stacked", func(t *testing.T) {
		p := Compute(in, boxes)
		if want := (Point{X: 20, Y: 10}); p.ProgressionLabel != want {
			t.Errorf("ProgressionLabel = %v, want %v", p.ProgressionLabel, want)
		}
		if !near(p.Progression.X, 120) {
			t.Errorf("Progression.X = %v, want 120", p.Progression.X)
		}
	})

	t.Run("inline", func(t *testing.T) {
		in := in
		in.Inline = true
		in.InlineMargin = 10
		p := Compute(in, boxes)
		if want := (Point{X: 70, Y: 0}); p.ProgressionLabel != want {
			t.Errorf("ProgressionLabel = %v, want %v", p.ProgressionLabel, want)
		}
		if !near(p.Progression.X, 105) {
			t.Errorf("Progression.X = %v, want 105", p.Progression.X)
		}

		in.Alignment = AlignRight
		p = Compute(in, boxes)
		if !near(p.Progression.X, 300-90-10) {
			t.Errorf("right Progression.X = %v, want %v", p.Progression.X, 300-90-10)
		}
	})

	t.Run("inline unknown alignment", func(t *testing.T) {
		in := in
		in.Inline = true
		in.InlineMargin = 10
		in.Alignment = "top"
		p := Compute(in, boxes)
		if p.ProgressionLabel.X != 0 {
			t.Errorf("ProgressionLabel.X = %v, want 0", p.ProgressionLabel.X)
		}
		if len(p.Diagnostics) == 0 {
			t.Error("expected diagnostics")
		}
	})
}

func TestComputeMissingBoxes(t *testing.T) {
	p := Compute(baseInput(), nil)
	if want := (Point{X: 150, Y: 100}); p.Card != want {
		t.Errorf("Card = %v, want %v", p.Card, want)
	}
}

func TestComputeIdempotent(t *testing.T) {
	in := baseInput()
	in.ProgressionPresent = true
	in.Inline = true
	in.InlineMargin = 10
	boxes := baseBoxes()
	boxes[scene.ProgressionContent] = scene.Box{Width: 60, Height: 16}

	first := Compute(in, boxes)
	for range 3 {
		if got := Compute(in, boxes); !reflect.DeepEqual(got, first) {
			t.Fatalf("Compute() = %+v, want %+v", got, first)
		}
	}
}

func newScene() *scene.Scene {
	return &scene.Scene{
		Width:  300,
		Height: 200,
		Roots: []*scene.Node{{
			Name: scene.Card,
			Children: []*scene.Node{
				textNode(scene.Content, "Hello", 20),
				textNode(scene.CategoryLabel, "Cat", 10),
			},
		}},
	}
}

func TestRun(t *testing.T) {
	s := newScene()
	m := &fakeMeasurer{}
	p, boxes, err := Run(context.Background(), baseInput(), s, m)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if m.calls != 2 {
		t.Errorf("measure calls = %d, want 2", m.calls)
	}

	// Content: 50 wide, from -16 to 4. Label: 15 wide, 10 high.
	if want := (Point{X: 17.5, Y: 12.5}); p.CategoryLabel != want {
		t.Errorf("CategoryLabel = %v, want %v", p.CategoryLabel, want)
	}
	if got := boxes.Get(scene.Card).Height; !near(got, 30.5) {
		t.Errorf("card height = %v, want 30.5", got)
	}
	if want := (Point{X: 125, Y: 100}); p.Card != want {
		t.Errorf("Card = %v, want %v", p.Card, want)
	}

	card := s.Find(scene.Card)
	if card.X != 125 || card.Y != 100 {
		t.Errorf("card translated to (%v, %v), want (125, 100)", card.X, card.Y)
	}
	label := s.Find(scene.CategoryLabel)
	if label.X != 17.5 || label.Y != 12.5 {
		t.Errorf("label translated to (%v, %v), want (17.5, 12.5)", label.X, label.Y)
	}

	again, _, err := Run(context.Background(), baseInput(), s, m)
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if !reflect.DeepEqual(again, p) {
		t.Errorf("second Run() = %+v, want %+v", again, p)
	}
}

func TestRunMeasureError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := Run(context.Background(), baseInput(), newScene(), &fakeMeasurer{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
}
