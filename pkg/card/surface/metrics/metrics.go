// Package metrics is a rendering surface that measures text with real font
// metrics from the Go font family.
//
// Every CSS font stack is measured with the Go fonts: proportional stacks
// with Go Regular and its bold and italic cuts, monospace stacks with Go
// Mono. Widths are therefore close to, but not identical with, what a
// browser produces for the configured fonts.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/style"
)

// Name identifies the surface in logs, cache keys and CLI flags.
const Name = "metrics"

type variant int

const (
	regular variant = iota
	bold
	italic
	boldItalic
	mono
)

type faceKey struct {
	variant variant
	size    float64
}

// Surface measures scenes with Go font metrics. It is safe for concurrent
// use.
type Surface struct {
	fonts map[variant]*opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// New parses the embedded Go fonts.
func New() (*Surface, error) {
	s := &Surface{
		fonts: make(map[variant]*opentype.Font),
		faces: make(map[faceKey]font.Face),
	}
	for v, ttf := range map[variant][]byte{
		regular:    goregular.TTF,
		bold:       gobold.TTF,
		italic:     goitalic.TTF,
		boldItalic: gobolditalic.TTF,
		mono:       gomono.TTF,
	} {
		f, err := opentype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse go font: %w", err)
		}
		s.fonts[v] = f
	}
	return s, nil
}

// Name implements the surface naming used by the pipeline.
func (s *Surface) Name() string { return Name }

// Measure returns the box of every group in sc.
func (s *Surface) Measure(ctx context.Context, sc *scene.Scene) (scene.Boxes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return scene.MeasureAll(sc, lockedMetrics{s}), nil
}

// Advance returns the advance width of text in pixels.
func (s *Surface) Advance(text string, st style.Final) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lockedMetrics{s}.Advance(text, st)
}

// VerticalMetrics returns the ascent and descent of st's face in pixels.
func (s *Surface) VerticalMetrics(st style.Final) (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lockedMetrics{s}.VerticalMetrics(st)
}

// Close releases cached faces.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, f := range s.faces {
		_ = f.Close()
		delete(s.faces, k)
	}
	return nil
}

// lockedMetrics implements scene.TextMetrics with s.mu held.
type lockedMetrics struct{ s *Surface }

func (m lockedMetrics) Advance(text string, st style.Final) float64 {
	if text == "" {
		return 0
	}
	return toFloat(font.MeasureString(m.s.face(st), text))
}

func (m lockedMetrics) VerticalMetrics(st style.Final) (float64, float64) {
	met := m.s.face(st).Metrics()
	return toFloat(met.Ascent), toFloat(met.Descent)
}

func (s *Surface) face(st style.Final) font.Face {
	key := faceKey{variant: variantOf(st), size: st.FontSizePx}
	if f, ok := s.faces[key]; ok {
		return f
	}
	size := st.FontSizePx
	if size <= 0 {
		size = 1
	}
	f, err := opentype.NewFace(s.fonts[key.variant], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		panic(fmt.Sprintf("metrics: new face: %v", err))
	}
	s.faces[key] = f
	return f
}

func variantOf(st style.Final) variant {
	if isMonospace(st.FontFamily) {
		return mono
	}
	switch {
	case st.Bold() && st.Italic():
		return boldItalic
	case st.Bold():
		return bold
	case st.Italic():
		return italic
	}
	return regular
}

func isMonospace(family string) bool {
	f := strings.ToLower(family)
	return strings.Contains(f, "mono") || strings.Contains(f, "courier") || strings.Contains(f, "consolas")
}

// toFloat converts a 26.6 fixed-point value to pixels.
func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
