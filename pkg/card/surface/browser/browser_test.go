package browser

import (
	"context"
	"encoding/base64"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/matzehuels/advancecard/pkg/card/scene"
	"github.com/matzehuels/advancecard/pkg/card/style"
)

func cardScene() *scene.Scene {
	return &scene.Scene{Width: 200, Height: 100, Roots: []*scene.Node{{
		Name: scene.Card,
		Children: []*scene.Node{{
			Name: scene.Content,
			Text: &scene.Text{Spans: []scene.Span{{Class: scene.ClassDataLabel, Text: "42", Style: style.Final{FontSizePx: 20}}}},
		}},
	}}}
}

func TestPageURL(t *testing.T) {
	url := PageURL(cardScene())
	const prefix = "data:text/html;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("PageURL() = %q, want data URL", url[:min(len(url), 40)])
	}
	page, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("decode page: %v", err)
	}
	for _, want := range []string{`<svg xmlns="http://www.w3.org/2000/svg" class="card"`, `<g class="contentGrp">`, ">42</tspan>"} {
		if !strings.Contains(string(page), want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestViewportEdge(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{{0, 1}, {0.4, 1}, {199.6, 200}, {300, 300}}
	for _, tt := range tests {
		if got := viewportEdge(tt.in); got != tt.want {
			t.Errorf("viewportEdge(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestClosedSurface(t *testing.T) {
	s := &Surface{}
	if _, err := s.Measure(context.Background(), cardScene()); !errors.Is(err, ErrClosed) {
		t.Errorf("Measure() error = %v, want ErrClosed", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func findChrome() bool {
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func TestMeasureInBrowser(t *testing.T) {
	if testing.Short() || !findChrome() {
		t.Skip("no headless browser available")
	}
	s, err := New(WithNoSandbox())
	if err != nil {
		t.Skipf("browser did not start: %v", err)
	}
	defer s.Close()

	boxes, err := s.Measure(context.Background(), cardScene())
	if err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	content := boxes.Get(scene.Content)
	if content.Width <= 0 || content.Height <= 0 {
		t.Errorf("content box = %+v, want positive extent", content)
	}
	if boxes.Get(scene.Card).Width != content.Width {
		t.Errorf("card width = %v, want %v", boxes.Get(scene.Card).Width, content.Width)
	}

	png, err := s.Screenshot(context.Background(), cardScene())
	if err != nil {
		t.Fatalf("Screenshot() error: %v", err)
	}
	if !strings.HasPrefix(string(png), "\x89PNG") {
		t.Error("Screenshot() did not return a PNG")
	}
}
