package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/advancecard/pkg/card/condition"
	"github.com/matzehuels/advancecard/pkg/data"
	"github.com/matzehuels/advancecard/pkg/errors"
	"github.com/matzehuels/advancecard/pkg/settings"
)

const salesJSON = `{
  "columns": [
    {"displayName": "Sales", "type": "numeric", "roles": {"mainMeasure": true}},
    {"displayName": "Growth", "type": "numeric", "roles": {"progressionMeasure": true}}
  ],
  "rows": [[1234567, -50]]
}`

const redWhenNegativeTOML = `
[progressionSettings]
useCondition = true

[[progressionSettings.rules]]
condition = "<"
value = 0.0
foregroundColor = "red"
`

// writeInputs writes a data file and a settings file into a temp dir and
// points the cache there too.
func writeInputs(t *testing.T) (dir, dataPath, configPath string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	dataPath = filepath.Join(dir, "sales.json")
	configPath = filepath.Join(dir, "card.toml")
	if err := os.WriteFile(dataPath, []byte(salesJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte(redWhenNegativeTOML), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, dataPath, configPath
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	_, err := runCLIOutput(t, args...)
	return err
}

// runCLIOutput runs the command line and returns what it printed as results.
func runCLIOutput(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, log.InfoLevel)
	c.Out = &out
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestNewLogLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		debug   bool
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, false, true},
		{"debug at info level", log.InfoLevel, true, false},
		{"debug at debug level", log.DebugLevel, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := New(&buf, tt.level)
			if tt.debug {
				c.Logger.Debug("measured", "pass", 1)
			} else {
				c.Logger.Info("measured", "pass", 1)
			}
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("log output = %v, want %v", got, tt.wantLog)
			}
			if c.Verbose() != (tt.level == log.DebugLevel) {
				t.Errorf("Verbose() = %v at %s", c.Verbose(), tt.level)
			}
		})
	}

	c := New(io.Discard, log.InfoLevel)
	c.SetLogLevel(LogDebug)
	if !c.Verbose() {
		t.Error("SetLogLevel(LogDebug) should make the CLI verbose")
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.ReportError(errors.New(errors.ErrCodeFileNotFound, "data file %q not found", "sales.csv"))
	if !strings.Contains(buf.String(), `data file "sales.csv" not found`) {
		t.Errorf("ReportError() wrote %q", buf.String())
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirHome(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "svg"},
		{"png", "png"},
		{"svg,pdf,json", "svg|pdf|json"},
	}
	for _, tt := range tests {
		if got := strings.Join(parseFormats(tt.input), "|"); got != tt.want {
			t.Errorf("parseFormats(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"derived from input", "", []string{"svg"}, map[string]string{"svg": "data/sales.svg"}},
		{"explicit single", "out/card.png", []string{"png"}, map[string]string{"png": "out/card.png"}},
		{"several from input", "", []string{"svg", "pdf"}, map[string]string{"svg": "data/sales.svg", "pdf": "data/sales.pdf"}},
		{"several strip extension", "out/card.svg", []string{"svg", "json"}, map[string]string{"svg": "out/card.svg", "json": "out/card.json"}},
		{"several keep unknown extension", "out/card.v2", []string{"svg", "png"}, map[string]string{"svg": "out/card.v2.svg", "png": "out/card.v2.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "data/sales.csv", tt.formats)
			for f, want := range tt.want {
				if got[f] != want {
					t.Errorf("outputPaths()[%s] = %q, want %q", f, got[f], want)
				}
			}
		})
	}
}

func TestNewSurface(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)

	for _, name := range []string{"", "metrics", "estimate"} {
		s, err := c.newSurface(context.Background(), name)
		if err != nil {
			t.Fatalf("newSurface(%q) error: %v", name, err)
		}
		if name != "" && s.Name() != name {
			t.Errorf("newSurface(%q).Name() = %q", name, s.Name())
		}
	}

	_, err := c.newSurface(context.Background(), "canvas")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("newSurface(canvas) error = %v, want invalid input", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir, dataPath, configPath := writeInputs(t)
	out := filepath.Join(dir, "card")

	printed, err := runCLIOutput(t, "render", dataPath, "-c", configPath, "-f", "svg,json", "-o", out, "--surface", "estimate", "--titles")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	for _, want := range []string{"1.23M", out + ".svg", out + ".json", "estimate"} {
		if !strings.Contains(printed, want) {
			t.Errorf("render output should mention %q, got:\n%s", want, printed)
		}
	}

	svg, err := os.ReadFile(out + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"1.23M", "fill: red", "<title>"} {
		if !bytes.Contains(svg, []byte(want)) {
			t.Errorf("svg should contain %q", want)
		}
	}
	if _, err := os.Stat(out + ".json"); err != nil {
		t.Errorf("json artifact missing: %v", err)
	}

	fc, err := openFileCache()
	if err != nil || fc == nil {
		t.Fatalf("openFileCache() = %v, %v", fc, err)
	}
	st, err := fc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries == 0 {
		t.Error("render should populate the cache")
	}
	if err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if st, _ := fc.Stats(); st.Entries != 0 {
		t.Errorf("cache clear left %d entries", st.Entries)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir, dataPath, _ := writeInputs(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad format", []string{"render", dataPath, "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"missing data", []string{"render", filepath.Join(dir, "missing.csv"), "--no-cache"}, errors.ErrCodeFileNotFound},
		{"bad surface", []string{"render", dataPath, "--surface", "canvas", "--no-cache"}, errors.ErrCodeInvalidInput},
		{"bad viewport", []string{"render", dataPath, "--width", "-1", "--surface", "estimate", "--no-cache"}, errors.ErrCodeInvalidViewport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runCLI(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	if err := runCLI(t, "render", dataPath, "-f", "svg,png", "-o", "-"); err == nil {
		t.Error("several formats to stdout should fail")
	}
}

func TestExplainCommand(t *testing.T) {
	_, dataPath, configPath := writeInputs(t)
	printed, err := runCLIOutput(t, "explain", dataPath, "-c", configPath, "--surface", "estimate", "--no-cache")
	if err != nil {
		t.Fatalf("explain error: %v", err)
	}
	for _, want := range []string{"Measures", "Sales", "1.23M", "slot 1: value < 0", "fg red", "Translate"} {
		if !strings.Contains(printed, want) {
			t.Errorf("explain output should contain %q, got:\n%s", want, printed)
		}
	}
}

func TestRenderToStdout(t *testing.T) {
	_, dataPath, _ := writeInputs(t)
	printed, err := runCLIOutput(t, "render", dataPath, "-f", "json", "-o", "-", "--surface", "estimate", "--no-cache")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(printed), "{") {
		t.Errorf("stdout should hold the json artifact, got %q", printed)
	}
}

func TestSettingsCommand(t *testing.T) {
	_, _, configPath := writeInputs(t)

	if err := runCLI(t, "settings"); err != nil {
		t.Errorf("settings error: %v", err)
	}
	if err := runCLI(t, "settings", "progressionSettings", "-c", configPath); err != nil {
		t.Errorf("settings group error: %v", err)
	}
	dumped, err := runCLIOutput(t, "settings", "--dump", "yaml", "-c", configPath)
	if err != nil {
		t.Errorf("settings --dump error: %v", err)
	}
	if !strings.Contains(dumped, "progressionSettings") {
		t.Errorf("yaml dump should contain the progression group, got:\n%s", dumped)
	}
	if err := runCLI(t, "settings", "nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown group error = %v, want not found", err)
	}
}

func TestWithValue(t *testing.T) {
	tbl := data.Table{
		Columns: []data.Column{
			{DisplayName: "Sales", Type: data.TypeNumeric, Roles: data.Roles{Main: true}},
			{DisplayName: "Growth", Type: data.TypeNumeric, Roles: data.Roles{Progression: true}},
		},
		Rows: [][]any{{10.0}},
	}

	got, ok := withValue(tbl, data.RoleProgression, -3)
	if !ok {
		t.Fatal("withValue() should find the progression column")
	}
	if got.Value(0, 0) != 10.0 || got.Value(0, 1) != -3.0 {
		t.Errorf("withValue() row = %v", got.Rows[0])
	}
	if tbl.Value(0, 1) != nil {
		t.Error("withValue() must not modify its input")
	}

	if _, ok := withValue(tbl, data.RoleCondition, 1); ok {
		t.Error("withValue() should report a missing role")
	}
}

func typeKeys(m tea.Model, s string) tea.Model {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func TestExploreModel(t *testing.T) {
	s := settings.Defaults()
	s.Condition.Show = true
	s.Condition.ConditionNumbers = 2
	s.Condition.Rules = condition.Rules{
		{Comparator: condition.GreaterThan, Threshold: condition.Threshold(100), Foreground: "#00aa00"},
		{Comparator: condition.LessThan, Threshold: condition.Threshold(0), Foreground: "red"},
	}
	s.Normalize()
	tbl := data.Table{
		Columns: []data.Column{{DisplayName: "Sales", Type: data.TypeNumeric, Roles: data.Roles{Main: true}}},
		Rows:    [][]any{{50.0}},
	}

	var m tea.Model = newExploreModel(s, tbl)
	if em := m.(ExploreModel); em.Card == nil || em.Card.Matched {
		t.Fatalf("initial card should build without a match, got %+v", em.Card)
	}

	m = typeKeys(m, "-5")
	em := m.(ExploreModel)
	if em.Err != "" {
		t.Fatalf("unexpected error %q", em.Err)
	}
	if !em.Card.Matched || em.Card.Match.Slot != 2 {
		t.Errorf("value -5 should match slot 2, got %+v matched=%v", em.Card.Match, em.Card.Matched)
	}
	if !strings.Contains(em.View(), "Rule Explorer") {
		t.Error("View() should render the title")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	em = m.(ExploreModel)
	if exploreTargets[em.Target] != data.RoleProgression {
		t.Errorf("tab should select the progression role, got %s", exploreTargets[em.Target])
	}
	if !strings.Contains(em.Err, "no column plays") {
		t.Errorf("Err = %q, want missing role message", em.Err)
	}

	m = typeKeys(m, "x")
	if em := m.(ExploreModel); !strings.Contains(em.Err, "not a number") {
		t.Errorf("Err = %q, want parse message", em.Err)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc should quit")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
