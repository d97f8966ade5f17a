package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/advancecard/pkg/card"
	"github.com/matzehuels/advancecard/pkg/card/condition"
	"github.com/matzehuels/advancecard/pkg/data"
	"github.com/matzehuels/advancecard/pkg/pipeline"
	"github.com/matzehuels/advancecard/pkg/settings"
)

var exploreSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)

// exploreTargets is the tab order of the measure roles the typed value
// replaces.
var exploreTargets = []data.Role{data.RoleMain, data.RoleProgression, data.RoleCondition}

// exploreCommand creates the explore command, an interactive rule explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "explore [data-file]",
		Short: "Interactively try values against the card's rules",
		Long: `Type a value and watch the card rebuild: the formatted value, the labels and
the rule slot that fires. Tab switches the measure the value replaces. Without
a data file the card has a single numeric main measure.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(config)
			if err != nil {
				return err
			}
			t := data.Table{
				Columns: []data.Column{{DisplayName: "Value", Type: data.TypeNumeric, Roles: data.Roles{Main: true}}},
				Rows:    [][]any{{0.0}},
			}
			if len(args) == 1 {
				if t, err = data.Load(args[0]); err != nil {
					return err
				}
			}
			p := tea.NewProgram(newExploreModel(s, t), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "settings file (.toml, .yaml, .json)")

	return cmd
}

// ExploreModel is the bubbletea model of the rule explorer.
type ExploreModel struct {
	Settings settings.Settings
	Table    data.Table
	Target   int
	Card     *card.Card
	Err      string

	input textinput.Model
}

func newExploreModel(s settings.Settings, t data.Table) ExploreModel {
	ti := textinput.New()
	ti.Placeholder = "enter a value"
	ti.Prompt = "value › "
	ti.CharLimit = 32
	ti.Focus()

	m := ExploreModel{Settings: s, Table: t, input: ti}
	m.rebuild()
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.Target = (m.Target + 1) % len(exploreTargets)
			m.rebuild()
			return m, nil
		case "shift+tab":
			m.Target = (m.Target + len(exploreTargets) - 1) % len(exploreTargets)
			m.rebuild()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.rebuild()
	return m, cmd
}

// rebuild substitutes the typed value into the target role and builds the
// card again. An empty input keeps the table's own value.
func (m *ExploreModel) rebuild() {
	m.Err = ""
	t := m.Table
	if raw := strings.TrimSpace(m.input.Value()); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.Err = fmt.Sprintf("not a number: %q", raw)
			return
		}
		var ok bool
		if t, ok = withValue(m.Table, exploreTargets[m.Target], v); !ok {
			m.Err = fmt.Sprintf("no column plays %s", exploreTargets[m.Target])
			return
		}
	}
	m.Card = card.Build(m.Settings, t, pipeline.DefaultWidth, pipeline.DefaultHeight, nil)
}

// withValue returns a copy of t whose row 0 holds v in every column playing
// role. It reports false when no column plays role.
func withValue(t data.Table, role data.Role, v float64) (data.Table, bool) {
	out := data.Table{Columns: t.Columns}
	var row []any
	if len(t.Rows) > 0 {
		row = append(row, t.Rows[0]...)
	}
	found := false
	for i, col := range t.Columns {
		if !col.Roles.Has(role) {
			continue
		}
		for len(row) <= i {
			row = append(row, nil)
		}
		row[i] = v
		found = true
	}
	out.Rows = [][]any{row}
	return out, found
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Rule Explorer"))
	b.WriteString("\n")
	b.WriteString(styleDim.Render("type a value  tab: switch measure  esc: quit"))
	b.WriteString("\n\n")

	for i, role := range exploreTargets {
		if i > 0 {
			b.WriteString(styleDim.Render(" · "))
		}
		if i == m.Target {
			b.WriteString(exploreSelectedStyle.Render(string(role)))
		} else {
			b.WriteString(styleDim.Render(string(role)))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.Err != "" {
		b.WriteString(styleWarning.Render(m.Err))
		b.WriteString("\n")
		return b.String()
	}
	if m.Card == nil {
		return b.String()
	}

	c := m.Card
	b.WriteString(exploreLine("value", c.Value))
	b.WriteString(exploreLine("category", c.CategoryLabel))
	if c.Measures.Progression.Present {
		b.WriteString(exploreLine("progression", c.ProgressionValue))
		b.WriteString(exploreLine("prog. label", c.ProgressionLabel))
	}
	b.WriteString("\n")

	if m.Settings.Condition.Show {
		b.WriteString(styleHighlight.Render("conditionSettings"))
		b.WriteString("\n")
		b.WriteString(ruleTable(m.Settings.Condition.Rules, m.Settings.Condition.Count(), c.Match, c.Matched))
		b.WriteString("\n")
	}
	if m.Settings.Progression.UseCondition && c.Measures.Progression.Present {
		b.WriteString(styleHighlight.Render("progressionSettings"))
		b.WriteString("\n")
		b.WriteString(ruleTable(m.Settings.Progression.Rules, m.Settings.Progression.Count(), c.ProgressionMatch, c.ProgressionMatched))
		b.WriteString("\n")
	}
	return b.String()
}

func exploreLine(key, value string) string {
	k := styleLabel.Width(labelWidth).Render(key)
	return k + " " + styleValue.Render(strconv.Quote(value)) + "\n"
}

// ruleTable lists the first n slots of rules, highlighting the one that
// fired.
func ruleTable(rules condition.Rules, n int, match condition.Match, matched bool) string {
	padded := rules.Padded()
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		r := padded[i]
		threshold := "-"
		if r.Threshold != nil {
			threshold = strconv.FormatFloat(*r.Threshold, 'g', -1, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			string(r.Comparator),
			threshold,
			colorCell(r.Foreground),
			colorCell(r.Background),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Slot", "If", "Value", "Foreground", "Background").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case matched && row+1 == match.Slot:
				return base.Foreground(colorGreen).Bold(true)
			case padded[row].Inert():
				return base.Foreground(colorDim)
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

// colorCell shows a color name with a swatch when it is a hex color.
func colorCell(c string) string {
	if c == "" {
		return "-"
	}
	if strings.HasPrefix(c, "#") && settings.ValidColor(c) {
		return lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  ") + " " + c
	}
	return c
}
