package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/advancecard/pkg/errors"
	"github.com/matzehuels/advancecard/pkg/settings"
)

// settingsCommand creates the settings command. It shows the property pane
// a host would display for a group, or dumps the effective settings.
func (c *CLI) settingsCommand() *cobra.Command {
	var config, dump string

	cmd := &cobra.Command{
		Use:   "settings [group]",
		Short: "Show the properties of a settings group",
		Long: `Show the properties a host displays for a settings group. Without a group,
every group is listed with its instance count. Use --dump to print the
effective settings (defaults merged with --config) as toml, yaml or json.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: settings.GroupNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(config)
			if err != nil {
				return err
			}
			if dump != "" {
				return settings.Encode(c.Out, s, dump)
			}
			out := c.out()
			if len(args) == 0 {
				out.groups(s)
				return nil
			}
			instances := settings.Enumerate(s, args[0])
			if instances == nil {
				return errors.New(errors.ErrCodeNotFound,
					"unknown settings group %q (must be one of %s)", args[0], strings.Join(settings.GroupNames, ", "))
			}
			out.title(args[0])
			for i, inst := range instances {
				if len(instances) > 1 {
					out.detail("instance %d", i+1)
				}
				out.println(propertyTable(inst.Properties))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "settings file (.toml, .yaml, .json)")
	cmd.Flags().StringVar(&dump, "dump", "", "print the effective settings as toml, yaml or json")

	return cmd
}

func (p printer) groups(s settings.Settings) {
	p.title("Settings groups")
	for _, g := range settings.GroupNames {
		n := len(settings.Enumerate(s, g))
		label := "instance"
		if n != 1 {
			label = "instances"
		}
		p.field(g, styleDim.Render(fmt.Sprintf("%d %s", n, label)))
	}
	p.blank()
	p.next("Show a group", "advancecard settings conditionSettings")
}

func propertyTable(props settings.Properties) string {
	rows := make([][]string, 0, len(props))
	for _, p := range props {
		rows = append(rows, []string{p.Name, formatProperty(p.Value)})
	}
	return styledTable([]string{"Property", "Value"}, rows, nil)
}

func formatProperty(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	case float64:
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprintf("%v", v)
}
