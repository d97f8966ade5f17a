package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/advancecard/pkg/settings"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for advancecard.

Bash:
  $ source <(advancecard completion bash)

Zsh:
  $ advancecard completion zsh > "${fpath[1]}/_advancecard"

Fish:
  $ advancecard completion fish > ~/.config/fish/completions/advancecard.fish

PowerShell:
  PS> advancecard completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}
}

// registerCompletions adds value completion for the shared flags of every
// subcommand that defines them.
func registerCompletions(root *cobra.Command) {
	fixed := func(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}
	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("surface") != nil {
			_ = cmd.RegisterFlagCompletionFunc("surface", fixed(surfaceNames...))
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", fixed("svg", "png", "pdf", "json"))
		}
		if cmd.Flags().Lookup("dump") != nil {
			_ = cmd.RegisterFlagCompletionFunc("dump", fixed(settings.EncodingTOML, settings.EncodingYAML, settings.EncodingJSON))
		}
		if cmd.Flags().Lookup("config") != nil {
			_ = cmd.MarkFlagFilename("config", "toml", "yaml", "yml", "json")
		}
	}
}
