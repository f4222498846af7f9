package cli

import (
	"github.com/spf13/cobra"
)

// shells lists the shells cobra can generate completion scripts for.
var shells = []string{"bash", "zsh", "fish", "powershell"}

// formatValues lists the --format values each command accepts, keyed by
// command path.
var formatValues = map[string][]string{
	appName + " render network": {"svg", "png", "pdf", "dot"},
	appName + " render chart":   {"svg", "png", "pdf"},
	appName + " config":         {"toml", "yaml", "json"},
}

// configExts are the file extensions offered for --config.
var configExts = []string{"toml", "yaml", "yml", "json"}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for pipeflow. Besides subcommands and flags,
the script completes --format values per command and offers only config
files for --config.`,
		Example: `  source <(pipeflow completion bash)
  pipeflow completion zsh > "${fpath[1]}/_pipeflow"
  pipeflow completion fish > ~/.config/fish/completions/pipeflow.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			default:
				return root.GenBashCompletionV2(out, true)
			}
		},
	}
}

// registerCompletions attaches value completions to the --config and
// --format flags of root and its subcommands.
func registerCompletions(root *cobra.Command) {
	_ = root.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return configExts, cobra.ShellCompDirectiveFilterFileExt
	})

	var walk func(*cobra.Command)
	walk = func(cmd *cobra.Command) {
		if values, ok := formatValues[cmd.CommandPath()]; ok {
			_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
		}
		for _, sub := range cmd.Commands() {
			walk(sub)
		}
	}
	walk(root)
}
