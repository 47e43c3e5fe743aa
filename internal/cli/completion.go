package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/BenJenkinson/react-spaces/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for spaces.

To load completions:

Bash:
  $ source <(spaces completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ spaces completion bash > /etc/bash_completion.d/spaces
  # macOS:
  $ spaces completion bash > $(brew --prefix)/etc/bash_completion.d/spaces

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ spaces completion zsh > "${fpath[1]}/_spaces"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ spaces completion fish | source

  # To load completions for each session, execute once:
  $ spaces completion fish > ~/.config/fish/completions/spaces.fish

PowerShell:
  PS> spaces completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> spaces completion powershell > spaces.ps1
  # and source this file from your PowerShell profile.
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

	return cmd
}

// completeLayoutFile completes the layout argument with .toml and .json
// files.
func completeLayoutFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"toml", "json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes a comma-separated --format value.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	out := make([]string, 0, len(pipeline.ValidFormats))
	for _, f := range []string{pipeline.FormatSVG, pipeline.FormatCSS, pipeline.FormatJSON, pipeline.FormatDOT, pipeline.FormatPNG, pipeline.FormatPDF} {
		out = append(out, prefix+f)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
