package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wordtiles.

To load completions:

Bash:
  $ source <(wordtiles completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wordtiles completion bash > /etc/bash_completion.d/wordtiles
  # macOS:
  $ wordtiles completion bash > $(brew --prefix)/etc/bash_completion.d/wordtiles

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ wordtiles completion zsh > "${fpath[1]}/_wordtiles"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ wordtiles completion fish | source

  # To load completions for each session, execute once:
  $ wordtiles completion fish > ~/.config/fish/completions/wordtiles.fish

PowerShell:
  PS> wordtiles completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> wordtiles completion powershell > wordtiles.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}
