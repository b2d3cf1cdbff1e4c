package commands

import (
	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for hpcgate.

To load completions:

Bash:
  $ source <(hpcgate completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ hpcgate completion bash > /etc/bash_completion.d/hpcgate
  # macOS:
  $ hpcgate completion bash > $(brew --prefix)/etc/bash_completion.d/hpcgate

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ hpcgate completion zsh > "${fpath[1]}/_hpcgate"

Fish:
  $ hpcgate completion fish | source
  # To load completions for each session, execute once:
  $ hpcgate completion fish > ~/.config/fish/completions/hpcgate.fish

PowerShell:
  PS> hpcgate completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
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
