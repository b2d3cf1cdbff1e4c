package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hpcgate/cmd/hpcgate/handlers"
)

// Validators returns the command that lists validator type names.
func Validators() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validators",
		Short: "List validator types usable with --suppress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ListValidators(cmd.OutOrStdout(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
