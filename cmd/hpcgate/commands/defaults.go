package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hpcgate/cmd/hpcgate/handlers"
)

// Defaults returns the command that prints the resolved cluster document.
func Defaults() *cobra.Command {
	var source string
	var includeImplied bool

	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the cluster document after default filling",
		Long: `Print the cluster document as the resource model resolved it.

Values taken from the document are always printed. Use --include-implied to
also print every value filled in from a default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Defaults(cmd.Context(), cmd.OutOrStdout(), source, includeImplied)
		},
	}

	cmd.Flags().StringVarP(&source, "config", "c", "", "Cluster document: path, - for stdin, or s3://bucket/key")
	cmd.Flags().BoolVar(&includeImplied, "include-implied", false, "Include values filled in from defaults")

	return cmd
}
