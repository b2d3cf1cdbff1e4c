package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hpcgate/cmd/hpcgate/handlers"
)

// Validate returns the command that validates a cluster document.
//
// Flags:
//
//	--config, -c: Cluster document path, "-" for stdin, or s3://bucket/key
//	--suppress: Validator type to suppress, or ALL (repeatable)
//	--fail-level: Minimum severity that blocks (error, warning, info)
//	--output, -o: Report format (text, json, yaml)
//	--architecture-policy: Whose architecture governs compute checks
//	--region: AWS region for metadata lookups
//	--timeout: Deadline for the whole run
//	--no-prefetch: Look metadata up lazily instead of warming the cache
//	--metrics-file: Write cache metrics in Prometheus text format
func Validate() *cobra.Command {
	var opts handlers.ValidateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a cluster document",
		Long: `Validate a cluster document against the validator catalog.

The document is default-filled, checked against cloud metadata and every
finding is reported. The command exits with 0 when the cluster may be
provisioned, 2 when findings block it, and 1 when validation could not run.

Examples:
  # Validate the default cluster file
  hpcgate validate

  # Validate from S3 and fail on warnings too
  hpcgate validate -c s3://configs/cluster.yaml --fail-level warning

  # Ignore EFA placement group advice and print JSON
  hpcgate validate -c cluster.yaml --suppress EfaPlacementGroupValidator -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Source, "config", "c", "", "Cluster document: path, - for stdin, or s3://bucket/key (default: cluster-config.yaml)")
	cmd.Flags().StringSliceVar(&opts.Suppress, "suppress", nil, "Validator type to suppress, or ALL")
	cmd.Flags().StringVar(&opts.FailLevel, "fail-level", "error", "Minimum severity that blocks provisioning (error, warning, info)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Report format (text, json, yaml)")
	cmd.Flags().StringVar(&opts.ArchitecturePolicy, "architecture-policy", "head-node", "Architecture governing compute checks (head-node, compute-resource)")
	cmd.Flags().StringVar(&opts.Region, "region", "", "AWS region (default: document Region, HPCGATE_REGION or AWS_REGION)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Deadline for the run (default: HPCGATE_RUN_TIMEOUT or 2m)")
	cmd.Flags().BoolVar(&opts.NoPrefetch, "no-prefetch", false, "Look up metadata lazily")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write metadata cache metrics to this file")

	_ = cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions([]string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("fail-level", cobra.FixedCompletions([]string{"error", "warning", "info"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("architecture-policy", cobra.FixedCompletions([]string{"head-node", "compute-resource"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}
