// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/imamik/hpcgate/internal/logging"
)

// Root returns the root command for the hpcgate CLI.
//
// The root command builds the logger from the persistent logging flags and
// passes it to subcommands through the command context.
func Root() *cobra.Command {
	logCfg := logging.DefaultConfig()
	var syncLog func()

	cmd := &cobra.Command{
		Use:           "hpcgate",
		Short:         "Validate HPC cluster specifications before provisioning",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, sync, err := logging.New(logCfg)
			if err != nil {
				return err
			}
			syncLog = sync
			cmd.SetContext(logr.NewContext(cmd.Context(), log))
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if syncLog != nil {
				syncLog()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&logCfg.Level, "log-level", logCfg.Level, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logCfg.Format, "log-format", logCfg.Format, "Log format (console, json)")

	cmd.AddCommand(Validate())
	cmd.AddCommand(Defaults())
	cmd.AddCommand(Validators())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
