// Package commands implements the revisor CLI subcommands.
package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/revisor-tools/revisor/pkg/config"
	"github.com/revisor-tools/revisor/pkg/observability"
)

// addConfigFlag registers the shared --config flag on a command.
func addConfigFlag(cobraCmd *cobra.Command) {
	cobraCmd.Flags().StringP("config", "c", "", "Path to config file (default: ./revisor.yaml)")
}

// loadRuntime loads the configuration selected on the command line and
// builds the logger from it.
func loadRuntime(cobraCmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	configPath, err := cobraCmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	return cfg, observability.NewLogger(cfg.Logging), nil
}
