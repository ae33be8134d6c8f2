package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-copilot/internal/app"
	"github.com/xavierca1/lead-copilot/internal/config"
	"github.com/xavierca1/lead-copilot/internal/infra/logger"
)

var (
	application *app.App
	verbose     bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "salesctl",
		Short: "Run lead copilot tools from the terminal",
		Long: `salesctl runs the same tools the API exposes against the local CRM
document, printing each result as JSON.

Configuration is read from the environment (and .env when present).`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if application != nil {
				application.Close()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		similarDealsCmd(),
		updateLeadCmd(),
		researchCompanyCmd(),
		researchPersonCmd(),
		historyCmd(),
		summaryCmd(),
		reportCmd(),
		draftCmd(),
		sendCmd(),
		followupsCmd(),
	)
	return root
}

// setup builds the application once. Tests pre-populate application.
func setup(cmd *cobra.Command, _ []string) error {
	if application != nil {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logg, err := logger.New(cfg.Env, level)
	if err != nil {
		return err
	}
	a, err := app.Build(cmd.Context(), cfg, logg.WithOptions(zap.WithCaller(false)), app.Options{})
	if err != nil {
		return err
	}
	application = a
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
