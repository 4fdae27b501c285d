package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/DaviDemarqui/workwise-v1/internal/config"
	"github.com/DaviDemarqui/workwise-v1/internal/logger"
)

const programName = "workwise"

// @title           Workwise Governance API
// @version         1.0
// @description     Membership, proposals and voting for the Workwise DAO.
// @BasePath        /api/v1
func main() {
	var (
		envFile string
		cfg     *config.Config
		log     *slog.Logger
	)

	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Workwise governance service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file
			if err := godotenv.Load(envFile); err != nil && cmd.Flags().Changed("env-file") {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}

			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			level, err := logger.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			log = logger.SetupDefault(os.Stdout, level).With(slog.String("component", programName))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context(), cfg, log)
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the payout dispatcher",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serveRun(cmd.Context(), cfg, log)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrateRun(cfg, log)
			},
		},
		&cobra.Command{
			Use:   "replay",
			Short: "Rebuild governance state from the journal and print a summary",
			RunE: func(cmd *cobra.Command, args []string) error {
				return replayRun(cmd.Context(), cfg, log, cmd.OutOrStdout())
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
