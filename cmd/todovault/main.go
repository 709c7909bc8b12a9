package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/todovault/todovault/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "todovault",
	Short:   "Todo backend with bearer-token auth and signed attachment links",
	Long: `Todovault is a todo record service that provides a REST API over a
pluggable record store, with RS256 bearer-token authorization and
time-limited signed URLs for attachment uploads.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")

		var configFiles []string
		if configFile != "" {
			configFiles = []string{configFile}
		}

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}

		setupLogging(cfg)

		cmd.SetContext(withConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres, dynamodb (default: sqlite, env: TODOVAULT_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: todovault.db, env: TODOVAULT_DATABASE_DSN)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
