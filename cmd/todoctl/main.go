package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/todovault/todovault/clientcli"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	endpoint    string
	token       string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "todoctl",
	Version: version,
	Short:   "Client for the todo server",
	Long: `todoctl - Client for the todo server

Manage your todos from the command line: list, add, update, and remove
todos, and upload attachments via signed URLs.

Connection settings resolve in order of precedence:
  1. Flags (--endpoint, --token)
  2. Environment variables (TODOVAULT_ENDPOINT, TODOVAULT_TOKEN)
  3. The selected profile (--profile or TODOVAULT_PROFILE)`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.todovault/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: TODOVAULT_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:8080, env: TODOVAULT_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "bearer token (env: TODOVAULT_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(attachCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath resolves the config file path from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Load from the selected profile, if any config file exists
	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}

	fileCfg, err := clientcli.LoadConfigFile(getConfigPath())
	if err != nil {
		// A missing default config file is fine; an explicitly requested
		// config file or profile must resolve.
		if cfgFile != "" || name != "" {
			return nil, err
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else {
		profile, profileErr := fileCfg.GetProfile(name)
		if profileErr != nil {
			if name != "" || !errors.Is(profileErr, clientcli.ErrNoProfiles) {
				return nil, profileErr
			}
		} else {
			configs = append(configs, clientcli.ConfigFromProfile(profile))
		}
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Endpoint: endpoint,
		Token:    token,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}
