package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "podctl",
		Short: "CLI tool for the podtracker API",
		Long: `podctl is a CLI tool for interacting with the podtracker JSON API.

It covers accounts, decks, pods and game records. Logging in stores the
bearer token in a token file so later commands are authenticated.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.LoadToken(); err != nil {
				return err
			}
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PODCTL_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Bearer token (env: PODCTL_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Token file path (env: PODCTL_TOKEN_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	rootCmd.AddCommand(newUserCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newDeckCmd())
	rootCmd.AddCommand(newPodCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// output returns a formatter writing to the command's stdout
func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}

// changedString sets body[key] when the flag was given on the command line
func changedString(cmd *cobra.Command, body map[string]any, flag, key string, value string) {
	if cmd.Flags().Changed(flag) {
		body[key] = value
	}
}

// changedStrings sets body[key] when the list flag was given on the command line
func changedStrings(cmd *cobra.Command, body map[string]any, flag, key string, values []string) {
	if cmd.Flags().Changed(flag) {
		if values == nil {
			values = []string{}
		}
		body[key] = values
	}
}
