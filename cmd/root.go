package cmd

import (
	"os"

	"creatorhub/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	backendURL  string
	memoryStore bool
)

var rootCmd = &cobra.Command{
	Use:   "creatorhub",
	Short: "Creator dashboard session and notification client",
	Long: `creatorhub signs a device into the creator dashboard, keeps its session,
negotiates the push notification channel and manages in-app notifications.

Run 'creatorhub serve' for the local dashboard router, or use the
subcommands to drive the session from a terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadConfig(cfgFile)
		if backendURL != "" {
			config.AppConfig.BackendURL = backendURL
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "dashboard API base URL (overrides BACKEND_URL)")
	rootCmd.PersistentFlags().BoolVar(&memoryStore, "memory", false, "keep device state in memory instead of Redis")
}
