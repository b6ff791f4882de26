package cmd

import (
	"errors"

	"creatorhub/config"
	"creatorhub/services/push"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Negotiate the push notification channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// withNegotiator runs fn against a checked negotiator for the signed-in user.
func withNegotiator(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := newApp(cmd.Context(), config.AppConfig, false)
	if err != nil {
		return err
	}
	defer a.Close()
	if _, err := a.requireSession(); err != nil {
		return err
	}
	a.negotiator.Check(cmd.Context())
	return fn(a)
}

func printPushStatus(cmd *cobra.Command, n *push.Negotiator) {
	if n.Inert() {
		cmd.Println("Push notifications are not supported on this device.")
		return
	}
	cmd.Printf("Permission: %s\n", n.State())
	if msg := n.LastError(); msg != "" {
		cmd.Printf("Error: %s\n", msg)
	}
}

// reportPushError prints contained push failures; only a missing session is fatal.
func reportPushError(cmd *cobra.Command, n *push.Negotiator, err error) error {
	if errors.Is(err, push.ErrNoSession) || errors.Is(err, push.ErrNotGranted) {
		return err
	}
	printPushStatus(cmd, n)
	return nil
}

var pushStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the push permission state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNegotiator(cmd, func(a *app) error {
			printPushStatus(cmd, a.negotiator)
			if a.negotiator.ShouldPrompt() {
				cmd.Println("Run 'creatorhub push enable' to turn on notifications.")
			}
			return nil
		})
	},
}

var pushEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Ask for permission and subscribe this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNegotiator(cmd, func(a *app) error {
			_, err := a.negotiator.RequestPermission(cmd.Context(), confirmPrompter)
			return reportPushError(cmd, a.negotiator, err)
		})
	},
}

var pushDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Stop asking about push notifications on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNegotiator(cmd, func(a *app) error {
			_, err := a.negotiator.Dismiss(cmd.Context())
			return reportPushError(cmd, a.negotiator, err)
		})
	},
}

var pushSubscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Re-register the push subscription for a granted permission",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withNegotiator(cmd, func(a *app) error {
			_, err := a.negotiator.Subscribe(cmd.Context())
			return reportPushError(cmd, a.negotiator, err)
		})
	},
}

func init() {
	pushCmd.AddCommand(pushStatusCmd, pushEnableCmd, pushDismissCmd, pushSubscribeCmd)
	rootCmd.AddCommand(pushCmd)
}
