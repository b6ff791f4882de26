package cmd

import (
	"fmt"

	"creatorhub/config"
	"creatorhub/middleware"
	"creatorhub/models"
	"creatorhub/services/guard"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	federatedCode string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in to the creator dashboard. The session token is kept in the
device store so later commands and 'creatorhub serve' reuse it.

Missing flags are prompted for interactively.

Examples:
  creatorhub login --email user@example.com
  creatorhub login federated --code <code>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if loginEmail == "" {
			if loginEmail, err = promptForString("Email", false); err != nil {
				return err
			}
		}
		if loginPassword == "" {
			if loginPassword, err = promptForString("Password", true); err != nil {
				return err
			}
		}

		a, err := newApp(cmd.Context(), config.AppConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.sessions.Login(cmd.Context(), models.Credentials{Email: loginEmail, Password: loginPassword})
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		printSession(cmd, s)
		return nil
	},
}

var loginFederatedCmd = &cobra.Command{
	Use:   "federated",
	Short: "Complete a federated sign-in with an authorization code",
	RunE: func(cmd *cobra.Command, args []string) error {
		if federatedCode == "" {
			return fmt.Errorf("--code is required")
		}
		a, err := newApp(cmd.Context(), config.AppConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.sessions.LoginWithFederatedCode(cmd.Context(), federatedCode)
		if err != nil {
			return fmt.Errorf("federated login failed: %w", err)
		}
		printSession(cmd, s)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.AppConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.sessions.Current() == nil {
			cmd.Println("Not signed in.")
			return nil
		}
		a.sessions.Logout(cmd.Context())
		cmd.Println("Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.AppConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()

		s := a.sessions.Current()
		if s == nil {
			cmd.Println("Not signed in.")
			return nil
		}
		printSession(cmd, s)
		return nil
	},
}

func printSession(cmd *cobra.Command, s *models.Session) {
	cmd.Printf("Signed in as %s <%s>\n", s.DisplayName, s.Email)
	cmd.Printf("  user:    %s\n", s.UserID)
	cmd.Printf("  role:    %s\n", s.Role)
	cmd.Printf("  landing: %s\n", middleware.ViewPath(guard.Landing(s.Role)))
	if !s.ExpiresAt.IsZero() {
		cmd.Printf("  expires: %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginFederatedCmd.Flags().StringVar(&federatedCode, "code", "", "authorization code from the identity provider")

	loginCmd.AddCommand(loginFederatedCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
