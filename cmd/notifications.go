package cmd

import (
	"fmt"
	"text/tabwriter"

	"creatorhub/config"
	"creatorhub/models"

	"github.com/spf13/cobra"
)

var (
	addTitle   string
	addMessage string
	addType    string
	addLink    string
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Manage in-app notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch and list notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.AppConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()
		if _, err := a.requireSession(); err != nil {
			return err
		}

		a.store.FetchAll(cmd.Context())
		list := a.store.List()
		if len(list) == 0 {
			cmd.Println("No notifications.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tREAD\tWHEN\tTITLE")
		for _, n := range list {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", n.ID, n.Type, n.Read, n.Timestamp.Local().Format("2006-01-02 15:04"), n.Title)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		cmd.Printf("%d unread\n", a.store.UnreadCount())
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.AppConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()
		if _, err := a.requireSession(); err != nil {
			return err
		}

		a.store.FetchAll(cmd.Context())
		a.store.MarkAsRead(args[0])
		cmd.Printf("Marked %s as read.\n", args[0])
		return nil
	},
}

var notificationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every notification",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.AppConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()
		if _, err := a.requireSession(); err != nil {
			return err
		}

		a.store.ClearAll()
		cmd.Println("Notifications cleared.")
		return nil
	},
}

var notificationsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a notification for the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addTitle == "" {
			return fmt.Errorf("--title is required")
		}
		a, err := newApp(cmd.Context(), config.AppConfig, false)
		if err != nil {
			return err
		}
		defer a.Close()
		if _, err := a.requireSession(); err != nil {
			return err
		}

		n, _ := a.store.Add(models.Notification{
			Type:    models.NotificationType(addType),
			Title:   addTitle,
			Message: addMessage,
			Link:    addLink,
		})
		cmd.Printf("Added notification %s.\n", n.ID)
		return nil
	},
}

func init() {
	notificationsAddCmd.Flags().StringVar(&addTitle, "title", "", "notification title")
	notificationsAddCmd.Flags().StringVar(&addMessage, "message", "", "notification message")
	notificationsAddCmd.Flags().StringVar(&addType, "type", string(models.NotificationInfo), "info, success, warning or error")
	notificationsAddCmd.Flags().StringVar(&addLink, "link", "", "optional link")

	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd, notificationsClearCmd, notificationsAddCmd)
	rootCmd.AddCommand(notificationsCmd)
}
