package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newProfileCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Fetch the full profile from the backend",
		Long: `Fetch the authoritative profile record from the backend.

Unlike ` + "`gitify whoami`" + `, which answers from local storage without
touching the network, this asks the server and refreshes the stored
session with what it says.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			ctx := cmd.Context()
			if err := app.RequireAuth(ctx, "/dashboard"); err != nil {
				return err
			}

			user, err := app.API.Profile(ctx)
			if err != nil {
				return err
			}

			// The server's answer is fresher than whatever the OAuth
			// payload carried; fold it back into the stored session.
			app.Sessions.SetUser(ctx, user)

			out := cmd.OutOrStdout()
			printKV(out, "Username", user.Username)
			printKV(out, "Email", user.Email)
			printKV(out, "GitHub ID", user.GitHubID)
			printKV(out, "Plan", user.Plan)
			if user.SubscriptionStatus != "" {
				printKV(out, "Subscription", user.SubscriptionStatus)
			}
			printKV(out, "Member since", user.CreatedAt.Format("January 2006"))
			return nil
		},
	}
}

func newNotificationsCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "notifications",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/dashboard"); err != nil {
				return err
			}

			notifications, err := app.API.Notifications(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(notifications) == 0 {
				fmt.Fprintln(out, "No notifications.")
				return nil
			}

			for _, n := range notifications {
				mark := notificationMark(n.Type)
				if !n.Read {
					mark = headingStyle.Render("●") + " " + mark
				}
				fmt.Fprintf(out, "%s %s — %s (%s)\n",
					mark, n.Title, n.Message, n.CreatedAt.Format(time.RFC822))
			}
			return nil
		},
	}
}

// notificationMark maps a notification type to a coloured glyph.
func notificationMark(typ string) string {
	switch typ {
	case "success":
		return okStyle.Render("✓")
	case "warning":
		return warnStyle.Render("!")
	case "error":
		return errStyle.Render("✗")
	default:
		return dimStyle.Render("i")
	}
}
