package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitify-app/gitify-cli/internal/auth"
	"github.com/gitify-app/gitify-cli/internal/redirect"
)

func newLogoutCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			ctx := cmd.Context()

			app.Bootstrap(ctx, redirect.DefaultPath)

			// Local teardown only: the session record goes, and so do the
			// backend cookies, so no half-signed-out state survives where
			// the UI says "logged out" but API calls still authenticate.
			app.Sessions.Logout(ctx)
			if err := app.Jar.Clear(ctx); err != nil {
				app.Logger.Warn("clearing cookies", "error", err.Error())
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/dashboard"); err != nil {
				return err
			}

			snap := app.Sessions.Snapshot()
			out := cmd.OutOrStdout()
			printKV(out, "Username", snap.User.Username)
			printKV(out, "Email", snap.User.Email)
			if snap.User.Plan != "" {
				printKV(out, "Plan", snap.User.Plan)
			}

			expiry, err := auth.SessionExpiry(app.Jar, app.Config.APIURL)
			switch {
			case errors.Is(err, auth.ErrNoSessionToken):
				fmt.Fprintln(out, warnStyle.Render("No session cookie on file — API calls will fail until you `gitify login`."))
			case err != nil:
				app.Logger.Debug("reading session expiry", "error", err.Error())
			case expiry.Before(time.Now()):
				fmt.Fprintf(out, "%s\n", warnStyle.Render("Session expired "+expiry.Format(time.RFC822)+" — run `gitify login`."))
			default:
				printKV(out, "Session valid until", expiry.Format(time.RFC822))
			}
			return nil
		},
	}
}
