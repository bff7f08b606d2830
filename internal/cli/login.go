package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitify-app/gitify-cli/internal/redirect"
)

func newLoginCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in with GitHub",
		Long: `Sign in to Gitify through GitHub OAuth.

A browser window opens on the GitHub consent page; once you approve, the
backend redirects back to a local listener and the session is stored on
this machine. Subsequent commands reuse it without any network calls.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			ctx := cmd.Context()

			// Bootstrap first: an already valid session makes the whole
			// browser dance unnecessary.
			app.Bootstrap(ctx, redirect.DefaultPath)
			if snap := app.Sessions.Snapshot(); snap.IsAuthenticated {
				fmt.Fprintf(cmd.OutOrStdout(), "Already signed in as %s. Run `gitify logout` first to switch accounts.\n",
					snap.User.Username)
				return nil
			}

			res, err := app.Flow.Login(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Signed in as %s\n", okStyle.Render("✓"), res.User.Username)
			if res.NavigateTo != "" && res.NavigateTo != redirect.DefaultPath {
				// The pending target survived the OAuth round trip; point
				// the user back at what they were doing.
				fmt.Fprintf(out, "You were headed to %s — try that command again.\n", res.NavigateTo)
			}
			return nil
		},
	}
}
