package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDashboardCmd(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the account overview",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/dashboard"); err != nil {
				return err
			}

			ov, err := app.API.DashboardOverview(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snap := app.Sessions.Snapshot()
			fmt.Fprintln(out, heading("Welcome back, "+snap.User.Username))
			fmt.Fprintln(out)

			s := ov.Summary
			printKV(out, "Projects", fmt.Sprintf("%d total, %d processed, %d pending",
				s.TotalProjects, s.ProcessedProjects, s.PendingProjects))
			printKV(out, "Commits", fmt.Sprintf("%d", s.TotalCommits))
			printKV(out, "Success rate", fmt.Sprintf("%.0f%%", s.SuccessRate))

			if len(ov.RecentProjects) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, heading("Recent projects"))
				tw, flush := newTable(out)
				tableHeader(tw, "NAME", "STATUS", "COMMITS", "LAST COMMIT")
				for _, p := range ov.RecentProjects {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n",
						p.Name, statusBadge(p.Status), p.CommitCount, p.LastCommit)
				}
				flush()
			}

			if len(ov.RecentActivity.Notifications) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, heading("Recent activity"))
				for _, n := range ov.RecentActivity.Notifications {
					fmt.Fprintf(out, "  %s %s\n", notificationMark(n.Type), n.Title)
				}
			}
			return nil
		},
	}
	cmd.AddCommand(newDashboardStatsCmd(get))
	return cmd
}

func newDashboardStatsCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show project and commit statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/dashboard"); err != nil {
				return err
			}

			stats, err := app.API.DashboardStats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading("Projects by status"))
			for _, sc := range stats.ProjectStatus {
				fmt.Fprintf(out, "  %s: %d\n", statusBadge(sc.Status), sc.Count.ID)
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, heading("Commits"))
			printKV(out, "AI generated", fmt.Sprintf("%d", stats.CommitStats.AIGenerated))
			printKV(out, "Manual", fmt.Sprintf("%d", stats.CommitStats.Manual))

			if len(stats.PopularRepos) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, heading("Most active repositories"))
				tw, flush := newTable(out)
				tableHeader(tw, "REPOSITORY", "COMMITS")
				for _, r := range stats.PopularRepos {
					fmt.Fprintf(tw, "%s\t%d\n", r.RepoFullName, r.CommitCount)
				}
				flush()
			}
			return nil
		},
	}
}
