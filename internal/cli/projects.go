package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitify-app/gitify-cli/internal/apperror"
	"github.com/gitify-app/gitify-cli/internal/model"
)

// dateLayout is what --start/--end accept on the command line.
const dateLayout = "2006-01-02"

func newProjectsCmd(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage your Gitify projects",
	}
	cmd.AddCommand(
		newProjectsListCmd(get),
		newProjectsShowCmd(get),
		newProjectsCreateCmd(get),
		newProjectsUploadCmd(get),
		newProjectsRetryCmd(get),
		newProjectsDeleteCmd(get),
		newProjectsCommitsCmd(get),
	)
	return cmd
}

func newProjectsListCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/projects"); err != nil {
				return err
			}

			projects, err := app.API.ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects yet. Create one with `gitify projects create`.")
				return nil
			}

			tw, flush := newTable(out)
			defer flush()
			tableHeader(tw, "ID", "NAME", "STATUS", "COMMITS", "CREATED")
			for _, p := range projects {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					p.ID, p.Name, statusBadge(p.Status), p.CommitCount,
					p.CreatedAt.Format(dateLayout))
			}
			return nil
		},
	}
}

func newProjectsShowCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/projects/"+args[0]); err != nil {
				return err
			}

			p, err := app.API.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading(p.Name))
			printKV(out, "ID", p.ID)
			printKV(out, "Status", statusBadge(p.Status))
			if p.Description != "" {
				printKV(out, "Description", p.Description)
			}
			if p.RepoURL != "" {
				printKV(out, "Repository", p.RepoURL)
			}
			printKV(out, "Commits", fmt.Sprintf("%d", p.CommitCount))
			printKV(out, "Created", p.CreatedAt.Format(time.RFC822))
			return nil
		},
	}
}

func newProjectsCreateCmd(get func() *App) *cobra.Command {
	var (
		name        string
		description string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project (step 1 of 2 — upload the code next)",
		Long: `Create an empty project record.

This is the first half of the two-step wizard: the project exists after
this command, and ` + "`gitify projects upload`" + ` attaches the zipped
codebase and the commit schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/create-project"); err != nil {
				return err
			}

			p, err := app.API.CreateProject(cmd.Context(), model.CreateProjectRequest{
				Name:        name,
				Description: description,
			})
			if err != nil {
				var appErr *apperror.AppError
				if errors.As(err, &appErr) && appErr.Code == "PLAN_LIMIT_EXCEEDED" {
					return fmt.Errorf("%w\nUpgrade with `gitify payment plans` to create more projects", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created project %s (%s)\n", okStyle.Render("✓"), p.Name, p.ID)
			fmt.Fprintf(out, "Next: gitify projects upload %s --file code.zip --start 2026-01-01 --end 2026-03-01 --commits 20\n", p.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&description, "description", "", "optional description")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectsUploadCmd(get func() *App) *cobra.Command {
	var (
		file    string
		start   string
		end     string
		commits int
	)
	cmd := &cobra.Command{
		Use:   "upload <project-id>",
		Short: "Upload the zipped codebase (step 2 of 2)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/create-project"); err != nil {
				return err
			}

			startDate, err := time.Parse(dateLayout, start)
			if err != nil {
				return fmt.Errorf("invalid --start date %q (want YYYY-MM-DD)", start)
			}
			endDate, err := time.Parse(dateLayout, end)
			if err != nil {
				return fmt.Errorf("invalid --end date %q (want YYYY-MM-DD)", end)
			}
			if !endDate.After(startDate) {
				return fmt.Errorf("--end must be after --start")
			}
			if commits < 1 {
				return fmt.Errorf("--commits must be at least 1")
			}

			err = app.API.UploadProjectFile(cmd.Context(), args[0], file, model.UploadOptions{
				StartDate:          startDate,
				EndDate:            endDate,
				DesiredCommitCount: commits,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"%s Upload accepted — processing has started. Watch it with `gitify projects show %s`.\n",
				okStyle.Render("✓"), args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the zipped codebase (required)")
	cmd.Flags().StringVar(&start, "start", "", "first commit date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "last commit date, YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&commits, "commits", 10, "how many commits to generate")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("start")
	cmd.MarkFlagRequired("end")
	return cmd
}

func newProjectsRetryCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "retry <project-id>",
		Short: "Retry a failed project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/projects/"+args[0]); err != nil {
				return err
			}
			if err := app.API.RetryProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Retry queued.")
			return nil
		},
	}
}

func newProjectsDeleteCmd(get func() *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/projects/"+args[0]); err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("refusing to delete without --yes")
			}
			if err := app.API.DeleteProject(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newProjectsCommitsCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "commits <project-id>",
		Short: "List the generated commits of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/projects/"+args[0]); err != nil {
				return err
			}

			commits, err := app.API.ListCommits(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(commits) == 0 {
				fmt.Fprintln(out, "No commits yet.")
				return nil
			}

			tw, flush := newTable(out)
			defer flush()
			tableHeader(tw, "SHA", "DATE", "MESSAGE")
			for _, c := range commits {
				sha := c.SHA
				if len(sha) > 8 {
					sha = sha[:8]
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n",
					sha, c.CommittedAt.Format(dateLayout), c.Message)
			}
			return nil
		},
	}
}
