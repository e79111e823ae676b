package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maxviazov/composer-workspace-service/internal/i18n"
)

func newProjectsCmd(a *app) *cobra.Command {
	var (
		limit    int
		describe bool
	)
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List recently opened bot projects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := a.api.RecentProjects(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if describe {
				for _, p := range projects {
					fmt.Fprintf(out, "%s. %s.\n",
						a.tr.Format(a.tag, "Bot name is {botName}", i18n.Args{"botName": p.Name}),
						a.tr.Format(a.tag, "Last modified time is {time}", i18n.Args{"time": p.DateModifiedLabel}))
				}
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDATE MODIFIED\tPATH")
			for _, p := range projects {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.DateModifiedLabel, p.Path)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of projects")
	cmd.Flags().BoolVar(&describe, "describe", false, "print one sentence per project")
	return cmd
}
