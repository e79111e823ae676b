package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/maxviazov/composer-workspace-service/internal/model"
	"github.com/maxviazov/composer-workspace-service/internal/pagination"
	"github.com/maxviazov/composer-workspace-service/internal/tui"
)

func newNotificationsCmd(a *app) *cobra.Command {
	var (
		severity string
		plain    bool
		page     int
		clearAll bool
	)
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"n"},
		Short:   "Page through workspace notifications",
		Long: `Fetches every notification once and pages through them ten at a time.
In a terminal the list is interactive: left/right (or h/l) change page, q quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if clearAll {
				n, err := a.api.ClearNotifications(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d notifications\n", n)
				return nil
			}

			load := func(ctx context.Context) ([]model.Notification, error) {
				ctx, cancel := context.WithTimeout(ctx, a.timeout)
				defer cancel()
				return a.api.AllNotifications(ctx, severity)
			}

			if plain || !a.isTT() {
				items, err := load(ctx)
				if err != nil {
					return err
				}
				return printNotifications(cmd, pagination.Of(items, page, tui.NotificationPageSize))
			}

			m := tui.NewNotificationsModel(ctx, load, a.tr, a.tag)
			if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
				return err
			}
			return m.Err()
		},
	}
	cmd.Flags().StringVar(&severity, "severity", "", "only show error, warning or information")
	cmd.Flags().BoolVar(&plain, "plain", false, "print one page instead of the interactive view")
	cmd.Flags().IntVar(&page, "page", 1, "page to print with --plain")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all notifications")
	return cmd
}

func printNotifications(cmd *cobra.Command, page pagination.Page[model.Notification]) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tLOCATION\tMESSAGE")
	for _, n := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\n", n.Severity, n.Location, n.Message)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d total)\n", page.Index, page.Count, page.Total)
	return err
}
