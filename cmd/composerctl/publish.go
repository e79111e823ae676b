package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/maxviazov/composer-workspace-service/internal/client"
	"github.com/maxviazov/composer-workspace-service/internal/tui"
)

func asAPIError(err error) (*client.APIError, bool) {
	var apiErr *client.APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

func newPublishCmd(a *app) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "publish TARGET",
		Short: "Publish a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for {
				rec, err := a.api.Publish(cmd.Context(), args[0], comment)
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "published %s: %s (%s)\n", rec.Target, rec.Status, rec.ID)
					return nil
				}

				report, ok := client.Report(err)
				if !ok || !a.isTT() {
					return describeFieldErrors(err)
				}
				a.log.Debug().Err(err).Str("target", args[0]).Msg("publish failed")

				callout := tui.NewErrorCalloutModel(report, a.tr, a.tag)
				if _, runErr := tea.NewProgram(callout, tea.WithContext(cmd.Context())).Run(); runErr != nil {
					return runErr
				}
				if callout.Choice() != tui.CalloutRetry {
					return err
				}
			}
		},
	}
	cmd.Flags().StringVarP(&comment, "comment", "m", "", "publish comment (at most 500 characters)")
	return cmd
}
