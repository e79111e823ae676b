package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTargetsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "targets",
		Aliases: []string{"profiles"},
		Short:   "Manage publish profiles",
	}
	cmd.AddCommand(newTargetsListCmd(a), newTargetsTypesCmd(a), newTargetsSaveCmd(a), newTargetsDeleteCmd(a), newTargetsHistoryCmd(a))
	return cmd
}

func newTargetsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List publish profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			targets, err := a.api.ListTargets(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tCONFIGURATION")
			for _, t := range targets {
				fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, t.Type, t.Configuration)
			}
			return w.Flush()
		},
	}
}

func newTargetsTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List publish destination types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			types, err := a.api.ListTypes(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDESCRIPTION")
			for _, t := range types {
				fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
			}
			return w.Flush()
		},
	}
}

func newTargetsSaveCmd(a *app) *cobra.Command {
	var (
		current    string
		typeName   string
		config     string
		configFile string
	)
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Create a publish profile, or update one with --current",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				raw, err := os.ReadFile(configFile)
				if err != nil {
					return fmt.Errorf("read configuration: %w", err)
				}
				config = string(raw)
			}
			t, err := a.api.SaveTarget(cmd.Context(), current, args[0], typeName, config)
			if err != nil {
				return describeFieldErrors(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", t.Name, t.Type)
			return nil
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "name of the profile to update or rename")
	cmd.Flags().StringVar(&typeName, "type", "", "publish destination type")
	cmd.Flags().StringVar(&config, "config", "", "configuration as a JSON object")
	cmd.Flags().StringVar(&configFile, "config-file", "", "read the configuration from a file")
	return cmd
}

func newTargetsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a publish profile and its history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.api.DeleteTarget(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newTargetsHistoryCmd(a *app) *cobra.Command {
	var page, size int
	cmd := &cobra.Command{
		Use:   "history NAME",
		Short: "Show a profile's publish history, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := a.api.History(cmd.Context(), args[0], page, size)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tSTATUS\tCOMMENT\tMESSAGE")
			for _, r := range hist.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Status, r.Comment, r.Message)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d total)\n", hist.Index, hist.Count, hist.Total)
			return err
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&size, "page-size", 10, "rows per page")
	return cmd
}

// describeFieldErrors flattens API field errors into one readable error.
func describeFieldErrors(err error) error {
	apiErr, ok := asAPIError(err)
	if !ok || len(apiErr.Payload.FieldErrors) == 0 {
		return err
	}
	lines := make([]string, 0, len(apiErr.Payload.FieldErrors))
	for _, fe := range apiErr.Payload.FieldErrors {
		lines = append(lines, fmt.Sprintf("  %s: %s", fe.Field, fe.Message))
	}
	return fmt.Errorf("%s\n%s", apiErr.Payload.Message, strings.Join(lines, "\n"))
}
