package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/urlsafety-service/internal/app"
	"github.com/user/urlsafety-service/internal/entity"
	"github.com/user/urlsafety-service/internal/usecase"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <url>",
		Short: "List recent threat API lookups recorded for a URL (needs POSTGRES_URL)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				events, err := a.History.Recent(ctx, args[0], limit)
				if err != nil {
					return err
				}
				return printHistory(cmd, events)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", usecase.DefaultHistoryLimit, "Maximum number of lookups to list")
	return cmd
}

func printHistory(cmd *cobra.Command, events []*entity.LookupEvent) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "no lookups recorded")
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CHECKED AT\tVERDICT\tTHREATS\tDURATION\tERROR")
	for _, ev := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dms\t%s\n",
			ev.CheckedAt.Format(time.RFC3339),
			entity.Verdict(ev.Safe).Label(),
			strings.Join(ev.ThreatTypes, ","),
			ev.DurationMS,
			ev.Error,
		)
	}
	return w.Flush()
}
