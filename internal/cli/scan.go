package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user/urlsafety-service/internal/app"
	"github.com/user/urlsafety-service/internal/entity"
)

func newScanCmd() *cobra.Command {
	var flaggedOnly bool
	cmd := &cobra.Command{
		Use:   "scan <url>",
		Short: "Render a page and check every link on it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				report, err := a.Scanner.ScanPage(ctx, args[0])
				if err != nil {
					return fmt.Errorf("scan %s: %w", args[0], err)
				}
				return printReport(cmd, report, flaggedOnly)
			})
		},
	}
	cmd.Flags().BoolVar(&flaggedOnly, "flagged", false, "Only list links flagged as malicious")
	return cmd
}

func printReport(cmd *cobra.Command, report *entity.ScanReport, flaggedOnly bool) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "page:\t%s\n", report.PageURL)
	fmt.Fprintf(w, "links:\t%d\n", len(report.Links))
	fmt.Fprintf(w, "flagged:\t%d\n\n", report.FlaggedCount)
	for _, l := range report.Links {
		if flaggedOnly && l.Safe {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", entity.Verdict(l.Safe).Label(), l.URL)
	}
	return w.Flush()
}
