package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/urlsafety-service/internal/app"
)

func newCheckCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check <url>",
		Short: "Look up one URL through the cache and the threat API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				verdict := a.Broker.CheckURL(ctx, args[0])
				if asJSON {
					return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
						"url":  args[0],
						"safe": bool(verdict),
					})
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", verdict.Label(), args[0])
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the verdict as JSON")
	return cmd
}
