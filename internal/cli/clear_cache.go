package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/urlsafety-service/internal/app"
)

func newClearCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove every stored verdict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.CacheAdmin.Clear(ctx)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
				return err
			})
		},
	}
}
