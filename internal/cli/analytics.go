package cli

import (
	"github.com/spf13/cobra"
)

func newAnalyticsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "City-wide report analytics (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			if _, err := requireProfile(c); err != nil {
				return writeErr(cmd, err)
			}
			a, err := c.Analytics(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, a)
		},
	}
}
