package cli

import (
	"civic-cli/internal/geo"

	"github.com/spf13/cobra"
)

func newLocateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Look up your approximate location by IP",
		RunE: func(cmd *cobra.Command, args []string) error {
			coords, err := geo.NewLocator(app.cfg.GeoURL).Locate(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, coords)
		},
	}
}
