package cli

import (
	"fmt"
	"os"
	"strings"

	"civic-cli/internal/api"
	"civic-cli/internal/cache"
	"civic-cli/internal/config"
	"civic-cli/internal/format"
	"civic-cli/internal/geo"
	"civic-cli/internal/logging"
	"civic-cli/internal/model"
	"civic-cli/internal/session"
	"civic-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ServerURL  string
	PrettyJSON bool
	Format     string

	cfg config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "civic",
		Short:        "Civic issue reporting CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  civic

  # Scriptable commands
  civic login --username kari
  civic reports list --status submitted
  civic reports submit --title "Pothole on Elm" --category pothole \
      --address "12 Elm St" --lat 59.91 --lng 10.75 --description "Deep one"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive dashboard.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		app.cfg = config.Load()
		if app.ServerURL != "" {
			app.cfg.ServerURL = app.ServerURL
		}
	}

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("CIVIC_SERVER", ""), "Backend base URL (default from CIVIC_SERVER or http://localhost:8000)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("CIVIC_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newRegisterCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newReportsCmd(app))
	cmd.AddCommand(newLocateCmd(app))
	cmd.AddCommand(newAnalyticsCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// newClient wires the authenticated API client from config + session.
// The returned closer flushes the debug log, if one is configured.
func newClient(app *App) (*api.Client, func(), error) {
	log, closer, err := logging.New(app.cfg.DebugLogPath)
	if err != nil {
		return nil, nil, err
	}
	sess := session.Store{}
	c := api.New(app.cfg.ServerURL, sess, app.cfg.HTTPTimeout, log)
	return c, closer, nil
}

func runTUI(app *App) error {
	c, closer, err := newClient(app)
	if err != nil {
		return err
	}
	defer closer()

	profile := c.Session.Profile()
	if profile == nil {
		return fmt.Errorf("not logged in; run `civic login` first")
	}
	return tui.Run(tui.Deps{
		API:      c,
		Cache:    cache.Cache{},
		Locator:  geo.NewLocator(app.cfg.GeoURL),
		Profile:  profile,
		Username: profile.Username,
	})
}

// requireProfile is the guard for authenticated commands: a cached
// profile means a session file exists. The request itself may still
// come back 401 and go through the refresh path.
func requireProfile(c *api.Client) (*model.UserProfile, error) {
	p := c.Session.Profile()
	if p == nil {
		return nil, fmt.Errorf("not logged in; run `civic login` first")
	}
	return p, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
