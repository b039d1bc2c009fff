package cli

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"civic-cli/internal/api"
	"civic-cli/internal/cache"
	"civic-cli/internal/geo"
	"civic-cli/internal/model"
	"civic-cli/internal/reports"

	"github.com/spf13/cobra"
)

func newReportsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Report commands",
	}

	cmd.AddCommand(newReportsListCmd(app))
	cmd.AddCommand(newReportsShowCmd(app))
	cmd.AddCommand(newReportsSubmitCmd(app))
	cmd.AddCommand(newReportsUpdateCmd(app))
	cmd.AddCommand(newReportsCountsCmd(app))

	return cmd
}

// fetchReports is the shared list path: citizens get their own reports,
// admins the full set. --cached reads the offline snapshot instead of
// the network.
func fetchReports(ctx context.Context, c *api.Client, p *model.UserProfile, cached bool, q api.ReportQuery) ([]model.Report, error) {
	if cached {
		rs, _, err := cache.Cache{}.Get(ctx, p.Username)
		if err != nil {
			return nil, err
		}
		return rs, nil
	}

	var (
		rs  []model.Report
		err error
	)
	if p.IsAdmin() {
		rs, err = c.Reports(ctx, q)
	} else {
		rs, err = c.UserReports(ctx)
	}
	if err != nil {
		return nil, err
	}
	// Keep the snapshot fresh; best-effort.
	_ = cache.Cache{}.Put(ctx, p.Username, rs)
	return rs, nil
}

func newReportsListCmd(app *App) *cobra.Command {
	var status string
	var category string
	var cached bool
	var near string
	var radius float64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reports (yours, or all for admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			p, err := requireProfile(c)
			if err != nil {
				return writeErr(cmd, err)
			}

			var q api.ReportQuery
			if near != "" {
				lat, lng, err := parseLatLng(near)
				if err != nil {
					return writeErr(cmd, err)
				}
				q.Latitude, q.Longitude, q.HasCoords = lat, lng, true
				q.RadiusKm = radius
			}

			rs, err := fetchReports(cmd.Context(), c, p, cached, q)
			if err != nil {
				return writeErr(cmd, err)
			}

			// Selector semantics match the dashboard: applied locally,
			// over the already-fetched set.
			col := reports.Collection{Filter: reports.Filter{
				Status:   model.Status(status),
				Category: model.Category(category),
			}}
			col.SetReports(rs)
			return writeOut(cmd, app, col.Apply())
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status code (submitted|in_progress|resolved|rejected)")
	cmd.Flags().StringVar(&category, "category", "", "Filter by category code")
	cmd.Flags().BoolVar(&cached, "cached", false, "Read the offline snapshot instead of the network")
	cmd.Flags().StringVar(&near, "near", "", "Admin: only reports near \"lat,lng\"")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Radius in km for --near")
	return cmd
}

func newReportsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			if _, err := requireProfile(c); err != nil {
				return writeErr(cmd, err)
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, errors.New("report id must be a number"))
			}
			r, err := c.Report(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, r)
		},
	}
}

func newReportsSubmitCmd(app *App) *cobra.Command {
	var draft model.ReportDraft
	var priority string
	var category string
	var locate bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			if _, err := requireProfile(c); err != nil {
				return writeErr(cmd, err)
			}

			draft.Category = model.Category(category)
			draft.Priority = model.Priority(priority)

			if locate && draft.Latitude == 0 && draft.Longitude == 0 {
				if coords, err := geo.NewLocator(app.cfg.GeoURL).Locate(cmd.Context()); err == nil {
					draft.Latitude = coords.Latitude
					draft.Longitude = coords.Longitude
					if draft.Address == "" && coords.City != "" {
						draft.Address = coords.City
					}
				}
				// Lookup failure is not fatal; validation will complain
				// if the draft still has no usable location.
			}

			r, err := c.CreateReport(cmd.Context(), draft)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, r)
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "Short summary")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Full description")
	cmd.Flags().StringVar(&category, "category", "", "Category code (pothole|trash|streetlight|water|drainage|road|other)")
	cmd.Flags().StringVar(&draft.Address, "address", "", "Street address")
	cmd.Flags().Float64Var(&draft.Latitude, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&draft.Longitude, "lng", 0, "Longitude")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority (low|medium|high|urgent)")
	cmd.Flags().StringVar(&draft.Image, "image", "", "Image URL")
	cmd.Flags().BoolVar(&locate, "locate", false, "Fill missing coordinates from IP geolocation")
	return cmd
}

func newReportsUpdateCmd(app *App) *cobra.Command {
	var status string
	var priority string
	var assignTo int
	var department int

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a report's triage fields (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			if _, err := requireProfile(c); err != nil {
				return writeErr(cmd, err)
			}
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return writeErr(cmd, errors.New("report id must be a number"))
			}

			var upd api.ReportUpdate
			if status != "" {
				s := model.Status(status)
				if !s.Known() {
					return writeErr(cmd, errors.New("unknown status: "+status))
				}
				upd.Status = &s
			}
			if priority != "" {
				p := model.Priority(priority)
				if !p.Known() {
					return writeErr(cmd, errors.New("unknown priority: "+priority))
				}
				upd.Priority = &p
			}
			if cmd.Flags().Changed("assign-to") {
				upd.AssignedTo = &assignTo
			}
			if cmd.Flags().Changed("department") {
				upd.Department = &department
			}
			if upd == (api.ReportUpdate{}) {
				return writeErr(cmd, errors.New("nothing to update"))
			}

			r, err := c.UpdateReport(cmd.Context(), id, upd)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, r)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New status code")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority code")
	cmd.Flags().IntVar(&assignTo, "assign-to", 0, "Assignee user id")
	cmd.Flags().IntVar(&department, "department", 0, "Department id")
	return cmd
}

func newReportsCountsCmd(app *App) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Status counts over your reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, closer, err := newClient(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closer()

			p, err := requireProfile(c)
			if err != nil {
				return writeErr(cmd, err)
			}
			rs, err := fetchReports(cmd.Context(), c, p, cached, api.ReportQuery{})
			if err != nil {
				return writeErr(cmd, err)
			}

			var col reports.Collection
			col.SetReports(rs)
			return writeOut(cmd, app, col.Counts())
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Read the offline snapshot instead of the network")
	return cmd
}

func parseLatLng(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, errors.New(`--near expects "lat,lng"`)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, errors.New("invalid latitude in --near")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, errors.New("invalid longitude in --near")
	}
	return lat, lng, nil
}
