package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"civic-cli/internal/model"
)

// TokenLogin obtains a JWT pair and persists it together with the user
// profile, establishing the session.
func (c *Client) TokenLogin(ctx context.Context, username, password string) (*model.UserProfile, error) {
	var pair model.TokenPair
	err := c.postUnauth(ctx, "/api/auth/token/", map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	if err != nil {
		return nil, err
	}
	if err := c.Session.SetTokens(pair.Access, pair.Refresh); err != nil {
		return nil, err
	}
	profile, err := c.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Session.SetProfile(profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// SessionLogin authenticates the cookie channel. The resulting session
// cookie lives in the client's jar; it backs server-rendered surfaces
// and is independent of the JWT pair.
func (c *Client) SessionLogin(ctx context.Context, username, password string) (model.Role, error) {
	var out struct {
		OK   bool       `json:"ok"`
		Role model.Role `json:"role"`
	}
	err := c.postUnauth(ctx, "/auth/session-login/", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	if !out.OK {
		return "", fmt.Errorf("login rejected")
	}
	return out.Role, nil
}

// Register creates a citizen account. Validation failures come back as
// FieldErrors.
func (c *Client) Register(ctx context.Context, reg model.Registration) error {
	return c.postUnauth(ctx, "/api/register/", reg, nil)
}

func (c *Client) Profile(ctx context.Context) (*model.UserProfile, error) {
	var p model.UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/api/user/profile/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UserReports fetches the caller's own reports, newest first (server
// ordering preserved).
func (c *Client) UserReports(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports/user/", nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// ReportQuery narrows the admin-wide listing. Zero values mean no
// constraint; Radius applies only with coordinates set.
type ReportQuery struct {
	Status    model.Status
	Category  model.Category
	Priority  model.Priority
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	HasCoords bool
}

func (q ReportQuery) encode() string {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Category != "" {
		v.Set("category", string(q.Category))
	}
	if q.Priority != "" {
		v.Set("priority", string(q.Priority))
	}
	if q.HasCoords {
		v.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
		v.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
		if q.RadiusKm > 0 {
			v.Set("radius", strconv.FormatFloat(q.RadiusKm, 'f', -1, 64))
		}
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Reports lists reports visible to the caller. Citizens see their own;
// admins see everything, optionally narrowed by query.
func (c *Client) Reports(ctx context.Context, q ReportQuery) ([]model.Report, error) {
	var reports []model.Report
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports/"+q.encode(), nil, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Client) Report(ctx context.Context, id int) (*model.Report, error) {
	var r model.Report
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/reports/%d/", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) CreateReport(ctx context.Context, draft model.ReportDraft) (*model.Report, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	var r model.Report
	if err := c.doJSON(ctx, http.MethodPost, "/api/reports/", draft, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ReportUpdate is the admin triage payload; nil fields are untouched.
type ReportUpdate struct {
	Status     *model.Status   `json:"status,omitempty"`
	Priority   *model.Priority `json:"priority,omitempty"`
	AssignedTo *int            `json:"assigned_to,omitempty"`
	Department *int            `json:"assigned_department,omitempty"`
}

func (c *Client) UpdateReport(ctx context.Context, id int, upd ReportUpdate) (*model.Report, error) {
	var r model.Report
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/reports/%d/", id), upd, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Analytics is admin-only; non-admins get a permission error from the
// server, surfaced as-is.
func (c *Client) Analytics(ctx context.Context) (*model.Analytics, error) {
	var a model.Analytics
	if err := c.doJSON(ctx, http.MethodGet, "/api/reports/analytics/", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
