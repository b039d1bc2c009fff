// Package reports holds the client-side view of a fetched report list:
// the full collection, the current filter selectors, and the dashboard
// counts. Lists are small; every recompute is a full O(n) pass.
package reports

import "civic-cli/internal/model"

// Filter is the pair of selectors. Empty means no constraint.
type Filter struct {
	Status   model.Status
	Category model.Category
}

func (f Filter) matches(r model.Report) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	return true
}

// Counts summarizes the UNFILTERED collection; it never moves with the
// selectors.
type Counts struct {
	Total    int                  `json:"total"`
	ByStatus map[model.Status]int `json:"by_status"`
}

// Collection is the in-memory report list plus its filter state.
type Collection struct {
	all    []model.Report
	Filter Filter
}

// SetReports replaces the full list (one call per load). The filter
// selectors survive a reload.
func (c *Collection) SetReports(rs []model.Report) {
	c.all = rs
}

// All returns the unfiltered list in source order.
func (c *Collection) All() []model.Report {
	return c.all
}

// Apply returns the subset satisfying both selectors, source order
// preserved. Always recomputed in full; no partial caching.
func (c *Collection) Apply() []model.Report {
	out := make([]model.Report, 0, len(c.all))
	for _, r := range c.all {
		if c.Filter.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Counts aggregates over the full list regardless of selectors: it is a
// dashboard summary, not a view of the filtered subset. Known statuses
// are always present (zero included) so rendering is stable.
func (c *Collection) Counts() Counts {
	by := make(map[model.Status]int, len(model.Statuses))
	for _, s := range model.Statuses {
		by[s] = 0
	}
	for _, r := range c.all {
		by[r.Status]++
	}
	return Counts{Total: len(c.all), ByStatus: by}
}
