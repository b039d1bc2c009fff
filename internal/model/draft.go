package model

import (
	"fmt"
	"strings"
)

// ReportDraft is a new report before submission. The server validates
// again; validating here keeps the failure local and the message exact.
type ReportDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Address     string   `json:"address"`
	Priority    Priority `json:"priority"`
	Image       string   `json:"image,omitempty"`
}

// Validate mirrors the server's create endpoint: required fields,
// coordinate ranges, category from the choice table. An unknown priority
// is not an error; it degrades to medium, like the server does.
func (d *ReportDraft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(string(d.Category)) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(d.Address) == "" {
		missing = append(missing, "address")
	}
	// Both coordinates are required. The exact 0,0 pair marks them unset:
	// it is open ocean, not a reportable street address.
	if d.Latitude == 0 && d.Longitude == 0 {
		missing = append(missing, "latitude", "longitude")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	if d.Latitude < -90 || d.Latitude > 90 {
		return fmt.Errorf("invalid latitude value")
	}
	if d.Longitude < -180 || d.Longitude > 180 {
		return fmt.Errorf("invalid longitude value")
	}
	if !d.Category.Known() {
		return fmt.Errorf("invalid category: %s", d.Category)
	}
	if !d.Priority.Known() {
		d.Priority = PriorityMedium
	}
	return nil
}
