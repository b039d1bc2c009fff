package model

import "time"

type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// Statuses lists the known status codes in triage order.
var Statuses = []Status{StatusSubmitted, StatusInProgress, StatusResolved, StatusRejected}

var statusLabels = map[Status]string{
	StatusSubmitted:  "Submitted",
	StatusInProgress: "In Progress",
	StatusResolved:   "Resolved",
	StatusRejected:   "Rejected",
}

func (s Status) Known() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display label. Unknown codes come back as the raw
// code so a server-side addition never breaks rendering.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var priorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

func (p Priority) Known() bool {
	_, ok := priorityLabels[p]
	return ok
}

func (p Priority) Label() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return string(p)
}

type Category string

const (
	CategoryPothole     Category = "pothole"
	CategoryTrash       Category = "trash"
	CategoryStreetlight Category = "streetlight"
	CategoryWater       Category = "water"
	CategoryDrainage    Category = "drainage"
	CategoryRoad        Category = "road"
	CategoryOther       Category = "other"
)

var Categories = []Category{
	CategoryPothole, CategoryTrash, CategoryStreetlight, CategoryWater,
	CategoryDrainage, CategoryRoad, CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryPothole:     "Pothole",
	CategoryTrash:       "Trash/Waste Management",
	CategoryStreetlight: "Street Light",
	CategoryWater:       "Water Supply",
	CategoryDrainage:    "Drainage",
	CategoryRoad:        "Road Maintenance",
	CategoryOther:       "Other",
}

func (c Category) Known() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

// Report is the list-serializer wire shape. Read-only on this side:
// the server owns every field.
type Report struct {
	ID                 int        `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Category           Category   `json:"category"`
	CategoryDisplay    string     `json:"category_display,omitempty"`
	Status             Status     `json:"status"`
	StatusDisplay      string     `json:"status_display,omitempty"`
	Priority           Priority   `json:"priority"`
	PriorityDisplay    string     `json:"priority_display,omitempty"`
	Latitude           float64    `json:"latitude,string"`
	Longitude          float64    `json:"longitude,string"`
	Address            string     `json:"address,omitempty"`
	Image              string     `json:"image,omitempty"`
	ReportedBy         string     `json:"reported_by,omitempty"`
	AssignedDepartment string     `json:"assigned_department,omitempty"`
	AssignedTo         string     `json:"assigned_to,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at,omitempty"`
	ResolvedAt         *time.Time `json:"resolved_at,omitempty"`
	DaysSinceSubmitted int        `json:"days_since_submitted,omitempty"`
}

// StatusLabel prefers the server-provided display string and falls back
// to the local label table (which itself falls back to the raw code).
func (r Report) StatusLabel() string {
	if r.StatusDisplay != "" {
		return r.StatusDisplay
	}
	return r.Status.Label()
}

func (r Report) PriorityLabel() string {
	if r.PriorityDisplay != "" {
		return r.PriorityDisplay
	}
	return r.Priority.Label()
}

func (r Report) CategoryLabel() string {
	if r.CategoryDisplay != "" {
		return r.CategoryDisplay
	}
	return r.Category.Label()
}

// Editable reports whether the reporting citizen may still change the
// report. Editing closes the moment triage starts.
func (r Report) Editable() bool {
	return r.Status == StatusSubmitted
}

type UserProfile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      Role   `json:"role"`
	Phone     string `json:"phone_number,omitempty"`
}

func (u UserProfile) IsAdmin() bool { return u.Role == RoleAdmin }

func (u UserProfile) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	return name
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone_number,omitempty"`
}

type Hotspot struct {
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Count      int      `json:"count"`
	Categories []string `json:"categories"`
}

type ActivityEntry struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Category   Category  `json:"category"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	ReportedBy string    `json:"reported_by"`
}

type MonthlyTrend struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Analytics struct {
	TotalReports        int             `json:"total_reports"`
	ReportsByStatus     map[string]int  `json:"reports_by_status"`
	ReportsByCategory   map[string]int  `json:"reports_by_category"`
	AvgResponseTimeDays float64         `json:"avg_response_time_days"`
	Hotspots            []Hotspot       `json:"hotspots"`
	RecentActivity      []ActivityEntry `json:"recent_activity"`
	MonthlyTrends       []MonthlyTrend  `json:"monthly_trends"`
}
