// Package domain holds the typed contracts shared between the web
// layer and the backend API client. The JSON shapes mirror the backend
// models exactly; nothing here is persisted locally.
package domain

import "strings"

// Unit is a measurement unit accepted by the assessment endpoint.
type Unit string

const (
	UnitKilograms Unit = "kg"
	UnitGrams     Unit = "g"
	UnitPounds    Unit = "lbs"
	UnitKM        Unit = "km"
	UnitMiles     Unit = "miles"
	UnitKWH       Unit = "kWh"
	UnitLiters    Unit = "liters"
	UnitDays      Unit = "days"
	UnitYear      Unit = "year"
)

// Units lists every supported unit in the order the form presents them.
var Units = []Unit{
	UnitKilograms, UnitGrams, UnitPounds, UnitKM,
	UnitMiles, UnitKWH, UnitLiters, UnitDays, UnitYear,
}

// ValidUnit reports whether u is one of the supported units.
func ValidUnit(u Unit) bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// LineItem is one activity/quantity/unit triple submitted for
// assessment. Items are either user-entered or synthesized by the
// onboarding flow.
type LineItem struct {
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Unit     Unit    `json:"unit"`
}

// HasName reports whether the item has a non-empty name after trimming.
func (li LineItem) HasName() bool {
	return strings.TrimSpace(li.ItemName) != ""
}

// AssessRequest is the body of POST /api/assess. UserID is only set in
// demo mode; in the authenticated variant identity rides on the bearer
// token and the field is omitted.
type AssessRequest struct {
	UserID string     `json:"user_id,omitempty"`
	Items  []LineItem `json:"items"`
}

// CategoryResult is the backend's verdict for a single item. Category
// is nil when classification failed; renderers fall back to "Unknown".
type CategoryResult struct {
	ItemName    string   `json:"item_name"`
	Category    *string  `json:"category"`
	CO2eKg      float64  `json:"co2e_kg"`
	Suggestions []string `json:"suggestions"`
}

// CategoryLabel returns the category or "Unknown" when absent.
func (r CategoryResult) CategoryLabel() string {
	if r.Category == nil || *r.Category == "" {
		return "Unknown"
	}
	return *r.Category
}

// AssessResponse is the full result set for one submission. A new
// response fully replaces any previous one; it is never merged.
type AssessResponse struct {
	UserID      string           `json:"user_id,omitempty"`
	TotalCO2eKg float64          `json:"total_co2e_kg"`
	Results     []CategoryResult `json:"results"`
	Timestamp   string           `json:"timestamp"`
}

// DashboardStats is the aggregate view returned by
// GET /api/dashboard/stats.
type DashboardStats struct {
	TotalCO2eKg        float64            `json:"total_co2e_kg"`
	ByCategory         map[string]float64 `json:"by_category"`
	EquivalentKmDriven float64            `json:"equivalent_km_driven"`
}

// TrendPoint is one day of emissions history.
type TrendPoint struct {
	Date   string  `json:"date"`
	CO2eKg float64 `json:"co2e_kg"`
}

// TrendsResponse is returned by GET /api/dashboard/trends.
type TrendsResponse struct {
	Trends []TrendPoint `json:"trends"`
}

// GoalPeriod is the time window a reduction goal covers.
type GoalPeriod string

const (
	PeriodWeekly  GoalPeriod = "weekly"
	PeriodMonthly GoalPeriod = "monthly"
	PeriodYearly  GoalPeriod = "yearly"
)

// GoalPeriods lists the selectable periods.
var GoalPeriods = []GoalPeriod{PeriodWeekly, PeriodMonthly, PeriodYearly}

// ValidGoalPeriod reports whether p is a selectable period.
func ValidGoalPeriod(p GoalPeriod) bool {
	for _, known := range GoalPeriods {
		if p == known {
			return true
		}
	}
	return false
}

// Goal is a user-declared CO2e ceiling. The backend keeps at most one
// active goal per user; an archived goal has EndDate set.
type Goal struct {
	ID         int64      `json:"id"`
	UserID     string     `json:"user_id"`
	TargetCO2e float64    `json:"target_co2e"`
	Period     GoalPeriod `json:"period"`
	StartDate  string     `json:"start_date"`
	EndDate    *string    `json:"end_date"`
}

// Archived reports whether the goal has been closed out.
func (g Goal) Archived() bool {
	return g.EndDate != nil && *g.EndDate != ""
}

// GoalCreateRequest is the body of POST /api/goals/. UserID is only
// set in demo mode.
type GoalCreateRequest struct {
	UserID     string     `json:"user_id,omitempty"`
	TargetCO2e float64    `json:"target_co2e"`
	Period     GoalPeriod `json:"period"`
}

// FootprintRecord is one stored assessment row as it appears in the
// privacy export.
type FootprintRecord struct {
	ID                       int64    `json:"id"`
	UserID                   string   `json:"user_id"`
	ItemName                 string   `json:"item_name"`
	Category                 *string  `json:"category"`
	ClassificationConfidence float64  `json:"classification_confidence"`
	Quantity                 float64  `json:"quantity"`
	Unit                     string   `json:"unit"`
	CO2eKg                   float64  `json:"co2e_kg"`
	Suggestions              []string `json:"suggestions"`
	CreatedAt                string   `json:"created_at"`
}

// ExportData is everything the backend stores about a user, returned
// by GET /api/privacy/export. Preferences and memory logs are opaque
// backend records; they are passed through untouched.
type ExportData struct {
	Footprints  []FootprintRecord `json:"footprints"`
	Goals       []Goal            `json:"goals"`
	Preferences []map[string]any  `json:"preferences"`
	MemoryLogs  []map[string]any  `json:"memory_logs"`
}

// DeleteAck acknowledges DELETE /api/privacy/data.
type DeleteAck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// DailyQuote is the inspiration card content from GET /api/quotes/daily.
type DailyQuote struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Tip    string `json:"tip"`
}

// UserProfile is the backend's view of the signed-in user from
// GET /api/user/me.
type UserProfile struct {
	ID                  int64  `json:"id"`
	ClerkID             string `json:"clerk_id"`
	Email               string `json:"email"`
	Name                string `json:"name"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	CreatedAt           string `json:"created_at"`
	LastLogin           string `json:"last_login"`
}
