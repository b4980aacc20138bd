package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates employee analytics. Widgets the viewer may not
// see are left nil and omitted from JSON.
type DashboardSummary struct {
	Widgets              []string         `json:"widgets"`
	TotalEmployees       *int64           `json:"totalEmployees,omitempty"`
	GenderDistribution   map[string]int   `json:"genderDistribution,omitempty"`
	PositionDistribution map[string]int   `json:"positionDistribution,omitempty"`
	AverageAge           *decimal.Decimal `json:"averageAge,omitempty"`
	AverageServiceYears  *decimal.Decimal `json:"averageServiceYears,omitempty"`
	RecentEmployees      []EmployeeBrief  `json:"recentEmployees,omitempty"`
	GeneratedAt          time.Time        `json:"generatedAt"`
}

// EmployeeBrief is the short form used by dashboard lists
type EmployeeBrief struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	JoinDate string `json:"joinDate"`
}

// UpcomingBirthday is one entry of the birthday widget
type UpcomingBirthday struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Birthday  string `json:"birthday"`
	DaysUntil int    `json:"daysUntil"`
	TurnsAge  int    `json:"turnsAge"`
}
