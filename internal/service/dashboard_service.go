package service

import (
	"context"
	"math"
	"sort"
	"time"

	"staffadmin/internal/model"
	"staffadmin/internal/permission"
	"staffadmin/internal/repository"
	"staffadmin/pkg/apperror"

	"github.com/shopspring/decimal"
)

const (
	DefaultBirthdayWindow = 30
	MaxBirthdayWindow     = 366
	recentEmployeesLimit  = 5
)

type DashboardService interface {
	GetSummary(ctx context.Context, actor *Actor) (*model.DashboardSummary, error)
	GetUpcomingBirthdays(ctx context.Context, actor *Actor, days int) ([]model.UpcomingBirthday, error)
}

type dashboardService struct {
	repo     repository.EmployeeRepository
	resolver *permission.Resolver
	now      func() time.Time
}

func NewDashboardService(repo repository.EmployeeRepository, resolver *permission.Resolver) DashboardService {
	if resolver == nil {
		resolver = permission.Default
	}
	return &dashboardService{repo: repo, resolver: resolver, now: time.Now}
}

// GetSummary computes every widget the caller can see over all employees.
func (s *dashboardService) GetSummary(ctx context.Context, actor *Actor) (*model.DashboardSummary, error) {
	if actor == nil {
		return nil, errNoSession
	}
	widgets := s.resolver.DashboardWidgets(actor.Permissions, actor.Role)
	if len(widgets) == 0 {
		return nil, apperror.NewForbidden("You do not have access to the dashboard")
	}

	employees, total, err := s.repo.List(ctx, repository.EmployeeFilter{})
	if err != nil {
		return nil, internalError("list employees for dashboard", err)
	}

	now := s.now()
	summary := &model.DashboardSummary{Widgets: widgets, GeneratedAt: now}
	for _, w := range widgets {
		switch w {
		case permission.WidgetTotalEmployees:
			summary.TotalEmployees = &total
		case permission.WidgetGenderDistribution:
			summary.GenderDistribution = distribution(employees, model.Genders, func(e *model.Employee) string { return e.Gender })
		case permission.WidgetPositionDistribution:
			summary.PositionDistribution = distribution(employees, model.Positions, func(e *model.Employee) string { return e.Position })
		case permission.WidgetAverageAge:
			avg := average(employees, func(e *model.Employee) int { return e.Age(now) })
			summary.AverageAge = &avg
		case permission.WidgetAverageServiceYears:
			avg := average(employees, func(e *model.Employee) int { return e.ServiceYears(now) })
			summary.AverageServiceYears = &avg
		case permission.WidgetRecentEmployees:
			summary.RecentEmployees = recentHires(employees, recentEmployeesLimit)
		}
	}
	return summary, nil
}

// GetUpcomingBirthdays lists birthdays from today through today+days.
func (s *dashboardService) GetUpcomingBirthdays(ctx context.Context, actor *Actor, days int) ([]model.UpcomingBirthday, error) {
	if actor == nil {
		return nil, errNoSession
	}
	if !s.resolver.Field(actor.Permissions, actor.Role, permission.ModuleDashboard, permission.GroupLists, permission.WidgetUpcomingBirthdays).Visible {
		return nil, apperror.NewForbidden("You do not have access to upcoming birthdays")
	}
	if days < 0 || days > MaxBirthdayWindow {
		return nil, apperror.NewValidation("days must be between 0 and %d", MaxBirthdayWindow)
	}

	employees, _, err := s.repo.List(ctx, repository.EmployeeFilter{})
	if err != nil {
		return nil, internalError("list employees for birthdays", err)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	out := make([]model.UpcomingBirthday, 0)
	for i := range employees {
		e := &employees[i]
		if e.DOB.IsZero() {
			continue
		}
		next := e.NextBirthday(now)
		until := int(math.Round(next.Sub(today).Hours() / 24))
		if until > days {
			continue
		}
		out = append(out, model.UpcomingBirthday{
			ID:        e.ID,
			Name:      e.Name,
			Birthday:  next.Format(DateLayout),
			DaysUntil: until,
			TurnsAge:  next.Year() - e.DOB.Year(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func distribution(employees []model.Employee, keys []string, key func(*model.Employee) string) map[string]int {
	out := make(map[string]int, len(keys))
	for _, k := range keys {
		out[k] = 0
	}
	for i := range employees {
		out[key(&employees[i])]++
	}
	return out
}

// average is rounded to one decimal place; zero for an empty set.
func average(employees []model.Employee, value func(*model.Employee) int) decimal.Decimal {
	if len(employees) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for i := range employees {
		sum = sum.Add(decimal.NewFromInt(int64(value(&employees[i]))))
	}
	return sum.Div(decimal.NewFromInt(int64(len(employees)))).Round(1)
}

func recentHires(employees []model.Employee, limit int) []model.EmployeeBrief {
	sorted := make([]model.Employee, len(employees))
	copy(sorted, employees)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].JoinDate.Equal(sorted[j].JoinDate) {
			return sorted[i].JoinDate.After(sorted[j].JoinDate)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]model.EmployeeBrief, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, model.EmployeeBrief{ID: e.ID, Name: e.Name, Position: e.Position, JoinDate: e.JoinDate.Format(DateLayout)})
	}
	return out
}
