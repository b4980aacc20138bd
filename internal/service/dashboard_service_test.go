package service

import (
	"context"
	"testing"
	"time"

	"staffadmin/internal/model"
	"staffadmin/internal/permission"
	"staffadmin/internal/repository"
	"staffadmin/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEmployees(t *testing.T, repo repository.EmployeeRepository) {
	t.Helper()
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	rows := []model.Employee{
		{Name: "Aye", JoinDate: day(2020, 1, 1), Position: model.PositionLeader, Gender: model.GenderFemale, DOB: day(1990, 6, 5)},
		{Name: "Bo", JoinDate: day(2022, 3, 1), Position: model.PositionOperation, Gender: model.GenderMale, DOB: day(1995, 6, 1)},
		{Name: "Cho", JoinDate: day(2023, 9, 1), Position: model.PositionOperation, Gender: model.GenderFemale, DOB: day(2000, 12, 25)},
	}
	for i := range rows {
		require.NoError(t, repo.Create(context.Background(), &rows[i]))
	}
}

func newDashboardService(t *testing.T, now time.Time) DashboardService {
	repo := repository.NewMemoryEmployeeRepository()
	seedEmployees(t, repo)
	svc := NewDashboardService(repo, nil)
	svc.(*dashboardService).now = func() time.Time { return now }
	return svc
}

func TestDashboardService_SummaryForAdministrator(t *testing.T) {
	svc := newDashboardService(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))

	summary, err := svc.GetSummary(context.Background(), adminActor())
	require.NoError(t, err)
	assert.Equal(t, permission.DashboardWidgetKeys, summary.Widgets)
	require.NotNil(t, summary.TotalEmployees)
	assert.EqualValues(t, 3, *summary.TotalEmployees)
	assert.Equal(t, map[string]int{"Male": 1, "Female": 2}, summary.GenderDistribution)
	assert.Equal(t, 2, summary.PositionDistribution[model.PositionOperation])
	assert.Equal(t, 0, summary.PositionDistribution[model.PositionSuper])

	// ages 33, 29, 23 -> 28.3; service years 4, 2, 0 -> 2
	require.NotNil(t, summary.AverageAge)
	assert.Equal(t, "28.3", summary.AverageAge.String())
	assert.Equal(t, "2", summary.AverageServiceYears.String())
	require.Len(t, summary.RecentEmployees, 3)
	assert.Equal(t, "Cho", summary.RecentEmployees[0].Name)
}

func TestDashboardService_SummaryHonoursWidgets(t *testing.T) {
	svc := newDashboardService(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	actor := &Actor{UserID: 5, Role: "Staff", Permissions: mustDoc(t, `{"dashboard":{"lists":{"totalEmployees":true,"averageAge":{"read":false,"write":true}}}}`)}

	summary, err := svc.GetSummary(context.Background(), actor)
	require.NoError(t, err)
	assert.Equal(t, []string{permission.WidgetTotalEmployees}, summary.Widgets)
	assert.NotNil(t, summary.TotalEmployees)
	assert.Nil(t, summary.AverageAge)
	assert.Nil(t, summary.GenderDistribution)

	_, err = svc.GetSummary(context.Background(), &Actor{UserID: 6, Role: "Guest"})
	assertAppError(t, err, apperror.TypeForbidden, "")
}

func TestDashboardService_UpcomingBirthdays(t *testing.T) {
	svc := newDashboardService(t, time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC))

	list, err := svc.GetUpcomingBirthdays(context.Background(), adminActor(), 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bo", list[0].Name)
	assert.Equal(t, 0, list[0].DaysUntil)
	assert.Equal(t, 29, list[0].TurnsAge)
	assert.Equal(t, "Aye", list[1].Name)
	assert.Equal(t, 4, list[1].DaysUntil)
	assert.Equal(t, "2024-06-05", list[1].Birthday)

	_, err = svc.GetUpcomingBirthdays(context.Background(), adminActor(), 400)
	assertAppError(t, err, apperror.TypeValidation, "")

	_, err = svc.GetUpcomingBirthdays(context.Background(), &Actor{Role: "Guest"}, 7)
	assertAppError(t, err, apperror.TypeForbidden, "")
}
