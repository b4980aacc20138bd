package handler

import (
	"net/http"
	"strconv"

	"staffadmin/internal/middleware"
	"staffadmin/internal/service"
	"staffadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.RequireAPISession())
	{
		dashboard.GET("/summary", h.GetSummary)
		dashboard.GET("/birthdays", h.GetUpcomingBirthdays)
	}
}

// GetSummary returns the dashboard widgets visible to the caller
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  response.Response{data=model.DashboardSummary}
// @Failure      403  {object}  response.Response
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.dashboardService.GetSummary(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(summary))
}

// GetUpcomingBirthdays lists birthdays within the next days (default 30)
// @Summary      Upcoming birthdays
// @Tags         dashboard
// @Produce      json
// @Security     SessionCookie
// @Param        days  query     int  false  "Window in days, 0-366"
// @Success      200   {object}  response.Response{data=[]model.UpcomingBirthday}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /api/dashboard/birthdays [get]
func (h *DashboardHandler) GetUpcomingBirthdays(c *gin.Context) {
	days := service.DefaultBirthdayWindow
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Error("days must be an integer"))
			return
		}
		days = n
	}

	birthdays, err := h.dashboardService.GetUpcomingBirthdays(c.Request.Context(), currentActor(c), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(birthdays))
}
