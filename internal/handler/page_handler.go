package handler

import (
	"net/http"

	"staffadmin/internal/middleware"
	"staffadmin/internal/permission"
	"staffadmin/internal/service"

	"github.com/gin-gonic/gin"
)

// PageDescriptor tells the front end which page to render and what the
// signed-in user may see on it.
type PageDescriptor struct {
	Page    string               `json:"page"`
	Session *service.SessionView `json:"session,omitempty"`
	Visible bool                 `json:"visible"`
}

type PageHandler struct {
	authService service.AuthService
	resolver    *permission.Resolver
}

func NewPageHandler(authService service.AuthService, resolver *permission.Resolver) *PageHandler {
	if resolver == nil {
		resolver = permission.Default
	}
	return &PageHandler{authService: authService, resolver: resolver}
}

func (h *PageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") })
	router.GET("/login", middleware.RedirectIfAuthenticated(), h.Login)

	pages := router.Group("")
	pages.Use(middleware.RequirePageSession())
	{
		pages.GET("/dashboard", h.page("dashboard", h.dashboardVisible))
		pages.GET("/employees", h.page("employees", h.listVisible(permission.ModuleEmployeeManagement, "employees")))
		pages.GET("/users", h.page("users", h.listVisible(permission.ModuleUserManagement, permission.ListUsers)))
		pages.GET("/roles", h.page("roles", h.listVisible(permission.ModuleUserManagement, permission.ListRoles)))
	}
}

func (h *PageHandler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, PageDescriptor{Page: "login", Visible: true})
}

func (h *PageHandler) page(name string, visible func(view service.SessionView) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := h.authService.Describe(middleware.CurrentSession(c))
		c.JSON(http.StatusOK, PageDescriptor{Page: name, Session: &view, Visible: visible(view)})
	}
}

func (h *PageHandler) dashboardVisible(view service.SessionView) bool {
	return len(view.DashboardWidgets) > 0
}

func (h *PageHandler) listVisible(m permission.Module, key string) func(service.SessionView) bool {
	return func(view service.SessionView) bool {
		return h.resolver.Field(view.User.Permissions, view.User.Role, m, permission.GroupLists, key).Visible
	}
}
