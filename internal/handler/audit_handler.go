package handler

import (
	"net/http"

	"staffadmin/internal/middleware"
	"staffadmin/internal/permission"
	"staffadmin/internal/service"
	"staffadmin/pkg/pagination"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	resolver     *permission.Resolver
}

func NewAuditHandler(auditService service.AuditService, resolver *permission.Resolver) *AuditHandler {
	return &AuditHandler{auditService: auditService, resolver: resolver}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(
		middleware.RequireAPISession(),
		middleware.RequireAction(h.resolver, permission.ModuleUserManagement, permission.GroupActions, permission.ActionView),
	)
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs lists role and user changes, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Security     SessionCookie
// @Produce      json
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Items per page (default 20)"
// @Param        q      query     string  false  "Exact action, e.g. DELETE_ROLE"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), listParams(p))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(logs, total, p))
}
