package handler

import (
	"net/http"

	"staffadmin/internal/middleware"
	"staffadmin/internal/permission"
	"staffadmin/internal/service"
	"staffadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService service.RoleService
	resolver    *permission.Resolver
}

func NewRoleHandler(roleService service.RoleService, resolver *permission.Resolver) *RoleHandler {
	return &RoleHandler{roleService: roleService, resolver: resolver}
}

func (h *RoleHandler) RegisterRoutes(router *gin.RouterGroup) {
	view := middleware.RequireAction(h.resolver, permission.ModuleUserManagement, permission.GroupActions, permission.ActionView)
	edit := middleware.RequireAction(h.resolver, permission.ModuleUserManagement, permission.GroupActions, permission.ActionEdit)
	del := middleware.RequireAction(h.resolver, permission.ModuleUserManagement, permission.GroupActions, permission.ActionDelete)

	roles := router.Group("/api/roles")
	roles.Use(middleware.RequireAPISession())
	{
		roles.GET("", view, h.ListRoles)
		roles.GET("/:id", view, h.GetRole)
		roles.POST("", edit, h.CreateRole)
		roles.PUT("/:id", edit, h.UpdateRole)
		roles.PUT("/:id/permissions", edit, h.UpdateRolePermissions)
		roles.DELETE("/:id", del, h.DeleteRole)
	}

	// Permission editor template
	perms := router.Group("/api/permissions")
	perms.Use(middleware.RequireAPISession(), view)
	{
		perms.GET("", h.ListPermissions)
	}
}

// ListRoles returns all roles with their permissions
// @Summary      List roles
// @Tags         roles
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  response.Response{data=[]service.RoleResponse}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(roles))
}

// GetRole returns a single role by ID
// @Summary      Get role
// @Tags         roles
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Role ID"
// @Success      200  {object}  response.Response{data=service.RoleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/roles/{id} [get]
func (h *RoleHandler) GetRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	role, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(role))
}

// CreateRole creates a new role with its permission document
// @Summary      Create role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        payload  body      service.CreateRoleRequest  true  "Role"
// @Success      201      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(role))
}

// UpdateRole renames a role or changes its description, color, status or permissions
// @Summary      Update role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id       path      int                        true  "Role ID"
// @Param        payload  body      service.UpdateRoleRequest  true  "Changes"
// @Success      200      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.roleService.UpdateRole(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(role))
}

// UpdateRolePermissions replaces the permission document of a role
// @Summary      Replace role permissions
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id       path      int                                   true  "Role ID"
// @Param        payload  body      service.UpdateRolePermissionsRequest  true  "Permissions"
// @Success      200      {object}  response.Response{data=service.RoleResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/roles/{id}/permissions [put]
func (h *RoleHandler) UpdateRolePermissions(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.roleService.UpdateRolePermissions(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(role))
}

// DeleteRole removes a role that has no users assigned
// @Summary      Delete role
// @Tags         roles
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Role ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.roleService.DeleteRole(c.Request.Context(), currentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message("Role deleted successfully"))
}

// ListPermissions returns a document with every known key enabled, used by
// the permission editor as its template
// @Summary      Permission template
// @Tags         roles
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  response.Response
// @Router       /api/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(permission.FullAccess()))
}
