package handler

import (
	"net/http"

	"staffadmin/internal/middleware"
	"staffadmin/internal/permission"
	"staffadmin/internal/service"
	"staffadmin/pkg/pagination"
	"staffadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	resolver    *permission.Resolver
}

// NewUserHandler sets up the routing dependencies for User endpoints
func NewUserHandler(userService service.UserService, resolver *permission.Resolver) *UserHandler {
	return &UserHandler{userService: userService, resolver: resolver}
}

func (h *UserHandler) action(key string) gin.HandlerFunc {
	return middleware.RequireAction(h.resolver, permission.ModuleUserManagement, permission.GroupActions, key)
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/api/users")
	users.Use(middleware.RequireAPISession())
	{
		users.GET("", h.action(permission.ActionView), h.ListUsers)
		users.GET("/:id", h.action(permission.ActionView), h.GetUserByID)
		users.POST("", h.action(permission.ActionCreate), h.CreateUser)
		users.PUT("/:id", h.action(permission.ActionEdit), h.UpdateUser)
		users.DELETE("/:id", h.action(permission.ActionDelete), h.DeleteUser)
	}
}

// CreateUser handles POST /api/users
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        payload  body      service.CreateUserRequest  true  "User"
// @Success      201      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(user))
}

// ListUsers handles GET /api/users with page, limit and q
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Param        page   query     int     false  "Page number (default 1)"
// @Param        limit  query     int     false  "Items per page (default 20)"
// @Param        q      query     string  false  "Name or email contains"
// @Success      200    {object}  response.Response{data=response.Page}
// @Router       /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	p := pagination.Parse(c)

	users, total, err := h.userService.ListUsers(c.Request.Context(), listParams(p))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(users, total, p))
}

// GetUserByID handles GET /api/users/:id
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(user))
}

// UpdateUser handles PUT /api/users/:id
// @Summary      Update user
// @Description  Replaces name, email and role; password only when given
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id       path      int                        true  "User ID"
// @Param        payload  body      service.UpdateUserRequest  true  "User"
// @Success      200      {object}  response.Response{data=service.UserResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(user))
}

// DeleteUser handles DELETE /api/users/:id
// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(c.Request.Context(), currentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message("User deleted successfully"))
}
