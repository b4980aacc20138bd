package handler

import (
	"net/http"
	"strings"

	"staffadmin/internal/middleware"
	"staffadmin/internal/model"
	"staffadmin/internal/service"
	"staffadmin/pkg/pagination"
	"staffadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
}

// NewEmployeeHandler builds the handler. Action and field checks live in the
// service because they depend on the record's owner.
func NewEmployeeHandler(employeeService service.EmployeeService) *EmployeeHandler {
	RegisterValidators()
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) RegisterRoutes(router *gin.RouterGroup) {
	employees := router.Group("/api/employees")
	employees.Use(middleware.RequireAPISession())
	{
		employees.GET("", h.ListEmployees)
		employees.POST("", h.CreateEmployee)
		employees.GET("/export", h.ExportEmployees)
		employees.POST("/bulk-delete", h.BulkDeleteEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
	}
}

// ListEmployees returns employees projected to the caller's readable fields
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     SessionCookie
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Items per page (default 20)"
// @Param        q         query     string  false  "Name contains"
// @Param        position  query     string  false  "Exact position"
// @Success      200       {object}  response.Response{data=response.Page}
// @Failure      403       {object}  response.Response
// @Router       /api/employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	p := pagination.Parse(c)
	position := strings.TrimSpace(c.Query("position"))
	if position != "" && !model.IsValidPosition(position) {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Error("position must be one of Super, Leader, Account Department, Operation"))
		return
	}

	views, total, err := h.employeeService.List(c.Request.Context(), currentActor(c), service.EmployeeListQuery{
		ListParams: listParams(p),
		Position:   position,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page(views, total, p))
}

// GetEmployee returns one employee
// @Summary      Get employee
// @Tags         employees
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.employeeService.Get(c.Request.Context(), currentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(view))
}

// CreateEmployee adds an employee owned by the caller
// @Summary      Create employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        payload  body      service.EmployeeRequest  true  "Employee"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	view, err := h.employeeService.Create(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(view))
}

// UpdateEmployee changes the sent fields; each must be writable
// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id       path      int                      true  "Employee ID"
// @Param        payload  body      service.EmployeeRequest  true  "Changes"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	view, err := h.employeeService.Update(c.Request.Context(), currentActor(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(view))
}

// DeleteEmployee removes one employee
// @Summary      Delete employee
// @Tags         employees
// @Produce      json
// @Security     SessionCookie
// @Param        id   path      int  true  "Employee ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/employees/{id} [delete]
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.employeeService.Delete(c.Request.Context(), currentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Message("Employee deleted successfully"))
}

// BulkDeleteEmployees removes every listed employee within reach
// @Summary      Bulk delete employees
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        payload  body      service.BulkDeleteRequest  true  "IDs"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/employees/bulk-delete [post]
func (h *EmployeeHandler) BulkDeleteEmployees(c *gin.Context) {
	var req service.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	deleted, err := h.employeeService.BulkDelete(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(gin.H{"deleted": deleted}))
}

// ExportEmployees streams an xlsx file of the readable columns
// @Summary      Export employees
// @Tags         employees
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     SessionCookie
// @Success      200  {file}    file
// @Failure      403  {object}  response.Response
// @Router       /api/employees/export [get]
func (h *EmployeeHandler) ExportEmployees(c *gin.Context) {
	file, err := h.employeeService.Export(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, service.ExportContentType, file.Content)
}
