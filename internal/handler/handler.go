// Package handler exposes the services over HTTP with gin.
package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"staffadmin/internal/middleware"
	"staffadmin/internal/repository"
	"staffadmin/internal/service"
	"staffadmin/pkg/apperror"
	"staffadmin/pkg/pagination"
	"staffadmin/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondError answers with the AppError's status and message. Anything else
// is logged and reported as a bare 500.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		if appErr.Code >= http.StatusInternalServerError {
			slog.Error("request failed", "path", c.FullPath(), "request_id", middleware.RequestID(c), "error", err)
		}
		c.AbortWithStatusJSON(appErr.Code, response.Error(appErr.Message))
		return
	}
	slog.Error("unhandled error", "path", c.FullPath(), "request_id", middleware.RequestID(c), "error", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("Internal server error"))
}

// respondBindError turns a binding failure into a 400 naming the first bad field.
func respondBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, response.Error(bindMessage(err)))
}

func bindMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Invalid request payload"
	}
	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Field())
	case "position":
		return fmt.Sprintf("%s must be one of Super, Leader, Account Department, Operation", fe.Field())
	case "gender":
		return fmt.Sprintf("%s must be Male or Female", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, response.Error("Invalid ID"))
		return 0, false
	}
	return uint(id), true
}

func currentActor(c *gin.Context) *service.Actor {
	return service.ActorFromSession(middleware.CurrentSession(c))
}

func listParams(p pagination.Params) repository.ListParams {
	return repository.ListParams{Offset: p.Offset, Limit: p.Limit, Search: p.Search}
}

func page(items any, total int64, p pagination.Params) response.Response {
	return response.Success(response.Page{Items: items, Total: total, Page: p.Page, Limit: p.Limit})
}
