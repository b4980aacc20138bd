package handler

import (
	"errors"
	"net/http"

	"staffadmin/internal/middleware"
	"staffadmin/internal/preference"
	"staffadmin/pkg/apperror"
	"staffadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type PreferenceHandler struct {
	store preference.Store
}

func NewPreferenceHandler(store preference.Store) *PreferenceHandler {
	return &PreferenceHandler{store: store}
}

func (h *PreferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	prefs := router.Group("/api/preferences")
	prefs.Use(middleware.RequireAPISession())
	{
		prefs.GET("", h.GetPreferences)
		prefs.PUT("", h.UpdatePreferences)
	}
}

// GetPreferences returns the caller's stored UI preferences
// @Summary      Get preferences
// @Tags         preferences
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  response.Response
// @Router       /api/preferences [get]
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	values, err := h.store.Get(c.Request.Context(), middleware.CurrentSession(c).UserID)
	if err != nil {
		respondError(c, apperror.NewInternal("Internal server error").Wrap(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(values))
}

// UpdatePreferences merges the given keys; an empty value removes a key
// @Summary      Update preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        payload  body      map[string]string  true  "Preferences"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /api/preferences [put]
func (h *PreferenceHandler) UpdatePreferences(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		respondBindError(c, err)
		return
	}

	userID := middleware.CurrentSession(c).UserID
	if err := h.store.Set(c.Request.Context(), userID, values); err != nil {
		if errors.Is(err, preference.ErrInvalid) {
			respondError(c, apperror.NewValidation("%s", err.Error()))
			return
		}
		respondError(c, apperror.NewInternal("Internal server error").Wrap(err))
		return
	}

	updated, err := h.store.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, apperror.NewInternal("Internal server error").Wrap(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(updated))
}
