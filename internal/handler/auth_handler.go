package handler

import (
	"net/http"
	"time"

	"staffadmin/internal/middleware"
	"staffadmin/internal/service"
	"staffadmin/internal/session"
	"staffadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	sessions    *session.Manager
	loginLimit  int
}

// NewAuthHandler wires the login flow. loginLimit caps login attempts per
// client IP per minute; zero disables the limit.
func NewAuthHandler(authService service.AuthService, sessions *session.Manager, loginLimit int) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, loginLimit: loginLimit}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/api/auth")
	{
		login := []gin.HandlerFunc{h.Login}
		if h.loginLimit > 0 {
			login = append([]gin.HandlerFunc{middleware.RateLimitByIP(h.loginLimit, time.Minute)}, login...)
		}
		auth.POST("/login", login...)
		auth.POST("/logout", h.Logout)
		auth.GET("/session", middleware.RequireAPISession(), h.Session)
		auth.POST("/refresh", middleware.RequireAPISession(), h.Refresh)
	}
}

type loginResponse struct {
	Success   bool                `json:"success"`
	User      service.SessionUser `json:"user"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

// Login checks credentials and sets the session cookie
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  loginResponse
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.sessions.SetCookie(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusOK, loginResponse{Success: true, User: result.User, ExpiresAt: result.ExpiresAt})
}

// Logout clears the session cookie. It succeeds without a session too.
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, response.Message("Logged out successfully"))
}

// Session returns the current session with the digested employee policy
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  response.Response{data=service.SessionView}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(h.authService.Describe(middleware.CurrentSession(c))))
}

// Refresh re-issues the session cookie with a fresh expiry
// @Summary      Refresh session
// @Tags         auth
// @Produce      json
// @Security     SessionCookie
// @Success      200  {object}  loginResponse
// @Failure      401  {object}  response.Response
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	result, err := h.authService.Refresh(c.Request.Context(), session.FromRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.sessions.SetCookie(c, result.Token, result.ExpiresAt)
	c.JSON(http.StatusOK, loginResponse{Success: true, User: result.User, ExpiresAt: result.ExpiresAt})
}
